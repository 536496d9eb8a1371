package main

import "github.com/mj1618/agentation/cmd"

func main() {
	cmd.Execute()
}
