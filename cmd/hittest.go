package cmd

import (
	"fmt"

	"github.com/mj1618/agentation/internal/output"
	"github.com/mj1618/agentation/internal/platform"
	"github.com/spf13/cobra"
)

var hitTestCmd = &cobra.Command{
	Use:   "hit-test <fixture>",
	Short: "Find the smallest element under a screen point",
	Long: `Capture the host and report the smallest element whose frame contains the
point. Ties go to the element captured first.

Examples:
  agentation hit-test testdata/login.yaml --at 100,525`,
	Args: cobra.ExactArgs(1),
	RunE: runHitTest,
}

func init() {
	rootCmd.AddCommand(hitTestCmd)
	hitTestCmd.Flags().String("at", "", "Point to test as x,y in screen points")
	addCaptureFlags(hitTestCmd)
}

func runHitTest(cmd *cobra.Command, args []string) error {
	at, _ := cmd.Flags().GetString("at")
	if at == "" {
		return fmt.Errorf("--at is required")
	}
	p, err := platform.ParsePoint(at)
	if err != nil {
		return err
	}
	app, err := loadApp(args[0])
	if err != nil {
		return err
	}
	a := newAgent(app)
	if err := applyCaptureFlags(cmd, a); err != nil {
		return err
	}
	snap, err := a.CaptureHierarchy(cmd.Context())
	if err != nil {
		return err
	}
	res := output.HitTestResult{X: p.X, Y: p.Y}
	if el, ok := snap.ElementAt(p); ok {
		res.Found = true
		res.Element = &el
	}
	return output.Print(res)
}
