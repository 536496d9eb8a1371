package cmd

import (
	"fmt"
	"os"

	"github.com/mj1618/agentation/internal/config"
	"github.com/mj1618/agentation/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Print(cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath == "" {
			return fmt.Errorf("no config path; pass --config")
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(cfgPath); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
		}
		if err := config.Save(cfgPath, config.Default()); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cfgPath)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}
