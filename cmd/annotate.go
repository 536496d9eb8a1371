package cmd

import (
	"fmt"

	"github.com/mj1618/agentation/internal/output"
	"github.com/spf13/cobra"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <fixture>",
	Short: "Run a capture session headlessly and export its feedback",
	Long: `Start a session on the host, attach each --note to the element under its
point and print the export. Notes on the same element update it in place.

Examples:
  agentation annotate testdata/login.yaml --note "100,525=Make the button blue"
  agentation annotate testdata/login.yaml --note "30,110=Typo" --export json --copy`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	annotateCmd.Flags().StringArray("note", nil, "Feedback as x,y=text (repeatable)")
	annotateCmd.Flags().String("export", "", "Export format: markdown, json (default: config)")
	annotateCmd.Flags().Bool("group-by-screen", false, "Group markdown items under per-screen headings")
	annotateCmd.Flags().Bool("copy", false, "Also copy the export to the clipboard")
	addCaptureFlags(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetStringArray("note")
	if len(raw) == 0 {
		return fmt.Errorf("at least one --note is required")
	}
	notes := make([]note, 0, len(raw))
	for _, r := range raw {
		n, err := parseNote(r)
		if err != nil {
			return err
		}
		notes = append(notes, n)
	}

	app, err := loadApp(args[0])
	if err != nil {
		return err
	}
	a := newAgent(app)
	if err := applyCaptureFlags(cmd, a); err != nil {
		return err
	}
	if cmd.Flags().Changed("export") {
		f, _ := cmd.Flags().GetString("export")
		format, err := output.ParseExportFormat(f)
		if err != nil {
			return err
		}
		a.SetOutputFormat(format)
	}
	if cmd.Flags().Changed("group-by-screen") {
		v, _ := cmd.Flags().GetBool("group-by-screen")
		a.SetGroupByScreen(v)
	}

	if err := annotate(cmd.Context(), a, notes); err != nil {
		return err
	}
	a.Stop()

	var text string
	if copyOut, _ := cmd.Flags().GetBool("copy"); copyOut {
		text, _ = a.CopyFeedback()
	} else {
		text, _ = a.FormatFeedback(a.OutputFormat(), a.GroupByScreen())
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
