package cmd

import (
	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/output"
	"github.com/mj1618/agentation/internal/platform"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture <fixture>",
	Short: "Capture the flattened element hierarchy of a host",
	Long: `Walk the host described by a fixture and print its leaf elements with ids,
types, display names, screen frames and location paths.

Examples:
  agentation capture testdata/login.yaml
  agentation capture testdata/login.yaml --source accessibility --format json
  agentation capture testdata/login.yaml --type button,input --text login`,
	Args: cobra.ExactArgs(1),
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	addCaptureFlags(captureCmd)
	captureCmd.Flags().String("type", "", "Comma-separated short types to keep (e.g. button,input)")
	captureCmd.Flags().String("text", "", "Keep elements whose name or path contains text")
	captureCmd.Flags().String("region", "", "Keep elements intersecting x,y,w,h")
}

func runCapture(cmd *cobra.Command, args []string) error {
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
	res := output.NewCaptureResult(snap)

	var region *model.Rect
	if rs, _ := cmd.Flags().GetString("region"); rs != "" {
		r, err := platform.ParseRect(rs)
		if err != nil {
			return err
		}
		region = &r
	}
	types, _ := cmd.Flags().GetString("type")
	text, _ := cmd.Flags().GetString("text")
	res.Elements = model.FilterElements(res.Elements, splitList(types), region)
	res.Elements = model.FilterByText(res.Elements, text)
	return output.Print(res)
}
