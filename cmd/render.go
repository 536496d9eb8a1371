package cmd

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/mj1618/agentation/internal/overlay"
	"github.com/mj1618/agentation/internal/platform"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var renderCmd = &cobra.Command{
	Use:   "render <fixture>",
	Short: "Render the overlay over a wireframe of the host as a PNG",
	Long: `Start a session, attach each --note, optionally hover a point and draw the
overlay (highlights, badges and toolbar) over a wireframe of the host.

Examples:
  agentation render testdata/login.yaml --out overlay.png
  agentation render testdata/login.yaml --note "100,525=Bigger" --hover 30,110 --scale 3 --out overlay.png
  agentation render testdata/login.yaml --event down@100,525 --event move@30,110 --out overlay.png`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("out", "", "Output PNG path (required)")
	renderCmd.Flags().Float64("scale", 2, "Pixels per point")
	renderCmd.Flags().String("hover", "", "Show the hover highlight at x,y")
	renderCmd.Flags().StringArray("event", nil, "Pointer event to replay as phase@x,y (repeatable)")
	renderCmd.Flags().StringArray("note", nil, "Feedback as x,y=text (repeatable)")
	addCaptureFlags(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		return fmt.Errorf("--out is required")
	}
	scale, _ := cmd.Flags().GetFloat64("scale")
	if scale <= 0 || scale > 8 {
		return fmt.Errorf("--scale must be in (0, 8], got %g", scale)
	}
	raw, _ := cmd.Flags().GetStringArray("note")
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
	if err := annotate(cmd.Context(), a, notes); err != nil {
		return err
	}
	rawEvents, _ := cmd.Flags().GetStringArray("event")
	for _, r := range rawEvents {
		e, err := parseEvent(r)
		if err != nil {
			return err
		}
		a.HandleEvent(e)
	}
	if h, _ := cmd.Flags().GetString("hover"); h != "" {
		p, err := platform.ParsePoint(h)
		if err != nil {
			return err
		}
		a.HandleEvent(overlay.Event{Phase: platform.PointerHover, Point: p})
	}

	size := app.ScreenSize
	img := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(size.Width*scale)), int(math.Ceil(size.Height*scale))))
	drawWireframe(img, a.Session().Snapshot().LeafElements, scale)
	a.Render(img, scale)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("rendered overlay", zap.String("path", out))
	return nil
}
