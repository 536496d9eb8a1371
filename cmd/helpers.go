package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/overlay"
	"github.com/mj1618/agentation/internal/platform"
	"github.com/mj1618/agentation/pkg/agentation"
	"github.com/mj1618/agentation/pkg/host"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadApp builds the host app described by the fixture at path.
func loadApp(path string) (*host.App, error) {
	app, err := host.LoadFixture(path)
	if err != nil {
		return nil, fmt.Errorf("load fixture: %w", err)
	}
	return app, nil
}

// newAgent returns a facade configured from the loaded config and installed
// into app. The system clipboard is used when available.
func newAgent(app *host.App, opts ...agentation.Option) *agentation.Agentation {
	provider, err := platform.NewProvider(cfg.StatePath)
	if err != nil {
		logger.Debug("system services unavailable, using memory", zap.Error(err))
		provider = platform.NewMemoryProvider()
	}
	opts = append([]agentation.Option{
		agentation.WithLogger(logger),
		agentation.WithProvider(provider),
		agentation.WithConfig(cfg),
	}, opts...)
	a := agentation.New(opts...)
	a.Install(app)
	return a
}

// addCaptureFlags registers the flags that pick how the hierarchy is walked.
func addCaptureFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "Data source: view, accessibility (default: config)")
	cmd.Flags().Bool("include-hidden", false, "Include hidden and transparent elements")
	cmd.Flags().Bool("include-system", false, "Include system-injected windows")
}

// applyCaptureFlags applies explicitly set capture flags on top of the
// config.
func applyCaptureFlags(cmd *cobra.Command, a *agentation.Agentation) error {
	if cmd.Flags().Changed("source") {
		src, _ := cmd.Flags().GetString("source")
		kind, err := model.ParseSourceType(src)
		if err != nil {
			return err
		}
		if err := a.SetDataSource(kind); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("include-hidden") {
		v, _ := cmd.Flags().GetBool("include-hidden")
		a.SetIncludeHiddenElements(v)
	}
	if cmd.Flags().Changed("include-system") {
		v, _ := cmd.Flags().GetBool("include-system")
		a.SetIncludeSystemViews(v)
	}
	return nil
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseEvent parses "phase@x,y", e.g. "hover@30,110".
func parseEvent(s string) (overlay.Event, error) {
	phase, at, ok := strings.Cut(s, "@")
	if !ok {
		return overlay.Event{}, fmt.Errorf("invalid event %q (expected phase@x,y)", s)
	}
	ph, err := platform.ParsePointerPhase(phase)
	if err != nil {
		return overlay.Event{}, err
	}
	p, err := platform.ParsePoint(at)
	if err != nil {
		return overlay.Event{}, err
	}
	return overlay.Event{Phase: ph, Point: p}, nil
}

// note is one --note value: feedback text for the element at a point.
type note struct {
	At   model.Point
	Text string
}

// parseNote parses "x,y=text".
func parseNote(s string) (note, error) {
	at, text, ok := strings.Cut(s, "=")
	if !ok {
		return note{}, fmt.Errorf("invalid note %q (expected x,y=text)", s)
	}
	p, err := platform.ParsePoint(at)
	if err != nil {
		return note{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return note{}, fmt.Errorf("note at %s has no text", at)
	}
	return note{At: p, Text: text}, nil
}

// annotate starts a session on a and attaches each note.
func annotate(ctx context.Context, a *agentation.Agentation, notes []note) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	for _, n := range notes {
		if _, ok := a.AddFeedback(n.At, n.Text); !ok {
			return fmt.Errorf("no element at %g,%g", n.At.X, n.At.Y)
		}
	}
	return nil
}
