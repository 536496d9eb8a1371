// Package hierarchy walks a live host UI tree and flattens it into snapshots
// of tappable leaf elements.
package hierarchy

import (
	"context"
	"fmt"
	"time"

	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/pkg/host"
	"go.uber.org/zap"
)

// DefaultMaxDepth caps recursion on malformed or cyclic trees.
const DefaultMaxDepth = 50

// UnknownPage is the page name used when no key window screen is found.
const UnknownPage = "Unknown"

// DataSource captures snapshots of the live tree and resolves element ids
// from the most recent capture back to live screen frames.
type DataSource interface {
	// Capture walks the tree once. It must run on the UI loop.
	Capture(ctx context.Context) (*model.HierarchySnapshot, error)

	// Resolve returns the current screen frame of an element from the latest
	// capture. It reports false when the node was disposed, detached, or its
	// window left the app.
	Resolve(id model.ElementID) (model.Rect, bool)

	// Kind reports which walk strategy the source uses.
	Kind() model.SourceType
}

// Options control what a capture pass includes.
type Options struct {
	IncludeHidden      bool
	IncludeSystemViews bool
	MaxDepth           int
	Logger             *zap.Logger
	// Now is the clock used for CapturedAt; defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// New returns the data source for kind.
func New(kind model.SourceType, app *host.App, opts Options) (DataSource, error) {
	switch kind {
	case model.SourceViewHierarchy, "":
		return NewViewTree(app, opts), nil
	case model.SourceAccessibility:
		return NewAccessibility(app, opts), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", kind)
	}
}

// captureWindows returns the windows a pass should visit in back-to-front
// order. The overlay window is never included.
func captureWindows(app *host.App, includeSystem bool) []*host.Window {
	if app == nil {
		return nil
	}
	var out []*host.Window
	for _, w := range app.Windows() {
		if w.Overlay {
			continue
		}
		if w.IsSystem() && !includeSystem {
			continue
		}
		out = append(out, w)
	}
	return out
}

// viewportSize is the size of the first captured window.
func viewportSize(windows []*host.Window) model.Size {
	if len(windows) == 0 {
		return model.Size{}
	}
	return windows[0].Frame.Size()
}

// pageName is the key window's visible screen name.
func pageName(app *host.App) string {
	if app == nil {
		return UnknownPage
	}
	w := app.KeyWindow()
	if w == nil {
		return UnknownPage
	}
	if name := w.TopScreen(); name != "" {
		return name
	}
	return UnknownPage
}

// visible reports whether a child should be visited.
func visible(v *host.View, includeHidden bool) bool {
	if v.Frame.IsEmpty() {
		return false
	}
	if includeHidden {
		return true
	}
	return !v.Hidden && v.Alpha > 0.01
}
