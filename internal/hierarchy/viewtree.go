package hierarchy

import (
	"context"
	"fmt"

	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/pkg/host"
	"go.uber.org/zap"
)

// ViewTree captures the render tree: every visible view of every app window.
type ViewTree struct {
	app  *host.App
	opts Options
	reg  *registry
}

// NewViewTree returns a view-tree data source over app.
func NewViewTree(app *host.App, opts Options) *ViewTree {
	return &ViewTree{app: app, opts: opts.withDefaults(), reg: newRegistry(screenFrame)}
}

// Kind implements DataSource.
func (s *ViewTree) Kind() model.SourceType { return model.SourceViewHierarchy }

// Resolve implements DataSource.
func (s *ViewTree) Resolve(id model.ElementID) (model.Rect, bool) { return s.reg.resolve(id) }

// Capture implements DataSource.
func (s *ViewTree) Capture(ctx context.Context) (*model.HierarchySnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("capture view tree: %w", err)
	}
	s.reg.reset()
	windows := captureWindows(s.app, s.opts.IncludeSystemViews)
	page := pageName(s.app)

	var roots []model.Node
	for _, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("capture view tree: %w", err)
		}
		roots = append(roots, s.inspect(w.Root(), "", page, 0, true))
	}

	snap := &model.HierarchySnapshot{
		LeafElements: model.LeafElements(roots),
		CapturedAt:   s.opts.Now(),
		SourceType:   model.SourceViewHierarchy,
		ViewportSize: viewportSize(windows),
		PageName:     page,
		Relinked:     s.reg.takeRelinked(),
	}
	s.opts.Logger.Debug("captured view tree",
		zap.Int("windows", len(windows)),
		zap.Int("nodes", model.CountNodes(roots)),
		zap.Int("leaves", len(snap.LeafElements)),
		zap.Int("relinked", len(snap.Relinked)),
	)
	return snap, nil
}

func (s *ViewTree) inspect(v *host.View, parentPath, page string, depth int, root bool) model.Node {
	path := parentPath
	if !root {
		path = model.JoinPath(parentPath, model.PathComponent(v.Tag, v.Identifier, v.Label, v.TypeName))
	}
	screen := v.OwningScreen()
	if screen == "" {
		screen = page
	}

	var children []model.Node
	if depth < s.opts.MaxDepth {
		for _, sub := range v.Subviews() {
			if !visible(sub, s.opts.IncludeHidden) {
				continue
			}
			children = append(children, s.inspect(sub, path, page, depth+1, false))
		}
	}

	return model.Node{
		Element: model.SnapshotElement{
			ID:          s.reg.add(v),
			DisplayName: model.DisplayName(v.Label, v.Identifier, v.Tag, v.TypeName),
			ShortType:   model.ShortType(v.TypeName),
			Frame:       v.ScreenFrame(),
			Path:        model.JoinPath(screen, path),
		},
		Children: children,
	}
}
