package hierarchy

import (
	"context"
	"fmt"

	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/pkg/host"
	"go.uber.org/zap"
)

// Accessibility captures the accessibility graph. Descent stops at nodes
// that report themselves as accessibility elements; those become the leaves.
type Accessibility struct {
	app  *host.App
	opts Options
	reg  *registry
}

// NewAccessibility returns an accessibility data source over app.
func NewAccessibility(app *host.App, opts Options) *Accessibility {
	return &Accessibility{app: app, opts: opts.withDefaults(), reg: newRegistry(accessibilityFrame)}
}

// Kind implements DataSource.
func (s *Accessibility) Kind() model.SourceType { return model.SourceAccessibility }

// Resolve implements DataSource.
func (s *Accessibility) Resolve(id model.ElementID) (model.Rect, bool) { return s.reg.resolve(id) }

// Capture implements DataSource.
func (s *Accessibility) Capture(ctx context.Context) (*model.HierarchySnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("capture accessibility tree: %w", err)
	}
	s.reg.reset()
	windows := captureWindows(s.app, s.opts.IncludeSystemViews)
	page := pageName(s.app)

	var leaves []model.SnapshotElement
	for _, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("capture accessibility tree: %w", err)
		}
		s.collect(w.Root(), page, 0, &leaves)
	}

	s.opts.Logger.Debug("captured accessibility tree",
		zap.Int("windows", len(windows)),
		zap.Int("leaves", len(leaves)),
	)
	return &model.HierarchySnapshot{
		LeafElements: leaves,
		CapturedAt:   s.opts.Now(),
		SourceType:   model.SourceAccessibility,
		ViewportSize: viewportSize(windows),
		PageName:     page,
		Relinked:     s.reg.takeRelinked(),
	}, nil
}

func (s *Accessibility) collect(v *host.View, page string, depth int, out *[]model.SnapshotElement) {
	if depth >= s.opts.MaxDepth {
		return
	}
	if v.AccessibilityElement {
		frame := accessibilityFrame(v)
		if frame.IsEmpty() {
			return
		}
		role := model.RoleFromTraits(v.Traits)
		screen := v.OwningScreen()
		if screen == "" {
			screen = page
		}
		*out = append(*out, model.SnapshotElement{
			ID:          s.reg.add(v),
			DisplayName: accessibilityName(v.Label, role),
			ShortType:   model.ShortTypeForRole(role),
			Frame:       frame,
			Path:        model.JoinPath(screen, model.AccessibilityComponent(v.Label, role)),
		})
		return
	}

	if v.AccessibilityChildren != nil {
		for _, child := range v.AccessibilityChildren {
			if child != nil {
				s.collect(child, page, depth+1, out)
			}
		}
		return
	}
	for _, sub := range v.Subviews() {
		if !s.opts.IncludeHidden && (sub.Hidden || sub.Alpha <= 0.01) {
			continue
		}
		s.collect(sub, page, depth+1, out)
	}
}

// accessibilityFrame prefers the node's explicit accessibility frame and
// falls back to its converted bounds.
func accessibilityFrame(v *host.View) model.Rect {
	if v.AccessibilityFrame != (model.Rect{}) {
		return v.AccessibilityFrame
	}
	return v.ScreenFrame()
}

func accessibilityName(label, role string) string {
	switch {
	case label != "":
		return label
	case role != "":
		return role
	}
	return "Element"
}
