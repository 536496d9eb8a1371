// Package toolbar implements the floating capture control: a draggable
// trigger that expands into a control bar while a session is active.
package toolbar

import (
	"math"

	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/platform"
	"go.uber.org/zap"
)

// Geometry of the control.
const (
	CollapsedSize  = 44.0
	ExpandedWidth  = 300.0
	ExpandedHeight = 44.0
	// EdgeMargin is the gap kept from the screen edge at rest.
	EdgeMargin = 16.0
	// DragMargin is the closest a drag may bring the control to an edge.
	DragMargin = 8.0
	// dragSlop is how far a press must travel before it counts as a drag.
	dragSlop = 4.0
)

// PositionKey is the store key holding the persisted trigger position.
const PositionKey = "agentation.toolbar.position"

// Action is what a tap on the toolbar asks the controller to do.
type Action int

const (
	ActionNone Action = iota
	ActionStart
	ActionTogglePause
	ActionPreview
	ActionCopy
	ActionClear
	ActionSettings
	ActionClose
)

func (a Action) String() string {
	switch a {
	case ActionStart:
		return "start"
	case ActionTogglePause:
		return "toggle-pause"
	case ActionPreview:
		return "preview"
	case ActionCopy:
		return "copy"
	case ActionClear:
		return "clear"
	case ActionSettings:
		return "settings"
	case ActionClose:
		return "close"
	default:
		return "none"
	}
}

// Button is one control of the expanded bar.
type Button struct {
	Action Action
	Title  string
	Frame  model.Rect
}

var buttonActions = []Action{
	ActionTogglePause, ActionPreview, ActionCopy, ActionClear, ActionSettings, ActionClose,
}

// Toolbar holds the control's state. Positions are screen coordinates of
// the collapsed trigger's origin; the expanded bar shares its vertical
// position and is centered horizontally.
type Toolbar struct {
	screen   model.Size
	origin   model.Point
	expanded bool
	visible  bool
	paused   bool

	pressing   bool
	dragging   bool
	pressStart model.Point
	pressFrom  model.Point

	store  platform.KVStore
	logger *zap.Logger
}

// New creates a visible, collapsed toolbar at its persisted position, or the
// bottom-right corner when none is stored or the stored value is corrupt.
func New(screen model.Size, store platform.KVStore, logger *zap.Logger) *Toolbar {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Toolbar{screen: screen, visible: true, store: store, logger: logger}
	t.origin = t.defaultOrigin()
	if p, ok := t.loadPosition(); ok {
		t.origin = t.clamp(p, EdgeMargin)
	}
	return t
}

func (t *Toolbar) defaultOrigin() model.Point {
	return model.Point{
		X: t.screen.Width - CollapsedSize - EdgeMargin,
		Y: t.screen.Height - CollapsedSize - EdgeMargin,
	}
}

// Frame returns the toolbar's current screen frame.
func (t *Toolbar) Frame() model.Rect {
	if t.expanded {
		return model.R((t.screen.Width-ExpandedWidth)/2, t.origin.Y, ExpandedWidth, ExpandedHeight)
	}
	return model.R(t.origin.X, t.origin.Y, CollapsedSize, CollapsedSize)
}

// Origin returns the collapsed trigger's origin.
func (t *Toolbar) Origin() model.Point { return t.origin }

// Expanded reports whether the control bar is showing.
func (t *Toolbar) Expanded() bool { return t.expanded }

// Expand shows the control bar.
func (t *Toolbar) Expand() { t.expanded = true }

// Collapse shows the trigger.
func (t *Toolbar) Collapse() { t.expanded = false }

// Visible reports whether the toolbar is shown.
func (t *Toolbar) Visible() bool { return t.visible }

// Show makes the toolbar visible.
func (t *Toolbar) Show() { t.visible = true }

// Hide hides the toolbar and abandons any press in progress.
func (t *Toolbar) Hide() {
	t.visible = false
	t.PointerCancel()
}

// SetPaused switches the pause button between Pause and Resume.
func (t *Toolbar) SetPaused(paused bool) { t.paused = paused }

// SetScreenSize updates the screen bounds and re-clamps the position.
func (t *Toolbar) SetScreenSize(s model.Size) {
	t.screen = s
	t.origin = t.clamp(t.origin, EdgeMargin)
}

// Contains reports whether p hits the visible toolbar.
func (t *Toolbar) Contains(p model.Point) bool {
	return t.visible && t.Frame().Contains(p)
}

// Buttons lays out the expanded bar's buttons left to right in equal slots.
// It returns nil while collapsed.
func (t *Toolbar) Buttons() []Button {
	if !t.expanded {
		return nil
	}
	f := t.Frame()
	w := f.Width / float64(len(buttonActions))
	out := make([]Button, len(buttonActions))
	for i, a := range buttonActions {
		out[i] = Button{
			Action: a,
			Title:  t.title(a),
			Frame:  model.R(f.X+float64(i)*w, f.Y, w, f.Height),
		}
	}
	return out
}

func (t *Toolbar) title(a Action) string {
	switch a {
	case ActionTogglePause:
		if t.paused {
			return "Resume"
		}
		return "Pause"
	case ActionPreview:
		return "Preview"
	case ActionCopy:
		return "Copy"
	case ActionClear:
		return "Clear"
	case ActionSettings:
		return "Settings"
	case ActionClose:
		return "Close"
	}
	return ""
}

// ActionAt returns what a tap at p triggers.
func (t *Toolbar) ActionAt(p model.Point) Action {
	if !t.Contains(p) {
		return ActionNone
	}
	if !t.expanded {
		return ActionStart
	}
	for _, b := range t.Buttons() {
		if b.Frame.Contains(p) {
			return b.Action
		}
	}
	return ActionNone
}

// PointerDown begins a press. It reports false when p misses the toolbar.
func (t *Toolbar) PointerDown(p model.Point) bool {
	if !t.Contains(p) {
		return false
	}
	t.pressing = true
	t.dragging = false
	t.pressStart = p
	t.pressFrom = t.origin
	return true
}

// PointerMove drags the toolbar once the press has moved past the slop,
// clamping it inside the screen.
func (t *Toolbar) PointerMove(p model.Point) {
	if !t.pressing {
		return
	}
	dx, dy := p.X-t.pressStart.X, p.Y-t.pressStart.Y
	if !t.dragging && math.Hypot(dx, dy) < dragSlop {
		return
	}
	t.dragging = true
	t.origin = t.clamp(model.Point{X: t.pressFrom.X + dx, Y: t.pressFrom.Y + dy}, DragMargin)
}

// PointerUp ends a press. A drag snaps to the nearest horizontal edge and is
// persisted; a tap returns the action under p.
func (t *Toolbar) PointerUp(p model.Point) Action {
	if !t.pressing {
		return ActionNone
	}
	t.pressing = false
	if t.dragging {
		t.dragging = false
		t.snap()
		t.savePosition()
		return ActionNone
	}
	return t.ActionAt(p)
}

// PointerCancel abandons a press without acting on it.
func (t *Toolbar) PointerCancel() {
	if t.dragging {
		t.snap()
	}
	t.pressing = false
	t.dragging = false
}

// Pressing reports whether a press that began on the toolbar is in progress.
func (t *Toolbar) Pressing() bool { return t.pressing }

func (t *Toolbar) size() model.Size {
	if t.expanded {
		return model.Size{Width: ExpandedWidth, Height: ExpandedHeight}
	}
	return model.Size{Width: CollapsedSize, Height: CollapsedSize}
}

func (t *Toolbar) clamp(p model.Point, margin float64) model.Point {
	s := t.size()
	p.X = clampf(p.X, margin, t.screen.Width-CollapsedSize-margin)
	p.Y = clampf(p.Y, margin, t.screen.Height-s.Height-margin)
	return p
}

func (t *Toolbar) snap() {
	center := t.origin.X + CollapsedSize/2
	if center < t.screen.Width/2 {
		t.origin.X = EdgeMargin
	} else {
		t.origin.X = t.screen.Width - CollapsedSize - EdgeMargin
	}
	t.origin = t.clamp(t.origin, EdgeMargin)
}

func clampf(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
