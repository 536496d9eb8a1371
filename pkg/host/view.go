// Package host is the retained-mode UI tree the overlay inspects. A platform
// adapter mirrors its native windows and views into these types; all calls
// must happen on the UI loop.
package host

import "github.com/mj1618/agentation/internal/model"

// View is one node of a window's view tree.
type View struct {
	TypeName   string
	Tag        string // developer-assigned tag, highest priority in paths
	Identifier string // accessibility identifier
	Label      string // accessibility label
	Value      string
	Hint       string

	// AccessibilityElement marks the node as an atomic accessibility element;
	// the accessibility walk does not descend below it.
	AccessibilityElement bool
	Traits               model.Traits
	// AccessibilityFrame is in screen coordinates. Zero means "derive from
	// the view's converted bounds".
	AccessibilityFrame model.Rect
	// AccessibilityChildren replaces Subviews for the accessibility walk when
	// non-nil. Entries only resolve while they are attached to a window.
	AccessibilityChildren []*View

	// Screen names the screen/controller whose root view this is.
	Screen string

	// Frame is in the superview's coordinate space.
	Frame         model.Rect
	ContentOffset model.Point
	Hidden        bool
	Alpha         float64

	superview *View
	subviews  []*View
	window    *Window
}

// NewView returns a visible, opaque view.
func NewView(typeName string, frame model.Rect) *View {
	return &View{TypeName: typeName, Frame: frame, Alpha: 1}
}

// Bounds is the view's own coordinate space.
func (v *View) Bounds() model.Rect {
	return model.Rect{X: v.ContentOffset.X, Y: v.ContentOffset.Y, Width: v.Frame.Width, Height: v.Frame.Height}
}

// Superview returns the parent, or nil for a detached view or window root.
func (v *View) Superview() *View { return v.superview }

// Subviews returns the children in back-to-front order.
func (v *View) Subviews() []*View { return v.subviews }

// AddSubview appends child, detaching it from any previous parent.
func (v *View) AddSubview(child *View) {
	if child == nil || child == v {
		return
	}
	child.RemoveFromSuperview()
	child.superview = v
	v.subviews = append(v.subviews, child)
}

// Add is AddSubview returning v for fluent tree construction.
func (v *View) Add(children ...*View) *View {
	for _, c := range children {
		v.AddSubview(c)
	}
	return v
}

// RemoveFromSuperview detaches v from its parent.
func (v *View) RemoveFromSuperview() {
	p := v.superview
	if p == nil {
		return
	}
	for i, c := range p.subviews {
		if c == v {
			p.subviews = append(p.subviews[:i:i], p.subviews[i+1:]...)
			break
		}
	}
	v.superview = nil
}

// Window returns the window the view is attached to, or nil when the view is
// not part of any window (or the window was removed from its app).
func (v *View) Window() *Window {
	root := v
	for root.superview != nil {
		root = root.superview
	}
	w := root.window
	if w == nil || w.app == nil {
		return nil
	}
	return w
}

// ScreenFrame converts the view's bounds to global screen coordinates.
func (v *View) ScreenFrame() model.Rect {
	r := model.Rect{Width: v.Frame.Width, Height: v.Frame.Height}
	node := v
	for node != nil {
		r = r.Offset(node.Frame.X, node.Frame.Y)
		if p := node.superview; p != nil {
			r = r.Offset(-p.ContentOffset.X, -p.ContentOffset.Y)
		} else if node.window != nil {
			r = r.Offset(node.window.Frame.X, node.window.Frame.Y)
		}
		node = node.superview
	}
	return r
}

// OwningScreen returns the nearest screen name among v and its ancestors,
// falling back to the window's top screen.
func (v *View) OwningScreen() string {
	for node := v; node != nil; node = node.superview {
		if node.Screen != "" {
			return node.Screen
		}
	}
	if w := v.Window(); w != nil {
		return w.TopScreen()
	}
	return ""
}

// Walk visits v and its descendants depth-first until fn returns false.
func (v *View) Walk(fn func(*View) bool) bool {
	if !fn(v) {
		return false
	}
	for _, c := range v.subviews {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}
