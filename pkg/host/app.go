package host

import (
	"sort"

	"github.com/mj1618/agentation/internal/model"
)

// System-injected window classes the overlay never captures by default.
const (
	TextEffectsWindowClass    = "UITextEffectsWindow"
	RemoteKeyboardWindowClass = "UIRemoteKeyboardWindow"
)

// Window is a top-level surface with its own view tree.
type Window struct {
	ClassName string
	// Frame is in screen coordinates.
	Frame model.Rect
	Level int
	Key   bool
	// Overlay marks the capture overlay's own window.
	Overlay bool

	root    *View
	screens []string
	app     *App
}

// NewWindow creates a window whose root view fills it.
func NewWindow(className string, frame model.Rect) *Window {
	w := &Window{ClassName: className, Frame: frame}
	w.root = NewView(className, model.Rect{Width: frame.Width, Height: frame.Height})
	w.root.window = w
	return w
}

// Root returns the window's root view.
func (w *Window) Root() *View { return w.root }

// IsSystem reports whether the window is injected by the toolkit itself.
func (w *Window) IsSystem() bool {
	return w.ClassName == TextEffectsWindowClass || w.ClassName == RemoteKeyboardWindowClass
}

// PushScreen presents a screen on top of the window's stack.
func (w *Window) PushScreen(name string) { w.screens = append(w.screens, name) }

// PopScreen dismisses the top screen.
func (w *Window) PopScreen() {
	if len(w.screens) > 0 {
		w.screens = w.screens[:len(w.screens)-1]
	}
}

// TopScreen returns the visible screen name, or the root view's screen.
func (w *Window) TopScreen() string {
	if len(w.screens) > 0 {
		return w.screens[len(w.screens)-1]
	}
	return w.root.Screen
}

// App is the running application: its windows and focus state.
type App struct {
	ScreenSize model.Size

	windows        []*Window
	firstResponder *View
}

// NewApp creates an application with the given screen size.
func NewApp(screen model.Size) *App {
	return &App{ScreenSize: screen}
}

// AddWindow attaches w to the app.
func (a *App) AddWindow(w *Window) {
	if w.app == a {
		return
	}
	w.app = a
	a.windows = append(a.windows, w)
}

// RemoveWindow detaches w; its views stop resolving.
func (a *App) RemoveWindow(w *Window) {
	for i, cur := range a.windows {
		if cur == w {
			a.windows = append(a.windows[:i:i], a.windows[i+1:]...)
			w.app = nil
			return
		}
	}
}

// Windows returns windows ordered back-to-front by level, insertion order
// breaking ties.
func (a *App) Windows() []*Window {
	out := make([]*Window, len(a.windows))
	copy(out, a.windows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}

// KeyWindow returns the key window, ignoring the overlay.
func (a *App) KeyWindow() *Window {
	for _, w := range a.windows {
		if w.Key && !w.Overlay {
			return w
		}
	}
	return nil
}

// MakeKey makes w the key window.
func (a *App) MakeKey(w *Window) {
	for _, cur := range a.windows {
		cur.Key = cur == w
	}
}

// FirstResponder returns the view holding input focus.
func (a *App) FirstResponder() *View { return a.firstResponder }

// Focus gives input focus to v.
func (a *App) Focus(v *View) { a.firstResponder = v }

// ResignFirstResponder clears input focus and returns the view that held it.
func (a *App) ResignFirstResponder() *View {
	prev := a.firstResponder
	a.firstResponder = nil
	return prev
}
