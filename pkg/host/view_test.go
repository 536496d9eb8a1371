package host

import (
	"testing"

	"github.com/mj1618/agentation/internal/model"
)

func newTestApp() (*App, *Window, *View, *View) {
	app := NewApp(model.Size{Width: 375, Height: 812})
	win := NewWindow("UIWindow", model.R(0, 0, 375, 812))
	container := NewView("UIView", model.R(10, 20, 300, 300))
	label := NewView("UILabel", model.R(5, 5, 100, 40))
	container.AddSubview(label)
	win.Root().AddSubview(container)
	app.AddWindow(win)
	return app, win, container, label
}

func TestScreenFrame_AccumulatesOrigins(t *testing.T) {
	_, _, _, label := newTestApp()
	got := label.ScreenFrame()
	want := model.R(15, 25, 100, 40)
	if got != want {
		t.Errorf("ScreenFrame = %+v, want %+v", got, want)
	}
}

func TestScreenFrame_WindowOriginAndScrollOffset(t *testing.T) {
	app := NewApp(model.Size{Width: 800, Height: 600})
	win := NewWindow("NSWindow", model.R(100, 50, 400, 400))
	scroll := NewView("UIScrollView", model.R(0, 0, 400, 400))
	scroll.ContentOffset = model.Point{X: 0, Y: 30}
	row := NewView("UITableViewCell", model.R(0, 100, 400, 44))
	scroll.AddSubview(row)
	win.Root().AddSubview(scroll)
	app.AddWindow(win)

	got := row.ScreenFrame()
	want := model.R(100, 120, 400, 44)
	if got != want {
		t.Errorf("ScreenFrame = %+v, want %+v", got, want)
	}
}

func TestWindow_DetachedViewHasNoWindow(t *testing.T) {
	_, win, container, label := newTestApp()
	if label.Window() != win {
		t.Fatal("expected label to be attached to window")
	}
	container.RemoveFromSuperview()
	if label.Window() != nil {
		t.Error("expected detached subtree to report no window")
	}
	win.Root().AddSubview(container)
	if label.Window() != win {
		t.Error("expected reattached subtree to report its window")
	}
}

func TestWindow_RemovedWindowDetachesViews(t *testing.T) {
	app, win, _, label := newTestApp()
	app.RemoveWindow(win)
	if label.Window() != nil {
		t.Error("views of a removed window should not report a window")
	}
}

func TestAddSubview_Reparents(t *testing.T) {
	_, win, container, label := newTestApp()
	win.Root().AddSubview(label)
	if label.Superview() != win.Root() {
		t.Error("expected label to move to root")
	}
	if len(container.Subviews()) != 0 {
		t.Errorf("expected old parent to lose child, has %d", len(container.Subviews()))
	}
}

func TestOwningScreen(t *testing.T) {
	_, win, container, label := newTestApp()
	win.PushScreen("HomeViewController")
	if got := label.OwningScreen(); got != "HomeViewController" {
		t.Errorf("OwningScreen = %q, want window top screen", got)
	}
	container.Screen = "CardViewController"
	if got := label.OwningScreen(); got != "CardViewController" {
		t.Errorf("OwningScreen = %q, want nearest ancestor screen", got)
	}
}

func TestWindow_ScreenStack(t *testing.T) {
	_, win, _, _ := newTestApp()
	win.PushScreen("HomeViewController")
	win.PushScreen("DetailViewController")
	if got := win.TopScreen(); got != "DetailViewController" {
		t.Errorf("TopScreen = %q", got)
	}
	win.PopScreen()
	if got := win.TopScreen(); got != "HomeViewController" {
		t.Errorf("TopScreen after pop = %q", got)
	}
}

func TestApp_MakeKey(t *testing.T) {
	app, win, _, _ := newTestApp()
	sheet := NewWindow("UIWindow", model.R(0, 0, 375, 812))
	app.AddWindow(sheet)
	app.MakeKey(sheet)
	if app.KeyWindow() != sheet || win.Key {
		t.Error("MakeKey should move key status to the new window")
	}
}

func TestApp_WindowsOrderedByLevel(t *testing.T) {
	app := NewApp(model.Size{Width: 100, Height: 100})
	top := NewWindow("Alert", model.R(0, 0, 100, 100))
	top.Level = 10
	main := NewWindow("UIWindow", model.R(0, 0, 100, 100))
	app.AddWindow(top)
	app.AddWindow(main)
	ws := app.Windows()
	if ws[0] != main || ws[1] != top {
		t.Error("expected windows ordered by level")
	}
}

func TestApp_ResignFirstResponder(t *testing.T) {
	app, _, _, label := newTestApp()
	app.Focus(label)
	if prev := app.ResignFirstResponder(); prev != label {
		t.Errorf("ResignFirstResponder returned %v, want label", prev)
	}
	if app.FirstResponder() != nil {
		t.Error("expected no first responder")
	}
}
