package overlay

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/mj1618/agentation/internal/capture"
	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/platform"
	"github.com/mj1618/agentation/internal/toolbar"
	"github.com/mj1618/agentation/internal/uiloop"
)

type fakeResolver map[model.ElementID]model.Rect

func (f fakeResolver) Resolve(id model.ElementID) (model.Rect, bool) {
	r, ok := f[id]
	return r, ok
}

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	title = model.SnapshotElement{ID: "title", DisplayName: "Title", ShortType: "text", Frame: model.R(20, 100, 200, 40), Path: "/Home > #title"}
	login = model.SnapshotElement{ID: "login", DisplayName: "Log In", ShortType: "button", Frame: model.R(20, 500, 335, 50), Path: "/Home > #login"}
)

func snapshot() *model.HierarchySnapshot {
	return &model.HierarchySnapshot{
		LeafElements: []model.SnapshotElement{title, login},
		SourceType:   model.SourceViewHierarchy,
		ViewportSize: model.Size{Width: 375, Height: 812},
		PageName:     "/Home",
	}
}

type fakeController struct {
	interactive bool
	session     *capture.Session
	refreshes   int
	performed   []toolbar.Action
	changed     int
}

func (c *fakeController) Interactive() bool { return c.interactive }
func (c *fakeController) Session() *capture.Session { return c.session }
func (c *fakeController) Refresh() { c.refreshes++ }
func (c *fakeController) Perform(a toolbar.Action) { c.performed = append(c.performed, a) }
func (c *fakeController) FeedbackChanged() { c.changed++ }

type fakePresenter struct {
	sheets    []Sheet
	done      func(string, bool)
	dismissed int
}

func (p *fakePresenter) PresentFeedback(s Sheet, done func(string, bool)) {
	p.sheets = append(p.sheets, s)
	p.done = done
}
func (p *fakePresenter) PresentPreview(string) {}
func (p *fakePresenter) PresentSettings(Settings, func(Settings)) {}
func (p *fakePresenter) Dismiss() { p.dismissed++ }

func newSurface(t *testing.T) (*Surface, *fakeController, *fakePresenter) {
	t.Helper()
	ctrl := &fakeController{interactive: true, session: capture.New(nil, snapshot(), capture.Options{})}
	pres := &fakePresenter{}
	tb := toolbar.New(model.Size{Width: 375, Height: 812}, nil, nil)
	return NewSurface(ctrl, pres, tb, NewLayer(nil, nil, nil), nil), ctrl, pres
}

func tap(s *Surface, p model.Point) {
	s.HandleEvent(Event{Phase: platform.PointerDown, Point: p})
	s.HandleEvent(Event{Phase: platform.PointerUp, Point: p})
}

func TestLayer_TracksLiveFrames(t *testing.T) {
	frames := uiloop.NewManualFrames()
	live := fakeResolver{"login": model.R(20, 480, 335, 50)}
	l := NewLayer(live, frames, nil)

	item := model.NewFeedbackItem("fb-1", "Too small", login, "/Home", now)
	l.Sync([]model.FeedbackItem{item})

	hs := l.Highlights()
	if len(hs) != 1 || hs[0].Badge != 1 || hs[0].Style != StyleSelected {
		t.Fatalf("highlights = %+v", hs)
	}
	h := hs[0]
	if h.Frame() != model.R(20, 480, 335, 50) {
		t.Errorf("initial frame = %v, want live frame", h.Frame())
	}

	live["login"] = model.R(20, 300, 335, 50)
	frames.Tick()
	if h.Frame() != model.R(20, 300, 335, 50) {
		t.Errorf("frame after tick = %v", h.Frame())
	}

	delete(live, "login")
	frames.Tick()
	if h.Visible() {
		t.Error("highlight should hide when its node leaves the tree")
	}
	if h.Frame() == login.Frame {
		t.Error("tracked highlight fell back to the captured frame")
	}

	live["login"] = model.R(0, 0, 10, 10)
	frames.Tick()
	if !h.Visible() || h.Frame() != model.R(0, 0, 10, 10) {
		t.Errorf("highlight should come back, visible=%v frame=%v", h.Visible(), h.Frame())
	}

	l.Sync(nil)
	if frames.Active() != 0 || l.ActiveTrackers() != 0 {
		t.Errorf("trackers left running: %d", frames.Active())
	}
}

func TestLayer_UntrackedUsesCapturedFrame(t *testing.T) {
	l := NewLayer(fakeResolver{}, nil, nil)
	l.Sync([]model.FeedbackItem{model.NewFeedbackItem("fb-1", "x", login, "", now)})
	h := l.Highlights()[0]
	if !h.Visible() || h.Frame() != login.Frame || h.Tracked() {
		t.Errorf("untracked highlight: visible=%v frame=%v tracked=%v", h.Visible(), h.Frame(), h.Tracked())
	}
}

func TestLayer_SyncRenumbersAndClears(t *testing.T) {
	frames := uiloop.NewManualFrames()
	l := NewLayer(fakeResolver{"title": title.Frame, "login": login.Frame}, frames, nil)
	a := model.NewFeedbackItem("a", "x", title, "", now)
	b := model.NewFeedbackItem("b", "y", login, "", now)
	l.Sync([]model.FeedbackItem{a, b})
	l.Sync([]model.FeedbackItem{b})
	hs := l.Highlights()
	if len(hs) != 1 || hs[0].ElementID != "login" || hs[0].Badge != 1 {
		t.Fatalf("after removal = %+v", hs)
	}
	if frames.Active() != 1 {
		t.Errorf("active trackers = %d, want 1", frames.Active())
	}
	l.ShowHover(title)
	l.Clear()
	if len(l.Highlights()) != 0 || frames.Active() != 0 {
		t.Error("Clear should drop everything and cancel trackers")
	}
}

func TestLayer_HoverSameNodeAcrossCaptures(t *testing.T) {
	l := NewLayer(nil, nil, nil)
	l.ShowHover(title)
	first := l.Highlights()[0]
	again := title
	again.ID = "title-2"
	l.ShowHover(again)
	if l.Highlights()[0] != first {
		t.Error("re-captured node should keep its hover highlight")
	}
	if id, _ := l.Hovered(); id != "title-2" {
		t.Errorf("hovered = %q, want the new id", id)
	}
	l.ShowHover(login)
	if id, _ := l.Hovered(); id != "login" {
		t.Errorf("hovered = %q", id)
	}
}

func TestSurface_HitTest(t *testing.T) {
	s, ctrl, _ := newSurface(t)
	trigger := model.Point{X: 330, Y: 770}
	if got := s.HitTest(trigger); got != TargetToolbar {
		t.Errorf("toolbar point = %v", got)
	}
	if got := s.HitTest(model.Point{X: 50, Y: 50}); got != TargetCapture {
		t.Errorf("capturing point = %v", got)
	}
	ctrl.interactive = false
	if got := s.HitTest(model.Point{X: 50, Y: 50}); got != TargetPassThrough {
		t.Errorf("idle point = %v", got)
	}
	if got := s.HitTest(trigger); got != TargetToolbar {
		t.Errorf("toolbar must stay interactive while idle, got %v", got)
	}
}

func TestSurface_TapAddsFeedback(t *testing.T) {
	s, ctrl, pres := newSurface(t)
	p := model.Point{X: 40, Y: 520}

	s.HandleEvent(Event{Phase: platform.PointerDown, Point: p})
	if ctrl.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1 per touch-down", ctrl.refreshes)
	}
	if id, ok := s.Layer().Hovered(); !ok || id != "login" {
		t.Fatalf("hovered = %q, %v", id, ok)
	}
	s.HandleEvent(Event{Phase: platform.PointerUp, Point: p})
	if len(pres.sheets) != 1 || pres.sheets[0].Element.ID != "login" || pres.sheets[0].Editing {
		t.Fatalf("sheets = %+v", pres.sheets)
	}
	if !s.SheetOpen() {
		t.Error("sheet should be open until answered")
	}
	if got := s.HitTest(p); got != TargetPassThrough {
		t.Errorf("surface should not capture under an open sheet, got %v", got)
	}

	pres.done("  Make this bigger \n", true)
	if s.SheetOpen() {
		t.Error("sheet still open after submit")
	}
	items := ctrl.session.Items()
	if len(items) != 1 || items[0].Text != "Make this bigger" {
		t.Fatalf("items = %+v", items)
	}
	if _, ok := s.Layer().Hovered(); ok {
		t.Error("submit should clear the hover highlight")
	}
	if ctrl.changed != 1 {
		t.Errorf("FeedbackChanged calls = %d", ctrl.changed)
	}
	hs := s.Layer().Highlights()
	if len(hs) != 1 || hs[0].Badge != 1 {
		t.Errorf("highlights = %+v", hs)
	}
}

func TestSurface_TapPrefillsAndUpdates(t *testing.T) {
	s, ctrl, pres := newSurface(t)
	prev := ctrl.session.AddFeedback("old", login)

	tap(s, model.Point{X: 40, Y: 520})
	if sh := pres.sheets[0]; !sh.Editing || sh.Text != "old" {
		t.Fatalf("sheet = %+v", sh)
	}
	pres.done("new", true)
	items := ctrl.session.Items()
	if len(items) != 1 || items[0].ID != prev.ID || items[0].Text != "new" {
		t.Errorf("items = %+v", items)
	}
}

func TestSurface_CancelAndEmptySubmitLeaveState(t *testing.T) {
	s, ctrl, pres := newSurface(t)
	p := model.Point{X: 40, Y: 120}

	tap(s, p)
	pres.done("ignored", false)
	tap(s, p)
	pres.done("   ", true)

	if ctrl.session.Count() != 0 || ctrl.changed != 0 {
		t.Errorf("count = %d changed = %d", ctrl.session.Count(), ctrl.changed)
	}
	if id, ok := s.Layer().Hovered(); !ok || id != "title" {
		t.Errorf("cancel should keep the hover, got %q %v", id, ok)
	}
}

func TestSurface_MissClearsHover(t *testing.T) {
	s, _, pres := newSurface(t)
	s.HandleEvent(Event{Phase: platform.PointerDown, Point: model.Point{X: 40, Y: 120}})
	s.HandleEvent(Event{Phase: platform.PointerMove, Point: model.Point{X: 5, Y: 5}})
	if _, ok := s.Layer().Hovered(); ok {
		t.Error("dragging off every element should clear the hover")
	}
	s.HandleEvent(Event{Phase: platform.PointerUp, Point: model.Point{X: 5, Y: 5}})
	if len(pres.sheets) != 0 {
		t.Error("release without a hovered element should not open a sheet")
	}
}

func TestSurface_InvalidateDropsPendingSheet(t *testing.T) {
	s, ctrl, pres := newSurface(t)
	tap(s, model.Point{X: 40, Y: 520})
	s.Invalidate()
	if pres.dismissed != 1 {
		t.Errorf("dismissed = %d, want 1", pres.dismissed)
	}
	pres.done("late", true)
	if ctrl.session.Count() != 0 {
		t.Error("a sheet from before Invalidate must not add feedback")
	}
}

func TestSurface_PassThroughWhilePaused(t *testing.T) {
	s, ctrl, _ := newSurface(t)
	ctrl.interactive = false
	if got := s.HandleEvent(Event{Phase: platform.PointerDown, Point: model.Point{X: 40, Y: 520}}); got != TargetPassThrough {
		t.Errorf("target = %v", got)
	}
	if ctrl.refreshes != 0 {
		t.Error("paused surface should not re-capture")
	}
}

func TestSurface_ToolbarTapPerforms(t *testing.T) {
	s, ctrl, _ := newSurface(t)
	tap(s, model.Point{X: 330, Y: 770})
	if len(ctrl.performed) != 1 || ctrl.performed[0] != toolbar.ActionStart {
		t.Errorf("performed = %v", ctrl.performed)
	}
	if ctrl.refreshes != 0 {
		t.Error("toolbar presses should not reach the capture layer")
	}
}

func TestRender(t *testing.T) {
	s, ctrl, _ := newSurface(t)
	s.Layer().ShowHover(title)
	s.Layer().Sync([]model.FeedbackItem{ctrl.session.AddFeedback("x", login)})

	img := image.NewRGBA(image.Rect(0, 0, 375, 812))
	s.Render(img, 1)

	hover := StyleHover.Spec().Stroke
	if got := img.RGBAAt(100, 100); got != hover {
		t.Errorf("hover border = %v, want %v", got, hover)
	}
	if got := img.RGBAAt(100, 101); got != hover {
		t.Errorf("hover border is 2px, got %v at second row", got)
	}

	sel := StyleSelected.Spec().Stroke
	// Dash [6,3]: on for x offsets 0..5, off for 6..8 along the top edge.
	if got := img.RGBAAt(20+2, 500); got != sel {
		t.Errorf("dash on = %v, want %v", got, sel)
	}
	if got := img.RGBAAt(20+7, 500); got == sel {
		t.Error("dash gap should not be stroked")
	}

	if got := img.RGBAAt(337, 773); got == (color.RGBA{}) {
		t.Error("toolbar should be drawn")
	}
}

func TestLabelBox(t *testing.T) {
	bounds := image.Rect(0, 0, 375, 812)
	tests := []struct {
		name  string
		r     image.Rectangle
		label string
		want  image.Rectangle
	}{
		{"ascii", image.Rect(20, 100, 355, 144), "Save", image.Rect(20, 83, 56, 100)},
		{"multibyte counts runes", image.Rect(20, 100, 355, 144), "Café ✓", image.Rect(20, 83, 70, 100)},
		{"no room above", image.Rect(20, 5, 355, 49), "Save", image.Rect(20, 49, 56, 66)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := labelBox(tt.r, tt.label, bounds); got != tt.want {
				t.Errorf("labelBox = %v, want %v", got, tt.want)
			}
		})
	}
}
