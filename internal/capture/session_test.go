package capture

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/output"
	"github.com/mj1618/agentation/internal/uiloop"
)

type fakeResolver map[model.ElementID]model.Rect

func (f fakeResolver) Resolve(id model.ElementID) (model.Rect, bool) {
	r, ok := f[id]
	return r, ok
}

func seqIDs() model.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("fb-%d", n)
	}
}

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() func() time.Time {
	now := t0
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func newSession(snap *model.HierarchySnapshot, r Resolver) *Session {
	return New(r, snap, Options{IDs: seqIDs(), Now: clock()})
}

var (
	welcome = model.SnapshotElement{
		ID:          "welcome",
		DisplayName: "Welcome Message",
		ShortType:   "text",
		Frame:       model.R(20, 100, 335, 44),
		Path:        ".HomeView > .Header > .WelcomeLabel",
	}
	login = model.SnapshotElement{
		ID:          "login",
		DisplayName: "loginButton",
		ShortType:   "button",
		Frame:       model.R(20, 500, 335, 50),
		Path:        ".HomeView > #loginButton",
	}
)

func homeSnapshot() *model.HierarchySnapshot {
	return &model.HierarchySnapshot{
		LeafElements: []model.SnapshotElement{welcome, login},
		SourceType:   model.SourceViewHierarchy,
		ViewportSize: model.Size{Width: 375, Height: 812},
		PageName:     "/Home",
	}
}

func TestHitTest_SmallestArea(t *testing.T) {
	parent := model.SnapshotElement{ID: "parent", Frame: model.R(0, 0, 300, 300)}
	child := model.SnapshotElement{ID: "child", Frame: model.R(100, 100, 100, 50)}
	s := newSession(&model.HierarchySnapshot{LeafElements: []model.SnapshotElement{parent, child}}, nil)

	tests := []struct {
		p      model.Point
		want   model.ElementID
		wantOK bool
	}{
		{model.Point{X: 150, Y: 125}, "child", true},
		{model.Point{X: 250, Y: 250}, "parent", true},
		{model.Point{X: 400, Y: 400}, "", false},
	}
	for _, tt := range tests {
		got, ok := s.HitTest(tt.p)
		if ok != tt.wantOK || got.ID != tt.want {
			t.Errorf("HitTest(%v) = %q, %v; want %q, %v", tt.p, got.ID, ok, tt.want, tt.wantOK)
		}
	}
}

func TestHitTest_MatchesBruteForce(t *testing.T) {
	var leaves []model.SnapshotElement
	for i := 0; i < 20; i++ {
		leaves = append(leaves, model.SnapshotElement{
			ID:    model.ElementID(fmt.Sprint(i)),
			Frame: model.R(float64(i*7%50), float64(i*11%60), float64(20+i*13%90), float64(15+i*5%70)),
		})
	}
	s := newSession(&model.HierarchySnapshot{LeafElements: leaves}, nil)

	for x := 0.0; x < 160; x += 9 {
		for y := 0.0; y < 160; y += 9 {
			p := model.Point{X: x, Y: y}
			got, ok := s.HitTest(p)
			minArea := -1.0
			for _, el := range leaves {
				if el.Frame.Contains(p) && (minArea < 0 || el.Frame.Area() < minArea) {
					minArea = el.Frame.Area()
				}
			}
			if ok != (minArea >= 0) {
				t.Fatalf("HitTest(%v) found=%v, brute force found=%v", p, ok, minArea >= 0)
			}
			if ok && got.Frame.Area() != minArea {
				t.Fatalf("HitTest(%v) area %v, want %v", p, got.Frame.Area(), minArea)
			}
		}
	}
}

func TestAddFeedback_ThenLookup(t *testing.T) {
	s := newSession(homeSnapshot(), nil)
	item := s.AddFeedback("Make this larger", welcome)

	got, ok := s.FeedbackItem(welcome.ID)
	if !ok {
		t.Fatal("expected item for element")
	}
	want := model.FeedbackItem{
		ID:                 "fb-1",
		ElementID:          "welcome",
		Text:               "Make this larger",
		ElementDisplayName: "Welcome Message",
		ElementShortType:   "text",
		ElementFrame:       model.R(20, 100, 335, 44),
		ElementPath:        ".HomeView > .Header > .WelcomeLabel",
		ScreenName:         "/Home",
		CreatedAt:          t0.Add(2 * time.Second),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("item mismatch (-want +got):\n%s", diff)
	}
	if item != got {
		t.Error("AddFeedback should return the stored item")
	}
	if !s.HasFeedback(welcome.ID) || s.HasFeedback(login.ID) {
		t.Error("HasFeedback mismatch")
	}
}

func TestAddFeedback_AllowsDuplicates(t *testing.T) {
	s := newSession(homeSnapshot(), nil)
	first := s.AddFeedback("one", welcome)
	s.AddFeedback("two", welcome)
	if s.Count() != 2 {
		t.Fatalf("Count = %d, want 2", s.Count())
	}
	got, _ := s.FeedbackItem(welcome.ID)
	if got.ID != first.ID {
		t.Error("FeedbackItem should return the first match")
	}
}

func TestUpdateFeedback_PreservesIdentity(t *testing.T) {
	s := newSession(homeSnapshot(), nil)
	s.AddFeedback("first", login)
	item := s.AddFeedback("Make this larger", welcome)
	s.AddFeedback("last", login)

	updated, ok := s.UpdateFeedback(item, "Make this much larger")
	if !ok {
		t.Fatal("update failed")
	}
	if updated.ID != item.ID || !updated.CreatedAt.Equal(item.CreatedAt) {
		t.Error("update must preserve id and createdAt")
	}
	want := item
	want.Text = "Make this much larger"
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Errorf("only text should change (-want +got):\n%s", diff)
	}
	if s.Items()[1].Text != "Make this much larger" {
		t.Error("update must keep the item's position")
	}

	if _, ok := s.UpdateFeedback(model.FeedbackItem{ID: "nope"}, "x"); ok {
		t.Error("updating a missing item should report false")
	}
}

func TestRemoveAndClear_Idempotent(t *testing.T) {
	s := newSession(homeSnapshot(), nil)
	a := s.AddFeedback("a", welcome)
	s.AddFeedback("b", login)

	s.RemoveFeedback(a)
	once := s.Items()
	s.RemoveFeedback(a)
	if diff := cmp.Diff(once, s.Items()); diff != "" {
		t.Errorf("second remove changed state:\n%s", diff)
	}

	s.ClearFeedback()
	s.ClearFeedback()
	if s.Count() != 0 {
		t.Errorf("Count = %d after clear", s.Count())
	}
}

func TestSelection_OnlyCurrentLeaves(t *testing.T) {
	s := newSession(homeSnapshot(), nil)
	if s.Select("ghost") {
		t.Error("selecting a non-leaf should fail")
	}
	if _, ok := s.Selection(); ok {
		t.Error("expected no selection")
	}
	if !s.Select(login.ID) {
		t.Fatal("select failed")
	}
	if el, ok := s.Selection(); !ok || el.ID != login.ID {
		t.Errorf("Selection = %v, %v", el, ok)
	}
	s.ClearSelection()
	if _, ok := s.Selection(); ok {
		t.Error("expected selection cleared")
	}
}

func recaptured(snap *model.HierarchySnapshot, suffix string) *model.HierarchySnapshot {
	next := *snap
	next.LeafElements = nil
	for _, el := range snap.LeafElements {
		el.ID += model.ElementID(suffix)
		next.LeafElements = append(next.LeafElements, el)
	}
	return &next
}

func TestReplaceSnapshot_RelinksFeedbackAndSelection(t *testing.T) {
	s := newSession(homeSnapshot(), nil)
	item := s.AddFeedback("Make this larger", welcome)
	s.Select(login.ID)

	next := recaptured(homeSnapshot(), "-2")
	next.LeafElements[0].Frame = model.R(20, 140, 335, 44)
	s.ReplaceSnapshot(next)

	got, ok := s.FeedbackItem("welcome-2")
	if !ok {
		t.Fatal("feedback should follow the element into the new snapshot")
	}
	if got.ID != item.ID || got.ElementFrame != item.ElementFrame {
		t.Error("relinking must keep the captured element fields")
	}
	if el, ok := s.Selection(); !ok || el.ID != "login-2" {
		t.Errorf("selection = %v, %v; want relinked to login-2", el.ID, ok)
	}

	s.ReplaceSnapshot(&model.HierarchySnapshot{PageName: "/Other"})
	if _, ok := s.Selection(); ok {
		t.Error("selection must be dropped when it is no longer a leaf")
	}
	if s.Count() != 1 {
		t.Error("feedback survives snapshot replacement even when unresolvable")
	}
}

func TestFrameTracking(t *testing.T) {
	r := fakeResolver{"welcome": model.R(20, 150, 335, 44)}
	s := newSession(homeSnapshot(), r)
	item := s.AddFeedback("Make this larger", welcome)

	if got := s.LiveFrame(item); got != welcome.Frame {
		t.Errorf("LiveFrame before tracking = %v, want captured frame", got)
	}

	frames := uiloop.NewManualFrames()
	s.StartFrameTracking(frames)
	s.StartFrameTracking(frames)
	if frames.Active() != 1 {
		t.Fatalf("Active = %d, want 1", frames.Active())
	}
	frames.Tick()
	if got := s.LiveFrame(item); got != model.R(20, 150, 335, 44) {
		t.Errorf("LiveFrame = %v, want resolved frame", got)
	}

	delete(r, "welcome")
	frames.Tick()
	if got := s.LiveFrame(item); got != welcome.Frame {
		t.Errorf("LiveFrame after node left = %v, want captured frame", got)
	}

	s.StopFrameTracking()
	if s.Tracking() || frames.Active() != 0 {
		t.Error("tracking should be stopped")
	}
	r["welcome"] = model.R(0, 0, 1, 1)
	frames.Tick()
	if got := s.LiveFrame(item); got != welcome.Frame {
		t.Error("no refresh may run after StopFrameTracking")
	}
}

func TestFormatAsMarkdown_HomeScenario(t *testing.T) {
	s := newSession(homeSnapshot(), nil)
	s.AddFeedback("Make this larger", welcome)
	s.AddFeedback("Change to green", login)

	md := s.FormatAsMarkdown(output.MarkdownOptions{})
	for _, want := range []string{
		"## Page Feedback: /Home",
		"**Viewport:** 375×812",
		"Make this larger",
		"Change to green",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Index(md, "Make this larger") > strings.Index(md, "Change to green") {
		t.Error("items must appear in insertion order")
	}
}

func TestFormat_JSONFallsBackToMarkdown(t *testing.T) {
	s := newSession(homeSnapshot(), nil)
	s.AddFeedback("Make this larger", welcome)

	if out := s.Format(output.ExportJSON, output.MarkdownOptions{}); !strings.HasPrefix(out, "{") {
		t.Errorf("expected JSON output, got:\n%s", out)
	}

	s.encodeJSON = func(output.PageFeedback) ([]byte, error) { return nil, errors.New("boom") }
	out := s.Format(output.ExportJSON, output.MarkdownOptions{})
	if !strings.HasPrefix(out, "## Page Feedback: /Home") {
		t.Errorf("expected markdown fallback, got:\n%s", out)
	}
	if _, err := s.FormatAsJSON(); err == nil {
		t.Error("FormatAsJSON should surface the encoding error")
	}
}

func TestExport(t *testing.T) {
	s := newSession(homeSnapshot(), nil)
	s.AddFeedback("Make this larger", welcome)
	page := s.Export()
	if page.PageName != "/Home" || page.Viewport != (model.Size{Width: 375, Height: 812}) {
		t.Errorf("unexpected page: %+v", page)
	}
	if !page.CaptureStarted.Equal(s.StartedAt()) {
		t.Error("export should carry the session start time")
	}
	page.Items[0].Text = "mutated"
	if s.Items()[0].Text != "Make this larger" {
		t.Error("export must not alias session state")
	}
}

func TestFeedbackByScreen(t *testing.T) {
	s := newSession(homeSnapshot(), nil)
	s.AddFeedback("Make this larger", welcome)

	next := homeSnapshot()
	next.PageName = "/Settings"
	s.ReplaceSnapshot(next)
	s.AddFeedback("Change to green", login)

	groups := s.FeedbackByScreen()
	if len(groups) != 2 {
		t.Fatalf("groups = %+v", groups)
	}
	if groups[0].Screen != "/Home" || groups[1].Screen != "/Settings" {
		t.Errorf("screens = %q, %q", groups[0].Screen, groups[1].Screen)
	}
	if groups[1].Items[0].Text != "Change to green" {
		t.Errorf("second group = %+v", groups[1].Items)
	}
}

func TestReplaceSnapshot_RelinksSameNodeAmongDuplicates(t *testing.T) {
	row := func(id model.ElementID, y float64) model.SnapshotElement {
		return model.SnapshotElement{
			ID:          id,
			DisplayName: "Delete",
			ShortType:   "button",
			Frame:       model.R(20, y, 335, 44),
			Path:        `ListViewController > .TableView > "Delete"`,
		}
	}
	snap := &model.HierarchySnapshot{
		LeafElements: []model.SnapshotElement{row("a", 100), row("b", 200)},
		PageName:     "/List",
	}
	s := newSession(snap, nil)
	item := s.AddFeedback("fix", snap.LeafElements[0])

	// The annotated row moved, so neither hash nor frame identify it.
	next := &model.HierarchySnapshot{
		LeafElements: []model.SnapshotElement{row("a2", 150), row("b2", 200)},
		PageName:     "/List",
		Relinked:     map[model.ElementID]model.ElementID{"a": "a2", "b": "b2"},
	}
	if _, ok := model.MatchElement(item, next.LeafElements); ok {
		t.Fatal("fixture should be ambiguous for MatchElement")
	}
	s.ReplaceSnapshot(next)

	got, ok := s.FeedbackItem("a2")
	if !ok || got.ID != item.ID {
		t.Fatalf("feedback should follow the same node, got %+v, %v", got, ok)
	}
	if s.HasFeedback("b2") {
		t.Error("the other row must not inherit the feedback")
	}
}
