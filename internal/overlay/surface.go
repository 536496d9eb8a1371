package overlay

import (
	"strings"

	"github.com/mj1618/agentation/internal/capture"
	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/platform"
	"github.com/mj1618/agentation/internal/toolbar"
	"go.uber.org/zap"
)

// Target is who receives an event landing on the surface.
type Target int

const (
	// TargetPassThrough lets the event fall through to the host app.
	TargetPassThrough Target = iota
	// TargetToolbar routes the event to the toolbar.
	TargetToolbar
	// TargetCapture routes the event to the capture layer.
	TargetCapture
)

func (t Target) String() string {
	switch t {
	case TargetToolbar:
		return "toolbar"
	case TargetCapture:
		return "capture"
	default:
		return "pass-through"
	}
}

// Event is a pointer event in screen coordinates.
type Event struct {
	Phase platform.PointerPhase
	Point model.Point
}

// Controller is the surface's non-owning view of whoever drives the session.
type Controller interface {
	// Interactive reports whether a session is capturing and not paused.
	Interactive() bool
	// Session returns the active session, or nil.
	Session() *capture.Session
	// Refresh re-captures the hierarchy into the active session.
	Refresh()
	// Perform runs a toolbar action.
	Perform(a toolbar.Action)
	// FeedbackChanged is called after the surface adds or edits feedback.
	FeedbackChanged()
}

// Surface is the topmost, full-screen overlay. It always hosts the toolbar
// and intercepts the rest of the screen only while capture is interactive.
type Surface struct {
	ctrl      Controller
	presenter Presenter
	toolbar   *toolbar.Toolbar
	layer     *Layer

	// gen is bumped by Invalidate so sheets opened earlier are ignored.
	gen      uint64
	sheeting bool

	logger *zap.Logger
}

// NewSurface returns a surface over tb and layer.
func NewSurface(ctrl Controller, presenter Presenter, tb *toolbar.Toolbar, layer *Layer, logger *zap.Logger) *Surface {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Surface{ctrl: ctrl, presenter: presenter, toolbar: tb, layer: layer, logger: logger}
}

// Layer returns the highlight layer.
func (s *Surface) Layer() *Layer { return s.layer }

// SheetOpen reports whether a feedback sheet is awaiting an answer.
func (s *Surface) SheetOpen() bool { return s.sheeting }

// HitTest decides who receives an event at p.
func (s *Surface) HitTest(p model.Point) Target {
	if s.toolbar.Pressing() || s.toolbar.Contains(p) {
		return TargetToolbar
	}
	if s.ctrl.Interactive() && !s.sheeting {
		return TargetCapture
	}
	return TargetPassThrough
}

// HandleEvent processes e and returns where it went. Events that pass
// through are left for the host application.
func (s *Surface) HandleEvent(e Event) Target {
	target := s.HitTest(e.Point)
	switch target {
	case TargetToolbar:
		s.handleToolbar(e)
	case TargetCapture:
		s.handleCapture(e)
	default:
		if e.Phase == platform.PointerExit || e.Phase == platform.PointerCancel {
			s.layer.ClearHover()
		}
	}
	return target
}

func (s *Surface) handleToolbar(e Event) {
	switch e.Phase {
	case platform.PointerDown:
		s.toolbar.PointerDown(e.Point)
	case platform.PointerMove:
		s.toolbar.PointerMove(e.Point)
	case platform.PointerUp:
		if a := s.toolbar.PointerUp(e.Point); a != toolbar.ActionNone {
			s.logger.Debug("toolbar action", zap.Stringer("action", a))
			s.ctrl.Perform(a)
		}
	case platform.PointerCancel:
		s.toolbar.PointerCancel()
	case platform.PointerHover, platform.PointerExit:
		s.layer.ClearHover()
	}
}

func (s *Surface) handleCapture(e Event) {
	sess := s.ctrl.Session()
	if sess == nil {
		return
	}
	switch e.Phase {
	case platform.PointerDown, platform.PointerMove:
		s.ctrl.Refresh()
		s.hover(sess, e.Point)
	case platform.PointerHover:
		s.hover(sess, e.Point)
	case platform.PointerUp:
		s.hover(sess, e.Point)
		s.openSheet(sess)
	case platform.PointerCancel, platform.PointerExit:
		s.layer.ClearHover()
	}
}

func (s *Surface) hover(sess *capture.Session, p model.Point) {
	el, ok := sess.HitTest(p)
	if !ok {
		s.layer.ClearHover()
		return
	}
	s.layer.ShowHover(el)
}

func (s *Surface) openSheet(sess *capture.Session) {
	id, ok := s.layer.Hovered()
	if !ok {
		return
	}
	el, ok := sess.Snapshot().Element(id)
	if !ok {
		return
	}
	sess.Select(el.ID)

	sheet := Sheet{Element: el}
	existing, editing := sess.FeedbackItem(el.ID)
	if editing {
		sheet.Text = existing.Text
		sheet.Editing = true
	}

	gen := s.gen
	s.sheeting = true
	s.presenter.PresentFeedback(sheet, func(text string, ok bool) {
		if gen != s.gen || s.ctrl.Session() != sess {
			return
		}
		s.sheeting = false
		sess.ClearSelection()
		text = strings.TrimSpace(text)
		if !ok || text == "" {
			return
		}
		if editing {
			sess.UpdateFeedback(existing, text)
		} else {
			sess.AddFeedback(text, el)
		}
		s.layer.ClearHover()
		s.layer.Sync(sess.Items())
		s.ctrl.FeedbackChanged()
	})
}

// ClearHover drops the hover highlight, e.g. on pause.
func (s *Surface) ClearHover() { s.layer.ClearHover() }

// Invalidate abandons any open sheet and removes all highlights. Completion
// callbacks from sheets opened before the call are ignored.
func (s *Surface) Invalidate() {
	s.gen++
	if s.sheeting {
		s.sheeting = false
		s.presenter.Dismiss()
	}
	s.layer.Clear()
}
