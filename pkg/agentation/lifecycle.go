package agentation

import (
	"context"
	"fmt"

	"github.com/mj1618/agentation/internal/capture"
	"github.com/mj1618/agentation/internal/hierarchy"
	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/overlay"
	"github.com/mj1618/agentation/internal/toolbar"
	"go.uber.org/zap"
)

// Start begins a capture session. It dismisses text-input focus, captures a
// fresh snapshot and seeds carried-over feedback before the overlay becomes
// interactive. Start while a session is running is a no-op.
func (a *Agentation) Start(ctx context.Context) error {
	if a.app == nil {
		return ErrNotInstalled
	}
	if _, idle := a.state.(Idle); !idle {
		a.logger.Debug("start ignored", zap.Stringer("state", a.state))
		return nil
	}
	a.app.ResignFirstResponder()

	snap, err := a.capture(ctx)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	var prev []model.FeedbackItem
	if a.last != nil {
		prev = a.last.Items()
	}
	items := capture.Carryover(prev, snap, a.carryover)

	sess := capture.New(resolver{a}, snap, capture.Options{
		Items:  items,
		IDs:    a.ids,
		Now:    a.now,
		Logger: a.logger.Named("session"),
	})
	a.state = Capturing{Session: sess}
	a.toolbar.SetPaused(false)
	a.toolbar.Expand()
	a.layer.Sync(sess.Items())
	if frames := a.trackingFrames(); frames != nil {
		sess.StartFrameTracking(frames)
	}
	a.logger.Info("capture started",
		zap.String("page", snap.PageName),
		zap.Int("elements", len(snap.LeafElements)),
		zap.Int("carried", len(items)))
	return nil
}

// Stop ends the session. The session becomes the last session, trackers
// and open sheets are invalidated, focus held by the overlay is released
// and the completion callback receives the session's feedback.
func (a *Agentation) Stop() {
	sess := a.Session()
	if sess == nil {
		a.logger.Debug("stop ignored", zap.Stringer("state", a.state))
		return
	}
	sess.StopFrameTracking()
	a.surface.Invalidate()
	a.toolbar.Collapse()
	a.toolbar.SetPaused(false)
	if fr := a.app.FirstResponder(); fr != nil && fr.Window() == a.overlayWin {
		a.app.ResignFirstResponder()
	}
	a.state = Idle{}
	a.last = sess
	a.logger.Info("capture stopped", zap.Int("feedback", sess.Count()))
	if a.onComplete != nil {
		a.onComplete(sess.Export())
	}
}

// Pause lets input pass through to the app. The hover highlight and the
// selection are cleared. Pause is a no-op unless capturing.
func (a *Agentation) Pause() {
	st, ok := a.state.(Capturing)
	if !ok {
		a.logger.Debug("pause ignored", zap.Stringer("state", a.state))
		return
	}
	a.surface.ClearHover()
	st.Session.ClearSelection()
	a.toolbar.SetPaused(true)
	a.state = Paused(st)
}

// Resume re-captures the snapshot, since the app may have changed while
// paused, and makes the overlay interactive again. Resume is a no-op unless
// paused.
func (a *Agentation) Resume(ctx context.Context) error {
	st, ok := a.state.(Paused)
	if !ok {
		a.logger.Debug("resume ignored", zap.Stringer("state", a.state))
		return nil
	}
	snap, err := a.capture(ctx)
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	st.Session.ReplaceSnapshot(snap)
	st.Session.ClearSelection()
	a.layer.Sync(st.Session.Items())
	a.toolbar.SetPaused(false)
	a.state = Capturing(st)
	return nil
}

// TogglePause pauses a capturing session or resumes a paused one.
func (a *Agentation) TogglePause(ctx context.Context) error {
	switch a.state.(type) {
	case Capturing:
		a.Pause()
	case Paused:
		return a.Resume(ctx)
	}
	return nil
}

// capture runs one pass with the current source and makes it the resolver
// for the ids it produced.
func (a *Agentation) capture(ctx context.Context) (*model.HierarchySnapshot, error) {
	if a.source == nil {
		return nil, ErrNotInstalled
	}
	snap, err := a.source.Capture(ctx)
	if err != nil {
		return nil, err
	}
	a.resolveSrc = a.source
	return snap, nil
}

// CaptureHierarchy captures the current hierarchy. While a session is active
// the snapshot also replaces the session's, keeping feedback resolvable.
func (a *Agentation) CaptureHierarchy(ctx context.Context) (*model.HierarchySnapshot, error) {
	snap, err := a.capture(ctx)
	if err != nil {
		return nil, err
	}
	if sess := a.Session(); sess != nil {
		sess.ReplaceSnapshot(snap)
		a.layer.Sync(sess.Items())
	}
	return snap, nil
}

// CaptureOptions override the capture settings for a single CaptureWith call.
type CaptureOptions struct {
	DataSource         model.SourceType
	IncludeHidden      bool
	IncludeSystemViews bool
}

// CaptureWith captures with o through a throwaway source. The settings, the
// active session and the ids live highlights resolve are left alone, so ids
// in the returned snapshot do not resolve.
func (a *Agentation) CaptureWith(ctx context.Context, o CaptureOptions) (*model.HierarchySnapshot, error) {
	if a.app == nil {
		return nil, ErrNotInstalled
	}
	src, err := hierarchy.New(o.DataSource, a.app, hierarchy.Options{
		IncludeHidden:      o.IncludeHidden,
		IncludeSystemViews: o.IncludeSystemViews,
		Logger:             a.logger.Named("hierarchy"),
		Now:                a.now,
	})
	if err != nil {
		return nil, err
	}
	return src.Capture(ctx)
}

// Interactive reports whether the overlay intercepts input outside the
// toolbar.
func (a *Agentation) Interactive() bool {
	_, ok := a.state.(Capturing)
	return ok
}

// Refresh re-captures into the active session. Failures keep the previous
// snapshot.
func (a *Agentation) Refresh() {
	if a.Session() == nil {
		return
	}
	if _, err := a.CaptureHierarchy(context.Background()); err != nil {
		a.logger.Warn("refresh failed", zap.Error(err))
	}
}

// FeedbackChanged is called by the overlay after a sheet adds or edits an
// item.
func (a *Agentation) FeedbackChanged() {
	if sess := a.Session(); sess != nil {
		a.logger.Debug("feedback changed", zap.Int("count", sess.Count()))
	}
}

// Perform runs a toolbar action.
func (a *Agentation) Perform(act toolbar.Action) {
	ctx := context.Background()
	switch act {
	case toolbar.ActionStart:
		if a.Session() != nil {
			a.toolbar.Expand()
			return
		}
		if err := a.Start(ctx); err != nil {
			a.logger.Warn("start from toolbar", zap.Error(err))
		}
	case toolbar.ActionTogglePause:
		if err := a.TogglePause(ctx); err != nil {
			a.logger.Warn("toggle pause", zap.Error(err))
		}
	case toolbar.ActionPreview:
		if sess := a.activeOrLast(); sess != nil {
			a.presenter.PresentPreview(a.format(sess))
		}
	case toolbar.ActionCopy:
		a.CopyFeedback()
	case toolbar.ActionClear:
		a.ClearFeedback()
	case toolbar.ActionSettings:
		a.presenter.PresentSettings(a.Settings(), func(s overlay.Settings) {
			if err := a.ApplySettings(s); err != nil {
				a.logger.Warn("apply settings", zap.Error(err))
			}
		})
	case toolbar.ActionClose:
		a.Stop()
	}
}
