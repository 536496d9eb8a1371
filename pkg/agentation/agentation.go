// Package agentation is the entry point a host application uses to install
// the feedback overlay and drive capture sessions.
//
// An Agentation is confined to the host's UI loop: every method must be
// called from it. Background goroutines hop onto the loop with
// uiloop.Loop.Do.
package agentation

import (
	"errors"
	"image"
	"sync"
	"time"

	"github.com/mj1618/agentation/internal/capture"
	"github.com/mj1618/agentation/internal/config"
	"github.com/mj1618/agentation/internal/hierarchy"
	"github.com/mj1618/agentation/internal/logging"
	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/output"
	"github.com/mj1618/agentation/internal/overlay"
	"github.com/mj1618/agentation/internal/platform"
	"github.com/mj1618/agentation/internal/toolbar"
	"github.com/mj1618/agentation/internal/uiloop"
	"github.com/mj1618/agentation/pkg/host"
	"go.uber.org/zap"
)

// ErrNotInstalled is returned by operations that need a host app before
// Install was called.
var ErrNotInstalled = errors.New("agentation: not installed")

// OverlayWindowClass is the class name of the overlay's own window.
const OverlayWindowClass = "AgentationOverlayWindow"

// overlayLevel keeps the overlay above every host window.
const overlayLevel = 1 << 20

// Agentation coordinates the session lifecycle, the overlay surface and the
// settings that apply to future captures.
type Agentation struct {
	app        *host.App
	overlayWin *host.Window

	source hierarchy.DataSource
	// resolveSrc is the source that produced the current snapshot's ids.
	resolveSrc hierarchy.DataSource

	state State
	last  *capture.Session

	surface   *overlay.Surface
	layer     *overlay.Layer
	toolbar   *toolbar.Toolbar
	presenter overlay.Presenter
	provider  *platform.Provider

	loop   *uiloop.Loop
	frames uiloop.FrameScheduler

	outputFormat   output.ExportFormat
	sourceKind     model.SourceType
	includeHidden  bool
	includeSystem  bool
	trackFrames    bool
	groupByScreen  bool
	carryover      capture.CarryoverPolicy
	refreshRate    int
	toolbarVisible bool

	onComplete func(output.PageFeedback)

	ids    model.IDGenerator
	now    func() time.Time
	logger *zap.Logger
}

// Option configures New.
type Option func(*Agentation)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Agentation) { a.logger = l }
}

// WithProvider sets the clipboard and key-value store.
func WithProvider(p *platform.Provider) Option {
	return func(a *Agentation) { a.provider = p }
}

// WithPresenter sets how sheets, preview and settings are shown.
func WithPresenter(p overlay.Presenter) Option {
	return func(a *Agentation) { a.presenter = p }
}

// WithLoop drives highlight tracking from a display link on loop.
func WithLoop(l *uiloop.Loop) Option {
	return func(a *Agentation) { a.loop = l }
}

// WithFrameScheduler drives highlight tracking from fs instead of a display
// link.
func WithFrameScheduler(fs uiloop.FrameScheduler) Option {
	return func(a *Agentation) { a.frames = fs }
}

// WithConfig applies c's settings at construction.
func WithConfig(c config.Config) Option {
	return func(a *Agentation) {
		if err := a.ApplyConfig(c); err != nil {
			a.logger.Warn("ignoring invalid config", zap.Error(err))
		}
	}
}

// WithClock sets the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Agentation) { a.now = now }
}

// WithIDs sets the feedback id generator.
func WithIDs(ids model.IDGenerator) Option {
	return func(a *Agentation) { a.ids = ids }
}

// New returns an uninstalled facade. Without WithProvider the system
// clipboard and state file are used, falling back to memory when they are
// unavailable.
func New(opts ...Option) *Agentation {
	a := &Agentation{
		state:          Idle{},
		outputFormat:   output.ExportMarkdown,
		sourceKind:     model.SourceViewHierarchy,
		trackFrames:    true,
		refreshRate:    config.DefaultRefreshRate,
		toolbarVisible: true,
		ids:            model.UUIDv7(),
		now:            time.Now,
		logger:         zap.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	a.logger = logging.OrNop(a.logger)
	if a.presenter == nil {
		a.presenter = overlay.NopPresenter{}
	}
	if a.provider == nil {
		p, err := platform.NewProvider("")
		if err != nil {
			a.logger.Info("system services unavailable, using memory", zap.Error(err))
			p = platform.NewMemoryProvider()
		}
		a.provider = p
	}
	return a
}

var (
	sharedOnce sync.Once
	shared     *Agentation
)

// Shared returns the process-wide instance.
func Shared() *Agentation {
	sharedOnce.Do(func() { shared = New() })
	return shared
}

// Install attaches the overlay to app. Installing into another app stops the
// active session and moves the overlay window.
func (a *Agentation) Install(app *host.App) {
	if app == nil || app == a.app {
		return
	}
	if a.app != nil {
		a.Stop()
		a.app.RemoveWindow(a.overlayWin)
	}
	a.app = app
	a.overlayWin = host.NewWindow(OverlayWindowClass, model.Rect{Width: app.ScreenSize.Width, Height: app.ScreenSize.Height})
	a.overlayWin.Overlay = true
	a.overlayWin.Level = overlayLevel
	app.AddWindow(a.overlayWin)

	a.rebuildSource()
	a.toolbar = toolbar.New(app.ScreenSize, a.provider.Store, a.logger.Named("toolbar"))
	if !a.toolbarVisible {
		a.toolbar.Hide()
	}
	a.layer = overlay.NewLayer(resolver{a}, a.trackingFrames(), a.logger.Named("overlay"))
	a.surface = overlay.NewSurface(a, a.presenter, a.toolbar, a.layer, a.logger.Named("overlay"))
	a.logger.Debug("installed", zap.Stringer("screen", app.ScreenSize))
}

// Installed reports whether Install has been called.
func (a *Agentation) Installed() bool { return a.app != nil }

// State returns the lifecycle state.
func (a *Agentation) State() State { return a.state }

// Session returns the active session, or nil when idle.
func (a *Agentation) Session() *capture.Session { return sessionOf(a.state) }

// LastSession returns the most recently stopped session, or nil.
func (a *Agentation) LastSession() *capture.Session { return a.last }

// Surface returns the overlay surface, or nil before Install.
func (a *Agentation) Surface() *overlay.Surface { return a.surface }

// OnComplete sets the callback invoked with each stopped session's feedback.
func (a *Agentation) OnComplete(fn func(output.PageFeedback)) { a.onComplete = fn }

// HandleEvent routes a pointer event through the overlay. Before Install
// every event passes through.
func (a *Agentation) HandleEvent(e overlay.Event) overlay.Target {
	if a.surface == nil {
		return overlay.TargetPassThrough
	}
	return a.surface.HandleEvent(e)
}

// Render draws the overlay onto dst.
func (a *Agentation) Render(dst *image.RGBA, scale float64) {
	if a.surface != nil {
		a.surface.Render(dst, scale)
	}
}

// ShowToolbar makes the toolbar visible.
func (a *Agentation) ShowToolbar() {
	a.toolbarVisible = true
	if a.toolbar != nil {
		a.toolbar.Show()
	}
}

// HideToolbar hides the toolbar. A hidden toolbar receives no events.
func (a *Agentation) HideToolbar() {
	a.toolbarVisible = false
	if a.toolbar != nil {
		a.toolbar.Hide()
	}
}

// ToolbarVisible reports the toolbar visibility flag.
func (a *Agentation) ToolbarVisible() bool { return a.toolbarVisible }

// resolver resolves ids against whichever source produced the current
// snapshot, so changing the data source does not orphan live highlights.
type resolver struct{ a *Agentation }

func (r resolver) Resolve(id model.ElementID) (model.Rect, bool) {
	if r.a.resolveSrc == nil {
		return model.Rect{}, false
	}
	return r.a.resolveSrc.Resolve(id)
}

func (a *Agentation) rebuildSource() {
	if a.app == nil {
		return
	}
	src, err := hierarchy.New(a.sourceKind, a.app, hierarchy.Options{
		IncludeHidden:      a.includeHidden,
		IncludeSystemViews: a.includeSystem,
		Logger:             a.logger.Named("hierarchy"),
		Now:                a.now,
	})
	if err != nil {
		// sourceKind is validated by its setters.
		a.logger.Error("build data source", zap.Error(err))
		return
	}
	a.source = src
}

// trackingFrames returns the scheduler highlights track with, or nil when
// tracking is off or nothing can drive it.
func (a *Agentation) trackingFrames() uiloop.FrameScheduler {
	if !a.trackFrames {
		return nil
	}
	if a.frames == nil && a.loop != nil {
		a.frames = uiloop.NewDisplayLink(a.loop, a.refreshRate)
	}
	return a.frames
}
