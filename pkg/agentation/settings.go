package agentation

import (
	"fmt"

	"github.com/mj1618/agentation/internal/capture"
	"github.com/mj1618/agentation/internal/config"
	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/output"
	"github.com/mj1618/agentation/internal/overlay"
)

// Settings changes apply to future captures; an existing snapshot is never
// rewritten.

// OutputFormat returns the export format used by CopyFeedback.
func (a *Agentation) OutputFormat() output.ExportFormat { return a.outputFormat }

// SetOutputFormat sets the export format.
func (a *Agentation) SetOutputFormat(f output.ExportFormat) { a.outputFormat = f }

// SetIncludeHiddenElements includes hidden and transparent nodes in future
// captures.
func (a *Agentation) SetIncludeHiddenElements(v bool) {
	if a.includeHidden == v {
		return
	}
	a.includeHidden = v
	a.rebuildSource()
}

// SetIncludeSystemViews includes system-injected windows in future
// captures.
func (a *Agentation) SetIncludeSystemViews(v bool) {
	if a.includeSystem == v {
		return
	}
	a.includeSystem = v
	a.rebuildSource()
}

// SetDataSource switches the walk strategy for future captures.
func (a *Agentation) SetDataSource(kind model.SourceType) error {
	if _, err := model.ParseSourceType(string(kind)); err != nil {
		return err
	}
	if kind == "" {
		kind = model.SourceViewHierarchy
	}
	if a.sourceKind == kind {
		return nil
	}
	a.sourceKind = kind
	a.rebuildSource()
	return nil
}

// SetCarryover sets what the next session keeps from the last one.
func (a *Agentation) SetCarryover(p capture.CarryoverPolicy) { a.carryover = p }

// SetGroupByScreen groups markdown exports under per-screen headings.
func (a *Agentation) SetGroupByScreen(v bool) { a.groupByScreen = v }

// SetTrackFrames turns live highlight tracking on or off. An active session
// switches immediately.
func (a *Agentation) SetTrackFrames(v bool) {
	if a.trackFrames == v {
		return
	}
	a.trackFrames = v
	a.retrack()
}

// retrack re-attaches highlights and the session's live frames to the
// current scheduler.
func (a *Agentation) retrack() {
	frames := a.trackingFrames()
	if a.layer != nil {
		a.layer.SetFrames(frames)
	}
	if sess := a.Session(); sess != nil {
		sess.StopFrameTracking()
		if frames != nil {
			sess.StartFrameTracking(frames)
		}
	}
}

// Settings returns the values the settings screen edits.
func (a *Agentation) Settings() overlay.Settings {
	return overlay.Settings{
		OutputFormat:       a.outputFormat,
		DataSource:         a.sourceKind,
		IncludeHidden:      a.includeHidden,
		IncludeSystemViews: a.includeSystem,
		TrackFrames:        a.trackFrames,
	}
}

// ApplySettings applies values from the settings screen.
func (a *Agentation) ApplySettings(s overlay.Settings) error {
	if err := a.SetDataSource(s.DataSource); err != nil {
		return err
	}
	a.SetOutputFormat(s.OutputFormat)
	a.SetIncludeHiddenElements(s.IncludeHidden)
	a.SetIncludeSystemViews(s.IncludeSystemViews)
	a.SetTrackFrames(s.TrackFrames)
	return nil
}

// ApplyConfig applies a loaded or reloaded config file. Nothing changes when
// c is invalid.
func (a *Agentation) ApplyConfig(c config.Config) error {
	format, err := output.ParseExportFormat(c.OutputFormat)
	if err != nil {
		return fmt.Errorf("apply config: %w", err)
	}
	kind, err := model.ParseSourceType(c.DataSource)
	if err != nil {
		return fmt.Errorf("apply config: %w", err)
	}
	policy, err := capture.ParseCarryoverPolicy(c.Carryover)
	if err != nil {
		return fmt.Errorf("apply config: %w", err)
	}
	if c.RefreshRate > 0 && c.RefreshRate != a.refreshRate {
		a.refreshRate = c.RefreshRate
		if a.loop != nil {
			// Rebuilt at the new rate by trackingFrames.
			a.frames = nil
			a.retrack()
		}
	}
	a.SetOutputFormat(format)
	a.SetCarryover(policy)
	a.SetGroupByScreen(c.GroupByScreen)
	if err := a.SetDataSource(kind); err != nil {
		return fmt.Errorf("apply config: %w", err)
	}
	a.SetIncludeHiddenElements(c.IncludeHiddenElements)
	a.SetIncludeSystemViews(c.IncludeSystemViews)
	a.SetTrackFrames(c.Tracking())
	return nil
}

// GroupByScreen reports whether markdown exports are grouped by screen.
func (a *Agentation) GroupByScreen() bool { return a.groupByScreen }
