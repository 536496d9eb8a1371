package overlay

import (
	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/uiloop"
	"go.uber.org/zap"
)

// Resolver maps element ids to live screen frames.
type Resolver interface {
	Resolve(id model.ElementID) (model.Rect, bool)
}

// Layer owns the hover highlight and one persistent highlight per feedback
// item. With a frame scheduler set, each persistent highlight follows its
// element's live frame; without one, highlights stay at the captured frame.
type Layer struct {
	resolver Resolver
	frames   uiloop.FrameScheduler

	hover    *Highlight
	selected []*Highlight
	byItem   map[string]*Highlight

	logger *zap.Logger
}

// NewLayer returns an empty layer. frames may be nil to disable tracking.
func NewLayer(resolver Resolver, frames uiloop.FrameScheduler, logger *zap.Logger) *Layer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Layer{
		resolver: resolver,
		frames:   frames,
		byItem:   make(map[string]*Highlight),
		logger:   logger,
	}
}

// SetFrames enables (non-nil) or disables (nil) live tracking. Existing
// highlights are re-attached accordingly.
func (l *Layer) SetFrames(frames uiloop.FrameScheduler) {
	l.frames = frames
	for _, h := range l.selected {
		h.stopTracking()
		h.hidden = false
		l.track(h)
	}
}

// Frames returns the scheduler highlights track with, or nil.
func (l *Layer) Frames() uiloop.FrameScheduler { return l.frames }

// Tracking reports whether persistent highlights follow live frames.
func (l *Layer) Tracking() bool { return l.frames != nil && l.resolver != nil }

// ShowHover highlights el. The same node from a newer capture (equal path
// and frame) only has its id updated.
func (l *Layer) ShowHover(el model.SnapshotElement) {
	if h := l.hover; h != nil {
		if h.ElementID == el.ID {
			return
		}
		if h.path == el.Path && h.frame == el.Frame {
			h.ElementID = el.ID
			return
		}
	}
	l.hover = &Highlight{
		Style:     StyleHover,
		ElementID: el.ID,
		Label:     el.DisplayName,
		frame:     el.Frame,
		path:      el.Path,
	}
}

// ClearHover removes the hover highlight.
func (l *Layer) ClearHover() { l.hover = nil }

// Hovered returns the hovered element id.
func (l *Layer) Hovered() (model.ElementID, bool) {
	if l.hover == nil {
		return "", false
	}
	return l.hover.ElementID, true
}

// Sync makes the persistent highlights match items, numbered in item order.
// Highlights for surviving items keep their trackers; removed items have
// theirs cancelled.
func (l *Layer) Sync(items []model.FeedbackItem) {
	keep := make(map[string]bool, len(items))
	next := make([]*Highlight, 0, len(items))
	for i, it := range items {
		keep[it.ID] = true
		h, ok := l.byItem[it.ID]
		if !ok {
			h = &Highlight{Style: StyleSelected, ElementID: it.ElementID, frame: it.ElementFrame}
			l.byItem[it.ID] = h
			l.track(h)
		} else if h.ElementID != it.ElementID {
			h.ElementID = it.ElementID
			if h.Tracked() {
				h.refresh(l.resolver)
			}
		}
		h.Badge = i + 1
		next = append(next, h)
	}
	for id, h := range l.byItem {
		if !keep[id] {
			h.stopTracking()
			delete(l.byItem, id)
		}
	}
	l.selected = next
}

func (l *Layer) track(h *Highlight) {
	if !l.Tracking() {
		return
	}
	h.refresh(l.resolver)
	h.tracker = l.frames.Schedule(func() { h.refresh(l.resolver) })
}

// Clear removes every highlight and cancels all trackers.
func (l *Layer) Clear() {
	l.hover = nil
	for _, h := range l.selected {
		h.stopTracking()
	}
	l.selected = nil
	clear(l.byItem)
}

// Highlights returns the highlights to draw, persistent ones first and the
// hover highlight last.
func (l *Layer) Highlights() []*Highlight {
	out := make([]*Highlight, 0, len(l.selected)+1)
	out = append(out, l.selected...)
	if l.hover != nil {
		out = append(out, l.hover)
	}
	return out
}

// ActiveTrackers returns how many highlights are being tracked.
func (l *Layer) ActiveTrackers() int {
	n := 0
	for _, h := range l.selected {
		if h.Tracked() {
			n++
		}
	}
	return n
}
