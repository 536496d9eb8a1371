// Package capture holds the state of one feedback capture session: the
// current snapshot, the collected feedback and the selection.
package capture

import (
	"slices"
	"time"

	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/output"
	"github.com/mj1618/agentation/internal/uiloop"
	"go.uber.org/zap"
)

// Resolver maps element ids from the latest capture to live screen frames.
type Resolver interface {
	Resolve(id model.ElementID) (model.Rect, bool)
}

// Options configure a new Session.
type Options struct {
	// Items seeds the feedback list, e.g. with items carried over from a
	// previous session.
	Items  []model.FeedbackItem
	IDs    model.IDGenerator
	Now    func() time.Time
	Logger *zap.Logger
}

// Session is one capture session. It is not safe for concurrent use; all
// calls happen on the UI loop.
type Session struct {
	resolver  Resolver
	snapshot  *model.HierarchySnapshot
	items     []model.FeedbackItem
	selection model.ElementID
	startedAt time.Time

	liveFrames map[model.ElementID]model.Rect
	tracking   uiloop.Subscription

	newID      model.IDGenerator
	now        func() time.Time
	logger     *zap.Logger
	encodeJSON func(output.PageFeedback) ([]byte, error)
}

// New starts a session over snap. resolver may be nil when live tracking is
// never used.
func New(resolver Resolver, snap *model.HierarchySnapshot, opts Options) *Session {
	if opts.IDs == nil {
		opts.IDs = model.UUIDv7()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if snap == nil {
		snap = &model.HierarchySnapshot{}
	}
	return &Session{
		resolver:   resolver,
		snapshot:   snap,
		items:      slices.Clone(opts.Items),
		startedAt:  opts.Now(),
		liveFrames: make(map[model.ElementID]model.Rect),
		newID:      opts.IDs,
		now:        opts.Now,
		logger:     opts.Logger,
		encodeJSON: output.PageFeedback.JSON,
	}
}

// Snapshot returns the current snapshot.
func (s *Session) Snapshot() *model.HierarchySnapshot { return s.snapshot }

// StartedAt returns when the session began.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Items returns the feedback in insertion order.
func (s *Session) Items() []model.FeedbackItem { return slices.Clone(s.items) }

// Count returns the number of feedback items.
func (s *Session) Count() int { return len(s.items) }

// HitTest returns the smallest leaf containing p.
func (s *Session) HitTest(p model.Point) (model.SnapshotElement, bool) {
	return s.snapshot.ElementAt(p)
}

// AddFeedback appends a new item for el. Duplicates for the same element are
// allowed; callers check FeedbackItem first to edit instead.
func (s *Session) AddFeedback(text string, el model.SnapshotElement) model.FeedbackItem {
	item := model.NewFeedbackItem(s.newID(), text, el, s.snapshot.PageName, s.now())
	s.items = append(s.items, item)
	s.logger.Debug("feedback added", zap.String("id", item.ID), zap.String("element", el.Title()))
	return item
}

// UpdateFeedback replaces the text of the item with item.ID in place. Id,
// position and creation time are preserved.
func (s *Session) UpdateFeedback(item model.FeedbackItem, text string) (model.FeedbackItem, bool) {
	i := s.indexOf(item.ID)
	if i < 0 {
		return model.FeedbackItem{}, false
	}
	s.items[i] = s.items[i].WithText(text)
	return s.items[i], true
}

// RemoveFeedback deletes every item with item.ID. Absent items are ignored.
func (s *Session) RemoveFeedback(item model.FeedbackItem) {
	s.items = slices.DeleteFunc(s.items, func(it model.FeedbackItem) bool { return it.ID == item.ID })
	s.pruneLiveFrames()
}

// ClearFeedback removes all items.
func (s *Session) ClearFeedback() {
	s.items = nil
	clear(s.liveFrames)
}

// FeedbackItem returns the first item attached to id.
func (s *Session) FeedbackItem(id model.ElementID) (model.FeedbackItem, bool) {
	for _, it := range s.items {
		if it.ElementID == id {
			return it, true
		}
	}
	return model.FeedbackItem{}, false
}

// HasFeedback reports whether any item is attached to id.
func (s *Session) HasFeedback(id model.ElementID) bool {
	_, ok := s.FeedbackItem(id)
	return ok
}

func (s *Session) indexOf(itemID string) int {
	return slices.IndexFunc(s.items, func(it model.FeedbackItem) bool { return it.ID == itemID })
}

// Select marks id as the selected element. Only leaves of the current
// snapshot can be selected.
func (s *Session) Select(id model.ElementID) bool {
	if !s.snapshot.Contains(id) {
		return false
	}
	s.selection = id
	return true
}

// Selection returns the selected element, if any.
func (s *Session) Selection() (model.SnapshotElement, bool) {
	if s.selection == "" {
		return model.SnapshotElement{}, false
	}
	return s.snapshot.Element(s.selection)
}

// ClearSelection drops the selection.
func (s *Session) ClearSelection() { s.selection = "" }

// ReplaceSnapshot swaps in a fresh capture. Feedback items and the selection
// are relinked to the same live node when the capture saw it, otherwise to
// the matching leaf, so they keep resolving; their captured element fields
// are left untouched. A selection with no match is dropped.
func (s *Session) ReplaceSnapshot(snap *model.HierarchySnapshot) {
	if snap == nil {
		return
	}
	prev := s.snapshot
	s.snapshot = snap

	relinked := make(map[model.ElementID]model.ElementID)
	for i, it := range s.items {
		el, ok := snap.Relink(it)
		if !ok {
			continue
		}
		relinked[it.ElementID] = el.ID
		s.items[i].ElementID = el.ID
	}
	for old, cur := range relinked {
		if r, ok := s.liveFrames[old]; ok {
			delete(s.liveFrames, old)
			s.liveFrames[cur] = r
		}
	}

	if s.selection != "" {
		s.selection = relinkSelection(prev, snap, s.selection)
	}
}

func relinkSelection(prev, curr *model.HierarchySnapshot, id model.ElementID) model.ElementID {
	if curr.Contains(id) {
		return id
	}
	if el, ok := curr.Successor(id); ok {
		return el.ID
	}
	el, ok := prev.Element(id)
	if !ok {
		return ""
	}
	want := model.NewFeedbackItem("", "", el, "", time.Time{})
	match, ok := model.MatchElement(want, curr.LeafElements)
	if !ok {
		return ""
	}
	return match.ID
}
