package capture

import (
	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/uiloop"
)

// LiveFrame returns the last tracked frame for item's element, or the frame
// captured when the item was created.
func (s *Session) LiveFrame(item model.FeedbackItem) model.Rect {
	if r, ok := s.liveFrames[item.ElementID]; ok {
		return r
	}
	return item.ElementFrame
}

// StartFrameTracking refreshes live frames for every feedback-bearing element
// on each frame tick. It is a no-op if tracking is already running or the
// session has no resolver.
func (s *Session) StartFrameTracking(frames uiloop.FrameScheduler) {
	if s.tracking != nil || s.resolver == nil || frames == nil {
		return
	}
	s.tracking = frames.Schedule(s.refreshLiveFrames)
}

// StopFrameTracking cancels the frame callback. No refresh runs after it
// returns.
func (s *Session) StopFrameTracking() {
	if s.tracking == nil {
		return
	}
	s.tracking.Cancel()
	s.tracking = nil
}

// Tracking reports whether live frame tracking is running.
func (s *Session) Tracking() bool { return s.tracking != nil }

func (s *Session) refreshLiveFrames() {
	for _, it := range s.items {
		if r, ok := s.resolver.Resolve(it.ElementID); ok {
			s.liveFrames[it.ElementID] = r
		} else {
			delete(s.liveFrames, it.ElementID)
		}
	}
}

func (s *Session) pruneLiveFrames() {
	for id := range s.liveFrames {
		if !s.HasFeedback(id) {
			delete(s.liveFrames, id)
		}
	}
}
