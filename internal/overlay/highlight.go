// Package overlay implements the transparent surface laid over the host
// application: event routing, hover and feedback highlights that follow
// live element frames, and a software renderer for them.
package overlay

import (
	"image/color"

	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/uiloop"
)

// Style is the look of a highlight.
type Style int

const (
	// StyleHover marks the element under the pointer: solid border and a
	// floating name label.
	StyleHover Style = iota
	// StyleSelected marks a feedback-bearing element: dashed border and a
	// numbered badge.
	StyleSelected
)

// StyleSpec describes how a style is drawn.
type StyleSpec struct {
	Stroke      color.RGBA
	Fill        color.RGBA
	StrokeWidth float64
	// Dash is the on/off pattern in points; nil draws a solid line.
	Dash []float64
}

// Spec returns the drawing parameters for s.
func (s Style) Spec() StyleSpec {
	if s == StyleSelected {
		return StyleSpec{
			Stroke:      color.RGBA{R: 77, G: 204, B: 102, A: 255},
			Fill:        color.RGBA{R: 77, G: 204, B: 102, A: 26},
			StrokeWidth: 2.5,
			Dash:        []float64{6, 3},
		}
	}
	return StyleSpec{
		Stroke:      color.RGBA{R: 51, G: 153, B: 255, A: 255},
		Fill:        color.RGBA{R: 51, G: 153, B: 255, A: 26},
		StrokeWidth: 2,
	}
}

// Highlight is one rectangle drawn over an element.
type Highlight struct {
	Style     Style
	ElementID model.ElementID
	// Label is the hover name label; empty for selected highlights.
	Label string
	// Badge is the 1-based feedback number; zero for hover highlights.
	Badge int

	frame   model.Rect
	path    string
	hidden  bool
	tracker uiloop.Subscription
}

// Frame returns where the highlight is drawn.
func (h *Highlight) Frame() model.Rect { return h.frame }

// Visible reports whether the highlight should be drawn.
func (h *Highlight) Visible() bool { return !h.hidden }

// Tracked reports whether a frame tracker drives the highlight.
func (h *Highlight) Tracked() bool { return h.tracker != nil }

// refresh re-reads the live frame. While tracking, a node that left the tree
// hides the highlight; it never falls back to the captured frame.
func (h *Highlight) refresh(r Resolver) {
	frame, ok := r.Resolve(h.ElementID)
	if !ok {
		h.hidden = true
		return
	}
	h.frame = frame
	h.hidden = false
}

func (h *Highlight) stopTracking() {
	if h.tracker != nil {
		h.tracker.Cancel()
		h.tracker = nil
	}
}
