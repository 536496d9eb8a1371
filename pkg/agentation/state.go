package agentation

import "github.com/mj1618/agentation/internal/capture"

// State is the facade's lifecycle state: Idle, Capturing or Paused.
type State interface {
	state()
	String() string
}

// Idle means no session is running.
type Idle struct{}

// Capturing means a session is running and the overlay intercepts input.
type Capturing struct{ Session *capture.Session }

// Paused means a session is running but input passes through to the app.
type Paused struct{ Session *capture.Session }

func (Idle) state()      {}
func (Capturing) state() {}
func (Paused) state()    {}

func (Idle) String() string      { return "idle" }
func (Capturing) String() string { return "capturing" }
func (Paused) String() string    { return "paused" }

// sessionOf returns the session held by s, or nil when idle.
func sessionOf(s State) *capture.Session {
	switch st := s.(type) {
	case Capturing:
		return st.Session
	case Paused:
		return st.Session
	}
	return nil
}
