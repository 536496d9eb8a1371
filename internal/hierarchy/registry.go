package hierarchy

import (
	"weak"

	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/pkg/host"
)

// registry maps element ids from the latest capture to weak node handles.
// It is replaced wholesale on every capture, so ids from older passes stop
// resolving. Nodes seen by both passes are recorded in relinked.
type registry struct {
	nodes   map[model.ElementID]weak.Pointer[host.View]
	frameOf func(*host.View) model.Rect

	prevByNode map[weak.Pointer[host.View]]model.ElementID
	relinked   map[model.ElementID]model.ElementID
}

func newRegistry(frameOf func(*host.View) model.Rect) *registry {
	return &registry{
		nodes:   make(map[model.ElementID]weak.Pointer[host.View]),
		frameOf: frameOf,
	}
}

func (r *registry) reset() {
	// Weak pointers made from the same node compare equal.
	r.prevByNode = make(map[weak.Pointer[host.View]]model.ElementID, len(r.nodes))
	for id, p := range r.nodes {
		r.prevByNode[p] = id
	}
	r.nodes = make(map[model.ElementID]weak.Pointer[host.View])
	r.relinked = make(map[model.ElementID]model.ElementID)
}

func (r *registry) add(v *host.View) model.ElementID {
	id := model.NewElementID()
	p := weak.Make(v)
	r.nodes[id] = p
	if prev, ok := r.prevByNode[p]; ok {
		r.relinked[prev] = id
	}
	return id
}

// takeRelinked returns the previous-to-current id map of the pass that just
// finished and releases the previous pass's handles.
func (r *registry) takeRelinked() map[model.ElementID]model.ElementID {
	m := r.relinked
	r.prevByNode = nil
	r.relinked = nil
	return m
}

func (r *registry) resolve(id model.ElementID) (model.Rect, bool) {
	p, ok := r.nodes[id]
	if !ok {
		return model.Rect{}, false
	}
	v := p.Value()
	if v == nil || v.Window() == nil {
		return model.Rect{}, false
	}
	return r.frameOf(v), true
}

func (r *registry) len() int { return len(r.nodes) }

func screenFrame(v *host.View) model.Rect { return v.ScreenFrame() }
