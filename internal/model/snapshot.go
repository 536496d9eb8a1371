package model

import (
	"fmt"
	"time"
)

// SourceType identifies which walk strategy produced a snapshot.
type SourceType string

const (
	SourceViewHierarchy SourceType = "viewHierarchy"
	SourceAccessibility SourceType = "accessibility"
)

// ParseSourceType converts a config/flag value to a SourceType.
func ParseSourceType(s string) (SourceType, error) {
	switch s {
	case "", "view", "viewHierarchy", "view-hierarchy":
		return SourceViewHierarchy, nil
	case "accessibility", "a11y":
		return SourceAccessibility, nil
	default:
		return SourceViewHierarchy, fmt.Errorf("unknown data source: %q (expected view or accessibility)", s)
	}
}

// HierarchySnapshot is the flattened result of one capture pass. A snapshot is
// replaced wholesale on refresh, never patched.
type HierarchySnapshot struct {
	LeafElements []SnapshotElement `yaml:"elements"      json:"elements"`
	CapturedAt   time.Time         `yaml:"captured_at"   json:"capturedAt"`
	SourceType   SourceType        `yaml:"source"        json:"source"`
	ViewportSize Size              `yaml:"viewport"      json:"viewport"`
	PageName     string            `yaml:"page"          json:"page"`

	// Relinked maps ids from the previous pass of the same source to the ids
	// the same live nodes received in this one.
	Relinked map[ElementID]ElementID `yaml:"-" json:"-"`
}

// Successor returns the leaf of this snapshot that is the same live node as
// id from the previous capture.
func (s *HierarchySnapshot) Successor(prev ElementID) (SnapshotElement, bool) {
	if s == nil {
		return SnapshotElement{}, false
	}
	id, ok := s.Relinked[prev]
	if !ok {
		return SnapshotElement{}, false
	}
	return s.Element(id)
}

// Relink finds the leaf that item's element became in this snapshot: the same
// live node first, then MatchElement.
func (s *HierarchySnapshot) Relink(item FeedbackItem) (SnapshotElement, bool) {
	if s == nil {
		return SnapshotElement{}, false
	}
	if el, ok := s.Successor(item.ElementID); ok {
		return el, true
	}
	return MatchElement(item, s.LeafElements)
}

// Element returns the leaf with the given id.
func (s *HierarchySnapshot) Element(id ElementID) (SnapshotElement, bool) {
	if s == nil {
		return SnapshotElement{}, false
	}
	for _, el := range s.LeafElements {
		if el.ID == id {
			return el, true
		}
	}
	return SnapshotElement{}, false
}

// Contains reports whether id is a leaf of this snapshot.
func (s *HierarchySnapshot) Contains(id ElementID) bool {
	_, ok := s.Element(id)
	return ok
}

// ElementAt returns the smallest-area leaf whose frame contains p. Ties keep
// the earliest leaf in capture order.
func (s *HierarchySnapshot) ElementAt(p Point) (SnapshotElement, bool) {
	if s == nil {
		return SnapshotElement{}, false
	}
	return SmallestContaining(s.LeafElements, p)
}

// SmallestContaining returns the element with the strictly smallest frame area
// among those containing p.
func SmallestContaining(elements []SnapshotElement, p Point) (SnapshotElement, bool) {
	var (
		best  SnapshotElement
		found bool
	)
	for _, el := range elements {
		if !el.Frame.Contains(p) {
			continue
		}
		if !found || el.Frame.Area() < best.Frame.Area() {
			best = el
			found = true
		}
	}
	return best, found
}
