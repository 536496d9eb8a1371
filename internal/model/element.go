package model

import "github.com/google/uuid"

// ElementID is an opaque handle for an element seen during a capture pass.
// IDs are never reused across captures.
type ElementID string

// NewElementID returns a fresh random element id.
func NewElementID() ElementID {
	return ElementID(uuid.NewString())
}

// SnapshotElement is an immutable leaf descriptor produced by a capture pass.
type SnapshotElement struct {
	ID          ElementID `yaml:"id"           json:"id"`
	DisplayName string    `yaml:"display_name" json:"displayName"`
	ShortType   string    `yaml:"type"         json:"type"`
	Frame       Rect      `yaml:"frame"        json:"frame"`
	Path        string    `yaml:"path"         json:"path"`
}

// Title is the "<type> "<name>"" heading used in exports and labels.
// Elements without a display name fall back to the bare type.
func (e SnapshotElement) Title() string {
	return ElementTitle(e.ShortType, e.DisplayName)
}

// ElementTitle formats a type/name pair as an export heading.
func ElementTitle(shortType, displayName string) string {
	if displayName == "" {
		return shortType
	}
	return shortType + ` "` + displayName + `"`
}
