package model

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces unique feedback item identifiers.
type IDGenerator func() string

// UUIDv7 returns a generator of time-sortable UUID v7 strings.
func UUIDv7() IDGenerator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// FeedbackItem is one annotation attached to an element. The element fields
// are copies taken at creation time so the item survives snapshot replacement.
type FeedbackItem struct {
	ID                 string    `yaml:"id"           json:"id"`
	ElementID          ElementID `yaml:"element_id"   json:"elementId"`
	Text               string    `yaml:"text"         json:"text"`
	ElementDisplayName string    `yaml:"display_name" json:"displayName"`
	ElementShortType   string    `yaml:"type"         json:"type"`
	ElementFrame       Rect      `yaml:"frame"        json:"frame"`
	ElementPath        string    `yaml:"path"         json:"path"`
	ScreenName         string    `yaml:"screen"       json:"screen"`
	CreatedAt          time.Time `yaml:"created_at"   json:"createdAt"`
}

// NewFeedbackItem snapshots el's display fields into a new item.
func NewFeedbackItem(id, text string, el SnapshotElement, screen string, now time.Time) FeedbackItem {
	return FeedbackItem{
		ID:                 id,
		ElementID:          el.ID,
		Text:               text,
		ElementDisplayName: el.DisplayName,
		ElementShortType:   el.ShortType,
		ElementFrame:       el.Frame,
		ElementPath:        el.Path,
		ScreenName:         screen,
		CreatedAt:          now,
	}
}

// Element rebuilds the snapshot element the item was created against.
func (f FeedbackItem) Element() SnapshotElement {
	return SnapshotElement{
		ID:          f.ElementID,
		DisplayName: f.ElementDisplayName,
		ShortType:   f.ElementShortType,
		Frame:       f.ElementFrame,
		Path:        f.ElementPath,
	}
}

// WithText returns a copy with new text; id and creation time are kept.
func (f FeedbackItem) WithText(text string) FeedbackItem {
	f.Text = text
	return f
}
