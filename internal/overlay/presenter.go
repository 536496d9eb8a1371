package overlay

import (
	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/output"
)

// Sheet is a request to collect feedback text for an element.
type Sheet struct {
	Element model.SnapshotElement
	// Text prefills the editor with existing feedback.
	Text string
	// Editing is true when Text comes from an existing item.
	Editing bool
}

// Settings is what the settings screen edits.
type Settings struct {
	OutputFormat       output.ExportFormat
	DataSource         model.SourceType
	IncludeHidden      bool
	IncludeSystemViews bool
	TrackFrames        bool
}

// Presenter shows the overlay's modal UI. Completion callbacks run on the UI
// loop and may be invoked at most once.
type Presenter interface {
	// PresentFeedback shows the feedback sheet. done receives the submitted
	// text, or ok=false when the user cancels.
	PresentFeedback(sheet Sheet, done func(text string, ok bool))
	// PresentPreview shows the formatted export.
	PresentPreview(text string)
	// PresentSettings shows the settings screen; apply receives the edited
	// settings.
	PresentSettings(current Settings, apply func(Settings))
	// Dismiss closes whatever is showing.
	Dismiss()
}

// NopPresenter cancels every sheet immediately.
type NopPresenter struct{}

func (NopPresenter) PresentFeedback(_ Sheet, done func(string, bool)) { done("", false) }
func (NopPresenter) PresentPreview(string) {}
func (NopPresenter) PresentSettings(Settings, func(Settings)) {}
func (NopPresenter) Dismiss() {}
