package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/mj1618/agentation/internal/model"
)

// ExportFormat selects how collected feedback is rendered for the clipboard
// and completion callbacks.
type ExportFormat string

const (
	ExportMarkdown ExportFormat = "markdown"
	ExportJSON     ExportFormat = "json"
)

// ParseExportFormat converts a config/flag value to an ExportFormat.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(s) {
	case "", "markdown", "md":
		return ExportMarkdown, nil
	case "json":
		return ExportJSON, nil
	default:
		return ExportMarkdown, fmt.Errorf("unknown export format: %q (expected markdown or json)", s)
	}
}

// PageFeedback is the exportable result of a capture session.
type PageFeedback struct {
	PageName       string               `yaml:"page"            json:"page"`
	Viewport       model.Size           `yaml:"viewport"        json:"viewport"`
	Items          []model.FeedbackItem `yaml:"items"           json:"items"`
	CaptureStarted time.Time            `yaml:"capture_started" json:"captureStarted"`
}

// ScreenGroup is the feedback recorded against one screen.
type ScreenGroup struct {
	Screen string
	Items  []model.FeedbackItem
}

// ByScreen groups items by screen name in first-seen order. Items without a
// screen name are grouped under the page name.
func (p PageFeedback) ByScreen() []ScreenGroup {
	var groups []ScreenGroup
	index := map[string]int{}
	for _, item := range p.Items {
		name := item.ScreenName
		if name == "" {
			name = p.PageName
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, ScreenGroup{Screen: name})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// MarkdownOptions tweak markdown rendering.
type MarkdownOptions struct {
	// GroupByScreen inserts a "## <screen>" heading before each screen's
	// items. Numbering stays continuous across groups.
	GroupByScreen bool
}

// Markdown renders the human-readable report.
func (p PageFeedback) Markdown(opts MarkdownOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Page Feedback: %s\n", p.PageName)
	fmt.Fprintf(&b, "**Viewport:** %s\n\n", p.Viewport)

	n := 1
	if !opts.GroupByScreen {
		for _, item := range p.Items {
			writeMarkdownItem(&b, n, item)
			n++
		}
		return b.String()
	}
	for _, g := range p.ByScreen() {
		fmt.Fprintf(&b, "## %s\n\n", g.Screen)
		for _, item := range g.Items {
			writeMarkdownItem(&b, n, item)
			n++
		}
	}
	return b.String()
}

func writeMarkdownItem(b *strings.Builder, n int, item model.FeedbackItem) {
	fmt.Fprintf(b, "### %d. %s\n", n, model.ElementTitle(item.ElementShortType, item.ElementDisplayName))
	fmt.Fprintf(b, "**Location:** %s\n", item.ElementPath)
	fmt.Fprintf(b, "**Frame:** %s\n", item.ElementFrame)
	fmt.Fprintf(b, "**Feedback:** %s\n\n", item.Text)
}
