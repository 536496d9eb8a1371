package capture

import (
	"github.com/mj1618/agentation/internal/output"
	"go.uber.org/zap"
)

// Export returns the session's exportable feedback.
func (s *Session) Export() output.PageFeedback {
	return output.PageFeedback{
		PageName:       s.snapshot.PageName,
		Viewport:       s.snapshot.ViewportSize,
		Items:          s.Items(),
		CaptureStarted: s.startedAt,
	}
}

// FeedbackByScreen groups items by the screen they were recorded on.
func (s *Session) FeedbackByScreen() []output.ScreenGroup {
	return s.Export().ByScreen()
}

// FormatAsMarkdown renders the human-readable report.
func (s *Session) FormatAsMarkdown(opts output.MarkdownOptions) string {
	return s.Export().Markdown(opts)
}

// FormatAsJSON renders sorted-key JSON. On error no output is returned.
func (s *Session) FormatAsJSON() ([]byte, error) {
	return s.encodeJSON(s.Export())
}

// Format renders the session in format f. A JSON encoding failure is logged
// and the markdown report is returned instead.
func (s *Session) Format(f output.ExportFormat, opts output.MarkdownOptions) string {
	if f == output.ExportJSON {
		data, err := s.FormatAsJSON()
		if err == nil {
			return string(data)
		}
		s.logger.Warn("json export failed, falling back to markdown", zap.Error(err))
	}
	return s.FormatAsMarkdown(opts)
}
