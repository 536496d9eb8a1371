package agentation

import (
	"github.com/mj1618/agentation/internal/capture"
	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/output"
	"go.uber.org/zap"
)

func (a *Agentation) activeOrLast() *capture.Session {
	if sess := a.Session(); sess != nil {
		return sess
	}
	return a.last
}

func (a *Agentation) format(sess *capture.Session) string {
	return sess.Format(a.outputFormat, output.MarkdownOptions{GroupByScreen: a.groupByScreen})
}

// CopyFeedback formats the active session, or the last one when idle, in
// the configured output format and places it on the clipboard. It reports
// false when there is no session. The text is returned even if the
// clipboard write fails.
func (a *Agentation) CopyFeedback() (string, bool) {
	sess := a.activeOrLast()
	if sess == nil {
		return "", false
	}
	text := a.format(sess)
	if a.provider.Clipboard != nil {
		if err := a.provider.Clipboard.SetText(text); err != nil {
			a.logger.Warn("copy feedback to clipboard", zap.Error(err))
		}
	}
	return text, true
}

// ClearFeedback removes every item from the active session.
func (a *Agentation) ClearFeedback() {
	sess := a.Session()
	if sess == nil {
		return
	}
	sess.ClearFeedback()
	a.layer.Sync(nil)
}

// Export returns the active or last session's feedback.
func (a *Agentation) Export() (output.PageFeedback, bool) {
	sess := a.activeOrLast()
	if sess == nil {
		return output.PageFeedback{}, false
	}
	return sess.Export(), true
}

// AddFeedback attaches text to the element at p in the active session,
// updating the element's existing item if it has one. It reports false when
// no session is capturing or nothing is under p.
func (a *Agentation) AddFeedback(p model.Point, text string) (model.FeedbackItem, bool) {
	sess := a.Session()
	if sess == nil {
		return model.FeedbackItem{}, false
	}
	el, ok := sess.HitTest(p)
	if !ok {
		return model.FeedbackItem{}, false
	}
	var item model.FeedbackItem
	if existing, found := sess.FeedbackItem(el.ID); found {
		item, _ = sess.UpdateFeedback(existing, text)
	} else {
		item = sess.AddFeedback(text, el)
	}
	a.layer.Sync(sess.Items())
	return item, true
}

// RemoveFeedback deletes the item with the given id from the active
// session. Unknown ids are ignored.
func (a *Agentation) RemoveFeedback(itemID string) {
	sess := a.Session()
	if sess == nil {
		return
	}
	sess.RemoveFeedback(model.FeedbackItem{ID: itemID})
	a.layer.Sync(sess.Items())
}

// FormatFeedback renders the active or last session in format f. It reports
// false when there is no session.
func (a *Agentation) FormatFeedback(f output.ExportFormat, groupByScreen bool) (string, bool) {
	sess := a.activeOrLast()
	if sess == nil {
		return "", false
	}
	return sess.Format(f, output.MarkdownOptions{GroupByScreen: groupByScreen}), true
}
