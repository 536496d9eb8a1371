package model

import (
	"crypto/sha256"
	"fmt"
)

// ElementHash computes a stable identity hash for an element based on its
// semantic content and breadcrumb. Element ids change on every capture; the
// hash lets feedback follow the same element across captures.
func ElementHash(shortType, displayName, path string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s", shortType, displayName, path)
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// Hash returns the identity hash of a snapshot element.
func (e SnapshotElement) Hash() string {
	return ElementHash(e.ShortType, e.DisplayName, e.Path)
}

// Hash returns the identity hash of the element a feedback item targets.
func (f FeedbackItem) Hash() string {
	return ElementHash(f.ElementShortType, f.ElementDisplayName, f.ElementPath)
}

// MatchElement finds the leaf in curr that corresponds to the element item
// was created against. Identity hash is tried first; when the hash is missing
// or ambiguous, an element with the same type and the same integer frame is
// accepted. The second result is false when nothing matches unambiguously.
func MatchElement(item FeedbackItem, curr []SnapshotElement) (SnapshotElement, bool) {
	want := item.Hash()
	var byHash []SnapshotElement
	for _, el := range curr {
		if el.Hash() == want {
			byHash = append(byHash, el)
		}
	}
	if len(byHash) == 1 {
		return byHash[0], true
	}

	candidates := curr
	if len(byHash) > 1 {
		candidates = byHash
	}
	frame := item.ElementFrame.Int()
	var byFrame []SnapshotElement
	for _, el := range candidates {
		if el.ShortType == item.ElementShortType && el.Frame.Int() == frame {
			byFrame = append(byFrame, el)
		}
	}
	if len(byFrame) == 1 {
		return byFrame[0], true
	}
	return SnapshotElement{}, false
}

// Rekey returns a copy of item pointing at el, refreshing the captured element
// fields. Text, id, screen and creation time are preserved.
func Rekey(item FeedbackItem, el SnapshotElement) FeedbackItem {
	item.ElementID = el.ID
	item.ElementDisplayName = el.DisplayName
	item.ElementShortType = el.ShortType
	item.ElementFrame = el.Frame
	item.ElementPath = el.Path
	return item
}
