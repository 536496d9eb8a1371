package capture

import (
	"fmt"
	"strings"

	"github.com/mj1618/agentation/internal/model"
)

// CarryoverPolicy decides what happens to the previous session's feedback
// when a new session starts.
type CarryoverPolicy int

const (
	// CarryoverNone starts every session empty.
	CarryoverNone CarryoverPolicy = iota
	// CarryoverRekey keeps every item, re-keying those that match an element
	// in the new snapshot. Unmatched items keep their old element id.
	CarryoverRekey
	// CarryoverResolvedOnly keeps only items that match an element in the new
	// snapshot.
	CarryoverResolvedOnly
)

func (p CarryoverPolicy) String() string {
	switch p {
	case CarryoverRekey:
		return "rekey"
	case CarryoverResolvedOnly:
		return "resolved-only"
	default:
		return "none"
	}
}

// ParseCarryoverPolicy converts a config value to a policy.
func ParseCarryoverPolicy(s string) (CarryoverPolicy, error) {
	switch strings.ToLower(s) {
	case "", "none", "off":
		return CarryoverNone, nil
	case "rekey", "all":
		return CarryoverRekey, nil
	case "resolved-only", "resolved_only", "resolved":
		return CarryoverResolvedOnly, nil
	default:
		return CarryoverNone, fmt.Errorf("unknown carryover policy: %q (expected none, rekey or resolved-only)", s)
	}
}

// Carryover returns the items from prev that seed a session over snap.
// Items are copied by value; re-keyed items get refreshed element fields.
func Carryover(prev []model.FeedbackItem, snap *model.HierarchySnapshot, policy CarryoverPolicy) []model.FeedbackItem {
	if policy == CarryoverNone || len(prev) == 0 {
		return nil
	}
	out := make([]model.FeedbackItem, 0, len(prev))
	for _, it := range prev {
		el, ok := snap.Relink(it)
		switch {
		case ok:
			out = append(out, model.Rekey(it, el))
		case policy == CarryoverRekey:
			out = append(out, it)
		}
	}
	return out
}
