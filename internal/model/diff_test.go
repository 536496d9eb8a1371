package model

import "testing"

func TestElementHash_Stable(t *testing.T) {
	el := SnapshotElement{ID: "a", ShortType: "button", DisplayName: "OK", Path: "Home > #ok"}
	if el.Hash() != el.Hash() {
		t.Error("hash not stable")
	}
	if len(el.Hash()) != 16 {
		t.Errorf("hash length = %d, want 16", len(el.Hash()))
	}
}

func TestElementHash_IgnoresIDAndFrame(t *testing.T) {
	el1 := SnapshotElement{ID: "a", ShortType: "button", DisplayName: "OK", Path: "Home", Frame: R(0, 0, 10, 10)}
	el2 := SnapshotElement{ID: "b", ShortType: "button", DisplayName: "OK", Path: "Home", Frame: R(5, 5, 20, 20)}
	if el1.Hash() != el2.Hash() {
		t.Error("hash should not depend on id or frame")
	}
}

func TestElementHash_Differs(t *testing.T) {
	base := SnapshotElement{ShortType: "button", DisplayName: "OK", Path: "Home > toolbar"}
	tests := []struct {
		name  string
		other SnapshotElement
	}{
		{"type", SnapshotElement{ShortType: "link", DisplayName: "OK", Path: "Home > toolbar"}},
		{"name", SnapshotElement{ShortType: "button", DisplayName: "Cancel", Path: "Home > toolbar"}},
		{"path", SnapshotElement{ShortType: "button", DisplayName: "OK", Path: "Home > footer"}},
	}
	for _, tt := range tests {
		if base.Hash() == tt.other.Hash() {
			t.Errorf("different %s should produce different hashes", tt.name)
		}
	}
}

func TestFeedbackItemHash_MatchesElement(t *testing.T) {
	el := SnapshotElement{ID: "a", ShortType: "input", DisplayName: "Email", Path: "Login > #email"}
	item := NewFeedbackItem("1", "x", el, "Login", now())
	if item.Hash() != el.Hash() {
		t.Error("item hash should equal its element's hash")
	}
}

func TestMatchElement_ByHash(t *testing.T) {
	old := SnapshotElement{ID: "old", ShortType: "button", DisplayName: "OK", Path: "Home > #ok", Frame: R(0, 0, 50, 20)}
	item := NewFeedbackItem("1", "x", old, "Home", now())
	curr := []SnapshotElement{
		{ID: "n1", ShortType: "text", DisplayName: "Title", Path: "Home > .Label"},
		{ID: "n2", ShortType: "button", DisplayName: "OK", Path: "Home > #ok", Frame: R(0, 100, 50, 20)},
	}
	got, ok := MatchElement(item, curr)
	if !ok || got.ID != "n2" {
		t.Errorf("MatchElement = %q, %v; want n2", got.ID, ok)
	}
}

func TestMatchElement_FrameFallback(t *testing.T) {
	old := SnapshotElement{ID: "old", ShortType: "button", DisplayName: "Send", Path: "Chat > #send", Frame: R(10, 20, 50, 20)}
	item := NewFeedbackItem("1", "x", old, "Chat", now())
	curr := []SnapshotElement{
		{ID: "n1", ShortType: "button", DisplayName: "Send now", Path: "Chat > #send", Frame: R(10.4, 20.9, 50, 20)},
		{ID: "n2", ShortType: "text", DisplayName: "Send", Path: "Chat", Frame: R(10, 20, 50, 20)},
	}
	got, ok := MatchElement(item, curr)
	if !ok || got.ID != "n1" {
		t.Errorf("MatchElement = %q, %v; want n1 by type and integer frame", got.ID, ok)
	}
}

func TestMatchElement_AmbiguousHashUsesFrame(t *testing.T) {
	old := SnapshotElement{ID: "old", ShortType: "button", DisplayName: "Delete", Path: "List > \"Delete\"", Frame: R(0, 100, 80, 30)}
	item := NewFeedbackItem("1", "x", old, "List", now())
	curr := []SnapshotElement{
		{ID: "r1", ShortType: "button", DisplayName: "Delete", Path: "List > \"Delete\"", Frame: R(0, 50, 80, 30)},
		{ID: "r2", ShortType: "button", DisplayName: "Delete", Path: "List > \"Delete\"", Frame: R(0, 100, 80, 30)},
	}
	got, ok := MatchElement(item, curr)
	if !ok || got.ID != "r2" {
		t.Errorf("MatchElement = %q, %v; want r2", got.ID, ok)
	}
}

func TestMatchElement_NoMatch(t *testing.T) {
	old := SnapshotElement{ID: "old", ShortType: "button", DisplayName: "OK", Path: "Home > #ok", Frame: R(0, 0, 50, 20)}
	item := NewFeedbackItem("1", "x", old, "Home", now())
	curr := []SnapshotElement{
		{ID: "n1", ShortType: "button", DisplayName: "Cancel", Path: "Home > #cancel", Frame: R(100, 0, 50, 20)},
	}
	if _, ok := MatchElement(item, curr); ok {
		t.Error("expected no match")
	}
	if _, ok := MatchElement(item, nil); ok {
		t.Error("expected no match against an empty snapshot")
	}
}

func TestRekey(t *testing.T) {
	old := SnapshotElement{ID: "old", ShortType: "button", DisplayName: "OK", Path: "Home > #ok", Frame: R(0, 0, 50, 20)}
	item := NewFeedbackItem("item-1", "Make it bigger", old, "Home", now())
	el := SnapshotElement{ID: "new", ShortType: "button", DisplayName: "OK", Path: "Home > #ok", Frame: R(0, 40, 60, 20)}

	got := Rekey(item, el)
	if got.ElementID != "new" || got.ElementFrame != el.Frame {
		t.Errorf("element fields not refreshed: %+v", got)
	}
	if got.ID != "item-1" || got.Text != "Make it bigger" || got.ScreenName != "Home" || !got.CreatedAt.Equal(item.CreatedAt) {
		t.Errorf("item fields changed: %+v", got)
	}
}
