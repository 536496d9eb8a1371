package model

import "strings"

// FilterElements returns the leaves whose short type is in types (empty =
// all) and whose frame intersects region (nil = no filter).
func FilterElements(elements []SnapshotElement, types []string, region *Rect) []SnapshotElement {
	if len(types) == 0 && region == nil {
		return elements
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[strings.ToLower(t)] = true
	}

	var result []SnapshotElement
	for _, el := range elements {
		if len(typeSet) > 0 && !typeSet[el.ShortType] {
			continue
		}
		if region != nil && !el.Frame.Intersects(*region) {
			continue
		}
		result = append(result, el)
	}
	return result
}

// FilterByText keeps leaves whose display name or path contains text
// (case-insensitive).
func FilterByText(elements []SnapshotElement, text string) []SnapshotElement {
	if text == "" {
		return elements
	}
	textLower := strings.ToLower(text)
	var result []SnapshotElement
	for _, el := range elements {
		if strings.Contains(strings.ToLower(el.DisplayName), textLower) ||
			strings.Contains(strings.ToLower(el.Path), textLower) {
			result = append(result, el)
		}
	}
	return result
}
