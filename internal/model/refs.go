package model

import "strings"

// PathSeparator joins breadcrumb components.
const PathSeparator = " > "

// maxLabelRunes is how much of an accessibility label a path component keeps.
const maxLabelRunes = 20

// TruncateLabel shortens s to maxLabelRunes runes, appending "..." when cut.
func TruncateLabel(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelRunes {
		return s
	}
	return string(r[:maxLabelRunes]) + "..."
}

// PathComponent returns the breadcrumb segment for a node using, in order, the
// developer-assigned tag, the accessibility identifier, the truncated label,
// then the sanitized type name prefixed with ".".
func PathComponent(tag, identifier, label, typeName string) string {
	switch {
	case tag != "":
		return "[" + tag + "]"
	case identifier != "":
		return "#" + identifier
	case label != "":
		return `"` + TruncateLabel(label) + `"`
	}
	return "." + SanitizeTypeName(typeName)
}

// AccessibilityComponent returns the breadcrumb segment for an accessibility
// leaf: quoted label, else role, else "Element".
func AccessibilityComponent(label, role string) string {
	switch {
	case label != "":
		return `"` + TruncateLabel(label) + `"`
	case role != "":
		return role
	}
	return "Element"
}

// JoinPath joins non-empty components with PathSeparator.
func JoinPath(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, PathSeparator)
}

// DisplayName picks the human name for a view: label, identifier, tag, then
// the raw type name.
func DisplayName(label, identifier, tag, typeName string) string {
	switch {
	case label != "":
		return label
	case identifier != "":
		return identifier
	case tag != "":
		return tag
	}
	return typeName
}
