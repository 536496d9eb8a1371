package model

import "strings"

// Traits is a bitmask of accessibility traits reported by a node.
type Traits uint32

const (
	TraitButton Traits = 1 << iota
	TraitLink
	TraitHeader
	TraitImage
	TraitStaticText
	TraitSearchField
	TraitAdjustable
	TraitTabBar
	TraitSelected
	TraitNotEnabled
)

// Has reports whether all bits of t2 are set.
func (t Traits) Has(t2 Traits) bool { return t&t2 == t2 }

// traitRoles is ordered: the first matching trait names the role.
var traitRoles = []struct {
	trait Traits
	role  string
}{
	{TraitButton, "Button"},
	{TraitLink, "Link"},
	{TraitHeader, "Header"},
	{TraitImage, "Image"},
	{TraitStaticText, "StaticText"},
	{TraitSearchField, "SearchField"},
	{TraitAdjustable, "Adjustable"},
	{TraitTabBar, "TabBar"},
}

// RoleFromTraits returns the semantic role for an accessibility leaf, or ""
// when no classifying trait is set.
func RoleFromTraits(t Traits) string {
	for _, tr := range traitRoles {
		if t.Has(tr.trait) {
			return tr.role
		}
	}
	return ""
}

// ParseTrait maps a trait name (as used in fixtures) to its bit.
func ParseTrait(name string) (Traits, bool) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "")) {
	case "button":
		return TraitButton, true
	case "link":
		return TraitLink, true
	case "header":
		return TraitHeader, true
	case "image":
		return TraitImage, true
	case "statictext", "text":
		return TraitStaticText, true
	case "searchfield":
		return TraitSearchField, true
	case "adjustable":
		return TraitAdjustable, true
	case "tabbar":
		return TraitTabBar, true
	case "selected":
		return TraitSelected, true
	case "notenabled", "disabled":
		return TraitNotEnabled, true
	}
	return 0, false
}

// typeRules classify a view type name by substring. Order matters: "TextField"
// must be checked before the generic "Text".
var typeRules = []struct {
	needles []string
	short   string
}{
	{[]string{"Button"}, "button"},
	{[]string{"TextField", "TextInput", "TextEditor"}, "input"},
	{[]string{"Label", "Text"}, "text"},
	{[]string{"Image"}, "image"},
	{[]string{"Switch", "Toggle"}, "toggle"},
	{[]string{"Slider"}, "slider"},
	{[]string{"ScrollView"}, "scrollview"},
	{[]string{"TableView", "List"}, "list"},
	{[]string{"CollectionView"}, "collection"},
	{[]string{"NavigationBar"}, "navbar"},
	{[]string{"TabBar"}, "tabbar"},
	{[]string{"Link"}, "link"},
}

// ShortType converts a view type name to a compact classifier such as
// "button", "text" or "input". Unknown types fall back to the sanitized,
// lowercased type name.
func ShortType(typeName string) string {
	for _, rule := range typeRules {
		for _, n := range rule.needles {
			if strings.Contains(typeName, n) {
				return rule.short
			}
		}
	}
	return strings.ToLower(SanitizeTypeName(typeName))
}

// ShortTypeForRole is the accessibility-walker equivalent of ShortType.
func ShortTypeForRole(role string) string {
	if role == "" {
		return "element"
	}
	return strings.ToLower(role)
}

// SanitizeTypeName strips toolkit prefixes, generic parameters, module
// qualifiers and underscores from a type name.
func SanitizeTypeName(typeName string) string {
	name := typeName
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimPrefix(name, "UI")
	name = strings.TrimPrefix(name, "NS")
	name = strings.ReplaceAll(name, "_", "")
	if name == "" {
		return "View"
	}
	return name
}
