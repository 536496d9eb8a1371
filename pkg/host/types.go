package host

import "github.com/mj1618/agentation/internal/model"

// Geometry and trait types shared with the capture model.
type (
	Rect   = model.Rect
	Point  = model.Point
	Size   = model.Size
	Traits = model.Traits
)

// R builds a Rect.
func R(x, y, w, h float64) Rect { return model.R(x, y, w, h) }

// Accessibility traits.
const (
	TraitButton      = model.TraitButton
	TraitLink        = model.TraitLink
	TraitHeader      = model.TraitHeader
	TraitImage       = model.TraitImage
	TraitStaticText  = model.TraitStaticText
	TraitSearchField = model.TraitSearchField
	TraitAdjustable  = model.TraitAdjustable
	TraitTabBar      = model.TraitTabBar
	TraitSelected    = model.TraitSelected
	TraitNotEnabled  = model.TraitNotEnabled
)
