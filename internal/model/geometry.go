package model

import "fmt"

// Point is a location in screen coordinates.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `yaml:"width"  json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// String renders the size as "WxH" using integer pixels.
func (s Size) String() string {
	return fmt.Sprintf("%d×%d", int(s.Width), int(s.Height))
}

// Rect is an axis-aligned rectangle. Frames stored in snapshots and feedback
// items are always in global screen coordinates.
type Rect struct {
	X      float64 `yaml:"x"      json:"x"`
	Y      float64 `yaml:"y"      json:"y"`
	Width  float64 `yaml:"width"  json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// R is shorthand for building a Rect.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Area returns width*height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// IsEmpty reports whether the rectangle covers no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Size returns the rectangle's size.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Contains reports whether p lies inside r. The min edges are inclusive and
// the max edges exclusive, so adjacent rectangles never both contain a point.
func (r Rect) Contains(p Point) bool {
	if r.IsEmpty() {
		return false
	}
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Intersects reports whether the two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.MaxX() && r.MaxX() > o.X && r.Y < o.MaxY() && r.MaxY() > o.Y
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Int truncates each component toward zero, giving [x, y, width, height].
func (r Rect) Int() [4]int {
	return [4]int{int(r.X), int(r.Y), int(r.Width), int(r.Height)}
}

// String renders the frame the way exports print it.
func (r Rect) String() string {
	b := r.Int()
	return fmt.Sprintf("x:%d y:%d w:%d h:%d", b[0], b[1], b[2], b[3])
}
