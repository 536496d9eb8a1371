package cmd

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/mj1618/agentation/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	wireBackground = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	wireBox        = color.RGBA{R: 160, G: 160, B: 165, A: 255}
	wireText       = color.RGBA{R: 90, G: 90, B: 95, A: 255}
)

// drawWireframe paints a stand-in for the host's pixels: a box and a type
// label per captured element. scale converts points to image pixels.
func drawWireframe(img *image.RGBA, elements []model.SnapshotElement, scale float64) {
	draw.Draw(img, img.Bounds(), image.NewUniform(wireBackground), image.Point{}, draw.Src)
	for _, el := range elements {
		f := el.Frame
		x1 := int(f.X * scale)
		y1 := int(f.Y * scale)
		x2 := int(f.MaxX() * scale)
		y2 := int(f.MaxY() * scale)
		drawRectangle(img, x1, y1, x2, y2, wireBox)
		drawLabel(img, el.Title(), x1+4, y1+14, wireText)
	}
}

// isWithinBounds checks if a point is within the image bounds
func isWithinBounds(bounds image.Rectangle, x, y int) bool {
	return x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y
}

// drawRectangle draws a rectangle outline on the image
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()

	// Clamp to image bounds
	x1 = max(x1, bounds.Min.X)
	y1 = max(y1, bounds.Min.Y)
	x2 = min(x2, bounds.Max.X)
	y2 = min(y2, bounds.Max.Y)
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x < x2; x++ {
		img.Set(x, y1, c)
		img.Set(x, y2-1, c)
	}
	for y := y1; y < y2; y++ {
		img.Set(x1, y, c)
		img.Set(x2-1, y, c)
	}
}

// drawLabel draws text with its baseline at (x, y). Labels starting outside
// the image are skipped.
func drawLabel(img *image.RGBA, text string, x, y int, c color.Color) {
	if !isWithinBounds(img.Bounds(), x, y) {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
