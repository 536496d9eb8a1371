package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/toolbar"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	labelText       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	toolbarFill     = color.RGBA{R: 28, G: 28, B: 30, A: 235}
	toolbarDisabled = color.RGBA{R: 142, G: 142, B: 147, A: 255}
)

// badgeSize is the side of the numbered badge in points.
const badgeSize = 20

// Render draws the surface's highlights and toolbar onto dst. scale converts
// points to pixels; dst's origin is the screen origin.
func (s *Surface) Render(dst *image.RGBA, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	for _, h := range s.layer.Highlights() {
		if h.Visible() {
			drawHighlight(dst, h, scale)
		}
	}
	s.renderToolbar(dst, scale)
}

func drawHighlight(img *image.RGBA, h *Highlight, scale float64) {
	spec := h.Style.Spec()
	r := toPixels(h.Frame(), scale)
	if r.Empty() {
		return
	}
	fillRect(img, r, spec.Fill)

	width := int(math.Round(spec.StrokeWidth * scale))
	var dash []int
	for _, d := range spec.Dash {
		dash = append(dash, int(math.Round(d*scale)))
	}
	strokeRect(img, r, width, spec.Stroke, dash)

	if h.Label != "" {
		box := labelBox(r, h.Label, img.Bounds())
		fillRect(img, box, spec.Stroke)
		drawText(img, h.Label, box.Min.X+4, box.Max.Y-4, labelText)
	}
	if h.Badge > 0 {
		size := int(math.Round(badgeSize * scale))
		box := image.Rect(r.Max.X-size/2, r.Min.Y-size/2, r.Max.X+size/2, r.Min.Y+size/2)
		fillRect(img, box, spec.Stroke)
		n := strconv.Itoa(h.Badge)
		drawText(img, n, box.Min.X+(size-len(n)*7)/2, box.Min.Y+size/2+5, labelText)
	}
}

// labelBox is the name tag above r, or below r when there is no room above.
// Glyphs are 7px wide.
func labelBox(r image.Rectangle, label string, bounds image.Rectangle) image.Rectangle {
	w := utf8.RuneCountInString(label)*7 + 8
	box := image.Rect(r.Min.X, r.Min.Y-17, r.Min.X+w, r.Min.Y)
	if box.Min.Y < bounds.Min.Y {
		box = box.Add(image.Pt(0, r.Dy()+17))
	}
	return box
}

func (s *Surface) renderToolbar(img *image.RGBA, scale float64) {
	tb := s.toolbar
	if !tb.Visible() {
		return
	}
	fillRect(img, toPixels(tb.Frame(), scale), toolbarFill)
	if !tb.Expanded() {
		c := toPixels(tb.Frame(), scale)
		drawText(img, "A", c.Min.X+(c.Dx()-7)/2, c.Min.Y+c.Dy()/2+5, labelText)
		return
	}
	interactive := s.ctrl.Interactive()
	for _, b := range tb.Buttons() {
		r := toPixels(b.Frame, scale)
		title := b.Title
		if n := r.Dx() / 7; len(title) > n {
			title = title[:n]
		}
		c := labelText
		if !interactive && b.Action != toolbar.ActionTogglePause && b.Action != toolbar.ActionClose {
			c = toolbarDisabled
		}
		drawText(img, title, r.Min.X+(r.Dx()-len(title)*7)/2, r.Min.Y+r.Dy()/2+5, c)
	}
}

func toPixels(r model.Rect, scale float64) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X*scale)),
		int(math.Round(r.Y*scale)),
		int(math.Round(r.MaxX()*scale)),
		int(math.Round(r.MaxY()*scale)),
	)
}

// fillRect composites c over r, clipped to img.
func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// strokeRect draws a border of the given width inside r. A non-empty dash
// alternates on/off runs measured along each edge from its starting corner.
func strokeRect(img *image.RGBA, r image.Rectangle, width int, c color.RGBA, dash []int) {
	if width < 1 {
		width = 1
	}
	period, on := 0, 0
	if len(dash) >= 2 && dash[0] > 0 {
		on = dash[0]
		period = dash[0] + dash[1]
	}
	visible := func(along int) bool {
		return period == 0 || along%period < on
	}
	bounds := img.Bounds()
	set := func(x, y int) {
		if (image.Point{X: x, Y: y}).In(bounds) {
			img.SetRGBA(x, y, c)
		}
	}
	for i := 0; i < width; i++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if visible(x - r.Min.X) {
				set(x, r.Min.Y+i)
				set(x, r.Max.Y-1-i)
			}
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			if visible(y - r.Min.Y) {
				set(r.Min.X+i, y)
				set(r.Max.X-1-i, y)
			}
		}
	}
}

// drawText draws text with basicfont.Face7x13; (x, y) is the left end of
// the baseline.
func drawText(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
