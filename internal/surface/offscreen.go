package surface

import (
	"image"
	"io"

	"github.com/fogleman/gg"
	"github.com/olivier-w/tendril/internal/paint"
)

// glowPasses approximate a canvas shadow blur with widening translucent
// strokes under the main one: width grows by blur*spread, alpha is scaled.
var glowPasses = []struct {
	spread float64
	alpha  float64
}{
	{spread: 1, alpha: 0.12},
	{spread: 0.5, alpha: 0.25},
}

// Offscreen is a Surface backed by an in-memory RGBA image.
type Offscreen struct {
	dc         *gg.Context
	bg         paint.Color
	shadowBlur float64
	shadow     paint.Color
}

// NewOffscreen allocates a width×height canvas filled with bg.
func NewOffscreen(width, height int, bg paint.Color) *Offscreen {
	o := &Offscreen{bg: bg.WithAlpha(1)}
	o.Resize(width, height)
	return o
}

// Resize reallocates the canvas and clears it to the background.
func (o *Offscreen) Resize(width, height int) {
	o.dc = gg.NewContext(max(width, 1), max(height, 1))
	o.dc.SetLineCap(gg.LineCapRound)
	o.dc.SetLineJoin(gg.LineJoinRound)
	o.FillRect(0, 0, float64(o.dc.Width()), float64(o.dc.Height()), o.bg)
}

// Size returns the canvas size in pixels.
func (o *Offscreen) Size() (width, height int) {
	return o.dc.Width(), o.dc.Height()
}

// FillRect composites c over the rectangle. It consumes any pending path.
func (o *Offscreen) FillRect(x, y, w, h float64, c paint.Color) {
	if c.A <= 0 || w <= 0 || h <= 0 {
		return
	}
	o.setColor(c)
	o.dc.DrawRectangle(x, y, w, h)
	o.dc.Fill()
}

// SetShadow sets the glow drawn under subsequent strokes.
func (o *Offscreen) SetShadow(blur float64, c paint.Color) {
	o.shadowBlur = blur
	o.shadow = c
}

func (o *Offscreen) BeginPath()          { o.dc.ClearPath() }
func (o *Offscreen) MoveTo(x, y float64) { o.dc.MoveTo(x, y) }
func (o *Offscreen) LineTo(x, y float64) { o.dc.LineTo(x, y) }

func (o *Offscreen) QuadraticTo(cx, cy, x, y float64) {
	o.dc.QuadraticTo(cx, cy, x, y)
}

// Stroke paints the current path, glow first, and clears it.
func (o *Offscreen) Stroke(c paint.Color, width float64) {
	if o.shadowBlur > 0 && o.shadow.A > 0 {
		for _, p := range glowPasses {
			o.setColor(o.shadow.ScaleAlpha(p.alpha))
			o.dc.SetLineWidth(width + o.shadowBlur*p.spread)
			o.dc.StrokePreserve()
		}
	}
	o.setColor(c)
	o.dc.SetLineWidth(width)
	o.dc.Stroke()
}

// Image returns the current frame.
func (o *Offscreen) Image() image.Image { return o.dc.Image() }

// EncodePNG writes the current frame as PNG.
func (o *Offscreen) EncodePNG(w io.Writer) error { return o.dc.EncodePNG(w) }

func (o *Offscreen) setColor(c paint.Color) {
	col := c.Clamped()
	o.dc.SetRGBA(col.R, col.G, col.B, c.A)
}
