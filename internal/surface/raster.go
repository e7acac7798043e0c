// Package surface provides the drawing surfaces the effect paints on: a
// terminal dot raster, an offscreen PNG canvas and a call recorder.
package surface

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/tendril/internal/paint"
)

// Mode selects how raster dots map onto terminal cells.
type Mode uint8

const (
	ModeBraille   Mode = iota // 2x4 dots per cell
	ModeHalfBlock             // 1x2 dots per cell, fg/bg colored
	ModeASCII                 // 1x1, brightness ramp
)

// Modes lists every mode in cycling order.
var Modes = []Mode{ModeBraille, ModeHalfBlock, ModeASCII}

// Next cycles to the following mode.
func (m Mode) Next() Mode {
	return Modes[(int(m)+1)%len(Modes)]
}

func (m Mode) String() string {
	switch m {
	case ModeHalfBlock:
		return "halfblock"
	case ModeASCII:
		return "ascii"
	default:
		return "braille"
	}
}

// Icon is the glyph shown for the mode in the status line.
func (m Mode) Icon() string {
	switch m {
	case ModeHalfBlock:
		return "▀"
	case ModeASCII:
		return "#"
	default:
		return "⣿"
	}
}

// DotsPerCell reports the dot grid covered by one terminal cell.
func (m Mode) DotsPerCell() (w, h int) {
	switch m {
	case ModeHalfBlock:
		return 1, 2
	case ModeASCII:
		return 1, 1
	default:
		return 2, 4
	}
}

// ParseMode resolves a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return ModeBraille, fmt.Errorf("unknown render mode %q (want braille, halfblock or ascii)", s)
}

type dot struct {
	x, y float64
}

// Raster is a Surface backed by an RGB dot grid sized from terminal cells.
// World coordinates are multiplied by the scale to land on dots.
type Raster struct {
	mode    Mode
	cols    int
	rows    int
	w       int
	h       int
	scale   float64
	bg      colorful.Color
	pix     []colorful.Color
	profile Profile

	paths [][]dot

	shadowBlur float64
	shadow     paint.Color

	cover    []float32
	glow     []float32
	touched  []int
	glowHits []int

	sb strings.Builder
}

// NewRaster allocates a raster of cols×rows cells. bg is the color treated as
// "off" when encoding; the grid starts filled with it.
func NewRaster(cols, rows int, mode Mode, scale float64, bg paint.Color) *Raster {
	if scale <= 0 {
		scale = 1
	}
	r := &Raster{
		mode:    mode,
		scale:   scale,
		bg:      bg.Color,
		profile: DetectProfile(),
	}
	r.Resize(cols, rows)
	return r
}

// Resize reallocates the grid for a new cell size and clears it.
func (r *Raster) Resize(cols, rows int) {
	r.cols, r.rows = max(cols, 0), max(rows, 0)
	dw, dh := r.mode.DotsPerCell()
	r.w, r.h = r.cols*dw, r.rows*dh
	n := r.w * r.h
	r.pix = make([]colorful.Color, n)
	r.cover = make([]float32, n)
	r.glow = make([]float32, n)
	r.touched = r.touched[:0]
	r.glowHits = r.glowHits[:0]
	r.Clear()
}

// SetMode switches the cell encoding and reallocates the grid.
func (r *Raster) SetMode(m Mode) {
	r.mode = m
	r.Resize(r.cols, r.rows)
}

// SetProfile overrides the detected terminal color profile.
func (r *Raster) SetProfile(p Profile) { r.profile = p }

// Mode returns the current encoding.
func (r *Raster) Mode() Mode { return r.mode }

// Cells returns the grid size in terminal cells.
func (r *Raster) Cells() (cols, rows int) { return r.cols, r.rows }

// Dots returns the grid size in dots.
func (r *Raster) Dots() (w, h int) { return r.w, r.h }

// WorldSize is the surface size in world units.
func (r *Raster) WorldSize() (w, h float64) {
	return float64(r.w) / r.scale, float64(r.h) / r.scale
}

// CellToWorld maps the center of a terminal cell to world units.
func (r *Raster) CellToWorld(col, row int) (x, y float64) {
	dw, dh := r.mode.DotsPerCell()
	return (float64(col) + 0.5) * float64(dw) / r.scale, (float64(row) + 0.5) * float64(dh) / r.scale
}

// WorldToCell maps world units to the terminal cell containing them.
func (r *Raster) WorldToCell(x, y float64) (col, row int) {
	dw, dh := r.mode.DotsPerCell()
	return int(math.Floor(x * r.scale / float64(dw))), int(math.Floor(y * r.scale / float64(dh)))
}

// Clear fills every dot with the background.
func (r *Raster) Clear() {
	for i := range r.pix {
		r.pix[i] = r.bg
	}
}

// At returns the color of dot (x, y).
func (r *Raster) At(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return r.bg
	}
	return r.pix[y*r.w+x]
}

// FillRect composites c over a world-space rectangle.
func (r *Raster) FillRect(x, y, w, h float64, c paint.Color) {
	if c.A <= 0 || len(r.pix) == 0 {
		return
	}
	x0 := clampInt(int(math.Floor(x*r.scale)), 0, r.w)
	y0 := clampInt(int(math.Floor(y*r.scale)), 0, r.h)
	x1 := clampInt(int(math.Ceil((x+w)*r.scale)), 0, r.w)
	y1 := clampInt(int(math.Ceil((y+h)*r.scale)), 0, r.h)
	for py := y0; py < y1; py++ {
		row := r.pix[py*r.w : (py+1)*r.w]
		for px := x0; px < x1; px++ {
			row[px] = c.Over(row[px])
		}
	}
}

// SetShadow sets the glow drawn under subsequent strokes.
func (r *Raster) SetShadow(blur float64, c paint.Color) {
	r.shadowBlur = blur
	r.shadow = c
}

// BeginPath discards the current path.
func (r *Raster) BeginPath() {
	r.paths = r.paths[:0]
}

// MoveTo starts a new subpath.
func (r *Raster) MoveTo(x, y float64) {
	r.paths = append(r.paths, []dot{{x * r.scale, y * r.scale}})
}

// LineTo extends the current subpath.
func (r *Raster) LineTo(x, y float64) {
	r.extend(dot{x * r.scale, y * r.scale})
}

// QuadraticTo flattens a quadratic curve into the current subpath.
func (r *Raster) QuadraticTo(cx, cy, x, y float64) {
	p0, ok := r.last()
	if !ok {
		r.MoveTo(cx, cy)
		p0, _ = r.last()
	}
	c := dot{cx * r.scale, cy * r.scale}
	p1 := dot{x * r.scale, y * r.scale}

	steps := int(math.Ceil((math.Hypot(c.x-p0.x, c.y-p0.y) + math.Hypot(p1.x-c.x, p1.y-c.y)) / 2))
	steps = clampInt(steps, 1, 16)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		u := 1 - t
		r.extend(dot{
			x: u*u*p0.x + 2*u*t*c.x + t*t*p1.x,
			y: u*u*p0.y + 2*u*t*c.y + t*t*p1.y,
		})
	}
}

func (r *Raster) last() (dot, bool) {
	if len(r.paths) == 0 {
		return dot{}, false
	}
	sp := r.paths[len(r.paths)-1]
	return sp[len(sp)-1], true
}

func (r *Raster) extend(d dot) {
	if len(r.paths) == 0 {
		r.paths = append(r.paths, []dot{d})
		return
	}
	i := len(r.paths) - 1
	r.paths[i] = append(r.paths[i], d)
}

// Stroke paints the current path with c, plus a glow halo when a shadow is
// set. Every covered dot is composited once per stroke.
func (r *Raster) Stroke(c paint.Color, width float64) {
	if len(r.pix) == 0 || c.A <= 0 {
		return
	}
	half := width * r.scale / 2
	for _, sp := range r.paths {
		if len(sp) == 1 {
			r.plot(sp[0], half)
			continue
		}
		for i := 1; i < len(sp); i++ {
			r.segment(sp[i-1], sp[i], half)
		}
	}

	if r.shadowBlur > 0 && r.shadow.A > 0 {
		r.paintGlow()
	}

	for _, idx := range r.touched {
		r.pix[idx] = c.ScaleAlpha(float64(r.cover[idx])).Over(r.pix[idx])
		r.cover[idx] = 0
	}
	r.touched = r.touched[:0]
}

// paintGlow spreads a falloff halo of radius blur/2 around the covered dots.
func (r *Raster) paintGlow() {
	radius := r.shadowBlur * r.scale / 2
	reach := int(math.Ceil(radius))
	for _, idx := range r.touched {
		cx, cy := idx%r.w, idx/r.w
		for dy := -reach; dy <= reach; dy++ {
			y := cy + dy
			if y < 0 || y >= r.h {
				continue
			}
			for dx := -reach; dx <= reach; dx++ {
				x := cx + dx
				if x < 0 || x >= r.w {
					continue
				}
				d := math.Hypot(float64(dx), float64(dy))
				if d == 0 || d > radius {
					continue
				}
				wgt := float32(0.5 * (1 - d/(radius+1)))
				j := y*r.w + x
				if r.glow[j] == 0 {
					r.glowHits = append(r.glowHits, j)
				}
				if wgt > r.glow[j] {
					r.glow[j] = wgt
				}
			}
		}
	}
	for _, j := range r.glowHits {
		r.pix[j] = r.shadow.ScaleAlpha(float64(r.glow[j])).Over(r.pix[j])
		r.glow[j] = 0
	}
	r.glowHits = r.glowHits[:0]
}

func (r *Raster) segment(a, b dot, half float64) {
	a, b, ok := clipSegment(a, b, -1-half, -1-half, float64(r.w)+half, float64(r.h)+half)
	if !ok {
		return
	}
	steps := int(math.Ceil(math.Max(math.Abs(b.x-a.x), math.Abs(b.y-a.y))))
	if steps < 1 {
		r.plot(a, half)
		r.plot(b, half)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		r.plot(dot{a.x + (b.x-a.x)*t, a.y + (b.y-a.y)*t}, half)
	}
}

func (r *Raster) plot(d dot, half float64) {
	if !finite(d.x, d.y) {
		return
	}
	if half < 0.75 {
		r.cov(int(math.Floor(d.x)), int(math.Floor(d.y)), 1)
		return
	}
	reach := int(math.Ceil(half))
	cx, cy := int(math.Floor(d.x)), int(math.Floor(d.y))
	for dy := -reach; dy <= reach; dy++ {
		for dx := -reach; dx <= reach; dx++ {
			if math.Hypot(float64(dx), float64(dy)) <= half {
				r.cov(cx+dx, cy+dy, 1)
			}
		}
	}
}

func (r *Raster) cov(x, y int, v float32) {
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return
	}
	i := y*r.w + x
	if r.cover[i] == 0 {
		r.touched = append(r.touched, i)
	}
	if v > r.cover[i] {
		r.cover[i] = v
	}
}

// clipSegment clips a-b to the box (Liang-Barsky).
func clipSegment(a, b dot, minX, minY, maxX, maxY float64) (dot, dot, bool) {
	if !finite(a.x, a.y, b.x, b.y) {
		return a, b, false
	}
	dx, dy := b.x-a.x, b.y-a.y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.x - minX},
		{dx, maxX - a.x},
		{-dy, a.y - minY},
		{dy, maxY - a.y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return a, b, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return dot{a.x + t0*dx, a.y + t0*dy}, dot{a.x + t1*dx, a.y + t1*dy}, true
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
