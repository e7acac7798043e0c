// Package effect owns the animation state of the tentacle effect: the strand
// collection, the shared clock, the pursued target and the fade intensity.
// It translates pointer events into target updates and paints one frame at
// a time onto a Surface.
//
// A Controller is not safe for concurrent use. Hosts call OnFrame and the
// input handlers from a single goroutine.
package effect

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/olivier-w/tendril/internal/config"
	"github.com/olivier-w/tendril/internal/paint"
	"github.com/olivier-w/tendril/internal/strand"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes controller diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller drives the strands of one effect instance.
type Controller struct {
	cfg       config.Config
	params    strand.Params
	color     paint.Color
	trail     paint.Color
	logger    *log.Logger
	strands   []*strand.Strand
	width     float64
	height    float64
	target    strand.Point
	tick      uint64
	intensity float64
	goal      float64 // target intensity, 0 or 1
	everSized bool
}

// New builds a controller for cfg. cfg should already be validated. Call
// Initialize before the first frame.
func New(cfg config.Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:    cfg,
		params: cfg.StrandParams(),
		color:  cfg.StrokeColor(),
		trail:  cfg.BackgroundColor().WithAlpha(cfg.TrailAlpha),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if !cfg.Fade {
		c.intensity = 1
	}
	return c
}

// Initialize rebuilds every strand at the center of a width×height surface
// and points the target there.
func (c *Controller) Initialize(width, height float64) {
	c.width, c.height = clampSize(width), clampSize(height)
	c.everSized = true
	cx, cy := c.width/2, c.height/2

	c.strands = make([]*strand.Strand, c.cfg.Strands)
	for i := range c.strands {
		c.strands[i] = strand.New(cx, cy, i, c.cfg.Joints, c.params)
	}
	c.target = strand.Point{X: cx, Y: cy}
	c.logger.Debug("initialized", "strands", len(c.strands), "joints", c.cfg.Joints, "width", c.width, "height", c.height)
}

// Resize applies the configured resize policy. The first resize of a
// controller that was never initialized always initializes it.
func (c *Controller) Resize(width, height float64) {
	if !c.everSized || c.cfg.ResizePolicy == config.ResizeRebuild {
		c.Initialize(width, height)
		return
	}
	c.width, c.height = clampSize(width), clampSize(height)
	c.logger.Debug("resized", "policy", c.cfg.ResizePolicy, "width", c.width, "height", c.height)
}

// OnFrame advances the effect one tick and paints it onto s.
func (c *Controller) OnFrame(s Surface) {
	// Glow off before the trail fill so it does not bleed onto the background.
	s.SetShadow(0, paint.Transparent)
	s.FillRect(0, 0, c.width, c.height, c.trail)

	if c.cfg.Fade {
		c.intensity += (c.goal - c.intensity) * c.cfg.IntensityEasing
	}
	visible := c.intensity >= c.cfg.VisibilityThreshold
	if c.intensity > c.cfg.VisibilityThreshold && c.cfg.GlowBlur > 0 {
		s.SetShadow(c.cfg.GlowBlur, c.color.ScaleAlpha(c.intensity))
	}

	c.tick++
	stroke := c.color.ScaleAlpha(c.intensity)
	for _, st := range c.strands {
		st.Move(c.target.X, c.target.Y, c.tick)
		if visible {
			st.Draw(s, stroke, c.cfg.LineWidth)
		}
	}
}

// PointerMove follows an engaged pointer. Coming back from a fully
// disengaged state snaps the strands onto the pointer first so they do not
// streak across the surface.
func (c *Controller) PointerMove(x, y float64) {
	if c.goal == 0 {
		c.snap(x, y)
	}
	c.goal = 1
	c.target = strand.Point{X: x, Y: y}
}

// PointerEnter snaps every strand to the entry point and engages.
func (c *Controller) PointerEnter(x, y float64) {
	c.target = strand.Point{X: x, Y: y}
	c.snap(x, y)
	c.goal = 1
}

// PointerLeave disengages. Strands keep chasing the last target while the
// intensity fades out.
func (c *Controller) PointerLeave() {
	c.goal = 0
}

// TouchStart engages at (x, y). Like PointerMove it only snaps the strands
// when coming back from a fully disengaged state, so a press on an already
// engaged surface does not collapse them.
func (c *Controller) TouchStart(x, y float64) { c.PointerMove(x, y) }

// TouchMove behaves like PointerMove.
func (c *Controller) TouchMove(x, y float64) { c.PointerMove(x, y) }

// TouchEnd behaves like PointerLeave.
func (c *Controller) TouchEnd() { c.PointerLeave() }

func (c *Controller) snap(x, y float64) {
	for _, st := range c.strands {
		st.Reset(x, y)
	}
}

// Target returns the point the strands are chasing.
func (c *Controller) Target() strand.Point { return c.target }

// Tick returns the number of frames painted so far.
func (c *Controller) Tick() uint64 { return c.tick }

// Intensity returns the current fade level in [0,1].
func (c *Controller) Intensity() float64 { return c.intensity }

// TargetIntensity returns 1 while a pointer is engaged and 0 otherwise.
func (c *Controller) TargetIntensity() float64 { return c.goal }

// Engaged reports whether a pointer is engaged.
func (c *Controller) Engaged() bool { return c.goal == 1 }

// Strands returns the live strand collection. Callers must not retain it
// across Initialize.
func (c *Controller) Strands() []*strand.Strand { return c.strands }

// Size returns the current surface bounds.
func (c *Controller) Size() (width, height float64) { return c.width, c.height }

// Config returns the tuning table the controller was built with.
func (c *Controller) Config() config.Config { return c.cfg }

func clampSize(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	return v
}
