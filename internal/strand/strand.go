// Package strand implements a single tentacle: a fixed-length chain of joints
// whose head eases toward a target while every following joint orbits its
// predecessor at a tapered radius, perturbed by a traveling sine wave.
package strand

import (
	"math"

	"github.com/olivier-w/tendril/internal/paint"
)

// Wave and taper shape constants.
const (
	WaveSpeed     = 0.05 // phase advance per clock tick
	WaveSpacing   = 0.2  // phase advance per joint
	WaveAmplitude = 0.5  // radians
	TaperRatio    = 0.5  // tail radius is (1-TaperRatio) of the head radius
)

// Point is a 2D position in surface units.
type Point struct {
	X, Y float64
}

// Params tunes a strand's motion.
type Params struct {
	Radius      float64
	HeadEasing  float64
	JointEasing float64
	PhaseStep   float64
}

// Canvas is the subset of a drawing surface a strand needs to emit its path.
type Canvas interface {
	BeginPath()
	MoveTo(x, y float64)
	QuadraticTo(cx, cy, x, y float64)
	LineTo(x, y float64)
	Stroke(c paint.Color, width float64)
}

// Strand is one tentacle. Joint 0 is the head.
type Strand struct {
	joints      []Point
	phaseOffset float64
	params      Params
}

// New creates a strand of n joints collapsed onto (x, y). index is the
// strand's position among its siblings and sets its phase offset. n is
// clamped to at least one joint.
func New(x, y float64, index, n int, p Params) *Strand {
	if n < 1 {
		n = 1
	}
	s := &Strand{
		joints:      make([]Point, n),
		phaseOffset: float64(index) * p.PhaseStep,
		params:      p,
	}
	s.Reset(x, y)
	return s
}

// Reset collapses every joint onto (x, y).
func (s *Strand) Reset(x, y float64) {
	for i := range s.joints {
		s.joints[i] = Point{X: x, Y: y}
	}
}

// Move advances the chain one tick toward (tx, ty).
func (s *Strand) Move(tx, ty float64, tick uint64) {
	head := &s.joints[0]
	head.X += (tx - head.X) * s.params.HeadEasing
	head.Y += (ty - head.Y) * s.params.HeadEasing

	n := len(s.joints)
	for i := 1; i < n; i++ {
		prev := s.joints[i-1]
		cur := &s.joints[i]

		// atan2(0, 0) is 0: coincident joints fall back to angle zero.
		angle := math.Atan2(prev.Y-cur.Y, prev.X-cur.X)
		theta := angle + Wave(tick, i, s.phaseOffset)
		r := TaperedRadius(s.params.Radius, i, n)

		gx := prev.X - math.Cos(theta)*r
		gy := prev.Y - math.Sin(theta)*r
		cur.X += (gx - cur.X) * s.params.JointEasing
		cur.Y += (gy - cur.Y) * s.params.JointEasing
	}
}

// Draw strokes the chain as one smooth path: quadratic segments through the
// midpoints of successive joints and a straight run into the tail.
func (s *Strand) Draw(c Canvas, color paint.Color, width float64) {
	n := len(s.joints)
	c.BeginPath()
	c.MoveTo(s.joints[0].X, s.joints[0].Y)
	for i := 1; i < n-1; i++ {
		cur, next := s.joints[i], s.joints[i+1]
		c.QuadraticTo(cur.X, cur.Y, (cur.X+next.X)/2, (cur.Y+next.Y)/2)
	}
	last := s.joints[n-1]
	c.LineTo(last.X, last.Y)
	c.Stroke(color, width)
}

// Wave is the angular perturbation of joint i at the given tick, always
// within [-WaveAmplitude, WaveAmplitude].
func Wave(tick uint64, i int, phaseOffset float64) float64 {
	// sin is periodic in the tick; keep its argument small on long runs.
	const period = 2 * math.Pi / WaveSpeed
	t := math.Mod(float64(tick), period)
	return math.Sin(t*WaveSpeed+float64(i)*WaveSpacing+phaseOffset) * WaveAmplitude
}

// TaperedRadius is the orbit radius of joint i in a chain of n joints.
func TaperedRadius(radius float64, i, n int) float64 {
	if n <= 0 {
		return radius
	}
	return radius * (1 - float64(i)/float64(n)*TaperRatio)
}

// Len reports the number of joints.
func (s *Strand) Len() int { return len(s.joints) }

// Joint returns joint i.
func (s *Strand) Joint(i int) Point { return s.joints[i] }

// Head returns joint 0.
func (s *Strand) Head() Point { return s.joints[0] }

// Joints returns a copy of the chain.
func (s *Strand) Joints() []Point {
	out := make([]Point, len(s.joints))
	copy(out, s.joints)
	return out
}

// PhaseOffset returns the strand's wave phase offset.
func (s *Strand) PhaseOffset() float64 { return s.phaseOffset }
