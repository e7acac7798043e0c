package surface

import (
	"fmt"
	"strings"

	"github.com/olivier-w/tendril/internal/paint"
)

// Verb names a recorded drawing call.
type Verb uint8

const (
	VerbFillRect Verb = iota
	VerbSetShadow
	VerbBeginPath
	VerbMoveTo
	VerbQuadTo
	VerbLineTo
	VerbStroke
)

func (v Verb) String() string {
	switch v {
	case VerbFillRect:
		return "FillRect"
	case VerbSetShadow:
		return "SetShadow"
	case VerbBeginPath:
		return "BeginPath"
	case VerbMoveTo:
		return "MoveTo"
	case VerbQuadTo:
		return "QuadTo"
	case VerbLineTo:
		return "LineTo"
	case VerbStroke:
		return "Stroke"
	default:
		return "Unknown"
	}
}

// Call is one recorded drawing call. Args holds the numeric arguments in
// call order; Color is set for FillRect, SetShadow and Stroke.
type Call struct {
	Verb  Verb
	Args  []float64
	Color paint.Color
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Verb, c.Args)
}

// Recorder is a Surface that only logs what it is asked to draw.
type Recorder struct {
	Calls []Call
}

func (r *Recorder) add(v Verb, col paint.Color, args ...float64) {
	r.Calls = append(r.Calls, Call{Verb: v, Args: args, Color: col})
}

func (r *Recorder) FillRect(x, y, w, h float64, c paint.Color) {
	r.add(VerbFillRect, c, x, y, w, h)
}

func (r *Recorder) SetShadow(blur float64, c paint.Color) { r.add(VerbSetShadow, c, blur) }
func (r *Recorder) BeginPath()                           { r.add(VerbBeginPath, paint.Color{}) }
func (r *Recorder) MoveTo(x, y float64)                  { r.add(VerbMoveTo, paint.Color{}, x, y) }
func (r *Recorder) LineTo(x, y float64)                  { r.add(VerbLineTo, paint.Color{}, x, y) }

func (r *Recorder) QuadraticTo(cx, cy, x, y float64) {
	r.add(VerbQuadTo, paint.Color{}, cx, cy, x, y)
}

func (r *Recorder) Stroke(c paint.Color, width float64) { r.add(VerbStroke, c, width) }

// Count returns how many calls of verb v were recorded.
func (r *Recorder) Count(v Verb) int {
	n := 0
	for _, c := range r.Calls {
		if c.Verb == v {
			n++
		}
	}
	return n
}

// Verbs returns the recorded verb sequence.
func (r *Recorder) Verbs() []Verb {
	out := make([]Verb, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Verb
	}
	return out
}

// Reset drops every recorded call.
func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }

// String lists the calls one per line.
func (r *Recorder) String() string {
	var b strings.Builder
	for _, c := range r.Calls {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}
