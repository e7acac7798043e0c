package pointer

import "math"

// Lissajous is a deterministic wander path inside a w×h box, used to drive
// the effect without input.
type Lissajous struct {
	w, h   float64
	fx, fy float64 // frequency ratio
	speed  float64 // radians per frame
	margin float64 // fraction of each half-extent kept clear
}

// NewLissajous returns a 3:2 figure filling most of a w×h box.
func NewLissajous(w, h float64) Lissajous {
	return Lissajous{w: max(w, 0), h: max(h, 0), fx: 3, fy: 2, speed: 0.02, margin: 0.15}
}

// At returns the path position at the given frame.
func (l Lissajous) At(frame int) (x, y float64) {
	t := float64(frame) * l.speed
	ax := l.w / 2 * (1 - l.margin)
	ay := l.h / 2 * (1 - l.margin)
	return l.w/2 + ax*math.Sin(l.fx*t+math.Pi/2), l.h/2 + ay*math.Sin(l.fy*t)
}
