package util

import (
	"sync"
	"time"
)

// FrameRing is a thread-safe circular buffer of frame intervals used to
// estimate the achieved frame rate.
type FrameRing struct {
	buf  []time.Duration
	w    int // write position
	len  int // current fill level
	last time.Time
	mu   sync.Mutex
}

// NewFrameRing creates a ring remembering the last size intervals.
func NewFrameRing(size int) *FrameRing {
	if size < 1 {
		size = 1
	}
	return &FrameRing{buf: make([]time.Duration, size)}
}

// Mark records a frame painted at t.
func (r *FrameRing) Mark(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.last.IsZero() && t.After(r.last) {
		r.buf[r.w] = t.Sub(r.last)
		r.w = (r.w + 1) % len(r.buf)
		if r.len < len(r.buf) {
			r.len++
		}
	}
	r.last = t
}

// FPS returns the mean frame rate over the remembered intervals, or 0 before
// two frames have been marked.
func (r *FrameRing) FPS() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.len == 0 {
		return 0
	}
	var sum time.Duration
	for i := range r.len {
		sum += r.buf[i]
	}
	if sum <= 0 {
		return 0
	}
	return float64(r.len) / sum.Seconds()
}

// Clear forgets every interval.
func (r *FrameRing) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w = 0
	r.len = 0
	r.last = time.Time{}
}
