package effect

import (
	"context"
	"time"
)

// Scheduler paces frames. Next blocks until the next frame is due and
// reports false once no more frames should be painted.
type Scheduler interface {
	Next(ctx context.Context) bool
}

// FrameBudget is a Scheduler that allows a fixed number of frames, fired
// back-to-back unless it paces another scheduler.
type FrameBudget struct {
	remaining int
	pace      Scheduler
}

// NewFrameBudget returns a scheduler that allows n frames with no delay.
func NewFrameBudget(n int) *FrameBudget {
	return &FrameBudget{remaining: n}
}

// Paced limits s to n frames.
func Paced(s Scheduler, n int) *FrameBudget {
	return &FrameBudget{remaining: n, pace: s}
}

// Next consumes one frame from the budget.
func (b *FrameBudget) Next(ctx context.Context) bool {
	if ctx.Err() != nil || b.remaining <= 0 {
		return false
	}
	if b.pace != nil && !b.pace.Next(ctx) {
		return false
	}
	b.remaining--
	return true
}

// Ticker is a Scheduler paced by wall-clock time.
type Ticker struct {
	t *time.Ticker
}

// NewTicker returns a scheduler firing fps times per second. Stop it when done.
func NewTicker(fps int) *Ticker {
	if fps < 1 {
		fps = 1
	}
	return &Ticker{t: time.NewTicker(time.Second / time.Duration(fps))}
}

// Next waits for the next tick or the end of ctx.
func (t *Ticker) Next(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-t.t.C:
		return true
	}
}

// Stop releases the underlying ticker.
func (t *Ticker) Stop() { t.t.Stop() }

// FrameHook receives the zero-based number of the frame about to be painted.
type FrameHook func(frame int)

// Run paints frames onto s for as long as sched allows and returns the
// number of frames painted. before, if non-nil, runs ahead of each OnFrame so
// callers can feed input on the same goroutine.
func (c *Controller) Run(ctx context.Context, sched Scheduler, s Surface, before FrameHook) int {
	frames := 0
	for sched.Next(ctx) {
		if before != nil {
			before(frames)
		}
		c.OnFrame(s)
		frames++
	}
	return frames
}
