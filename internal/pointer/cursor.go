// Package pointer provides synthetic pointer sources for hosts without a
// usable mouse: a spring-smoothed keyboard cursor and a Lissajous wander.
package pointer

import "github.com/charmbracelet/harmonica"

// Cursor is a keyboard-steered pointer. Nudges move its goal; the reported
// position follows the goal through a damped spring.
type Cursor struct {
	spring harmonica.Spring
	x, y   float64
	vx, vy float64
	gx, gy float64
	w, h   float64
	active bool
}

// NewCursor creates an inactive cursor stepped fps times per second.
func NewCursor(fps int) *Cursor {
	if fps < 1 {
		fps = 1
	}
	return &Cursor{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.8)}
}

// SetBounds limits the goal to [0,w]×[0,h].
func (c *Cursor) SetBounds(w, h float64) {
	c.w, c.h = max(w, 0), max(h, 0)
	c.gx, c.gy = c.clamp(c.gx, c.gy)
}

// Place jumps the cursor and its goal to (x, y) and activates it.
func (c *Cursor) Place(x, y float64) {
	x, y = c.clamp(x, y)
	c.x, c.y, c.gx, c.gy = x, y, x, y
	c.vx, c.vy = 0, 0
	c.active = true
}

// Nudge moves the goal by (dx, dy) and activates the cursor.
func (c *Cursor) Nudge(dx, dy float64) {
	c.gx, c.gy = c.clamp(c.gx+dx, c.gy+dy)
	c.active = true
}

// Step advances the spring one frame and returns the new position.
func (c *Cursor) Step() (x, y float64) {
	c.x, c.vx = c.spring.Update(c.x, c.vx, c.gx)
	c.y, c.vy = c.spring.Update(c.y, c.vy, c.gy)
	return c.x, c.y
}

// Position returns the smoothed position without stepping.
func (c *Cursor) Position() (x, y float64) { return c.x, c.y }

// Goal returns where the cursor is heading.
func (c *Cursor) Goal() (x, y float64) { return c.gx, c.gy }

// Active reports whether the cursor is steering.
func (c *Cursor) Active() bool { return c.active }

// Deactivate stops the cursor from steering until the next Place or Nudge.
func (c *Cursor) Deactivate() { c.active = false }

func (c *Cursor) clamp(x, y float64) (float64, float64) {
	if c.w > 0 {
		x = min(max(x, 0), c.w)
	}
	if c.h > 0 {
		y = min(max(y, 0), c.h)
	}
	return x, y
}
