// Package paint holds the color value shared by the effect and its surfaces.
package paint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color with a separate alpha in [0,1].
type Color struct {
	colorful.Color
	A float64
}

// Transparent is fully transparent black.
var Transparent = Color{}

// RGBA builds a Color from 8-bit channels and an alpha in [0,1].
func RGBA(r, g, b uint8, a float64) Color {
	return Color{
		Color: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255},
		A:     clamp01(a),
	}
}

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("color %q: bad alpha: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	if len(s) != 4 && len(s) != 7 {
		return Color{}, fmt.Errorf("color %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{Color: c, A: alpha}, nil
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// ScaleAlpha returns c with its alpha multiplied by k.
func (c Color) ScaleAlpha(k float64) Color {
	c.A = clamp01(c.A * k)
	return c
}

// Over composites c onto dst using c's alpha.
func (c Color) Over(dst colorful.Color) colorful.Color {
	if c.A <= 0 {
		return dst
	}
	return dst.BlendRgb(c.Color, c.A).Clamped()
}

// RGBA255 returns the 8-bit channels and the alpha.
func (c Color) RGBA255() (r, g, b uint8, a float64) {
	r, g, b = c.Clamped().RGB255()
	return r, g, b, c.A
}

// String renders c as #rrggbbaa.
func (c Color) String() string {
	r, g, b, a := c.RGBA255()
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, uint8(a*255+0.5))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
