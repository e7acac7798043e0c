package surface

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// litThreshold is how far a dot must stray from the background, per channel,
// before it shows up in the encoded output.
const litThreshold = 0.06

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// String encodes the grid as rows of terminal cells joined by newlines.
// Every row ends with its colors reset. A zero-sized raster encodes to "".
func (r *Raster) String() string {
	if r.cols == 0 || r.rows == 0 {
		return ""
	}
	r.sb.Reset()
	// Worst case ~20 bytes of color escapes per cell.
	r.sb.Grow(r.cols * r.rows * 24)

	switch r.mode {
	case ModeHalfBlock:
		r.encodeHalfBlock()
	case ModeASCII:
		r.encodeASCII()
	default:
		r.encodeBraille()
	}
	return r.sb.String()
}

func (r *Raster) encodeBraille() {
	color := newANSIState(r.profile)
	for row := range r.rows {
		if row > 0 {
			r.sb.WriteByte('\n')
		}
		for col := range r.cols {
			var pattern uint
			var best colorful.Color
			bestLevel := -1.0
			for dx := range 2 {
				for dy := range 4 {
					c := r.pix[(row*4+dy)*r.w+col*2+dx]
					level := r.level(c)
					if level <= 0 {
						continue
					}
					pattern |= 1 << brailleBits[dx][dy]
					if level > bestLevel {
						bestLevel, best = level, c
					}
				}
			}
			if pattern == 0 {
				r.sb.WriteByte(' ')
				continue
			}
			color.setFg(&r.sb, toRGB(best))
			r.sb.WriteRune(rune(0x2800 + pattern))
		}
		color.reset(&r.sb)
	}
}

// encodeHalfBlock packs two dot rows per cell: "▀" with fg = top and
// bg = bottom, or a single half block when only one of them is lit.
func (r *Raster) encodeHalfBlock() {
	color := newANSIState(r.profile)
	for row := range r.rows {
		if row > 0 {
			r.sb.WriteByte('\n')
		}
		for col := range r.cols {
			top := r.pix[(row*2)*r.w+col]
			bot := r.pix[(row*2+1)*r.w+col]
			topLit, botLit := r.level(top) > 0, r.level(bot) > 0
			switch {
			case topLit && botLit:
				color.setFg(&r.sb, toRGB(top))
				color.setBg(&r.sb, toRGB(bot))
				r.sb.WriteString("▀")
			case topLit:
				color.clearBg(&r.sb)
				color.setFg(&r.sb, toRGB(top))
				r.sb.WriteString("▀")
			case botLit:
				color.clearBg(&r.sb)
				color.setFg(&r.sb, toRGB(bot))
				r.sb.WriteString("▄")
			default:
				color.clearBg(&r.sb)
				r.sb.WriteByte(' ')
			}
		}
		color.reset(&r.sb)
	}
}

func (r *Raster) encodeASCII() {
	color := newANSIState(r.profile)
	for row := range r.rows {
		if row > 0 {
			r.sb.WriteByte('\n')
		}
		for col := range r.cols {
			c := r.pix[row*r.w+col]
			ch := brightnessChar(r.level(c))
			if ch != ' ' {
				color.setFg(&r.sb, toRGB(c))
			}
			r.sb.WriteByte(ch)
		}
		color.reset(&r.sb)
	}
}

// level is how visible a dot is against the background, in [0,1]. Dots
// within litThreshold of the background are 0.
func (r *Raster) level(c colorful.Color) float64 {
	d := max(abs(c.R-r.bg.R), abs(c.G-r.bg.G), abs(c.B-r.bg.B))
	if d <= litThreshold {
		return 0
	}
	return min(1, d)
}

func toRGB(c colorful.Color) rgb {
	r, g, b := c.Clamped().RGB255()
	return rgb{R: r, G: g, B: b}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Lines splits an encoded raster into rows.
func Lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
