package effect

import (
	"github.com/olivier-w/tendril/internal/paint"
	"github.com/olivier-w/tendril/internal/strand"
)

// Surface is what the controller paints on each frame.
type Surface interface {
	strand.Canvas

	// FillRect composites c over the rectangle using c's alpha.
	FillRect(x, y, w, h float64, c paint.Color)

	// SetShadow sets the glow applied to subsequent strokes. A zero blur or
	// a transparent color disables it.
	SetShadow(blur float64, c paint.Color)
}
