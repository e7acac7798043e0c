package surface_test

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/olivier-w/tendril/internal/config"
	"github.com/olivier-w/tendril/internal/effect"
	"github.com/olivier-w/tendril/internal/paint"
	"github.com/olivier-w/tendril/internal/surface"
)

var (
	_ effect.Surface = (*surface.Raster)(nil)
	_ effect.Surface = (*surface.Offscreen)(nil)
	_ effect.Surface = (*surface.Recorder)(nil)
)

func TestControllerPaintsVisibleRaster(t *testing.T) {
	cfg := config.Default()
	cfg.Strands = 4
	r := surface.NewRaster(40, 12, surface.ModeBraille, cfg.Scale, cfg.BackgroundColor())
	r.SetProfile(surface.ProfileNone)

	c := effect.New(cfg)
	c.Initialize(r.WorldSize())
	w, h := r.WorldSize()
	c.PointerEnter(w/2, h/2)
	for i := range 40 {
		c.PointerMove(w/2+float64(i), h/2)
		c.OnFrame(r)
	}

	out := r.String()
	if !strings.ContainsFunc(out, func(ch rune) bool { return ch >= 0x2801 && ch <= 0x28FF }) {
		t.Fatalf("expected braille dots in output:\n%s", out)
	}
}

func TestOffscreenEncodesPNG(t *testing.T) {
	cfg := config.Default()
	cfg.Strands = 6
	o := surface.NewOffscreen(120, 80, cfg.BackgroundColor())

	c := effect.New(cfg)
	c.Initialize(120, 80)
	c.PointerEnter(60, 40)
	for i := range 30 {
		c.PointerMove(60+float64(i), 40)
		c.OnFrame(o)
	}

	var buf bytes.Buffer
	if err := o.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Fatalf("unexpected bounds %v", b)
	}

	bgR, bgG, bgB, _ := cfg.BackgroundColor().RGBA255()
	lit := 0
	for y := range 80 {
		for x := range 120 {
			r, g, b, _ := o.Image().At(x, y).RGBA()
			if uint8(r>>8) != bgR || uint8(g>>8) != bgG || uint8(b>>8) != bgB {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("expected strokes to change some pixels")
	}
}

func TestOffscreenResizeToZeroIsTolerated(t *testing.T) {
	o := surface.NewOffscreen(0, 0, paint.RGBA(0, 0, 0, 1))
	if w, h := o.Size(); w != 1 || h != 1 {
		t.Fatalf("expected 1x1 minimum canvas, got %dx%d", w, h)
	}
	o.BeginPath()
	o.MoveTo(0, 0)
	o.LineTo(0, 0)
	o.Stroke(paint.RGBA(255, 0, 0, 1), 1.5)
}
