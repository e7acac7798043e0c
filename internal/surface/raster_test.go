package surface

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/olivier-w/tendril/internal/paint"
)

var (
	testBg     = paint.RGBA(22, 22, 22, 1)
	testStroke = paint.RGBA(204, 0, 255, 1)
)

func newTestRaster(cols, rows int, mode Mode) *Raster {
	r := NewRaster(cols, rows, mode, 1, testBg)
	r.SetProfile(ProfileNone)
	return r
}

func drawLine(r *Raster, x0, y0, x1, y1 float64) {
	r.BeginPath()
	r.MoveTo(x0, y0)
	r.LineTo(x1, y1)
	r.Stroke(testStroke, 1)
}

func TestZeroSizedRasterIsInert(t *testing.T) {
	r := newTestRaster(0, 0, ModeBraille)
	r.FillRect(0, 0, 10, 10, testStroke)
	drawLine(r, 0, 0, 5, 5)
	if got := r.String(); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if w, h := r.WorldSize(); w != 0 || h != 0 {
		t.Fatalf("expected zero world size, got %vx%v", w, h)
	}
}

func TestEncodedShapeMatchesCells(t *testing.T) {
	for _, mode := range Modes {
		t.Run(mode.String(), func(t *testing.T) {
			r := newTestRaster(12, 5, mode)
			w, h := r.WorldSize()
			drawLine(r, 0, 0, w-1, h-1)

			lines := Lines(r.String())
			if len(lines) != 5 {
				t.Fatalf("expected 5 rows, got %d", len(lines))
			}
			for i, line := range lines {
				if n := utf8.RuneCountInString(line); n != 12 {
					t.Fatalf("row %d: expected 12 cells, got %d (%q)", i, n, line)
				}
			}
			if strings.TrimSpace(strings.Join(lines, "")) == "" {
				t.Fatal("expected the diagonal to light some cells")
			}
		})
	}
}

func TestBrailleDotBits(t *testing.T) {
	r := newTestRaster(1, 1, ModeBraille)
	// Light the top-left and bottom-right dots of the only cell.
	r.BeginPath()
	r.MoveTo(0.2, 0.2)
	r.Stroke(testStroke, 1)
	r.BeginPath()
	r.MoveTo(1.5, 3.5)
	r.Stroke(testStroke, 1)

	want := string(rune(0x2800 + (1 << 0) + (1 << 7)))
	if got := r.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFillRectFadesTowardBackground(t *testing.T) {
	r := newTestRaster(4, 1, ModeASCII)
	drawLine(r, 0, 0, 3, 0)
	if r.level(r.At(1, 0)) == 0 {
		t.Fatal("expected stroke to light the row")
	}
	for range 40 {
		r.FillRect(0, 0, 4, 1, testBg.WithAlpha(0.2))
	}
	if lvl := r.level(r.At(1, 0)); lvl != 0 {
		t.Fatalf("expected trail to fade out, level %v", lvl)
	}
	if got := r.String(); strings.TrimSpace(got) != "" {
		t.Fatalf("expected blank output after fade, got %q", got)
	}
}

func TestGlowLightsNeighbours(t *testing.T) {
	r := newTestRaster(10, 3, ModeASCII)
	r.SetShadow(4, testStroke)
	drawLine(r, 5, 1, 5, 1)

	if r.level(r.At(5, 1)) == 0 {
		t.Fatal("expected stroke dot lit")
	}
	if r.level(r.At(6, 1)) == 0 {
		t.Fatal("expected glow next to the stroke")
	}
	if r.level(r.At(0, 1)) != 0 {
		t.Fatal("expected glow to stay within its radius")
	}

	r.SetShadow(0, paint.Transparent)
	r.Clear()
	drawLine(r, 5, 1, 5, 1)
	if r.level(r.At(6, 1)) != 0 {
		t.Fatal("expected no halo without shadow")
	}
}

func TestStrokeClipsFarSegments(t *testing.T) {
	r := newTestRaster(4, 4, ModeASCII)
	drawLine(r, -1e12, 2, 1e12, 2)
	for x := range 4 {
		if r.level(r.At(x, 2)) == 0 {
			t.Fatalf("expected clipped segment to cross dot %d", x)
		}
	}
	drawLine(r, 0, 0, math.Inf(1), 0)
}

func TestQuadraticStaysNearControlHull(t *testing.T) {
	r := newTestRaster(20, 20, ModeASCII)
	r.BeginPath()
	r.MoveTo(0, 10)
	r.QuadraticTo(10, 0, 19, 10)
	r.Stroke(testStroke, 1)
	if r.level(r.At(10, 5)) == 0 && r.level(r.At(9, 5)) == 0 && r.level(r.At(10, 4)) == 0 {
		t.Fatal("expected the curve apex near (10,5)")
	}
	if r.level(r.At(10, 0)) != 0 {
		t.Fatal("curve should not reach its control point")
	}
}

func TestCellWorldMapping(t *testing.T) {
	r := NewRaster(10, 10, ModeBraille, 0.5, testBg)
	x, y := r.CellToWorld(3, 2)
	if col, row := r.WorldToCell(x, y); col != 3 || row != 2 {
		t.Fatalf("expected round trip to (3,2), got (%d,%d)", col, row)
	}
	if w, h := r.WorldSize(); w != 40 || h != 80 {
		t.Fatalf("expected 40x80 world, got %vx%v", w, h)
	}
}

func TestSetModeReallocates(t *testing.T) {
	r := newTestRaster(8, 3, ModeBraille)
	r.SetMode(ModeHalfBlock)
	if w, h := r.Dots(); w != 8 || h != 6 {
		t.Fatalf("expected 8x6 dots, got %dx%d", w, h)
	}
	if r.Mode() != ModeHalfBlock {
		t.Fatalf("expected halfblock, got %v", r.Mode())
	}
}

func TestModeCycleAndParse(t *testing.T) {
	m := ModeBraille
	seen := map[Mode]bool{}
	for range len(Modes) {
		seen[m] = true
		m = m.Next()
	}
	if m != ModeBraille || len(seen) != len(Modes) {
		t.Fatalf("expected full cycle back to braille, got %v (%d seen)", m, len(seen))
	}
	for _, want := range Modes {
		got, err := ParseMode(strings.ToUpper(want.String()))
		if err != nil || got != want {
			t.Fatalf("ParseMode(%s) = %v, %v", want, got, err)
		}
	}
	if _, err := ParseMode("sixel"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestProfileMapping(t *testing.T) {
	for _, p := range []Profile{ProfileNone, ProfileANSI16, ProfileANSI256, ProfileTrueColor} {
		if got := profileFrom(p.toTermenv()); got != p {
			t.Errorf("profile %s round-tripped to %s", p, got)
		}
	}
}

func TestColorSequences(t *testing.T) {
	c := rgb{R: 204, G: 0, B: 255}
	if got := colorSequence(ProfileTrueColor, c, false); got != "\x1b[38;2;204;0;255m" {
		t.Fatalf("unexpected truecolor fg %q", got)
	}
	if got := colorSequence(ProfileTrueColor, c, true); got != "\x1b[48;2;204;0;255m" {
		t.Fatalf("unexpected truecolor bg %q", got)
	}
	if got := colorSequence(ProfileANSI256, rgb{R: 255, G: 255, B: 255}, false); got != "\x1b[38;5;231m" {
		t.Fatalf("unexpected 256 white %q", got)
	}
	if got := colorSequence(ProfileANSI16, rgb{R: 250, G: 250, B: 250}, true); got != "\x1b[107m" {
		t.Fatalf("unexpected ansi16 bright white bg %q", got)
	}
	if got := colorSequence(ProfileNone, c, false); got != "" {
		t.Fatalf("expected no escape without color, got %q", got)
	}
}

func TestColoredRowsResetAtLineEnd(t *testing.T) {
	r := NewRaster(6, 2, ModeHalfBlock, 1, testBg)
	r.SetProfile(ProfileTrueColor)
	drawLine(r, 0, 0, 5, 3)
	for i, line := range Lines(r.String()) {
		if strings.Contains(line, "\x1b[38;2;") && !strings.HasSuffix(line, ansiReset) {
			t.Fatalf("row %d does not reset colors: %q", i, line)
		}
	}
}

func TestRecorderListsCalls(t *testing.T) {
	var rec Recorder
	rec.SetShadow(0, paint.Transparent)
	rec.FillRect(0, 0, 1, 1, testBg)
	rec.BeginPath()
	rec.MoveTo(1, 2)
	rec.QuadraticTo(1, 2, 3, 4)
	rec.LineTo(5, 6)
	rec.Stroke(testStroke, 1.5)

	if rec.Count(VerbStroke) != 1 || len(rec.Verbs()) != 7 {
		t.Fatalf("unexpected calls: %s", rec.String())
	}
	if !strings.Contains(rec.String(), "QuadTo[1 2 3 4]") {
		t.Fatalf("expected QuadTo in listing, got %s", rec.String())
	}
	rec.Reset()
	if len(rec.Calls) != 0 {
		t.Fatal("expected reset to drop calls")
	}
}
