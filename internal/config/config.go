// Package config holds the static tuning table for the tentacle effect and
// loads overrides from a TOML file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/olivier-w/tendril/internal/paint"
	"github.com/olivier-w/tendril/internal/strand"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// ResizePolicy decides what a surface resize does to the strands.
type ResizePolicy string

const (
	// ResizeBounds only updates the surface bounds; strands keep their joints.
	ResizeBounds ResizePolicy = "bounds"
	// ResizeRebuild re-initializes every strand at the new surface center.
	ResizeRebuild ResizePolicy = "rebuild"
)

// Config is the full tuning table. All values are fixed once the effect starts.
type Config struct {
	Strands             int          `toml:"strands"`
	Joints              int          `toml:"joints"`
	Radius              float64      `toml:"radius"`
	Color               string       `toml:"color"`
	Background          string       `toml:"background"`
	TrailAlpha          float64      `toml:"trail_alpha"`
	LineWidth           float64      `toml:"line_width"`
	GlowBlur            float64      `toml:"glow_blur"`
	HeadEasing          float64      `toml:"head_easing"`
	JointEasing         float64      `toml:"joint_easing"`
	IntensityEasing     float64      `toml:"intensity_easing"`
	PhaseStep           float64      `toml:"phase_step"`
	VisibilityThreshold float64      `toml:"visibility_threshold"`
	Fade                bool         `toml:"fade"`
	ResizePolicy        ResizePolicy `toml:"resize_policy"`

	// Terminal host settings.
	FPS                    int     `toml:"fps"`
	Scale                  float64 `toml:"scale"`
	TouchReleaseDisengages bool    `toml:"touch_release_disengages"`
}

// Default returns the stock tuning.
func Default() Config {
	return Config{
		Strands:             60,
		Joints:              30,
		Radius:              10,
		Color:               "#cc00ff",
		Background:          "#161616",
		TrailAlpha:          0.2,
		LineWidth:           1.5,
		GlowBlur:            10,
		HeadEasing:          0.1,
		JointEasing:         0.4,
		IntensityEasing:     0.05,
		PhaseStep:           0.1,
		VisibilityThreshold: 0.01,
		Fade:                true,
		ResizePolicy:        ResizeBounds,
		FPS:                 30,
		Scale:               0.35,
	}
}

// Load reads a TOML file on top of Default and validates the result.
// Keys the table does not know are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and that both colors parse.
func (c Config) Validate() error {
	switch {
	case c.Strands < 0:
		return invalid("strands", "must be >= 0, got %d", c.Strands)
	case c.Joints < 1:
		return invalid("joints", "must be >= 1, got %d", c.Joints)
	case c.Radius < 0:
		return invalid("radius", "must be >= 0, got %v", c.Radius)
	case c.LineWidth <= 0:
		return invalid("line_width", "must be > 0, got %v", c.LineWidth)
	case c.GlowBlur < 0:
		return invalid("glow_blur", "must be >= 0, got %v", c.GlowBlur)
	case !unit(c.TrailAlpha):
		return invalid("trail_alpha", "must be in [0,1], got %v", c.TrailAlpha)
	case !openUnit(c.HeadEasing):
		return invalid("head_easing", "must be in (0,1], got %v", c.HeadEasing)
	case !openUnit(c.JointEasing):
		return invalid("joint_easing", "must be in (0,1], got %v", c.JointEasing)
	case !openUnit(c.IntensityEasing):
		return invalid("intensity_easing", "must be in (0,1], got %v", c.IntensityEasing)
	case !unit(c.VisibilityThreshold):
		return invalid("visibility_threshold", "must be in [0,1], got %v", c.VisibilityThreshold)
	case c.ResizePolicy != ResizeBounds && c.ResizePolicy != ResizeRebuild:
		return invalid("resize_policy", "must be %q or %q, got %q", ResizeBounds, ResizeRebuild, c.ResizePolicy)
	case c.FPS < 1 || c.FPS > 240:
		return invalid("fps", "must be in [1,240], got %d", c.FPS)
	case c.Scale <= 0:
		return invalid("scale", "must be > 0, got %v", c.Scale)
	}
	if _, err := paint.ParseHex(c.Color); err != nil {
		return fmt.Errorf("%w: color: %w", ErrInvalid, err)
	}
	if _, err := paint.ParseHex(c.Background); err != nil {
		return fmt.Errorf("%w: background: %w", ErrInvalid, err)
	}
	return nil
}

// StrokeColor returns the parsed strand color. Invalid colors fall back to the
// default; call Validate first to surface them.
func (c Config) StrokeColor() paint.Color {
	col, err := paint.ParseHex(c.Color)
	if err != nil {
		col, _ = paint.ParseHex(Default().Color)
	}
	return col
}

// BackgroundColor returns the parsed trail fill color at full alpha.
func (c Config) BackgroundColor() paint.Color {
	col, err := paint.ParseHex(c.Background)
	if err != nil {
		col, _ = paint.ParseHex(Default().Background)
	}
	return col
}

// StrandParams returns the per-strand motion parameters.
func (c Config) StrandParams() strand.Params {
	return strand.Params{
		Radius:      c.Radius,
		HeadEasing:  c.HeadEasing,
		JointEasing: c.JointEasing,
		PhaseStep:   c.PhaseStep,
	}
}

func invalid(key, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalid, key, fmt.Sprintf(format, args...))
}

func unit(v float64) bool     { return v >= 0 && v <= 1 }
func openUnit(v float64) bool { return v > 0 && v <= 1 }
