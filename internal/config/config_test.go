package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tendril.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
strands = 12
color = "#00ff8880"
resize_policy = "rebuild"
fade = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Strands != 12 {
		t.Fatalf("expected 12 strands, got %d", cfg.Strands)
	}
	if cfg.ResizePolicy != ResizeRebuild {
		t.Fatalf("expected rebuild policy, got %q", cfg.ResizePolicy)
	}
	if cfg.Fade {
		t.Fatal("expected fade disabled")
	}
	if cfg.Joints != 30 || cfg.Radius != 10 {
		t.Fatalf("expected untouched defaults, got joints=%d radius=%v", cfg.Joints, cfg.Radius)
	}
	if a := cfg.StrokeColor().A; a < 0.5 || a > 0.51 {
		t.Fatalf("expected half alpha from #..80, got %v", a)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "tentacles = 4\n")
	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadReportsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "negative strands", mutate: func(c *Config) { c.Strands = -1 }},
		{name: "zero joints", mutate: func(c *Config) { c.Joints = 0 }},
		{name: "zero head easing", mutate: func(c *Config) { c.HeadEasing = 0 }},
		{name: "joint easing above one", mutate: func(c *Config) { c.JointEasing = 1.5 }},
		{name: "trail alpha above one", mutate: func(c *Config) { c.TrailAlpha = 2 }},
		{name: "bad policy", mutate: func(c *Config) { c.ResizePolicy = "stretch" }},
		{name: "bad color", mutate: func(c *Config) { c.Color = "purple" }},
		{name: "bad background", mutate: func(c *Config) { c.Background = "#12" }},
		{name: "zero fps", mutate: func(c *Config) { c.FPS = 0 }},
		{name: "zero scale", mutate: func(c *Config) { c.Scale = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestStrandParamsMirrorTable(t *testing.T) {
	p := Default().StrandParams()
	if p.Radius != 10 || p.HeadEasing != 0.1 || p.JointEasing != 0.4 || p.PhaseStep != 0.1 {
		t.Fatalf("unexpected params %+v", p)
	}
}
