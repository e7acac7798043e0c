package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/olivier-w/tendril/internal/surface"
)

func newGauge() progress.Model {
	return progress.New(
		progress.WithScaledGradient("#7A00CC", "#CC00FF"),
		progress.WithoutPercentage(),
	)
}

func gaugeWidth(width int) int {
	return min(max(width/4, 10), 30)
}

func renderMode(m surface.Mode) string {
	return fmt.Sprintf("%s %s", m.Icon(), m)
}

func renderIntensity(v float64) string {
	return fmt.Sprintf("%3d%%", int(v*100+0.5))
}

// padLines returns s with exactly n lines, cutting or adding blank lines.
func padLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := surface.Lines(s)
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func windowTitle(paused bool) string {
	if paused {
		return "⏸ tendril"
	}
	return "tendril"
}
