// Package util holds small helpers shared by the hosts: logging, status
// formatting and frame-rate bookkeeping.
package util

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger creates a logger with timestamp formatting that writes to w and
// filters messages below level. Timestamps look like "14:32:01.45".
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "tendril",
	})
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// LoggerFromContext returns the logger attached to ctx, or a logger that
// discards everything.
func LoggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.New(io.Discard)
}
