package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/olivier-w/tendril/internal/config"
	"github.com/spf13/cobra"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRunSnapshotWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")
	opts := snapshotOptions{frames: 30, width: 96, height: 64, out: out}

	if err := runSnapshot(context.Background(), config.Default(), opts, discardLogger(), io.Discard); err != nil {
		t.Fatalf("runSnapshot: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 96 || b.Dy() != 64 {
		t.Fatalf("expected 96x64 image, got %v", b)
	}
}

func TestRunSnapshotToStdout(t *testing.T) {
	var buf bytes.Buffer
	opts := snapshotOptions{frames: 5, width: 32, height: 32, out: "-"}

	if err := runSnapshot(context.Background(), config.Default(), opts, discardLogger(), &buf); err != nil {
		t.Fatalf("runSnapshot: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("expected PNG on stdout: %v", err)
	}
}

func TestRunSnapshotRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts snapshotOptions
	}{
		{"no frames", snapshotOptions{frames: 0, width: 10, height: 10, out: "-"}},
		{"zero width", snapshotOptions{frames: 1, width: 0, height: 10, out: "-"}},
		{"negative height", snapshotOptions{frames: 1, width: 10, height: -1, out: "-"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runSnapshot(context.Background(), config.Default(), tt.opts, discardLogger(), io.Discard); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestRunSnapshotCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := filepath.Join(t.TempDir(), "frame.png")
	opts := snapshotOptions{frames: 10, width: 16, height: 16, out: out}

	err := runSnapshot(ctx, config.Default(), opts, discardLogger(), io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatal("canceled snapshot should not write a file")
	}
}

func TestSnapshotCommandUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tendril.toml")
	if err := os.WriteFile(cfgPath, []byte("strands = 4\njoints = 6\ncolor = \"#00ff88\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.png")

	var stderr bytes.Buffer
	opts := &rootOptions{}
	root := newRootCmd(opts)
	root.SetErr(&stderr)
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--config", cfgPath, "snapshot", "--frames", "3", "--width", "40", "--height", "30", "--out", out})
	if err := execute(context.Background(), root, opts); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected snapshot file: %v", err)
	}
	if !strings.Contains(stderr.String(), "snapshot written") {
		t.Fatalf("expected completion log, got %q", stderr.String())
	}
}

func TestSnapshotCommandRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tendril.toml")
	if err := os.WriteFile(cfgPath, []byte("tentacles = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := &rootOptions{}
	root := newRootCmd(opts)
	root.SetErr(io.Discard)
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--config", cfgPath, "snapshot", "--out", filepath.Join(dir, "out.png")})
	err := execute(context.Background(), root, opts)
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected config.ErrInvalid, got %v", err)
	}
}

func TestLogFileClosedWhenCommandFails(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "tendril.log")

	var closed bool
	opts := &rootOptions{}
	root := newRootCmd(opts)
	root.SetErr(io.Discard)
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--log-file", logPath, "--config", filepath.Join(dir, "missing.toml"), "snapshot"})
	root.PersistentPreRunE = wrapPreRun(root.PersistentPreRunE, func() {
		inner := opts.closeLog
		opts.closeLog = func() error {
			closed = true
			return inner()
		}
	})

	if err := execute(context.Background(), root, opts); err == nil {
		t.Fatal("expected the missing config to fail the command")
	}
	if !closed {
		t.Fatal("expected the log file to be closed after a failed command")
	}
	if opts.closeLog != nil {
		t.Fatal("expected the close func to be cleared")
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
}

func wrapPreRun(pre func(*cobra.Command, []string) error, after func()) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := pre(cmd, args); err != nil {
			return err
		}
		after()
		return nil
	}
}

func TestLogSink(t *testing.T) {
	root := newRootCmd(&rootOptions{})
	var stderr bytes.Buffer
	root.SetErr(&stderr)
	if logSink(root) != io.Discard {
		t.Fatal("the TUI should not log to the terminal")
	}
	snap, _, err := root.Find([]string{"snapshot"})
	if err != nil {
		t.Fatal(err)
	}
	if logSink(snap) != &stderr {
		t.Fatal("subcommands should log to stderr")
	}
}

func TestOpenLog(t *testing.T) {
	var fallback bytes.Buffer
	logger, closeLog, err := openLog("", log.InfoLevel, &fallback)
	if err != nil {
		t.Fatalf("openLog: %v", err)
	}
	logger.Info("to fallback")
	if err := closeLog(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(fallback.String(), "to fallback") {
		t.Fatalf("expected fallback writer to receive logs, got %q", fallback.String())
	}

	path := filepath.Join(t.TempDir(), "tendril.log")
	logger, closeLog, err = openLog(path, log.DebugLevel, io.Discard)
	if err != nil {
		t.Fatalf("openLog: %v", err)
	}
	logger.Debug("hello")
	if err := closeLog(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("expected debug line in log file, got %q", data)
	}
}
