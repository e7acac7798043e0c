package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/olivier-w/tendril/internal/config"
	"github.com/olivier-w/tendril/internal/surface"
	"github.com/olivier-w/tendril/internal/ui"
	"github.com/olivier-w/tendril/internal/util"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := &rootOptions{}
	if err := execute(ctx, newRootCmd(opts), opts); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logFile    string
	mode       string
	verbose    bool

	closeLog func() error
}

// closeLogFile closes the --log-file handle, if one was opened.
func (o *rootOptions) closeLogFile() error {
	if o.closeLog == nil {
		return nil
	}
	closeLog := o.closeLog
	o.closeLog = nil
	return closeLog()
}

func (o *rootOptions) level() log.Level {
	if o.verbose {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// execute runs root and closes the log file however the command ends.
// Post-run hooks are skipped when RunE fails.
func execute(ctx context.Context, root *cobra.Command, opts *rootOptions) error {
	err := root.ExecuteContext(ctx)
	if cerr := opts.closeLogFile(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "tendril",
		Short: "Glowing tentacles that chase your mouse",
		Long: `tendril draws a swarm of glowing strands that chase the pointer.

Move the mouse over the terminal to engage the strands; they fade out when
the pointer leaves. Without a mouse, steer with the arrow keys or press 'a'
for autopilot. Use "tendril snapshot" to render a PNG without a terminal.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := openLog(opts.logFile, opts.level(), logSink(cmd))
			if err != nil {
				return err
			}
			opts.closeLog = closeLog
			cmd.SetContext(util.WithLogger(cmd.Context(), logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "TOML file overriding the default tuning")
	flags.StringVar(&opts.logFile, "log-file", "", "append logs to this file (the TUI discards them otherwise)")
	flags.StringVar(&opts.mode, "mode", surface.ModeBraille.String(), "terminal render mode: braille, halfblock or ascii")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newSnapshotCmd(opts))
	return root
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// logSink is where a command logs without --log-file. The TUI owns the
// terminal, so it logs nowhere; subcommands log to stderr.
func logSink(cmd *cobra.Command) io.Writer {
	if cmd.HasParent() {
		return cmd.ErrOrStderr()
	}
	return io.Discard
}

// openLog returns a logger appending to path, or writing to fallback when
// path is empty. The returned close func is always non-nil.
func openLog(path string, level log.Level, fallback io.Writer) (*log.Logger, func() error, error) {
	if path == "" {
		return util.NewLogger(fallback, level), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return util.NewLogger(f, level), f.Close, nil
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	mode, err := surface.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	logger := util.LoggerFromContext(ctx)
	logger.Info("starting", "mode", mode, "strands", cfg.Strands, "joints", cfg.Joints, "fps", cfg.FPS)

	program := tea.NewProgram(ui.New(cfg, mode, logger),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	logger.Info("stopped")
	return nil
}
