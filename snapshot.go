package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/olivier-w/tendril/internal/config"
	"github.com/olivier-w/tendril/internal/effect"
	"github.com/olivier-w/tendril/internal/pointer"
	"github.com/olivier-w/tendril/internal/surface"
	"github.com/olivier-w/tendril/internal/util"
	"github.com/spf13/cobra"
)

type snapshotOptions struct {
	frames int
	width  int
	height int
	pace   int // frames per second, 0 renders back-to-back
	out    string
}

func newSnapshotCmd(root *rootOptions) *cobra.Command {
	opts := snapshotOptions{
		frames: 120,
		width:  800,
		height: 600,
		out:    "tendril.png",
	}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the effect to a PNG without a terminal",
		Long: `Render the effect headlessly and write the last frame as a PNG.

The pointer follows a Lissajous path across the canvas, entering on the
first frame. Pass --out - to write the image to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return runSnapshot(ctx, cfg, opts, util.LoggerFromContext(ctx), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.frames, "frames", opts.frames, "number of frames to simulate")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "image height in pixels")
	cmd.Flags().IntVar(&opts.pace, "pace", 0, "simulate in real time at this frame rate (0 = as fast as possible)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", opts.out, "output PNG path, or - for stdout")
	return cmd
}

func runSnapshot(ctx context.Context, cfg config.Config, opts snapshotOptions, logger *log.Logger, stdout io.Writer) error {
	if opts.frames < 1 {
		return fmt.Errorf("--frames must be at least 1, got %d", opts.frames)
	}
	if opts.width < 1 || opts.height < 1 {
		return fmt.Errorf("image size must be positive, got %dx%d", opts.width, opts.height)
	}

	canvas := surface.NewOffscreen(opts.width, opts.height, cfg.BackgroundColor())
	ctrl := effect.New(cfg, effect.WithLogger(logger))
	w, h := float64(opts.width), float64(opts.height)
	ctrl.Initialize(w, h)

	path := pointer.NewLissajous(w, h)
	ctrl.PointerEnter(path.At(0))

	var sched effect.Scheduler = effect.NewFrameBudget(opts.frames)
	if opts.pace > 0 {
		tk := effect.NewTicker(opts.pace)
		defer tk.Stop()
		sched = effect.Paced(tk, opts.frames)
	}

	start := time.Now()
	n := ctrl.Run(ctx, sched, canvas, func(frame int) {
		ctrl.PointerMove(path.At(frame))
	})
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.Debug("simulated", "frames", n, "elapsed", time.Since(start).Round(time.Millisecond), "intensity", ctrl.Intensity())

	if err := writePNG(canvas, opts.out, stdout); err != nil {
		return err
	}
	if opts.out != "-" {
		logger.Info("snapshot written", "path", opts.out, "size", fmt.Sprintf("%dx%d", opts.width, opts.height), "frames", n)
	}
	return nil
}

func writePNG(canvas *surface.Offscreen, out string, stdout io.Writer) error {
	if out == "-" {
		return canvas.EncodePNG(stdout)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := canvas.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", out, err)
	}
	return f.Close()
}
