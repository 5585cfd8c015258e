package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/copyscope/internal/capture"
	"github.com/Gaurav-Gosain/copyscope/internal/ui"
)

// RefreshTimeout bounds a rerun of the captured command by refresh-from-pane.
const RefreshTimeout = 30 * time.Second

type captureOptions struct {
	save     string
	maxBytes int
	view     viewOptions
}

func newCaptureCmd() *cobra.Command {
	var opts captureOptions
	cmd := &cobra.Command{
		Use:   "capture [flags] -- <command> [args...]",
		Short: "Run a command on a pty and view its output",
		Long: `Run a command on a pseudo terminal and view its output in copy mode

The command sees a terminal the size of the current one, so it keeps its
colors and layout. refresh-from-pane runs it again.`,
		Example: `  copyscope capture -- git log --oneline --graph --color=always
  copyscope capture --save out.txt -- make test`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd.Context(), args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.save, "save", "", "Also write the raw output to this file")
	cmd.Flags().IntVar(&opts.maxBytes, "max-bytes", capture.DefaultMaxBytes, "Stop recording after this many bytes")
	addViewFlags(cmd, &opts.view)
	return cmd
}

func runCapture(ctx context.Context, argv []string, opts captureOptions) error {
	logger, closer, err := newLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	w, h := terminalSize()
	copts := capture.Options{
		Width:    w,
		Height:   max(h-ui.StatusBarHeight, 1),
		MaxBytes: opts.maxBytes,
		Logger:   logger,
	}
	res, err := capture.Run(ctx, argv, copts)
	if err != nil {
		return err
	}
	if res.Truncated {
		logger.Warn("Output truncated", "max-bytes", opts.maxBytes)
	}
	if res.ExitErr != nil {
		logger.Info("Command failed", "err", res.ExitErr)
	}
	if opts.save != "" {
		if err := os.WriteFile(opts.save, res.Output, 0o644); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
	}

	src := &ui.Source{
		Data:         res.Output,
		HistoryLimit: cfg.HistoryLimit,
		Reload: func() ([]byte, error) {
			rctx, cancel := context.WithTimeout(ctx, RefreshTimeout)
			defer cancel()
			res, err := capture.Run(rctx, argv, copts)
			if err != nil {
				return nil, err
			}
			return res.Output, nil
		},
	}
	return runProgram(ctx, logger, cfg, src, strings.Join(argv, " "), opts.view)
}
