// Package main implements copyscope, a copy mode viewer for captured
// terminal output. It scrolls, searches and selects text in a file, a pipe
// or the output of a command, the way a terminal multiplexer's copy mode
// does.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"charm.land/log/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/copyscope/internal/config"
	"github.com/Gaurav-Gosain/copyscope/internal/copymode"
	"github.com/Gaurav-Gosain/copyscope/internal/theme"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode    bool
	modeKeysFlag string
	themeFlag    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "copyscope [file]",
		Short: "Copy mode for captured terminal output",
		Long: `copyscope - copy mode for captured terminal output

Browse a file, a pipe or the output of a command with vi or emacs copy mode
keys: move by words, lines and paragraphs, search with literals or regular
expressions, select and copy text to the clipboard or paste buffers.`,
		Example: `  # View a file
  copyscope build.log

  # View piped output
  make 2>&1 | copyscope

  # Capture a command on a pty and view its output
  copyscope capture -- ls --color=always -l

  # Run a copy mode script and print the copied buffers
  copyscope run select.txt build.log

  # List all keybindings
  copyscope keys list`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), args, viewFlags)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Write a debug log")
	rootCmd.PersistentFlags().StringVar(&modeKeysFlag, "mode-keys", "", "Key table to use: vi or emacs (overrides the config)")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "", "Color theme name (overrides the config)")
	addViewFlags(rootCmd, &viewFlags)

	rootCmd.AddCommand(
		newViewCmd(),
		newRunCmd(),
		newSearchCmd(),
		newCaptureCmd(),
		newServeCmd(),
		newConfigCmd(),
		newKeysCmd(),
	)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

// newLogger returns the logger for this run. With --debug it writes to the
// debug log file; otherwise only warnings reach stderr.
func newLogger() (*log.Logger, io.Closer, error) {
	if !debugMode {
		return log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel}), nopCloser{}, nil
	}
	path, err := config.GetLogPath()
	if err != nil {
		return nil, nil, fmt.Errorf("could not determine log path: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "copyscope",
	})
	fmt.Fprintf(os.Stderr, "Debug log: %s\n", path)
	return logger, f, nil
}

// loadConfig loads the user configuration, falling back to the defaults,
// and applies the global flag overrides and theme.
func loadConfig(logger *log.Logger) (*config.UserConfig, error) {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		logger.Warn("Failed to load config, using defaults", "err", err)
		cfg = config.DefaultConfig()
	}
	if err := applyOverrides(cfg); err != nil {
		return nil, err
	}
	theme.Initialize(cfg.Theme)
	return cfg, nil
}

func applyOverrides(cfg *config.UserConfig) error {
	if modeKeysFlag != "" {
		if _, err := copymode.ParseModeKeys(modeKeysFlag); err != nil {
			return fmt.Errorf("--mode-keys: %w", err)
		}
		cfg.ModeKeys = modeKeysFlag
	}
	if themeFlag != "" {
		cfg.Theme = themeFlag
	}
	return nil
}

// logAdapter routes copy mode and emulator diagnostics to logger.
type logAdapter struct{ l *log.Logger }

func (a logAdapter) Printf(format string, v ...any) {
	a.l.Debugf(format, v...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
