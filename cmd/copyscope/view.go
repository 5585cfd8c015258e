package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/copyscope/internal/buffer"
	"github.com/Gaurav-Gosain/copyscope/internal/config"
	"github.com/Gaurav-Gosain/copyscope/internal/ui"
)

// errNoInput is returned when there is neither a file nor piped input.
var errNoInput = errors.New("no input: pass a file or pipe output into copyscope")

type viewOptions struct {
	print   bool
	noWatch bool
}

var viewFlags viewOptions

func addViewFlags(cmd *cobra.Command, o *viewOptions) {
	cmd.Flags().BoolVarP(&o.print, "print", "p", false, "Write copied text to stdout on exit")
	cmd.Flags().BoolVar(&o.noWatch, "no-watch", false, "Do not reload the config file when it changes")
}

func newViewCmd() *cobra.Command {
	var opts viewOptions
	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "View a file or piped output in copy mode",
		Long: `View a file or piped output in copy mode

With no file, the output piped into copyscope is shown. A file can be
refreshed from disk with refresh-from-pane; piped input is view-only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), args, opts)
		},
	}
	addViewFlags(cmd, &opts)
	return cmd
}

// readInput reads the named file, or stdin when no file is given and
// stdin is not a terminal.
func readInput(args []string) (data []byte, path string, err error) {
	if len(args) > 0 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("failed to read input: %w", err)
		}
		return data, args[0], nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, "", errNoInput
	}
	data, err = io.ReadAll(os.Stdin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, "", nil
}

// terminalSize returns the size of the terminal on stdout, or 80x24.
func terminalSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

func runView(ctx context.Context, args []string, opts viewOptions) error {
	logger, closer, err := newLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	data, path, err := readInput(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	src := &ui.Source{Data: data, HistoryLimit: cfg.HistoryLimit}
	title := "stdin"
	if path != "" {
		title = filepath.Base(path)
		src.Reload = func() ([]byte, error) { return os.ReadFile(path) }
	}
	logger.Debug("viewing", "source", title, "bytes", len(data))

	return runProgram(ctx, logger, cfg, src, title, opts)
}

// runProgram runs the viewer on src until it is cancelled.
func runProgram(ctx context.Context, logger *log.Logger, cfg *config.UserConfig, src *ui.Source, title string, opts viewOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.New(ui.Options{
		Config:  cfg,
		Source:  src,
		Buffers: buffer.NewStore(cfg.BufferLimit),
		Title:   title,
		Logger:  logAdapter{logger},
	})

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// Keys come from the terminal when the data came down a pipe.
		tty, err := os.Open("/dev/tty")
		if err != nil {
			return fmt.Errorf("could not open terminal for input: %w", err)
		}
		defer tty.Close()
		progOpts = append(progOpts, tea.WithInput(tty))
	}
	if opts.print {
		// Keep stdout clean for the copied text.
		progOpts = append(progOpts, tea.WithOutput(os.Stderr))
	}
	p := tea.NewProgram(model, progOpts...)

	if !opts.noWatch {
		watchConfig(ctx, logger, p)
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("program error: %w", err)
	}

	if opts.print {
		for _, s := range model.Copied() {
			fmt.Println(s)
		}
	}
	return nil
}

// watchConfig sends a ui.ConfigMsg to p whenever the config file changes.
func watchConfig(ctx context.Context, logger *log.Logger, p *tea.Program) {
	path, err := config.GetConfigPath()
	if err != nil {
		logger.Warn("Config reload disabled", "err", err)
		return
	}
	err = config.Watch(ctx, path, func(cfg *config.UserConfig, err error) {
		if err == nil {
			err = applyOverrides(cfg)
		}
		logger.Debug("config changed", "path", path, "err", err)
		p.Send(ui.ConfigMsg{Config: cfg, Err: err})
	})
	if err != nil {
		logger.Warn("Config reload disabled", "err", err)
	}
}
