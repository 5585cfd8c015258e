package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/copyscope/internal/buffer"
	"github.com/Gaurav-Gosain/copyscope/internal/config"
	"github.com/Gaurav-Gosain/copyscope/internal/copymode"
	"github.com/Gaurav-Gosain/copyscope/internal/script"
	"github.com/Gaurav-Gosain/copyscope/internal/ui"
)

type runOptions struct {
	width, height int
	verbose       bool
	names         bool
	renames       []string
	deletes       []string
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run <script> [file]",
		Short: "Run a copy mode script and print the copied buffers",
		Long: `Run a copy mode script without a terminal

Each line of the script is a copy mode command, optionally preceded by a
repeat count, for example "3 cursor-down" or "search-forward error". Blank
lines and lines starting with # are skipped. The script runs over the file
(or stdin) laid out at the terminal size, and the paste buffers it fills are
printed oldest first.`,
		Example: `  # Copy the last line that mentions an error
  printf 'history-bottom\nsearch-backward error\nselect-line\ncopy-selection\n' > last-error.txt
  copyscope run last-error.txt build.log

  # Keep the copy under a fixed name and drop the rest
  copyscope run --names --rename buffer1=latest --delete buffer0 copy.txt build.log`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScriptCmd(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}
	cmd.Flags().IntVar(&opts.width, "width", 0, "Grid width (defaults to the terminal width)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Grid height (defaults to the terminal height)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print each command and the cursor after it to stderr")
	cmd.Flags().BoolVar(&opts.names, "names", false, "Print buffer names before their contents")
	cmd.Flags().StringArrayVar(&opts.renames, "rename", nil, "Rename a buffer after the script, as old=new")
	cmd.Flags().StringArrayVarP(&opts.deletes, "delete", "d", nil, "Delete a buffer after the script")
	return cmd
}

// gridSize fills in a width and height left at zero from the terminal.
func gridSize(width, height int) (int, int) {
	tw, th := terminalSize()
	if width <= 0 {
		width = tw
	}
	if height <= 0 {
		height = th
	}
	return width, height
}

func runScriptCmd(ctx context.Context, out io.Writer, args []string, opts runOptions) error {
	logger, closer, err := newLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	data, _, err := readInput(args[1:])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	w, h := gridSize(opts.width, opts.height)
	res, err := runScript(ctx, data, f, cfg, w, h, logger)
	if opts.verbose && res != nil {
		for _, st := range res.Steps {
			fmt.Fprintf(os.Stderr, "%d: %s -> %s\n", st.Line, st.Command, st.Action)
		}
		c := res.Mode.AbsCursor()
		fmt.Fprintf(os.Stderr, "cursor %d,%d\n", c.X, c.Y)
	}
	if err != nil {
		return err
	}
	if err := editBuffers(res.Buffers, opts.renames, opts.deletes); err != nil {
		return err
	}

	bufs := res.Buffers.List()
	slices.Reverse(bufs)
	for _, b := range bufs {
		if opts.names {
			fmt.Fprintf(out, "%s:\n", b.Name)
		}
		fmt.Fprintln(out, b.Data)
	}
	return nil
}

// scriptResult is the state left by a script run.
type scriptResult struct {
	Mode    *copymode.Mode
	Buffers *buffer.Store
	Steps   []script.Step
}

// runScript lays data out at width by height and runs the commands read
// from r over it.
func runScript(ctx context.Context, data []byte, r io.Reader, cfg *config.UserConfig, width, height int, logger *log.Logger) (*scriptResult, error) {
	src := &ui.Source{Data: data, HistoryLimit: cfg.HistoryLimit}
	g, cursor := src.Grid(width, height)

	modeKeys, err := copymode.ParseModeKeys(cfg.ModeKeys)
	if err != nil {
		return nil, err
	}
	store := buffer.NewStore(cfg.BufferLimit)
	mode := copymode.New(g, cursor, copymode.Options{
		ModeKeys:       modeKeys,
		WordSeparators: cfg.WordSeparators,
		WrapSearch:     cfg.WrapSearch,
		HidePosition:   cfg.HidePosition,
		CopyCommand:    cfg.CopyCommand,
		Pipe: func(command, data string) error {
			pctx, cancel := context.WithTimeout(ctx, ui.PipeTimeout)
			defer cancel()
			return buffer.Pipe(pctx, command, data)
		},
		Buffers: store,
		Logger:  logAdapter{logger},
		View:    true,
	})

	steps, err := script.Exec(mode, r)
	res := &scriptResult{Mode: mode, Buffers: store, Steps: steps}
	if err != nil {
		return res, fmt.Errorf("script: %w", err)
	}
	logger.Debug("script finished", "steps", len(steps), "buffers", store.Len())
	return res, nil
}

// editBuffers applies renames, given as old=new, and then deletes.
func editBuffers(store *buffer.Store, renames, deletes []string) error {
	for _, r := range renames {
		oldName, newName, ok := strings.Cut(r, "=")
		if !ok {
			return fmt.Errorf("bad rename %q: want old=new", r)
		}
		if err := store.Rename(oldName, newName); err != nil {
			return fmt.Errorf("rename: %w", err)
		}
	}
	for _, name := range deletes {
		if err := store.Delete(name); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
	}
	return nil
}
