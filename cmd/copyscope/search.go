package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	"github.com/Gaurav-Gosain/copyscope/internal/search"
	"github.com/Gaurav-Gosain/copyscope/internal/theme"
	"github.com/Gaurav-Gosain/copyscope/internal/ui"
)

type searchOptions struct {
	regex   bool
	count   bool
	noColor bool
	width   int
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions
	cmd := &cobra.Command{
		Use:   "search <pattern> [file]",
		Short: "Print the lines copy mode search would find",
		Long: `Print every line that copy mode search matches

The input is laid out at the terminal width first, so matches that continue
onto a wrapped row are found the same way as in the viewer. A pattern with
no upper case letters matches case-insensitively.`,
		Example: `  copyscope search timeout build.log
  dmesg | copyscope search -E 'usb [0-9]+-[0-9]+'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.OutOrStdout(), args, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.regex, "regex", "E", false, "Treat the pattern as a regular expression")
	cmd.Flags().BoolVarP(&opts.count, "count", "c", false, "Print only the number of matches")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Do not highlight matches")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Layout width (defaults to the terminal width)")
	return cmd
}

func runSearch(out io.Writer, args []string, opts searchOptions) error {
	logger, closer, err := newLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	p, err := search.Compile(args[0], opts.regex)
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}
	data, _, err := readInput(args[1:])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	w, h := gridSize(opts.width, 0)
	g, _ := (&ui.Source{Data: data, HistoryLimit: cfg.HistoryLimit}).Grid(w, h)
	matches := p.FindAll(g, &search.Buffers{})
	logger.Debug("search", "pattern", p.String(), "matches", len(matches))

	if opts.count {
		fmt.Fprintln(out, len(matches))
		return nil
	}

	// The writer downsamples colors to what the output supports and strips
	// them when it is not a terminal.
	cw := colorprofile.NewWriter(out, os.Environ())
	if opts.noColor {
		cw.Profile = colorprofile.Ascii
	}

	bg, fg := theme.CopyModeSearchCurrent()
	hl := lipgloss.NewStyle().Background(bg).Foreground(fg).Bold(true)
	num := lipgloss.NewStyle().Foreground(theme.CLITableDim())

	for _, l := range matchedLines(g, matches, hl.Render) {
		fmt.Fprintf(cw, "%s %s\n", num.Render(fmt.Sprintf("%d:", l.Line)), l.Text)
	}
	return nil
}

// matchLine is a logical line holding at least one match.
type matchLine struct {
	// Line is the 1-based logical line number; wrapped rows share one.
	Line int
	Text string
}

// matchedLines joins each logical line of g that holds a match, passing
// matched runs of text through highlight.
func matchedLines(g grid.Grid, matches []search.Match, highlight func(string) string) []matchLine {
	hits := make(map[grid.Pos]bool)
	for _, m := range matches {
		x, y := m.X, m.Y
		for range max(m.Width, 1) {
			hits[grid.Pos{X: x, Y: y}] = true
			if x++; x >= g.Width() {
				x, y = 0, y+1
			}
		}
	}

	var (
		out  []matchLine
		sb   strings.Builder
		run  strings.Builder
		line int
	)
	rows := grid.Rows(g)
	for y := 0; y < rows; {
		line++
		sb.Reset()
		found := false
		inHit := false
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if inHit {
				sb.WriteString(highlight(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}

		for {
			last := grid.LineLength(g, y)
			if grid.Wrapped(g, y) {
				last = g.Width()
			}
			for x := range last {
				c := g.Cell(x, y)
				if grid.IsPadding(c) {
					continue
				}
				hit := hits[grid.Pos{X: x, Y: y}]
				if hit != inHit {
					flush()
					inHit = hit
				}
				found = found || hit
				run.WriteString(grid.Text(c))
			}
			wrapped := grid.Wrapped(g, y)
			y++
			if !wrapped || y >= rows {
				break
			}
		}
		flush()

		if found {
			out = append(out, matchLine{Line: line, Text: sb.String()})
		}
	}
	return out
}
