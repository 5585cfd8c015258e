// Package script parses copy mode command lines, the text form used by key
// bindings and by verb scripts run against a capture.
//
// A command line is a verb followed by shell-quoted arguments:
//
//	search-forward "foo bar"
//	copy-pipe-and-cancel 'xclip -selection clipboard'
//
// An argument of "%%" is filled in from a prompt before the command runs.
// In a script, a leading number repeats the command.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Gaurav-Gosain/copyscope/internal/copymode"
	"github.com/anmitsu/go-shlex"
)

// Placeholder marks an argument read from a prompt.
const Placeholder = "%%"

// ErrEmptyLine is returned for a blank command line.
var ErrEmptyLine = errors.New("empty command line")

// PromptKind says how a placeholder is read.
type PromptKind int

const (
	// PromptNone means the command has no placeholder.
	PromptNone PromptKind = iota
	// PromptText reads a line of text.
	PromptText
	// PromptChar reads a single character.
	PromptChar
	// PromptIncremental sends the text after every keystroke.
	PromptIncremental
)

// Command is one parsed command line.
type Command struct {
	Verb string
	Args []string
	// Repeat is the repeat count, at least 1.
	Repeat int
}

// ParseLine splits and checks a command line.
func ParseLine(line string) (Command, error) {
	fields, err := shlex.Split(line, true)
	if err != nil {
		return Command{}, fmt.Errorf("parse %q: %w", line, err)
	}
	if len(fields) == 0 {
		return Command{}, ErrEmptyLine
	}

	cmd := Command{Repeat: 1}
	if n, err := strconv.Atoi(fields[0]); err == nil {
		if n < 1 {
			return Command{}, fmt.Errorf("parse %q: repeat count must be positive", line)
		}
		cmd.Repeat = n
		fields = fields[1:]
		if len(fields) == 0 {
			return Command{}, fmt.Errorf("parse %q: missing verb", line)
		}
	}
	cmd.Verb = fields[0]
	cmd.Args = fields[1:]

	if err := copymode.CheckArgs(cmd.Verb, len(cmd.Args)); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// Prompt returns how the command's placeholder is read.
func (c Command) Prompt() PromptKind {
	if !c.HasPlaceholder() {
		return PromptNone
	}
	switch {
	case strings.HasSuffix(c.Verb, "-incremental"):
		return PromptIncremental
	case strings.HasPrefix(c.Verb, "jump-"):
		return PromptChar
	}
	return PromptText
}

// PromptLabel is the text shown before the prompt input.
func (c Command) PromptLabel() string {
	switch {
	case strings.HasPrefix(c.Verb, "search-backward"):
		return "(search up) "
	case strings.HasPrefix(c.Verb, "search-forward"):
		return "(search down) "
	case c.Verb == "goto-line":
		return "(goto line) "
	case c.Verb == "jump-forward":
		return "(jump forward) "
	case c.Verb == "jump-backward":
		return "(jump backward) "
	case c.Verb == "jump-to-forward":
		return "(jump to forward) "
	case c.Verb == "jump-to-backward":
		return "(jump to backward) "
	}
	return "(" + c.Verb + ") "
}

// HasPlaceholder reports whether any argument is read from a prompt.
func (c Command) HasPlaceholder() bool {
	for _, a := range c.Args {
		if strings.Contains(a, Placeholder) {
			return true
		}
	}
	return false
}

// Expand returns a copy of c with every placeholder replaced by input.
func (c Command) Expand(input string) Command {
	out := c
	out.Args = make([]string, len(c.Args))
	for i, a := range c.Args {
		out.Args[i] = strings.ReplaceAll(a, Placeholder, input)
	}
	return out
}

// String formats c as a command line.
func (c Command) String() string {
	var sb strings.Builder
	if c.Repeat > 1 {
		sb.WriteString(strconv.Itoa(c.Repeat))
		sb.WriteByte(' ')
	}
	sb.WriteString(c.Verb)
	for _, a := range c.Args {
		sb.WriteByte(' ')
		sb.WriteString(quote(a))
	}
	return sb.String()
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\#") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Run executes c against m.
func (c Command) Run(m *copymode.Mode) copymode.Action {
	m.SetPrefix(c.Repeat)
	return m.Execute(c.Verb, c.Args, nil)
}

// Step is the outcome of one script line.
type Step struct {
	Line    int
	Command Command
	Action  copymode.Action
}

// Exec runs every command line read from r against m. Blank lines and
// lines starting with '#' are skipped. Execution stops after a command
// that cancels copy mode.
func Exec(m *copymode.Mode, r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, err := ParseLine(line)
		if err != nil {
			return steps, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if cmd.HasPlaceholder() {
			return steps, fmt.Errorf("line %d: %s needs a prompt", lineNo, cmd.Verb)
		}
		action := cmd.Run(m)
		steps = append(steps, Step{Line: lineNo, Command: cmd, Action: action})
		if action == copymode.Cancel {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return steps, fmt.Errorf("read script: %w", err)
	}
	return steps, nil
}
