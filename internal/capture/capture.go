// Package capture runs a command on a pseudo terminal and records what it
// prints, so the output can be browsed in copy mode afterwards.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"charm.land/log/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/xpty"

	"github.com/Gaurav-Gosain/copyscope/internal/pool"
)

// DrainDelay is how long output is still read after the process exits.
const DrainDelay = 50 * time.Millisecond

// DefaultMaxBytes caps a capture when Options.MaxBytes is zero.
const DefaultMaxBytes = 16 << 20

// ErrNoCommand is returned when Run is given no command.
var ErrNoCommand = errors.New("no command to capture")

// Options configure a capture.
type Options struct {
	Width, Height int
	// MaxBytes stops recording once this much output has been read. The
	// process keeps running until it exits.
	MaxBytes int
	Dir      string
	Logger   *log.Logger
}

// Result is a finished capture.
type Result struct {
	Output    []byte
	Truncated bool
	// ExitErr is the error returned by the process, nil on success.
	ExitErr error
}

// Run starts argv on a new pty sized Width by Height, waits for it to exit
// and returns everything it wrote.
func Run(ctx context.Context, argv []string, opts Options) (*Result, error) {
	if len(argv) == 0 {
		return nil, ErrNoCommand
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	// #nosec G204 - the command is given by the user on the command line
	cmd := exec.Command(argv[0], argv[1:]...)
	termType, colorTerm := getTerminalEnv()
	cmd.Env = append(os.Environ(), "TERM="+termType, "COPYSCOPE=1")
	if colorTerm != "" {
		cmd.Env = append(cmd.Env, "COLORTERM="+colorTerm)
	}
	cmd.Dir = opts.Dir
	setProcAttr(cmd)

	pty, err := xpty.NewPty(opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to open pty: %w", err)
	}
	defer pty.Close()

	if err := pty.Start(cmd); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}
	opts.Logger.Debug("capture started", "cmd", strings.Join(argv, " "), "pid", cmd.Process.Pid,
		"size", fmt.Sprintf("%dx%d", opts.Width, opts.Height))

	rec := &recorder{max: opts.MaxBytes}
	done := make(chan struct{})
	go func() {
		defer close(done)
		rec.readFrom(pty)
	}()

	exitErr := xpty.WaitProcess(ctx, cmd)

	select {
	case <-done:
	case <-time.After(DrainDelay):
		// The child has gone; closing the pty ends the read loop.
		_ = pty.Close()
		<-done
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	out, truncated := rec.result()
	opts.Logger.Debug("capture finished", "bytes", len(out), "truncated", truncated, "err", exitErr)
	return &Result{Output: out, Truncated: truncated, ExitErr: exitErr}, nil
}

// recorder collects pty output up to max bytes.
type recorder struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	max       int
	truncated bool
}

func (r *recorder) readFrom(src io.Reader) {
	bufPtr := pool.GetByteSlice()
	buf := *bufPtr
	defer pool.PutByteSlice(bufPtr)

	for {
		n, err := src.Read(buf)
		if n > 0 {
			r.write(buf[:n])
		}
		if err != nil {
			// EOF, EIO once the slave side closes, or the pty being closed.
			return
		}
	}
}

func (r *recorder) write(p []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room := r.max - r.buf.Len()
	if room <= 0 {
		r.truncated = true
		return
	}
	if len(p) > room {
		p = p[:room]
		r.truncated = true
	}
	r.buf.Write(p)
}

func (r *recorder) result() ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return bytes.Clone(r.buf.Bytes()), r.truncated
}

var (
	envOnce      sync.Once
	envTermType  string
	envColorTerm string
)

// getTerminalEnv returns the TERM and COLORTERM values given to captured
// commands, detected once from the controlling terminal.
func getTerminalEnv() (termType, colorTerm string) {
	envOnce.Do(func() {
		profile := colorprofile.Detect(os.Stdout, os.Environ())
		envTermType, envColorTerm = profileToEnv(profile, os.Getenv("TERM"))
	})
	return envTermType, envColorTerm
}

// profileToEnv converts a color profile to TERM and COLORTERM values,
// keeping the parent TERM when it already describes the profile.
func profileToEnv(profile colorprofile.Profile, parentTerm string) (termType, colorTerm string) {
	switch profile {
	case colorprofile.TrueColor:
		if strings.Contains(parentTerm, "256color") || strings.Contains(parentTerm, "truecolor") ||
			parentTerm == "xterm-direct" || parentTerm == "alacritty" || strings.Contains(parentTerm, "kitty") {
			termType = parentTerm
		} else {
			termType = "xterm-256color"
		}
		colorTerm = "truecolor"
	case colorprofile.ANSI256:
		switch {
		case strings.Contains(parentTerm, "256color"):
			termType = parentTerm
		case strings.HasPrefix(parentTerm, "screen"):
			termType = "screen-256color"
		case strings.HasPrefix(parentTerm, "tmux"):
			termType = "tmux-256color"
		default:
			termType = "xterm-256color"
		}
	case colorprofile.ANSI:
		termType = "xterm"
		if parentTerm != "" && parentTerm != "dumb" {
			termType = parentTerm
		}
	case colorprofile.Ascii, colorprofile.NoTTY:
		termType = "dumb"
	default:
		termType = "xterm-256color"
	}
	return termType, colorTerm
}
