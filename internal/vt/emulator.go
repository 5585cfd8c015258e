// Package vt is a small terminal emulator that turns program output into a
// grid.Buffer for copy mode. It understands printing with soft wrap, the
// common cursor and erase sequences, SGR styling and OSC 133 prompt marks.
package vt

import (
	"bytes"
	"io"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/ansi/parser"
	"github.com/mattn/go-runewidth"
)

// Logger represents a logger interface.
type Logger interface {
	Printf(format string, v ...any)
}

const tabWidth = 8

// Emulator represents a virtual terminal emulator.
type Emulator struct {
	width, height int

	// The visible screen, one Line per row.
	rows []grid.Line
	sb   *Scrollback

	// Cursor position. x may equal width when the last column has been
	// written and the next printable character wraps.
	x, y           int
	savedX, savedY int

	pen uv.Style

	parser *ansi.Parser
	logger Logger
	closed bool
}

// NewEmulator creates a new virtual terminal emulator keeping up to
// scrollback lines of history.
func NewEmulator(w, h, scrollback int) *Emulator {
	e := &Emulator{
		width:  max(w, 1),
		height: max(h, 1),
		sb:     NewScrollback(scrollback),
	}
	e.rows = make([]grid.Line, e.height)
	e.parser = ansi.NewParser()
	e.parser.SetParamsSize(parser.MaxParamsSize)
	e.parser.SetDataSize(1024 * 64)
	e.parser.SetHandler(ansi.Handler{
		Print:     e.handlePrint,
		Execute:   e.handleControl,
		HandleCsi: e.handleCsi,
		HandleEsc: e.handleEsc,
		HandleOsc: e.handleOsc,
	})
	return e
}

// Parse feeds data through a fresh emulator and returns the snapshot.
func Parse(w, h, scrollback int, data []byte) *grid.Buffer {
	e := NewEmulator(w, h, scrollback)
	_, _ = e.Write(data)
	return e.Snapshot()
}

// ReadFrom feeds everything from r into the emulator.
func (e *Emulator) ReadFrom(r io.Reader) (int64, error) {
	return io.Copy(writerOnly{e}, r) //nolint:wrapcheck
}

type writerOnly struct{ io.Writer }

// SetLogger sets the terminal's logger.
func (e *Emulator) SetLogger(l Logger) {
	e.logger = l
}

// Width returns the number of columns.
func (e *Emulator) Width() int { return e.width }

// Height returns the number of visible rows.
func (e *Emulator) Height() int { return e.height }

// Scrollback returns the terminal's scrollback buffer.
func (e *Emulator) Scrollback() *Scrollback { return e.sb }

// CursorPosition returns the cursor position on the visible screen.
func (e *Emulator) CursorPosition() grid.Pos {
	return grid.Pos{X: min(e.x, e.width-1), Y: e.y}
}

// Write writes data to the terminal output buffer.
func (e *Emulator) Write(p []byte) (n int, err error) {
	if e.closed {
		return 0, io.ErrClosedPipe
	}
	for i := range p {
		e.parser.Advance(p[i])
	}
	return len(p), nil
}

// WriteString feeds s to the parser.
func (e *Emulator) WriteString(s string) (n int, err error) {
	return e.Write([]byte(s))
}

// Close closes the terminal.
func (e *Emulator) Close() error {
	e.closed = true
	return nil
}

// Snapshot copies history and screen into a grid.Buffer.
func (e *Emulator) Snapshot() *grid.Buffer {
	history := e.sb.Lines()
	lines := make([]grid.Line, 0, len(history)+len(e.rows))
	for _, l := range history {
		lines = append(lines, copyLine(l))
	}
	for _, l := range e.rows {
		lines = append(lines, copyLine(l))
	}
	b := grid.NewBuffer(e.width, e.height, lines)
	b.Cursor = e.CursorPosition()
	return b
}

func copyLine(l grid.Line) grid.Line {
	cells := make([]uv.Cell, len(l.Cells))
	copy(cells, l.Cells)
	return grid.Line{Cells: cells, Flags: l.Flags}
}

// Resize changes the screen size. Rows pushed off the top by a smaller
// height go to the scrollback. Content is not reflowed.
func (e *Emulator) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	for len(e.rows) > height {
		if e.y == 0 {
			e.rows = e.rows[:len(e.rows)-1]
			continue
		}
		e.sb.PushLine(e.rows[0])
		e.rows = e.rows[1:]
		e.y--
	}
	for len(e.rows) < height {
		e.rows = append(e.rows, grid.Line{})
	}
	if width < e.width {
		for i := range e.rows {
			if len(e.rows[i].Cells) > width {
				e.rows[i].Cells = e.rows[i].Cells[:width]
			}
		}
	}
	e.width, e.height = width, height
	e.x = min(e.x, width-1)
	e.y = min(e.y, height-1)
}

func (e *Emulator) handlePrint(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		e.appendCombining(r)
		return
	}
	if e.x+w > e.width {
		if w > e.width {
			return
		}
		e.rows[e.y].Flags |= grid.LineWrapped
		e.index()
		e.x = 0
	}

	e.setCell(e.x, uv.Cell{Content: string(r), Width: w, Style: e.pen})
	for i := 1; i < w; i++ {
		e.setCell(e.x+i, uv.Cell{})
	}
	e.x += w
}

func (e *Emulator) appendCombining(r rune) {
	row := &e.rows[e.y]
	x := min(e.x, len(row.Cells)) - 1
	for x >= 0 && grid.IsPadding(row.Cells[x]) {
		x--
	}
	if x >= 0 {
		row.Cells[x].Content += string(r)
	}
}

func (e *Emulator) setCell(x int, c uv.Cell) {
	row := &e.rows[e.y]
	for len(row.Cells) <= x {
		row.Cells = append(row.Cells, uv.EmptyCell)
	}
	row.Cells[x] = c
}

func (e *Emulator) handleControl(b byte) {
	switch b {
	case ansi.CR:
		e.x = 0
	case ansi.LF, ansi.VT, ansi.FF:
		e.index()
	case ansi.BS:
		if e.x > 0 {
			e.x = min(e.x, e.width) - 1
		}
	case ansi.HT:
		e.x = min((e.x/tabWidth+1)*tabWidth, e.width-1)
	case ansi.BEL:
	default:
		e.logf("unhandled control: %#x", b)
	}
}

// index moves the cursor down one row, scrolling the top row into the
// scrollback at the bottom margin.
func (e *Emulator) index() {
	if e.y < e.height-1 {
		e.y++
		return
	}
	e.scrollUp(1)
}

func (e *Emulator) scrollUp(n int) {
	for range min(n, e.height) {
		e.sb.PushLine(e.rows[0])
		copy(e.rows, e.rows[1:])
		e.rows[e.height-1] = grid.Line{}
	}
}

func (e *Emulator) moveTo(x, y int) {
	e.x = max(0, min(x, e.width-1))
	e.y = max(0, min(y, e.height-1))
}

func (e *Emulator) handleCsi(cmd ansi.Cmd, params ansi.Params) {
	if cmd.Prefix() != 0 || cmd.Intermediate() != 0 {
		return
	}
	n, _, _ := params.Param(0, 1)
	n = max(n, 1)
	switch cmd.Final() {
	case 'm':
		e.handleSgr(params)
	case 'A':
		e.moveTo(e.x, e.y-n)
	case 'B', 'e':
		e.moveTo(e.x, e.y+n)
	case 'C', 'a':
		e.moveTo(e.x+n, e.y)
	case 'D':
		e.moveTo(min(e.x, e.width-1)-n, e.y)
	case 'E':
		e.moveTo(0, e.y+n)
	case 'F':
		e.moveTo(0, e.y-n)
	case 'G', '`':
		e.moveTo(n-1, e.y)
	case 'd':
		e.moveTo(e.x, n-1)
	case 'H', 'f':
		col, _, _ := params.Param(1, 1)
		e.moveTo(max(col, 1)-1, n-1)
	case 'K':
		mode, _, _ := params.Param(0, 0)
		e.eraseLine(mode)
	case 'J':
		mode, _, _ := params.Param(0, 0)
		e.eraseDisplay(mode)
	case 'S':
		e.scrollUp(n)
	case 'X':
		x := min(e.x, e.width-1)
		for i := x; i < min(x+n, e.width); i++ {
			e.setCell(i, e.blank())
		}
	default:
		e.logf("unhandled CSI: %q", cmd.Final())
	}
}

func (e *Emulator) blank() uv.Cell {
	c := uv.EmptyCell
	c.Style.Bg = e.pen.Bg
	return c
}

func (e *Emulator) eraseLine(mode int) {
	row := &e.rows[e.y]
	x := min(e.x, e.width-1)
	switch mode {
	case 0:
		if x < len(row.Cells) {
			row.Cells = row.Cells[:x]
		}
		row.Flags &^= grid.LineWrapped
	case 1:
		for i := 0; i <= x; i++ {
			e.setCell(i, e.blank())
		}
	case 2:
		row.Cells = nil
		row.Flags &^= grid.LineWrapped
	}
}

func (e *Emulator) eraseDisplay(mode int) {
	switch mode {
	case 0:
		e.eraseLine(0)
		for y := e.y + 1; y < e.height; y++ {
			e.rows[y] = grid.Line{}
		}
	case 1:
		for y := 0; y < e.y; y++ {
			e.rows[y] = grid.Line{}
		}
		e.eraseLine(1)
	case 2:
		for y := range e.rows {
			e.rows[y] = grid.Line{}
		}
	case 3:
		e.sb.Clear()
	}
}

func (e *Emulator) handleEsc(cmd ansi.Cmd) {
	switch cmd.Final() {
	case '7':
		e.savedX, e.savedY = e.x, e.y
	case '8':
		e.moveTo(e.savedX, e.savedY)
	case 'D':
		e.index()
	case 'E':
		e.x = 0
		e.index()
	case 'M':
		if e.y > 0 {
			e.y--
		}
	case 'c':
		for y := range e.rows {
			e.rows[y] = grid.Line{}
		}
		e.pen = uv.Style{}
		e.x, e.y = 0, 0
	}
}

// handleOsc records shell integration marks (OSC 133) as row flags.
func (e *Emulator) handleOsc(cmd int, data []byte) {
	if cmd != 133 {
		return
	}
	arg := data
	if prefix, rest, ok := bytes.Cut(data, []byte{';'}); ok && string(prefix) == "133" {
		arg = rest
	}
	if len(arg) == 0 {
		return
	}
	switch arg[0] {
	case 'A':
		e.rows[e.y].Flags |= grid.LineStartPrompt
	case 'C':
		e.rows[e.y].Flags |= grid.LineStartOutput
	}
}

func (e *Emulator) logf(format string, v ...any) {
	if e.logger != nil {
		e.logger.Printf(format, v...)
	}
}
