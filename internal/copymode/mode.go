// Package copymode is the copy mode engine: a cursor that moves over a
// snapshot of a terminal's history and screen, a selection that follows it,
// and searches that highlight and jump between matches.
//
// A Mode never draws anything. After each call, Redraw reports which
// viewport rows have changed and RenderLine produces the cells for a row.
package copymode

import (
	"fmt"
	"strings"
	"time"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	"github.com/Gaurav-Gosain/copyscope/internal/search"
	"github.com/bits-and-blooms/bitset"
)

// Logger represents a logger interface.
type Logger interface {
	Printf(format string, v ...any)
}

// ModeKeys selects the emacs or vi flavour of cursor and selection
// behaviour.
type ModeKeys int

const (
	Emacs ModeKeys = iota
	Vi
)

// ParseModeKeys parses "emacs" or "vi".
func ParseModeKeys(s string) (ModeKeys, error) {
	switch strings.ToLower(s) {
	case "emacs":
		return Emacs, nil
	case "vi":
		return Vi, nil
	}
	return Emacs, fmt.Errorf("unknown mode-keys %q", s)
}

func (k ModeKeys) String() string {
	if k == Vi {
		return "vi"
	}
	return "emacs"
}

// SelFlag is the unit a selection grows by.
type SelFlag int

const (
	SelChar SelFlag = iota
	SelWord
	SelLine
)

// LineSel records which end of a line selection is first.
type LineSel int

const (
	LineSelNone LineSel = iota
	LineSelLeftRight
	LineSelRightLeft
)

// CursorDrag says which selection anchor follows the cursor.
type CursorDrag int

const (
	CursorDragNone CursorDrag = iota
	CursorDragSel
	CursorDragEndSel
)

type searchType int

const (
	searchOff searchType = iota
	searchUp
	searchDown
)

type jumpType int

const (
	jumpNone jumpType = iota
	jumpForward
	jumpBackward
	jumpToForward
	jumpToBackward
)

// DefaultWordSeparators is the default word-separators option.
const DefaultWordSeparators = "!\"#$%&'()*+,-./:;<=>?@[\\]^`{|}~"

// LastSearch is the most recent search, shared between Modes on the same
// source so that a new Mode can repeat it.
type LastSearch struct {
	Str   string
	Regex bool
	Set   bool
}

// BufferStore receives copied text.
type BufferStore interface {
	// Add stores data in a new automatically named buffer.
	Add(prefix, data string)
	// Top returns the most recent automatic buffer.
	Top() (name, data string, ok bool)
	// Set replaces the buffer called name.
	Set(name, data string) error
}

// Options configure a Mode.
type Options struct {
	ModeKeys       ModeKeys
	WordSeparators string
	WrapSearch     bool
	// ScrollExit makes scrolling to the bottom cancel copy mode.
	ScrollExit   bool
	HidePosition bool

	// CopyCommand is the pipe command used when a copy-pipe verb names
	// none.
	CopyCommand string
	// Clipboard is called with copied text, if set.
	Clipboard func(string)
	// Pipe runs cmd with data on its standard input.
	Pipe    func(cmd, data string) error
	Buffers BufferStore

	LastSearch *LastSearch

	// Source returns a fresh grid for refresh-from-pane. View modes have
	// no source and ignore it.
	Source func() grid.Grid
	View   bool

	Logger Logger
	Now    func() time.Time
}

// Mode is one copy mode session.
type Mode struct {
	g    grid.Grid
	opts Options

	// Cursor column and viewport row, and how far the viewport is
	// scrolled up from the bottom of history.
	cx, cy, oy int

	// Column to return to after passing over shorter lines.
	lastcx, lastsx int

	// Selection anchors, absolute.
	selx, sely, endselx, endsely int
	// Word or line bounds the selection started from.
	selrx, selry, endselrx, endselry int
	// Where a word or line selection was started.
	dx, dy int

	selflag    SelFlag
	lineflag   LineSel
	rectflag   bool
	cursordrag CursorDrag
	separators string

	sel *Selection

	mx, my   int
	showmark bool

	searchtype      searchType
	searchdirection search.Direction
	searchregex     bool
	searchstr       string
	searchall       bool
	searchx         int
	searchy         int
	searcho         int

	marks       *search.Marks
	searchcount int
	searchmore  bool
	timeout     bool
	bufs        search.Buffers

	jumptype jumpType
	jumpchar string

	hidePosition bool
	prefix       int

	dragging bool

	dirty *bitset.BitSet
}

// New enters copy mode on g with the cursor at the given position
// relative to the visible screen.
func New(g grid.Grid, cursor grid.Pos, opts Options) *Mode {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Pipe == nil {
		opts.Pipe = func(string, string) error { return nil }
	}
	m := &Mode{
		opts:         opts,
		hidePosition: opts.HidePosition,
		prefix:       1,
	}
	m.setGrid(g)

	hsize := g.HistorySize()
	m.cx = max(0, min(cursor.X, g.Width()))
	cy := hsize + max(0, min(cursor.Y, g.Height()-1))
	if cy < hsize {
		m.cy, m.oy = 0, hsize-cy
	} else {
		m.cy, m.oy = cy-hsize, 0
	}
	m.mx, m.my = m.cx, m.absY()

	m.searchx, m.searchy, m.searcho = -1, -1, -1
	m.searchall = true
	m.searchcount = -1
	if ls := opts.LastSearch; ls != nil && ls.Set {
		m.searchtype = searchUp
		m.searchregex = ls.Regex
		m.searchstr = ls.Str
	}
	m.redrawScreen()
	return m
}

func (m *Mode) setGrid(g grid.Grid) {
	m.g = g
	m.dirty = bitset.New(uint(g.Height()))
}

// Grid returns the grid being viewed.
func (m *Mode) Grid() grid.Grid { return m.g }

// Keys returns the mode-keys flavour.
func (m *Mode) Keys() ModeKeys { return m.opts.ModeKeys }

// Cursor returns the cursor column and viewport row.
func (m *Mode) Cursor() (x, y int) { return m.cx, m.cy }

// AbsCursor returns the cursor position with an absolute row.
func (m *Mode) AbsCursor() grid.Pos { return grid.Pos{X: m.cx, Y: m.absY()} }

// Offset is the number of rows the viewport is scrolled up.
func (m *Mode) Offset() int { return m.oy }

// Top is the absolute row shown on the first viewport row.
func (m *Mode) Top() int { return m.g.HistorySize() - m.oy }

// Selection returns the visible selection, or nil.
func (m *Mode) Selection() *Selection { return m.sel }

// Anchors returns the absolute selection anchors.
func (m *Mode) Anchors() (start, end grid.Pos) {
	return grid.Pos{X: m.selx, Y: m.sely}, grid.Pos{X: m.endselx, Y: m.endsely}
}

// Flags returns the selection state.
func (m *Mode) Flags() (SelFlag, LineSel, CursorDrag, bool) {
	return m.selflag, m.lineflag, m.cursordrag, m.rectflag
}

// Marks returns the search marks, or nil.
func (m *Mode) Marks() *search.Marks { return m.marks }

// SearchCount returns the number of matches and whether more may exist.
// The count is -1 when unknown.
func (m *Mode) SearchCount() (int, bool) { return m.searchcount, m.searchmore }

// SearchString returns the active search text.
func (m *Mode) SearchString() string { return m.searchstr }

// TimedOut reports whether the last mark pass gave up.
func (m *Mode) TimedOut() bool { return m.timeout }

// Mark returns the mark position and whether it is shown.
func (m *Mode) Mark() (grid.Pos, bool) {
	return grid.Pos{X: m.mx, Y: m.my}, m.showmark
}

// Dragging reports whether a mouse drag is in progress.
func (m *Mode) Dragging() bool { return m.dragging }

// SetPrefix sets the repeat count for the next command.
func (m *Mode) SetPrefix(n int) {
	m.prefix = max(n, 1)
}

// Redraw returns the span of viewport rows changed since ClearRedraw.
func (m *Mode) Redraw() (start, n int) {
	first, ok := m.dirty.NextSet(0)
	if !ok {
		return 0, 0
	}
	last := first
	for i, ok := first, true; ok; i, ok = m.dirty.NextSet(i + 1) {
		last = i
	}
	return int(first), int(last-first) + 1
}

// ClearRedraw forgets the changed rows.
func (m *Mode) ClearRedraw() {
	m.dirty.ClearAll()
}

func (m *Mode) absY() int {
	return m.g.HistorySize() + m.cy - m.oy
}

func (m *Mode) lineLength(y int) int {
	return grid.LineLength(m.g, y)
}

func (m *Mode) logf(format string, v ...any) {
	if m.opts.Logger != nil {
		m.opts.Logger.Printf(format, v...)
	}
}

func (m *Mode) updateCursor(cx, cy int) {
	sx := m.g.Width()
	if m.cx == sx {
		m.redrawLines(m.cy, 1)
	}
	m.cx, m.cy = cx, cy
	if m.cx == sx {
		m.redrawLines(m.cy, 1)
	}
}

// redrawLines marks ny rows from py as changed. A negative ny means every
// row from py down.
func (m *Mode) redrawLines(py, ny int) {
	sy := m.g.Height()
	end := py + ny
	if ny < 0 {
		end = sy
	}
	for y := max(py, 0); y < min(end, sy); y++ {
		m.dirty.Set(uint(y))
	}
}

func (m *Mode) redrawScreen() {
	m.redrawLines(0, m.g.Height())
}
