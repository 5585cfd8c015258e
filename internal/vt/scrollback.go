package vt

import (
	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	uv "github.com/charmbracelet/ultraviolet"
)

// Scrollback stores lines that have scrolled off the top of the screen,
// together with their row flags.
// Uses a ring buffer so pushing a line never shifts the stored history.
type Scrollback struct {
	lines []grid.Line
	// maxLines is the maximum number of lines to keep in scrollback
	maxLines int
	// head is the index of the oldest line in the ring buffer
	head int
	// tail is the index where the next line will be inserted
	tail int
	full bool
}

// DefaultScrollbackLines is used when a non-positive limit is requested.
const DefaultScrollbackLines = 10000

// NewScrollback creates a new scrollback buffer with the specified maximum
// number of lines.
func NewScrollback(maxLines int) *Scrollback {
	if maxLines <= 0 {
		maxLines = DefaultScrollbackLines
	}
	return &Scrollback{
		lines:    make([]grid.Line, maxLines),
		maxLines: maxLines,
	}
}

// PushLine adds a line to the scrollback buffer. If the buffer is full the
// oldest line is overwritten.
func (sb *Scrollback) PushLine(line grid.Line) {
	cells := make([]uv.Cell, len(line.Cells))
	copy(cells, line.Cells)

	sb.lines[sb.tail] = grid.Line{Cells: cells, Flags: line.Flags}
	sb.tail = (sb.tail + 1) % sb.maxLines

	if sb.full {
		sb.head = (sb.head + 1) % sb.maxLines
	}
	if sb.tail == sb.head {
		sb.full = true
	}
}

// Len returns the number of lines currently in the scrollback buffer.
func (sb *Scrollback) Len() int {
	if sb.full {
		return sb.maxLines
	}
	if sb.tail >= sb.head {
		return sb.tail - sb.head
	}
	return sb.maxLines - sb.head + sb.tail
}

// Line returns the line at index, where 0 is the oldest line.
// Returns the zero Line if the index is out of bounds.
func (sb *Scrollback) Line(index int) grid.Line {
	if index < 0 || index >= sb.Len() {
		return grid.Line{}
	}
	return sb.lines[(sb.head+index)%sb.maxLines]
}

// Lines returns all lines from oldest to newest. The cells are shared with
// the scrollback and must not be modified.
func (sb *Scrollback) Lines() []grid.Line {
	length := sb.Len()
	if length == 0 {
		return nil
	}
	result := make([]grid.Line, length)
	for i := range length {
		result[i] = sb.lines[(sb.head+i)%sb.maxLines]
	}
	return result
}

// Clear removes all lines from the scrollback buffer.
func (sb *Scrollback) Clear() {
	sb.head = 0
	sb.tail = 0
	sb.full = false
	clear(sb.lines)
}

// MaxLines returns the maximum number of lines this scrollback can hold.
func (sb *Scrollback) MaxLines() int {
	return sb.maxLines
}

// SetMaxLines changes the line limit. When shrinking, the oldest lines are
// discarded.
func (sb *Scrollback) SetMaxLines(maxLines int) {
	if maxLines <= 0 {
		maxLines = DefaultScrollbackLines
	}
	if maxLines == sb.maxLines {
		return
	}

	old := sb.Lines()
	if len(old) > maxLines {
		old = old[len(old)-maxLines:]
	}

	sb.lines = make([]grid.Line, maxLines)
	copy(sb.lines, old)
	sb.maxLines = maxLines
	sb.head = 0
	sb.tail = len(old) % maxLines
	sb.full = len(old) == maxLines
}
