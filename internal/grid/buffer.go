package grid

import (
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/rivo/uniseg"
)

// Line is one stored row of a Buffer.
type Line struct {
	Cells []uv.Cell
	Flags LineFlags
}

// Buffer is an in-memory Grid. Copy mode works on a Buffer snapshot so the
// source terminal can keep changing underneath it.
type Buffer struct {
	width  int
	height int
	lines  []Line

	// Cursor is the source terminal's cursor, relative to the visible
	// screen.
	Cursor Pos
}

var _ Grid = (*Buffer)(nil)

// NewBuffer returns a Buffer holding lines. If fewer lines than height are
// given, blank rows are added at the bottom so the visible screen is always
// full.
func NewBuffer(width, height int, lines []Line) *Buffer {
	width = max(width, 1)
	height = max(height, 1)
	for len(lines) < height {
		lines = append(lines, Line{})
	}
	return &Buffer{width: width, height: height, lines: lines}
}

// FromText lays text out on a grid of the given size. Each newline starts a
// new row; longer lines wrap onto following rows which are flagged as
// wrapped. The cursor is placed at the start of the row after the text.
func FromText(width, height int, text string) *Buffer {
	width = max(width, 1)
	text = strings.TrimSuffix(text, "\n")

	var lines []Line
	for _, logical := range strings.Split(text, "\n") {
		lines = append(lines, Layout(width, logical)...)
	}
	b := NewBuffer(width, height, lines)
	last := min(len(lines), b.Rows()-1)
	b.Cursor = Pos{X: 0, Y: max(0, last-b.HistorySize())}
	return b
}

// Layout splits one logical line into rows of the given width. Wide
// characters that would straddle the right margin move to the next row.
func Layout(width int, s string) []Line {
	var (
		lines []Line
		cur   Line
		state = -1
	)
	for len(s) > 0 {
		var cluster string
		var w int
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		if cluster == "\t" {
			cluster, w = " ", 1
		}
		if w == 0 {
			if n := len(cur.Cells); n > 0 {
				cur.Cells[n-1].Content += cluster
			}
			continue
		}
		if len(cur.Cells)+w > width {
			cur.Flags |= LineWrapped
			lines = append(lines, cur)
			cur = Line{}
		}
		cur.Cells = append(cur.Cells, uv.Cell{Content: cluster, Width: w})
		for i := 1; i < w; i++ {
			cur.Cells = append(cur.Cells, uv.Cell{})
		}
	}
	return append(lines, cur)
}

// Width implements Grid.
func (b *Buffer) Width() int { return b.width }

// Height implements Grid.
func (b *Buffer) Height() int { return b.height }

// HistorySize implements Grid.
func (b *Buffer) HistorySize() int { return len(b.lines) - b.height }

// Rows returns the number of stored rows.
func (b *Buffer) Rows() int { return len(b.lines) }

// Cell implements Grid.
func (b *Buffer) Cell(x, y int) uv.Cell {
	if y < 0 || y >= len(b.lines) || x < 0 {
		return uv.EmptyCell
	}
	cells := b.lines[y].Cells
	if x >= len(cells) {
		return uv.EmptyCell
	}
	return cells[x]
}

// CellSize implements Grid.
func (b *Buffer) CellSize(y int) int {
	if y < 0 || y >= len(b.lines) {
		return 0
	}
	return len(b.lines[y].Cells)
}

// Flags implements Grid.
func (b *Buffer) Flags(y int) LineFlags {
	if y < 0 || y >= len(b.lines) {
		return 0
	}
	return b.lines[y].Flags
}

// SetFlags replaces the flags of row y.
func (b *Buffer) SetFlags(y int, f LineFlags) {
	if y >= 0 && y < len(b.lines) {
		b.lines[y].Flags = f
	}
}

// String returns the buffer contents with wrapped rows joined.
func (b *Buffer) String() string {
	var sb strings.Builder
	for y := range b.lines {
		n := LineLength(b, y)
		for x := 0; x < n; x++ {
			sb.WriteString(Text(b.Cell(x, y)))
		}
		if !Wrapped(b, y) && y != len(b.lines)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
