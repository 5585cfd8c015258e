// Package grid describes the read-only view of a terminal's history and
// visible screen that copy mode navigates.
//
// Rows are addressed absolutely: row 0 is the oldest history line and row
// HistorySize()+Height()-1 is the bottom of the visible screen. Columns are
// cells, not bytes; a wide character occupies one cell followed by padding
// cells.
package grid

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// LineFlags are per-row properties reported by the grid.
type LineFlags uint8

const (
	// LineWrapped marks a row whose content continues on the next row.
	LineWrapped LineFlags = 1 << iota
	// LineStartPrompt marks a row where a shell prompt begins.
	LineStartPrompt
	// LineStartOutput marks a row where command output begins.
	LineStartOutput
)

// Grid is the accessor copy mode reads cells through. Implementations must
// tolerate reads beyond a row's stored cells and return a blank cell.
type Grid interface {
	// Width is the number of columns in every row.
	Width() int
	// Height is the number of visible screen rows.
	Height() int
	// HistorySize is the number of rows above the visible screen.
	HistorySize() int
	// Cell returns the cell at column x of absolute row y.
	Cell(x, y int) uv.Cell
	// CellSize is the number of stored cells in row y.
	CellSize(y int) int
	// Flags returns the row flags for absolute row y.
	Flags(y int) LineFlags
}

// Pos is a cell position. Y is absolute unless documented otherwise.
type Pos struct {
	X, Y int
}

// Rows returns the total number of addressable rows in g.
func Rows(g Grid) int {
	return g.HistorySize() + g.Height()
}

// IsPadding reports whether c is the trailing half of a wide character.
func IsPadding(c uv.Cell) bool {
	return c.Width == 0 && c.Content == ""
}

// IsBlank reports whether c is a plain single-column space.
func IsBlank(c uv.Cell) bool {
	return !IsPadding(c) && (c.Content == " " || c.Content == "") && c.Width <= 1
}

// Wrapped reports whether row y continues on row y+1.
func Wrapped(g Grid, y int) bool {
	if y < 0 || y >= Rows(g) {
		return false
	}
	return g.Flags(y)&LineWrapped != 0
}

// LineLength returns the number of columns in row y up to and including the
// last cell that is not a trailing blank. The result never exceeds Width.
func LineLength(g Grid, y int) int {
	if y < 0 || y >= Rows(g) {
		return 0
	}
	px := min(g.CellSize(y), g.Width())
	for px > 0 {
		if !IsBlank(g.Cell(px-1, y)) {
			break
		}
		px--
	}
	return px
}

// Text returns the bytes of cell c as copy mode sees them: nothing for
// padding and a space for an empty cell.
func Text(c uv.Cell) string {
	if IsPadding(c) {
		return ""
	}
	if c.Content == "" {
		return " "
	}
	return c.Content
}
