// Package nav moves a cursor over a grid.Grid one cell, word or line at a
// time. It knows nothing about viewports or selections; copy mode wraps each
// movement with the bookkeeping it needs.
package nav

import (
	"strings"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
)

// Whitespace is the set of characters treated as word gaps.
const Whitespace = "\t "

// Reader is a cursor over a grid. CY is an absolute row.
type Reader struct {
	g      grid.Grid
	CX, CY int
}

// NewReader returns a Reader positioned at (x, y).
func NewReader(g grid.Grid, x, y int) *Reader {
	return &Reader{g: g, CX: x, CY: y}
}

// Pos returns the cursor position.
func (r *Reader) Pos() (int, int) {
	return r.CX, r.CY
}

func (r *Reader) lastRow() int {
	return grid.Rows(r.g) - 1
}

func (r *Reader) isPadding(x, y int) bool {
	return grid.IsPadding(r.g.Cell(x, y))
}

// InSet reports whether the cell under the cursor is one of the characters
// in set. Padding cells are never in any set.
func (r *Reader) InSet(set string) bool {
	return InSet(r.g, r.CX, r.CY, set)
}

// InSet reports whether cell (x, y) of g is one of the characters in set.
func InSet(g grid.Grid, x, y int, set string) bool {
	c := g.Cell(x, y)
	if grid.IsPadding(c) {
		return false
	}
	s := grid.Text(c)
	return len(set) > 0 && strings.Contains(set, s)
}

// CursorRight moves one cell right. With wrap, moving past the end of the
// line continues at the start of the next row. With all, the whole width of
// the row is reachable instead of just its content.
func (r *Reader) CursorRight(wrap, all bool) {
	px := grid.LineLength(r.g, r.CY)
	if all {
		px = r.g.Width()
	}

	if wrap && r.CX >= px && r.CY < r.lastRow() {
		r.StartOfLine(false)
		r.CursorDown()
	} else if r.CX < px {
		r.CX++
		for r.CX < px && r.isPadding(r.CX, r.CY) {
			r.CX++
		}
	}
}

// CursorLeft moves one cell left, skipping padding. At column 0 it moves to
// the end of the previous row when wrap is set or that row continues onto
// this one.
func (r *Reader) CursorLeft(wrap bool) {
	for r.CX > 0 && r.isPadding(r.CX, r.CY) {
		r.CX--
	}
	if r.CX == 0 && r.CY > 0 && (wrap || grid.Wrapped(r.g, r.CY-1)) {
		r.CursorUp()
		r.EndOfLine(false, false)
	} else if r.CX > 0 {
		r.CX--
	}
}

// CursorDown moves one row down, keeping off padding cells.
func (r *Reader) CursorDown() {
	if r.CY < r.lastRow() {
		r.CY++
	}
	for r.CX > 0 && r.isPadding(r.CX, r.CY) {
		r.CX--
	}
}

// CursorUp moves one row up, keeping off padding cells.
func (r *Reader) CursorUp() {
	if r.CY > 0 {
		r.CY--
	}
	for r.CX > 0 && r.isPadding(r.CX, r.CY) {
		r.CX--
	}
}

// StartOfLine moves to column 0. With wrap, it first climbs to the first row
// of the wrapped line.
func (r *Reader) StartOfLine(wrap bool) {
	if wrap {
		for r.CY > 0 && grid.Wrapped(r.g, r.CY-1) {
			r.CY--
		}
	}
	r.CX = 0
}

// EndOfLine moves past the last cell of the line. With wrap, it first
// descends to the last row of the wrapped line. With all, it moves to the
// grid width instead of the content length.
func (r *Reader) EndOfLine(wrap, all bool) {
	if wrap {
		for r.CY < r.lastRow() && grid.Wrapped(r.g, r.CY) {
			r.CY++
		}
	}
	if all {
		r.CX = r.g.Width()
	} else {
		r.CX = grid.LineLength(r.g, r.CY)
	}
}

// HandleWrap moves to the next row when the cursor is past *xx, following
// wrapped rows. It returns false when the cursor is on row yy and cannot go
// further.
func (r *Reader) HandleWrap(xx *int, yy int) bool {
	for r.CX > *xx {
		if r.CY == yy {
			return false
		}
		r.StartOfLine(false)
		r.CursorDown()
		if grid.Wrapped(r.g, r.CY) {
			*xx = r.g.Width() - 1
		} else {
			*xx = grid.LineLength(r.g, r.CY)
		}
	}
	return true
}

func (r *Reader) wrapLimit() int {
	if grid.Wrapped(r.g, r.CY) {
		return r.g.Width() - 1
	}
	return grid.LineLength(r.g, r.CY)
}

// NextWord moves to the start of the next word.
func (r *Reader) NextWord(separators string) {
	xx := r.wrapLimit()
	yy := r.lastRow()

	if !r.HandleWrap(&xx, yy) {
		return
	}
	if !r.InSet(Whitespace) {
		if r.InSet(separators) {
			for {
				r.CX++
				if !r.HandleWrap(&xx, yy) || !r.InSet(separators) || r.InSet(Whitespace) {
					break
				}
			}
		} else {
			for {
				r.CX++
				if !r.HandleWrap(&xx, yy) || r.InSet(separators) || r.InSet(Whitespace) {
					break
				}
			}
		}
	}
	for r.HandleWrap(&xx, yy) && r.InSet(Whitespace) {
		r.CX++
	}
}

// NextWordEnd moves just past the end of the current or next word.
func (r *Reader) NextWordEnd(separators string) {
	xx := r.wrapLimit()
	yy := r.lastRow()

	for r.HandleWrap(&xx, yy) {
		if r.InSet(Whitespace) {
			r.CX++
		} else if r.InSet(separators) {
			for {
				r.CX++
				if !r.HandleWrap(&xx, yy) || !r.InSet(separators) || r.InSet(Whitespace) {
					break
				}
			}
			return
		} else {
			for {
				r.CX++
				if !r.HandleWrap(&xx, yy) || r.InSet(Whitespace) || r.InSet(separators) {
					break
				}
			}
			return
		}
	}
}

// PreviousWord moves to the start of the previous word. With already, the
// cursor is assumed to be inside a word already and the search starts one
// cell left. With stopAtEOL, a line ending in whitespace stops the scan at
// the end of that line.
func (r *Reader) PreviousWord(separators string, already, stopAtEOL bool) {
	wordIsLetters := false

	if already || r.InSet(Whitespace) {
		for {
			if r.CX > 0 {
				r.CX--
				if !r.InSet(Whitespace) {
					wordIsLetters = !r.InSet(separators)
					break
				}
			} else {
				if r.CY == 0 {
					return
				}
				r.CursorUp()
				r.EndOfLine(false, false)

				if stopAtEOL && r.CX > 0 {
					oldx := r.CX
					r.CX--
					atEOL := r.InSet(Whitespace)
					r.CX = oldx
					if atEOL {
						wordIsLetters = false
						break
					}
				}
			}
		}
	} else {
		wordIsLetters = !r.InSet(separators)
	}

	var oldx, oldy int
	for {
		oldx, oldy = r.CX, r.CY
		if r.CX == 0 {
			if r.CY == 0 || !grid.Wrapped(r.g, r.CY-1) {
				break
			}
			r.CursorUp()
			r.EndOfLine(false, true)
		}
		if r.CX > 0 {
			r.CX--
		}
		if r.InSet(Whitespace) || wordIsLetters == r.InSet(separators) {
			break
		}
	}
	r.CX, r.CY = oldx, oldy
}

func (r *Reader) cellIs(x, y int, s string) bool {
	c := r.g.Cell(x, y)
	return !grid.IsPadding(c) && grid.Text(c) == s
}

// Jump moves forward to the next cell holding s, starting at the cursor and
// following wrapped rows. It reports whether a cell was found.
func (r *Reader) Jump(s string) bool {
	px, py := r.CX, r.CY
	for {
		xx := grid.LineLength(r.g, py)
		for ; px < xx; px++ {
			if r.cellIs(px, py, s) {
				r.CX, r.CY = px, py
				return true
			}
		}
		if py == r.lastRow() || !grid.Wrapped(r.g, py) {
			return false
		}
		px = 0
		py++
	}
}

// JumpBack moves backward to the previous cell holding s, starting at the
// cursor and following wrapped rows.
func (r *Reader) JumpBack(s string) bool {
	xx := r.CX + 1
	py := r.CY + 1
	for py > 0 {
		for px := xx; px > 0; px-- {
			if r.cellIs(px-1, py-1, s) {
				r.CX, r.CY = px-1, py-1
				return true
			}
		}
		if py == 1 || !grid.Wrapped(r.g, py-2) {
			return false
		}
		xx = grid.LineLength(r.g, py-2)
		py--
	}
	return false
}

// BackToIndentation moves to the first non-space cell of the line.
func (r *Reader) BackToIndentation() {
	oldx, oldy := r.CX, r.CY
	r.StartOfLine(true)

	last := r.lastRow()
	for py := r.CY; py <= last; py++ {
		xx := grid.LineLength(r.g, py)
		for px := 0; px < xx; px++ {
			if grid.Text(r.g.Cell(px, py)) != " " {
				r.CX, r.CY = px, py
				return
			}
		}
		if !grid.Wrapped(r.g, py) {
			break
		}
	}
	r.CX, r.CY = oldx, oldy
}
