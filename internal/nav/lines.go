package nav

import "github.com/Gaurav-Gosain/copyscope/internal/grid"

// PreviousParagraph returns the row above y that ends the previous block of
// non-empty rows, or 0.
func PreviousParagraph(g grid.Grid, y int) int {
	for y > 0 && grid.LineLength(g, y) == 0 {
		y--
	}
	for y > 0 && grid.LineLength(g, y) > 0 {
		y--
	}
	return y
}

// NextParagraph returns the first empty row below the next block of
// non-empty rows, or the last row.
func NextParagraph(g grid.Grid, y int) int {
	maxy := grid.Rows(g) - 1
	for y < maxy && grid.LineLength(g, y) == 0 {
		y++
	}
	for y < maxy && grid.LineLength(g, y) > 0 {
		y++
	}
	return y
}

// FindFlagged walks from row y in direction dir (+1 or -1) and returns the
// first later row carrying flag. The starting row itself is never returned.
func FindFlagged(g grid.Grid, y, dir int, flag grid.LineFlags) (int, bool) {
	end := 0
	if dir > 0 {
		end = grid.Rows(g) - 1
	}
	for y != end {
		y += dir
		if g.Flags(y)&flag != 0 {
			return y, true
		}
	}
	return y, false
}
