package search

import (
	"regexp"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
)

// MaxLine caps how many cells of a wrapped line are joined for a regular
// expression match.
const MaxLine = 2000

// Buffers holds the scratch space used to flatten rows into strings. A
// caller running many searches keeps one Buffers and passes it to each call;
// a nil *Buffers allocates per call.
type Buffers struct {
	text []byte
	// offs[i] is the byte offset in text where cell i starts.
	offs []int
	pad  []bool
}

// flatten joins row py from column first to the right margin, followed by
// every row it wraps onto, until MaxLine cells have been collected. Padding
// cells contribute no bytes.
func (b *Buffers) flatten(g grid.Grid, py, first int) int {
	b.text = b.text[:0]
	b.offs = b.offs[:0]
	b.pad = b.pad[:0]

	sx := g.Width()
	endline := grid.Rows(g) - 1
	b.appendRow(g, py, first, sx)
	n := sx - first
	for y := py; y <= endline && n < MaxLine; y++ {
		if !grid.Wrapped(g, y) || y == endline {
			break
		}
		b.appendRow(g, y+1, 0, sx)
		n += sx
	}
	return len(b.offs)
}

func (b *Buffers) appendRow(g grid.Grid, py, first, last int) {
	for px := first; px < last; px++ {
		c := g.Cell(px, py)
		b.offs = append(b.offs, len(b.text))
		b.pad = append(b.pad, grid.IsPadding(c))
		b.text = append(b.text, grid.Text(c)...)
	}
}

// startCell maps a byte offset at the start of a match to the cell it
// begins in: the first non-padding cell starting exactly there, else the
// first cell at or past it.
func (b *Buffers) startCell(off int) int {
	fallback := len(b.offs)
	for i, o := range b.offs {
		if o == off && !b.pad[i] {
			return i
		}
		if o >= off && fallback == len(b.offs) {
			fallback = i
		}
	}
	return fallback
}

// endCell maps a byte offset just past a match to the first non-padding cell
// at or past it, or one past the last cell.
func (b *Buffers) endCell(off int) int {
	for i, o := range b.offs {
		if o >= off && !b.pad[i] {
			return i
		}
	}
	return len(b.offs)
}

func (p *Pattern) regexFor(notBOL bool) *regexp.Regexp {
	if notBOL {
		return p.reNotBOL
	}
	return p.re
}

func (p *Pattern) forwardRegex(g grid.Grid, b *Buffers, py, first, last int) (int, int, bool) {
	if first >= last {
		return 0, 0, false
	}
	if b == nil {
		b = new(Buffers)
	}
	b.flatten(g, py, first)

	loc := p.regexFor(first != 0).FindIndex(b.text)
	if loc == nil || loc[0] == loc[1] {
		return 0, 0, false
	}
	start := first + b.startCell(loc[0])
	if start >= last {
		return 0, 0, false
	}
	end := first + b.endCell(loc[1])
	return start, end - start, true
}

// backwardRegex returns the last match that starts before last. A match
// that starts before last but reaches past it is returned straight away.
func (p *Pattern) backwardRegex(g grid.Grid, b *Buffers, py, first, last int) (int, int, bool) {
	if b == nil {
		b = new(Buffers)
	}
	b.flatten(g, py, first)

	var (
		off            int
		savepx, savesx int
		haveSaved      bool
	)
	for off <= len(b.text) {
		loc := p.regexFor(first != 0 || off != 0).FindIndex(b.text[off:])
		if loc == nil || loc[0] == loc[1] {
			break
		}
		start := first + b.startCell(off+loc[0])
		if start >= last {
			break
		}
		end := first + b.endCell(off+loc[1])
		if end >= last {
			return start, end - start, true
		}
		savepx, savesx, haveSaved = start, end-start, true
		off += loc[1]
	}
	if haveSaved && savesx > 0 {
		return savepx, savesx, true
	}
	return 0, 0, false
}
