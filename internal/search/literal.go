package search

import (
	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	uv "github.com/charmbracelet/ultraviolet"
)

// compare reports whether grid cell (px, py) equals query cell q. Single
// byte cells are folded to lower case when cis is set; the query is assumed
// to be lower case already.
func compare(g grid.Grid, px, py int, q uv.Cell, cis bool) bool {
	c := g.Cell(px, py)
	a, b := grid.Text(c), grid.Text(q)
	if len(a) != len(b) || c.Width != q.Width {
		return false
	}
	if cis && len(a) == 1 {
		return toLower(a[0]) == b[0]
	}
	return a == b
}

func toLower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// matchAt reports whether the query matches starting at column ax of row py,
// continuing onto following rows while they are wrapped.
func (p *Pattern) matchAt(g grid.Grid, py, ax int) bool {
	sx := g.Width()
	endline := grid.Rows(g) - 1
	for bx, q := range p.cells {
		px := ax + bx
		pywrap := py
		for px >= sx && pywrap < endline {
			if !grid.Wrapped(g, pywrap) {
				break
			}
			px -= sx
			pywrap++
		}
		if px >= sx {
			return false
		}
		if !compare(g, px, pywrap, q, p.IgnoreCase) {
			return false
		}
	}
	return true
}

func (p *Pattern) forwardLiteral(g grid.Grid, py, first, last int) (int, bool) {
	for ax := first; ax < last; ax++ {
		if p.matchAt(g, py, ax) {
			return ax, true
		}
	}
	return 0, false
}

func (p *Pattern) backwardLiteral(g grid.Grid, py, first, last int) (int, bool) {
	for ax := last; ax > first; ax-- {
		if p.matchAt(g, py, ax-1) {
			return ax - 1, true
		}
	}
	return 0, false
}
