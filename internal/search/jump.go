package search

import "github.com/Gaurav-Gosain/copyscope/internal/grid"

// Direction is the way a search moves through the grid.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// Jump searches from (fx, fy) towards endline and returns the start of the
// nearest match. Forward searches begin at fx on row fy; backward searches
// consider matches starting at or before fx. With wrap, a failed search
// continues once from the far end of the grid back to fy.
func (p *Pattern) Jump(g grid.Grid, b *Buffers, fx, fy, endline int, wrap bool, dir Direction) (px, py int, ok bool) {
	if b == nil {
		b = new(Buffers)
	}
	sx := g.Width()

	var i int
	found := false
	if dir == Down {
		for i = fy; i <= endline; i++ {
			px, _, found = p.Forward(g, b, i, fx, sx)
			if found {
				break
			}
			fx = 0
		}
	} else {
		for i = fy + 1; endline < i; i-- {
			var width int
			px, width, found = p.Backward(g, b, i-1, 0, fx+1)
			if found && p.Regex {
				px, i = p.backOverlap(g, b, px, width, i, endline)
			}
			if found {
				i--
				break
			}
			fx = sx - 1
		}
	}
	if found {
		return px, i, true
	}

	if wrap {
		if dir == Down {
			return p.Jump(g, b, 0, 0, fy, false, dir)
		}
		return p.Jump(g, b, sx-1, grid.Rows(g)-1, fy, false, dir)
	}
	return 0, 0, false
}

// backOverlap extends a backward regular expression match that starts at
// column 0 up into the rows that wrap onto it, as long as an earlier match
// there ends at the same cell. i is one past the matched row.
func (p *Pattern) backOverlap(g grid.Grid, b *Buffers, px, width, i, endline int) (int, int) {
	sx := g.Width()
	norm := func(x, y int) (int, int) {
		for x > sx-1 {
			x -= sx
			y++
		}
		return x, y
	}

	oldendx, oldendy := norm(px+width, i-1)
	endx, endy := oldendx, oldendy
	cx, cy := px, i
	found := true
	for found && cx == 0 && cy-1 > endline && grid.Wrapped(g, cy-2) &&
		endx == oldendx && endy == oldendy {
		cy--
		var w int
		cx, w, found = p.Backward(g, b, cy-1, 0, sx)
		if found {
			endx, endy = norm(cx+w, cy-1)
			if endx == oldendx && endy == oldendy {
				px, i = cx, cy
			}
		}
	}
	return px, i
}
