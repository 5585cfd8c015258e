package search

import "github.com/Gaurav-Gosain/copyscope/internal/grid"

// Match is one match found by FindAll. Y is absolute and the match may run
// on past the right margin into the rows Y wraps onto.
type Match struct {
	X, Y, Width int
}

// FindAll returns every non-overlapping match in g, top to bottom.
func (p *Pattern) FindAll(g grid.Grid, b *Buffers) []Match {
	if b == nil {
		b = &Buffers{}
	}
	var out []Match
	rows := grid.Rows(g)
	// skip is the number of cells of the previous match that spill onto
	// the next row.
	skip := 0
	for py := range rows {
		first := min(skip, g.Width())
		skip = 0
		for first < g.Width() {
			px, width, ok := p.Forward(g, b, py, first, g.Width())
			if !ok {
				break
			}
			out = append(out, Match{X: px, Y: py, Width: width})
			end := px + max(width, 1)
			if end > g.Width() {
				skip = end - g.Width()
				break
			}
			first = end
		}
	}
	return out
}
