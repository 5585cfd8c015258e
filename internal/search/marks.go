package search

import (
	"time"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
)

const (
	// Timeout abandons mark building entirely.
	Timeout = 10 * time.Second
	// AllTimeout limits how long the whole history is scanned before
	// falling back to the visible rows.
	AllTimeout = 200 * time.Millisecond
)

// Marks records which visible cells belong to a match. Each match gets a
// generation number from 1 to 255 so adjacent matches can be told apart;
// unmarked cells hold 0.
type Marks struct {
	Width, Height int
	// Top is the absolute row shown at the top of the viewport when the
	// marks were built.
	Top  int
	Data []uint8

	// Count is the number of matches found, or -1 when unknown. More means
	// the count is a lower bound.
	Count int
	More  bool
}

// At returns the index of absolute cell (px, py) in Data. A cursor parked
// past the right margin has no cell.
func (m *Marks) At(px, py int) (int, bool) {
	if px < 0 || px >= m.Width || py < m.Top || py > m.Top+m.Height-1 {
		return 0, false
	}
	return (py-m.Top)*m.Width + px, true
}

// StartEnd expands index at to the run of cells sharing its generation.
func (m *Marks) StartEnd(at int) (start, end int) {
	mark := m.Data[at]
	start, end = at, at
	for start > 0 && m.Data[start-1] == mark {
		start--
	}
	for end < len(m.Data)-1 && m.Data[end+1] == mark {
		end++
	}
	return start, end
}

// MarkOptions controls BuildMarks.
type MarkOptions struct {
	// Top is the absolute row at the top of the viewport.
	Top int
	// VisibleOnly restricts the scan to the rows on screen.
	VisibleOnly bool
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// Buffers is reused across rows when set.
	Buffers *Buffers
}

// MarkResult is the outcome of BuildMarks.
type MarkResult struct {
	// Marks is nil when the scan timed out.
	Marks    *Marks
	TimedOut bool
	// Counted is set when Count and More describe the whole history.
	Counted bool
}

// VisibleLines returns the absolute rows [start, end) that can contain
// visible matches: the screen from top plus the rows wrapping onto it.
func VisibleLines(g grid.Grid, top int) (start, end int) {
	start = top
	for start > 0 && grid.Wrapped(g, start-1) {
		start--
	}
	return start, top + g.Height()
}

// BuildMarks finds every match of p and marks the ones on screen. Without
// VisibleOnly the whole history is counted; if that takes longer than
// AllTimeout, only the visible rows are marked and the count becomes a lower
// bound.
func BuildMarks(g grid.Grid, p *Pattern, opts MarkOptions) MarkResult {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	b := opts.Buffers
	if b == nil {
		b = new(Buffers)
	}
	sx, sy := g.Width(), g.Height()

	var (
		start, end int
		stop       time.Time
		fellBack   bool
		nfound     int
		m          *Marks
	)
	tstart := now()
	if opts.VisibleOnly {
		start, end = VisibleLines(g, opts.Top)
	} else {
		start, end = 0, grid.Rows(g)
		stop = now().Add(AllTimeout)
	}

	for {
		m = &Marks{Width: sx, Height: sy, Top: opts.Top, Data: make([]uint8, sx*sy), Count: -1}
		gen := uint8(1)
		stopped := false

		for py := start; py < end; py++ {
			px := 0
			for {
				x, width, ok := p.Forward(g, b, py, px, sx)
				if !ok {
					break
				}
				px = x
				width = max(width, 1)
				nfound++

				if at, ok := m.At(px, py); ok {
					if at+width > sx*sy {
						width = sx*sy - at
					}
					for i := at; i < at+width; i++ {
						if m.Data[i] == 0 {
							m.Data[i] = gen
						}
					}
					if gen == 255 {
						gen = 1
					} else {
						gen++
					}
				}
				px += width
			}

			t := now()
			if t.Sub(tstart) > Timeout {
				return MarkResult{TimedOut: true}
			}
			if !stop.IsZero() && t.After(stop) {
				stopped = true
				break
			}
		}

		if !stopped {
			break
		}
		// Too slow to scan everything: mark what is on screen instead.
		fellBack = true
		start, end = VisibleLines(g, opts.Top)
		stop = time.Time{}
	}

	res := MarkResult{Marks: m}
	if !opts.VisibleOnly {
		res.Counted = true
		if fellBack {
			m.Count, m.More = bucket(nfound), true
		} else {
			m.Count = nfound
		}
	}
	return res
}

func bucket(n int) int {
	switch {
	case n > 1000:
		return 1000
	case n > 100:
		return 100
	case n > 10:
		return 10
	}
	return -1
}
