package copymode

import (
	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	"github.com/Gaurav-Gosain/copyscope/internal/search"
)

func (m *Mode) lastSearch() *LastSearch {
	if m.opts.LastSearch == nil {
		m.opts.LastSearch = &LastSearch{}
	}
	return m.opts.LastSearch
}

func (m *Mode) compile(regex bool) (*search.Pattern, error) {
	if regex && search.IsPlain(m.searchstr) {
		regex = false
	}
	return search.Compile(m.searchstr, regex)
}

func (m *Mode) searchUp(regex bool) bool   { return m.search(search.Up, regex) }
func (m *Mode) searchDown(regex bool) bool { return m.search(search.Down, regex) }

// search jumps to the next match of the search string in direction dir
// and marks every visible match.
func (m *Mode) search(dir search.Direction, regex bool) bool {
	if regex && search.IsPlain(m.searchstr) {
		regex = false
	}
	m.searchdirection = dir
	if m.timeout {
		return false
	}

	p, err := search.Compile(m.searchstr, regex)
	if err != nil {
		m.logf("search %q: %v", m.searchstr, err)
		return false
	}

	// Repeating the last search only needs the visible rows re-marked.
	ls := m.lastSearch()
	visibleOnly := false
	if m.searchall || !ls.Set || ls.Regex != regex {
		m.searchall = false
	} else {
		visibleOnly = ls.Str == m.searchstr
	}
	if !visibleOnly && m.marks != nil {
		m.clearMarks()
	}
	ls.Str, ls.Regex, ls.Set = m.searchstr, regex, true

	wrap := m.opts.WrapSearch
	fx, fy := m.cx, m.absY()
	var endline int
	if dir == search.Down {
		// Vi leaves the cursor on the match, so start past it.
		if m.opts.ModeKeys == Vi {
			if m.marks != nil {
				fx, fy = m.moveAfterSearchMark(fx, fy, wrap)
			} else {
				fx, fy = m.moveRight(fx, fy, wrap)
			}
		}
		endline = grid.Rows(m.g) - 1
	} else {
		fx, fy = m.moveLeft(fx, fy, wrap)
		endline = 0
	}

	found := m.searchJump(p, fx, fy, endline, wrap, dir)
	if found {
		m.searchMarks(p, visibleOnly)
		fx, fy = m.cx, m.absY()

		if dir == search.Down {
			// Landed partway into a match: look for the next one.
			if at, ok := m.markAt(fx, fy); ok && at > 0 && m.marks.Data[at] != 0 &&
				m.marks.Data[at] == m.marks.Data[at-1] {
				fx, fy = m.moveAfterSearchMark(fx, fy, wrap)
				m.searchJump(p, fx, fy, endline, wrap, dir)
				fx, fy = m.cx, m.absY()
			}
			if m.opts.ModeKeys == Emacs {
				fx, fy = m.moveAfterSearchMark(fx, fy, wrap)
				m.setAbsCursor(fx, fy)
			}
		} else if start, ok := m.markAt(fx, fy); ok && m.marks.Data[start] != 0 {
			gen := m.marks.Data[start]
			for {
				at, ok := m.markAt(fx, fy)
				if !ok || m.marks.Data[at] != gen {
					break
				}
				m.cx, m.cy = fx, fy-m.Top()
				if at == 0 {
					break
				}
				fx, fy = m.moveLeft(fx, fy, false)
			}
		}
	}
	m.redrawScreen()
	return found
}

func (m *Mode) searchJump(p *search.Pattern, fx, fy, endline int, wrap bool, dir search.Direction) bool {
	px, py, ok := p.Jump(m.g, &m.bufs, fx, fy, endline, wrap, dir)
	if ok {
		m.scrollTo(px, py, true)
	}
	return ok
}

// setAbsCursor moves the cursor to absolute (px, py), scrolling only if it
// is off screen.
func (m *Mode) setAbsCursor(px, py int) {
	top := m.Top()
	if py >= top && py < top+m.g.Height() {
		m.cx, m.cy = px, py-top
		return
	}
	m.scrollTo(px, py, true)
}

func (m *Mode) markAt(px, py int) (int, bool) {
	if m.marks == nil {
		return 0, false
	}
	at, ok := m.marks.At(px, py)
	if !ok || at < 0 || at >= len(m.marks.Data) {
		return 0, false
	}
	return at, true
}

// moveAfterSearchMark moves from (fx, fy) to the first cell past the match
// it is on.
func (m *Mode) moveAfterSearchMark(fx, fy int, wrap bool) (int, int) {
	start, ok := m.markAt(fx, fy)
	if !ok || m.marks.Data[start] == 0 {
		return fx, fy
	}
	gen := m.marks.Data[start]
	sx, last := m.g.Width(), grid.Rows(m.g)-1

	for range len(m.marks.Data) {
		at, ok := m.markAt(fx, fy)
		if !ok || m.marks.Data[at] != gen {
			break
		}
		if !wrap && fx == sx-1 && fy == last {
			break
		}
		fx, fy = m.moveRight(fx, fy, wrap)
	}
	return fx, fy
}

func (m *Mode) moveLeft(fx, fy int, wrap bool) (int, int) {
	if fx > 0 {
		return fx - 1, fy
	}
	if fy == 0 {
		if wrap {
			return m.g.Width() - 1, grid.Rows(m.g) - 1
		}
		return fx, fy
	}
	return m.g.Width() - 1, fy - 1
}

func (m *Mode) moveRight(fx, fy int, wrap bool) (int, int) {
	if fx < m.g.Width()-1 {
		return fx + 1, fy
	}
	if fy == grid.Rows(m.g)-1 {
		if wrap {
			return 0, 0
		}
		return fx, fy
	}
	return 0, fy + 1
}

// searchMarks rebuilds the marks for p, or for the search string when p
// is nil.
func (m *Mode) searchMarks(p *search.Pattern, visibleOnly bool) bool {
	if p == nil {
		var err error
		if p, err = m.compile(m.searchregex); err != nil {
			return false
		}
	}

	res := search.BuildMarks(m.g, p, search.MarkOptions{
		Top:         m.Top(),
		VisibleOnly: visibleOnly,
		Now:         m.opts.Now,
		Buffers:     &m.bufs,
	})
	if res.TimedOut {
		m.timeout = true
		m.marks = nil
		// Nothing was counted, so the next search scans everything again.
		m.searchall = true
		m.logf("search %q timed out", p.Text)
		return true
	}
	m.marks = res.Marks
	if res.Counted {
		m.searchcount = res.Marks.Count
		m.searchmore = res.Marks.More
	}
	return true
}

func (m *Mode) clearMarks() {
	m.marks = nil
}
