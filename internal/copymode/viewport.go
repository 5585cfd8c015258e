package copymode

import (
	"math"
	"strconv"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
)

// scrollUp moves the viewport ny rows towards the bottom of history.
func (m *Mode) scrollUp(ny int) {
	ny = min(ny, m.oy)
	if ny == 0 {
		return
	}
	m.oy -= ny
	m.refreshMarks()
	m.updateSelection(false, false)
	m.redrawScreen()
}

// scrollDown moves the viewport ny rows into history.
func (m *Mode) scrollDown(ny int) {
	hsize := m.g.HistorySize()
	if ny > hsize {
		return
	}
	if m.oy > hsize-ny {
		ny = hsize - m.oy
	}
	if ny == 0 {
		return
	}
	m.oy += ny
	m.refreshMarks()
	m.updateSelection(false, false)
	m.redrawScreen()
}

// scrollTo puts the cursor on absolute cell (px, py), scrolling so that it
// is a quarter of the screen from the nearest edge if it is not visible.
func (m *Mode) scrollTo(px, py int, noRedraw bool) {
	hsize, sy := m.g.HistorySize(), m.g.Height()

	m.cx = px
	top := hsize - m.oy
	if py >= top && py < top+sy {
		m.cy = py - top
	} else {
		gap := sy / 4
		var offset int
		switch {
		case py < sy:
			offset = 0
			m.cy = py
		case py > hsize+sy-gap:
			offset = hsize
			m.cy = py - hsize
		default:
			offset = py + gap - sy
			m.cy = py - offset
		}
		m.oy = hsize - offset
	}

	if !noRedraw {
		m.refreshMarks()
	}
	m.updateSelection(true, false)
	if !noRedraw {
		m.redrawScreen()
	}
}

// scrollToRow scrolls so the cursor row ends up on viewport row to, as
// far as history allows.
func (m *Mode) scrollToRow(to int) {
	scrollUp := m.cy - to
	delta := abs(scrollUp)
	oyMaxDown := m.g.HistorySize() - m.oy

	if scrollUp > 0 && m.oy >= delta {
		m.scrollUp(delta)
		m.cy -= delta
	} else if scrollUp < 0 && oyMaxDown >= delta {
		m.scrollDown(delta)
		m.cy += delta
	}
	m.updateSelection(false, false)
	m.redrawScreen()
}

func (m *Mode) pageRows(half bool) int {
	sy := m.g.Height()
	switch {
	case sy <= 2:
		return 1
	case half:
		return sy / 2
	}
	return sy - 2
}

func (m *Mode) rememberColumn() {
	ox := m.lineLength(m.absY())
	if m.cx != ox {
		m.lastcx = m.cx
		m.lastsx = ox
	}
	m.cx = m.lastcx
}

// snapToLineEnd moves to the end of the line when the remembered column
// was the end of a line or the line is now too short.
func (m *Mode) snapToLineEnd() {
	if m.sel != nil && m.rectflag {
		return
	}
	px := m.lineLength(m.absY())
	if (m.cx >= m.lastsx && m.cx != px) || m.cx > px {
		m.cursorEndOfLine()
	}
}

func (m *Mode) pageUp1(half bool) {
	hsize := m.g.HistorySize()
	m.rememberColumn()

	n := m.pageRows(half)
	if m.oy+n > hsize {
		m.oy = hsize
		m.cy = max(m.cy-n, 0)
	} else {
		m.oy += n
	}

	m.snapToLineEnd()
	m.refreshMarks()
	m.updateSelection(true, false)
	m.redrawScreen()
}

// pageDown1 reports true when copy mode should exit because the bottom was
// reached.
func (m *Mode) pageDown1(half, scrollExit bool) bool {
	sy := m.g.Height()
	m.rememberColumn()

	n := m.pageRows(half)
	if m.oy < n {
		m.oy = 0
		if m.cy+n >= sy {
			m.cy = sy - 1
		} else {
			m.cy += n
		}
	} else {
		m.oy -= n
	}

	m.snapToLineEnd()
	if scrollExit && m.oy == 0 {
		return true
	}
	m.refreshMarks()
	m.updateSelection(true, false)
	m.redrawScreen()
	return false
}

// AcquireCursorUp moves the cursor to absolute cell (px, py), which is at
// or above the cursor, scrolling as needed.
func (m *Mode) AcquireCursorUp(px, py int) {
	oldy := m.cy
	yy := m.g.HistorySize() - m.oy

	var ny, nd int
	if py < yy {
		ny = yy - py
		m.cy = 0
		nd = 1
	} else {
		ny = 0
		m.cy = py - yy
		nd = oldy - m.cy + 1
	}
	for ; ny > 0; ny-- {
		m.cursorUp(true)
	}
	m.updateCursor(px, m.cy)
	if m.updateSelection(true, false) {
		m.redrawLines(m.cy, nd)
	}
}

// AcquireCursorDown moves the cursor to absolute cell (px, py), which is at
// or below the cursor, scrolling as needed.
func (m *Mode) AcquireCursorDown(px, py int) {
	m.acquireCursorDown(px, py, false)
}

func (m *Mode) acquireCursorDown(px, py int, noReset bool) {
	oldy := m.cy
	yy := m.g.Height() - 1

	var ny, nd int
	cy := py - m.g.HistorySize() + m.oy
	m.cy = cy
	if cy > yy {
		ny = cy - yy
		oldy = yy
		nd = 1
	} else {
		ny = 0
		nd = cy - oldy + 1
	}
	for ; ny > 0; ny-- {
		m.cursorDown(true)
	}
	if cy > yy {
		m.updateCursor(px, yy)
	} else {
		m.updateCursor(px, cy)
	}
	if m.updateSelection(true, noReset) {
		m.redrawLines(oldy, nd)
	}
}

// cursorUp moves up one row, or scrolls with scrollOnly.
func (m *Mode) cursorUp(scrollOnly bool) {
	sx, sy := m.g.Width(), m.g.Height()
	norect := m.sel == nil || !m.rectflag

	oy := m.absY()
	ox := m.lineLength(oy)
	if norect && m.cx != ox {
		m.lastcx = m.cx
		m.lastsx = ox
	}

	if m.lineflag == LineSelLeftRight && oy == m.sely {
		m.otherEnd()
	}

	if scrollOnly || m.cy == 0 {
		if norect {
			m.cx = m.lastcx
		}
		m.scrollDown(1)
		if scrollOnly {
			m.redrawCursorRows(sy)
		}
	} else {
		if norect {
			m.updateCursor(m.lastcx, m.cy-1)
		} else {
			m.updateCursor(m.cx, m.cy-1)
		}
		if m.updateSelection(true, false) {
			m.redrawCursorRows(sy)
		}
	}

	m.fixColumnAfterVertical(norect, sx)
}

func (m *Mode) redrawCursorRows(sy int) {
	if m.cy == sy-1 {
		m.redrawLines(m.cy, 1)
	} else {
		m.redrawLines(m.cy, 2)
	}
}

// cursorDown moves down one row, or scrolls with scrollOnly.
func (m *Mode) cursorDown(scrollOnly bool) {
	sx, sy := m.g.Width(), m.g.Height()
	norect := m.sel == nil || !m.rectflag

	oy := m.absY()
	ox := m.lineLength(oy)
	if norect && m.cx != ox {
		m.lastcx = m.cx
		m.lastsx = ox
	}

	if m.lineflag == LineSelRightLeft && oy == m.endsely {
		m.otherEnd()
	}

	if scrollOnly || m.cy == sy-1 {
		if norect {
			m.cx = m.lastcx
		}
		m.scrollUp(1)
		if scrollOnly && m.cy > 0 {
			m.redrawLines(m.cy-1, 2)
		}
	} else {
		if norect {
			m.updateCursor(m.lastcx, m.cy+1)
		} else {
			m.updateCursor(m.cx, m.cy+1)
		}
		if m.updateSelection(true, false) {
			m.redrawLines(m.cy-1, 2)
		}
	}

	m.fixColumnAfterVertical(norect, sx)
}

func (m *Mode) fixColumnAfterVertical(norect bool, sx int) {
	if norect {
		px := m.lineLength(m.absY())
		if (m.cx >= m.lastsx && m.cx != px) || m.cx > px {
			m.updateCursor(px, m.cy)
			if m.updateSelection(true, false) {
				m.redrawLines(m.cy, 1)
			}
		}
	}

	switch m.lineflag {
	case LineSelLeftRight:
		px := m.lineLength(m.absY())
		if m.rectflag {
			px = sx
		}
		m.updateCursor(px, m.cy)
	case LineSelRightLeft:
		m.updateCursor(0, m.cy)
	default:
		return
	}
	if m.updateSelection(true, false) {
		m.redrawLines(m.cy, 1)
	}
}

// GotoLine scrolls so that the viewport top is n rows into history. Values
// outside the history are clamped to its top.
func (m *Mode) GotoLine(n int) {
	hsize := m.g.HistorySize()
	if n < 0 || n > hsize {
		n = hsize
	}
	m.oy = n
	m.updateSelection(true, false)
	m.redrawScreen()
}

func (m *Mode) gotoLine(arg string) {
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || n < -1 || n > math.MaxInt32 {
		m.logf("goto-line: invalid line %q", arg)
		return
	}
	m.GotoLine(int(n))
}

func (m *Mode) historyTop() {
	if m.lineflag == LineSelLeftRight && m.absY() == m.sely {
		m.otherEnd()
	}
	m.cy, m.cx = 0, 0
	m.oy = m.g.HistorySize()
	m.refreshMarks()
	m.updateSelection(true, false)
	m.redrawScreen()
}

func (m *Mode) historyBottom() {
	if m.lineflag == LineSelRightLeft && m.absY() == m.endsely {
		m.otherEnd()
	}
	m.cy = m.g.Height() - 1
	m.cx = m.lineLength(m.g.HistorySize() + m.cy)
	m.oy = 0
	m.refreshMarks()
	m.updateSelection(true, false)
	m.redrawScreen()
}

// jumpToMark swaps the cursor and the mark.
func (m *Mode) jumpToMark() {
	hsize := m.g.HistorySize()
	tmx, tmy := m.cx, m.absY()

	m.cx = m.mx
	if m.my < hsize {
		m.cy = 0
		m.oy = hsize - m.my
	} else {
		m.cy = m.my - hsize
		m.oy = 0
	}
	m.mx, m.my = tmx, tmy
	m.showmark = true
	m.updateSelection(false, false)
	m.redrawScreen()
}

// moveToRow puts the cursor at the start of absolute row line.
func (m *Mode) moveToRow(line int) {
	hsize := m.g.HistorySize()
	m.cx = 0
	if line > hsize {
		m.cy = line - hsize
		m.oy = 0
	} else {
		m.cy = 0
		m.oy = hsize - line
	}
	m.updateSelection(false, false)
	m.redrawScreen()
}

// ScrollWheel scrolls n rows without moving the cursor off its row unless
// it would leave the screen.
func (m *Mode) ScrollWheel(up bool, n int) {
	for range n {
		if up {
			m.cursorUp(true)
		} else {
			m.cursorDown(true)
		}
	}
}

// SizeChanged swaps in a grid of a new size or content. The selection and
// marks are dropped and the search is re-marked.
func (m *Mode) SizeChanged(g grid.Grid) {
	hsize := g.HistorySize()
	m.setGrid(g)
	m.oy = min(m.oy, hsize)
	m.cy = min(m.cy, g.Height()-1)
	m.cx = min(m.cx, g.Width())
	m.sizeChanged()
}

func (m *Mode) sizeChanged() {
	searching := m.marks != nil
	m.clearSelection()
	m.clearMarks()
	m.redrawScreen()

	if searching && !m.timeout {
		m.searchMarks(nil, false)
	}
	m.searchx, m.searchy, m.searcho = m.cx, m.cy, m.oy
}

// refreshFromSource reloads the grid when the mode is attached to a live
// source.
func (m *Mode) refreshFromSource() {
	if m.opts.View || m.opts.Source == nil {
		return
	}
	g := m.opts.Source()
	if g == nil {
		return
	}
	m.SizeChanged(g)
}

func (m *Mode) refreshMarks() {
	if m.marks != nil && !m.timeout {
		m.searchMarks(nil, true)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
