package copymode

import (
	"errors"
	"strings"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	"github.com/Gaurav-Gosain/copyscope/internal/nav"
)

// ErrNoSelection is returned when there is nothing to copy.
var ErrNoSelection = errors.New("no selection")

// Selection is the part of the selection that is on screen, in viewport
// coordinates. The start may be after the end.
type Selection struct {
	StartX, StartY int
	EndX, EndY     int
	Rect           bool
	Keys           ModeKeys
	// Hidden is set while the whole selection is scrolled off screen.
	Hidden bool
}

// Contains reports whether viewport cell (px, py) is selected.
func (s *Selection) Contains(px, py int) bool {
	if s == nil || s.Hidden {
		return false
	}
	emacs := s.Keys == Emacs

	if s.Rect {
		if s.StartY < s.EndY {
			if py < s.StartY || py > s.EndY {
				return false
			}
		} else if py > s.StartY || py < s.EndY {
			return false
		}
		if s.EndX < s.StartX {
			return px >= s.EndX && px <= s.StartX
		}
		return px >= s.StartX && px <= s.EndX
	}

	// Emacs drops the last cell of a forward selection and the first of
	// a backward one.
	switch {
	case s.StartY < s.EndY:
		if py < s.StartY || py > s.EndY {
			return false
		}
		if py == s.StartY && px < s.StartX {
			return false
		}
		xx := s.EndX
		if emacs {
			xx = max(s.EndX-1, 0)
		}
		if py == s.EndY && px > xx {
			return false
		}
	case s.StartY > s.EndY:
		if py > s.StartY || py < s.EndY {
			return false
		}
		if py == s.EndY && px < s.EndX {
			return false
		}
		xx := s.StartX
		if emacs {
			xx = s.StartX - 1
		}
		if py == s.StartY && (s.StartX == 0 || px > xx) {
			return false
		}
	default:
		if py != s.StartY {
			return false
		}
		if s.EndX < s.StartX {
			xx := s.StartX
			if emacs {
				xx = s.StartX - 1
			}
			if px > xx || px < s.EndX {
				return false
			}
		} else {
			xx := s.EndX
			if emacs {
				xx = max(s.EndX-1, 0)
			}
			if px < s.StartX || px > xx {
				return false
			}
		}
	}
	return true
}

type relPos int

const (
	relAbove relPos = iota
	relOnScreen
	relBelow
)

// synchronizeCursorEnd copies the cursor into the dragged anchor. Word and
// line selections snap the cursor to a word or line edge and reset the
// other anchor to where the selection began.
func (m *Mode) synchronizeCursorEnd(begin, noReset bool) {
	xx, yy := m.cx, m.absY()

	switch m.selflag {
	case SelWord:
		if noReset {
			break
		}
		begin = false
		if m.dy > yy || (m.dy == yy && m.dx > xx) {
			xx, yy = m.previousWordPos(xx, yy, m.separators)
			begin = true
			m.endselx, m.endsely = m.endselrx, m.endselry
		} else {
			if xx >= m.lineLength(yy) || !nav.InSet(m.g, xx+1, yy, nav.Whitespace) {
				xx, yy = m.nextWordEnd(xx, yy, m.separators)
			}
			m.selx, m.sely = m.selrx, m.selry
		}
	case SelLine:
		if noReset {
			break
		}
		begin = false
		if m.dy > yy {
			xx = 0
			begin = true
			m.endselx, m.endsely = m.endselrx, m.endselry
		} else {
			yy = max(yy, m.endselry)
			xx = m.lineLength(yy)
			m.selx, m.sely = m.selrx, m.selry
		}
	}

	if begin {
		m.selx, m.sely = xx, yy
	} else {
		m.endselx, m.endsely = xx, yy
	}
}

func (m *Mode) synchronizeCursor(noReset bool) {
	switch m.cursordrag {
	case CursorDragEndSel:
		m.synchronizeCursorEnd(false, noReset)
	case CursorDragSel:
		m.synchronizeCursorEnd(true, noReset)
	}
}

func (m *Mode) startSelection() {
	m.selx, m.sely = m.cx, m.absY()
	m.endselx, m.endsely = m.selx, m.sely
	m.cursordrag = CursorDragEndSel
	m.setSelection(true, false)
}

// adjustSelection converts absolute (x, y) to a viewport position, clamping
// it to the screen edge it lies beyond.
func (m *Mode) adjustSelection(x, y int) (int, int, relPos) {
	sx, sy := m.g.Width(), m.g.Height()
	ty := m.g.HistorySize() - m.oy

	switch {
	case y < ty:
		if !m.rectflag {
			x = 0
		}
		return x, 0, relAbove
	case y > ty+sy-1:
		if !m.rectflag {
			x = sx - 1
		}
		return x, sy - 1, relBelow
	}
	return x, y - ty, relOnScreen
}

func (m *Mode) updateSelection(mayRedraw, noReset bool) bool {
	if m.sel == nil && m.lineflag == LineSelNone {
		return false
	}
	return m.setSelection(mayRedraw, noReset)
}

func (m *Mode) setSelection(mayRedraw, noReset bool) bool {
	m.synchronizeCursor(noReset)

	sx, sy, startRel := m.adjustSelection(m.selx, m.sely)
	endsx, endsy, endRel := m.adjustSelection(m.endselx, m.endsely)

	if startRel == endRel && startRel != relOnScreen {
		if m.sel != nil {
			m.sel.Hidden = true
		}
		return false
	}

	m.sel = &Selection{
		StartX: sx, StartY: sy,
		EndX: endsx, EndY: endsy,
		Rect: m.rectflag,
		Keys: m.opts.ModeKeys,
	}

	if m.rectflag && mayRedraw {
		// Every row between the anchor and the cursor changes.
		from := endsy
		if m.cursordrag == CursorDragEndSel {
			from = sy
		}
		if from < m.cy {
			m.redrawLines(from, m.cy-from+1)
		} else {
			m.redrawLines(m.cy, from-m.cy+1)
		}
	}
	return true
}

// redrawSelection redraws the rows between oldY and the cursor.
func (m *Mode) redrawSelection(oldY int) {
	newY := m.cy
	start, end := min(oldY, newY), max(oldY, newY)
	if m.selflag == SelWord && end < m.g.Height()+m.oy-1 {
		end++
	}
	m.redrawLines(start, end-start+1)
}

// otherEnd moves the cursor to the other end of the selection.
func (m *Mode) otherEnd() {
	if m.sel == nil && m.lineflag == LineSelNone {
		return
	}
	sy := m.g.Height()
	hsize := m.g.HistorySize()

	switch m.lineflag {
	case LineSelLeftRight:
		m.lineflag = LineSelRightLeft
	case LineSelRightLeft:
		m.lineflag = LineSelLeftRight
	}

	if m.cursordrag == CursorDragEndSel {
		m.cursordrag = CursorDragSel
	} else {
		m.cursordrag = CursorDragEndSel
	}

	selx, sely := m.endselx, m.endsely
	if m.cursordrag == CursorDragSel {
		selx, sely = m.selx, m.sely
	}

	cy := m.cy
	yy := m.absY()
	m.cx = selx
	switch {
	case sely < hsize-m.oy:
		m.oy = hsize - sely
		m.cy = 0
	case sely > hsize-m.oy+sy:
		m.oy = hsize - sely + sy - 1
		m.cy = sy - 1
	default:
		m.cy = cy + sely - yy
	}

	m.updateSelection(true, true)
	m.redrawScreen()
}

// rectangleSet switches rectangle mode. The cursor stays where it is, even
// past the end of a short line.
func (m *Mode) rectangleSet(rect bool) {
	m.rectflag = rect
	m.updateSelection(true, false)
	m.redrawScreen()
}

func (m *Mode) clearSelection() {
	m.sel = nil
	m.cursordrag = CursorDragNone
	m.lineflag = LineSelNone
	m.selflag = SelChar

	px := m.lineLength(m.absY())
	if m.cx > px {
		m.updateCursor(px, m.cy)
	}
}

func (m *Mode) selectLine() {
	m.lineflag = LineSelLeftRight
	m.rectflag = false
	m.selflag = SelLine
	m.dx, m.dy = m.cx, m.absY()

	m.cursorStartOfLine()
	m.selrx, m.selry = m.cx, m.absY()
	m.endselry = m.selry
	m.startSelection()
	m.cursorEndOfLine()
	m.endselry = m.absY()
	m.endselrx = m.lineLength(m.endselry)

	for range m.prefix - 1 {
		m.cursorDown(false)
		m.cursorEndOfLine()
	}
}

func (m *Mode) selectWord() {
	sx := m.g.Width()

	m.lineflag = LineSelLeftRight
	m.rectflag = false
	m.selflag = SelWord
	m.dx, m.dy = m.cx, m.absY()

	m.separators = m.opts.WordSeparators
	m.cursorPreviousWord(m.separators, false)
	px, py := m.cx, m.absY()
	m.selrx, m.selry = px, py
	m.startSelection()

	nextx, nexty := px+1, py
	if grid.Wrapped(m.g, py) && nextx > sx-1 {
		nextx = 0
		nexty++
	}
	if px >= m.lineLength(py) || !nav.InSet(m.g, nextx, nexty, nav.Whitespace) {
		m.cursorNextWordEnd(m.separators, true)
	} else {
		m.updateCursor(px, m.cy)
		if m.updateSelection(true, true) {
			m.redrawLines(m.cy, 1)
		}
	}
	m.endselrx, m.endselry = m.cx, m.absY()

	if m.dy > m.endselry {
		m.dy, m.dx = m.endselry, m.endselrx
	} else if m.dx > m.endselrx {
		m.dx = m.endselrx
	}
}

// GetSelection returns the selected text. With no selection it returns the
// search match under the cursor, if any.
func (m *Mode) GetSelection() (string, error) {
	if m.sel == nil && m.lineflag == LineSelNone {
		if s := m.matchAtCursor(); s != "" {
			return s, nil
		}
		return "", ErrNoSelection
	}

	sx, sy := m.selx, m.sely
	ex, ey := m.endselx, m.endsely
	if ey < sy || (ey == sy && ex < sx) {
		sx, sy, ex, ey = ex, ey, sx, sy
	}

	eyLast := m.lineLength(ey)
	ex = min(ex, eyLast)

	emacs := m.opts.ModeKeys == Emacs
	var firstsx, lastex, restsx, restex int
	if m.rectflag {
		// The column under the cursor is left out on the cursor's side.
		selx := m.endselx
		if m.cursordrag == CursorDragEndSel {
			selx = m.selx
		}
		if selx < m.cx {
			lastex = m.cx + 1
			if emacs {
				lastex = m.cx
			}
			restex = lastex
			firstsx, restsx = selx, selx
		} else {
			lastex, restex = selx+1, selx+1
			firstsx, restsx = m.cx, m.cx
		}
	} else {
		lastex = ex + 1
		if emacs {
			lastex = ex
		}
		restex = m.g.Width()
		firstsx = sx
		restsx = 0
	}

	var b strings.Builder
	for i := sy; i <= ey; i++ {
		from, to := restsx, restex
		if i == sy {
			from = firstsx
		}
		if i == ey {
			to = lastex
		}
		m.copyLine(&b, i, from, to)
	}
	if b.Len() == 0 {
		return "", ErrNoSelection
	}

	out := b.String()
	if (emacs || lastex <= eyLast) && (!grid.Wrapped(m.g, ey) || lastex != eyLast) {
		out = strings.TrimSuffix(out, "\n")
	}
	return out, nil
}

// copyLine appends cells [sx, ex) of row y, and a newline unless the row
// wraps and was copied to its end.
func (m *Mode) copyLine(b *strings.Builder, y, sx, ex int) {
	if sx > ex {
		return
	}
	wrapped := grid.Wrapped(m.g, y) && m.g.CellSize(y) <= m.g.Width()

	xx := m.lineLength(y)
	if wrapped {
		xx = m.g.CellSize(y)
	}
	ex = min(ex, xx)
	sx = min(sx, xx)

	for i := sx; i < ex; i++ {
		c := m.g.Cell(i, y)
		if grid.IsPadding(c) {
			continue
		}
		b.WriteString(grid.Text(c))
	}
	if !wrapped || ex != xx {
		b.WriteByte('\n')
	}
}

// matchAtCursor returns the text of the search match under the cursor or
// just before it.
func (m *Mode) matchAtCursor() string {
	if m.marks == nil {
		return ""
	}
	at, ok := m.marks.At(m.cx, m.absY())
	if !ok {
		return ""
	}
	if m.marks.Data[at] == 0 {
		if at == 0 || m.marks.Data[at-1] == 0 {
			return ""
		}
		at--
	}
	start, end := m.marks.StartEnd(at)

	sx := m.marks.Width
	var b strings.Builder
	for i := start; i <= end; i++ {
		c := m.g.Cell(i%sx, m.marks.Top+i/sx)
		if grid.IsPadding(c) {
			continue
		}
		b.WriteString(grid.Text(c))
	}
	return b.String()
}
