package copymode

import "time"

// DragRepeat is how often a drag held on the top or bottom row scrolls.
const DragRepeat = 50 * time.Millisecond

// MouseEvent is a mouse position in viewport coordinates.
type MouseEvent struct {
	X, Y int
	// Wheel is set for scroll wheel events, which never move the cursor.
	Wheel bool
}

func (m *Mode) clampMouse(x, y int) (int, int) {
	x = max(0, min(x, m.g.Width()-1))
	y = max(0, min(y, m.g.Height()-1))
	return x, y
}

// MoveMouse puts the cursor under the pointer.
func (m *Mode) MoveMouse(x, y int) {
	x, y = m.clampMouse(x, y)
	m.updateCursor(x, y)
}

// StartDrag begins a mouse selection at viewport cell (x, y). A drag that
// starts inside the word or line that was last selected by word or line
// keeps growing by words or lines. It reports whether the caller should
// schedule a DragTick after DragRepeat.
func (m *Mode) StartDrag(x, y int) bool {
	x, y = m.clampMouse(x, y)
	m.dragging = true

	yg := m.Top() + y
	if x < m.selrx || x > m.endselrx || yg != m.selry {
		m.selflag = SelChar
	}
	switch m.selflag {
	case SelWord:
		if m.separators != "" {
			m.updateCursor(x, y)
			px, py := m.previousWordPos(x, yg, m.separators)
			x, y = px, max(py-m.Top(), 0)
		}
		m.updateCursor(x, y)
	case SelLine:
		m.updateCursor(0, y)
	default:
		m.updateCursor(x, y)
		m.startSelection()
	}

	m.redrawScreen()
	return m.DragUpdate(x, y)
}

// DragUpdate extends the selection to viewport cell (x, y). It reports
// whether the pointer is on an edge row and DragTick should run after
// DragRepeat.
func (m *Mode) DragUpdate(x, y int) bool {
	if !m.dragging {
		return false
	}
	x, y = m.clampMouse(x, y)
	oldcx, oldcy := m.cx, m.cy

	m.updateCursor(x, y)
	if m.updateSelection(true, false) {
		m.redrawSelection(oldcy)
	}
	if oldcy != m.cy || oldcx == m.cx {
		return m.edgeScroll(y)
	}
	return false
}

// DragTick scrolls one row while a drag is held on the top or bottom row.
// It reports whether another tick is wanted.
func (m *Mode) DragTick() bool {
	if !m.dragging {
		return false
	}
	return m.edgeScroll(m.cy)
}

func (m *Mode) edgeScroll(y int) bool {
	switch y {
	case 0:
		m.cursorUp(true)
		return true
	case m.g.Height() - 1:
		m.cursorDown(true)
		return true
	}
	return false
}

// DragRelease ends a mouse selection.
func (m *Mode) DragRelease() {
	m.dragging = false
}
