package copymode

import (
	"fmt"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	"github.com/Gaurav-Gosain/copyscope/internal/search"
)

// Styles are applied over the grid's own cell styles when rendering.
type Styles struct {
	// Mode is used for the selection and the position indicator.
	Mode         uv.Style
	Match        uv.Style
	CurrentMatch uv.Style
	Mark         uv.Style
}

// RenderLine returns the cells of viewport row py with the selection,
// search matches, mark and position indicator drawn over them.
func (m *Mode) RenderLine(py int, st Styles) []uv.Cell {
	return m.AppendLine(nil, py, st)
}

// AppendLine is RenderLine writing into dst[:0].
func (m *Mode) AppendLine(dst []uv.Cell, py int, st Styles) []uv.Cell {
	sx := m.g.Width()
	if py < 0 || py >= m.g.Height() {
		return nil
	}
	y := m.Top() + py

	cells := dst[:0]
	for x := range sx {
		cells = append(cells, m.g.Cell(x, y))
	}

	cur, curOK := m.currentMatch()
	for x := range sx {
		switch {
		case m.showmark && y == m.my && x == m.mx:
			cells[x].Style = st.Mark
		case m.sel.Contains(x, py):
			cells[x].Style = st.Mode
		default:
			at, ok := m.markAt(x, y)
			if !ok || m.marks.Data[at] == 0 {
				continue
			}
			if curOK && at >= cur[0] && at <= cur[1] {
				cells[x].Style = st.CurrentMatch
			} else {
				cells[x].Style = st.Match
			}
		}
	}

	if py == 0 && !m.hidePosition {
		hdr := []rune(m.Indicator())
		if len(hdr) <= sx {
			for i, r := range hdr {
				cells[sx-len(hdr)+i] = uv.Cell{Content: string(r), Width: 1, Style: st.Mode}
			}
		}
	}
	if py == m.cy && m.cx == sx && sx > 0 {
		cells[sx-1] = uv.Cell{Content: "$", Width: 1, Style: st.Mode}
	}
	return cells
}

// currentMatch returns the index range of the match under the cursor.
func (m *Mode) currentMatch() ([2]int, bool) {
	if m.marks == nil {
		return [2]int{}, false
	}
	cx, cy := m.cx, m.absY()
	at, ok := m.markAt(cx, cy)
	if !ok {
		return [2]int{}, false
	}
	mark := m.marks.Data[at]
	// Emacs leaves the cursor just past a forward match.
	if m.opts.ModeKeys == Emacs && m.searchdirection == search.Down && cx > 0 {
		if prev, ok := m.markAt(cx-1, cy); ok && m.marks.Data[prev] != 0 {
			at, mark = prev, m.marks.Data[prev]
		}
	}
	if mark == 0 {
		return [2]int{}, false
	}
	start, end := m.marks.StartEnd(at)
	return [2]int{start, end}, true
}

// Indicator is the text shown in the top right corner: the scroll
// position and, while searching, the number of results.
func (m *Mode) Indicator() string {
	pos := fmt.Sprintf("[%d/%d]", m.oy, m.g.HistorySize())
	switch {
	case m.marks == nil:
		if m.timeout {
			return "(timed out) " + pos
		}
		return pos
	case m.searchcount == -1:
		return pos
	case m.searchmore:
		return fmt.Sprintf("(%d+ results) %s", m.searchcount, pos)
	}
	return fmt.Sprintf("(%d results) %s", m.searchcount, pos)
}

// String renders the visible rows as plain text.
func (m *Mode) String() string {
	var out []byte
	for py := range m.g.Height() {
		y := m.Top() + py
		for x := range m.g.Width() {
			out = append(out, grid.Text(m.g.Cell(x, y))...)
		}
		if py < m.g.Height()-1 {
			out = append(out, '\n')
		}
	}
	return string(out)
}
