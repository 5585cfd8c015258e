package ui

import (
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/copyscope/internal/config"
	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	"github.com/Gaurav-Gosain/copyscope/internal/pool"
	"github.com/Gaurav-Gosain/copyscope/internal/theme"
	"github.com/Gaurav-Gosain/copyscope/internal/vt"
)

// View implements tea.Model.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if m.quitting || m.mode == nil {
		return view
	}

	content := m.Render()
	if m.showHelp {
		content = m.overlayHelp(content)
	}
	view.SetContent(content)
	return view
}

// Render draws the grid and the status bar.
func (m *Model) Render() string {
	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)

	cells := pool.GetCellSlice()
	defer pool.PutCellSlice(cells)

	_, h := m.gridSize()
	cx, cy := m.mode.Cursor()
	for py := range h {
		*cells = m.mode.AppendLine(*cells, py, m.styles)
		cursor := -1
		if py == cy && m.pending == nil {
			cursor = cx
		}
		writeCells(sb, *cells, cursor)
		sb.WriteByte('\n')
	}
	sb.WriteString(m.statusBar())
	return sb.String()
}

// writeCells renders a row, grouping cells that share a style. The cell at
// column cursor is drawn reversed.
func writeCells(sb *strings.Builder, cells []uv.Cell, cursor int) {
	run := pool.GetStringBuilder()
	defer pool.PutStringBuilder(run)

	var runStyle uv.Style
	flush := func() {
		if run.Len() == 0 {
			return
		}
		sb.WriteString(cellStyle(runStyle).Render(run.String()))
		run.Reset()
	}

	for x, c := range cells {
		if grid.IsPadding(c) {
			continue
		}
		st := c.Style
		if x == cursor {
			st.Attrs ^= vt.AttrReverse
		}
		if !sameStyle(st, runStyle) {
			flush()
			runStyle = st
		}
		text := c.Content
		if text == "" {
			text = " "
		}
		run.WriteString(text)
	}
	flush()

	// The cursor can sit one past the last cell at the end of a line.
	if cursor >= len(cells) && cursor >= 0 {
		sb.WriteString(lipgloss.NewStyle().Reverse(true).Render(" "))
	}
}

func sameStyle(a, b uv.Style) bool {
	return a.Attrs == b.Attrs && sameColor(a.Fg, b.Fg) && sameColor(a.Bg, b.Bg)
}

func sameColor(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

// cellStyle converts a cell style into a lipgloss style, mapping the basic
// ANSI colors through the theme palette.
func cellStyle(st uv.Style) lipgloss.Style {
	s := lipgloss.NewStyle()
	if st.Fg != nil {
		s = s.Foreground(theme.PaletteColor(st.Fg))
	} else if fg := theme.TerminalFg(); fg != nil {
		s = s.Foreground(fg)
	}
	if st.Bg != nil {
		s = s.Background(theme.PaletteColor(st.Bg))
	}
	a := st.Attrs
	if a&vt.AttrBold != 0 {
		s = s.Bold(true)
	}
	if a&vt.AttrFaint != 0 {
		s = s.Faint(true)
	}
	if a&vt.AttrItalic != 0 {
		s = s.Italic(true)
	}
	if a&(vt.AttrSlowBlink|vt.AttrRapidBlink) != 0 {
		s = s.Blink(true)
	}
	if a&vt.AttrReverse != 0 {
		s = s.Reverse(true)
	}
	if a&vt.AttrStrikethrough != 0 {
		s = s.Strikethrough(true)
	}
	return s
}

// statusBar shows the prompt while one is open, otherwise the title, key
// table and last status message.
func (m *Model) statusBar() string {
	bg := theme.StatusBarBg()
	base := lipgloss.NewStyle().Background(bg).Foreground(theme.StatusBarFg())

	if m.pending != nil {
		label := lipgloss.NewStyle().Background(bg).Foreground(theme.PromptFg()).Bold(true).
			Render(m.pending.PromptLabel())
		line := label + m.input.View()
		return fit(base, line, m.width)
	}

	modeBg, modeFg := theme.StatusBarMode()
	badge := lipgloss.NewStyle().Background(modeBg).Foreground(modeFg).Bold(true).Padding(0, 1).
		Render("COPY " + m.mode.Keys().String())

	var parts []string
	if m.opts.Title != "" {
		parts = append(parts, m.opts.Title)
	}
	if s := m.mode.SearchString(); s != "" {
		parts = append(parts, "/"+s)
	}
	left := badge + base.Render(" "+strings.Join(parts, "  "))

	msg := m.status
	msgStyle := base
	if m.statusErr {
		msgStyle = msgStyle.Foreground(theme.NotificationError())
	}
	right := msgStyle.Render(msg + " ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return fit(base, left, m.width)
	}
	return left + base.Render(strings.Repeat(" ", gap)) + right
}

// fit pads or truncates line to width.
func fit(base lipgloss.Style, line string, width int) string {
	w := lipgloss.Width(line)
	if w > width {
		return ansi.Truncate(line, width, "…")
	}
	return line + base.Render(strings.Repeat(" ", width-w))
}

// overlayHelp draws the key table help box over the middle of content.
func (m *Model) overlayHelp(content string) string {
	box := m.helpBox()
	x := max((m.width-lipgloss.Width(box))/2, 0)
	y := max((m.height-lipgloss.Height(box))/2, 0)

	canvas := lipgloss.NewCanvas()
	canvas.AddLayers(
		lipgloss.NewLayer(content),
		lipgloss.NewLayer(box).X(x).Y(y).Z(1),
	)
	return canvas.Render()
}

func (m *Model) helpBox() string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.HelpKeyBadge()).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.HelpGray())
	titleStyle := lipgloss.NewStyle().Bold(true).Underline(true)

	_, h := m.gridSize()
	maxRows := max(h-4, 1)

	var rows []string
	for _, section := range config.GetKeybindings(m.registry) {
		rows = append(rows, titleStyle.Render(section.Title))
		for _, b := range section.Bindings {
			rows = append(rows, keyStyle.Render(padRight(b.Key, 16))+" "+descStyle.Render(b.Description))
		}
		rows = append(rows, "")
	}
	rows = append(rows, descStyle.Render(m.keys.Help.Help().Key+" / esc to close"))
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.HelpBorder()).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
}

func padRight(s string, w int) string {
	if n := ansi.StringWidth(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
