package ui

import (
	"strconv"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/copyscope/internal/copymode"
	"github.com/Gaurav-Gosain/copyscope/internal/script"
)

// maxCount caps the repeat count typed before a command.
const maxCount = 100000

// WheelLines is how many rows one wheel notch scrolls.
const WheelLines = 3

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.pending != nil {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Redraw):
		m.mode.Execute("refresh-from-pane", nil, nil)
		return m, nil
	}
	if m.showHelp && msg.String() == "esc" {
		m.showHelp = false
		return m, nil
	}

	if m.handleCount(msg) {
		return m, nil
	}

	cmd, ok := m.registry.GetCommand(msg.String())
	if !ok {
		m.count = 0
		return m, nil
	}
	m.setStatus("", false)

	if cmd.HasPlaceholder() {
		return m, m.openPrompt(cmd)
	}
	return m, m.run(cmd, nil)
}

// handleCount reads repeat count digits: bare digits in vi (a leading 0 is
// start-of-line) and alt+digit in emacs.
func (m *Model) handleCount(msg tea.KeyPressMsg) bool {
	s := msg.String()
	var digit string
	switch m.mode.Keys() {
	case copymode.Vi:
		if len(s) == 1 && s[0] >= '0' && s[0] <= '9' && (s[0] != '0' || m.count > 0) {
			digit = s
		}
	default:
		if len(s) == 5 && s[:4] == "alt+" && s[4] >= '0' && s[4] <= '9' {
			digit = s[4:]
		}
	}
	if digit == "" {
		return false
	}
	n, _ := strconv.Atoi(digit)
	m.count = min(m.count*10+n, maxCount)
	m.setStatus("(repeat: "+strconv.Itoa(m.count)+")", false)
	return true
}

func (m *Model) openPrompt(cmd script.Command) tea.Cmd {
	m.pending = &cmd
	m.input.Reset()
	if cmd.Prompt() == script.PromptIncremental {
		// The search starts from the cursor position when the prompt opens.
		m.mode.SetPrefix(1)
		m.mode.Execute(cmd.Verb, []string{"="}, nil)
	}
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.pending = nil
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) handlePromptKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	cmd := *m.pending

	switch msg.String() {
	case "esc", "ctrl+c", "ctrl+g":
		m.closePrompt()
		m.count = 0
		return m, nil
	}

	switch cmd.Prompt() {
	case script.PromptChar:
		if msg.Text == "" {
			return m, nil
		}
		m.closePrompt()
		return m, m.run(cmd.Expand(msg.Text), nil)

	case script.PromptIncremental:
		return m.handleIncrementalKey(cmd, msg)
	}

	if msg.String() == "enter" {
		value := m.input.Value()
		m.closePrompt()
		if value == "" {
			m.count = 0
			return m, nil
		}
		return m, m.run(cmd.Expand(value), nil)
	}

	var tcmd tea.Cmd
	m.input, tcmd = m.input.Update(msg)
	return m, tcmd
}

// handleIncrementalKey searches after every edit. ctrl+s and ctrl+r move to
// the next match down or up without changing the text.
func (m *Model) handleIncrementalKey(cmd script.Command, msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.closePrompt()
		m.count = 0
		return m, nil
	case "ctrl+s":
		return m, m.run(cmd.Expand("+"+m.input.Value()), nil)
	case "ctrl+r":
		return m, m.run(cmd.Expand("-"+m.input.Value()), nil)
	}

	before := m.input.Value()
	var tcmd tea.Cmd
	m.input, tcmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		count := m.count
		runCmd := m.run(cmd.Expand("="+after), nil)
		m.count = count
		return m, tea.Batch(tcmd, runCmd)
	}
	return m, tcmd
}

// gridPos converts a window position into grid coordinates.
func (m *Model) gridPos(x, y int) (int, int, bool) {
	_, h := m.gridSize()
	if y < 0 || y >= h {
		return 0, 0, false
	}
	return x, y, true
}

func (m *Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	if mouse.Button != tea.MouseLeft || m.pending != nil {
		return m, nil
	}
	x, y, ok := m.gridPos(mouse.X, mouse.Y)
	if !ok {
		return m, nil
	}
	if m.mode.StartDrag(x, y) {
		return m, m.scheduleDragTick()
	}
	return m, nil
}

func (m *Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	if !m.mode.Dragging() {
		return m, nil
	}
	_, h := m.gridSize()
	y := max(0, min(mouse.Y, h-1))
	if m.mode.DragUpdate(mouse.X, y) {
		return m, m.scheduleDragTick()
	}
	return m, nil
}

func (m *Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	ev := &copymode.MouseEvent{X: mouse.X, Y: mouse.Y, Wheel: true}
	switch mouse.Button {
	case tea.MouseWheelUp:
		return m, m.run(script.Command{Verb: "scroll-up", Repeat: WheelLines}, ev)
	case tea.MouseWheelDown:
		return m, m.run(script.Command{Verb: "scroll-down", Repeat: WheelLines}, ev)
	}
	return m, nil
}
