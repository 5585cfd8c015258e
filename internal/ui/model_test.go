package ui

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gaurav-Gosain/copyscope/internal/config"
)

const sample = "hello world\nsecond line\n"

func newTestModel(t *testing.T, modeKeys string) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ModeKeys = modeKeys
	m := New(Options{
		Config: cfg,
		Source: &Source{Data: []byte(sample)},
	})
	require.Nil(t, m.Mode())
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 6})
	require.NotNil(t, m.Mode())
	return m
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "f1":
		return tea.KeyPressMsg{Code: tea.KeyF1}
	case "ctrl+r":
		return tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

// =============================================================================
// Key Handling Tests
// =============================================================================

func TestStartsAtSourceCursor(t *testing.T) {
	m := newTestModel(t, "vi")

	x, y := m.Mode().Cursor()
	assert.Equal(t, 0, x)
	assert.Equal(t, 2, y)
}

func TestRepeatCount(t *testing.T) {
	m := newTestModel(t, "vi")

	press(m, "2", "k")
	x, y := m.Mode().Cursor()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
	assert.Equal(t, 0, m.count)
}

func TestZeroIsStartOfLine(t *testing.T) {
	m := newTestModel(t, "vi")

	press(m, "k", "w")
	x, _ := m.Mode().Cursor()
	assert.Equal(t, 7, x)

	press(m, "0")
	x, _ = m.Mode().Cursor()
	assert.Equal(t, 0, x)
}

func TestCharPrompt(t *testing.T) {
	m := newTestModel(t, "vi")

	press(m, "2", "k", "f")
	require.NotNil(t, m.pending)
	press(m, "o")
	assert.Nil(t, m.pending)

	x, y := m.Mode().Cursor()
	assert.Equal(t, 4, x)
	assert.Equal(t, 0, y)
}

func TestSearchPrompt(t *testing.T) {
	m := newTestModel(t, "vi")

	press(m, "?", "w", "o", "r")
	require.NotNil(t, m.pending)
	assert.Equal(t, "wor", m.input.Value())
	press(m, "enter")
	assert.Nil(t, m.pending)

	x, y := m.Mode().Cursor()
	assert.Equal(t, 6, x)
	assert.Equal(t, 0, y)
	assert.Equal(t, "wor", m.Mode().SearchString())
}

func TestPromptEscape(t *testing.T) {
	m := newTestModel(t, "vi")

	press(m, "/", "x", "esc")
	assert.Nil(t, m.pending)
	assert.Empty(t, m.Mode().SearchString())
}

func TestIncrementalSearch(t *testing.T) {
	m := newTestModel(t, "emacs")

	press(m, "ctrl+r")
	require.NotNil(t, m.pending)
	press(m, "l", "i")
	_, y := m.Mode().Cursor()
	assert.Equal(t, 1, y)
	assert.Equal(t, "li", m.Mode().SearchString())

	press(m, "enter")
	assert.Nil(t, m.pending)
}

func TestCopyAndCancel(t *testing.T) {
	m := newTestModel(t, "vi")

	press(m, "2", "k", "space", "e")
	cmd := press(m, "y")

	require.NotNil(t, cmd)
	assert.True(t, m.Quitting())
	assert.Equal(t, []string{"hello"}, m.Copied())

	_, data, ok := m.Buffers().Top()
	require.True(t, ok)
	assert.Equal(t, "hello", data)
}

// =============================================================================
// Mouse Tests
// =============================================================================

func TestMouseDragSelects(t *testing.T) {
	m := newTestModel(t, "vi")

	m.Update(tea.MouseClickMsg{Button: tea.MouseLeft, X: 0, Y: 0})
	assert.True(t, m.Mode().Dragging())
	m.Update(tea.MouseMotionMsg{Button: tea.MouseLeft, X: 4, Y: 0})
	m.Update(tea.MouseReleaseMsg{Button: tea.MouseLeft, X: 4, Y: 0})
	assert.False(t, m.Mode().Dragging())

	text, err := m.Mode().GetSelection()
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestClickOnStatusBarIgnored(t *testing.T) {
	m := newTestModel(t, "vi")

	m.Update(tea.MouseClickMsg{Button: tea.MouseLeft, X: 0, Y: 5})
	assert.False(t, m.Mode().Dragging())
}

// =============================================================================
// Rendering Tests
// =============================================================================

func TestRender(t *testing.T) {
	m := newTestModel(t, "vi")

	out := ansi.Strip(m.Render())
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "second line")
	assert.Contains(t, out, "[0/0]")
	assert.Contains(t, out, "COPY vi")
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, "vi")
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})

	press(m, "f1")
	assert.True(t, m.showHelp)
	assert.Contains(t, ansi.Strip(m.helpBox()), "MOVEMENT")

	press(m, "esc")
	assert.False(t, m.showHelp)
}

func TestConfigMsg(t *testing.T) {
	m := newTestModel(t, "vi")

	m.Update(ConfigMsg{Err: errors.New("boom")})
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "boom")

	cfg := config.DefaultConfig()
	cfg.Keybindings.Vi["x"] = "cursor-up"
	m.Update(ConfigMsg{Config: cfg})
	assert.False(t, m.statusErr)
	assert.Equal(t, "cursor-up", m.registry.GetAction("x"))
}

func TestResizeKeepsSession(t *testing.T) {
	m := newTestModel(t, "vi")
	mode := m.Mode()

	m.Update(tea.WindowSizeMsg{Width: 20, Height: 4})
	assert.Same(t, mode, m.Mode())
	assert.Equal(t, 20, m.Mode().Grid().Width())
	assert.Equal(t, 3, m.Mode().Grid().Height())
}
