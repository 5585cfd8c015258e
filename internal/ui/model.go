// Package ui is the bubbletea front end of copy mode: it feeds keys and
// mouse events to a copymode.Mode and draws the result.
package ui

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/copyscope/internal/buffer"
	"github.com/Gaurav-Gosain/copyscope/internal/config"
	"github.com/Gaurav-Gosain/copyscope/internal/copymode"
	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	"github.com/Gaurav-Gosain/copyscope/internal/script"
	"github.com/Gaurav-Gosain/copyscope/internal/theme"
)

// StatusBarHeight is the number of rows below the grid.
const StatusBarHeight = 1

// PipeTimeout bounds copy-pipe commands run from the viewer.
const PipeTimeout = 10 * time.Second

// Options configure a Model.
type Options struct {
	Config  *config.UserConfig
	Source  *Source
	Buffers *buffer.Store
	Title   string
	Logger  copymode.Logger
	// LastSearch carries the previous search between sessions.
	LastSearch *copymode.LastSearch
	// Now overrides the clock used for search time limits.
	Now func() time.Time
}

// ConfigMsg delivers a reloaded configuration.
type ConfigMsg struct {
	Config *config.UserConfig
	Err    error
}

type dragTickMsg struct{}

type viewerKeys struct {
	Help   key.Binding
	Redraw key.Binding
}

func defaultViewerKeys() viewerKeys {
	return viewerKeys{
		Help:   key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "toggle help")),
		Redraw: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("C-l", "redraw")),
	}
}

// Model is the copy mode viewer.
type Model struct {
	opts     Options
	cfg      *config.UserConfig
	registry *config.KeybindRegistry
	keys     viewerKeys
	styles   copymode.Styles

	mode          *copymode.Mode
	width, height int

	input   textinput.Model
	pending *script.Command

	// count is the repeat count being typed, 0 when none.
	count int

	// ticking is set while a drag tick is scheduled.
	ticking bool

	status    string
	statusErr bool
	showHelp  bool

	// clip collects text copied by the last command for tea.SetClipboard.
	clip   string
	copied []string

	quitting bool
}

// New creates a viewer. The copy mode session starts on the first window
// size message.
func New(opts Options) *Model {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Buffers == nil {
		opts.Buffers = buffer.NewStore(opts.Config.BufferLimit)
	}
	if opts.LastSearch == nil {
		opts.LastSearch = &copymode.LastSearch{}
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	m := &Model{
		opts:  opts,
		keys:  defaultViewerKeys(),
		input: ti,
	}
	m.applyConfig(opts.Config)
	return m
}

func (m *Model) applyConfig(cfg *config.UserConfig) {
	m.cfg = cfg
	m.registry = config.NewKeybindRegistry(cfg)
	m.styles = theme.CopyModeStyles()
}

// Mode returns the copy mode session, nil before the first resize.
func (m *Model) Mode() *copymode.Mode { return m.mode }

// Copied returns every piece of text copied during the session.
func (m *Model) Copied() []string { return m.copied }

// Quitting reports whether the session has been cancelled.
func (m *Model) Quitting() bool { return m.quitting }

// Buffers returns the paste buffer store.
func (m *Model) Buffers() *buffer.Store { return m.opts.Buffers }

func (m *Model) gridSize() (int, int) {
	return max(m.width, 1), max(m.height-StatusBarHeight, 1)
}

func (m *Model) startMode() {
	w, h := m.gridSize()
	g, cursor := m.opts.Source.Grid(w, h)

	modeKeys, _ := copymode.ParseModeKeys(m.cfg.ModeKeys)
	opts := copymode.Options{
		ModeKeys:       modeKeys,
		WordSeparators: m.cfg.WordSeparators,
		WrapSearch:     m.cfg.WrapSearch,
		ScrollExit:     m.cfg.ScrollExit,
		HidePosition:   m.cfg.HidePosition,
		CopyCommand:    m.cfg.CopyCommand,
		Clipboard:      m.setClipboard,
		Pipe:           m.pipe,
		Buffers:        m.opts.Buffers,
		LastSearch:     m.opts.LastSearch,
		Logger:         m.opts.Logger,
		Now:            m.opts.Now,
		View:           m.opts.Source.Reload == nil,
		Source:         m.reload,
	}
	m.mode = copymode.New(g, cursor, opts)
}

func (m *Model) setClipboard(s string) {
	m.clip = s
	m.copied = append(m.copied, s)
}

func (m *Model) pipe(command, data string) error {
	ctx, cancel := context.WithTimeout(context.Background(), PipeTimeout)
	defer cancel()
	err := buffer.Pipe(ctx, command, data)
	if err != nil {
		m.setStatus(err.Error(), true)
	}
	return err
}

// reload refetches the source for refresh-from-pane.
func (m *Model) reload() grid.Grid {
	if m.opts.Source.Reload == nil {
		return nil
	}
	data, err := m.opts.Source.Reload()
	if err != nil {
		m.setStatus(fmt.Sprintf("refresh failed: %v", err), true)
		return nil
	}
	m.opts.Source.Data = data
	w, h := m.gridSize()
	g, _ := m.opts.Source.Grid(w, h)
	return g
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.mode == nil {
			m.startMode()
		} else {
			w, h := m.gridSize()
			g, _ := m.opts.Source.Grid(w, h)
			m.mode.SizeChanged(g)
		}
		return m, nil

	case ConfigMsg:
		if msg.Err != nil {
			m.setStatus(fmt.Sprintf("config: %v", msg.Err), true)
			return m, nil
		}
		theme.Initialize(msg.Config.Theme)
		m.applyConfig(msg.Config)
		m.opts.Buffers.SetLimit(msg.Config.BufferLimit)
		m.setStatus("config reloaded", false)
		return m, nil

	case dragTickMsg:
		m.ticking = false
		if m.mode != nil && m.mode.Dragging() && m.mode.DragTick() {
			return m, m.scheduleDragTick()
		}
		return m, nil
	}

	if m.mode == nil {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)
	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)
	case tea.MouseReleaseMsg:
		m.mode.DragRelease()
		return m, nil
	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)
	}

	if m.pending != nil {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// run executes cmd with the typed repeat count and turns the result into a
// tea command.
func (m *Model) run(cmd script.Command, mouse *copymode.MouseEvent) tea.Cmd {
	repeat := cmd.Repeat
	if m.count > 0 {
		repeat *= m.count
	}
	m.count = 0

	m.clip = ""
	m.mode.SetPrefix(repeat)
	action := m.mode.Execute(cmd.Verb, cmd.Args, mouse)

	var cmds []tea.Cmd
	if m.clip != "" {
		cmds = append(cmds, tea.SetClipboard(m.clip))
		if !m.statusErr {
			m.setStatus(fmt.Sprintf("copied %d bytes", len(m.clip)), false)
		}
		m.clip = ""
	}
	if action == copymode.Cancel {
		m.quitting = true
		cmds = append(cmds, tea.Quit)
	}
	m.mode.ClearRedraw()
	return tea.Batch(cmds...)
}

// scheduleDragTick starts a drag tick unless one is already pending.
func (m *Model) scheduleDragTick() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tea.Tick(copymode.DragRepeat, func(time.Time) tea.Msg {
		return dragTickMsg{}
	})
}
