package main

import (
	"context"
	"io"
	"strings"
	"testing"

	"charm.land/log/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gaurav-Gosain/copyscope/internal/buffer"
	"github.com/Gaurav-Gosain/copyscope/internal/config"
	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	"github.com/Gaurav-Gosain/copyscope/internal/search"
)

// =============================================================================
// Script Runner Tests
// =============================================================================

func TestRunScriptCopiesSelection(t *testing.T) {
	script := `# copy the first word
2 cursor-up
begin-selection
next-word-end
copy-selection
`
	res, err := runScript(context.Background(), []byte("alpha beta\ngamma delta\n"),
		strings.NewReader(script), config.DefaultConfig(), 40, 5, log.New(io.Discard))
	require.NoError(t, err)

	require.Len(t, res.Steps, 4)
	assert.Equal(t, 2, res.Steps[0].Line)
	assert.Equal(t, 2, res.Steps[0].Command.Repeat)

	_, data, ok := res.Buffers.Top()
	require.True(t, ok)
	assert.Equal(t, "alpha", data)
}

func TestRunScriptStopsOnCancel(t *testing.T) {
	script := "cursor-up\ncancel\ncursor-up\n"
	res, err := runScript(context.Background(), []byte("one\ntwo\n"),
		strings.NewReader(script), config.DefaultConfig(), 20, 4, log.New(io.Discard))
	require.NoError(t, err)
	assert.Len(t, res.Steps, 2)
}

func TestRunScriptReportsBadLine(t *testing.T) {
	_, err := runScript(context.Background(), []byte("one\n"),
		strings.NewReader("cursor-up\nno-such-verb\n"), config.DefaultConfig(), 20, 4, log.New(io.Discard))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestEditBuffers(t *testing.T) {
	tests := []struct {
		name    string
		renames []string
		deletes []string
		want    []string
		wantErr error
	}{
		{name: "nothing", want: []string{"buffer1", "buffer0"}},
		{name: "rename", renames: []string{"buffer1=latest"}, want: []string{"latest", "buffer0"}},
		{name: "delete", deletes: []string{"buffer0"}, want: []string{"buffer1"}},
		{
			name:    "rename then delete old name",
			renames: []string{"buffer0=keep"},
			deletes: []string{"buffer1"},
			want:    []string{"keep"},
		},
		{name: "rename missing", renames: []string{"nope=x"}, wantErr: buffer.ErrNoBuffer},
		{name: "delete missing", deletes: []string{"nope"}, wantErr: buffer.ErrNoBuffer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := buffer.NewStore(0)
			store.Add("", "first")
			store.Add("", "second")

			err := editBuffers(store, tt.renames, tt.deletes)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			var names []string
			for _, b := range store.List() {
				names = append(names, b.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestEditBuffersBadRename(t *testing.T) {
	err := editBuffers(buffer.NewStore(0), []string{"no-equals"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "old=new")
}

// =============================================================================
// Search Output Tests
// =============================================================================

func TestMatchedLines(t *testing.T) {
	g := grid.FromText(20, 3, "alpha\nbeta alpha\ngamma")
	p, err := search.Compile("alpha", false)
	require.NoError(t, err)

	lines := matchedLines(g, p.FindAll(g, nil), func(s string) string { return "[" + s + "]" })
	assert.Equal(t, []matchLine{
		{Line: 1, Text: "[alpha]"},
		{Line: 2, Text: "beta [alpha]"},
	}, lines)
}

func TestMatchedLinesJoinsWrappedRows(t *testing.T) {
	g := grid.FromText(4, 3, "xxxaab\nzz")
	p, err := search.Compile("aa", false)
	require.NoError(t, err)

	lines := matchedLines(g, p.FindAll(g, nil), func(s string) string { return "[" + s + "]" })
	require.Len(t, lines, 1)
	assert.Equal(t, matchLine{Line: 1, Text: "xxx[aa]b"}, lines[0])
}

// =============================================================================
// Config Tests
// =============================================================================

func TestApplyOverrides(t *testing.T) {
	t.Cleanup(func() { modeKeysFlag, themeFlag = "", "" })

	cfg := config.DefaultConfig()
	modeKeysFlag, themeFlag = "emacs", "dracula"
	require.NoError(t, applyOverrides(cfg))
	assert.Equal(t, "emacs", cfg.ModeKeys)
	assert.Equal(t, "dracula", cfg.Theme)

	modeKeysFlag = "nano"
	assert.Error(t, applyOverrides(config.DefaultConfig()))
}

func TestFindCustomizations(t *testing.T) {
	def := config.DefaultConfig()
	user := config.DefaultConfig()
	user.Keybindings.Vi["x"] = "copy-line"
	delete(user.Keybindings.Vi, "q")
	user.Keybindings.Emacs["ctrl+w"] = "copy-selection"

	got := findCustomizations(user, def)
	assert.Equal(t, []Customization{
		{Table: "vi", Key: "q", Default: def.Keybindings.Vi["q"], Custom: ""},
		{Table: "vi", Key: "x", Default: "", Custom: "copy-line"},
		{Table: "emacs", Key: "ctrl+w", Default: def.Keybindings.Emacs["ctrl+w"], Custom: "copy-selection"},
	}, got)
}
