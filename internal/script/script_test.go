package script_test

import (
	"strings"
	"testing"

	"github.com/Gaurav-Gosain/copyscope/internal/copymode"
	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	"github.com/Gaurav-Gosain/copyscope/internal/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Parsing Tests
// =============================================================================

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		verb    string
		args    []string
		repeat  int
		wantErr bool
	}{
		{line: "cursor-down", verb: "cursor-down", repeat: 1},
		{line: "3 next-word", verb: "next-word", repeat: 3},
		{line: `search-forward "foo bar"`, verb: "search-forward", args: []string{"foo bar"}, repeat: 1},
		{line: `copy-pipe 'xclip -i' clip`, verb: "copy-pipe", args: []string{"xclip -i", "clip"}, repeat: 1},
		{line: "", wantErr: true},
		{line: "0 cursor-down", wantErr: true},
		{line: "5", wantErr: true},
		{line: "not-a-verb", wantErr: true},
		{line: "goto-line", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := script.ParseLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.verb, cmd.Verb)
			if len(tt.args) == 0 {
				assert.Empty(t, cmd.Args)
			} else {
				assert.Equal(t, tt.args, cmd.Args)
			}
			assert.Equal(t, tt.repeat, cmd.Repeat)
		})
	}
}

func TestParseLineEmpty(t *testing.T) {
	_, err := script.ParseLine("   ")
	assert.ErrorIs(t, err, script.ErrEmptyLine)

	_, err = script.ParseLine("bogus")
	assert.ErrorIs(t, err, copymode.ErrUnknownVerb)
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		line  string
		kind  script.PromptKind
		label string
	}{
		{"search-forward %%", script.PromptText, "(search down) "},
		{"search-backward-incremental %%", script.PromptIncremental, "(search up) "},
		{"jump-forward %%", script.PromptChar, "(jump forward) "},
		{"goto-line %%", script.PromptText, "(goto line) "},
		{"cursor-up", script.PromptNone, "(cursor-up) "},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := script.ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, cmd.Prompt())
			assert.Equal(t, tt.label, cmd.PromptLabel())
		})
	}
}

func TestExpand(t *testing.T) {
	cmd, err := script.ParseLine("search-forward %%")
	require.NoError(t, err)

	expanded := cmd.Expand("needle")
	assert.Equal(t, []string{"needle"}, expanded.Args)
	assert.Equal(t, []string{"%%"}, cmd.Args)
	assert.False(t, expanded.HasPlaceholder())
}

func TestString(t *testing.T) {
	for _, line := range []string{
		"cursor-down",
		"2 next-word",
		"search-forward 'foo bar'",
		"copy-pipe 'it'\\''s'",
	} {
		cmd, err := script.ParseLine(line)
		require.NoError(t, err)

		again, err := script.ParseLine(cmd.String())
		require.NoError(t, err)
		assert.Equal(t, cmd, again)
	}
}

// =============================================================================
// Execution Tests
// =============================================================================

func TestExec(t *testing.T) {
	g := grid.FromText(20, 3, "hello world\nsecond line")
	m := copymode.New(g, grid.Pos{}, copymode.Options{ModeKeys: copymode.Vi})

	steps, err := script.Exec(m, strings.NewReader(`
# select the first word
begin-selection
next-word-end
2 cursor-down
cancel
cursor-up
`))
	require.NoError(t, err)
	require.Len(t, steps, 4)
	assert.Equal(t, copymode.Cancel, steps[3].Action)
	assert.Equal(t, 6, steps[3].Line)
}

func TestExecErrors(t *testing.T) {
	g := grid.FromText(20, 3, "hello")
	m := copymode.New(g, grid.Pos{}, copymode.Options{})

	_, err := script.Exec(m, strings.NewReader("cursor-down\nbogus\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = script.Exec(m, strings.NewReader("search-forward %%\n"))
	assert.Error(t, err)
}
