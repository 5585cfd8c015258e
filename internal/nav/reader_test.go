package nav_test

import (
	"testing"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	"github.com/Gaurav-Gosain/copyscope/internal/nav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const separators = "!\"#$%&'()*+,-./:;<=>?@[\\]^`{|}~"

// =============================================================================
// Character Movement Tests
// =============================================================================

func TestCursorRightStopsAtLineEnd(t *testing.T) {
	g := grid.FromText(10, 2, "abc\ndef")
	r := nav.NewReader(g, 2, 0)

	r.CursorRight(false, false)
	assert.Equal(t, 3, r.CX)
	r.CursorRight(false, false)
	assert.Equal(t, 3, r.CX, "should not move past line length")

	r.CursorRight(true, false)
	x, y := r.Pos()
	assert.Equal(t, 0, x)
	assert.Equal(t, 1, y)
}

func TestCursorRightAllReachesWidth(t *testing.T) {
	g := grid.FromText(5, 1, "ab")
	r := nav.NewReader(g, 2, 0)

	for range 10 {
		r.CursorRight(false, true)
	}
	assert.Equal(t, 5, r.CX)
}

func TestCursorRightSkipsPadding(t *testing.T) {
	g := grid.FromText(10, 1, "a世b")
	r := nav.NewReader(g, 1, 0)

	r.CursorRight(false, false)
	assert.Equal(t, 3, r.CX)
}

func TestCursorLeftFollowsWrap(t *testing.T) {
	g := grid.FromText(4, 2, "fooXbar")
	r := nav.NewReader(g, 0, 1)

	r.CursorLeft(false)
	assert.Equal(t, 0, r.CY)
	assert.Equal(t, 4, r.CX)
}

func TestCursorLeftNoWrapStops(t *testing.T) {
	g := grid.FromText(10, 2, "abc\ndef")
	r := nav.NewReader(g, 0, 1)

	r.CursorLeft(false)
	assert.Equal(t, 0, r.CX)
	assert.Equal(t, 1, r.CY)

	r.CursorLeft(true)
	assert.Equal(t, 3, r.CX)
	assert.Equal(t, 0, r.CY)
}

func TestStartAndEndOfWrappedLine(t *testing.T) {
	g := grid.FromText(4, 3, "fooXbarYzz")
	r := nav.NewReader(g, 1, 1)

	r.StartOfLine(true)
	assert.Equal(t, 0, r.CX)
	assert.Equal(t, 0, r.CY)

	r.EndOfLine(true, false)
	assert.Equal(t, 2, r.CY)
	assert.Equal(t, 2, r.CX)
}

// =============================================================================
// Word Movement Tests
// =============================================================================

func TestNextWord(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start int
		sep   string
		wantX int
		wantY int
	}{
		{"letters to next word", "foo bar", 0, separators, 4, 0},
		{"stops at separator", "foo.bar", 0, separators, 3, 0},
		{"separator run to word", "foo..bar", 3, separators, 5, 0},
		{"space mode ignores separators", "foo.bar baz", 0, "", 8, 0},
		{"from whitespace", "foo   bar", 3, separators, 6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := grid.FromText(20, 1, tt.text)
			r := nav.NewReader(g, tt.start, 0)
			r.NextWord(tt.sep)
			assert.Equal(t, tt.wantX, r.CX)
			assert.Equal(t, tt.wantY, r.CY)
		})
	}
}

func TestNextWordCrossesLines(t *testing.T) {
	g := grid.FromText(20, 2, "foo\nbar")
	r := nav.NewReader(g, 0, 0)

	r.NextWord(separators)
	assert.Equal(t, 0, r.CX)
	assert.Equal(t, 1, r.CY)
}

func TestNextWordEnd(t *testing.T) {
	g := grid.FromText(20, 1, "foo bar.baz")
	r := nav.NewReader(g, 0, 0)

	r.NextWordEnd(separators)
	assert.Equal(t, 3, r.CX, "past foo")

	r.NextWordEnd(separators)
	assert.Equal(t, 7, r.CX, "past bar")

	r.NextWordEnd(separators)
	assert.Equal(t, 8, r.CX, "past the separator run")
}

func TestPreviousWord(t *testing.T) {
	g := grid.FromText(20, 1, "foo bar baz")
	r := nav.NewReader(g, 9, 0)

	r.PreviousWord(separators, true, false)
	assert.Equal(t, 8, r.CX)

	r.PreviousWord(separators, true, false)
	assert.Equal(t, 4, r.CX)

	r.PreviousWord(separators, true, false)
	assert.Equal(t, 0, r.CX)
}

func TestPreviousWordNotAlreadyStaysInWord(t *testing.T) {
	g := grid.FromText(10, 1, "  hello  ")
	r := nav.NewReader(g, 3, 0)

	r.PreviousWord(separators, false, false)
	assert.Equal(t, 2, r.CX)
}

func TestPreviousWordAcrossWrap(t *testing.T) {
	g := grid.FromText(4, 2, "abcdefg")
	r := nav.NewReader(g, 2, 1)

	r.PreviousWord(separators, false, false)
	assert.Equal(t, 0, r.CX)
	assert.Equal(t, 0, r.CY)
}

func TestPreviousWordAcrossLines(t *testing.T) {
	g := grid.FromText(20, 2, "foo \nbar")
	r := nav.NewReader(g, 0, 1)

	r.PreviousWord(separators, true, true)
	assert.Equal(t, 0, r.CY)
	assert.Equal(t, 0, r.CX)
}

// =============================================================================
// Jump Tests
// =============================================================================

func TestJump(t *testing.T) {
	g := grid.FromText(4, 2, "abcdxyz")
	r := nav.NewReader(g, 1, 0)

	require.True(t, r.Jump("y"))
	assert.Equal(t, 1, r.CX)
	assert.Equal(t, 1, r.CY)

	assert.False(t, r.Jump("q"))
	assert.Equal(t, 1, r.CX, "failed jump must not move")
}

func TestJumpStopsAtUnwrappedLine(t *testing.T) {
	g := grid.FromText(10, 2, "abc\nxyz")
	r := nav.NewReader(g, 0, 0)

	assert.False(t, r.Jump("y"))
}

func TestJumpBack(t *testing.T) {
	g := grid.FromText(4, 2, "abcdxyz")
	r := nav.NewReader(g, 2, 1)

	require.True(t, r.JumpBack("b"))
	assert.Equal(t, 1, r.CX)
	assert.Equal(t, 0, r.CY)

	require.True(t, r.JumpBack("b"), "cell under the cursor matches")
	assert.Equal(t, 1, r.CX)
}

func TestBackToIndentation(t *testing.T) {
	g := grid.FromText(20, 1, "    indented")
	r := nav.NewReader(g, 10, 0)

	r.BackToIndentation()
	assert.Equal(t, 4, r.CX)

	blank := grid.FromText(20, 1, "")
	r = nav.NewReader(blank, 3, 0)
	r.BackToIndentation()
	assert.Equal(t, 3, r.CX, "blank line keeps position")
}

// =============================================================================
// Line Scan Tests
// =============================================================================

func TestParagraphs(t *testing.T) {
	g := grid.FromText(10, 8, "a\nb\n\nc\nd\n\ne")

	assert.Equal(t, 2, nav.PreviousParagraph(g, 4))
	assert.Equal(t, 0, nav.PreviousParagraph(g, 2))
	assert.Equal(t, 5, nav.NextParagraph(g, 3))
	assert.Equal(t, 2, nav.NextParagraph(g, 0))
}

func TestFindFlagged(t *testing.T) {
	g := grid.FromText(10, 5, "$ a\nout\n$ b\nout")
	g.SetFlags(0, grid.LineStartPrompt)
	g.SetFlags(2, grid.LineStartPrompt)
	g.SetFlags(3, grid.LineStartOutput)

	y, ok := nav.FindFlagged(g, 0, 1, grid.LineStartPrompt)
	require.True(t, ok)
	assert.Equal(t, 2, y)

	_, ok = nav.FindFlagged(g, 2, 1, grid.LineStartPrompt)
	assert.False(t, ok)

	y, ok = nav.FindFlagged(g, 4, -1, grid.LineStartOutput)
	require.True(t, ok)
	assert.Equal(t, 3, y)
}
