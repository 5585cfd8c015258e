package grid_test

import (
	"testing"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	uv "github.com/charmbracelet/ultraviolet"
)

// =============================================================================
// Layout Tests
// =============================================================================

func TestFromTextWrapsLongLines(t *testing.T) {
	b := grid.FromText(4, 2, "fooXbar")

	if got := b.Rows(); got != 2 {
		t.Fatalf("Rows() = %d, want 2", got)
	}
	if !grid.Wrapped(b, 0) {
		t.Error("row 0 should be wrapped")
	}
	if grid.Wrapped(b, 1) {
		t.Error("row 1 should not be wrapped")
	}
	if got := grid.LineLength(b, 1); got != 3 {
		t.Errorf("LineLength(1) = %d, want 3", got)
	}
}

func TestFromTextPadsScreen(t *testing.T) {
	b := grid.FromText(10, 5, "one\ntwo")

	if got := b.HistorySize(); got != 0 {
		t.Errorf("HistorySize() = %d, want 0", got)
	}
	if got := grid.Rows(b); got != 5 {
		t.Errorf("Rows() = %d, want 5", got)
	}
	if got := grid.LineLength(b, 4); got != 0 {
		t.Errorf("blank row length = %d, want 0", got)
	}
}

func TestFromTextHistory(t *testing.T) {
	b := grid.FromText(10, 2, "a\nb\nc\nd\ne")

	if got := b.HistorySize(); got != 3 {
		t.Errorf("HistorySize() = %d, want 3", got)
	}
	if got := b.Cell(0, 4).Content; got != "e" {
		t.Errorf("Cell(0,4) = %q, want %q", got, "e")
	}
}

func TestWideCharacterPadding(t *testing.T) {
	b := grid.FromText(10, 1, "a世b")

	if got := b.Cell(1, 0); got.Content != "世" || got.Width != 2 {
		t.Errorf("Cell(1,0) = %+v, want wide cell", got)
	}
	if !grid.IsPadding(b.Cell(2, 0)) {
		t.Error("Cell(2,0) should be padding")
	}
	if got := grid.LineLength(b, 0); got != 4 {
		t.Errorf("LineLength = %d, want 4", got)
	}
}

func TestWideCharacterMovesToNextRow(t *testing.T) {
	b := grid.FromText(3, 1, "ab世")

	if b.Rows() != 2 {
		t.Fatalf("Rows() = %d, want 2", b.Rows())
	}
	if got := b.Cell(0, 1).Content; got != "世" {
		t.Errorf("Cell(0,1) = %q, want wide char", got)
	}
}

// =============================================================================
// Accessor Tests
// =============================================================================

func TestLineLengthTrimsTrailingBlanks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"no trailing", "abc", 3},
		{"trailing spaces", "abc   ", 3},
		{"leading spaces kept", "  abc", 5},
		{"only spaces", "     ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := grid.FromText(20, 1, tt.text)
			if got := grid.LineLength(b, 0); got != tt.want {
				t.Errorf("LineLength(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestCellBeyondContentIsBlank(t *testing.T) {
	b := grid.FromText(10, 1, "ab")

	c := b.Cell(8, 0)
	if c.Content != uv.EmptyCell.Content || grid.IsPadding(c) {
		t.Errorf("Cell(8,0) = %+v, want blank", c)
	}
	if got := grid.Text(c); got != " " {
		t.Errorf("Text(blank) = %q, want space", got)
	}
}

func TestBufferString(t *testing.T) {
	b := grid.FromText(4, 3, "fooXbar\nbaz")

	want := "fooXbar\nbaz"
	if got := b.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
