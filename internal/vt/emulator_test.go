package vt_test

import (
	"strings"
	"testing"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	"github.com/Gaurav-Gosain/copyscope/internal/vt"
)

// =============================================================================
// Print and Wrap Tests
// =============================================================================

func TestSoftWrapSetsFlag(t *testing.T) {
	b := vt.Parse(4, 3, 100, []byte("fooXbar"))

	if !grid.Wrapped(b, 0) {
		t.Fatal("row 0 should continue on row 1")
	}
	if grid.Wrapped(b, 1) {
		t.Error("row 1 should not be wrapped")
	}
	if got := b.String(); !strings.HasPrefix(got, "fooXbar") {
		t.Errorf("String() = %q, want prefix %q", got, "fooXbar")
	}
}

func TestExactWidthDoesNotWrapUntilNextPrint(t *testing.T) {
	b := vt.Parse(4, 3, 100, []byte("abcd\r\nx"))

	if grid.Wrapped(b, 0) {
		t.Error("row 0 should not be wrapped after CRLF")
	}
	if got := b.Cell(0, 1).Content; got != "x" {
		t.Errorf("Cell(0,1) = %q, want %q", got, "x")
	}
}

func TestScrollIntoHistory(t *testing.T) {
	b := vt.Parse(10, 2, 100, []byte("one\r\ntwo\r\nthree\r\nfour"))

	if got := b.HistorySize(); got != 2 {
		t.Fatalf("HistorySize() = %d, want 2", got)
	}
	if got := grid.LineLength(b, 0); got != 3 {
		t.Errorf("LineLength(0) = %d, want 3", got)
	}
	if got := b.Cell(0, 3).Content; got != "f" {
		t.Errorf("Cell(0,3) = %q, want %q", got, "f")
	}
}

func TestScrollbackLimit(t *testing.T) {
	var sb strings.Builder
	for i := range 20 {
		sb.WriteString(strings.Repeat(string(rune('a'+i)), 3))
		sb.WriteString("\r\n")
	}
	b := vt.Parse(10, 2, 5, []byte(sb.String()))

	if got := b.HistorySize(); got != 5 {
		t.Errorf("HistorySize() = %d, want 5", got)
	}
}

func TestWideRunePadding(t *testing.T) {
	b := vt.Parse(10, 1, 10, []byte("a世b"))

	if got := b.Cell(1, 0); got.Width != 2 {
		t.Errorf("Cell(1,0).Width = %d, want 2", got.Width)
	}
	if !grid.IsPadding(b.Cell(2, 0)) {
		t.Error("Cell(2,0) should be padding")
	}
	if got := b.Cell(3, 0).Content; got != "b" {
		t.Errorf("Cell(3,0) = %q, want %q", got, "b")
	}
}

// =============================================================================
// Escape Sequence Tests
// =============================================================================

func TestEraseLineClearsWrap(t *testing.T) {
	b := vt.Parse(4, 3, 10, []byte("fooXbar\x1b[1;1H\x1b[2K"))

	if grid.Wrapped(b, 0) {
		t.Error("erased row should not be wrapped")
	}
	if got := grid.LineLength(b, 0); got != 0 {
		t.Errorf("LineLength(0) = %d, want 0", got)
	}
}

func TestCursorPosition(t *testing.T) {
	e := vt.NewEmulator(20, 5, 10)
	_, _ = e.WriteString("\x1b[3;5Hx")

	pos := e.CursorPosition()
	if pos.X != 5 || pos.Y != 2 {
		t.Errorf("CursorPosition() = %+v, want {5 2}", pos)
	}
}

func TestWriteStringMatchesWrite(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain", "hello"},
		{"empty", ""},
		{"wrapping", "abcdefghij"},
		{"escapes", "\x1b[2;3Hxy\r\nz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := vt.NewEmulator(4, 3, 10)
			b := vt.NewEmulator(4, 3, 10)

			n, err := a.WriteString(tt.input)
			if err != nil {
				t.Fatalf("WriteString() error = %v", err)
			}
			if n != len(tt.input) {
				t.Errorf("WriteString() n = %d, want %d", n, len(tt.input))
			}
			_, _ = b.Write([]byte(tt.input))

			if got, want := a.CursorPosition(), b.CursorPosition(); got != want {
				t.Errorf("CursorPosition() = %+v, want %+v", got, want)
			}
			if got, want := a.Snapshot().String(), b.Snapshot().String(); got != want {
				t.Errorf("Snapshot() = %q, want %q", got, want)
			}
		})
	}
}

func TestSGRBold(t *testing.T) {
	b := vt.Parse(10, 1, 10, []byte("\x1b[1mB\x1b[0mn"))

	if b.Cell(0, 0).Style.Attrs&vt.AttrBold == 0 {
		t.Error("first cell should be bold")
	}
	if b.Cell(1, 0).Style.Attrs != 0 {
		t.Error("second cell should have no attributes")
	}
}

func TestPromptMarks(t *testing.T) {
	data := "\x1b]133;A\x07$ ls\r\n\x1b]133;C\x07out\r\n\x1b]133;A\x07$ "
	b := vt.Parse(20, 5, 10, []byte(data))

	if b.Flags(0)&grid.LineStartPrompt == 0 {
		t.Error("row 0 should start a prompt")
	}
	if b.Flags(1)&grid.LineStartOutput == 0 {
		t.Error("row 1 should start output")
	}
	if b.Flags(2)&grid.LineStartPrompt == 0 {
		t.Error("row 2 should start a prompt")
	}
}

// =============================================================================
// Scrollback Tests
// =============================================================================

func TestScrollbackRing(t *testing.T) {
	sb := vt.NewScrollback(2)
	for _, s := range []string{"a", "b", "c"} {
		sb.PushLine(grid.Layout(10, s)[0])
	}

	if got := sb.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if got := sb.Line(0).Cells[0].Content; got != "b" {
		t.Errorf("oldest line = %q, want %q", got, "b")
	}
	if got := sb.Line(1).Cells[0].Content; got != "c" {
		t.Errorf("newest line = %q, want %q", got, "c")
	}
}

func TestScrollbackSetMaxLines(t *testing.T) {
	sb := vt.NewScrollback(5)
	for _, s := range []string{"a", "b", "c", "d"} {
		sb.PushLine(grid.Layout(10, s)[0])
	}
	sb.SetMaxLines(2)

	lines := sb.Lines()
	if len(lines) != 2 {
		t.Fatalf("Lines() len = %d, want 2", len(lines))
	}
	if lines[0].Cells[0].Content != "c" || lines[1].Cells[0].Content != "d" {
		t.Errorf("kept lines = %q,%q; want c,d", lines[0].Cells[0].Content, lines[1].Cells[0].Content)
	}
}
