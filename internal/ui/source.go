package ui

import (
	"bytes"

	"github.com/Gaurav-Gosain/copyscope/internal/grid"
	"github.com/Gaurav-Gosain/copyscope/internal/vt"
)

// Source is the terminal output shown by the viewer. Data may hold escape
// sequences; it is replayed through an emulator at the window size.
type Source struct {
	Data         []byte
	HistoryLimit int
	// Reload fetches fresh data for refresh-from-pane. It is nil for
	// sources that cannot change, which makes the viewer a view-only
	// session.
	Reload func() ([]byte, error)
}

// Grid lays the data out at width by height and returns the grid with the
// cursor position the output left behind. A bare newline also returns the
// cursor to the first column, as a terminal line discipline would.
func (s *Source) Grid(width, height int) (*grid.Buffer, grid.Pos) {
	e := vt.NewEmulator(max(width, 1), max(height, 1), s.HistoryLimit)
	_, _ = e.Write(bytes.ReplaceAll(s.Data, []byte("\n"), []byte("\r\n")))
	return e.Snapshot(), e.CursorPosition()
}
