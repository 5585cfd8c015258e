package pool_test

import (
	"sync"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gaurav-Gosain/copyscope/internal/pool"
)

// =============================================================================
// String Builders
// =============================================================================

func TestPutStringBuilderResets(t *testing.T) {
	for _, text := range []string{"", "x", "[12/300]", "a much longer row of scrollback text"} {
		sb := pool.GetStringBuilder()
		require.NotNil(t, sb)
		sb.WriteString(text)

		pool.PutStringBuilder(sb)
		assert.Zero(t, sb.Len(), "text %q", text)
		assert.Empty(t, sb.String())
	}
}

func TestStringBuildersAcrossGoroutines(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan string, 8)

	for g := range 8 {
		wg.Go(func() {
			for range 200 {
				sb := pool.GetStringBuilder()
				if sb.Len() != 0 {
					errs <- "builder handed out with content"
					return
				}
				sb.WriteByte(byte('a' + g))
				pool.PutStringBuilder(sb)
			}
		})
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Error(e)
	}
}

// =============================================================================
// Byte Slices
// =============================================================================

func TestByteSliceLength(t *testing.T) {
	tests := []struct {
		name    string
		buf     func() *[]byte
		wantLen int
	}{
		{
			name:    "fresh",
			buf:     pool.GetByteSlice,
			wantLen: pool.ByteSliceSize,
		},
		{
			name: "shortened read is restored",
			buf: func() *[]byte {
				b := pool.GetByteSlice()
				*b = (*b)[:17]
				return b
			},
			wantLen: pool.ByteSliceSize,
		},
		{
			name: "undersized slice is left alone",
			buf: func() *[]byte {
				b := make([]byte, 64)
				return &b
			},
			wantLen: 64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.buf()
			require.NotNil(t, b)

			pool.PutByteSlice(b)
			assert.Len(t, *b, tt.wantLen)
		})
	}
}

func TestGetByteSliceIsUsable(t *testing.T) {
	b := pool.GetByteSlice()
	defer pool.PutByteSlice(b)

	require.Len(t, *b, pool.ByteSliceSize)
	n := copy(*b, "scrollback")
	assert.Equal(t, "scrollback", string((*b)[:n]))
}

// =============================================================================
// Cell Slices
// =============================================================================

func TestPutCellSliceTruncates(t *testing.T) {
	cells := pool.GetCellSlice()
	require.NotNil(t, cells)
	assert.Empty(t, *cells)

	for range 300 {
		*cells = append(*cells, uv.EmptyCell)
	}
	grown := cap(*cells)

	pool.PutCellSlice(cells)
	assert.Empty(t, *cells)
	assert.Equal(t, grown, cap(*cells), "backing array is kept for the next row")
}

func BenchmarkCellSliceRow(b *testing.B) {
	for b.Loop() {
		cells := pool.GetCellSlice()
		for range 80 {
			*cells = append(*cells, uv.EmptyCell)
		}
		pool.PutCellSlice(cells)
	}
}
