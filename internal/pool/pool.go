// Package pool holds sync.Pool wrappers for buffers reused on every frame.
package pool

import (
	"strings"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
)

// ByteSliceSize is the length of slices handed out by GetByteSlice.
const ByteSliceSize = 32 * 1024

var stringBuilderPool = sync.Pool{
	New: func() any { return &strings.Builder{} },
}

// GetStringBuilder returns an empty builder.
func GetStringBuilder() *strings.Builder {
	return stringBuilderPool.Get().(*strings.Builder)
}

// PutStringBuilder resets sb and returns it to the pool.
func PutStringBuilder(sb *strings.Builder) {
	sb.Reset()
	stringBuilderPool.Put(sb)
}

var byteSlicePool = sync.Pool{
	New: func() any {
		b := make([]byte, ByteSliceSize)
		return &b
	},
}

// GetByteSlice returns a slice of ByteSliceSize bytes for PTY reads.
func GetByteSlice() *[]byte {
	return byteSlicePool.Get().(*[]byte)
}

// PutByteSlice returns buf to the pool.
func PutByteSlice(buf *[]byte) {
	if cap(*buf) < ByteSliceSize {
		return
	}
	*buf = (*buf)[:ByteSliceSize]
	byteSlicePool.Put(buf)
}

var cellSlicePool = sync.Pool{
	New: func() any {
		s := make([]uv.Cell, 0, 256)
		return &s
	},
}

// GetCellSlice returns an empty cell slice used while rendering a row.
func GetCellSlice() *[]uv.Cell {
	return cellSlicePool.Get().(*[]uv.Cell)
}

// PutCellSlice truncates cells and returns it to the pool.
func PutCellSlice(cells *[]uv.Cell) {
	*cells = (*cells)[:0]
	cellSlicePool.Put(cells)
}
