package buffer_test

import (
	"context"
	"testing"

	"github.com/Gaurav-Gosain/copyscope/internal/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Store Tests
// =============================================================================

func TestAddNamesBuffers(t *testing.T) {
	s := buffer.NewStore(0)

	s.Add("", "one")
	s.Add("clip", "two")
	s.Add("", "three")

	names := make([]string, 0, 3)
	for _, b := range s.List() {
		names = append(names, b.Name)
		assert.True(t, b.Automatic)
	}
	assert.Equal(t, []string{"buffer2", "clip1", "buffer0"}, names)
}

func TestAddIgnoresEmpty(t *testing.T) {
	s := buffer.NewStore(0)
	s.Add("", "")
	assert.Equal(t, 0, s.Len())
}

func TestAddEvictsOldestAutomatic(t *testing.T) {
	s := buffer.NewStore(2)
	require.NoError(t, s.Set("kept", "named"))

	s.Add("", "a")
	s.Add("", "b")
	s.Add("", "c")

	assert.Equal(t, 3, s.Len())
	_, ok := s.Get("buffer0")
	assert.False(t, ok)
	_, ok = s.Get("kept")
	assert.True(t, ok)

	name, data, ok := s.Top()
	require.True(t, ok)
	assert.Equal(t, "buffer2", name)
	assert.Equal(t, "c", data)
}

func TestSet(t *testing.T) {
	s := buffer.NewStore(0)

	assert.ErrorIs(t, s.Set("", "data"), buffer.ErrEmptyName)
	require.NoError(t, s.Set("name", ""))
	assert.Equal(t, 0, s.Len())

	s.Add("", "auto")
	require.NoError(t, s.Set("buffer0", "replaced"))

	b, ok := s.Get("buffer0")
	require.True(t, ok)
	assert.Equal(t, "replaced", b.Data)
	assert.False(t, b.Automatic)

	_, _, ok = s.Top()
	assert.False(t, ok)
}

func TestRenameAndDelete(t *testing.T) {
	s := buffer.NewStore(0)
	s.Add("", "x")
	s.Add("", "y")

	require.NoError(t, s.Rename("buffer0", "buffer1"))
	assert.Equal(t, 1, s.Len())
	b, ok := s.Get("buffer1")
	require.True(t, ok)
	assert.Equal(t, "x", b.Data)

	assert.ErrorIs(t, s.Rename("missing", "z"), buffer.ErrNoBuffer)
	assert.ErrorIs(t, s.Delete("missing"), buffer.ErrNoBuffer)
	require.NoError(t, s.Delete("buffer1"))
	assert.Equal(t, 0, s.Len())
}

// =============================================================================
// Pipe Tests
// =============================================================================

func TestPipe(t *testing.T) {
	require.NoError(t, buffer.Pipe(context.Background(), "cat >/dev/null", "hello"))

	err := buffer.Pipe(context.Background(), "echo oops >&2; exit 3", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oops")
}
