// Package buffer keeps the paste buffers copy mode writes to.
//
// Buffers created by copying are automatic: they are named from a prefix
// and a counter, and the oldest are dropped once there are more than the
// limit. Buffers set by name are kept until deleted.
package buffer

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// DefaultLimit is the default number of automatic buffers kept.
const DefaultLimit = 50

// DefaultPrefix names automatic buffers.
const DefaultPrefix = "buffer"

var (
	ErrEmptyName = errors.New("empty buffer name")
	ErrNoBuffer  = errors.New("no buffer")
)

// Buffer is one stored paste buffer.
type Buffer struct {
	Name      string
	Data      string
	Automatic bool
	Created   time.Time

	order uint64
}

// Store holds paste buffers. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	byName    map[string]*Buffer
	limit     int
	automatic int
	nextIndex int
	nextOrder uint64

	now func() time.Time
}

// NewStore returns an empty Store keeping up to limit automatic buffers.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		byName: make(map[string]*Buffer),
		limit:  limit,
		now:    time.Now,
	}
}

// SetLimit changes the number of automatic buffers kept. Extra buffers are
// dropped on the next Add.
func (s *Store) SetLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > 0 {
		s.limit = limit
	}
}

// Add stores data in a new automatic buffer named prefix followed by a
// counter. An empty prefix means DefaultPrefix. Empty data is ignored.
func (s *Store) Add(prefix, data string) {
	if data == "" {
		return
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.oldestFirst() {
		if s.automatic < s.limit {
			break
		}
		if b.Automatic {
			s.free(b)
		}
	}

	var name string
	for {
		name = fmt.Sprintf("%s%d", prefix, s.nextIndex)
		s.nextIndex++
		if _, ok := s.byName[name]; !ok {
			break
		}
	}
	s.insert(&Buffer{Name: name, Data: data, Automatic: true})
	s.automatic++
}

// Set stores data under name, replacing any buffer with that name. The
// buffer is no longer automatic.
func (s *Store) Set(name, data string) error {
	if data == "" {
		return nil
	}
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byName[name]; ok {
		s.free(old)
	}
	s.insert(&Buffer{Name: name, Data: data})
	return nil
}

// Top returns the most recent automatic buffer.
func (s *Store) Top() (name, data string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.newestFirst() {
		if b.Automatic {
			return b.Name, b.Data, true
		}
	}
	return "", "", false
}

// Get returns the buffer called name.
func (s *Store) Get(name string) (Buffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byName[name]
	if !ok {
		return Buffer{}, false
	}
	return *b, true
}

// List returns every buffer, most recent first.
func (s *Store) List() []Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	bufs := s.newestFirst()
	out := make([]Buffer, len(bufs))
	for i, b := range bufs {
		out[i] = *b
	}
	return out
}

// Delete removes the buffer called name.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%w %s", ErrNoBuffer, name)
	}
	s.free(b)
	return nil
}

// Rename renames a buffer, replacing any buffer already called newName.
func (s *Store) Rename(oldName, newName string) error {
	if oldName == "" {
		return ErrNoBuffer
	}
	if newName == "" {
		return errors.New("new name is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byName[oldName]
	if !ok {
		return fmt.Errorf("%w %s", ErrNoBuffer, oldName)
	}
	if other, ok := s.byName[newName]; ok && other != b {
		s.free(other)
	}
	delete(s.byName, oldName)
	if b.Automatic {
		s.automatic--
	}
	b.Name = newName
	b.Automatic = false
	s.byName[newName] = b
	return nil
}

// Len returns the number of buffers.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byName)
}

func (s *Store) insert(b *Buffer) {
	b.Created = s.now()
	b.order = s.nextOrder
	s.nextOrder++
	s.byName[b.Name] = b
}

func (s *Store) free(b *Buffer) {
	delete(s.byName, b.Name)
	if b.Automatic {
		s.automatic--
	}
}

func (s *Store) newestFirst() []*Buffer {
	bufs := make([]*Buffer, 0, len(s.byName))
	for _, b := range s.byName {
		bufs = append(bufs, b)
	}
	slices.SortFunc(bufs, func(a, b *Buffer) int {
		switch {
		case a.order > b.order:
			return -1
		case a.order < b.order:
			return 1
		}
		return 0
	})
	return bufs
}

func (s *Store) oldestFirst() []*Buffer {
	bufs := s.newestFirst()
	slices.Reverse(bufs)
	return bufs
}
