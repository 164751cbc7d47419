package directory

import (
	"sort"
	"sync"
)

// Store is an owned, sorted cache of directory entries.
// Subscribers get a snapshot after every change.
type Store[T any] struct {
	mu     sync.RWMutex
	items  []T
	idOf   func(T) string
	less   func(a, b T) bool
	subs   map[int]func([]T)
	nextID int
}

func NewStore[T any](idOf func(T) string, less func(a, b T) bool) *Store[T] {
	return &Store[T]{idOf: idOf, less: less, subs: make(map[int]func([]T))}
}

// Items returns a sorted copy of the cached entries
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if s.idOf(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Subscribe registers fn and returns the function that removes it
func (s *Store[T]) Subscribe(fn func([]T)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store[T]) Replace(items []T) {
	s.mu.Lock()
	s.items = append([]T(nil), items...)
	s.sortLocked()
	s.mu.Unlock()
	s.notify()
}

// Upsert replaces the entry with the same id or appends it
func (s *Store[T]) Upsert(item T) {
	s.mu.Lock()
	id := s.idOf(item)
	found := false
	for i, it := range s.items {
		if s.idOf(it) == id {
			s.items[i] = item
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, item)
	}
	s.sortLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) Remove(id string) bool {
	s.mu.Lock()
	idx := -1
	for i, it := range s.items {
		if s.idOf(it) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.mu.Unlock()
	s.notify()
	return true
}

func (s *Store[T]) sortLocked() {
	sort.SliceStable(s.items, func(i, j int) bool { return s.less(s.items[i], s.items[j]) })
}

// notify runs outside the lock so subscribers may read the store
func (s *Store[T]) notify() {
	s.mu.RLock()
	fns := make([]func([]T), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	snapshot := s.Items()
	for _, fn := range fns {
		fn(snapshot)
	}
}
