// Package concurrent holds small thread-safe collections used where several
// goroutines collect results without coordinating through channels.
package concurrent

import "sync"

// Slice is a mutex-guarded append-only slice.
type Slice[T any] struct {
	inner []T
	mu    sync.RWMutex
}

func NewSlice[T any]() *Slice[T] {
	return &Slice[T]{
		inner: make([]T, 0),
	}
}

// Append adds an element at the end of the slice.
func (s *Slice[T]) Append(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner = append(s.inner, v)
}

// Get returns a snapshot of the current contents. Mutating the returned
// slice does not affect the collection.
func (s *Slice[T]) Get() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, len(s.inner))
	copy(result, s.inner)
	return result
}

// GetAt returns the element at the given index, panicking when out of
// bounds like a plain slice access would.
func (s *Slice[T]) GetAt(i int) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner[i]
}

// Length returns the number of elements currently held.
func (s *Slice[T]) Length() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inner)
}
