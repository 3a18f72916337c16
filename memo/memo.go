// Package memo provides lazily computed, memoized values guarded by a lock.
package memo

import "sync"

// Once memoizes the result of its first invocation.
//
// The create function passed to Do is invoked at most once across all calls;
// concurrent first callers block until the single invocation completes, then
// observe the memoized value. Errors are memoized too.
type Once[T any] struct {
	mu    sync.Mutex
	done  bool
	value T
	err   error
}

// Do returns the memoized result, invoking create on the first call only.
func (o *Once[T]) Do(create func() (T, error)) (T, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.done {
		o.value, o.err = create()
		o.done = true
	}
	return o.value, o.err
}

// Done reports whether the value has already been produced.
func (o *Once[T]) Done() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.done
}

// Cell binds a Once to a fixed factory function.
type Cell[T any] struct {
	once    Once[T]
	factory func() (T, error)
}

// New creates a cell that will invoke the given factory on first access.
func New[T any](factory func() (T, error)) *Cell[T] {
	return &Cell[T]{factory: factory}
}

// Of creates a cell already holding the given value.
func Of[T any](value T) *Cell[T] {
	return &Cell[T]{once: Once[T]{done: true, value: value}}
}

// Get returns the memoized value, invoking the factory on first access.
func (c *Cell[T]) Get() (T, error) {
	return c.once.Do(c.factory)
}

// Computed reports whether the value has already been produced.
func (c *Cell[T]) Computed() bool {
	return c.once.Done()
}
