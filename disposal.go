package partwire

import (
	"errors"
	"fmt"
	"sync"
)

// disposalRegistry remembers every resolved value that requires cleanup.
// Values are tracked by identity, so a shared instance resolved many times
// is closed exactly once. Closeable implementations are expected to be
// pointer-like, as interface identity is used for deduplication.
type disposalRegistry struct {
	mu    sync.Mutex
	seen  map[Closeable]struct{}
	order []Closeable
}

func newDisposalRegistry() *disposalRegistry {
	return &disposalRegistry{
		seen: make(map[Closeable]struct{}),
	}
}

func (d *disposalRegistry) track(v any) {
	closeable, ok := v.(Closeable)
	if !ok {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.seen[closeable]; dup {
		return
	}
	d.seen[closeable] = struct{}{}
	d.order = append(d.order, closeable)
}

// close closes tracked components in reverse tracking order, so dependents
// go down before their dependencies.
func (d *disposalRegistry) close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	closeErrors := make([]error, 0)
	for i := len(d.order) - 1; i >= 0; i-- {
		if err := d.order[i].Close(); err != nil {
			closeErrors = append(
				closeErrors,
				fmt.Errorf("failed to close component %T:\n\t%v", d.order[i], err),
			)
		}
	}
	d.order = nil
	d.seen = make(map[Closeable]struct{})

	return errors.Join(closeErrors...)
}
