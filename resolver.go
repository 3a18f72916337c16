package partwire

import (
	"fmt"
	"time"

	"github.com/partwire/partwire/slices"
)

type (
	// ResolutionScope is anything resolution can start from: the container
	// itself, or the Resolver handed to factory functions so their nested
	// lookups share the same cycle tracker.
	ResolutionScope interface {
		scope() *Resolver
	}

	// Resolver is the handle factories receive to satisfy their own
	// dependencies. It carries the container plus the tracker of the
	// resolution chain in flight.
	Resolver struct {
		container *Container
		tracker   *Tracker
	}
)

func (r *Resolver) scope() *Resolver {
	return r
}

func (r *Resolver) Container() *Container {
	return r.container
}

func (r *Resolver) resolveOne(definition ImportDefinition) (val any, found bool, err error) {
	c := r.container
	start := time.Now()
	defer func() {
		c.logger.Debug().
			Stringer("import", definition).
			Dur("elapsed", time.Since(start)).
			Msg("resolved import")
	}()

	exports, err := c.collectExports(definition, r)
	if err != nil {
		return nil, false, fmt.Errorf("failed to collect exports for %s:\n\t%w", definition, err)
	}
	if err = definition.validate(exports); err != nil {
		return nil, false, err
	}
	if len(exports) == 0 {
		return nil, false, nil
	}

	val, err = exports[0].Value()
	if err != nil {
		return nil, false, fmt.Errorf("failed to produce value for %s:\n\t%w", exports[0].Definition(), err)
	}
	c.disposals.track(val)
	return val, true, nil
}

func (r *Resolver) resolveMany(definition ImportDefinition) ([]*Export, error) {
	exports, err := r.container.collectExports(definition, r)
	if err != nil {
		return nil, fmt.Errorf("failed to collect exports for %s:\n\t%w", definition, err)
	}
	return exports, nil
}

// Resolve attempts to resolve a component of type T, expecting exactly one
// matching export.
func Resolve[T any](scope ResolutionScope) (T, error) {
	val, _, err := resolveTyped[T](scope, ImportOf[T]())
	return val, err
}

// ResolveNamed attempts to resolve a named component of type T.
func ResolveNamed[T any](scope ResolutionScope, name string) (T, error) {
	val, _, err := resolveTyped[T](scope, ImportNamed[T](name))
	return val, err
}

// TryResolve attempts to resolve a component of type T.
//
// It returns the resolved value, a boolean indicating if it was found, and an
// error if any occurred during resolution.
func TryResolve[T any](scope ResolutionScope) (value T, found bool, err error) {
	definition := NewImportDefinition(ContractFor[T](""), ZeroOrOne)
	return resolveTyped[T](scope, definition)
}

// TryResolveNamed attempts to resolve a named component of type T.
//
// It returns the resolved value, a boolean indicating if it was found, and an
// error if any occurred during resolution.
func TryResolveNamed[T any](scope ResolutionScope, name string) (value T, found bool, err error) {
	definition := NewImportDefinition(ContractFor[T](name), ZeroOrOne)
	return resolveTyped[T](scope, definition)
}

// ResolveAll resolves every export of type T, in provider priority order.
func ResolveAll[T any](scope ResolutionScope) ([]T, error) {
	r := scope.scope()
	exports, err := r.resolveMany(ImportAll[T]())
	if err != nil {
		return nil, err
	}

	return slices.UnsafeMap(exports, func(export *Export) (val T, err error) {
		raw, err := export.Value()
		if err != nil {
			return val, fmt.Errorf("failed to produce value for %s:\n\t%w", export.Definition(), err)
		}
		if val, err = asType[T](raw); err != nil {
			return val, err
		}
		r.container.disposals.track(raw)
		return val, nil
	})
}

// ResolveAllNamed resolves every export of type T, keyed by contract name.
func ResolveAllNamed[T any](scope ResolutionScope) (map[string]T, error) {
	r := scope.scope()
	exports, err := r.resolveMany(ImportAll[T]())
	if err != nil {
		return nil, err
	}

	values := make(map[string]T, len(exports))
	for _, export := range exports {
		raw, err := export.Value()
		if err != nil {
			return nil, fmt.Errorf("failed to produce value for %s:\n\t%w", export.Definition(), err)
		}
		val, err := asType[T](raw)
		if err != nil {
			return nil, err
		}
		values[export.Definition().Contract().Name()] = val
		r.container.disposals.track(raw)
	}
	return values, nil
}

func resolveTyped[T any](scope ResolutionScope, definition ImportDefinition) (val T, found bool, err error) {
	resolved, found, err := scope.scope().resolveOne(definition)
	if err != nil {
		return val, false, fmt.Errorf("failed to resolve import %s:\n\t%w", definition, err)
	}
	if !found {
		return val, false, nil
	}
	val, err = asType[T](resolved)
	return val, true, err
}

func asType[T any](v any) (res T, err error) {
	res, ok := v.(T)
	if !ok {
		return res, fmt.Errorf("value %v is not of type %T", v, res)
	}
	return res, nil
}
