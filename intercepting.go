package partwire

import (
	"errors"
	"fmt"
	"sync"

	"github.com/partwire/partwire/slices"
)

type (
	// Interceptor transforms or wraps a value produced by a part before the
	// consumer sees it.
	Interceptor interface {
		Intercept(value any) (any, error)
	}

	// InterceptorFunc adapts a plain function to the Interceptor interface.
	InterceptorFunc func(value any) (any, error)
)

func (f InterceptorFunc) Intercept(value any) (any, error) {
	return f(value)
}

type chainedInterceptor struct {
	interceptors []Interceptor
}

// ChainInterceptors composes interceptors; values flow through them in the
// given order.
func ChainInterceptors(interceptors ...Interceptor) Interceptor {
	if len(interceptors) == 1 {
		return interceptors[0]
	}
	return chainedInterceptor{interceptors: interceptors}
}

func (c chainedInterceptor) Intercept(value any) (any, error) {
	var err error
	for _, interceptor := range c.interceptors {
		if value, err = interceptor.Intercept(value); err != nil {
			return nil, err
		}
	}
	return value, nil
}

// interceptingPart passes every definition and metadata of the wrapped part
// through unchanged, and funnels every exported value through the
// interceptor. It deliberately does NOT implement Closeable: disposal
// responsibility is detected by interface assertion, and claiming it for a
// part that has none would break composition teardown.
type interceptingPart struct {
	inner       ComposablePart
	interceptor Interceptor
}

// disposableInterceptingPart is the variant wrapping parts that require
// cleanup; it forwards Close to the wrapped part exactly once.
type disposableInterceptingPart struct {
	interceptingPart

	closeOnce sync.Once
	closeErr  error
}

// InterceptPart wraps a composed part so every value it produces goes
// through the interceptor. The returned part implements Closeable if and
// only if the wrapped part does.
func InterceptPart(part ComposablePart, interceptor Interceptor) (ComposablePart, error) {
	if part == nil {
		return nil, errors.New("part must not be nil")
	}
	if interceptor == nil {
		return nil, errors.New("interceptor must not be nil")
	}

	wrapped := interceptingPart{inner: part, interceptor: interceptor}
	if _, closeable := part.(Closeable); closeable {
		return &disposableInterceptingPart{interceptingPart: wrapped}, nil
	}
	return &wrapped, nil
}

func (p *interceptingPart) ExportDefinitions() []ExportDefinition {
	return p.inner.ExportDefinitions()
}

func (p *interceptingPart) ImportDefinitions() []ImportDefinition {
	return p.inner.ImportDefinitions()
}

func (p *interceptingPart) Metadata() map[string]any {
	return p.inner.Metadata()
}

func (p *interceptingPart) ExportedValue(definition ExportDefinition) (any, error) {
	value, err := p.inner.ExportedValue(definition)
	if err != nil {
		return nil, err
	}
	intercepted, err := p.interceptor.Intercept(value)
	if err != nil {
		return nil, fmt.Errorf("failed to intercept value for %s:\n\t%w", definition, err)
	}
	return intercepted, nil
}

func (p *interceptingPart) SetImport(definition ImportDefinition, exports []*Export) error {
	return p.inner.SetImport(definition, exports)
}

func (p *interceptingPart) String() string {
	if stringer, ok := p.inner.(fmt.Stringer); ok {
		return stringer.String()
	}
	return fmt.Sprintf("%T", p.inner)
}

func (p *disposableInterceptingPart) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.inner.(Closeable).Close()
	})
	return p.closeErr
}

// InterceptingPartDefinition wraps a part definition so every part it
// creates is intercepted. Definitions and metadata pass through unchanged.
type InterceptingPartDefinition struct {
	inner       PartDefinition
	interceptor Interceptor
}

func InterceptPartDefinition(definition PartDefinition, interceptor Interceptor) (*InterceptingPartDefinition, error) {
	if definition == nil {
		return nil, errors.New("definition must not be nil")
	}
	if interceptor == nil {
		return nil, errors.New("interceptor must not be nil")
	}
	return &InterceptingPartDefinition{inner: definition, interceptor: interceptor}, nil
}

func (d *InterceptingPartDefinition) ExportDefinitions() []ExportDefinition {
	return d.inner.ExportDefinitions()
}

func (d *InterceptingPartDefinition) ImportDefinitions() []ImportDefinition {
	return d.inner.ImportDefinitions()
}

func (d *InterceptingPartDefinition) Metadata() map[string]any {
	return d.inner.Metadata()
}

func (d *InterceptingPartDefinition) NewPart() (ComposablePart, error) {
	part, err := d.inner.NewPart()
	if err != nil {
		return nil, err
	}
	return InterceptPart(part, d.interceptor)
}

func (d *InterceptingPartDefinition) String() string {
	if stringer, ok := d.inner.(fmt.Stringer); ok {
		return stringer.String()
	}
	return fmt.Sprintf("%T", d.inner)
}

type (
	// InterceptionCriteria selects the part definitions an interceptor
	// applies to.
	InterceptionCriteria func(definition PartDefinition) bool

	interceptionEntry struct {
		criteria    InterceptionCriteria
		interceptor Interceptor
	}

	// InterceptionConfiguration accumulates interceptors and the criteria
	// selecting which part definitions they apply to.
	InterceptionConfiguration struct {
		entries []interceptionEntry
	}
)

func NewInterceptionConfiguration() *InterceptionConfiguration {
	return &InterceptionConfiguration{}
}

// AddInterceptor registers an interceptor applying to every part definition.
func (c *InterceptionConfiguration) AddInterceptor(interceptor Interceptor) *InterceptionConfiguration {
	return c.AddInterceptorFor(nil, interceptor)
}

// AddInterceptorFor registers an interceptor applying to the part
// definitions selected by the criteria. A nil criteria selects everything.
func (c *InterceptionConfiguration) AddInterceptorFor(criteria InterceptionCriteria, interceptor Interceptor) *InterceptionConfiguration {
	c.entries = append(c.entries, interceptionEntry{criteria: criteria, interceptor: interceptor})
	return c
}

// interceptorFor chains every matching interceptor, in registration order.
// It returns nil when nothing matches.
func (c *InterceptionConfiguration) interceptorFor(definition PartDefinition) Interceptor {
	matching := slices.Map(
		slices.Filter(c.entries, func(entry interceptionEntry) bool {
			return entry.criteria == nil || entry.criteria(definition)
		}),
		func(entry interceptionEntry) Interceptor {
			return entry.interceptor
		},
	)
	if len(matching) == 0 {
		return nil
	}
	return ChainInterceptors(matching...)
}

// InterceptCatalog derives a catalog whose definitions are wrapped according
// to the interception configuration. Definitions no interceptor applies to
// are carried over untouched.
func InterceptCatalog(catalog *Catalog, configuration *InterceptionConfiguration) (*Catalog, error) {
	if catalog == nil {
		return nil, errors.New("catalog must not be nil")
	}
	if configuration == nil {
		return nil, errors.New("configuration must not be nil")
	}

	intercepted := NewCatalog()
	for _, definition := range catalog.Parts() {
		interceptor := configuration.interceptorFor(definition)
		if interceptor == nil {
			intercepted.Append(definition)
			continue
		}
		wrapped, err := InterceptPartDefinition(definition, interceptor)
		if err != nil {
			return nil, err
		}
		intercepted.Append(wrapped)
	}
	return intercepted, nil
}
