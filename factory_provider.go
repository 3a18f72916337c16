package partwire

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/partwire/partwire/memo"
	"github.com/partwire/partwire/option"
)

type (
	// FactoryFunc produces an exported value, using the given resolver to
	// satisfy its own dependencies.
	FactoryFunc func(r *Resolver) (any, error)

	// FactoryExportProvider maps (type, optional name) contracts to factory
	// functions and serves them as lazy exports.
	FactoryExportProvider struct {
		mu          sync.RWMutex
		definitions []*factoryExportDefinition
		index       map[Contract]*factoryExportDefinition

		defaultFactory FactoryFunc
		priority       int
		description    string
	}

	factoryExportDefinition struct {
		export  ExportDefinition
		factory FactoryFunc

		// non-nil for singleton registrations: the cell guarantees
		// at-most-one factory invocation across all queries.
		shared *memo.Once[any]
	}

	// ProviderOptions configures provider construction.
	ProviderOptions struct {
		defaultFactory FactoryFunc
		priority       int
		description    string
	}

	// ExportOptions configures a single factory registration.
	ExportOptions struct {
		named    string
		metadata map[string]any
	}
)

// WithDefaultFactory sets the factory used by Register when none is given.
func WithDefaultFactory(factory FactoryFunc) option.Option[ProviderOptions] {
	return func(opts *ProviderOptions) {
		opts.defaultFactory = factory
	}
}

func ProviderPriority(priority int) option.Option[ProviderOptions] {
	return func(opts *ProviderOptions) {
		opts.priority = priority
	}
}

func ProviderDescription(description string) option.Option[ProviderOptions] {
	return func(opts *ProviderOptions) {
		opts.description = description
	}
}

// Named sets the contract name of a registration.
func Named(name string) option.Option[ExportOptions] {
	return func(opts *ExportOptions) {
		opts.named = name
	}
}

// WithMetadata attaches a metadata entry to the registered export.
func WithMetadata(key string, value any) option.Option[ExportOptions] {
	return func(opts *ExportOptions) {
		if opts.metadata == nil {
			opts.metadata = make(map[string]any)
		}
		opts.metadata[key] = value
	}
}

func failingDefaultFactory(*Resolver) (any, error) {
	return nil, errors.New("no default factory configured, register exports with an explicit factory or configure one with WithDefaultFactory")
}

func NewFactoryExportProvider(opts ...option.Option[ProviderOptions]) *FactoryExportProvider {
	options := option.Build(
		&ProviderOptions{
			defaultFactory: failingDefaultFactory,
			description:    "Provides factory-backed exports",
		},
		opts...,
	)

	return &FactoryExportProvider{
		index:          make(map[Contract]*factoryExportDefinition),
		defaultFactory: options.defaultFactory,
		priority:       options.priority,
		description:    options.description,
	}
}

// Register adds a factory-backed export definition. A nil factory falls back
// to the provider's default factory. Registering a second definition with
// the same (type, name) is a no-op, not an error: dropping the duplicate
// keeps downstream resolution unambiguous.
func (p *FactoryExportProvider) Register(typ reflect.Type, factory FactoryFunc, opts ...option.Option[ExportOptions]) error {
	if typ == nil {
		return errors.New("typ must not be nil")
	}
	if factory == nil {
		factory = p.defaultFactory
	}
	return p.add(typ, factory, false, opts)
}

// RegisterInstance adds a singleton export definition: the factory is
// invoked at most once, and every resolution observes the same instance.
func (p *FactoryExportProvider) RegisterInstance(typ reflect.Type, factory FactoryFunc, opts ...option.Option[ExportOptions]) error {
	if typ == nil {
		return errors.New("typ must not be nil")
	}
	if factory == nil {
		return errors.New("factory must not be nil")
	}
	return p.add(typ, factory, true, opts)
}

func (p *FactoryExportProvider) add(typ reflect.Type, factory FactoryFunc, shared bool, opts []option.Option[ExportOptions]) error {
	options := option.Build(&ExportOptions{}, opts...)
	contract := NewContract(options.named, typ)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.index[contract]; exists {
		return nil
	}

	metadata := options.metadata
	if metadata == nil {
		metadata = make(map[string]any, 1)
	}
	if _, ok := metadata[MetadataTypeIdentity]; !ok {
		metadata[MetadataTypeIdentity] = TypeIdentity(typ)
	}

	definition := &factoryExportDefinition{
		export:  NewExportDefinition(contract, metadata),
		factory: factory,
	}
	if shared {
		definition.shared = &memo.Once[any]{}
	}

	p.index[contract] = definition
	p.definitions = append(p.definitions, definition)

	return nil
}

func (p *FactoryExportProvider) GetExports(definition ImportDefinition, r *Resolver) ([]*Export, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var exports []*Export
	for _, stored := range p.definitions {
		if !definition.Matches(stored.export) {
			continue
		}
		exports = append(exports, exportFor(stored, r))
	}
	return exports, nil
}

func exportFor(stored *factoryExportDefinition, r *Resolver) *Export {
	contract := stored.export.Contract()

	invoke := func() (any, error) {
		return stored.factory(r)
	}
	if stored.shared != nil {
		inner := invoke
		invoke = func() (any, error) {
			return stored.shared.Do(inner)
		}
	}

	return NewExport(stored.export, func() (any, error) {
		// track the contract before taking any singleton lock, so a factory
		// that transitively requests itself fails with a cycle error instead
		// of deadlocking
		if err := r.tracker.Push(contract); err != nil {
			return nil, fmt.Errorf("dependency cycle detected while building %s:\n\t%w", contract, err)
		}
		defer r.tracker.Pop()

		return invoke()
	})
}

func (p *FactoryExportProvider) ListExportedContracts() []Contract {
	p.mu.RLock()
	defer p.mu.RUnlock()

	contracts := make([]Contract, len(p.definitions))
	for i, stored := range p.definitions {
		contracts[i] = stored.export.Contract()
	}
	return contracts
}

func (p *FactoryExportProvider) Priority() int {
	return p.priority
}

func (p *FactoryExportProvider) Description() string {
	return p.description
}

func (p *FactoryExportProvider) String() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return fmt.Sprintf("FactoryExportProvider(%d definitions)", len(p.definitions))
}

// RegisterFactory registers a typed factory for T.
func RegisterFactory[T any](p *FactoryExportProvider, factory func(r *Resolver) (T, error), opts ...option.Option[ExportOptions]) error {
	return p.Register(TypeOf[T](), liftFactory(factory), opts...)
}

// RegisterSingleton registers a typed singleton factory for T.
func RegisterSingleton[T any](p *FactoryExportProvider, factory func(r *Resolver) (T, error), opts ...option.Option[ExportOptions]) error {
	return p.RegisterInstance(TypeOf[T](), liftFactory(factory), opts...)
}

func liftFactory[T any](factory func(r *Resolver) (T, error)) FactoryFunc {
	if factory == nil {
		return nil
	}
	return func(r *Resolver) (any, error) {
		return factory(r)
	}
}
