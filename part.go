package partwire

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/partwire/partwire/memo"
	"github.com/partwire/partwire/option"
)

type (
	// Closeable is an interface that can be used to close resources.
	Closeable interface {
		Close() error
	}

	// ComposablePart is a unit of composition: a set of exports it can
	// produce and a set of imports it needs satisfied.
	ComposablePart interface {
		ExportDefinitions() []ExportDefinition
		ImportDefinitions() []ImportDefinition
		Metadata() map[string]any
		ExportedValue(definition ExportDefinition) (any, error)
		SetImport(definition ImportDefinition, exports []*Export) error
	}

	// PartDefinition describes parts before they exist and knows how to
	// create them.
	PartDefinition interface {
		ExportDefinitions() []ExportDefinition
		ImportDefinitions() []ImportDefinition
		Metadata() map[string]any
		NewPart() (ComposablePart, error)
	}
)

type (
	PartOptions struct {
		exports  []partExport
		imports  []ImportDefinition
		metadata map[string]any
	}

	partExport struct {
		definition ExportDefinition
		value      *memo.Cell[any]
	}
)

// ExportValue declares an export backed by an already-built value.
func ExportValue[T any](name string, value T) option.Option[PartOptions] {
	return func(opts *PartOptions) {
		opts.exports = append(opts.exports, partExport{
			definition: exportDefinitionFor[T](name),
			value:      memo.Of[any](value),
		})
	}
}

// ExportFactory declares an export whose value is produced lazily, at most
// once per part instance.
func ExportFactory[T any](name string, factory func() (T, error)) option.Option[PartOptions] {
	return func(opts *PartOptions) {
		opts.exports = append(opts.exports, partExport{
			definition: exportDefinitionFor[T](name),
			value: memo.New(func() (any, error) {
				return factory()
			}),
		})
	}
}

// ImportRequirement declares an import the part expects to be satisfied.
func ImportRequirement(definition ImportDefinition) option.Option[PartOptions] {
	return func(opts *PartOptions) {
		opts.imports = append(opts.imports, definition)
	}
}

// PartMetadata attaches a metadata entry to the part.
func PartMetadata(key string, value any) option.Option[PartOptions] {
	return func(opts *PartOptions) {
		if opts.metadata == nil {
			opts.metadata = make(map[string]any)
		}
		opts.metadata[key] = value
	}
}

func exportDefinitionFor[T any](name string) ExportDefinition {
	typ := TypeOf[T]()
	return NewExportDefinition(
		NewContract(name, typ),
		map[string]any{MetadataTypeIdentity: TypeIdentity(typ)},
	)
}

// Part is the basic ComposablePart implementation, assembled from options.
type Part struct {
	exports  []partExport
	imports  []ImportDefinition
	metadata map[string]any

	mu       sync.Mutex
	received map[Contract][]*Export
}

func NewPart(opts ...option.Option[PartOptions]) *Part {
	options := option.Build(&PartOptions{}, opts...)

	return &Part{
		exports:  options.exports,
		imports:  options.imports,
		metadata: options.metadata,
		received: make(map[Contract][]*Export),
	}
}

func (p *Part) ExportDefinitions() []ExportDefinition {
	definitions := make([]ExportDefinition, len(p.exports))
	for i, exp := range p.exports {
		definitions[i] = exp.definition
	}
	return definitions
}

func (p *Part) ImportDefinitions() []ImportDefinition {
	return p.imports
}

func (p *Part) Metadata() map[string]any {
	return p.metadata
}

func (p *Part) ExportedValue(definition ExportDefinition) (any, error) {
	for _, exp := range p.exports {
		if exp.definition.Contract() == definition.Contract() {
			return exp.value.Get()
		}
	}
	return nil, fmt.Errorf("part %s has no export for %s", p, definition)
}

func (p *Part) SetImport(definition ImportDefinition, exports []*Export) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.received[definition.Contract()] = exports
	return nil
}

// Imported returns the exports previously bound to the given import.
func (p *Part) Imported(definition ImportDefinition) []*Export {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.received[definition.Contract()]
}

func (p *Part) String() string {
	contracts := make([]string, len(p.exports))
	for i, exp := range p.exports {
		contracts[i] = exp.definition.Contract().String()
	}
	return fmt.Sprintf("Part[%s]", strings.Join(contracts, ", "))
}

type staticPartDefinition struct {
	exports  []ExportDefinition
	imports  []ImportDefinition
	metadata map[string]any
	create   func() (ComposablePart, error)
}

// NewPartDefinition builds a part definition from explicit export/import
// definitions and a creation function.
func NewPartDefinition(
	create func() (ComposablePart, error),
	exports []ExportDefinition,
	imports []ImportDefinition,
	metadata map[string]any,
) (PartDefinition, error) {
	if create == nil {
		return nil, errors.New("create must not be nil")
	}
	return &staticPartDefinition{
		exports:  exports,
		imports:  imports,
		metadata: metadata,
		create:   create,
	}, nil
}

// NewTemplatePartDefinition builds a part definition producing a fresh Part
// from the given options on every NewPart call. The definition-level
// export/import definitions are derived from a probe instance.
func NewTemplatePartDefinition(opts ...option.Option[PartOptions]) PartDefinition {
	probe := NewPart(opts...)
	return &staticPartDefinition{
		exports:  probe.ExportDefinitions(),
		imports:  probe.ImportDefinitions(),
		metadata: probe.Metadata(),
		create: func() (ComposablePart, error) {
			return NewPart(opts...), nil
		},
	}
}

func (d *staticPartDefinition) ExportDefinitions() []ExportDefinition {
	return d.exports
}

func (d *staticPartDefinition) ImportDefinitions() []ImportDefinition {
	return d.imports
}

func (d *staticPartDefinition) Metadata() map[string]any {
	return d.metadata
}

func (d *staticPartDefinition) NewPart() (ComposablePart, error) {
	return d.create()
}

func (d *staticPartDefinition) String() string {
	contracts := make([]string, len(d.exports))
	for i, exp := range d.exports {
		contracts[i] = exp.Contract().String()
	}
	return fmt.Sprintf("PartDefinition[%s]", strings.Join(contracts, ", "))
}
