package partwire

import (
	"fmt"

	"github.com/partwire/partwire/memo"
)

// MetadataTypeIdentity is the metadata key under which exports carry the
// canonical identity of their contract type.
const MetadataTypeIdentity = "partwire.type-identity"

// ExportDefinition describes a value a part or provider can produce: its
// contract plus free-form metadata.
//
// Metadata is carried as-is, it is never copied or re-derived by the
// framework.
type ExportDefinition struct {
	contract Contract
	metadata map[string]any
}

func NewExportDefinition(contract Contract, metadata map[string]any) ExportDefinition {
	return ExportDefinition{contract: contract, metadata: metadata}
}

func (d ExportDefinition) Contract() Contract {
	return d.contract
}

func (d ExportDefinition) Metadata() map[string]any {
	return d.metadata
}

func (d ExportDefinition) String() string {
	return fmt.Sprintf("export%s", d.contract)
}

// Export pairs an export definition with a lazily computed value.
//
// The value is produced on the first call to Value and memoized, including
// any production error.
type Export struct {
	definition ExportDefinition
	value      *memo.Cell[any]
}

// NewExport builds a lazy export, the value function is invoked on first
// access only.
func NewExport(definition ExportDefinition, value func() (any, error)) *Export {
	return &Export{
		definition: definition,
		value:      memo.New(value),
	}
}

// StaticExport builds an export over an already-built value.
func StaticExport(definition ExportDefinition, value any) *Export {
	return &Export{
		definition: definition,
		value:      memo.Of(value),
	}
}

func (e *Export) Definition() ExportDefinition {
	return e.definition
}

// Value returns the exported value, producing it on first access.
func (e *Export) Value() (any, error) {
	return e.value.Get()
}

func (e *Export) String() string {
	return e.definition.String()
}
