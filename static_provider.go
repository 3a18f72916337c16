package partwire

import "fmt"

// staticExportProvider serves a single, already-built value.
type staticExportProvider struct {
	export *Export
}

// NewStaticExportProvider builds a provider exposing the given value under
// the given contract name.
func NewStaticExportProvider[T any](name string, value T) ExportProvider {
	definition := exportDefinitionFor[T](name)
	return &staticExportProvider{
		export: StaticExport(definition, value),
	}
}

func (s *staticExportProvider) GetExports(definition ImportDefinition, _ *Resolver) ([]*Export, error) {
	if !definition.Matches(s.export.Definition()) {
		return nil, nil
	}
	return []*Export{s.export}, nil
}

func (s *staticExportProvider) ListExportedContracts() []Contract {
	return []Contract{s.export.Definition().Contract()}
}

func (s *staticExportProvider) Priority() int {
	return 0
}

func (s *staticExportProvider) Description() string {
	return "Provides a single static export"
}

func (s *staticExportProvider) String() string {
	return fmt.Sprintf("StaticExportProvider%s", s.export.Definition().Contract())
}
