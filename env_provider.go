package partwire

import (
	"os"
	"strings"
	"sync"
)

// EnvExportProvider satisfies named string imports from environment
// variables.
type EnvExportProvider struct {
	once      sync.Once
	contracts []Contract
}

func (e *EnvExportProvider) GetExports(definition ImportDefinition, _ *Resolver) ([]*Export, error) {
	name := definition.Contract().Name()
	if name == "" || !matchType(definition.Contract().Type(), StringType) {
		return nil, nil
	}

	value, found := os.LookupEnv(name)
	if !found {
		return nil, nil
	}

	exportDef := NewExportDefinition(
		NewContract(name, StringType),
		map[string]any{MetadataTypeIdentity: TypeIdentity(StringType)},
	)
	return []*Export{StaticExport(exportDef, value)}, nil
}

func (e *EnvExportProvider) ListExportedContracts() []Contract {
	e.once.Do(func() {
		e.loadContracts()
	})
	return e.contracts
}

func (e *EnvExportProvider) loadContracts() {
	props := os.Environ()
	e.contracts = make([]Contract, len(props))
	for i, prop := range props {
		tokens := strings.SplitN(prop, "=", 2)
		e.contracts[i] = NewContract(tokens[0], StringType)
	}
}

func (e *EnvExportProvider) Priority() int {
	return 0
}

func (e *EnvExportProvider) Description() string {
	return "Provides environment variables as string exports"
}
