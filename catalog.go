package partwire

import (
	"fmt"
	"sync"

	"github.com/partwire/partwire/option"
)

// Catalog is an ordered collection of part definitions.
type Catalog struct {
	mu          sync.RWMutex
	definitions []PartDefinition
}

func NewCatalog(definitions ...PartDefinition) *Catalog {
	return &Catalog{definitions: definitions}
}

func (c *Catalog) Append(definitions ...PartDefinition) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions = append(c.definitions, definitions...)
	return c
}

// Parts returns a snapshot of the catalog's definitions.
func (c *Catalog) Parts() []PartDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make([]PartDefinition, len(c.definitions))
	copy(snapshot, c.definitions)
	return snapshot
}

// CatalogExportProvider serves the exports declared by a catalog's part
// definitions. Parts are shared: each definition is instantiated at most
// once, under a per-definition lock.
type CatalogExportProvider struct {
	catalog *Catalog
	locks   *LockManager[PartDefinition]
	parts   sync.Map // PartDefinition -> ComposablePart

	priority    int
	description string
}

func NewCatalogExportProvider(catalog *Catalog, opts ...option.Option[ProviderOptions]) *CatalogExportProvider {
	options := option.Build(
		&ProviderOptions{
			description: "Provides exports declared by catalog part definitions",
		},
		opts...,
	)

	return &CatalogExportProvider{
		catalog:     catalog,
		locks:       NewLockManager[PartDefinition](),
		priority:    options.priority,
		description: options.description,
	}
}

func (p *CatalogExportProvider) GetExports(definition ImportDefinition, r *Resolver) ([]*Export, error) {
	var exports []*Export
	for _, partDef := range p.catalog.Parts() {
		for _, exportDef := range partDef.ExportDefinitions() {
			if !definition.Matches(exportDef) {
				continue
			}

			partDef, exportDef := partDef, exportDef
			exports = append(exports, NewExport(exportDef, func() (any, error) {
				part, err := p.partFor(partDef, r)
				if err != nil {
					return nil, fmt.Errorf("failed to create part for %s:\n\t%w", exportDef, err)
				}
				return part.ExportedValue(exportDef)
			}))
		}
	}
	return exports, nil
}

// partFor returns the shared part instance for the given definition,
// creating and composing it on first use.
func (p *CatalogExportProvider) partFor(definition PartDefinition, r *Resolver) (ComposablePart, error) {
	if existing, found := p.parts.Load(definition); found {
		return existing.(ComposablePart), nil
	}

	lock := p.locks.GetLockFor(definition)
	lock.Lock()
	defer func() {
		lock.Unlock()
		p.locks.ReleaseLock(definition) // no need to keep the lock, the part won't be built again
	}()

	// now that we have the lock, check if the part was built while we were waiting
	if existing, found := p.parts.Load(definition); found {
		return existing.(ComposablePart), nil
	}

	part, err := definition.NewPart()
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate part definition %s:\n\t%w", describeDefinition(definition), err)
	}

	// satisfy the part's declared imports before it is first used
	for _, importDef := range part.ImportDefinitions() {
		exports, err := r.container.collectExports(importDef, r)
		if err != nil {
			return nil, fmt.Errorf("failed to satisfy import %s of part %s:\n\t%w", importDef, describeDefinition(definition), err)
		}
		if err = importDef.validate(exports); err != nil {
			return nil, fmt.Errorf("failed to satisfy import %s of part %s:\n\t%w", importDef, describeDefinition(definition), err)
		}
		if err = part.SetImport(importDef, exports); err != nil {
			return nil, fmt.Errorf("failed to bind import %s of part %s:\n\t%w", importDef, describeDefinition(definition), err)
		}
	}

	r.container.disposals.track(part)
	p.parts.Store(definition, part)

	return part, nil
}

func (p *CatalogExportProvider) ListExportedContracts() []Contract {
	var contracts []Contract
	for _, partDef := range p.catalog.Parts() {
		for _, exportDef := range partDef.ExportDefinitions() {
			contracts = append(contracts, exportDef.Contract())
		}
	}
	return contracts
}

func (p *CatalogExportProvider) Priority() int {
	return p.priority
}

func (p *CatalogExportProvider) Description() string {
	return p.description
}

func (p *CatalogExportProvider) String() string {
	return fmt.Sprintf("CatalogExportProvider(%d part definitions)", len(p.catalog.Parts()))
}

func describeDefinition(definition PartDefinition) string {
	if stringer, ok := definition.(fmt.Stringer); ok {
		return stringer.String()
	}
	return fmt.Sprintf("%T", definition)
}
