package partwire

type (
	// ExportProvider is the extension point driving composition: the
	// container forwards every import constraint to its providers and
	// aggregates the exports they return.
	ExportProvider interface {
		// GetExports returns one lazy export per stored definition whose
		// contract satisfies the given import constraint. No match is an
		// empty result, not an error.
		GetExports(definition ImportDefinition, r *Resolver) ([]*Export, error)
		ListExportedContracts() []Contract
		Priority() int
		Description() string
	}
)
