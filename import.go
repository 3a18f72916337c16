package partwire

import "fmt"

// Cardinality constrains how many exports may satisfy an import.
type Cardinality int

const (
	// ExactlyOne fails resolution unless one and only one export matches.
	ExactlyOne Cardinality = iota
	// ZeroOrOne tolerates an absent export but rejects ambiguous matches.
	ZeroOrOne
	// ZeroOrMore accepts any number of matching exports.
	ZeroOrMore
)

func (c Cardinality) String() string {
	switch c {
	case ExactlyOne:
		return "<unique mandatory>"
	case ZeroOrOne:
		return "<unique optional>"
	default:
		return "<multiple>"
	}
}

// ImportDefinition is the constraint a consumer places on the exports it
// wants: a contract (name optional, type required) and a cardinality.
type ImportDefinition struct {
	contract    Contract
	cardinality Cardinality
}

func NewImportDefinition(contract Contract, cardinality Cardinality) ImportDefinition {
	return ImportDefinition{contract: contract, cardinality: cardinality}
}

// ImportOf builds a mandatory unique import constraint on type T.
func ImportOf[T any]() ImportDefinition {
	return ImportDefinition{contract: ContractFor[T](""), cardinality: ExactlyOne}
}

// ImportNamed builds a mandatory unique import constraint on type T and the
// given contract name.
func ImportNamed[T any](name string) ImportDefinition {
	return ImportDefinition{contract: ContractFor[T](name), cardinality: ExactlyOne}
}

// ImportAll builds an import constraint matching every export of type T.
func ImportAll[T any]() ImportDefinition {
	return ImportDefinition{contract: ContractFor[T](""), cardinality: ZeroOrMore}
}

func (d ImportDefinition) Contract() Contract {
	return d.contract
}

func (d ImportDefinition) Cardinality() Cardinality {
	return d.cardinality
}

// Matches reports whether the given export satisfies this import constraint.
// An empty import name matches any export name; types match exactly or when
// the imported type is an interface the exported type implements.
func (d ImportDefinition) Matches(export ExportDefinition) bool {
	if d.contract.name != "" && d.contract.name != export.contract.name {
		return false
	}
	return matchType(d.contract.typ, export.contract.typ)
}

func (d ImportDefinition) String() string {
	typStr := "<nil>"
	if d.contract.typ != nil {
		typStr = d.contract.typ.String()
	}
	if d.contract.name == "" {
		return fmt.Sprintf("<type ~= %s>", typStr)
	}
	return fmt.Sprintf("<type ~= %s and name = %s>", typStr, d.contract.name)
}

func (d ImportDefinition) validate(exports []*Export) error {
	switch d.cardinality {
	case ExactlyOne:
		if len(exports) == 0 {
			return fmt.Errorf("no exports found for %s", d)
		}
		if len(exports) > 1 {
			return fmt.Errorf("multiple exports found for %s, expected one and only one, got %d", d, len(exports))
		}
	case ZeroOrOne:
		if len(exports) > 1 {
			return fmt.Errorf("multiple exports found for %s, expected one and only one, got %d", d, len(exports))
		}
	case ZeroOrMore:
	}
	return nil
}
