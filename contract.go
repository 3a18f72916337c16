package partwire

import (
	"fmt"
	"reflect"
)

// Contract identifies an export or import by name and type.
//
// The name may be empty, in which case only the type participates in
// matching. Contracts are value types and can be used as map keys.
type Contract struct {
	name string
	typ  reflect.Type
}

func NewContract(name string, typ reflect.Type) Contract {
	return Contract{name: name, typ: typ}
}

// ContractFor builds a contract for type T with the given name.
func ContractFor[T any](name string) Contract {
	return Contract{name: name, typ: TypeOf[T]()}
}

func (c Contract) Name() string {
	return c.name
}

func (c Contract) Type() reflect.Type {
	return c.typ
}

// TypeIdentity returns the canonical identity of the contract's type.
func (c Contract) TypeIdentity() string {
	return TypeIdentity(c.typ)
}

func (c Contract) String() string {
	typStr := "<nil>"
	if c.typ != nil {
		typStr = c.typ.String()
	}
	return fmt.Sprintf("(%s, %s)", c.name, typStr)
}
