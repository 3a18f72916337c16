package partwire

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/partwire/partwire/fn"
	"github.com/partwire/partwire/reflectutils"
	"github.com/partwire/partwire/structs"
)

// ConfigExportProvider exposes every field of a config struct T as a named
// export. Field exports are named after their path in the struct, prefixed
// by the struct name, so the field Port of TestConfig is exported as
// "TestConfig.Port".
//
// The provider depends on a *T export being resolvable from the container,
// typically registered from config.Load.
type ConfigExportProvider[T any] struct {
	once          sync.Once
	contracts     []Contract
	fieldWithType map[string]reflect.Type
	prefix        string
}

func (c *ConfigExportProvider[T]) GetExports(definition ImportDefinition, r *Resolver) ([]*Export, error) {
	c.loadContractsIfNeeded()

	name := definition.Contract().Name()
	fieldTyp, found := c.fieldWithType[name]
	if !found || !matchType(definition.Contract().Type(), fieldTyp) {
		return nil, nil
	}

	exportDef := NewExportDefinition(
		NewContract(name, fieldTyp),
		map[string]any{MetadataTypeIdentity: TypeIdentity(fieldTyp)},
	)
	return []*Export{NewExport(exportDef, func() (any, error) {
		cfg, err := Resolve[*T](r)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config %s:\n\t%w", TypeOf[*T](), err)
		}

		value, err := structs.Get(cfg, strings.TrimPrefix(name, c.prefix))
		if err != nil {
			return nil, err
		}

		reflValue := reflect.ValueOf(value)
		if !reflValue.Type().AssignableTo(fieldTyp) {
			// the value is not the expected type, return an error
			return nil, fmt.Errorf("field %s has type %v, expected %v", name, reflValue.Type(), fieldTyp)
		}

		return value, nil
	})}, nil
}

func (c *ConfigExportProvider[T]) ListExportedContracts() []Contract {
	c.loadContractsIfNeeded()
	return c.contracts
}

func (c *ConfigExportProvider[T]) Priority() int {
	return 0
}

func (c *ConfigExportProvider[T]) Description() string {
	return fmt.Sprintf("Provides the fields of %s as named exports", TypeOf[T]())
}

func (c *ConfigExportProvider[T]) loadContractsIfNeeded() {
	c.once.Do(func() {
		c.loadContracts()
	})
}

func (c *ConfigExportProvider[T]) loadContracts() {
	emptyConfig := new(T)
	// all exports are prefixed by the config struct name,
	// so if one want to get the value of the field "Port" in the struct "TestConfig",
	// the export will be named "TestConfig.Port".
	c.prefix = reflect.TypeOf(emptyConfig).Elem().Name() + "."

	reflectutils.WalkStruct(emptyConfig, reflectutils.CreateNilStructs)

	c.fieldWithType = make(map[string]reflect.Type)
	reflectutils.WalkStruct(
		emptyConfig,
		fn.AllTriConsumer(
			reflectutils.CreateNilStructs,
			func(_ reflect.Value, fieldTyp reflect.Type, path []string) {
				if len(path) > 0 {
					fieldPath := c.prefix + strings.Join(path, ".")
					c.fieldWithType[fieldPath] = fieldTyp
				}
			},
		),
	)

	c.contracts = make([]Contract, 0, len(c.fieldWithType))
	for fieldPath, fieldTyp := range c.fieldWithType {
		c.contracts = append(c.contracts, NewContract(fieldPath, fieldTyp))
	}
}
