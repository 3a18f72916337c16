package partwire

import (
	"fmt"

	"github.com/partwire/partwire/structs"
)

// ConfigFactory builds a typed factory extracting a value out of a resolved
// config struct. Supports nested access using dot notation
// (e.g. "Database.Pool.MaxSize").
func ConfigFactory[C any, T any](configPath string) func(r *Resolver) (T, error) {
	return func(r *Resolver) (v T, err error) {
		cfg, err := Resolve[*C](r)
		if err != nil {
			return v, fmt.Errorf("unable to resolve config %T:\n\t%w", cfg, err)
		}
		raw, err := structs.Get(cfg, configPath)
		if err != nil {
			return v, fmt.Errorf("unable to get value from config %T:\n\t%w", cfg, err)
		}
		value, ok := raw.(T)
		if !ok {
			return v, fmt.Errorf("config value at %s is not of type %T", configPath, v)
		}
		return value, nil
	}
}
