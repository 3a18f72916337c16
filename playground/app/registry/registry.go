package registry

import "github.com/partwire/partwire"

//go:generate go run github.com/partwire/partwire/cmd/genexports --target .
type Registry struct {
	partwire.EmptyRegistry
}
