package partwire

// EmptyRegistry is the anchor for code generation: declare a struct embedding
// it in the package where the generated registrations should land, add a
// go:generate directive invoking genexports, and the generated code will
// attach a Register method to that struct.
//
//	type Registry struct {
//		partwire.EmptyRegistry
//	}
//
//	//go:generate go run github.com/partwire/partwire/cmd/genexports --target .
type EmptyRegistry struct{}
