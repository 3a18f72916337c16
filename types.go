package partwire

import (
	"fmt"
	"reflect"
)

var (
	StringType    = TypeOf[string]()
	ErrorType     = TypeOf[error]()
	CloseableType = TypeOf[Closeable]()
	StringerType  = TypeOf[fmt.Stringer]()
)

// TypeOf returns the reflect.Type for I, working for interface types as well.
func TypeOf[I any]() reflect.Type {
	var i I
	t := reflect.TypeOf(i)
	if t == nil {
		t = reflect.TypeOf((*I)(nil)).Elem()
	}
	return t
}

func matchType(requestedType, providedType reflect.Type) bool {
	if requestedType == nil || providedType == nil {
		return false
	}
	if requestedType == providedType {
		return true
	}
	if requestedType.Kind() == reflect.Interface && providedType.Implements(requestedType) {
		return true
	}
	return false
}

// TypeIdentity computes the canonical identity of a type.
//
// Named types are identified by their full import path, so two types sharing
// a short name in different packages get distinct identities. Composite kinds
// are expanded recursively, keeping identities stable for pointer, slice, map
// and channel forms.
func TypeIdentity(t reflect.Type) string {
	if t == nil {
		return ""
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + TypeIdentity(t.Elem())
	case reflect.Slice:
		return "[]" + TypeIdentity(t.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), TypeIdentity(t.Elem()))
	case reflect.Map:
		return "map[" + TypeIdentity(t.Key()) + "]" + TypeIdentity(t.Elem())
	case reflect.Chan:
		return "chan " + TypeIdentity(t.Elem())
	default:
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
