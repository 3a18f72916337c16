package partwire

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type someService struct {
	Name string
}

type someInterface interface {
	DoSomething()
}

type someImplementation struct{}

func (s *someImplementation) DoSomething() {}

func TestTypeOf(t *testing.T) {
	t.Run("it should resolve concrete types", func(t *testing.T) {
		assert.Equal(t, reflect.TypeOf(""), TypeOf[string]())
		assert.Equal(t, reflect.TypeOf(&someService{}), TypeOf[*someService]())
	})

	t.Run("it should resolve interface types", func(t *testing.T) {
		typ := TypeOf[someInterface]()

		assert.Equal(t, reflect.Interface, typ.Kind())
		assert.Equal(t, "someInterface", typ.Name())
	})
}

func TestMatchType(t *testing.T) {
	t.Run("it should match identical types", func(t *testing.T) {
		assert.True(t, matchType(TypeOf[*someService](), TypeOf[*someService]()))
	})

	t.Run("it should match interface implementations", func(t *testing.T) {
		assert.True(t, matchType(TypeOf[someInterface](), TypeOf[*someImplementation]()))
	})

	t.Run("it should not match unrelated types", func(t *testing.T) {
		assert.False(t, matchType(TypeOf[*someService](), TypeOf[string]()))
		assert.False(t, matchType(TypeOf[someInterface](), TypeOf[*someService]()))
	})

	t.Run("it should not match nil types", func(t *testing.T) {
		assert.False(t, matchType(nil, TypeOf[string]()))
		assert.False(t, matchType(TypeOf[string](), nil))
	})
}

func TestTypeIdentity(t *testing.T) {
	t.Run("it should use the full package path for named types", func(t *testing.T) {
		identity := TypeIdentity(TypeOf[someService]())

		assert.Equal(t, "github.com/partwire/partwire.someService", identity)
	})

	t.Run("it should expand composite kinds recursively", func(t *testing.T) {
		assert.Equal(t, "*github.com/partwire/partwire.someService", TypeIdentity(TypeOf[*someService]()))
		assert.Equal(t, "[]*github.com/partwire/partwire.someService", TypeIdentity(TypeOf[[]*someService]()))
		assert.Equal(t, "map[string]github.com/partwire/partwire.someService", TypeIdentity(TypeOf[map[string]someService]()))
	})

	t.Run("it should be stable for equal types", func(t *testing.T) {
		assert.Equal(t, TypeIdentity(TypeOf[fmt.Stringer]()), TypeIdentity(TypeOf[fmt.Stringer]()))
	})

	t.Run("it should return empty for nil", func(t *testing.T) {
		assert.Equal(t, "", TypeIdentity(nil))
	})
}
