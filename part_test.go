package partwire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPart(t *testing.T) {
	t.Run("it should expose its exported values", func(t *testing.T) {
		// GIVEN
		part := NewPart(
			ExportValue("services.main", &someService{Name: "main"}),
		)
		definitions := part.ExportDefinitions()
		require.Len(t, definitions, 1)

		// WHEN
		value, err := part.ExportedValue(definitions[0])

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "main", value.(*someService).Name)
	})

	t.Run("it should fail on an unknown export definition", func(t *testing.T) {
		// GIVEN
		part := NewPart(
			ExportValue("services.main", &someService{Name: "main"}),
		)

		// WHEN
		_, err := part.ExportedValue(exportDefinitionFor[string]("something.else"))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no export for")
	})

	t.Run("it should invoke a factory export lazily and at most once", func(t *testing.T) {
		// GIVEN
		invocations := 0
		part := NewPart(
			ExportFactory("services.main", func() (*someService, error) {
				invocations++
				return &someService{Name: "lazy"}, nil
			}),
		)
		definition := part.ExportDefinitions()[0]
		assert.Equal(t, 0, invocations)

		// WHEN
		first, err1 := part.ExportedValue(definition)
		second, err2 := part.ExportedValue(definition)

		// THEN
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Same(t, first, second)
		assert.Equal(t, 1, invocations)
	})

	t.Run("it should carry its metadata and import definitions", func(t *testing.T) {
		// GIVEN
		imp := ImportNamed[*someService]("services.dependency")

		// WHEN
		part := NewPart(
			ImportRequirement(imp),
			PartMetadata("owner", "platform"),
		)

		// THEN
		require.Len(t, part.ImportDefinitions(), 1)
		assert.Equal(t, imp.Contract(), part.ImportDefinitions()[0].Contract())
		assert.Equal(t, "platform", part.Metadata()["owner"])
	})

	t.Run("it should remember the exports bound to an import", func(t *testing.T) {
		// GIVEN
		imp := ImportNamed[*someService]("services.dependency")
		part := NewPart(ImportRequirement(imp))
		export := StaticExport(exportDefinitionFor[*someService]("services.dependency"), &someService{Name: "dep"})

		// WHEN
		err := part.SetImport(imp, []*Export{export})

		// THEN
		require.NoError(t, err)
		bound := part.Imported(imp)
		require.Len(t, bound, 1)
		value, err := bound[0].Value()
		require.NoError(t, err)
		assert.Equal(t, "dep", value.(*someService).Name)
	})
}

func TestNewPartDefinition(t *testing.T) {
	t.Run("it should reject a nil create function", func(t *testing.T) {
		// WHEN
		_, err := NewPartDefinition(nil, nil, nil, nil)

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create must not be nil")
	})

	t.Run("it should create parts through the given function", func(t *testing.T) {
		// GIVEN
		definition, err := NewPartDefinition(
			func() (ComposablePart, error) {
				return NewPart(ExportValue("services.main", &someService{Name: "created"})), nil
			},
			[]ExportDefinition{exportDefinitionFor[*someService]("services.main")},
			nil,
			nil,
		)
		require.NoError(t, err)

		// WHEN
		part, err := definition.NewPart()

		// THEN
		require.NoError(t, err)
		value, err := part.ExportedValue(definition.ExportDefinitions()[0])
		require.NoError(t, err)
		assert.Equal(t, "created", value.(*someService).Name)
	})
}

func TestNewTemplatePartDefinition(t *testing.T) {
	t.Run("it should produce a fresh part on every creation", func(t *testing.T) {
		// GIVEN
		invocations := 0
		definition := NewTemplatePartDefinition(
			ExportFactory("services.main", func() (*someService, error) {
				invocations++
				return &someService{Name: "fresh"}, nil
			}),
		)

		// WHEN
		first, err1 := definition.NewPart()
		second, err2 := definition.NewPart()

		// THEN
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotSame(t, first, second)

		// AND each part memoizes independently
		exportDef := definition.ExportDefinitions()[0]
		_, _ = first.ExportedValue(exportDef)
		_, _ = first.ExportedValue(exportDef)
		_, _ = second.ExportedValue(exportDef)
		assert.Equal(t, 2, invocations)
	})

	t.Run("it should surface factory errors", func(t *testing.T) {
		// GIVEN
		boom := errors.New("boom")
		definition := NewTemplatePartDefinition(
			ExportFactory("services.main", func() (*someService, error) {
				return nil, boom
			}),
		)
		part, err := definition.NewPart()
		require.NoError(t, err)

		// WHEN
		_, err = part.ExportedValue(definition.ExportDefinitions()[0])

		// THEN
		require.ErrorIs(t, err, boom)
	})
}
