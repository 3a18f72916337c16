package partwire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loggerContract interface {
	Log(message string)
}

func TestBaseContractService(t *testing.T) {
	base := BaseContractService{}

	t.Run("it should derive names and identities from the member type", func(t *testing.T) {
		// GIVEN
		member := &Member{Kind: MemberField, Name: "Service", Type: TypeOf[*someService]()}

		// WHEN
		name, err := base.ExportContractName(member)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "*github.com/partwire/partwire.someService", name)
	})

	t.Run("it should fail on a nil member", func(t *testing.T) {
		// WHEN
		_, err := base.ExportContractName(nil)

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "member must not be nil")
	})

	t.Run("it should fail on a member without type", func(t *testing.T) {
		// WHEN
		_, err := base.ImportContractName(&Member{Kind: MemberField, Name: "Oops"})

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "member.Type must not be nil")
	})
}

func TestConventionContractService(t *testing.T) {
	t.Run("it should return the contract name of the matching convention", func(t *testing.T) {
		// GIVEN
		service := NewConventionContractService(nil,
			DefaultConvention{Kind: MemberField, ContractName: "field.contract"},
		)
		member := &Member{Kind: MemberField, Name: "Logger", Type: TypeOf[loggerContract]()}

		// WHEN
		name, err := service.ExportContractName(member)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "field.contract", name)
	})

	t.Run("it should prefer the last registered convention for a kind", func(t *testing.T) {
		// GIVEN
		service := NewConventionContractService(nil,
			DefaultConvention{Kind: MemberField, ContractName: "first"},
			DefaultConvention{Kind: MemberField, ContractName: "second"},
		)
		service.Add(DefaultConvention{Kind: MemberField, ContractName: "third"})
		member := &Member{Kind: MemberField, Name: "Whatever", Type: TypeOf[string]()}

		// WHEN
		exportName, err1 := service.ExportContractName(member)
		importName, err2 := service.ImportContractName(member)

		// THEN
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, "third", exportName)
		assert.Equal(t, "third", importName)
	})

	t.Run("it should ignore conventions registered for other kinds", func(t *testing.T) {
		// GIVEN
		service := NewConventionContractService(nil,
			DefaultConvention{Kind: MemberField, ContractName: "field.contract"},
			DefaultConvention{Kind: MemberMethod, ContractName: "method.contract"},
		)
		member := &Member{Kind: MemberField, Name: "Whatever", Type: TypeOf[string]()}

		// WHEN
		name, err := service.ExportContractName(member)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "field.contract", name)
	})

	t.Run("it should compute type identity through the canonical identity function", func(t *testing.T) {
		// GIVEN
		service := NewConventionContractService(nil,
			DefaultConvention{Kind: MemberMethod, ContractType: TypeOf[*someService]()},
		)
		member := &Member{Kind: MemberMethod, Name: "NewService", Type: TypeOf[string]()}

		// WHEN
		identity, err := service.ExportTypeIdentity(member)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, TypeIdentity(TypeOf[*someService]()), identity)
	})

	t.Run("it should fall back to the base service when no convention matches", func(t *testing.T) {
		// GIVEN
		service := NewConventionContractService(nil,
			DefaultConvention{Kind: MemberMethod, ContractName: "method.contract"},
		)
		member := &Member{Kind: MemberField, Name: "Whatever", Type: TypeOf[*someService]()}

		// WHEN
		name, err := service.ExportContractName(member)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "*github.com/partwire/partwire.someService", name)
	})

	t.Run("it should fail fast on a nil member", func(t *testing.T) {
		// GIVEN
		service := NewConventionContractService(nil)

		// WHEN
		_, errExportName := service.ExportContractName(nil)
		_, errExportIdentity := service.ExportTypeIdentity(nil)
		_, errImportName := service.ImportContractName(nil)
		_, errImportIdentity := service.ImportTypeIdentity(nil)

		// THEN
		for _, err := range []error{errExportName, errExportIdentity, errImportName, errImportIdentity} {
			require.Error(t, err)
			assert.Contains(t, err.Error(), "member must not be nil")
		}
	})

	t.Run("it should skip entries lacking the needed override", func(t *testing.T) {
		// GIVEN a later entry overriding only the type, an earlier one only the name
		service := NewConventionContractService(nil,
			DefaultConvention{Kind: MemberField, ContractName: "named.contract"},
			DefaultConvention{Kind: MemberField, ContractType: TypeOf[loggerContract]()},
		)
		member := &Member{Kind: MemberField, Name: "Whatever", Type: TypeOf[string]()}

		// WHEN
		name, err1 := service.ExportContractName(member)
		identity, err2 := service.ExportTypeIdentity(member)

		// THEN
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, "named.contract", name)
		assert.Equal(t, TypeIdentity(TypeOf[loggerContract]()), identity)
	})
}

func TestConventions(t *testing.T) {
	t.Run("it should build a service from a fluent chain", func(t *testing.T) {
		// WHEN
		service := Conventions().
			ForKind(MemberField).ContractName("field.contract").
			ForKind(MemberConstructor).ContractType(TypeOf[loggerContract]()).
			Configure(nil)

		// THEN
		name, err1 := service.ExportContractName(&Member{Kind: MemberField, Name: "Logger", Type: TypeOf[*someService]()})
		identity, err2 := service.ImportTypeIdentity(&Member{Kind: MemberConstructor, Name: "NewLogger", Type: TypeOf[*someService]()})
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, "field.contract", name)
		assert.Equal(t, TypeIdentity(TypeOf[loggerContract]()), identity)
	})

	t.Run("it should let a later entry win over an earlier one", func(t *testing.T) {
		// WHEN
		service := Conventions().
			ForKind(MemberField).ContractName("first").
			ForKind(MemberField).ContractName("second").
			Configure(nil)

		// THEN
		name, err := service.ImportContractName(&Member{Kind: MemberField, Name: "Logger", Type: TypeOf[loggerContract]()})
		require.NoError(t, err)
		assert.Equal(t, "second", name)
	})

	t.Run("it should append its entries after the ones the service already holds", func(t *testing.T) {
		// GIVEN
		service := NewConventionContractService(nil,
			DefaultConvention{Kind: MemberField, ContractName: "existing"},
		)

		// WHEN
		configured := Conventions().
			ForKind(MemberField).ContractName("configured").
			Configure(service)

		// THEN
		name, err := configured.ExportContractName(&Member{Kind: MemberField, Name: "Logger", Type: TypeOf[loggerContract]()})
		require.NoError(t, err)
		assert.Equal(t, "configured", name)
	})

	t.Run("it should fall back to the base service for kinds without entries", func(t *testing.T) {
		// GIVEN
		service := Conventions().
			ForKind(MemberField).ContractName("field.contract").
			Configure(nil)

		// WHEN
		name, err := service.ExportContractName(&Member{Kind: MemberMethod, Name: "Log", Type: TypeOf[*someService]()})

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "*github.com/partwire/partwire.someService", name)
	})
}

func TestDefineConventionPart(t *testing.T) {
	t.Run("it should derive the export contract from the convention service", func(t *testing.T) {
		// GIVEN
		service := NewConventionContractService(nil,
			DefaultConvention{Kind: MemberConstructor, ContractName: "services.main"},
		)

		// WHEN
		definition, err := DefineConventionPart[*someService](service, func() (*someService, error) {
			return &someService{Name: "from-convention"}, nil
		})

		// THEN
		require.NoError(t, err)
		exports := definition.ExportDefinitions()
		require.Len(t, exports, 1)
		assert.Equal(t, "services.main", exports[0].Contract().Name())
		assert.Equal(t, TypeOf[*someService](), exports[0].Contract().Type())

		// WHEN creating the part
		part, err := definition.NewPart()
		require.NoError(t, err)
		value, err := part.ExportedValue(exports[0])

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "from-convention", value.(*someService).Name)
	})

	t.Run("it should reject a nil constructor", func(t *testing.T) {
		// WHEN
		_, err := DefineConventionPart[*someService](NewConventionContractService(nil), nil)

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "constructor must not be nil")
	})
}
