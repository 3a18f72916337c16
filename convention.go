package partwire

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"

	"github.com/partwire/partwire/memo"
	"github.com/partwire/partwire/option"
)

// MemberKind tags the kind of member a contract is derived for.
type MemberKind uint8

const (
	MemberField MemberKind = iota
	MemberMethod
	MemberConstructor
	MemberType
)

func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberMethod:
		return "method"
	case MemberConstructor:
		return "constructor"
	case MemberType:
		return "type"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Member references the part member a contract is being resolved for.
type Member struct {
	Kind MemberKind
	Name string
	Type reflect.Type
}

func (m *Member) String() string {
	return fmt.Sprintf("%s %s (%s)", m.Kind, m.Name, m.Type)
}

// ContractService resolves contract names and type identities for part
// members, on both the export and the import side.
type ContractService interface {
	ExportContractName(member *Member) (string, error)
	ExportTypeIdentity(member *Member) (string, error)
	ImportContractName(member *Member) (string, error)
	ImportTypeIdentity(member *Member) (string, error)
}

// BaseContractService is the base resolution algorithm: contract names and
// identities both derive from the member's type through TypeIdentity.
type BaseContractService struct{}

func (BaseContractService) ExportContractName(member *Member) (string, error) {
	return baseContract(member)
}

func (BaseContractService) ExportTypeIdentity(member *Member) (string, error) {
	return baseContract(member)
}

func (BaseContractService) ImportContractName(member *Member) (string, error) {
	return baseContract(member)
}

func (BaseContractService) ImportTypeIdentity(member *Member) (string, error) {
	return baseContract(member)
}

func baseContract(member *Member) (string, error) {
	if member == nil {
		return "", errors.New("member must not be nil")
	}
	if member.Type == nil {
		return "", errors.New("member.Type must not be nil")
	}
	return TypeIdentity(member.Type), nil
}

// DefaultConvention overrides contract resolution for every member of a
// given kind. Entries registered later override earlier ones.
type DefaultConvention struct {
	Kind         MemberKind
	ContractName string
	ContractType reflect.Type
}

// ConventionContractService consults an ordered list of default-convention
// overrides before falling back to a base contract service.
type ConventionContractService struct {
	defaults []DefaultConvention
	base     ContractService
}

// NewConventionContractService builds a convention-aware contract service.
// A nil base falls back to BaseContractService.
func NewConventionContractService(base ContractService, defaults ...DefaultConvention) *ConventionContractService {
	if base == nil {
		base = BaseContractService{}
	}
	return &ConventionContractService{
		defaults: defaults,
		base:     base,
	}
}

// Add appends a default convention; it takes precedence over every entry
// registered before it for the same member kind.
func (s *ConventionContractService) Add(conventions ...DefaultConvention) *ConventionContractService {
	s.defaults = append(s.defaults, conventions...)
	return s
}

func (s *ConventionContractService) ExportContractName(member *Member) (string, error) {
	if member == nil {
		return "", errors.New("member must not be nil")
	}
	if entry, found := s.lastNamed(member.Kind); found {
		return entry.ContractName, nil
	}
	return s.base.ExportContractName(member)
}

func (s *ConventionContractService) ExportTypeIdentity(member *Member) (string, error) {
	if member == nil {
		return "", errors.New("member must not be nil")
	}
	if entry, found := s.lastTyped(member.Kind); found {
		return TypeIdentity(entry.ContractType), nil
	}
	return s.base.ExportTypeIdentity(member)
}

func (s *ConventionContractService) ImportContractName(member *Member) (string, error) {
	if member == nil {
		return "", errors.New("member must not be nil")
	}
	if entry, found := s.lastNamed(member.Kind); found {
		return entry.ContractName, nil
	}
	return s.base.ImportContractName(member)
}

func (s *ConventionContractService) ImportTypeIdentity(member *Member) (string, error) {
	if member == nil {
		return "", errors.New("member must not be nil")
	}
	if entry, found := s.lastTyped(member.Kind); found {
		return TypeIdentity(entry.ContractType), nil
	}
	return s.base.ImportTypeIdentity(member)
}

// lastNamed returns the most recently registered entry carrying a contract
// name for the given kind.
func (s *ConventionContractService) lastNamed(kind MemberKind) (DefaultConvention, bool) {
	for i := len(s.defaults) - 1; i >= 0; i-- {
		if s.defaults[i].Kind == kind && s.defaults[i].ContractName != "" {
			return s.defaults[i], true
		}
	}
	return DefaultConvention{}, false
}

// lastTyped returns the most recently registered entry carrying a contract
// type for the given kind.
func (s *ConventionContractService) lastTyped(kind MemberKind) (DefaultConvention, bool) {
	for i := len(s.defaults) - 1; i >= 0; i-- {
		if s.defaults[i].Kind == kind && s.defaults[i].ContractType != nil {
			return s.defaults[i], true
		}
	}
	return DefaultConvention{}, false
}

// ConventionBuilder accumulates default-convention overrides through a
// fluent chain. Entries are kept in declaration order, so a later entry
// takes precedence over an earlier one for the same member kind.
type ConventionBuilder struct {
	entries []DefaultConvention
}

// Conventions starts a fluent declaration of default-convention overrides.
//
//	service := Conventions().
//		ForKind(MemberField).ContractName("logger").
//		ForKind(MemberConstructor).ContractType(loggerType).
//		Configure(nil)
func Conventions() *ConventionBuilder {
	return &ConventionBuilder{}
}

// ForKind opens a new convention entry for the given member kind.
func (b *ConventionBuilder) ForKind(kind MemberKind) *ConventionEntryBuilder {
	b.entries = append(b.entries, DefaultConvention{Kind: kind})
	return &ConventionEntryBuilder{builder: b, index: len(b.entries) - 1}
}

// Configure applies the accumulated entries to the given service, after any
// conventions it already holds. A nil service gets a fresh one backed by
// BaseContractService.
func (b *ConventionBuilder) Configure(service *ConventionContractService) *ConventionContractService {
	if service == nil {
		service = NewConventionContractService(nil)
	}
	return service.Add(b.entries...)
}

// ConventionEntryBuilder sets the contract overrides of a single entry.
type ConventionEntryBuilder struct {
	builder *ConventionBuilder
	index   int
}

// ContractName sets the contract name this entry resolves members to.
func (e *ConventionEntryBuilder) ContractName(name string) *ConventionEntryBuilder {
	e.builder.entries[e.index].ContractName = name
	return e
}

// ContractType sets the contract type this entry resolves members to.
func (e *ConventionEntryBuilder) ContractType(typ reflect.Type) *ConventionEntryBuilder {
	e.builder.entries[e.index].ContractType = typ
	return e
}

// ForKind closes the current entry and opens the next one.
func (e *ConventionEntryBuilder) ForKind(kind MemberKind) *ConventionEntryBuilder {
	return e.builder.ForKind(kind)
}

// Configure applies every entry declared so far, see ConventionBuilder.Configure.
func (e *ConventionEntryBuilder) Configure(service *ConventionContractService) *ConventionContractService {
	return e.builder.Configure(service)
}

// DefineConventionPart builds a single-export part definition whose contract
// name and type identity are derived from the constructor member through the
// given contract service.
func DefineConventionPart[T any](service ContractService, constructor func() (T, error), opts ...option.Option[PartOptions]) (PartDefinition, error) {
	if service == nil {
		return nil, errors.New("service must not be nil")
	}
	if constructor == nil {
		return nil, errors.New("constructor must not be nil")
	}

	fnName := filepath.Base(runtime.FuncForPC(reflect.ValueOf(constructor).Pointer()).Name())
	member := &Member{
		Kind: MemberConstructor,
		Name: fnName,
		Type: TypeOf[T](),
	}

	name, err := service.ExportContractName(member)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve contract name for %s:\n\t%w", member, err)
	}
	identity, err := service.ExportTypeIdentity(member)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve type identity for %s:\n\t%w", member, err)
	}

	definition := NewExportDefinition(
		NewContract(name, TypeOf[T]()),
		map[string]any{MetadataTypeIdentity: identity},
	)

	create := func() (ComposablePart, error) {
		part := NewPart(opts...)
		part.exports = append(part.exports, partExport{
			definition: definition,
			value: memo.New(func() (any, error) {
				return constructor()
			}),
		})
		return part, nil
	}

	seed := NewPart(opts...)
	return &staticPartDefinition{
		exports:  append([]ExportDefinition{definition}, seed.ExportDefinitions()...),
		imports:  seed.ImportDefinitions(),
		metadata: seed.Metadata(),
		create:   create,
	}, nil
}
