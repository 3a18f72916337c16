package partwire

import "github.com/partwire/partwire/option"

type (
	// RegisterOptions controls provider registration on the container.
	RegisterOptions struct {
		conditions []condition
	}

	condition struct {
		namedStringExport string
		operator          operator
		value             string
	}

	operator = func(string, string) bool

	ConditionNameBuilder struct {
		namedStringExport string
	}
)

//goland:noinspection GoVarAndConstTypeMayBeOmitted
var (
	equals operator = func(a, b string) bool {
		return a == b
	}

	notEquals operator = func(a, b string) bool {
		return a != b
	}
)

// When starts a registration condition on a named string export, typically
// an environment variable or configuration field.
func When(namedStringExport string) ConditionNameBuilder {
	return ConditionNameBuilder{
		namedStringExport: namedStringExport,
	}
}

func (cn ConditionNameBuilder) Equals(value string) option.Option[RegisterOptions] {
	return func(opts *RegisterOptions) {
		opts.conditions = append(
			opts.conditions,
			condition{
				namedStringExport: cn.namedStringExport,
				operator:          equals,
				value:             value,
			},
		)
	}
}

func (cn ConditionNameBuilder) NotEquals(value string) option.Option[RegisterOptions] {
	return func(opts *RegisterOptions) {
		opts.conditions = append(
			opts.conditions,
			condition{
				namedStringExport: cn.namedStringExport,
				operator:          notEquals,
				value:             value,
			},
		)
	}
}
