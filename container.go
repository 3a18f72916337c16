package partwire

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/partwire/partwire/fn"
	"github.com/partwire/partwire/option"
	"github.com/rs/zerolog"
)

type (
	// Container aggregates export providers and resolves imports against
	// them. It is the composition root of an application.
	Container struct {
		providers *SortedCOWSlice[ExportProvider]
		disposals *disposalRegistry

		logger zerolog.Logger
	}

	ContainerOptions struct {
		logger zerolog.Logger
	}
)

// WithLogger injects the logger used for composition tracing. The default is
// a disabled logger.
func WithLogger(logger zerolog.Logger) option.Option[ContainerOptions] {
	return func(opts *ContainerOptions) {
		opts.logger = logger
	}
}

func New(opts ...option.Option[ContainerOptions]) *Container {
	options := option.Build(
		&ContainerOptions{logger: zerolog.Nop()},
		opts...,
	)

	c := &Container{
		providers: NewSortedCOWSlice[ExportProvider](fn.ReverseComparator(compareByPriority)),
		disposals: newDisposalRegistry(),
		logger:    options.logger,
	}

	// Register itself as a static export.
	//
	// So factories can resolve the container lazily to break construction
	// ordering knots.
	c.MustRegisterProvider(NewStaticExportProvider("partwire.container", c))

	return c
}

func (c *Container) scope() *Resolver {
	return &Resolver{container: c, tracker: NewTracker()}
}

// RegisterProvider adds an export provider to the container. Conditions
// attached via When(...) may silently skip the registration.
func (c *Container) RegisterProvider(provider ExportProvider, opts ...option.Option[RegisterOptions]) error {
	if provider == nil {
		return errors.New("provider must not be nil")
	}

	options := option.Build(&RegisterOptions{}, opts...)

	// validate the conditions if any, they might prevent the registration
	for _, cond := range options.conditions {
		if !c.validateCondition(cond) {
			return nil
		}
	}

	c.providers.Add(provider)
	c.logger.Debug().
		Str("provider", describeProvider(provider)).
		Int("priority", provider.Priority()).
		Msg("registered export provider")

	return nil
}

func (c *Container) MustRegisterProvider(provider ExportProvider, opts ...option.Option[RegisterOptions]) *Container {
	err := c.RegisterProvider(provider, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to register provider %T:\n\t%v", provider, err))
	}
	return c
}

func (c *Container) validateCondition(cond condition) bool {
	val, found, err := TryResolveNamed[string](c, cond.namedStringExport)
	if err != nil || !found {
		return false
	}

	return cond.operator(val, cond.value)
}

func (c *Container) collectExports(definition ImportDefinition, r *Resolver) ([]*Export, error) {
	var collected []*Export
	for _, provider := range c.providers.All() {
		exports, err := provider.GetExports(definition, r)
		if err != nil {
			return nil, fmt.Errorf("provider %s failed to answer query %s:\n\t%w", describeProvider(provider), definition, err)
		}
		collected = append(collected, exports...)
	}
	return collected, nil
}

// Close closes every resolved component that requires cleanup.
func (c *Container) Close() error {
	return c.disposals.close()
}

func (c *Container) Describe() string {
	var b strings.Builder
	b.WriteString("* Providers:\n")
	for _, p := range c.providers.All() {
		b.WriteString(fmt.Sprintf("\t- %s (priority=%d)\n", describeProvider(p), p.Priority()))
		if desc := p.Description(); desc != "" {
			b.WriteString(fmt.Sprintf("\t\tdescription: %s\n", desc))
		}
		b.WriteString("\t\texports:\n")
		for _, contract := range p.ListExportedContracts() {
			b.WriteString(fmt.Sprintf("\t\t\t- %s\n", contract))
		}
	}
	return b.String()
}

func compareByPriority(p1, p2 ExportProvider) fn.ComparisonResult {
	if p1.Priority() < p2.Priority() {
		return fn.Less
	}
	if p1.Priority() > p2.Priority() {
		return fn.Greater
	}
	return fn.Equal
}

func describeProvider(p ExportProvider) string {
	if reflect.TypeOf(p).Implements(StringerType) {
		return p.(fmt.Stringer).String()
	}
	return fmt.Sprintf("%T", p)
}
