package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/partwire/partwire"
	"github.com/partwire/partwire/playground/app/appconfig"
	"github.com/partwire/partwire/playground/app/greet"
	"github.com/partwire/partwire/playground/app/registry"
	"github.com/partwire/partwire/runner"
	"github.com/rs/zerolog"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().
		Timestamp().
		Logger()

	container := partwire.New(partwire.WithLogger(logger))
	//goland:noinspection GoUnhandledErrorResult
	defer container.Close()

	container.MustRegisterProvider(&partwire.EnvExportProvider{})

	contextProvider := partwire.NewFactoryExportProvider()
	if err := partwire.RegisterSingleton(contextProvider, func(*partwire.Resolver) (context.Context, error) {
		return runner.WithSignalContext(context.Background()), nil
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to register the application context")
	}
	container.MustRegisterProvider(contextProvider)

	if err := (registry.Registry{}).Register(container); err != nil {
		logger.Fatal().Err(err).Msg("failed to register generated exports")
	}

	container.MustRegisterProvider(partwire.NewCatalogExportProvider(buildGreetCatalog(&logger, container)))

	logger.Info().Msgf("here is what we have in store before running:\n%s", container.Describe())

	if err := runner.Run(container); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("error running app")
	}

	logger.Info().Msg("bye.")
}

// buildGreetCatalog declares the greeting service as a catalog part, and
// intercepts it so every composed instance is logged on its way out.
func buildGreetCatalog(logger *zerolog.Logger, container *partwire.Container) *partwire.Catalog {
	catalog := partwire.NewCatalog(
		partwire.NewTemplatePartDefinition(
			partwire.ExportFactory("greet.service", func() (*greet.Service, error) {
				cfg, err := partwire.Resolve[*appconfig.Config](container)
				if err != nil {
					return nil, err
				}
				return greet.NewService(cfg.Greeting), nil
			}),
			partwire.PartMetadata("audited", true),
		),
	)

	intercepted, err := partwire.InterceptCatalog(
		catalog,
		partwire.NewInterceptionConfiguration().AddInterceptorFor(
			func(definition partwire.PartDefinition) bool {
				audited, _ := definition.Metadata()["audited"].(bool)
				return audited
			},
			partwire.InterceptorFunc(func(value any) (any, error) {
				logger.Debug().Msgf("composed value %T going through interception", value)
				return value, nil
			}),
		),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to intercept the greet catalog")
	}
	return intercepted
}
