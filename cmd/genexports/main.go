package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/partwire/partwire/slices"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	targetDir string
	dryRun    bool
	verbose   bool

	rootCmd = &cobra.Command{
		Use:   "genexports",
		Short: "Generate container registrations from annotated constructors",
		Long: `genexports scans the module for constructor functions annotated with
@export and config structs annotated with @config, and generates a Register
method on the registry struct of the target package wiring them all into a
container.

The target package must declare a struct embedding partwire.EmptyRegistry.`,
		RunE: run,
	}
)

func init() {
	rootCmd.Flags().StringVar(&targetDir, "target", ".", "directory of the package the registrations are generated into")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "write the generated code to /tmp instead of the target package")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

func run(_ *cobra.Command, _ []string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		Level(level).
		With().
		Timestamp().
		Logger()

	absTarget, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("unable to resolve target directory %s:\n\t%w", targetDir, err)
	}

	moduleRoot, err := findModuleRoot(absTarget)
	if err != nil {
		return err
	}

	startScan := time.Now()
	result, err := scanModule(&logger, moduleRoot, absTarget)
	if err != nil {
		return err
	}

	if result.registry == nil {
		return fmt.Errorf(
			"no registry struct found in %s, declare one like this:\n\ntype Registry struct {\n\tpartwire.EmptyRegistry\n}",
			absTarget,
		)
	}

	logger.Info().Msgf("registry found: %s.%s", result.registry.PackageName, result.registry.StructName)
	logger.Info().Msgf("%d exported constructors found", len(result.factories))
	logger.Debug().Msgf("constructors:\n%s", strings.Join(slices.Map(result.factories, FactoryDefinition.String), "\n"))
	logger.Info().Msgf("%d config structs found", len(result.configs))
	logger.Debug().Msgf("configs:\n%s", strings.Join(slices.Map(result.configs, ConfigDefinition.String), "\n"))
	logger.Info().Msgf("scanning completed in %s", time.Since(startScan))

	outputPath := filepath.Join(absTarget, "registry_gen.go")
	if dryRun {
		outputPath = filepath.Join(os.TempDir(), "registry_gen.go")
	}

	if err = generateCode(outputPath, result); err != nil {
		return fmt.Errorf("failed to generate code in %s:\n\t%w", outputPath, err)
	}
	logger.Info().Msgf("code generated in %s", outputPath)

	return nil
}

// findModuleRoot walks up from dir until it finds a go.mod.
func findModuleRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod found above %s", dir)
		}
		dir = parent
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
