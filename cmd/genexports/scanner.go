package main

import (
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/partwire/partwire/concurrent"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"
)

const (
	exportAnnotationTag = "@export"
	configAnnotationTag = "@config"
)

type (
	// FactoryDefinition describes a constructor function annotated with
	// @export.
	FactoryDefinition struct {
		FnName      string
		ImportPath  string
		Description string

		Named     string
		Singleton bool
	}

	// ConfigDefinition describes a struct annotated with @config.
	ConfigDefinition struct {
		TypeName   string
		ImportPath string

		Named string
	}

	// RegistryDefinition is the struct embedding partwire.EmptyRegistry the
	// generated Register method is attached to.
	RegistryDefinition struct {
		PackageName string
		StructName  string
	}

	scanResult struct {
		registry  *RegistryDefinition
		factories []FactoryDefinition
		configs   []ConfigDefinition
	}
)

func (f FactoryDefinition) String() string {
	return fmt.Sprintf("%s (%s) named=%q singleton=%t", f.FnName, f.ImportPath, f.Named, f.Singleton)
}

func (c ConfigDefinition) String() string {
	return fmt.Sprintf("%s (%s) named=%q", c.TypeName, c.ImportPath, c.Named)
}

// scanModule analyzes every package of the module, looking for @export
// constructors, @config structs, and the registry struct in the target
// directory. Packages are scanned concurrently.
func scanModule(logger *zerolog.Logger, moduleRoot string, targetDir string) (*scanResult, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:  moduleRoot,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("failed to load packages from %s:\n\t%w", moduleRoot, err)
	}

	factories := concurrent.NewSlice[FactoryDefinition]()
	configs := concurrent.NewSlice[ConfigDefinition]()
	registries := concurrent.NewSlice[RegistryDefinition]()

	var group errgroup.Group
	for _, pkg := range pkgs {
		pkg := pkg
		group.Go(func() error {
			scanPackage(logger, pkg, targetDir, factories, configs, registries)
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		return nil, err
	}

	result := &scanResult{
		factories: factories.Get(),
		configs:   configs.Get(),
	}
	if registries.Length() > 0 {
		registry := registries.GetAt(0)
		result.registry = &registry
	}

	return result, nil
}

func scanPackage(
	logger *zerolog.Logger,
	pkg *packages.Package,
	targetDir string,
	factories *concurrent.Slice[FactoryDefinition],
	configs *concurrent.Slice[ConfigDefinition],
	registries *concurrent.Slice[RegistryDefinition],
) {
	pkgLogger := logger.With().Str("package", pkg.ID).Logger()
	pkgLogger.Debug().Msg("scanning package")

	for _, file := range pkg.Syntax {
		filePath := pkg.Fset.Position(file.Pos()).Filename
		inTargetPackage := filepath.Dir(filePath) == targetDir

		ast.Inspect(file, func(n ast.Node) bool {
			switch decl := n.(type) {
			case *ast.FuncDecl:
				if decl.Doc == nil || !strings.Contains(decl.Doc.Text(), exportAnnotationTag) {
					return true
				}

				fnLogger := pkgLogger.With().Str("constructor", decl.Name.Name).Logger()
				fnLogger.Debug().Msg("found exported constructor")

				annotation := parseAnnotation(&fnLogger, decl.Doc.Text(), exportAnnotationTag)
				factories.Append(FactoryDefinition{
					FnName:      decl.Name.Name,
					ImportPath:  pkg.ID,
					Description: annotation.description,
					Named:       annotation.Named(),
					Singleton:   annotation.Singleton(),
				})

			case *ast.GenDecl:
				if decl.Tok != token.TYPE {
					return true
				}
				for _, spec := range decl.Specs {
					typeSpec, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					structType, ok := typeSpec.Type.(*ast.StructType)
					if !ok {
						continue
					}

					if decl.Doc != nil && strings.Contains(decl.Doc.Text(), configAnnotationTag) {
						cfgLogger := pkgLogger.With().Str("struct", typeSpec.Name.Name).Logger()
						cfgLogger.Debug().Msg("found config struct")

						annotation := parseAnnotation(&cfgLogger, decl.Doc.Text(), configAnnotationTag)
						named := annotation.Named()
						if named == "" {
							named = "config"
						}
						configs.Append(ConfigDefinition{
							TypeName:   typeSpec.Name.Name,
							ImportPath: pkg.ID,
							Named:      named,
						})
					}

					// the registry struct only counts in the target package
					if inTargetPackage && embedsEmptyRegistry(structType) {
						pkgLogger.Debug().Str("struct", typeSpec.Name.Name).Msg("found registry")
						registries.Append(RegistryDefinition{
							PackageName: file.Name.Name,
							StructName:  typeSpec.Name.Name,
						})
					}
				}
			}
			return true
		})
	}
}

func embedsEmptyRegistry(structType *ast.StructType) bool {
	for _, field := range structType.Fields.List {
		if len(field.Names) != 0 { // not an embedded field
			continue
		}
		sel, ok := field.Type.(*ast.SelectorExpr)
		if !ok {
			continue
		}
		if ident, ok := sel.X.(*ast.Ident); ok && ident.Name == "partwire" && sel.Sel.Name == "EmptyRegistry" {
			return true
		}
	}
	return false
}
