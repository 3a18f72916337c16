package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/partwire/partwire/set"
)

const (
	partwireImportPath = "github.com/partwire/partwire"
	configImportPath   = "github.com/partwire/partwire/config"
)

// generateCode writes the Register method for the registry struct, wiring
// every scanned constructor and config struct into a container.
func generateCode(outputPath string, result *scanResult) error {
	factories := append([]FactoryDefinition(nil), result.factories...)
	sort.Slice(factories, func(i, j int) bool {
		if factories[i].ImportPath != factories[j].ImportPath {
			return factories[i].ImportPath < factories[j].ImportPath
		}
		return factories[i].FnName < factories[j].FnName
	})
	configs := append([]ConfigDefinition(nil), result.configs...)
	sort.Slice(configs, func(i, j int) bool {
		if configs[i].ImportPath != configs[j].ImportPath {
			return configs[i].ImportPath < configs[j].ImportPath
		}
		return configs[i].TypeName < configs[j].TypeName
	})

	aliases := buildImportAliases(factories, configs)

	var b strings.Builder
	b.WriteString("// Code generated by genexports. DO NOT EDIT.\n\n")
	b.WriteString(fmt.Sprintf("package %s\n\n", result.registry.PackageName))

	writeImports(&b, aliases, len(configs) > 0)

	b.WriteString(fmt.Sprintf(
		"// Register wires every annotated constructor and config struct into the\n// given container.\nfunc (r %s) Register(container *partwire.Container) error {\n",
		result.registry.StructName,
	))

	for i, cfg := range configs {
		varName := "cfg"
		if i > 0 {
			varName = fmt.Sprintf("cfg%d", i)
		}
		fqn := fmt.Sprintf("%s.%s", aliases[cfg.ImportPath], cfg.TypeName)
		b.WriteString(fmt.Sprintf("\t%s, err := config.Load[%s]()\n", varName, fqn))
		b.WriteString("\tif err != nil {\n\t\treturn err\n\t}\n")
		b.WriteString(fmt.Sprintf(
			"\tcontainer.MustRegisterProvider(partwire.NewStaticExportProvider(%q, %s))\n",
			cfg.Named, varName,
		))
		b.WriteString(fmt.Sprintf(
			"\tcontainer.MustRegisterProvider(&partwire.ConfigExportProvider[%s]{})\n\n",
			fqn,
		))
	}

	b.WriteString("\tprovider := partwire.NewFactoryExportProvider()\n")
	for _, factory := range factories {
		registerFn := "RegisterReflected"
		if factory.Singleton {
			registerFn = "RegisterReflectedSingleton"
		}
		args := fmt.Sprintf("provider, %s.%s", aliases[factory.ImportPath], factory.FnName)
		if factory.Named != "" {
			args += fmt.Sprintf(", partwire.Named(%q)", factory.Named)
		}
		b.WriteString(fmt.Sprintf(
			"\tif err := partwire.%s(%s); err != nil {\n\t\treturn err\n\t}\n",
			registerFn, args,
		))
	}
	b.WriteString("\n\treturn container.RegisterProvider(provider)\n}\n")

	return os.WriteFile(outputPath, []byte(b.String()), 0o644)
}

func writeImports(b *strings.Builder, aliases map[string]string, withConfig bool) {
	b.WriteString("import (\n")
	b.WriteString(fmt.Sprintf("\t\"%s\"\n", partwireImportPath))
	if withConfig {
		b.WriteString(fmt.Sprintf("\t\"%s\"\n", configImportPath))
	}

	paths := make([]string, 0, len(aliases))
	for path := range aliases {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	if len(paths) > 0 {
		b.WriteString("\n")
	}
	for _, path := range paths {
		b.WriteString(fmt.Sprintf("\t%s \"%s\"\n", aliases[path], path))
	}
	b.WriteString(")\n\n")
}

// buildImportAliases assigns a collision-free alias to every import path the
// generated code references.
func buildImportAliases(factories []FactoryDefinition, configs []ConfigDefinition) map[string]string {
	// the fixed imports reserve their aliases
	used := set.NewWithValues("partwire", "config")

	aliases := make(map[string]string)
	assign := func(path string) {
		if _, done := aliases[path]; done {
			return
		}
		alias := findSuitableAlias(path, used)
		used.Add(alias)
		aliases[path] = alias
	}

	for _, factory := range factories {
		assign(factory.ImportPath)
	}
	for _, cfg := range configs {
		assign(cfg.ImportPath)
	}
	return aliases
}

// findSuitableAlias derives an alias from the last token of the import path,
// prepending the first letter of the preceding tokens until the alias is
// free, then falling back to a numbered suffix.
func findSuitableAlias(importPath string, used set.Set[string]) string {
	tokens := strings.Split(importPath, "/")
	alias := sanitizeAlias(tokens[len(tokens)-1])

	for idx := len(tokens) - 2; used.Contains(alias) && idx >= 0; idx-- {
		alias = string(tokens[idx][0]) + alias
	}

	if used.Contains(alias) {
		base := alias
		for i := 0; used.Contains(alias); i++ {
			alias = fmt.Sprintf("%s%d", base, i)
		}
	}

	return alias
}

func sanitizeAlias(token string) string {
	var b strings.Builder
	for _, r := range token {
		if r == '-' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
