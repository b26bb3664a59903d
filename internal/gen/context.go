package gen

import "sort"

// GenerationContext holds the pending collections of one pass. It is
// created by the pass and dropped with it.
type GenerationContext struct {
	// Imports collects the packages the emitted code needs
	Imports map[string]string // path -> alias (empty string for no alias)

	// Definitions holds helper code emitted ahead of the body, keyed by the
	// desired name of the helper
	Definitions map[string]string

	// FunctionNames maps a desired helper name to the name actually issued
	FunctionNames map[string]string

	// SetValueVars holds the temporaries issued for each set_value name,
	// keyed by the resolved variable name
	SetValueVars map[string]SetValueVars

	definitionOrder []string
	declared        map[string]bool
}

// SetValueVars names the parsed value and the error variable of a set_value
type SetValueVars struct {
	Value string
	Err   string
}

// NewGenerationContext creates an empty context
func NewGenerationContext() *GenerationContext {
	return &GenerationContext{
		Imports:       make(map[string]string),
		Definitions:   make(map[string]string),
		FunctionNames: make(map[string]string),
		SetValueVars:  make(map[string]SetValueVars),
		declared:      make(map[string]bool),
	}
}

// AddImport adds an import to the context
func (ctx *GenerationContext) AddImport(path string) {
	if _, exists := ctx.Imports[path]; !exists {
		ctx.Imports[path] = ""
	}
}

// AddImportAlias adds an aliased import
func (ctx *GenerationContext) AddImportAlias(alias, path string) {
	ctx.Imports[path] = alias
}

// SortedImports returns the import paths in lexical order
func (ctx *GenerationContext) SortedImports() []string {
	paths := make([]string, 0, len(ctx.Imports))
	for path := range ctx.Imports {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// AddDefinition records helper code once; later calls with the same name
// are ignored.
func (ctx *GenerationContext) AddDefinition(name, code string) {
	if _, exists := ctx.Definitions[name]; exists {
		return
	}
	ctx.Definitions[name] = code
	ctx.definitionOrder = append(ctx.definitionOrder, name)
}

// OrderedDefinitions returns the definitions in the order they were added
func (ctx *GenerationContext) OrderedDefinitions() []string {
	defs := make([]string, 0, len(ctx.definitionOrder))
	for _, name := range ctx.definitionOrder {
		defs = append(defs, ctx.Definitions[name])
	}
	return defs
}

// Declare marks a variable as declared and reports whether it was new
func (ctx *GenerationContext) Declare(name string) bool {
	if ctx.declared[name] {
		return false
	}
	ctx.declared[name] = true
	return true
}
