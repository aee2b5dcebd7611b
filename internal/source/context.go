package source

import "github.com/tinywhale-lang/tinywhale/internal/diagnostics"

// CompilationContext bundles every arena store and the diagnostic log for a
// single compile. One CompilationContext is created per call to the root
// Compile façade and threaded through preprocess, lexer, parser, checker,
// and codegen: no phase keeps its own copy of any store.
type CompilationContext struct {
	Filename string
	Source   string

	Strings *StringStore
	Floats  *FloatStore
	Tokens  *TokenStore
	Nodes   *NodeStore
	Types   *TypeStore
	Symbols *SymbolStore
	Insts   *InstStore

	Diags *diagnostics.Log
}

// NewCompilationContext returns a fresh context over filename/source, with
// every store initialized (the TypeStore pre-seeded with the four builtins).
func NewCompilationContext(filename, src string) *CompilationContext {
	return &CompilationContext{
		Filename: filename,
		Source:   src,
		Strings:  NewStringStore(),
		Floats:   NewFloatStore(),
		Tokens:   NewTokenStore(),
		Nodes:    NewNodeStore(),
		Types:    NewTypeStore(),
		Symbols:  NewSymbolStore(),
		Insts:    NewInstStore(),
		Diags:    diagnostics.NewLog(filename, src),
	}
}
