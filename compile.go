// Package tinywhale compiles TinyWhale source into a WebAssembly module. It
// is the thin façade over the phase pipeline in internal/: preprocess,
// lexer, parser, checker, codegen, each already independently testable, run
// in sequence the way the teacher's own runtime/executor drives a pipeline
// of independently-named stages over a single shared context.
package tinywhale

import (
	"context"
	"fmt"

	"github.com/tinywhale-lang/tinywhale/internal/buildcache"
	"github.com/tinywhale-lang/tinywhale/internal/checker"
	"github.com/tinywhale-lang/tinywhale/internal/codegen"
	"github.com/tinywhale-lang/tinywhale/internal/diagnostics"
	"github.com/tinywhale-lang/tinywhale/internal/invariant"
	"github.com/tinywhale-lang/tinywhale/internal/lexer"
	"github.com/tinywhale-lang/tinywhale/internal/parser"
	"github.com/tinywhale-lang/tinywhale/internal/preprocess"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

// Options controls how Compile lowers a source file, beyond the source
// text itself.
type Options struct {
	// Filename is used only for diagnostic spans; it need not exist on disk.
	Filename string

	// Optimize only feeds the build cache key; it does not reach codegen
	// and no optimization pass exists (see Non-goals).
	Optimize bool

	// DisableCache bypasses the build cache entirely, even when Compile is
	// called through a cache-aware entry point. A cache hit is required to
	// return exactly what a fresh compile would, so this only exists for
	// callers that want to rule the cache out while debugging a suspected
	// staleness bug.
	DisableCache bool
}

// Result is everything a successful compile produced: the binary module,
// its .wat text, and the diagnostics log the whole pipeline accumulated
// (a successful compile can still carry warnings, e.g. TWCHECK050).
type Result struct {
	WasmBytes []byte
	WatText   string
	Diags     *diagnostics.Log
}

// CompileError reports that a compile failed; Diagnostics holds every
// Error-severity entry the pipeline accumulated before giving up.
type CompileError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *CompileError) Error() string {
	if len(e.Diagnostics) == 0 {
		return "compile failed"
	}
	return fmt.Sprintf("%s [%s]: %s", e.Diagnostics[0].Severity, e.Diagnostics[0].Code, e.Diagnostics[0].Message)
}

// Compile runs every phase over src and returns the generated module. The
// returned Result's Diags is never nil, even on failure, and holds every
// diagnostic (errors and warnings) the pipeline accumulated; the returned
// error is a *CompileError carrying just the Error-severity subset.
func Compile(src string, opts Options) (Result, error) {
	ctx := source.NewCompilationContext(opts.Filename, src)
	failed := func() (Result, error) {
		return Result{Diags: ctx.Diags}, &CompileError{Diagnostics: ctx.Diags.Errors()}
	}

	marked, ok := preprocess.Run(ctx)
	if !ok {
		return failed()
	}

	lexer.Run(ctx, marked)
	if ctx.Diags.HasErrors() {
		return failed()
	}

	if !parser.Run(ctx) {
		return failed()
	}

	checked, ok := checker.Run(ctx)
	if !ok {
		return failed()
	}

	wasmBytes, ok := codegen.Generate(ctx, checked)
	if !ok {
		return failed()
	}
	watText := codegen.GenerateText(ctx, checked)

	if err := codegen.Validate(context.Background(), wasmBytes); err != nil {
		invariant.Invariant(false, "codegen emitted a module that failed wasm validation: %v", err)
	}

	return Result{WasmBytes: wasmBytes, WatText: watText, Diags: ctx.Diags}, nil
}

// CompileCached is Compile, memoized by the blake2b hash of
// (opts.Filename, src, opts). Only compiles that succeed without a single
// diagnostic are stored, so a cache hit skips every phase entirely and
// returns exactly the Result a fresh compile would have produced (an empty
// diagnostics log included); opts.DisableCache bypasses the cache in both
// directions.
func CompileCached(cache *buildcache.Cache, src string, opts Options) (Result, error) {
	if opts.DisableCache {
		return Compile(src, opts)
	}

	key := buildcache.Key(opts.Filename, src, buildcache.Options{Optimize: opts.Optimize})
	if entry, ok := cache.Get(key); ok && entry.OK {
		return Result{WasmBytes: entry.WasmBytes, WatText: entry.WatText, Diags: diagnostics.NewLog(opts.Filename, src)}, nil
	}

	result, err := Compile(src, opts)
	if err == nil && len(result.Diags.All()) == 0 {
		cache.Put(key, buildcache.Entry{WasmBytes: result.WasmBytes, WatText: result.WatText, OK: true})
	}
	return result, err
}
