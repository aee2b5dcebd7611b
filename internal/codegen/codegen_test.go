package codegen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywhale-lang/tinywhale/internal/checker"
	"github.com/tinywhale-lang/tinywhale/internal/lexer"
	"github.com/tinywhale-lang/tinywhale/internal/parser"
	"github.com/tinywhale-lang/tinywhale/internal/preprocess"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

func checkSrc(t *testing.T, src string) (*source.CompilationContext, *checker.Result) {
	t.Helper()
	ctx := source.NewCompilationContext("test.tw", src)
	marked, ok := preprocess.Run(ctx)
	require.True(t, ok, "preprocess errors: %v", ctx.Diags.Errors())

	lexer.Run(ctx, marked)
	require.True(t, parser.Run(ctx), "parse errors: %v", ctx.Diags.Errors())

	result, ok := checker.Run(ctx)
	require.True(t, ok, "check errors: %v", ctx.Diags.Errors())
	return ctx, result
}

func TestGenerateEmitsValidMagicAndVersion(t *testing.T) {
	ctx, checked := checkSrc(t, "a: i32 = 1\nb: i32 = 2\nc: i32 = a + b\n")
	wasmBytes, ok := Generate(ctx, checked)
	require.True(t, ok, "Generate failed unexpectedly")

	require.GreaterOrEqual(t, len(wasmBytes), 8, "module too short")
	assert.Equal(t, []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}, wasmBytes[:8])
}

func TestGenerateValidatesUnderWazero(t *testing.T) {
	ctx, checked := checkSrc(t, "a: i32 = 1\nb: i32 = 2\nc: i32 = a + b\n")
	wasmBytes, ok := Generate(ctx, checked)
	require.True(t, ok, "Generate failed unexpectedly")
	assert.NoError(t, Validate(context.Background(), wasmBytes))
}

func TestGenerateEmitsSingleStartFunction(t *testing.T) {
	ctx, checked := checkSrc(t, "a: i32 = 1\n")
	wasmBytes, ok := Generate(ctx, checked)
	require.True(t, ok, "Generate failed unexpectedly")

	startAt := -1
	// Section id 8 (Start) must be present and must byte-encode function
	// index 0, the only function this module ever declares.
	for i := 8; i < len(wasmBytes); i++ {
		if wasmBytes[i] == sectionStart {
			startAt = i
			break
		}
	}
	require.True(t, startAt >= 0, "expected a Start (id 8) section in the binary module")
	require.Equal(t, []byte{1, 0}, wasmBytes[startAt+1:startAt+3], "expected a one-byte Start payload naming function index 0")
}

func TestGenerateDivergingProgramStillProducesAValidModule(t *testing.T) {
	ctx, checked := checkSrc(t, "panic\n")
	wasmBytes, ok := Generate(ctx, checked)
	require.True(t, ok, "Generate failed unexpectedly")
	assert.NoError(t, Validate(context.Background(), wasmBytes))
}

func TestGenerateRecordBindingFlattensLocals(t *testing.T) {
	src := "type Point\n  x: i32\n  y: i32\np: Point = \n  x: 1\n  y: 2\n"
	ctx, checked := checkSrc(t, src)
	wasmBytes, ok := Generate(ctx, checked)
	require.True(t, ok, "Generate failed unexpectedly")
	assert.NoError(t, Validate(context.Background(), wasmBytes))
}

func TestGenerateMatchLowersToSelectCascadeAndValidates(t *testing.T) {
	src := "n: i32 = 1\nc: i32 = match n\n  0 -> 100\n  1 -> 200\n  _ -> 300\n"
	ctx, checked := checkSrc(t, src)
	wasmBytes, ok := Generate(ctx, checked)
	require.True(t, ok, "Generate failed unexpectedly")
	assert.NoError(t, Validate(context.Background(), wasmBytes))
}

func TestGenerateOnEmptyInstructionStreamFails(t *testing.T) {
	ctx := source.NewCompilationContext("test.tw", "")
	_, ok := Generate(ctx, nil)
	require.False(t, ok, "expected Generate to fail on an empty instruction stream")
	require.True(t, ctx.Diags.HasErrors(), "expected a TWGEN001 diagnostic")
}

func TestGenerateTextContainsExpectedMnemonicsAndStartClause(t *testing.T) {
	ctx, checked := checkSrc(t, "a: i32 = 1\nb: i32 = 2\nc: i32 = a + b\n")
	text := GenerateText(ctx, checked)
	for _, want := range []string{"(module", "func $_start", "(export \"_start\")", "i32.add", "(start $_start)"} {
		assert.Contains(t, text, want)
	}
}

func TestGenerateLocalIndicesMatchSymbolDeclarationOrder(t *testing.T) {
	_, checked := checkSrc(t, "a: i32 = 1\nb: i32 = 2\nc: i32 = a + b\n")
	for i, sym := range checked.Locals {
		assert.Equal(t, uint32(i), uint32(sym), "local %d", i)
	}
}
