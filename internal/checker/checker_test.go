package checker

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tinywhale-lang/tinywhale/internal/lexer"
	"github.com/tinywhale-lang/tinywhale/internal/parser"
	"github.com/tinywhale-lang/tinywhale/internal/preprocess"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

// compile runs every phase up through the checker and fails the test if any
// phase reports an error, returning the checker's Result for inspection.
func compile(t *testing.T, src string) (*source.CompilationContext, *Result) {
	t.Helper()
	ctx := source.NewCompilationContext("test.tw", src)
	marked, ok := preprocess.Run(ctx)
	if !ok {
		t.Fatalf("preprocess errors: %v", ctx.Diags.Errors())
	}
	lexer.Run(ctx, marked)
	if !parser.Run(ctx) {
		t.Fatalf("parse errors: %v", ctx.Diags.Errors())
	}
	result, ok := Run(ctx)
	if !ok {
		t.Fatalf("check errors: %v", ctx.Diags.Errors())
	}
	return ctx, result
}

func compileExpectError(t *testing.T, src string) {
	t.Helper()
	ctx := source.NewCompilationContext("test.tw", src)
	marked, ok := preprocess.Run(ctx)
	if !ok {
		t.Fatalf("preprocess errors: %v", ctx.Diags.Errors())
	}
	lexer.Run(ctx, marked)
	if !parser.Run(ctx) {
		t.Fatalf("parse errors: %v", ctx.Diags.Errors())
	}
	if _, ok := Run(ctx); ok {
		t.Fatalf("expected check to fail, but it succeeded")
	}
}

func TestSimpleBindingChecksAndLowers(t *testing.T) {
	_, result := compile(t, "a: i32 = 1\nb: i32 = a + 1\n")
	if len(result.Locals) != 2 {
		t.Fatalf("expected 2 locals, got %d", len(result.Locals))
	}
	if len(result.Stmts) != 2 {
		t.Fatalf("expected 2 top-level statements (the two set_locals), got %d", len(result.Stmts))
	}
}

func TestRecordBindingFlattensToOneLocalPerField(t *testing.T) {
	src := "type Point\n" +
		"  x: i32\n" +
		"  y: i32\n" +
		"p: Point = \n" +
		"  x: 1\n" +
		"  y: 2\n"
	_, result := compile(t, src)
	if len(result.Locals) != 2 {
		t.Fatalf("expected Point to flatten to 2 locals, got %d", len(result.Locals))
	}
}

func TestMatchExhaustiveLowersToSelectCascade(t *testing.T) {
	src := "x: i32 = 1\n" +
		"r: i32 = match x\n" +
		"  0 -> 100\n" +
		"  1 | 2 -> 200\n" +
		"  _ -> 0\n"
	_, result := compile(t, src)
	if len(result.Locals) != 2 {
		t.Fatalf("expected 2 locals (x and r), got %d", len(result.Locals))
	}
}

func TestMatchWithoutCatchAllIsRejected(t *testing.T) {
	src := "x: i32 = 1\n" +
		"r: i32 = match x\n" +
		"  0 -> 1\n" +
		"  1 -> 2\n"
	compileExpectError(t, src)
}

func TestUnreachableCodeAfterPanicWarns(t *testing.T) {
	ctx := source.NewCompilationContext("test.tw", "panic\nx: i32 = 0\n")
	marked, _ := preprocess.Run(ctx)
	lexer.Run(ctx, marked)
	if !parser.Run(ctx) {
		t.Fatalf("parse errors: %v", ctx.Diags.Errors())
	}
	if _, ok := Run(ctx); !ok {
		t.Fatalf("expected check to succeed despite the warning")
	}
	found := false
	for _, d := range ctx.Diags.Warnings() {
		if d.Code == "TWCHECK050" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a TWCHECK050 unreachable-code warning")
	}
}

func TestTypeDeclAfterPanicIsNotFlaggedUnreachable(t *testing.T) {
	// Type declarations aren't executable statements, so they're exempt from
	// the unreachable-code check even after a panic.
	ctx := source.NewCompilationContext("test.tw", "panic\ntype Point\n  x: i32\n")
	marked, _ := preprocess.Run(ctx)
	lexer.Run(ctx, marked)
	if !parser.Run(ctx) {
		t.Fatalf("parse errors: %v", ctx.Diags.Errors())
	}
	if _, ok := Run(ctx); !ok {
		t.Fatalf("check errors: %v", ctx.Diags.Errors())
	}
	for _, d := range ctx.Diags.Warnings() {
		if d.Code == "TWCHECK050" {
			t.Errorf("did not expect TWCHECK050 on a type declaration following panic")
		}
	}
}

func TestDuplicateRecordFieldInitIsRejected(t *testing.T) {
	src := "type Point\n" +
		"  x: i32\n" +
		"  y: i32\n" +
		"p: Point = \n" +
		"  x: 1\n" +
		"  x: 2\n" +
		"  y: 3\n"
	compileExpectError(t, src)
}

func TestMissingRecordFieldInitIsRejected(t *testing.T) {
	src := "type Point\n" +
		"  x: i32\n" +
		"  y: i32\n" +
		"p: Point = \n" +
		"  x: 1\n"
	compileExpectError(t, src)
}

func TestUndefinedSymbolIsRejected(t *testing.T) {
	compileExpectError(t, "r: i32 = nope\n")
}

// instKinds returns every instruction kind in the store's postorder
// emission sequence — the shape of the lowered SemIR without the noise of
// the store's numeric ids.
func instKinds(ctx *source.CompilationContext) []string {
	kinds := make([]string, ctx.Insts.Len())
	for i := range kinds {
		kinds[i] = ctx.Insts.Get(source.InstId(i)).Kind.String()
	}
	return kinds
}

func TestAdditionBindingLowersToExpectedInstructionShape(t *testing.T) {
	ctx := source.NewCompilationContext("test.tw", "a: i32 = 1\nb: i32 = 2\nc: i32 = a + b\n")
	marked, _ := preprocess.Run(ctx)
	lexer.Run(ctx, marked)
	if !parser.Run(ctx) {
		t.Fatalf("parse errors: %v", ctx.Diags.Errors())
	}
	if _, ok := Run(ctx); !ok {
		t.Fatalf("check errors: %v", ctx.Diags.Errors())
	}

	got := instKinds(ctx)
	want := []string{
		"const.i32", "set_local",
		"const.i32", "set_local",
		"get_local", "get_local", "add", "set_local",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lowered instruction shape mismatch (-want +got):\n%s", diff)
	}
}

// recordFieldSnapshot captures just the parts of a TypeInfo that matter for
// a record's field layout, leaving out the interning bookkeeping.
type recordFieldSnapshot struct {
	Name string
	Type source.TypeId
}

func TestRecordDeclarationRecordsFieldLayout(t *testing.T) {
	src := "type Point\n" +
		"  x: i32\n" +
		"  y: i32\n" +
		"p: Point = \n" +
		"  x: 1\n" +
		"  y: 2\n"
	ctx := source.NewCompilationContext("test.tw", src)
	marked, _ := preprocess.Run(ctx)
	lexer.Run(ctx, marked)
	if !parser.Run(ctx) {
		t.Fatalf("parse errors: %v", ctx.Diags.Errors())
	}
	if _, ok := Run(ctx); !ok {
		t.Fatalf("check errors: %v", ctx.Diags.Errors())
	}

	var snapshot []recordFieldSnapshot
	for i := 0; i < ctx.Types.Len(); i++ {
		info := ctx.Types.Get(source.TypeId(i))
		if info.Kind != source.TypeRecord {
			continue
		}
		for _, f := range info.Fields {
			snapshot = append(snapshot, recordFieldSnapshot{Name: ctx.Strings.Get(f.Name), Type: f.Type})
		}
	}

	want := []recordFieldSnapshot{
		{Name: "x", Type: source.TypeIdI32},
		{Name: "y", Type: source.TypeIdI32},
	}
	if diff := cmp.Diff(want, snapshot); diff != "" {
		t.Errorf("record field layout mismatch (-want +got):\n%s", diff)
	}
}
