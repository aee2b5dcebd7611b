package parser

import (
	"testing"

	"github.com/tinywhale-lang/tinywhale/internal/lexer"
	"github.com/tinywhale-lang/tinywhale/internal/preprocess"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

func parse(t *testing.T, src string) (*source.CompilationContext, bool) {
	t.Helper()
	ctx := source.NewCompilationContext("test.tw", src)
	marked, ok := preprocess.Run(ctx)
	if !ok {
		t.Fatalf("preprocess failed: %v", ctx.Diags.All())
	}
	lexer.Run(ctx, marked)
	ok = Run(ctx)
	return ctx, ok
}

func countKind(ctx *source.CompilationContext, kind source.NodeKind) int {
	n := 0
	for i := 0; i < ctx.Nodes.Len(); i++ {
		if ctx.Nodes.Get(source.NodeId(i)).Kind == kind {
			n++
		}
	}
	return n
}

func TestParseTopLevelBindingsAndPanic(t *testing.T) {
	ctx, ok := parse(t, "a: i32 = 1\nb: i32 = a + 1\npanic\n")
	if !ok {
		t.Fatalf("parse failed: %v", ctx.Diags.All())
	}
	if countKind(ctx, source.NodeBindingStmt) != 2 {
		t.Fatalf("expected 2 bindings")
	}
	if countKind(ctx, source.NodePanicStmt) != 1 {
		t.Fatalf("expected 1 panic statement")
	}
	root := ctx.Nodes.Get(ctx.Nodes.Root())
	if root.Kind != source.NodeProgram {
		t.Fatalf("root must be NodeProgram, got %v", root.Kind)
	}
}

func TestParseBarePanicKeyword(t *testing.T) {
	ctx, ok := parse(t, "panic\n")
	if !ok {
		t.Fatalf("parse failed: %v", ctx.Diags.All())
	}
	if countKind(ctx, source.NodePanicStmt) != 1 {
		t.Fatalf("expected panic to parse as a bare keyword statement")
	}
}

func TestParseTypeDeclRecord(t *testing.T) {
	ctx, ok := parse(t, "type Point\n  x: i32\n  y: i32\n")
	if !ok {
		t.Fatalf("parse failed: %v", ctx.Diags.All())
	}
	if countKind(ctx, source.NodeTypeDecl) != 1 || countKind(ctx, source.NodeFieldDecl) != 2 {
		t.Fatalf("expected 1 TypeDecl with 2 fields")
	}
}

func TestParseRefinedType(t *testing.T) {
	ctx, ok := parse(t, "x: i32<min=0,max=100> = 50\n")
	if !ok {
		t.Fatalf("parse failed: %v", ctx.Diags.All())
	}
	if countKind(ctx, source.NodeTypeRefRefined) != 1 {
		t.Fatalf("expected 1 refined type ref")
	}
}

func TestParseListType(t *testing.T) {
	ctx, ok := parse(t, "x: i32[]<size=4> = [1, 2, 3, 4]\n")
	if !ok {
		t.Fatalf("parse failed: %v", ctx.Diags.All())
	}
	if countKind(ctx, source.NodeTypeRefList) != 1 {
		t.Fatalf("expected 1 list type ref")
	}
}

func TestParseChainedComparison(t *testing.T) {
	ctx, ok := parse(t, "a: i32 = 1\nb: i32 = 2\nc: i32 = 3\nr: i32 = match a < b < c\n  _ -> 1\n")
	if !ok {
		t.Fatalf("parse failed: %v", ctx.Diags.All())
	}
	if countKind(ctx, source.NodeCompareChain) != 1 {
		t.Fatalf("expected 1 compare chain")
	}
	if countKind(ctx, source.NodeCompareOp) != 2 {
		t.Fatalf("expected 2 compare ops in the chain")
	}
}

func TestParseMatchExprHasNoColonAfterScrutinee(t *testing.T) {
	src := "x: i32 = 1\n" +
		"r: i32 = match x\n" +
		"  0 -> 1\n" +
		"  1 | 2 -> 2\n" +
		"  _ -> 0\n"
	ctx, ok := parse(t, src)
	if !ok {
		t.Fatalf("parse failed: %v", ctx.Diags.All())
	}
	if countKind(ctx, source.NodeMatchExpr) != 1 {
		t.Fatalf("expected 1 match expr")
	}
	if countKind(ctx, source.NodeMatchArm) != 3 {
		t.Fatalf("expected 3 match arms")
	}
	if countKind(ctx, source.NodePatternOr) != 1 {
		t.Fatalf("expected 1 or-pattern")
	}
	if countKind(ctx, source.NodePatternWildcard) != 1 {
		t.Fatalf("expected 1 wildcard pattern")
	}
}

func TestParseRecordInitAndFieldAccess(t *testing.T) {
	src := "type Point\n" +
		"  x: i32\n" +
		"  y: i32\n" +
		"p: Point = \n" +
		"  x: 1\n" +
		"  y: 2\n" +
		"r: i32 = p.x\n"
	ctx, ok := parse(t, src)
	if !ok {
		t.Fatalf("parse failed: %v", ctx.Diags.All())
	}
	if countKind(ctx, source.NodeRecordInitExpr) != 1 {
		t.Fatalf("expected 1 record init")
	}
	if countKind(ctx, source.NodeFieldAccessExpr) != 1 {
		t.Fatalf("expected 1 field access")
	}
}

func TestParseNestedRecordInit(t *testing.T) {
	src := "type Point\n" +
		"  x: i32\n" +
		"  y: i32\n" +
		"type Line\n" +
		"  from: Point\n" +
		"  to: Point\n" +
		"l: Line = \n" +
		"  from: \n" +
		"    x: 0\n" +
		"    y: 0\n" +
		"  to: \n" +
		"    x: 1\n" +
		"    y: 1\n"
	ctx, ok := parse(t, src)
	if !ok {
		t.Fatalf("parse failed: %v", ctx.Diags.All())
	}
	if countKind(ctx, source.NodeRecordInitExpr) != 3 {
		t.Fatalf("expected 3 record inits (1 outer, 2 nested), got %d", countKind(ctx, source.NodeRecordInitExpr))
	}
}

func TestParseErrorRecoversAndContinues(t *testing.T) {
	src := "a: i32 = (\n" +
		"b: i32 = 2\n"
	ctx, ok := parse(t, src)
	if ok {
		t.Fatalf("expected a parse error from the malformed first binding")
	}
	if countKind(ctx, source.NodeBindingStmt) < 1 {
		t.Fatalf("parser must still recover enough to parse the second binding")
	}
}
