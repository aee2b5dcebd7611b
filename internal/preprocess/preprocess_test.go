package preprocess

import (
	"strings"
	"testing"

	"github.com/tinywhale-lang/tinywhale/internal/source"
)

func run(t *testing.T, src string) (string, bool) {
	t.Helper()
	ctx := source.NewCompilationContext("test.tw", src)
	return Run(ctx)
}

func TestSimpleIndentDedent(t *testing.T) {
	src := "type Point\n  x: i32\n"
	out, ok := run(t, src)
	if !ok {
		t.Fatalf("expected success, out=%q", out)
	}
	if strings.Count(out, string(IndentMarker)) != 1 {
		t.Fatalf("expected exactly one INDENT, got %q", out)
	}
	if strings.Count(out, string(DedentMarker)) != 1 {
		t.Fatalf("expected exactly one EOF-synthesized DEDENT, got %q", out)
	}
}

func TestNestedBlocksDedentTwiceAtOnce(t *testing.T) {
	src := "type Line\n  from: Point\n  to: \n    x: 0\nw: i32 = 4\n"
	out, ok := run(t, src)
	if !ok {
		t.Fatalf("expected success, out=%q", out)
	}
	if strings.Count(out, string(IndentMarker)) != 2 {
		t.Fatalf("expected 2 INDENTs, got %q", out)
	}
	// Both DEDENTs are emitted together before `w`: one back to the type
	// body level, one more back to column 0.
	if strings.Count(out, string(DedentMarker)) != 2 {
		t.Fatalf("expected 2 DEDENTs, got %q", out)
	}
}

func TestMixedIndentationRejected(t *testing.T) {
	src := "type Point\n \tx: i32\n"
	_, ok := run(t, src)
	if ok {
		t.Fatalf("expected mixed-indentation failure")
	}
}

func TestNonMultipleIndentRejected(t *testing.T) {
	src := "type Point\n  x: i32\n   y: i32\n"
	_, ok := run(t, src)
	if ok {
		t.Fatalf("expected non-multiple-of-unit failure")
	}
}

func TestOverIndentRejected(t *testing.T) {
	src := "type Point\n  x: i32\n      y: i32\n"
	_, ok := run(t, src)
	if ok {
		t.Fatalf("expected over-indent failure (jumped more than one level)")
	}
}

func TestDefaultIndentCharIsTabWithNoDirective(t *testing.T) {
	src := "type Point\n\tx: i32\n"
	out, ok := run(t, src)
	if !ok {
		t.Fatalf("expected success with tab indentation by default, out=%q", out)
	}
	if strings.Count(out, string(IndentMarker)) != 1 {
		t.Fatalf("expected exactly one INDENT, got %q", out)
	}
}

func TestUseSpacesDirectivePinsIndentCharToSpaces(t *testing.T) {
	src := "\"use spaces\"\ntype Point\n  x: i32\n"
	out, ok := run(t, src)
	if !ok {
		t.Fatalf("expected success with explicit \"use spaces\" directive, out=%q", out)
	}
	if strings.Count(out, string(IndentMarker)) != 1 {
		t.Fatalf("expected exactly one INDENT, got %q", out)
	}
}

func TestUseSpacesDirectiveSingleQuotedAlsoAccepted(t *testing.T) {
	src := "'use spaces'\ntype Point\n  x: i32\n"
	out, ok := run(t, src)
	if !ok {
		t.Fatalf("expected success with explicit 'use spaces' directive, out=%q", out)
	}
	if strings.Count(out, string(IndentMarker)) != 1 {
		t.Fatalf("expected exactly one INDENT, got %q", out)
	}
}

func TestDirectiveMismatchRejected(t *testing.T) {
	src := "\"use spaces\"\ntype Point\n\tx: i32\n"
	_, ok := run(t, src)
	if ok {
		t.Fatalf("expected rejection: file uses tabs but directive pinned spaces")
	}
}

func TestBlankLinesDoNotAffectIndentStack(t *testing.T) {
	src := "type Point\n  x: i32\n\n  y: i32\n"
	out, ok := run(t, src)
	if !ok {
		t.Fatalf("expected success, out=%q", out)
	}
	if strings.Count(out, string(IndentMarker)) != 1 {
		t.Fatalf("a blank line must not open a second INDENT, got %q", out)
	}
}

func TestMarkersCarryLineAndLevelPayload(t *testing.T) {
	src := "type Point\n  x: i32\n"
	out, ok := run(t, src)
	if !ok {
		t.Fatalf("expected success, out=%q", out)
	}
	want := marker(2, 1, IndentMarker)
	if !strings.Contains(out, want) {
		t.Fatalf("expected marker %q in output, got %q", want, out)
	}
}
