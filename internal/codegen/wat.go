package codegen

import (
	"fmt"
	"strings"

	"github.com/tinywhale-lang/tinywhale/internal/checker"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

// GenerateText renders the same checked program Generate encodes into a
// binary module as its WebAssembly text (.wat) form instead, for debugging a
// compile without a disassembler on hand. The pack's wazero reference files
// all go text-to-binary (internal/watzero's decoder and func_parser);
// there's no text *emitter* to ground this on, so this is a direct, by-hand
// s-expression printer over the same per-instruction switch lower.go
// already has, kept deliberately unclever.
func GenerateText(ctx *source.CompilationContext, checked *checker.Result) string {
	var sb strings.Builder
	sb.WriteString("(module\n")
	writeFuncText(&sb, ctx, checked)
	fmt.Fprintf(&sb, "  (start $%s)\n", startFuncName)
	sb.WriteString(")\n")
	return sb.String()
}

func writeFuncText(sb *strings.Builder, ctx *source.CompilationContext, checked *checker.Result) {
	fmt.Fprintf(sb, "  (func $%s (export %q)\n", startFuncName, startFuncName)

	for _, sym := range checked.Locals {
		fmt.Fprintf(sb, "    (local %s)\n", valtypeName(valtype(ctx.Types, ctx.Symbols.Get(sym).Type)))
	}

	w := &watWriter{sb: sb, ctx: ctx, indent: "    "}
	for _, stmt := range checked.Stmts {
		w.writeInst(stmt)
	}
	sb.WriteString("  )\n")
}

func valtypeName(vt byte) string {
	switch vt {
	case valI32:
		return "i32"
	case valI64:
		return "i64"
	case valF32:
		return "f32"
	default:
		return "f64"
	}
}

// watWriter prints one instruction per line in postfix (stack-machine)
// order, the same traversal lower.go's recursive lowerInst performs, just
// emitting mnemonics instead of opcodes.
type watWriter struct {
	sb     *strings.Builder
	ctx    *source.CompilationContext
	indent string
}

func (w *watWriter) line(format string, args ...interface{}) {
	w.sb.WriteString(w.indent)
	fmt.Fprintf(w.sb, format, args...)
	w.sb.WriteString("\n")
}

func (w *watWriter) writeInst(id source.InstId) {
	inst := w.ctx.Insts.Get(id)
	tn := valtypeName(valtype(w.ctx.Types, inst.Type))

	switch inst.Kind {
	case source.InstConstI32, source.InstConstI64:
		w.line("%s.const %d", tn, inst.IntVal)
	case source.InstConstF32, source.InstConstF64:
		w.line("%s.const %v", tn, w.ctx.Floats.Get(inst.FloatVal))
	case source.InstGetLocal:
		w.line("local.get %d", inst.Local)
	case source.InstSetLocal:
		w.writeInst(inst.Arg0)
		w.line("local.set %d", inst.Local)
	case source.InstNeg:
		w.line("%s.const 0", tn)
		w.writeInst(inst.Arg0)
		w.line("%s.sub", tn)
	case source.InstBitNot:
		w.writeInst(inst.Arg0)
		w.line("%s.const -1", tn)
		w.line("%s.xor", tn)
	case source.InstAdd:
		w.binary(inst, tn, "add")
	case source.InstSub:
		w.binary(inst, tn, "sub")
	case source.InstMul:
		w.binary(inst, tn, "mul")
	case source.InstDiv:
		w.binary(inst, tn, divMnemonic(tn))
	case source.InstRem:
		w.binary(inst, tn, remMnemonic(tn))
	case source.InstBitAnd:
		w.binary(inst, tn, "and")
	case source.InstBitOr:
		w.binary(inst, tn, "or")
	case source.InstBitXor:
		w.binary(inst, tn, "xor")
	case source.InstShl:
		w.binary(inst, tn, "shl")
	case source.InstShr:
		w.binary(inst, tn, "shr_s")
	case source.InstUShr:
		w.binary(inst, tn, "shr_u")
	case source.InstEuclidRem:
		w.writeInst(inst.Arg0)
		w.writeInst(inst.Arg1)
		w.line("%s.%s", tn, remMnemonic(tn))
		w.writeInst(inst.Arg1)
		w.line("%s.add", tn)
		w.writeInst(inst.Arg1)
		w.line("%s.%s", tn, remMnemonic(tn))
	case source.InstCmpEq, source.InstCmpNeq, source.InstCmpLt, source.InstCmpGt, source.InstCmpLe, source.InstCmpGe:
		w.writeCompare(inst)
	case source.InstLogicalAnd:
		w.writeInst(inst.Arg0)
		w.line("if (result i32)")
		w.writeInst(inst.Arg1)
		w.line("else")
		w.line("i32.const 0")
		w.line("end")
	case source.InstLogicalOr:
		w.writeInst(inst.Arg0)
		w.line("if (result i32)")
		w.line("i32.const 1")
		w.line("else")
		w.writeInst(inst.Arg1)
		w.line("end")
	case source.InstSelect:
		w.writeInst(inst.Arg0)
		w.line("if (result %s)", tn)
		w.writeInst(inst.Arg1)
		w.line("else")
		w.writeInst(inst.Arg2)
		w.line("end")
	case source.InstPanic:
		w.line("unreachable")
	}
}

func (w *watWriter) binary(inst source.Inst, tn, mnemonic string) {
	w.writeInst(inst.Arg0)
	w.writeInst(inst.Arg1)
	w.line("%s.%s", tn, mnemonic)
}

func (w *watWriter) writeCompare(inst source.Inst) {
	operandType := w.ctx.Insts.Get(inst.Arg0).Type
	tn := valtypeName(valtype(w.ctx.Types, operandType))
	var mnemonic string
	switch inst.Kind {
	case source.InstCmpEq:
		mnemonic = "eq"
	case source.InstCmpNeq:
		mnemonic = "ne"
	case source.InstCmpLt:
		mnemonic = ltMnemonic(tn)
	case source.InstCmpGt:
		mnemonic = gtMnemonic(tn)
	case source.InstCmpLe:
		mnemonic = leMnemonic(tn)
	case source.InstCmpGe:
		mnemonic = geMnemonic(tn)
	}
	w.writeInst(inst.Arg0)
	w.writeInst(inst.Arg1)
	w.line("%s.%s", tn, mnemonic)
}

func isIntType(tn string) bool { return tn == "i32" || tn == "i64" }

func divMnemonic(tn string) string {
	if isIntType(tn) {
		return "div_s"
	}
	return "div"
}
func remMnemonic(string) string { return "rem_s" }
func ltMnemonic(tn string) string {
	if isIntType(tn) {
		return "lt_s"
	}
	return "lt"
}
func gtMnemonic(tn string) string {
	if isIntType(tn) {
		return "gt_s"
	}
	return "gt"
}
func leMnemonic(tn string) string {
	if isIntType(tn) {
		return "le_s"
	}
	return "le"
}
func geMnemonic(tn string) string {
	if isIntType(tn) {
		return "ge_s"
	}
	return "ge"
}
