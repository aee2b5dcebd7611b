package codegen

import (
	"github.com/tinywhale-lang/tinywhale/internal/invariant"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

var addOp = map[byte]byte{valI32: 0x6A, valI64: 0x7C, valF32: 0x92, valF64: 0xA0}
var subOp = map[byte]byte{valI32: 0x6B, valI64: 0x7D, valF32: 0x93, valF64: 0xA1}
var mulOp = map[byte]byte{valI32: 0x6C, valI64: 0x7E, valF32: 0x94, valF64: 0xA2}
var divOp = map[byte]byte{valI32: 0x6D, valI64: 0x7F, valF32: 0x95, valF64: 0xA3} // signed/float division
var remOp = map[byte]byte{valI32: 0x6F, valI64: 0x81}                            // signed remainder, integers only
var andOp = map[byte]byte{valI32: 0x71, valI64: 0x83}
var orOp = map[byte]byte{valI32: 0x72, valI64: 0x84}
var xorOp = map[byte]byte{valI32: 0x73, valI64: 0x85}
var shlOp = map[byte]byte{valI32: 0x74, valI64: 0x86}
var shrOp = map[byte]byte{valI32: 0x75, valI64: 0x87}  // arithmetic (signed) shift right
var ushrOp = map[byte]byte{valI32: 0x76, valI64: 0x88} // logical (unsigned) shift right
var eqOp = map[byte]byte{valI32: 0x46, valI64: 0x51, valF32: 0x5B, valF64: 0x61}
var neOp = map[byte]byte{valI32: 0x47, valI64: 0x52, valF32: 0x5C, valF64: 0x62}
var ltOp = map[byte]byte{valI32: 0x48, valI64: 0x53, valF32: 0x5D, valF64: 0x63}
var gtOp = map[byte]byte{valI32: 0x4A, valI64: 0x55, valF32: 0x5E, valF64: 0x64}
var leOp = map[byte]byte{valI32: 0x4C, valI64: 0x57, valF32: 0x5F, valF64: 0x65}
var geOp = map[byte]byte{valI32: 0x4E, valI64: 0x59, valF32: 0x60, valF64: 0x66}

const (
	opUnreachable = 0x00
	opIf          = 0x04
	opElse        = 0x05
	opBlockEnd    = 0x0B
	opLocalGet    = 0x20
	opLocalSet    = 0x21
	opI32Const    = 0x41
	opI64Const    = 0x42
	opF32Const    = 0x43
	opF64Const    = 0x44
)

// lowerCtx carries everything recursive instruction lowering needs: the
// shared stores, to read operand types and constant payloads. A Symbol's own
// SymbolId is its wasm local index directly (SymbolStore allocates densely
// from 0, and _start is the only function TinyWhale ever emits, so there is
// no per-function parameter range to offset past).
type lowerCtx struct {
	ctx *source.CompilationContext
}

// lowerInst recursively emits id's value-producing bytecode onto b,
// post-order (every operand's bytecode before the operator that consumes
// it), the same way lowering an expression DAG always does: each call
// re-walks its operands rather than caching a single computed value, so a
// leaf referenced from two places (e.g. EuclidRem's divisor) is simply
// re-evaluated rather than spilled to a scratch local.
func (lc *lowerCtx) lowerInst(b *buffer, id source.InstId) {
	inst := lc.ctx.Insts.Get(id)
	vt := valtype(lc.ctx.Types, inst.Type)

	switch inst.Kind {
	case source.InstConstI32:
		b.byte(opI32Const)
		b.sleb128(inst.IntVal)
	case source.InstConstI64:
		b.byte(opI64Const)
		b.sleb128(inst.IntVal)
	case source.InstConstF32:
		b.byte(opF32Const)
		b.raw(f32bytes(float32(lc.ctx.Floats.Get(inst.FloatVal))))
	case source.InstConstF64:
		b.byte(opF64Const)
		b.raw(f64bytes(lc.ctx.Floats.Get(inst.FloatVal)))

	case source.InstGetLocal:
		b.byte(opLocalGet)
		b.uleb128(uint64(inst.Local))

	case source.InstSetLocal:
		lc.lowerInst(b, inst.Arg0)
		b.byte(opLocalSet)
		b.uleb128(uint64(inst.Local))

	case source.InstNeg:
		lc.zero(b, vt)
		lc.lowerInst(b, inst.Arg0)
		b.byte(subOp[vt])

	case source.InstBitNot:
		lc.lowerInst(b, inst.Arg0)
		lc.allOnes(b, vt)
		b.byte(xorOp[vt])

	case source.InstAdd:
		lc.binOp(b, inst, addOp[vt])
	case source.InstSub:
		lc.binOp(b, inst, subOp[vt])
	case source.InstMul:
		lc.binOp(b, inst, mulOp[vt])
	case source.InstDiv:
		lc.binOp(b, inst, divOp[vt])
	case source.InstRem:
		lc.binOp(b, inst, remOp[vt])
	case source.InstBitAnd:
		lc.binOp(b, inst, andOp[vt])
	case source.InstBitOr:
		lc.binOp(b, inst, orOp[vt])
	case source.InstBitXor:
		lc.binOp(b, inst, xorOp[vt])
	case source.InstShl:
		lc.binOp(b, inst, shlOp[vt])
	case source.InstShr:
		lc.binOp(b, inst, shrOp[vt])
	case source.InstUShr:
		lc.binOp(b, inst, ushrOp[vt])

	case source.InstEuclidRem:
		lc.lowerEuclidRem(b, inst, vt)

	case source.InstCmpEq, source.InstCmpNeq, source.InstCmpLt, source.InstCmpGt, source.InstCmpLe, source.InstCmpGe:
		lc.lowerCompare(b, inst)

	case source.InstLogicalAnd:
		lc.lowerInst(b, inst.Arg0)
		b.byte(opIf)
		b.byte(valI32)
		lc.lowerInst(b, inst.Arg1)
		b.byte(opElse)
		lc.constI32(b, 0)
		b.byte(opBlockEnd)

	case source.InstLogicalOr:
		lc.lowerInst(b, inst.Arg0)
		b.byte(opIf)
		b.byte(valI32)
		lc.constI32(b, 1)
		b.byte(opElse)
		lc.lowerInst(b, inst.Arg1)
		b.byte(opBlockEnd)

	case source.InstSelect:
		lc.lowerInst(b, inst.Arg0)
		b.byte(opIf)
		b.byte(vt)
		lc.lowerInst(b, inst.Arg1)
		b.byte(opElse)
		lc.lowerInst(b, inst.Arg2)
		b.byte(opBlockEnd)

	case source.InstPanic:
		b.byte(opUnreachable)

	default:
		invariant.Invariant(false, "lowerInst: unhandled instruction kind %v", inst.Kind)
	}
}

func (lc *lowerCtx) binOp(b *buffer, inst source.Inst, op byte) {
	lc.lowerInst(b, inst.Arg0)
	lc.lowerInst(b, inst.Arg1)
	b.byte(op)
}

// lowerCompare derives the operands' shared type from Arg0's own recorded
// Inst.Type, not inst.Type itself: every comparison's own Type is always
// TypeIdI32 (its boolean result), so the operand width has to come from
// whichever instruction actually produced the operand value.
func (lc *lowerCtx) lowerCompare(b *buffer, inst source.Inst) {
	operandType := lc.ctx.Insts.Get(inst.Arg0).Type
	vt := valtype(lc.ctx.Types, operandType)
	var op byte
	switch inst.Kind {
	case source.InstCmpEq:
		op = eqOp[vt]
	case source.InstCmpNeq:
		op = neOp[vt]
	case source.InstCmpLt:
		op = ltOp[vt]
	case source.InstCmpGt:
		op = gtOp[vt]
	case source.InstCmpLe:
		op = leOp[vt]
	case source.InstCmpGe:
		op = geOp[vt]
	}
	lc.lowerInst(b, inst.Arg0)
	lc.lowerInst(b, inst.Arg1)
	b.byte(op)
}

// lowerEuclidRem computes %%'s always-non-negative-for-a-positive-divisor
// remainder as ((a rem_s b) + b) rem_s b, recomputing each operand's
// bytecode from scratch rather than spilling to an extra local — the
// divisor is walked three times, the dividend once.
func (lc *lowerCtx) lowerEuclidRem(b *buffer, inst source.Inst, vt byte) {
	lc.lowerInst(b, inst.Arg0)
	lc.lowerInst(b, inst.Arg1)
	b.byte(remOp[vt])
	lc.lowerInst(b, inst.Arg1)
	b.byte(addOp[vt])
	lc.lowerInst(b, inst.Arg1)
	b.byte(remOp[vt])
}

func (lc *lowerCtx) constI32(b *buffer, v int64) {
	b.byte(opI32Const)
	b.sleb128(v)
}

func (lc *lowerCtx) zero(b *buffer, vt byte) {
	switch vt {
	case valI32:
		b.byte(opI32Const)
		b.sleb128(0)
	case valI64:
		b.byte(opI64Const)
		b.sleb128(0)
	case valF32:
		b.byte(opF32Const)
		b.raw(f32bytes(0))
	default:
		b.byte(opF64Const)
		b.raw(f64bytes(0))
	}
}

// allOnes pushes -1 for the integer NOT-via-XOR lowering; BitNot is
// integer-only (the checker rejects it on f32/f64), so only i32/i64 are
// ever reached here.
func (lc *lowerCtx) allOnes(b *buffer, vt byte) {
	switch vt {
	case valI64:
		b.byte(opI64Const)
		b.sleb128(-1)
	default:
		b.byte(opI32Const)
		b.sleb128(-1)
	}
}
