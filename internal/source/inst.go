package source

import "github.com/tinywhale-lang/tinywhale/internal/invariant"

// InstKind classifies one SemIR instruction. SemIR only ever represents
// scalar (primitive-typed) values: a record- or list-typed expression is
// represented by a []InstId of its flattened leaves, one scalar Inst per
// leaf, rather than by any single aggregate instruction. Field access and
// indexing are check-time slices into that []InstId, not runtime operations.
type InstKind int

const (
	InstInvalid InstKind = iota

	InstConstI32
	InstConstI64
	InstConstF32
	InstConstF64

	// GetLocal reads the current value of a flattened local.
	InstGetLocal

	// SetLocal stores Arg0's value into a flattened local (a binding). Every
	// local it targets is write-once in SemIR: TinyWhale has no reassignment,
	// only shadowing via a fresh binding of the same name, which gets new locals.
	InstSetLocal

	InstNeg    // arithmetic negation, literal operands only (constant-folded away by the checker, kept for completeness)
	InstBitNot // ~x, lowered as x XOR -1

	InstAdd
	InstSub
	InstMul
	InstDiv
	InstRem       // %, wasm's native (truncating) remainder
	InstEuclidRem // %%, always non-negative for a positive divisor

	InstBitAnd
	InstBitOr
	InstBitXor
	InstShl
	InstShr
	InstUShr // >>>, logical (unsigned) right shift

	InstCmpEq
	InstCmpNeq
	InstCmpLt
	InstCmpGt
	InstCmpLe
	InstCmpGe

	InstLogicalAnd // short-circuit &&
	InstLogicalOr  // short-circuit ||

	// Select is the match-lowering primitive: if Arg0 then Arg1 else Arg2.
	// A match expression lowers to a cascade of Selects, innermost-first,
	// built by walking arms last-to-first so the catch-all arm becomes the
	// innermost (unconditional) value and each preceding arm wraps it.
	InstSelect

	// Panic marks a diverging computation; codegen lowers it to `unreachable`.
	InstPanic
)

var instKindNames = map[InstKind]string{
	InstInvalid: "invalid", InstConstI32: "const.i32", InstConstI64: "const.i64",
	InstConstF32: "const.f32", InstConstF64: "const.f64", InstGetLocal: "get_local",
	InstSetLocal: "set_local", InstNeg: "neg", InstBitNot: "bitnot", InstAdd: "add", InstSub: "sub", InstMul: "mul",
	InstDiv: "div", InstRem: "rem", InstEuclidRem: "erem", InstBitAnd: "and", InstBitOr: "or",
	InstBitXor: "xor", InstShl: "shl", InstShr: "shr", InstUShr: "ushr", InstCmpEq: "eq", InstCmpNeq: "neq",
	InstCmpLt: "lt", InstCmpGt: "gt", InstCmpLe: "le", InstCmpGe: "ge",
	InstLogicalAnd: "land", InstLogicalOr: "lor", InstSelect: "select", InstPanic: "panic",
}

func (k InstKind) String() string {
	if name, ok := instKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Inst is one SemIR instruction. Not every field applies to every Kind; see
// the per-kind comments on InstKind.
type Inst struct {
	Kind InstKind
	Type TypeId // the instruction's result type

	// InstConstI32/InstConstI64.
	IntVal int64

	// InstConstF32/InstConstF64.
	FloatVal FloatId

	// InstGetLocal, InstSetLocal.
	Local SymbolId

	// Operand references. Every non-InvalidID operand must be strictly
	// less than this instruction's own InstId (forward-reference-free).
	Arg0 InstId
	Arg1 InstId
	Arg2 InstId // InstSelect's else-branch only
}

// InstStore is the append-only SemIR instruction stream produced by
// internal/checker and consumed by internal/codegen.
type InstStore struct {
	insts []Inst
}

// NewInstStore returns an empty store.
func NewInstStore() *InstStore {
	return &InstStore{}
}

// Add appends inst and returns its InstId, after checking the
// forward-reference-free invariant on every operand it carries.
func (s *InstStore) Add(inst Inst) InstId {
	id := InstId(len(s.insts))
	for _, arg := range []InstId{inst.Arg0, inst.Arg1, inst.Arg2} {
		if arg != InvalidID {
			invariant.Invariant(int(arg) < int(id), "SemIR operand %d must precede its instruction %d", arg, id)
		}
	}
	s.insts = append(s.insts, inst)
	return id
}

// Get returns the instruction for id.
func (s *InstStore) Get(id InstId) Inst {
	invariant.InRange(int(id), 0, len(s.insts)-1, "InstId")
	return s.insts[id]
}

// Len returns the number of instructions in the stream.
func (s *InstStore) Len() int { return len(s.insts) }
