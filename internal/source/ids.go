// Package source owns every arena-indexed store shared across TinyWhale's
// compile phases (spec.md §3, "DATA MODEL"): interned strings and floats, the
// token stream, the postorder parse tree, the type and symbol tables, and the
// flat SemIR instruction stream. Every store is append-only and addressed by
// a small dense integer id, so no cross-referential pointers or cycles are
// possible by construction — the same arena-plus-index discipline the
// teacher uses for its decorator, plan, and type registries
// (core/types/registry.go, core/planfmt/plan.go).
package source

// StringId indexes into StringStore.
type StringId int

// FloatId indexes into FloatStore.
type FloatId int

// TokenId indexes into TokenStore. Sequential, append-only.
type TokenId int

// NodeId indexes into NodeStore. Postorder, append-only.
type NodeId int

// SymbolId indexes into SymbolStore. One per flattened primitive leaf.
type SymbolId int

// TypeId indexes into TypeStore. Builtins occupy fixed low ids.
type TypeId int

// InstId indexes into InstStore (the SemIR). Forward-reference free: any
// InstId referenced from a later Inst's arg0/arg1 is always < that Inst's own id.
type InstId int

// InvalidID is returned by lookups that found nothing; every store's real ids
// start at 0, so -1 is a safe sentinel across all id types.
const InvalidID = -1
