package source

import "github.com/tinywhale-lang/tinywhale/internal/invariant"

// Symbol is one flattened primitive leaf: every wasm local TinyWhale ever
// emits corresponds to exactly one Symbol. A binding of record or list
// type does not get one local — it gets one Symbol per primitive field,
// in depth-first declaration order, recursively flattening nested records
// and list elements. A plain i32/i64/f32/f64 (or refined) binding flattens
// to exactly one Symbol.
type Symbol struct {
	// Type is the leaf's own type (a builtin or a refinement of one; never
	// TypeList or TypeRecord, since those are exactly the types that get
	// flattened away).
	Type TypeId
}

// SymbolStore is the append-only table of flattened locals, addressed by
// SymbolId. Its length is, by construction, the wasm local count spec.md's
// codegen invariant requires: one wasm local per Symbol, in store order.
type SymbolStore struct {
	symbols []Symbol
}

// NewSymbolStore returns an empty store.
func NewSymbolStore() *SymbolStore {
	return &SymbolStore{}
}

// LeafCount returns the number of primitive leaves a value of typ flattens
// to: 1 for a builtin or refinement of one, Size*LeafCount(Elem) for a list,
// and the sum over fields for a record.
func LeafCount(types *TypeStore, typ TypeId) int {
	info := types.Get(typ)
	switch info.Kind {
	case TypeList:
		return info.Size * LeafCount(types, info.Elem)
	case TypeRecord:
		n := 0
		for _, f := range info.Fields {
			n += LeafCount(types, f.Type)
		}
		return n
	case TypeRefined:
		return LeafCount(types, info.Base)
	default:
		return 1
	}
}

// Declare flattens typ into its primitive leaves and appends one Symbol per
// leaf, returning their SymbolIds in depth-first flatten order. This is the
// only way new Symbols enter the store: one call per binding statement.
func (s *SymbolStore) Declare(types *TypeStore, typ TypeId) []SymbolId {
	var ids []SymbolId
	s.flatten(types, typ, &ids)
	invariant.Postcondition(len(ids) == LeafCount(types, typ), "flattened leaf count must match LeafCount")
	return ids
}

func (s *SymbolStore) flatten(types *TypeStore, typ TypeId, out *[]SymbolId) {
	info := types.Get(typ)
	switch info.Kind {
	case TypeList:
		for i := 0; i < info.Size; i++ {
			s.flatten(types, info.Elem, out)
		}
	case TypeRecord:
		for _, f := range info.Fields {
			s.flatten(types, f.Type, out)
		}
	case TypeRefined:
		s.flatten(types, info.Base, out)
	default:
		id := SymbolId(len(s.symbols))
		s.symbols = append(s.symbols, Symbol{Type: typ})
		*out = append(*out, id)
	}
}

// Get returns the Symbol for id.
func (s *SymbolStore) Get(id SymbolId) Symbol {
	invariant.InRange(int(id), 0, len(s.symbols)-1, "SymbolId")
	return s.symbols[id]
}

// LocalCount returns the total number of flattened locals declared so far —
// exactly the number of wasm locals codegen must emit.
func (s *SymbolStore) LocalCount() int { return len(s.symbols) }

// FieldLayout locates fieldName within recordType, returning the offset
// (into a flattened []SymbolId for a value of recordType) and leaf-width of
// that field, plus the field's own TypeId. ok is false if recordType has no
// such field.
func FieldLayout(types *TypeStore, strs *StringStore, recordType TypeId, fieldName StringId) (offset, width int, fieldType TypeId, ok bool) {
	info := types.Get(recordType)
	invariant.Precondition(info.Kind == TypeRecord, "FieldLayout requires a record type")
	cursor := 0
	for _, f := range info.Fields {
		w := LeafCount(types, f.Type)
		if f.Name == fieldName {
			return cursor, w, f.Type, true
		}
		cursor += w
	}
	return 0, 0, 0, false
}

// IndexLayout locates element i within listType, returning the offset (into
// a flattened []SymbolId for a value of listType) and leaf-width of that
// element, plus the element's own TypeId. ok is false if i is out of range.
func IndexLayout(types *TypeStore, listType TypeId, i int) (offset, width int, elemType TypeId, ok bool) {
	info := types.Get(listType)
	invariant.Precondition(info.Kind == TypeList, "IndexLayout requires a list type")
	if i < 0 || i >= info.Size {
		return 0, 0, 0, false
	}
	w := LeafCount(types, info.Elem)
	return i * w, w, info.Elem, true
}
