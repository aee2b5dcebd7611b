package source

import (
	"fmt"

	"github.com/tinywhale-lang/tinywhale/internal/invariant"
)

// TypeKind classifies one entry in the TypeStore.
type TypeKind int

const (
	TypeI32 TypeKind = iota
	TypeI64
	TypeF32
	TypeF64
	TypeRefined // an integer base type narrowed by min/max
	TypeList    // a fixed-size homogeneous list
	TypeRecord  // a nominal record with named fields
)

func (k TypeKind) String() string {
	switch k {
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	case TypeRefined:
		return "refined"
	case TypeList:
		return "list"
	case TypeRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Builtin type ids. Fixed and stable: every TypeStore starts with exactly
// these four entries, in this order, before any interning happens.
const (
	TypeIdI32 TypeId = iota
	TypeIdI64
	TypeIdF32
	TypeIdF64
)

// RecordField is one named, typed field of a record type, in declaration order.
type RecordField struct {
	Name StringId
	Type TypeId
}

// TypeInfo is one entry in the TypeStore.
type TypeInfo struct {
	Kind TypeKind

	// TypeRefined.
	Base TypeId
	Min  int64
	Max  int64

	// TypeList.
	Elem TypeId
	Size int

	// TypeRecord.
	Name   StringId
	Fields []RecordField
}

// structuralKey is the interning key for non-builtin types: two TypeInfo
// values with equal keys must resolve to the same TypeId (spec.md's
// interning law). Record types intern by identity of declaration, not
// structure, since two same-shaped record type declarations with different
// names are different nominal types; the key below already captures that
// because it includes Name.
type structuralKey string

func key(t TypeInfo) structuralKey {
	switch t.Kind {
	case TypeRefined:
		return structuralKey(fmt.Sprintf("refined:%d:%d:%d", t.Base, t.Min, t.Max))
	case TypeList:
		return structuralKey(fmt.Sprintf("list:%d:%d", t.Elem, t.Size))
	case TypeRecord:
		return structuralKey(fmt.Sprintf("record:%d", t.Name))
	default:
		return structuralKey(fmt.Sprintf("builtin:%d", t.Kind))
	}
}

// TypeStore interns every non-builtin type (refined, list, record) behind a
// structural key, grounded on the teacher's core/types/registry.go Registry
// (sync.RWMutex-guarded intern-by-key map over an append-only slice; Tiny-
// Whale compiles are single-threaded per CompilationContext so no mutex is
// needed here).
type TypeStore struct {
	infos []TypeInfo
	index map[structuralKey]TypeId
}

// NewTypeStore returns a store pre-seeded with the four builtin types at
// their fixed ids.
func NewTypeStore() *TypeStore {
	s := &TypeStore{index: make(map[structuralKey]TypeId)}
	for _, k := range []TypeKind{TypeI32, TypeI64, TypeF32, TypeF64} {
		info := TypeInfo{Kind: k}
		id := TypeId(len(s.infos))
		s.infos = append(s.infos, info)
		s.index[key(info)] = id
	}
	invariant.Invariant(s.infos[TypeIdI32].Kind == TypeI32, "TypeIdI32 must resolve to TypeI32")
	invariant.Invariant(s.infos[TypeIdI64].Kind == TypeI64, "TypeIdI64 must resolve to TypeI64")
	invariant.Invariant(s.infos[TypeIdF32].Kind == TypeF32, "TypeIdF32 must resolve to TypeF32")
	invariant.Invariant(s.infos[TypeIdF64].Kind == TypeF64, "TypeIdF64 must resolve to TypeF64")
	return s
}

// InternRefined returns the TypeId for base narrowed to [min, max],
// registering it on first sight.
func (s *TypeStore) InternRefined(base TypeId, min, max int64) TypeId {
	return s.intern(TypeInfo{Kind: TypeRefined, Base: base, Min: min, Max: max})
}

// InternList returns the TypeId for a fixed-size list of elem, registering
// it on first sight.
func (s *TypeStore) InternList(elem TypeId, size int) TypeId {
	return s.intern(TypeInfo{Kind: TypeList, Elem: elem, Size: size})
}

// DeclareRecord registers a new nominal record type under name. Unlike
// InternRefined/InternList, each call creates a fresh TypeId: a record type
// declaration is registered exactly once, at the NodeTypeDecl that
// introduces it, so there is no structural-equality lookup to perform first.
func (s *TypeStore) DeclareRecord(name StringId, fields []RecordField) TypeId {
	info := TypeInfo{Kind: TypeRecord, Name: name, Fields: fields}
	id := TypeId(len(s.infos))
	s.infos = append(s.infos, info)
	s.index[key(info)] = id
	return id
}

// SetFields patches a record type's field list in place. Used by the
// checker's two-pass resolution: DeclareRecord reserves the TypeId (so
// other declarations can reference it by name before its own fields are
// resolved), then SetFields fills in the real field list once the whole
// file's type names are known, which is what makes mutual recursion between
// two record declarations detectable at all.
func (s *TypeStore) SetFields(id TypeId, fields []RecordField) {
	invariant.InRange(int(id), 0, len(s.infos)-1, "TypeId")
	invariant.Precondition(s.infos[id].Kind == TypeRecord, "SetFields requires a record type")
	s.infos[id].Fields = fields
}

func (s *TypeStore) intern(info TypeInfo) TypeId {
	k := key(info)
	if id, ok := s.index[k]; ok {
		return id
	}
	id := TypeId(len(s.infos))
	s.infos = append(s.infos, info)
	s.index[k] = id
	return id
}

// Get returns the TypeInfo for id.
func (s *TypeStore) Get(id TypeId) TypeInfo {
	invariant.InRange(int(id), 0, len(s.infos)-1, "TypeId")
	return s.infos[id]
}

// Len returns the number of registered types, builtins included.
func (s *TypeStore) Len() int { return len(s.infos) }

// IsInteger reports whether id names i32 or i64, or a refinement of either.
func (s *TypeStore) IsInteger(id TypeId) bool {
	info := s.Get(id)
	switch info.Kind {
	case TypeI32, TypeI64:
		return true
	case TypeRefined:
		return s.IsInteger(info.Base)
	default:
		return false
	}
}

// Underlying returns id's base wasm-representable type: itself for a
// builtin, recursively its base for a refinement.
func (s *TypeStore) Underlying(id TypeId) TypeId {
	info := s.Get(id)
	if info.Kind == TypeRefined {
		return s.Underlying(info.Base)
	}
	return id
}
