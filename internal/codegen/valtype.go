package codegen

import "github.com/tinywhale-lang/tinywhale/internal/source"

// Wasm value type encodings (the only four scalar numtypes tinywhale needs;
// there is no v128 or reference type in this language).
const (
	valI32 byte = 0x7F
	valI64 byte = 0x7E
	valF32 byte = 0x7D
	valF64 byte = 0x7C
)

// valtype returns the wasm value type byte a flattened scalar leaf of typ
// encodes as. typ must already be a leaf type (the result of
// TypeStore.Underlying, or a symbol's own Type — never TypeList/TypeRecord,
// which don't exist as leaves by construction).
func valtype(types *source.TypeStore, typ source.TypeId) byte {
	switch types.Underlying(typ) {
	case source.TypeIdI32:
		return valI32
	case source.TypeIdI64:
		return valI64
	case source.TypeIdF32:
		return valF32
	default:
		return valF64
	}
}
