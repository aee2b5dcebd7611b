// Package codegen lowers checked SemIR into a WebAssembly binary module
// (and, for debugging, its textual .wat form), then validates the binary
// with a real Wasm runtime rather than trusting the hand-written encoder.
//
// The section-by-section byte-buffer encoder here follows the same
// "small, explicit, by-hand serializer" shape the teacher uses for its own
// generated-code output (codegen/helpers.go, codegen/types.go): one
// append-only buffer, small single-purpose write helpers, no reflection.
package codegen

// buffer is an append-only byte buffer with the small write helpers the
// binary encoder needs; every WebAssembly integer is LEB128-encoded.
type buffer struct {
	bytes []byte
}

func (b *buffer) byte(v byte) { b.bytes = append(b.bytes, v) }

func (b *buffer) raw(v []byte) { b.bytes = append(b.bytes, v...) }

// uleb128 appends v as an unsigned LEB128 integer (section/vector lengths,
// indices, and unsigned constants all use this encoding).
func (b *buffer) uleb128(v uint64) {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b.byte(c | 0x80)
		} else {
			b.byte(c)
			return
		}
	}
}

// sleb128 appends v as a signed LEB128 integer (i32.const/i64.const
// operands use this encoding).
func (b *buffer) sleb128(v int64) {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		signBitSet := c&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			b.byte(c)
			return
		}
		b.byte(c | 0x80)
	}
}

// name appends a WebAssembly "name" value: a uleb128 byte length followed
// by the UTF-8 bytes themselves.
func (b *buffer) name(s string) {
	b.uleb128(uint64(len(s)))
	b.raw([]byte(s))
}

// section appends a WebAssembly section: the section id byte, then the
// uleb128 byte length of the contents written by fill, then those contents.
func (b *buffer) section(id byte, fill func(content *buffer)) {
	var content buffer
	fill(&content)
	b.byte(id)
	b.uleb128(uint64(len(content.bytes)))
	b.raw(content.bytes)
}
