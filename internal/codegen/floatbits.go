package codegen

import "math"

// f32bytes/f64bytes return a float's 4 or 8 little-endian bytes, the
// encoding f32.const/f64.const immediates use (unlike integers, wasm's
// float immediates are fixed-width, not LEB128).
func f32bytes(v float32) []byte {
	bits := math.Float32bits(v)
	return []byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
}

func f64bytes(v float64) []byte {
	bits := math.Float64bits(v)
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[i] = byte(bits >> (8 * i))
	}
	return out
}
