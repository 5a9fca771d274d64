// Package serialize implements spec.md 6's binary artifact formats: a
// scanner blob, an LL(1) table blob, an SLR(1) table blob, and a combined
// blob bundling a scanner and a table under one set of token/non-terminal
// names. Each is an encoding.BinaryMarshaler/BinaryUnmarshaler backed by
// github.com/dekarrin/rezi, mirroring the teacher's server/dao/sqlite usage
// of rezi.EncBinary/rezi.DecBinary on whole values (no struct tags). Each
// wire struct carries spec.md 6's fields in order; the bytes written are
// rezi's encoding of those values, not a fixed-width little-endian u32
// layout.
package serialize

// packBitset turns bits into ceil(len(bits)/32) little-endian words, bit i
// of word i/32 set when bits[i] is true — spec.md 6's finalStatesBitset.
func packBitset(bits []bool) []uint32 {
	words := make([]uint32, (len(bits)+31)/32)
	for i, b := range bits {
		if b {
			words[i/32] |= 1 << uint(i%32)
		}
	}
	return words
}

// unpackBitset is packBitset's inverse, producing exactly n bools.
func unpackBitset(words []uint32, n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		word := 0
		if i/32 < len(words) {
			word = int(words[i/32])
		}
		bits[i] = word&(1<<uint(i%32)) != 0
	}
	return bits
}
