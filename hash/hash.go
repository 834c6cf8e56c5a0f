// Package hash provides the truncated blake3 digest used for message ids and trie nodes.
package hash

// Size is the length of a truncated blake3 digest.
const Size = 20

// Sum20 returns the blake3 digest of data truncated to 160 bits.
func Sum20(data ...[]byte) (out [Size]byte) {
	h := GetHasher()
	defer PutHasher(h)
	for _, d := range data {
		h.Write(d)
	}
	var full [32]byte
	h.Sum(full[:0])
	copy(out[:], full[:Size])
	return out
}

// Empty is the truncated digest of the empty input.
var Empty = Sum20()
