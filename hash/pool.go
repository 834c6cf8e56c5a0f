package hash

import (
	"sync"

	"github.com/zeebo/blake3"
)

var pool = &sync.Pool{
	New: func() any {
		return blake3.New()
	},
}

// GetHasher will get a blake3 hasher from the pool.
// It may or may not allocate a new one. The hasher is always reset.
func GetHasher() *blake3.Hasher {
	h := pool.Get().(*blake3.Hasher)
	h.Reset()
	return h
}

// PutHasher returns the hasher back to the pool.
func PutHasher(hasher *blake3.Hasher) {
	pool.Put(hasher)
}

// Sum20Hasher finalizes h into a truncated digest.
func Sum20Hasher(h *blake3.Hasher) (out [Size]byte) {
	var full [32]byte
	h.Sum(full[:0])
	copy(out[:], full[:Size])
	return out
}
