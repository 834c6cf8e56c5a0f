package types

import (
	"encoding/hex"
	"fmt"

	"github.com/hubsync/go-hub/hash"
)

// Hash20Length is the length of a message hash.
const Hash20Length = hash.Size

// Hash20 is a truncated blake3 digest identifying a message.
type Hash20 [Hash20Length]byte

// CalcHash20 returns the truncated blake3 digest of the concatenated chunks.
func CalcHash20(data ...[]byte) Hash20 {
	return Hash20(hash.Sum20(data...))
}

// BytesToHash20 copies b into a Hash20. It fails if b has the wrong length.
func BytesToHash20(b []byte) (Hash20, error) {
	var h Hash20
	if len(b) != Hash20Length {
		return h, fmt.Errorf("invalid hash length %d", len(b))
	}
	copy(h[:], b)
	return h, nil
}

// Bytes gets the byte representation of the underlying hash.
func (h Hash20) Bytes() []byte { return h[:] }

// Hex converts a hash to a hex string.
func (h Hash20) Hex() string { return hex.EncodeToString(h[:]) }

// String implements fmt.Stringer.
func (h Hash20) String() string { return h.Hex() }

// ShortString returns the first 5 characters of the hash, for logging purposes.
func (h Hash20) ShortString() string { return h.Hex()[:5] }

// IsEmpty reports whether the hash is all zeroes.
func (h Hash20) IsEmpty() bool { return h == Hash20{} }

// MarshalText returns the hex representation of h.
func (h Hash20) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText parses a hash in hex syntax.
func (h *Hash20) UnmarshalText(input []byte) error {
	b, err := hex.DecodeString(string(input))
	if err != nil {
		return fmt.Errorf("decode hash: %w", err)
	}
	parsed, err := BytesToHash20(b)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
