// Package syncid encodes a message's timestamp and hash into the fixed width,
// bytewise sortable key used by the sync trie.
//
// Layout: TimestampLength ASCII decimal digits of the timestamp, zero padded,
// followed by the HashLength bytes of the message hash.
package syncid

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/hubsync/go-hub/common/types"
)

const (
	// TimestampLength is the number of decimal digits of the timestamp portion.
	TimestampLength = 10
	// HashLength is the number of hash bytes following the timestamp.
	HashLength = types.Hash20Length
	// Length is the total size of a SyncID.
	Length = TimestampLength + HashLength

	// MaxTimestamp is the largest timestamp representable in TimestampLength digits.
	MaxTimestamp = 9_999_999_999
)

var (
	// ErrEncodingOverflow is returned when a timestamp does not fit in the fixed width.
	ErrEncodingOverflow = errors.New("timestamp exceeds sync id encoding range")
	// ErrInvalidSyncID is returned when decoding bytes that are not a valid sync id.
	ErrInvalidSyncID = errors.New("invalid sync id")
)

// ID is a fixed width sync id. Comparing two IDs bytewise orders them by timestamp
// first and by hash bytes among equal timestamps.
type ID [Length]byte

// Encode builds the id for a timestamp and hash.
func Encode(timestamp uint64, hash types.Hash20) (ID, error) {
	var id ID
	if timestamp > MaxTimestamp {
		return id, fmt.Errorf("%w: %d", ErrEncodingOverflow, timestamp)
	}
	copy(id[:TimestampLength], TimestampPrefix(timestamp))
	copy(id[TimestampLength:], hash[:])
	return id, nil
}

// MustEncode is Encode for timestamps known to be in range.
func MustEncode(timestamp uint64, hash types.Hash20) ID {
	id, err := Encode(timestamp, hash)
	if err != nil {
		panic(err)
	}
	return id
}

// FromMessage computes the id of a message.
func FromMessage(msg *types.Message) (ID, error) {
	return Encode(uint64(msg.Timestamp), msg.Hash)
}

// FromBytes validates raw bytes as an id.
func FromBytes(b []byte) (ID, error) {
	var id ID
	if _, _, err := Decode(b); err != nil {
		return id, err
	}
	copy(id[:], b)
	return id, nil
}

// Decode splits a raw id into its timestamp and hash.
func Decode(b []byte) (uint64, types.Hash20, error) {
	var hash types.Hash20
	if len(b) != Length {
		return 0, hash, fmt.Errorf("%w: length %d", ErrInvalidSyncID, len(b))
	}
	for _, c := range b[:TimestampLength] {
		if c < '0' || c > '9' {
			return 0, hash, fmt.Errorf("%w: non decimal timestamp %q", ErrInvalidSyncID, b[:TimestampLength])
		}
	}
	ts, err := strconv.ParseUint(string(b[:TimestampLength]), 10, 64)
	if err != nil {
		return 0, hash, fmt.Errorf("%w: %w", ErrInvalidSyncID, err)
	}
	copy(hash[:], b[TimestampLength:])
	return ts, hash, nil
}

// TimestampPrefix renders a timestamp as the zero padded decimal prefix of ids.
// Timestamps above MaxTimestamp are clamped.
func TimestampPrefix(timestamp uint64) []byte {
	timestamp = min(timestamp, MaxTimestamp)
	return fmt.Appendf(make([]byte, 0, TimestampLength), "%0*d", TimestampLength, timestamp)
}

// Timestamp returns the timestamp portion of the id.
func (id ID) Timestamp() uint64 {
	ts, _, err := Decode(id[:])
	if err != nil {
		panic(fmt.Sprintf("BUG: malformed sync id %x: %v", id[:], err))
	}
	return ts
}

// Hash returns the hash portion of the id.
func (id ID) Hash() types.Hash20 {
	var h types.Hash20
	copy(h[:], id[TimestampLength:])
	return h
}

// Bytes returns the id as a fresh byte slice.
func (id ID) Bytes() []byte {
	b := make([]byte, Length)
	copy(b, id[:])
	return b
}

// Compare orders ids bytewise.
func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}

func (id ID) String() string {
	return fmt.Sprintf("%s-%x", id[:TimestampLength], id[TimestampLength:])
}

// ShortString is the timestamp and the first hash bytes, for logging.
func (id ID) ShortString() string {
	return fmt.Sprintf("%s-%x", id[:TimestampLength], id[TimestampLength:TimestampLength+3])
}
