// Package codec wraps go-scale with pooled buffers for the types persisted and sent over the wire.
package codec

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/spacemeshos/go-scale"
)

// Encodable is an interface that must be implemented by a struct to be encoded.
type Encodable = scale.Encodable

// Decodable is an interface that must be implemented by a struct to be decoded.
type Decodable = scale.Decodable

// EncodeTo encodes value to a writer stream.
func EncodeTo(w io.Writer, value Encodable) (int, error) {
	return value.EncodeScale(scale.NewEncoder(w))
}

// DecodeFrom decodes a value using data from a reader stream.
func DecodeFrom(r io.Reader, value Decodable) (int, error) {
	return value.DecodeScale(scale.NewDecoder(r))
}

var encoderPool = sync.Pool{
	New: func() any {
		b := new(bytes.Buffer)
		b.Grow(64)
		return b
	},
}

func getEncoderBuffer() *bytes.Buffer {
	return encoderPool.Get().(*bytes.Buffer)
}

func putEncoderBuffer(b *bytes.Buffer) {
	b.Reset()
	encoderPool.Put(b)
}

// Encode value to a byte buffer.
func Encode(value Encodable) ([]byte, error) {
	b := getEncoderBuffer()
	defer putEncoderBuffer(b)
	if _, err := EncodeTo(b, value); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	buf := make([]byte, b.Len())
	copy(buf, b.Bytes())
	return buf, nil
}

// MustEncode encodes a value that is known to be within its limits.
func MustEncode(value Encodable) []byte {
	buf, err := Encode(value)
	if err != nil {
		panic(fmt.Sprintf("BUG: failed to encode %T: %v", value, err))
	}
	return buf
}

// Decode value from a byte buffer. Trailing bytes are an error.
func Decode(buf []byte, value Decodable) error {
	r := bytes.NewReader(buf)
	if _, err := DecodeFrom(r, value); err != nil {
		return fmt.Errorf("decode from buffer: %w", err)
	}
	if r.Len() != 0 {
		return fmt.Errorf("decode from buffer: %d trailing bytes", r.Len())
	}
	return nil
}

// EncodeSlice encodes a slice of structs prefixed with its length.
func EncodeSlice[V any, H scale.EncodablePtr[V]](value []V) ([]byte, error) {
	var b bytes.Buffer
	_, err := scale.EncodeStructSlice[V, H](scale.NewEncoder(&b), value)
	if err != nil {
		return nil, fmt.Errorf("encode struct slice: %w", err)
	}
	return b.Bytes(), nil
}

// DecodeSlice is the inverse of EncodeSlice.
func DecodeSlice[V any, H scale.DecodablePtr[V]](buf []byte) ([]V, error) {
	v, _, err := scale.DecodeStructSlice[V, H](scale.NewDecoder(bytes.NewReader(buf)))
	if err != nil {
		return nil, fmt.Errorf("decode struct slice: %w", err)
	}
	return v, nil
}

// EncodeByteSlices writes a compact length followed by each byte slice, every one bounded by limit.
func EncodeByteSlices(enc *scale.Encoder, values [][]byte, maxItems, limit uint32) (total int, err error) {
	if uint32(len(values)) > maxItems {
		return 0, fmt.Errorf("too many items: %d > %d", len(values), maxItems)
	}
	n, err := scale.EncodeCompact32(enc, uint32(len(values)))
	if err != nil {
		return total, err
	}
	total += n
	for _, v := range values {
		n, err := scale.EncodeByteSliceWithLimit(enc, v, limit)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeByteSlices is the inverse of EncodeByteSlices.
func DecodeByteSlices(dec *scale.Decoder, maxItems, limit uint32) ([][]byte, int, error) {
	length, total, err := scale.DecodeCompact32(dec)
	if err != nil {
		return nil, total, err
	}
	if length > maxItems {
		return nil, total, fmt.Errorf("too many items: %d > %d", length, maxItems)
	}
	if length == 0 {
		return nil, total, nil
	}
	values := make([][]byte, 0, length)
	for range length {
		v, n, err := scale.DecodeByteSliceWithLimit(dec, limit)
		if err != nil {
			return nil, total, err
		}
		total += n
		values = append(values, v)
	}
	return values, total, nil
}

// EncodeStrings writes a compact length followed by each string, every one bounded by limit.
func EncodeStrings(enc *scale.Encoder, values []string, maxItems, limit uint32) (total int, err error) {
	if uint32(len(values)) > maxItems {
		return 0, fmt.Errorf("too many items: %d > %d", len(values), maxItems)
	}
	n, err := scale.EncodeCompact32(enc, uint32(len(values)))
	if err != nil {
		return total, err
	}
	total += n
	for _, v := range values {
		n, err := scale.EncodeStringWithLimit(enc, v, limit)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeStrings is the inverse of EncodeStrings.
func DecodeStrings(dec *scale.Decoder, maxItems, limit uint32) ([]string, int, error) {
	length, total, err := scale.DecodeCompact32(dec)
	if err != nil {
		return nil, total, err
	}
	if length > maxItems {
		return nil, total, fmt.Errorf("too many items: %d > %d", length, maxItems)
	}
	if length == 0 {
		return nil, total, nil
	}
	values := make([]string, 0, length)
	for range length {
		v, n, err := scale.DecodeStringWithLimit(dec, limit)
		if err != nil {
			return nil, total, err
		}
		total += n
		values = append(values, v)
	}
	return values, total, nil
}
