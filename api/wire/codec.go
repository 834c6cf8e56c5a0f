package wire

import (
	"fmt"

	"google.golang.org/grpc/encoding"

	"github.com/hubsync/go-hub/codec"
)

// CodecName is the grpc content subtype of scale encoded payloads.
const CodecName = "scale"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec lets grpc carry scale encoded payloads.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	e, ok := v.(codec.Encodable)
	if !ok {
		return nil, fmt.Errorf("scale codec: %T is not encodable", v)
	}
	return codec.Encode(e)
}

func (Codec) Unmarshal(data []byte, v any) error {
	d, ok := v.(codec.Decodable)
	if !ok {
		return fmt.Errorf("scale codec: %T is not decodable", v)
	}
	return codec.Decode(data, d)
}

func (Codec) Name() string {
	return CodecName
}
