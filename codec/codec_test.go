package codec_test

import (
	"bytes"
	"testing"

	"github.com/spacemeshos/go-scale"
	"github.com/stretchr/testify/require"

	"github.com/hubsync/go-hub/codec"
	"github.com/hubsync/go-hub/common/types"
)

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	buf := codec.MustEncode(types.NewMessage(1, 2, 3, nil))
	var msg types.Message
	require.NoError(t, codec.Decode(buf, &msg))
	require.Error(t, codec.Decode(append(buf, 0), &msg))
}

func TestSlice(t *testing.T) {
	msgs := []types.Message{
		*types.NewMessage(1, 10, 1, []byte("a")),
		*types.NewMessage(2, 20, 1, []byte("b")),
	}
	buf, err := codec.EncodeSlice(msgs)
	require.NoError(t, err)
	decoded, err := codec.DecodeSlice[types.Message](buf)
	require.NoError(t, err)
	require.Equal(t, msgs, decoded)
}

func TestByteSlices(t *testing.T) {
	values := [][]byte{[]byte("one"), {}, []byte("three")}
	var buf bytes.Buffer
	n, err := codec.EncodeByteSlices(scale.NewEncoder(&buf), values, 3, 8)
	require.NoError(t, err)
	require.Equal(t, buf.Len(), n)

	decoded, m, err := codec.DecodeByteSlices(scale.NewDecoder(bytes.NewReader(buf.Bytes())), 3, 8)
	require.NoError(t, err)
	require.Equal(t, n, m)
	require.Len(t, decoded, 3)
	require.Equal(t, []byte("three"), decoded[2])

	_, err = codec.EncodeByteSlices(scale.NewEncoder(&buf), values, 2, 8)
	require.Error(t, err)
	_, _, err = codec.DecodeByteSlices(scale.NewDecoder(bytes.NewReader(buf.Bytes())), 2, 8)
	require.Error(t, err)
}

func TestStrings(t *testing.T) {
	values := []string{"aa", "bb"}
	var buf bytes.Buffer
	_, err := codec.EncodeStrings(scale.NewEncoder(&buf), values, 10, 4)
	require.NoError(t, err)
	decoded, _, err := codec.DecodeStrings(scale.NewDecoder(bytes.NewReader(buf.Bytes())), 10, 4)
	require.NoError(t, err)
	require.Equal(t, values, decoded)

	buf.Reset()
	_, err = codec.EncodeStrings(scale.NewEncoder(&buf), []string{"too long"}, 10, 4)
	require.Error(t, err)
}
