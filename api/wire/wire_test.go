package wire

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/hubsync/go-hub/codec"
	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/syncid"
	"github.com/hubsync/go-hub/trie"
)

func testTrie() *trie.Trie {
	tr := trie.New()
	for i := range 40 {
		tr.Insert(syncid.MustEncode(uint64(1_700_000_000+i%4), types.CalcHash20([]byte{byte(i)})))
	}
	return tr
}

func TestSnapshotConversion(t *testing.T) {
	tr := testTrie()
	snap := tr.Snapshot(syncid.TimestampPrefix(1_700_000_002))
	wire := NewSyncSnapshot(snap)
	require.Equal(t, tr.RootHash().Hex(), wire.RootHash)
	require.Equal(t, uint64(10), wire.NumMessages)

	buf, err := codec.Encode(wire)
	require.NoError(t, err)
	var decoded SyncSnapshot
	require.NoError(t, codec.Decode(buf, &decoded))
	hashes, err := decoded.Hashes()
	require.NoError(t, err)
	require.Equal(t, snap.ExcludedHashes, hashes)
	require.Equal(t, snap.Prefix, decoded.Prefix)
}

func TestParseHash(t *testing.T) {
	h := types.CalcHash20([]byte("hub"))
	parsed, err := ParseHash(h.Hex())
	require.NoError(t, err)
	require.Equal(t, h, parsed)

	_, err = ParseHash("")
	require.Error(t, err)
	_, err = ParseHash(h.Hex()[:38])
	require.Error(t, err)
	_, err = ParseHash("zz" + h.Hex()[2:])
	require.Error(t, err)

	snap := SyncSnapshot{ExcludedHashes: []string{h.Hex(), "nothex"}}
	_, err = snap.Hashes()
	require.ErrorContains(t, err, "excluded hash 1")
}

func TestMetadataConversion(t *testing.T) {
	tr := testTrie()
	md, ok := tr.NodeMetadata(syncid.TimestampPrefix(1_700_000_001)[:9])
	require.True(t, ok)
	wire := NewTrieNodeMetadata(md)
	require.Len(t, wire.Children, 4)

	buf, err := codec.Encode(wire)
	require.NoError(t, err)
	var decoded TrieNodeMetadata
	require.NoError(t, codec.Decode(buf, &decoded))
	require.Empty(t, cmp.Diff(wire, &decoded, cmpopts.EquateEmpty()))
	for i, c := range decoded.Children {
		require.Equal(t, md.Children[i].Hash.Hex(), c.Hash)
		require.Equal(t, uint64(10), c.NumMessages)
	}
}

func TestSyncIDs(t *testing.T) {
	ids := testTrie().Values(nil)
	buf, err := codec.Encode(NewSyncIDs(ids))
	require.NoError(t, err)
	var decoded SyncIDs
	require.NoError(t, codec.Decode(buf, &decoded))
	parsed, err := decoded.Parse()
	require.NoError(t, err)
	require.Equal(t, ids, parsed)

	bad := SyncIDs{IDs: [][]byte{ids[0][:], []byte("short")}}
	_, err = bad.Parse()
	require.ErrorContains(t, err, "sync id 1")
}

func TestLimits(t *testing.T) {
	tooMany := make([][]byte, MaxIDsPerResponse+1)
	for i := range tooMany {
		tooMany[i] = []byte{1}
	}
	_, err := codec.Encode(&SyncIDs{IDs: tooMany})
	require.Error(t, err)

	_, err = codec.Encode(&PrefixRequest{Prefix: bytes.Repeat([]byte{'1'}, MaxPrefixSize+1)})
	require.Error(t, err)
}

func TestMessages(t *testing.T) {
	msgs := &Messages{Messages: []types.Message{
		*types.NewMessage(1, 10, 1, []byte("a")),
		*types.NewMessage(2, 20, 1, []byte("b")),
	}}
	buf, err := codec.Encode(msgs)
	require.NoError(t, err)
	var decoded Messages
	require.NoError(t, codec.Decode(buf, &decoded))
	require.Equal(t, msgs, &decoded)
}

func TestGRPCCodec(t *testing.T) {
	c := Codec{}
	require.Equal(t, CodecName, c.Name())
	req := &StreamRequest{ID: 7, Kind: KindGetAllSyncIDsByPrefix, Payload: []byte("1700")}
	buf, err := c.Marshal(req)
	require.NoError(t, err)
	var decoded StreamRequest
	require.NoError(t, c.Unmarshal(buf, &decoded))
	require.Equal(t, *req, decoded)

	_, err = c.Marshal("not a payload")
	require.Error(t, err)
	require.Error(t, c.Unmarshal(buf, new(int)))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "get_info", KindGetInfo.String())
	require.Equal(t, "kind(99)", Kind(99).String())
}
