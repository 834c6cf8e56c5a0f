// Package wire defines the payloads exchanged between hubs during sync.
//
// Payloads are scale encoded. Hashes travel as lowercase hex strings and sync
// ids and prefixes as raw bytes.
package wire

import (
	"encoding/hex"
	"fmt"

	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"

	"github.com/hubsync/go-hub/codec"
	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/syncid"
	"github.com/hubsync/go-hub/trie"
)

const (
	MaxPrefixSize      = syncid.Length
	MaxExcludedHashes  = syncid.Length + 1
	MaxHexHashSize     = 2 * types.Hash20Length
	MaxIDsPerResponse  = trie.MaxValuesReturnedPerCall
	MaxMessagesPerCall = trie.MaxValuesReturnedPerCall
	MaxChildren        = 256
	MaxPeers           = 1024
	MaxErrorSize       = 1024
	// 85 MiB, enough for MaxMessagesPerCall messages at the body limit
	MaxPayloadSize = 89128960
)

//go:generate scalegen -types InfoRequest,DBStats,HubInfo,PrefixRequest,TrieNodeMetadata,SyncStatusRequest,PeerSyncStatus,SyncStatusResponse,SubmitResponse,StreamRequest,StreamResponse

type InfoRequest struct {
	DBStats bool
}

type DBStats struct {
	NumMessages uint64
	ApproxSize  uint64
}

type HubInfo struct {
	Version   string `scale:"max=64"`
	IsSyncing bool
	Nickname  string `scale:"max=64"`
	RootHash  string `scale:"max=40"`
	PeerID    string `scale:"max=128"`
	DBStats   DBStats
}

// PrefixRequest selects a trie node. An empty prefix selects the root.
type PrefixRequest struct {
	Prefix []byte `scale:"max=30"`
}

// SyncSnapshot is the peer's view along a prefix.
type SyncSnapshot struct {
	Prefix         []byte
	ExcludedHashes []string
	NumMessages    uint64
	RootHash       string
}

func (s *SyncSnapshot) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeByteSliceWithLimit(enc, s.Prefix, MaxPrefixSize)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := codec.EncodeStrings(enc, s.ExcludedHashes, MaxExcludedHashes, MaxHexHashSize)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, s.NumMessages)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeStringWithLimit(enc, s.RootHash, MaxHexHashSize)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (s *SyncSnapshot) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := scale.DecodeByteSliceWithLimit(dec, MaxPrefixSize)
		if err != nil {
			return total, err
		}
		total += n
		s.Prefix = field
	}
	{
		field, n, err := codec.DecodeStrings(dec, MaxExcludedHashes, MaxHexHashSize)
		if err != nil {
			return total, err
		}
		total += n
		s.ExcludedHashes = field
	}
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		s.NumMessages = field
	}
	{
		field, n, err := scale.DecodeStringWithLimit(dec, MaxHexHashSize)
		if err != nil {
			return total, err
		}
		total += n
		s.RootHash = field
	}
	return total, nil
}

func (s *SyncSnapshot) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("prefix", string(s.Prefix))
	encoder.AddInt("excluded", len(s.ExcludedHashes))
	encoder.AddUint64("num_messages", s.NumMessages)
	encoder.AddString("root_hash", s.RootHash)
	return nil
}

// NewSyncSnapshot converts a local trie snapshot to its wire form.
func NewSyncSnapshot(snap trie.Snapshot) *SyncSnapshot {
	out := &SyncSnapshot{
		Prefix:         snap.Prefix,
		ExcludedHashes: make([]string, len(snap.ExcludedHashes)),
		NumMessages:    uint64(snap.NumMessages),
		RootHash:       snap.RootHash.Hex(),
	}
	for i, h := range snap.ExcludedHashes {
		out.ExcludedHashes[i] = h.Hex()
	}
	return out
}

// Hashes parses the excluded hashes.
func (s *SyncSnapshot) Hashes() ([]types.Hash20, error) {
	hashes := make([]types.Hash20, len(s.ExcludedHashes))
	for i, h := range s.ExcludedHashes {
		parsed, err := ParseHash(h)
		if err != nil {
			return nil, fmt.Errorf("excluded hash %d: %w", i, err)
		}
		hashes[i] = parsed
	}
	return hashes, nil
}

// ParseHash decodes a hex encoded trie hash.
func ParseHash(s string) (types.Hash20, error) {
	var h types.Hash20
	if len(s) != MaxHexHashSize {
		return h, fmt.Errorf("hash %q: want %d hex characters", s, MaxHexHashSize)
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, fmt.Errorf("hash %q: %w", s, err)
	}
	return h, nil
}

// TrieNodeMetadata describes a node and, one level deep, its children.
type TrieNodeMetadata struct {
	Prefix      []byte `scale:"max=30"`
	NumMessages uint64
	Hash        string             `scale:"max=40"`
	Children    []TrieNodeMetadata `scale:"max=256"`
}

// NewTrieNodeMetadata converts local node metadata to its wire form.
func NewTrieNodeMetadata(md trie.NodeMetadata) *TrieNodeMetadata {
	out := &TrieNodeMetadata{
		Prefix:      md.Prefix,
		NumMessages: uint64(md.NumMessages),
		Hash:        md.Hash.Hex(),
	}
	for _, c := range md.Children {
		out.Children = append(out.Children, *NewTrieNodeMetadata(c))
	}
	return out
}

// SyncIDs is a list of raw sync ids.
type SyncIDs struct {
	IDs [][]byte
}

func (s *SyncIDs) EncodeScale(enc *scale.Encoder) (int, error) {
	return codec.EncodeByteSlices(enc, s.IDs, MaxIDsPerResponse, syncid.Length)
}

func (s *SyncIDs) DecodeScale(dec *scale.Decoder) (int, error) {
	ids, n, err := codec.DecodeByteSlices(dec, MaxIDsPerResponse, syncid.Length)
	if err != nil {
		return n, err
	}
	s.IDs = ids
	return n, nil
}

// NewSyncIDs converts sync ids to their wire form.
func NewSyncIDs(ids []syncid.ID) *SyncIDs {
	out := &SyncIDs{IDs: make([][]byte, len(ids))}
	for i := range ids {
		out.IDs[i] = ids[i].Bytes()
	}
	return out
}

// Parse validates every id.
func (s *SyncIDs) Parse() ([]syncid.ID, error) {
	ids := make([]syncid.ID, len(s.IDs))
	for i, raw := range s.IDs {
		id, err := syncid.FromBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("sync id %d: %w", i, err)
		}
		ids[i] = id
	}
	return ids, nil
}

// Messages carries full messages.
type Messages struct {
	Messages []types.Message
}

func (m *Messages) EncodeScale(enc *scale.Encoder) (int, error) {
	return scale.EncodeStructSliceWithLimit(enc, m.Messages, MaxMessagesPerCall)
}

func (m *Messages) DecodeScale(dec *scale.Decoder) (int, error) {
	msgs, n, err := scale.DecodeStructSliceWithLimit[types.Message](dec, MaxMessagesPerCall)
	if err != nil {
		return n, err
	}
	m.Messages = msgs
	return n, nil
}

type SyncStatusRequest struct {
	PeerID string `scale:"max=128"`
}

// PeerSyncStatus is the outcome of comparing against one peer.
type PeerSyncStatus struct {
	PeerID           string `scale:"max=128"`
	InSync           string `scale:"max=16"`
	ShouldSync       bool
	DivergencePrefix []byte `scale:"max=30"`
	// seconds between the divergence point and now
	DivergenceSecondsAgo uint64
	TheirMessages        uint64
	OurMessages          uint64
	// unix milliseconds, zero if never
	LastBadSync     uint64
	LastSuccessSync uint64
}

type SyncStatusResponse struct {
	IsSyncing     bool
	EngineStarted bool
	Statuses      []PeerSyncStatus `scale:"max=1024"`
}

type SubmitResponse struct {
	Result uint8
}

// Kind tags a call multiplexed over StreamSync.
type Kind uint8

const (
	KindGetInfo Kind = iota + 1
	KindGetSyncSnapshotByPrefix
	KindGetSyncMetadataByPrefix
	KindGetAllSyncIDsByPrefix
	KindGetAllMessagesBySyncIDs
)

func (k Kind) String() string {
	switch k {
	case KindGetInfo:
		return "get_info"
	case KindGetSyncSnapshotByPrefix:
		return "get_sync_snapshot_by_prefix"
	case KindGetSyncMetadataByPrefix:
		return "get_sync_metadata_by_prefix"
	case KindGetAllSyncIDsByPrefix:
		return "get_all_sync_ids_by_prefix"
	case KindGetAllMessagesBySyncIDs:
		return "get_all_messages_by_sync_ids"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// StreamRequest is one call sent over StreamSync. ID is chosen by the caller
// and echoed in the response.
type StreamRequest struct {
	ID      uint64
	Kind    Kind
	Payload []byte `scale:"max=89128960"`
}

// StreamResponse answers the StreamRequest with the same ID. A non zero Code
// is a grpc status code and Payload is empty.
type StreamResponse struct {
	ID      uint64
	Kind    Kind
	Payload []byte `scale:"max=89128960"`
	Code    uint32
	Error   string `scale:"max=1024"`
}
