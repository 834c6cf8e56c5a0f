package trie

import (
	"bytes"

	"go.uber.org/zap/zapcore"

	"github.com/hubsync/go-hub/common/types"
)

// Snapshot summarizes the trie along a prefix. ExcludedHashes[i] is the hash of
// the node at prefix[:i] computed over every child except prefix[i]. When the
// whole prefix exists the hash of the node at prefix is appended.
type Snapshot struct {
	Prefix         []byte
	ExcludedHashes []types.Hash20
	// NumMessages is the number of ids under prefix, zero if prefix is absent.
	NumMessages int
	// ExcludedMessages is the number of ids outside prefix seen along the walk.
	ExcludedMessages int
	RootHash         types.Hash20
}

// MarshalLogObject implements logging interface.
func (s *Snapshot) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddByteString("prefix", s.Prefix)
	encoder.AddInt("levels", len(s.ExcludedHashes))
	encoder.AddInt("num_messages", s.NumMessages)
	encoder.AddString("root_hash", s.RootHash.ShortString())
	return nil
}

// Snapshot walks prefix from the root. A prefix missing from the trie yields a
// snapshot with zero messages, never an error.
func (t *Trie) Snapshot(prefix []byte) Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := Snapshot{
		Prefix:   bytes.Clone(prefix),
		RootHash: t.root.hash,
	}
	n := t.root
	for _, char := range prefix {
		snap.ExcludedHashes = append(snap.ExcludedHashes, n.childrenHash(int(char)))
		snap.ExcludedMessages += n.excludedItems(char)
		if n = n.child(char); n == nil {
			return snap
		}
	}
	snap.ExcludedHashes = append(snap.ExcludedHashes, n.hash)
	snap.NumMessages = n.items
	return snap
}

// DivergencePrefix returns the longest leading part of prefix over which the
// local excluded hashes agree with the remote ones.
func (t *Trie) DivergencePrefix(prefix []byte, excludedHashes []types.Hash20) []byte {
	ours := t.Snapshot(prefix).ExcludedHashes
	for i := range prefix {
		if i >= len(ours) || i >= len(excludedHashes) || ours[i] != excludedHashes[i] {
			return bytes.Clone(prefix[:i])
		}
	}
	return bytes.Clone(prefix)
}

// NodeMetadata describes one node and, one level deep, its children.
type NodeMetadata struct {
	Prefix      []byte
	NumMessages int
	Hash        types.Hash20
	Children    []NodeMetadata
}

// Child returns the metadata of the child on the given branch.
func (m *NodeMetadata) Child(char byte) (NodeMetadata, bool) {
	for _, c := range m.Children {
		if len(c.Prefix) > 0 && c.Prefix[len(c.Prefix)-1] == char {
			return c, true
		}
	}
	return NodeMetadata{}, false
}

// NodeMetadata returns the node at prefix with its immediate children.
// The second result is false if the prefix does not exist.
func (t *Trie) NodeMetadata(prefix []byte) (NodeMetadata, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := t.lookup(prefix)
	if n == nil {
		return NodeMetadata{Prefix: bytes.Clone(prefix)}, false
	}
	md := NodeMetadata{
		Prefix:      bytes.Clone(prefix),
		NumMessages: n.items,
		Hash:        n.hash,
	}
	for _, c := range n.children {
		md.Children = append(md.Children, NodeMetadata{
			Prefix:      append(bytes.Clone(prefix), c.char),
			NumMessages: c.node.items,
			Hash:        c.node.hash,
		})
	}
	return md, true
}
