// Package trie implements the merkle prefix trie indexing every sync id a hub holds.
//
// Every node caches the number of ids below it and a hash over its sorted
// children, so two hubs can compare whole subtrees by exchanging a single hash.
// Below the timestamp portion of the key an id is stored at the shallowest depth
// at which its prefix is unique. Deletes undo that compaction, so the shape and
// hashes of the trie depend only on the set of ids it holds.
package trie

import (
	"bytes"
	"sync"

	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/syncid"
)

// MaxValuesReturnedPerCall bounds the result of Values.
const MaxValuesReturnedPerCall = 1000

// Trie is safe for concurrent use.
type Trie struct {
	mu   sync.RWMutex
	root *node

	// prefixes touched since the last Flush
	dirty   map[string]struct{}
	cleared bool
}

// New creates an empty trie.
func New() *Trie {
	return &Trie{
		root:  newNode(),
		dirty: map[string]struct{}{},
	}
}

func (t *Trie) markDirty(prefix []byte) {
	t.dirty[string(prefix)] = struct{}{}
}

// Insert adds id to the trie. It returns false if id was already present.
func (t *Trie) Insert(id syncid.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := id[:]
	path := make([]*node, 0, len(key)+1)
	n := t.root
	for depth := 0; ; depth++ {
		path = append(path, n)
		if depth >= syncid.TimestampLength && n.isLeaf() {
			if n.key == nil {
				n.key = &id
				break
			}
			if *n.key == id {
				return false
			}
			// split: push the existing key one level down and keep descending
			existing := *n.key
			n.key = nil
			n.addChild(existing[depth], newLeaf(existing))
			t.markDirty(existing[:depth+1])
		}
		if depth >= len(key) {
			panic("BUG: sync id length exceeded while inserting")
		}
		c := n.child(key[depth])
		if c == nil {
			c = newNode()
			n.addChild(key[depth], c)
		}
		n = c
	}

	for i := len(path) - 1; i >= 0; i-- {
		path[i].items++
		path[i].updateHash()
		t.markDirty(key[:i])
	}
	return true
}

// Delete removes id from the trie. It returns false if id was not present.
func (t *Trie) Delete(id syncid.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := id[:]
	path := make([]*node, 0, len(key)+1)
	n := t.root
	for depth := 0; ; depth++ {
		path = append(path, n)
		if n.isLeaf() {
			if n.key == nil || *n.key != id {
				return false
			}
			break
		}
		if depth >= len(key) {
			panic("BUG: sync id length exceeded while deleting")
		}
		n = n.child(key[depth])
		if n == nil {
			return false
		}
	}

	leaf := path[len(path)-1]
	leaf.key = nil
	leaf.items = 0
	leaf.updateHash()
	t.markDirty(key[:len(path)-1])

	for i := len(path) - 2; i >= 0; i-- {
		parent, c := path[i], path[i+1]
		parent.items--
		if c.items == 0 {
			parent.removeChild(key[i])
		}
		// pull a lone leaf back up to keep the layout canonical
		if i >= syncid.TimestampLength && parent.items == 1 && len(parent.children) == 1 {
			only := parent.children[0]
			if only.node.key != nil {
				parent.key = only.node.key
				parent.children = nil
				t.markDirty(append(bytes.Clone(key[:i]), only.char))
			}
		}
		parent.updateHash()
		t.markDirty(key[:i])
	}
	return true
}

// Exists reports whether id is in the trie.
func (t *Trie) Exists(id syncid.ID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := t.root
	for depth := 0; ; depth++ {
		if n.isLeaf() {
			return n.key != nil && *n.key == id
		}
		if depth >= len(id) {
			return false
		}
		n = n.child(id[depth])
		if n == nil {
			return false
		}
	}
}

// RootHash returns the hash of the whole trie.
func (t *Trie) RootHash() types.Hash20 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root.hash
}

// Items returns the number of ids in the trie.
func (t *Trie) Items() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root.items
}

// Reset drops every id. Persisted nodes are removed on the next Flush.
func (t *Trie) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = newNode()
	t.dirty = map[string]struct{}{}
	t.cleared = true
}

// lookup returns the node at exactly prefix.
func (t *Trie) lookup(prefix []byte) *node {
	n := t.root
	for _, char := range prefix {
		n = n.child(char)
		if n == nil {
			return nil
		}
	}
	return n
}

// Values returns up to MaxValuesReturnedPerCall ids starting with prefix, in order.
func (t *Trie) Values(prefix []byte) []syncid.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := t.root
	for _, char := range prefix {
		if n.key != nil {
			// a compacted leaf above the end of the prefix
			if bytes.HasPrefix(n.key[:], prefix) {
				return []syncid.ID{*n.key}
			}
			return nil
		}
		if n = n.child(char); n == nil {
			return nil
		}
	}
	return n.collect(nil, MaxValuesReturnedPerCall)
}
