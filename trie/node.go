package trie

import (
	"slices"

	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/hash"
	"github.com/hubsync/go-hub/syncid"
)

type child struct {
	char byte
	node *node
}

// node is a branch point of the trie. A node either holds children sorted by
// branch byte, holds a single key (a compacted leaf), or is empty.
type node struct {
	hash     types.Hash20
	items    int
	children []child
	key      *syncid.ID
}

func newNode() *node {
	return &node{hash: types.Hash20(hash.Empty)}
}

func newLeaf(id syncid.ID) *node {
	n := &node{key: &id, items: 1}
	n.updateHash()
	return n
}

func (n *node) isLeaf() bool {
	return len(n.children) == 0
}

func (n *node) childIndex(char byte) (int, bool) {
	return slices.BinarySearchFunc(n.children, char, func(c child, b byte) int {
		return int(c.char) - int(b)
	})
}

func (n *node) child(char byte) *node {
	if i, ok := n.childIndex(char); ok {
		return n.children[i].node
	}
	return nil
}

func (n *node) addChild(char byte, c *node) {
	i, ok := n.childIndex(char)
	if ok {
		panic("BUG: child already exists")
	}
	n.children = slices.Insert(n.children, i, child{char: char, node: c})
}

func (n *node) removeChild(char byte) {
	if i, ok := n.childIndex(char); ok {
		n.children = slices.Delete(n.children, i, i+1)
	}
}

// updateHash recomputes the cached hash from the key or the children.
func (n *node) updateHash() {
	switch {
	case n.key != nil && len(n.children) != 0:
		panic("BUG: trie node holds both a key and children")
	case n.key != nil:
		n.hash = types.Hash20(hash.Sum20(n.key[:]))
	case len(n.children) == 0:
		n.hash = types.Hash20(hash.Empty)
	default:
		n.hash = n.childrenHash(-1)
	}
}

// childrenHash hashes the sorted (branch byte, child hash) pairs, skipping the
// branch equal to exclude. Pass a negative value to include every child.
func (n *node) childrenHash(exclude int) types.Hash20 {
	h := hash.GetHasher()
	defer hash.PutHasher(h)
	for _, c := range n.children {
		if int(c.char) == exclude {
			continue
		}
		h.Write([]byte{c.char})
		h.Write(c.node.hash[:])
	}
	return types.Hash20(hash.Sum20Hasher(h))
}

// excludedItems counts items under every child but the excluded branch.
func (n *node) excludedItems(exclude byte) int {
	total := 0
	for _, c := range n.children {
		if c.char != exclude {
			total += c.node.items
		}
	}
	return total
}

// collect appends every key under n in order, stopping at limit.
func (n *node) collect(out []syncid.ID, limit int) []syncid.ID {
	if len(out) >= limit {
		return out
	}
	if n.key != nil {
		return append(out, *n.key)
	}
	for _, c := range n.children {
		out = c.node.collect(out, limit)
		if len(out) >= limit {
			break
		}
	}
	return out
}
