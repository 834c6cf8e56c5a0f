package trie

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/fxamacker/cbor/v2"

	"github.com/hubsync/go-hub/database"
	"github.com/hubsync/go-hub/syncid"
)

// RecordPrefix namespaces persisted trie nodes in the database.
var RecordPrefix = []byte("trie/")

// ErrCorrupted is returned by Load when persisted nodes are inconsistent.
// The trie is a cache of the message store and can be rebuilt from it.
var ErrCorrupted = errors.New("persisted trie is corrupted")

type nodeRecord struct {
	Key      []byte `cbor:"1,keyasint,omitempty"`
	Items    int    `cbor:"2,keyasint"`
	Hash     []byte `cbor:"3,keyasint"`
	Children []byte `cbor:"4,keyasint,omitempty"`
}

var encMode = func() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("BUG: cbor enc mode: %v", err))
	}
	return mode
}()

// KV is the part of the database the trie persists into.
type KV interface {
	database.Iterator
	NewBatch() database.Batch
}

func recordKey(prefix []byte) []byte {
	return append(bytes.Clone(RecordPrefix), prefix...)
}

func encodeNode(n *node) ([]byte, error) {
	rec := nodeRecord{
		Items: n.items,
		Hash:  n.hash[:],
	}
	if n.key != nil {
		rec.Key = n.key[:]
	}
	for _, c := range n.children {
		rec.Children = append(rec.Children, c.char)
	}
	return encMode.Marshal(&rec)
}

// Dirty returns the number of node records waiting for Flush.
func (t *Trie) Dirty() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.dirty)
}

// Flush writes every node changed since the previous Flush and removes records
// of pruned nodes, in a single batch.
func (t *Trie) Flush(db KV) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.dirty) == 0 && !t.cleared {
		return nil
	}

	batch := db.NewBatch()
	if t.cleared {
		if err := db.Iterate(RecordPrefix, func(key, _ []byte) error {
			return batch.Delete(bytes.Clone(key))
		}); err != nil {
			return fmt.Errorf("clear trie records: %w", err)
		}
		t.markDirty(nil)
	}
	for prefix := range t.dirty {
		p := []byte(prefix)
		n := t.lookup(p)
		if n == nil || (n.items == 0 && len(p) != 0) {
			if err := batch.Delete(recordKey(p)); err != nil {
				return err
			}
			continue
		}
		buf, err := encodeNode(n)
		if err != nil {
			return fmt.Errorf("encode trie node %x: %w", p, err)
		}
		if err := batch.Put(recordKey(p), buf); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("flush trie: %w", err)
	}
	t.dirty = map[string]struct{}{}
	t.cleared = false
	return nil
}

// Load restores a trie persisted with Flush. An empty database yields an empty trie.
// Every node is checked against its children, so a partial write surfaces as ErrCorrupted.
func Load(db KV) (*Trie, error) {
	records := map[string]nodeRecord{}
	if err := db.Iterate(RecordPrefix, func(key, value []byte) error {
		var rec nodeRecord
		if err := cbor.Unmarshal(value, &rec); err != nil {
			return fmt.Errorf("%w: decode node %x: %w", ErrCorrupted, key, err)
		}
		records[string(key[len(RecordPrefix):])] = rec
		return nil
	}); err != nil {
		return nil, err
	}
	t := New()
	if len(records) == 0 {
		return t, nil
	}
	root, err := loadNode(records, nil)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

func loadNode(records map[string]nodeRecord, prefix []byte) (*node, error) {
	rec, ok := records[string(prefix)]
	if !ok {
		return nil, fmt.Errorf("%w: missing node %x", ErrCorrupted, prefix)
	}
	if !slices.IsSorted(rec.Children) {
		return nil, fmt.Errorf("%w: unsorted children at %x", ErrCorrupted, prefix)
	}
	n := &node{}
	expected := 0
	if rec.Key != nil {
		id, err := syncid.FromBytes(rec.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: node %x: %w", ErrCorrupted, prefix, err)
		}
		if !bytes.HasPrefix(id[:], prefix) || len(rec.Children) != 0 {
			return nil, fmt.Errorf("%w: misplaced key at %x", ErrCorrupted, prefix)
		}
		n.key = &id
		expected = 1
	}
	for _, char := range rec.Children {
		c, err := loadNode(records, append(bytes.Clone(prefix), char))
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child{char: char, node: c})
		expected += c.items
	}
	n.items = rec.Items
	n.updateHash()
	if n.items != expected || !bytes.Equal(n.hash[:], rec.Hash) {
		return nil, fmt.Errorf("%w: inconsistent node %x", ErrCorrupted, prefix)
	}
	return n, nil
}
