// Package database defines the key value store used by the message store and the sync trie.
package database

import (
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a key is missing.
	ErrNotFound = leveldb.ErrNotFound
	// ErrStopIteration ends Iterate early without an error.
	ErrStopIteration = errors.New("stop iteration")
	// ErrClosed is returned after Close.
	ErrClosed = leveldb.ErrClosed
)

// LDBDatabase is a wrapper for leveldb database with concurrent access.
type LDBDatabase struct {
	fn string
	db *leveldb.DB

	closeOnce sync.Once
	log       *zap.Logger
}

var _ Database = (*LDBDatabase)(nil)

// NewLDBDatabase returns a LevelDB wrapped object.
func NewLDBDatabase(file string, cache, handles int, logger *zap.Logger) (*LDBDatabase, error) {
	// Ensure we have some minimal caching and file guarantees
	cache = max(cache, 16)
	handles = max(handles, 16)
	logger.Info("allocated cache and file handles",
		zap.String("path", file),
		zap.Int("cache_size", cache),
		zap.Int("num_handles", handles))

	// Open the db and recover any potential corruptions
	db, err := leveldb.OpenFile(file, &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB, // Two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	})
	if lerrors.IsCorrupted(err) {
		logger.Warn("database is corrupted, recovering", zap.String("path", file), zap.Error(err))
		db, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return &LDBDatabase{
		fn:  file,
		db:  db,
		log: logger,
	}, nil
}

// NewMemDatabase returns a memory database instance.
func NewMemDatabase() *LDBDatabase {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		panic("can't open in-memory leveldb: " + err.Error())
	}
	return &LDBDatabase{fn: ":memory:", db: db, log: zap.NewNop()}
}

// Path returns the path to the database directory.
func (db *LDBDatabase) Path() string {
	return db.fn
}

// Put puts the given key / value to the queue.
func (db *LDBDatabase) Put(key, value []byte) error {
	if err := db.db.Put(key, value, nil); err != nil {
		return fmt.Errorf("put value: %w", err)
	}
	return nil
}

// Has returns whether the db contains the key.
func (db *LDBDatabase) Has(key []byte) (bool, error) {
	has, err := db.db.Has(key, nil)
	if err != nil {
		return false, fmt.Errorf("check value: %w", err)
	}
	return has, nil
}

// Get returns the given key if it's present.
func (db *LDBDatabase) Get(key []byte) ([]byte, error) {
	dat, err := db.db.Get(key, nil)
	if err != nil {
		return nil, fmt.Errorf("get value: %w", err)
	}
	return dat, nil
}

// Delete deletes the key from the queue and database.
func (db *LDBDatabase) Delete(key []byte) error {
	if err := db.db.Delete(key, nil); err != nil {
		return fmt.Errorf("delete value: %w", err)
	}
	return nil
}

// Iterate visits every key starting with prefix.
func (db *LDBDatabase) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	it := db.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()
	for it.Next() {
		if err := fn(it.Key(), it.Value()); err != nil {
			if errors.Is(err, ErrStopIteration) {
				return nil
			}
			return err
		}
	}
	if err := it.Error(); err != nil {
		return fmt.Errorf("iterate: %w", err)
	}
	return nil
}

// ApproximateSize returns the approximate file system space used by keys with prefix.
func (db *LDBDatabase) ApproximateSize(prefix []byte) (int64, error) {
	sizes, err := db.db.SizeOf([]util.Range{*util.BytesPrefix(prefix)})
	if err != nil {
		return 0, fmt.Errorf("size of: %w", err)
	}
	return sizes.Sum(), nil
}

// NewBatch creates a write-only batch.
func (db *LDBDatabase) NewBatch() Batch {
	return &ldbBatch{db: db.db, b: new(leveldb.Batch)}
}

// Close closes database, flushing writes and denying all new write requests.
func (db *LDBDatabase) Close() error {
	var err error
	db.closeOnce.Do(func() {
		if err = db.db.Close(); err != nil {
			db.log.Error("failed to close database", zap.String("file", db.fn), zap.Error(err))
			return
		}
		db.log.Info("database closed", zap.String("file", db.fn))
	})
	return err
}

type ldbBatch struct {
	db   *leveldb.DB
	b    *leveldb.Batch
	size int
}

func (b *ldbBatch) Put(key, value []byte) error {
	b.b.Put(key, value)
	b.size += len(value)
	return nil
}

func (b *ldbBatch) Delete(key []byte) error {
	b.b.Delete(key)
	b.size++
	return nil
}

func (b *ldbBatch) ValueSize() int {
	return b.size
}

func (b *ldbBatch) Write() error {
	if err := b.db.Write(b.b, nil); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	return nil
}

func (b *ldbBatch) Reset() {
	b.b.Reset()
	b.size = 0
}
