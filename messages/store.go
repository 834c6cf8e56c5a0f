// Package messages persists the messages a hub holds, keyed by sync id.
package messages

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/hubsync/go-hub/codec"
	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/database"
	"github.com/hubsync/go-hub/metrics"
	"github.com/hubsync/go-hub/syncid"
)

var (
	ErrNotFound       = errors.New("message not found")
	ErrInvalidMessage = errors.New("invalid message")
)

// RecordPrefix namespaces messages in the database. Keys are ordered by sync id.
var RecordPrefix = []byte("msg/")

const lockStripes = 64

// Result of a submission.
type Result uint8

const (
	Applied Result = iota + 1
	Duplicate
)

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case Duplicate:
		return "duplicate"
	}
	return "unknown"
}

// Source labels where a submitted message came from.
type Source string

const (
	SourceSync Source = "sync"
	SourceRPC  Source = "rpc"
)

// Listener is notified after a message is written or removed.
// Listeners run synchronously in the caller of Submit or Remove while the
// message's fid is locked, so they must not call back into the Store.
type Listener func(ctx context.Context, id syncid.ID) error

// Opt configures a Store.
type Opt func(*Store)

func WithLogger(logger *zap.Logger) Opt {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithCacheSize sets the number of decoded messages kept in memory. Defaults to 4096.
func WithCacheSize(size int) Opt {
	return func(s *Store) {
		s.cacheSize = size
	}
}

func WithClock(clock clockwork.Clock) Opt {
	return func(s *Store) {
		s.clock = clock
	}
}

// Store is safe for concurrent use. Writes for one fid are serialized.
type Store struct {
	logger    *zap.Logger
	clock     clockwork.Clock
	cacheSize int
	db        database.Database
	cache     *lru.Cache[syncid.ID, *types.Message]

	locks [lockStripes]sync.Mutex
	count atomic.Int64

	mu        sync.RWMutex
	onMerged  []Listener
	onRemoved []Listener
}

// New opens a store over db and counts the messages it already holds.
func New(db database.Database, opts ...Opt) (*Store, error) {
	s := &Store{
		logger:    zap.NewNop(),
		clock:     clockwork.NewRealClock(),
		cacheSize: 4096,
		db:        db,
	}
	for _, opt := range opts {
		opt(s)
	}
	cache, err := lru.New[syncid.ID, *types.Message](s.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create message cache: %w", err)
	}
	s.cache = cache
	var n int64
	if err := db.Iterate(RecordPrefix, func(_, _ []byte) error {
		n++
		return nil
	}); err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	s.count.Store(n)
	storedMessages.Set(float64(n))
	return s, nil
}

// OnMerged registers a listener for newly written messages.
func (s *Store) OnMerged(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMerged = append(s.onMerged, fn)
}

// OnRemoved registers a listener for removed messages.
func (s *Store) OnRemoved(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRemoved = append(s.onRemoved, fn)
}

func (s *Store) notify(ctx context.Context, listeners func() []Listener, id syncid.ID) {
	s.mu.RLock()
	fns := listeners()
	s.mu.RUnlock()
	for _, fn := range fns {
		if err := fn(ctx, id); err != nil {
			s.logger.Warn("message listener failed", zap.Stringer("id", id), zap.Error(err))
		}
	}
}

func recordKey(id syncid.ID) []byte {
	return append(bytes.Clone(RecordPrefix), id[:]...)
}

func (s *Store) lock(fid uint64) *sync.Mutex {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(fid >> (8 * i))
	}
	return &s.locks[xxhash.Sum64(buf[:])%lockStripes]
}

// Count returns the number of stored messages.
func (s *Store) Count() int {
	return int(s.count.Load())
}

// Submit validates and stores a message. A message already present is reported
// as Duplicate and listeners are not called.
func (s *Store) Submit(ctx context.Context, source Source, msg *types.Message) (Result, error) {
	if !msg.Verify() {
		submitted.WithLabelValues(string(source), "invalid").Inc()
		return 0, fmt.Errorf("%w: hash mismatch for %s", ErrInvalidMessage, msg.Hash.ShortString())
	}
	id, err := syncid.FromMessage(msg)
	if err != nil {
		submitted.WithLabelValues(string(source), "invalid").Inc()
		return 0, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	buf, err := codec.Encode(msg)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	mu := s.lock(msg.Fid)
	mu.Lock()
	defer mu.Unlock()
	key := recordKey(id)
	exists, err := s.db.Has(key)
	if err != nil {
		return 0, fmt.Errorf("check message %s: %w", id.ShortString(), err)
	}
	if exists {
		submitted.WithLabelValues(string(source), Duplicate.String()).Inc()
		return Duplicate, nil
	}
	if err := s.db.Put(key, buf); err != nil {
		return 0, fmt.Errorf("store message %s: %w", id.ShortString(), err)
	}
	s.count.Add(1)

	s.cache.Add(id, msg)
	storedMessages.Set(float64(s.count.Load()))
	submitted.WithLabelValues(string(source), Applied.String()).Inc()
	metrics.ReportMessageLatency(string(source), s.clock.Now().Sub(msg.Time()))
	s.logger.Debug("message merged",
		zap.String("source", string(source)),
		zap.Object("message", msg),
	)
	// listeners see writes for one fid in the order they hit the database
	s.notify(ctx, func() []Listener { return s.onMerged }, id)
	return Applied, nil
}

// Remove deletes a stored message.
func (s *Store) Remove(ctx context.Context, id syncid.ID) error {
	msg, err := s.Get(id)
	if err != nil {
		return err
	}
	mu := s.lock(msg.Fid)
	mu.Lock()
	defer mu.Unlock()
	key := recordKey(id)
	exists, err := s.db.Has(key)
	if err == nil && !exists {
		err = ErrNotFound
	}
	if err == nil {
		err = s.db.Delete(key)
	}
	if err != nil {
		return fmt.Errorf("remove message %s: %w", id.ShortString(), err)
	}
	s.count.Add(-1)

	s.cache.Remove(id)
	storedMessages.Set(float64(s.count.Load()))
	s.notify(ctx, func() []Listener { return s.onRemoved }, id)
	return nil
}

// Get returns the message with the given sync id.
func (s *Store) Get(id syncid.ID) (*types.Message, error) {
	if msg, ok := s.cache.Get(id); ok {
		cacheHits.Inc()
		return msg, nil
	}
	cacheMisses.Inc()
	buf, err := s.db.Get(recordKey(id))
	switch {
	case errors.Is(err, database.ErrNotFound):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id.ShortString())
	case err != nil:
		return nil, fmt.Errorf("get message %s: %w", id.ShortString(), err)
	}
	var msg types.Message
	if err := codec.Decode(buf, &msg); err != nil {
		return nil, fmt.Errorf("decode message %s: %w", id.ShortString(), err)
	}
	s.cache.Add(id, &msg)
	return &msg, nil
}

// GetBySyncIDs returns the messages found for ids, in request order.
// Unknown ids are skipped.
func (s *Store) GetBySyncIDs(ids []syncid.ID) ([]*types.Message, error) {
	msgs := make([]*types.Message, 0, len(ids))
	for _, id := range ids {
		msg, err := s.Get(id)
		switch {
		case errors.Is(err, ErrNotFound):
			continue
		case err != nil:
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// IterateIDs visits every stored sync id in order without decoding messages.
// Return database.ErrStopIteration from fn to stop early.
func (s *Store) IterateIDs(fn func(syncid.ID) error) error {
	return s.db.Iterate(RecordPrefix, func(key, _ []byte) error {
		id, err := syncid.FromBytes(key[len(RecordPrefix):])
		if err != nil {
			return fmt.Errorf("malformed message key %x: %w", key, err)
		}
		return fn(id)
	})
}

// Iterate visits every stored message in sync id order.
func (s *Store) Iterate(fn func(syncid.ID, *types.Message) error) error {
	return s.db.Iterate(RecordPrefix, func(key, value []byte) error {
		id, err := syncid.FromBytes(key[len(RecordPrefix):])
		if err != nil {
			return fmt.Errorf("malformed message key %x: %w", key, err)
		}
		var msg types.Message
		if err := codec.Decode(value, &msg); err != nil {
			return fmt.Errorf("decode message %s: %w", id.ShortString(), err)
		}
		return fn(id, &msg)
	})
}

// SortByTimestamp orders messages for merging, oldest first with the hash breaking ties.
func SortByTimestamp(msgs []*types.Message) {
	slices.SortFunc(msgs, func(a, b *types.Message) int {
		if a.Timestamp != b.Timestamp {
			if a.Timestamp < b.Timestamp {
				return -1
			}
			return 1
		}
		return bytes.Compare(a.Hash[:], b.Hash[:])
	})
}

// ApproximateSize returns the space used by stored messages on disk.
func (s *Store) ApproximateSize() (int64, error) {
	return s.db.ApproximateSize(RecordPrefix)
}
