// Package syncengine reconciles the local message set with peer hubs.
//
// An attempt against a peer first compares root hashes. When they differ it walks
// the peer's trie from the root, descending only into children whose hash differs
// from the local one, and enumerates ids once a subtree is small enough. Missing
// messages are fetched in batches and merged into the message store, which feeds
// them back into the trie through the ingestion queue.
package syncengine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/fetch/peers"
	"github.com/hubsync/go-hub/ingest"
	"github.com/hubsync/go-hub/log"
	"github.com/hubsync/go-hub/syncid"
	"github.com/hubsync/go-hub/trie"
)

var (
	// ErrSyncInProgress is returned when an attempt with the peer is already running.
	ErrSyncInProgress = errors.New("sync with peer already in progress")
	// ErrStopped is returned for attempts started after Stop.
	ErrStopped = errors.New("sync engine stopped")
	// ErrMalformedPeerResponse marks peer responses that violate the protocol.
	ErrMalformedPeerResponse = errors.New("malformed peer response")
	// ErrNoDialer is returned by operations that need to reach peers on their own.
	ErrNoDialer = errors.New("no dialer configured")
)

// Opt configures an Engine.
type Opt func(*Engine)

func WithLogger(logger *zap.Logger) Opt {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithConfig(cfg Config) Opt {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

func WithClock(clock clockwork.Clock) Opt {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithDialer enables the scheduler and ComputeSyncStatus.
func WithDialer(dialer Dialer) Opt {
	return func(e *Engine) {
		e.dialer = dialer
	}
}

// WithPeers shares the peer tracker used to rank peers for sync rounds.
func WithPeers(p *peers.Peers) Opt {
	return func(e *Engine) {
		e.peers = p
	}
}

// WithDatabase persists the trie on every flush interval and on Stop.
func WithDatabase(db trie.KV) Opt {
	return func(e *Engine) {
		e.db = db
	}
}

// WithIdentity sets what Info reports about this hub.
func WithIdentity(self types.PeerID, version, nickname string) Opt {
	return func(e *Engine) {
		e.self = self
		e.version = version
		e.nickname = nickname
	}
}

// Engine is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
	cfg    Config
	clock  clockwork.Clock
	trie   *trie.Trie
	store  MessageStore
	queue  *ingest.Queue
	dialer Dialer
	peers  *peers.Peers
	db     trie.KV

	self     types.PeerID
	version  string
	nickname string

	mu       sync.Mutex
	states   map[types.PeerID]*PeerState
	stopped  bool
	attempts sync.WaitGroup
	syncing  atomic.Int32

	// ctx bounds attempts, queueCtx bounds the ingestion worker
	ctx         context.Context
	cancel      context.CancelFunc
	queueCtx    context.Context
	queueCancel context.CancelFunc

	started   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
	loops     errgroup.Group
	worker    errgroup.Group
}

// New creates an engine over tr and store and subscribes to the store's merge
// and remove notifications. Start must be called for those to reach the trie.
func New(tr *trie.Trie, store MessageStore, opts ...Opt) *Engine {
	e := &Engine{
		logger: zap.NewNop(),
		cfg:    DefaultConfig(),
		clock:  clockwork.NewRealClock(),
		trie:   tr,
		store:  store,
		states: map[types.PeerID]*PeerState{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		e.logger.Warn("clamping sync config", zap.Error(err))
		e.cfg.HashesPerFetch = trie.MaxValuesReturnedPerCall
	}
	if e.peers == nil {
		e.peers = peers.New()
	}
	e.queue = ingest.New(tr,
		ingest.WithLogger(e.logger.Named("ingest")),
		ingest.WithCapacity(e.cfg.QueueCapacity),
	)
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.queueCtx, e.queueCancel = context.WithCancel(context.Background())

	// the job must not be lost when the merging call is canceled,
	// so only a stopped queue can refuse it
	store.OnMerged(func(ctx context.Context, id syncid.ID) error {
		return e.queue.Submit(context.WithoutCancel(ctx), ingest.Job{Op: ingest.Insert, ID: id})
	})
	store.OnRemoved(func(ctx context.Context, id syncid.ID) error {
		return e.queue.Submit(context.WithoutCancel(ctx), ingest.Job{Op: ingest.Delete, ID: id})
	})
	return e
}

// Trie returns the trie the engine maintains.
func (e *Engine) Trie() *trie.Trie {
	return e.trie
}

// Start launches the ingestion worker, the periodic flush and, when a dialer is
// configured, the sync scheduler.
func (e *Engine) Start() {
	e.startOnce.Do(func() {
		e.worker.Go(func() error { return e.queue.Run(e.queueCtx) })
		if e.db != nil && e.cfg.FlushInterval > 0 {
			e.loops.Go(func() error { return e.flushLoop(e.ctx) })
		}
		if e.dialer != nil && e.cfg.Interval > 0 {
			e.loops.Go(func() error { return e.Run(e.ctx) })
		}
		e.started.Store(true)
		e.logger.Info("sync engine started",
			zap.Int("items", e.trie.Items()),
			log.ZShortStringer("root", e.trie.RootHash()),
		)
	})
}

// Stop refuses new attempts, cancels running ones, drains the ingestion queue
// and flushes the trie.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.mu.Lock()
		e.stopped = true
		e.mu.Unlock()

		e.cancel()
		e.attempts.Wait()
		if err := e.loops.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			e.logger.Error("sync loop terminated with an error", zap.Error(err))
		}
		e.queueCancel()
		if err := e.worker.Wait(); err != nil {
			e.logger.Error("ingestion worker terminated with an error", zap.Error(err))
		}
		if err := e.flush(); err != nil {
			e.logger.Error("final trie flush failed", zap.Error(err))
		}
		e.started.Store(false)
		e.logger.Info("sync engine stopped",
			zap.Int("items", e.trie.Items()),
			log.ZShortStringer("root", e.trie.RootHash()),
		)
	})
}

// Started reports whether the engine runs.
func (e *Engine) Started() bool {
	return e.started.Load()
}

func (e *Engine) flush() error {
	if e.db == nil {
		return nil
	}
	if err := e.trie.Flush(e.db); err != nil {
		flushes.WithLabelValues("failure").Inc()
		return err
	}
	flushes.WithLabelValues("success").Inc()
	return nil
}

func (e *Engine) flushLoop(ctx context.Context) error {
	ticker := e.clock.NewTicker(e.cfg.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			if err := e.flush(); err != nil {
				e.logger.Error("trie flush failed", zap.Error(err))
			}
		}
	}
}

// TrieQueueSize returns the number of trie updates not yet applied.
func (e *Engine) TrieQueueSize() int {
	return e.queue.Size()
}

// WaitForTrieQueue blocks until every merged message is reflected in the trie.
func (e *Engine) WaitForTrieQueue(ctx context.Context) error {
	return e.queue.Wait(ctx)
}

// Rebuild replaces the trie contents with the ids held by the message store.
func (e *Engine) Rebuild(ctx context.Context) error {
	if err := e.queue.Wait(ctx); err != nil {
		return fmt.Errorf("wait for trie queue: %w", err)
	}
	start := time.Now()
	e.trie.Reset()
	if err := e.store.IterateIDs(func(id syncid.ID) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.trie.Insert(id)
		return nil
	}); err != nil {
		return fmt.Errorf("rebuild trie: %w", err)
	}
	rebuilds.Inc()
	e.logger.Info("trie rebuilt from message store",
		zap.Int("items", e.trie.Items()),
		log.ZShortStringer("root", e.trie.RootHash()),
		zap.Duration("duration", time.Since(start)),
	)
	return e.flush()
}

// IsSyncing reports whether any attempt is running.
func (e *Engine) IsSyncing() bool {
	return e.syncing.Load() > 0
}

// Info describes this hub.
type Info struct {
	Version     string
	Nickname    string
	PeerID      types.PeerID
	IsSyncing   bool
	RootHash    types.Hash20
	NumMessages int
	ApproxSize  int64
}

// Info returns the identity of this hub, with store statistics if dbStats is set.
func (e *Engine) Info(dbStats bool) (Info, error) {
	info := Info{
		Version:   e.version,
		Nickname:  e.nickname,
		PeerID:    e.self,
		IsSyncing: e.IsSyncing(),
		RootHash:  e.trie.RootHash(),
	}
	if !dbStats {
		return info, nil
	}
	info.NumMessages = e.store.Count()
	size, err := e.store.ApproximateSize()
	if err != nil {
		return info, fmt.Errorf("approximate size: %w", err)
	}
	info.ApproxSize = size
	return info, nil
}

// snapshotTimestamp is the latest multiple of SyncThreshold not after now.
func (e *Engine) snapshotTimestamp() uint64 {
	threshold := uint64(max(e.cfg.SyncThreshold/time.Second, 1))
	now := uint64(types.ToMessageTime(e.clock.Now()))
	return now / threshold * threshold
}

// Snapshot summarizes the local trie along prefix. The empty prefix selects the
// current snapshot timestamp.
func (e *Engine) Snapshot(prefix []byte) trie.Snapshot {
	if len(prefix) == 0 {
		prefix = syncid.TimestampPrefix(e.snapshotTimestamp())
	}
	return e.trie.Snapshot(prefix)
}

// NodeMetadata returns the local node at prefix. A missing prefix yields
// metadata with no messages.
func (e *Engine) NodeMetadata(prefix []byte) trie.NodeMetadata {
	md, _ := e.trie.NodeMetadata(prefix)
	return md
}

// AllSyncIDs returns up to trie.MaxValuesReturnedPerCall local ids under prefix.
func (e *Engine) AllSyncIDs(prefix []byte) []syncid.ID {
	return e.trie.Values(prefix)
}

// MessagesBySyncIDs returns the stored messages among ids, skipping unknown ones.
func (e *Engine) MessagesBySyncIDs(ids []syncid.ID) ([]*types.Message, error) {
	return e.store.GetBySyncIDs(ids)
}
