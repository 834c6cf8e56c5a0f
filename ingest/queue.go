// Package ingest keeps the sync trie consistent with the message store.
//
// The store reports every merged and removed message as a Job. Jobs are applied
// to the trie in submission order by a single worker, so the trie observes the
// same sequence of changes as the store.
package ingest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/hubsync/go-hub/syncid"
)

// ErrStopped is returned when a job is submitted after the queue stopped.
var ErrStopped = errors.New("ingest queue stopped")

type Op uint8

const (
	Insert Op = iota + 1
	Delete
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	}
	return "unknown"
}

// Job is a single change of the id set.
type Job struct {
	Op Op
	ID syncid.ID
}

// Applier is the trie the queue writes into.
type Applier interface {
	Insert(syncid.ID) bool
	Delete(syncid.ID) bool
}

// Opt configures a Queue.
type Opt func(*Queue)

func WithLogger(logger *zap.Logger) Opt {
	return func(q *Queue) {
		q.logger = logger
	}
}

// WithCapacity sets the number of jobs buffered before Submit blocks.
// Defaults to 10000.
func WithCapacity(n int) Opt {
	return func(q *Queue) {
		q.capacity = n
	}
}

type Queue struct {
	logger   *zap.Logger
	capacity int
	target   Applier

	jobs     chan Job
	stopping chan struct{}
	stopOnce sync.Once

	// held shared by senders so the worker can wait them out before the final drain
	mu     sync.RWMutex
	closed bool

	// jobs submitted and not yet applied
	pending atomic.Int64
	idleMu  sync.Mutex
	waiters []chan struct{}
}

func New(target Applier, opts ...Opt) *Queue {
	q := &Queue{
		logger:   zap.NewNop(),
		capacity: 10_000,
		target:   target,
		stopping: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)
	return q
}

// Size returns the number of jobs not yet applied.
func (q *Queue) Size() int {
	return int(q.pending.Load())
}

// Submit enqueues a job, blocking while the queue is full.
func (q *Queue) Submit(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrStopped
	}
	q.pending.Add(1)
	select {
	case q.jobs <- job:
		queueSize.Set(float64(q.pending.Load()))
		return nil
	case <-q.stopping:
		q.done()
		return ErrStopped
	case <-ctx.Done():
		q.done()
		return ctx.Err()
	}
}

// Wait blocks until every submitted job has been applied.
func (q *Queue) Wait(ctx context.Context) error {
	q.idleMu.Lock()
	if q.pending.Load() == 0 {
		q.idleMu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	q.waiters = append(q.waiters, ch)
	q.idleMu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) done() {
	if q.pending.Add(-1) != 0 {
		return
	}
	q.idleMu.Lock()
	defer q.idleMu.Unlock()
	if q.pending.Load() != 0 {
		return
	}
	for _, ch := range q.waiters {
		close(ch)
	}
	q.waiters = nil
}

// Run applies jobs until ctx is canceled. Jobs accepted before cancellation are
// applied before Run returns and later submissions fail with ErrStopped.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case job := <-q.jobs:
			q.apply(job)
		case <-ctx.Done():
			q.stopOnce.Do(func() { close(q.stopping) })
			q.mu.Lock()
			q.closed = true
			q.mu.Unlock()
			drained := 0
			for {
				select {
				case job := <-q.jobs:
					q.apply(job)
					drained++
				default:
					q.logger.Debug("ingest queue stopped", zap.Int("drained", drained))
					return nil
				}
			}
		}
	}
}

func (q *Queue) apply(job Job) {
	defer q.done()
	var changed bool
	switch job.Op {
	case Insert:
		changed = q.target.Insert(job.ID)
	case Delete:
		changed = q.target.Delete(job.ID)
	default:
		q.logger.Error("unknown ingest op", zap.Uint8("op", uint8(job.Op)), zap.Stringer("id", job.ID))
		return
	}
	applied.WithLabelValues(job.Op.String(), outcome(changed)).Inc()
	queueSize.Set(float64(q.pending.Load() - 1))
	if !changed {
		q.logger.Debug("ingest job was a no-op",
			zap.Stringer("op", job.Op),
			zap.Stringer("id", job.ID),
		)
	}
}

func outcome(changed bool) string {
	if changed {
		return "changed"
	}
	return "noop"
}
