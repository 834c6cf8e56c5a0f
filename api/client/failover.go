package client

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/hubsync/go-hub/api/wire"
)

// Failover serves calls from a preferred transport until it reports ErrTransport,
// then from the fallback for the rest of the session.
type Failover struct {
	logger    *zap.Logger
	preferred Transport
	fallback  Transport
	failed    atomic.Bool
}

var _ Transport = (*Failover)(nil)

func NewFailover(logger *zap.Logger, preferred, fallback Transport) *Failover {
	return &Failover{logger: logger, preferred: preferred, fallback: fallback}
}

// FellBack reports whether the preferred transport was abandoned.
func (f *Failover) FellBack() bool {
	return f.failed.Load()
}

func withFailover[T any](ctx context.Context, f *Failover, call func(Transport) (T, error)) (T, error) {
	if !f.failed.Load() {
		res, err := call(f.preferred)
		if err == nil || !errors.Is(err, ErrTransport) || ctx.Err() != nil {
			return res, err
		}
		if f.failed.CompareAndSwap(false, true) {
			fallbacks.Inc()
			f.logger.Info("preferred transport failed, switching to fallback", zap.Error(err))
		}
	}
	return call(f.fallback)
}

func (f *Failover) GetInfo(ctx context.Context, req *wire.InfoRequest) (*wire.HubInfo, error) {
	return withFailover(ctx, f, func(t Transport) (*wire.HubInfo, error) {
		return t.GetInfo(ctx, req)
	})
}

func (f *Failover) GetSyncSnapshotByPrefix(ctx context.Context, prefix []byte) (*wire.SyncSnapshot, error) {
	return withFailover(ctx, f, func(t Transport) (*wire.SyncSnapshot, error) {
		return t.GetSyncSnapshotByPrefix(ctx, prefix)
	})
}

func (f *Failover) GetSyncMetadataByPrefix(ctx context.Context, prefix []byte) (*wire.TrieNodeMetadata, error) {
	return withFailover(ctx, f, func(t Transport) (*wire.TrieNodeMetadata, error) {
		return t.GetSyncMetadataByPrefix(ctx, prefix)
	})
}

func (f *Failover) GetAllSyncIDsByPrefix(ctx context.Context, prefix []byte) (*wire.SyncIDs, error) {
	return withFailover(ctx, f, func(t Transport) (*wire.SyncIDs, error) {
		return t.GetAllSyncIDsByPrefix(ctx, prefix)
	})
}

func (f *Failover) GetAllMessagesBySyncIDs(ctx context.Context, ids [][]byte) (*wire.Messages, error) {
	return withFailover(ctx, f, func(t Transport) (*wire.Messages, error) {
		return t.GetAllMessagesBySyncIDs(ctx, ids)
	})
}

func (f *Failover) Close() error {
	return errors.Join(f.preferred.Close(), f.fallback.Close())
}
