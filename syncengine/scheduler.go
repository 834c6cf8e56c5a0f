package syncengine

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hubsync/go-hub/common/types"
)

// Run syncs with the best ranked peers every Interval until ctx is canceled.
func (e *Engine) Run(ctx context.Context) error {
	if e.dialer == nil {
		return ErrNoDialer
	}
	ticker := e.clock.NewTicker(e.cfg.Interval)
	defer ticker.Stop()
	for {
		e.Round(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
		}
	}
}

// Round syncs once with up to PeersPerRound peers, at most MaxConcurrentPeers at a time.
func (e *Engine) Round(ctx context.Context) {
	selected := e.selectPeers()
	if len(selected) == 0 {
		e.logger.Debug("no peers to sync with")
		return
	}
	var eg errgroup.Group
	eg.SetLimit(max(e.cfg.MaxConcurrentPeers, 1))
	for _, peer := range selected {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			e.syncPeer(ctx, peer)
			return nil
		})
	}
	eg.Wait()
}

// selectPeers reconciles the tracker with the dialer's address book and returns
// the best ranked peers that are not being synced already.
func (e *Engine) selectPeers() []types.PeerID {
	known := e.dialer.Peers()
	for _, peer := range known {
		if peer != e.self {
			e.peers.Add(peer)
		}
	}
	for _, peer := range e.peers.SelectBest(e.peers.Total()) {
		if !slices.Contains(known, peer) {
			e.peers.Delete(peer)
		}
	}
	var selected []types.PeerID
	for _, peer := range e.peers.SelectBest(e.peers.Total()) {
		if len(selected) == e.cfg.PeersPerRound {
			break
		}
		if !e.isInFlight(peer) {
			selected = append(selected, peer)
		}
	}
	return selected
}

func (e *Engine) syncPeer(ctx context.Context, peer types.PeerID) {
	logger := e.logger.With(zap.Stringer("peer", peer))
	start := time.Now()
	tr, err := e.dialer.Dial(ctx, peer)
	if err != nil {
		e.peers.OnFailure(peer)
		logger.Warn("failed to dial peer", zap.Error(err))
		return
	}
	defer func() {
		if err := tr.Close(); err != nil {
			logger.Debug("failed to close session", zap.Error(err))
		}
	}()
	out, err := e.PerformSync(ctx, peer, tr)
	switch {
	case errors.Is(err, ErrSyncInProgress), errors.Is(err, ErrStopped):
	case err != nil:
		e.peers.OnFailure(peer)
		logger.Info("sync with peer failed", zap.Object("outcome", &out), zap.Error(err))
	default:
		e.peers.OnLatency(peer, max(out.Bytes, 1), time.Since(start))
		if out.Merged > 0 {
			logger.Info("merged messages from peer", zap.Object("outcome", &out))
		}
	}
}
