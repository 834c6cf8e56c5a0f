package syncengine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/hubsync/go-hub/api/client"
	"github.com/hubsync/go-hub/api/wire"
	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/log"
	"github.com/hubsync/go-hub/messages"
	"github.com/hubsync/go-hub/syncid"
)

// Outcome summarizes one attempt.
type Outcome struct {
	Result           Result
	OurMessages      int
	TheirMessages    int
	DivergencePrefix []byte
	// Missing is the number of enumerated peer ids absent locally.
	Missing int
	// Fetched is the number of messages received, Merged the ones newly stored.
	Fetched    int
	Merged     int
	Duplicates int
	Invalid    int
	// Malformed counts peer responses that were dropped.
	Malformed int
	// Bytes is the approximate size of the received ids and messages.
	Bytes int
}

func (o *Outcome) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("result", o.Result.String())
	encoder.AddInt("ours", o.OurMessages)
	encoder.AddInt("theirs", o.TheirMessages)
	encoder.AddByteString("divergence_prefix", o.DivergencePrefix)
	encoder.AddInt("missing", o.Missing)
	encoder.AddInt("fetched", o.Fetched)
	encoder.AddInt("merged", o.Merged)
	encoder.AddInt("duplicates", o.Duplicates)
	encoder.AddInt("invalid", o.Invalid)
	encoder.AddInt("malformed", o.Malformed)
	return nil
}

type attempt struct {
	e      *Engine
	logger *zap.Logger
	peer   types.PeerID
	tr     client.Transport

	theirMessages    int
	divergencePrefix []byte

	missing    atomic.Int64
	fetched    atomic.Int64
	merged     atomic.Int64
	duplicates atomic.Int64
	invalid    atomic.Int64
	malformed  atomic.Int64
	bytes      atomic.Int64
}

// PerformSync runs one attempt against peer over tr. Messages merged before a
// failure stay merged. Only one attempt per peer may run at a time.
func (e *Engine) PerformSync(ctx context.Context, peer types.PeerID, tr client.Transport) (Outcome, error) {
	if err := e.begin(peer); err != nil {
		return Outcome{}, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(e.ctx, cancel)
	defer stop()
	if e.cfg.AttemptTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, e.cfg.AttemptTimeout)
		defer tcancel()
	}
	ctx = log.WithNewRequestID(ctx, zap.Stringer("peer", peer))

	a := &attempt{
		e:      e,
		logger: e.logger.With(log.ZContext(ctx)),
		peer:   peer,
		tr:     tr,
	}
	start := time.Now()
	result, err := a.run(ctx)
	out := a.outcome(result)
	if err != nil {
		out.Result = ResultFailed
		if e.ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", ErrStopped, err)
		}
	}
	e.finish(peer, &out, err)
	attempts.WithLabelValues(out.Result.String()).Inc()
	attemptDuration.WithLabelValues(out.Result.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		a.logger.Debug("sync attempt failed", zap.Object("outcome", &out), zap.Error(err))
		return out, err
	}
	a.logger.Debug("sync attempt completed", zap.Object("outcome", &out))
	return out, nil
}

func (a *attempt) outcome(result Result) Outcome {
	return Outcome{
		Result:           result,
		OurMessages:      a.e.trie.Items(),
		TheirMessages:    a.theirMessages,
		DivergencePrefix: a.divergencePrefix,
		Missing:          int(a.missing.Load()),
		Fetched:          int(a.fetched.Load()),
		Merged:           int(a.merged.Load()),
		Duplicates:       int(a.duplicates.Load()),
		Invalid:          int(a.invalid.Load()),
		Malformed:        int(a.malformed.Load()),
		Bytes:            int(a.bytes.Load()),
	}
}

func (a *attempt) reject(call string, err error) {
	a.malformed.Add(1)
	malformed.WithLabelValues(call).Inc()
	a.logger.Warn("dropping malformed peer response",
		zap.String("call", call),
		zap.Error(fmt.Errorf("%w: %w", ErrMalformedPeerResponse, err)),
	)
}

func (a *attempt) run(ctx context.Context) (Result, error) {
	snap, err := a.tr.GetSyncSnapshotByPrefix(ctx, nil)
	if err != nil {
		return ResultFailed, fmt.Errorf("root snapshot: %w", err)
	}
	theirRoot, err := wire.ParseHash(snap.RootHash)
	switch {
	case err != nil:
		a.reject("snapshot", fmt.Errorf("root hash: %w", err))
	case theirRoot == a.e.trie.RootHash():
		return ResultInSync, nil
	}
	a.inspectSnapshot(snap)

	if err := a.search(ctx, nil); err != nil {
		return ResultFailed, err
	}
	return ResultSynced, nil
}

// inspectSnapshot records where the peer's snapshot departs from ours.
func (a *attempt) inspectSnapshot(snap *wire.SyncSnapshot) {
	hashes, err := snap.Hashes()
	if err != nil {
		a.reject("snapshot", err)
		return
	}
	// a prefix the peer lacks yields no hash for its last level
	if len(hashes) <= len(snap.Prefix) && snap.NumMessages > 0 {
		a.reject("snapshot", fmt.Errorf("%d messages under missing prefix %q", snap.NumMessages, snap.Prefix))
	}
	a.divergencePrefix = a.e.trie.DivergencePrefix(snap.Prefix, hashes)
	a.logger.Debug("snapshots compared",
		log.ZHex("snapshot_prefix", snap.Prefix),
		log.ZHex("divergence_prefix", a.divergencePrefix),
	)
}

func validateMetadata(prefix []byte, md *wire.TrieNodeMetadata) (types.Hash20, error) {
	if !bytes.Equal(md.Prefix, prefix) {
		return types.Hash20{}, fmt.Errorf("prefix %q for %q", md.Prefix, prefix)
	}
	hash, err := wire.ParseHash(md.Hash)
	if err != nil && md.NumMessages > 0 {
		return types.Hash20{}, err
	}
	for _, c := range md.Children {
		if len(c.Prefix) != len(prefix)+1 || !bytes.HasPrefix(c.Prefix, prefix) {
			return types.Hash20{}, fmt.Errorf("child %q of %q", c.Prefix, prefix)
		}
		if c.NumMessages > md.NumMessages {
			return types.Hash20{}, fmt.Errorf("child %q holds %d of %d", c.Prefix, c.NumMessages, md.NumMessages)
		}
		if _, err := wire.ParseHash(c.Hash); err != nil {
			return types.Hash20{}, fmt.Errorf("child %q: %w", c.Prefix, err)
		}
	}
	return hash, nil
}

// search descends the peer's trie from prefix into every subtree that differs.
func (a *attempt) search(ctx context.Context, prefix []byte) error {
	theirs, err := a.tr.GetSyncMetadataByPrefix(ctx, prefix)
	if err != nil {
		return fmt.Errorf("metadata %q: %w", prefix, err)
	}
	if len(prefix) == 0 {
		// reported even when the children are rejected
		a.theirMessages = int(theirs.NumMessages)
	}
	theirHash, err := validateMetadata(prefix, theirs)
	if err != nil {
		a.reject("metadata", err)
		return nil
	}
	if theirs.NumMessages == 0 {
		return nil
	}
	ours, _ := a.e.trie.NodeMetadata(prefix)
	if ours.NumMessages > 0 && ours.Hash == theirHash {
		return nil
	}
	if theirs.NumMessages <= uint64(a.e.cfg.HashesPerFetch) || len(theirs.Children) == 0 {
		return a.fetch(ctx, prefix)
	}
	for _, child := range theirs.Children {
		char := child.Prefix[len(child.Prefix)-1]
		// validated above
		hash, _ := wire.ParseHash(child.Hash)
		if local, ok := ours.Child(char); ok && local.Hash == hash {
			continue
		}
		if err := a.search(ctx, child.Prefix); err != nil {
			return err
		}
	}
	return nil
}

// fetch enumerates the peer's ids under prefix and merges the ones we lack.
func (a *attempt) fetch(ctx context.Context, prefix []byte) error {
	resp, err := a.tr.GetAllSyncIDsByPrefix(ctx, prefix)
	if err != nil {
		return fmt.Errorf("sync ids %q: %w", prefix, err)
	}
	ids, err := resp.Parse()
	if err != nil {
		a.reject("sync_ids", err)
		return nil
	}
	a.bytes.Add(int64(len(ids) * syncid.Length))
	var missing []syncid.ID
	for _, id := range ids {
		if !bytes.HasPrefix(id[:], prefix) {
			a.reject("sync_ids", fmt.Errorf("id %s outside %q", id, prefix))
			continue
		}
		if !a.e.trie.Exists(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	a.missing.Add(int64(len(missing)))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(a.e.cfg.MaxConcurrentFetches, 1))
	for batch := range slices.Chunk(missing, max(a.e.cfg.FetchBatchSize, 1)) {
		eg.Go(func() error {
			return a.fetchBatch(ctx, batch)
		})
	}
	return eg.Wait()
}

func (a *attempt) fetchBatch(ctx context.Context, batch []syncid.ID) error {
	requested := make(map[syncid.ID]struct{}, len(batch))
	raw := make([][]byte, len(batch))
	for i, id := range batch {
		requested[id] = struct{}{}
		raw[i] = id.Bytes()
	}
	resp, err := a.tr.GetAllMessagesBySyncIDs(ctx, raw)
	if err != nil {
		return fmt.Errorf("messages: %w", err)
	}
	msgs := make([]*types.Message, 0, len(resp.Messages))
	for i := range resp.Messages {
		msg := &resp.Messages[i]
		id, err := syncid.FromMessage(msg)
		if err != nil {
			a.reject("messages", err)
			continue
		}
		if _, ok := requested[id]; !ok {
			a.reject("messages", fmt.Errorf("unrequested message %s", id))
			continue
		}
		// one answer per id
		delete(requested, id)
		msgs = append(msgs, msg)
		a.bytes.Add(int64(len(msg.Body) + syncid.Length))
	}
	a.fetched.Add(int64(len(msgs)))
	return a.merge(ctx, msgs)
}

func (a *attempt) merge(ctx context.Context, msgs []*types.Message) error {
	messages.SortByTimestamp(msgs)
	for _, msg := range msgs {
		res, err := a.e.store.Submit(ctx, messages.SourceSync, msg)
		switch {
		case errors.Is(err, messages.ErrInvalidMessage):
			a.invalid.Add(1)
			mergedInvalid.Inc()
			a.logger.Debug("peer sent invalid message", zap.Object("message", msg), zap.Error(err))
		case err != nil:
			return fmt.Errorf("merge: %w", err)
		case res == messages.Duplicate:
			a.duplicates.Add(1)
			mergedDuplicate.Inc()
		default:
			a.merged.Add(1)
			mergedApplied.Inc()
		}
	}
	return nil
}
