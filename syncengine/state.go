package syncengine

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/hubsync/go-hub/api/client"
	"github.com/hubsync/go-hub/api/wire"
	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/syncid"
)

// Result is the outcome of the last attempt with a peer.
type Result uint8

const (
	ResultUnknown Result = iota
	// ResultInSync means the root hashes matched.
	ResultInSync
	// ResultSynced means the attempt completed and may have merged messages.
	ResultSynced
	// ResultFailed means the attempt stopped on an error.
	ResultFailed
)

func (r Result) String() string {
	switch r {
	case ResultUnknown:
		return "unknown"
	case ResultInSync:
		return "in_sync"
	case ResultSynced:
		return "synced"
	case ResultFailed:
		return "failed"
	}
	return fmt.Sprintf("result(%d)", uint8(r))
}

// PeerState is what the engine remembers about syncing with one peer.
type PeerState struct {
	Peer             types.PeerID
	InFlight         bool
	LastResult       Result
	OurMessages      int
	TheirMessages    int
	DivergencePrefix []byte
	LastSuccess      time.Time
	LastFailure      time.Time
	// totals over every attempt
	Fetched int
	Merged  int
}

func (s *PeerState) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("peer", s.Peer.String())
	encoder.AddBool("in_flight", s.InFlight)
	encoder.AddString("last_result", s.LastResult.String())
	encoder.AddInt("ours", s.OurMessages)
	encoder.AddInt("theirs", s.TheirMessages)
	encoder.AddByteString("divergence_prefix", s.DivergencePrefix)
	encoder.AddInt("fetched", s.Fetched)
	encoder.AddInt("merged", s.Merged)
	return nil
}

// begin marks an attempt with peer in flight.
func (e *Engine) begin(peer types.PeerID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	st, ok := e.states[peer]
	if !ok {
		st = &PeerState{Peer: peer}
		e.states[peer] = st
	}
	if st.InFlight {
		return fmt.Errorf("%w: %s", ErrSyncInProgress, peer)
	}
	st.InFlight = true
	e.attempts.Add(1)
	inFlight.Set(float64(e.syncing.Add(1)))
	return nil
}

func (e *Engine) finish(peer types.PeerID, out *Outcome, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.states[peer]
	st.InFlight = false
	st.LastResult = out.Result
	st.OurMessages = out.OurMessages
	st.TheirMessages = out.TheirMessages
	st.Fetched += out.Fetched
	st.Merged += out.Merged
	if out.DivergencePrefix != nil {
		st.DivergencePrefix = out.DivergencePrefix
	}
	if err != nil {
		st.LastFailure = e.clock.Now()
	} else {
		st.LastSuccess = e.clock.Now()
	}
	inFlight.Set(float64(e.syncing.Add(-1)))
	e.attempts.Done()
}

func (e *Engine) isInFlight(peer types.PeerID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.states[peer]
	return ok && st.InFlight
}

// PeerState returns a copy of the state kept for peer.
func (e *Engine) PeerState(peer types.PeerID) (PeerState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.states[peer]
	if !ok {
		return PeerState{}, false
	}
	out := *st
	out.DivergencePrefix = bytes.Clone(st.DivergencePrefix)
	return out, true
}

// PeerStates returns the state of every peer synced with so far, ordered by peer.
func (e *Engine) PeerStates() []PeerState {
	e.mu.Lock()
	ids := slices.Sorted(maps.Keys(e.states))
	e.mu.Unlock()
	out := make([]PeerState, 0, len(ids))
	for _, id := range ids {
		if st, ok := e.PeerState(id); ok {
			out = append(out, st)
		}
	}
	return out
}

// SyncStatus compares the local trie against a peer without syncing.
type SyncStatus struct {
	Peer types.PeerID
	// InSync is set when the excluded hashes along the peer's snapshot match ours.
	InSync           bool
	ShouldSync       bool
	DivergencePrefix []byte
	// DivergenceSecondsAgo is the age of the oldest timestamp the sets may differ at.
	DivergenceSecondsAgo int64
	TheirMessages        int
	OurMessages          int
	LastBadSync          time.Time
	LastSuccessSync      time.Time
}

// KnownPeers returns the peers the dialer can reach, without this hub.
func (e *Engine) KnownPeers() []types.PeerID {
	if e.dialer == nil {
		return nil
	}
	return slices.DeleteFunc(slices.Clone(e.dialer.Peers()), func(p types.PeerID) bool {
		return p == e.self
	})
}

// ComputeSyncStatus dials peer and compares snapshots with it.
func (e *Engine) ComputeSyncStatus(ctx context.Context, peer types.PeerID) (SyncStatus, error) {
	if e.dialer == nil {
		return SyncStatus{}, ErrNoDialer
	}
	tr, err := e.dialer.Dial(ctx, peer)
	if err != nil {
		return SyncStatus{}, fmt.Errorf("dial %s: %w", peer, err)
	}
	defer tr.Close()
	return e.CompareWith(ctx, peer, tr)
}

// CompareWith compares snapshots with peer over an open session.
func (e *Engine) CompareWith(ctx context.Context, peer types.PeerID, tr client.Transport) (SyncStatus, error) {
	snap, err := tr.GetSyncSnapshotByPrefix(ctx, nil)
	if err != nil {
		return SyncStatus{}, fmt.Errorf("snapshot: %w", err)
	}
	theirs, err := snap.Hashes()
	if err != nil {
		malformed.WithLabelValues("snapshot").Inc()
		return SyncStatus{}, fmt.Errorf("%w: %w", ErrMalformedPeerResponse, err)
	}
	info, err := tr.GetInfo(ctx, &wire.InfoRequest{DBStats: true})
	if err != nil {
		return SyncStatus{}, fmt.Errorf("info: %w", err)
	}

	ours := e.trie.Snapshot(snap.Prefix)
	divergence := e.trie.DivergencePrefix(snap.Prefix, theirs)
	st := SyncStatus{
		Peer:             peer,
		InSync:           slices.Equal(ours.ExcludedHashes, theirs),
		DivergencePrefix: divergence,
		TheirMessages:    int(info.DBStats.NumMessages),
		OurMessages:      e.trie.Items(),
	}
	st.DivergenceSecondsAgo = int64(types.ToMessageTime(e.clock.Now())) - int64(prefixTimestamp(divergence))
	// a peer holding fewer messages has nothing for us
	st.ShouldSync = !st.InSync && !e.isInFlight(peer) && st.OurMessages <= st.TheirMessages
	if ps, ok := e.PeerState(peer); ok {
		st.LastBadSync = ps.LastFailure
		st.LastSuccessSync = ps.LastSuccess
	}
	return st, nil
}

// prefixTimestamp is the smallest timestamp an id under prefix can carry.
func prefixTimestamp(prefix []byte) uint64 {
	digits := make([]byte, syncid.TimestampLength)
	n := copy(digits, prefix)
	for i := n; i < len(digits); i++ {
		digits[i] = '0'
	}
	ts, err := strconv.ParseUint(string(digits), 10, 64)
	if err != nil {
		return 0
	}
	return ts
}
