package syncengine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/hubsync/go-hub/api/wire"
	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/database"
	"github.com/hubsync/go-hub/log/logtest"
	"github.com/hubsync/go-hub/messages"
	"github.com/hubsync/go-hub/syncid"
	"github.com/hubsync/go-hub/trie"
)

type hub struct {
	*Engine
	store *messages.Store
	db    *database.LDBDatabase
}

func testConfig() Config {
	cfg := DefaultConfig()
	// rounds and flushes are driven by the tests
	cfg.Interval = 0
	cfg.FlushInterval = 0
	return cfg
}

func newHub(t *testing.T, opts ...Opt) *hub {
	t.Helper()
	db := database.NewMemDatabase()
	t.Cleanup(func() { db.Close() })
	store, err := messages.New(db, messages.WithLogger(logtest.New(t)))
	require.NoError(t, err)
	opts = append([]Opt{
		WithLogger(logtest.New(t)),
		WithConfig(testConfig()),
		WithDatabase(db),
	}, opts...)
	e := New(trie.New(), store, opts...)
	e.Start()
	t.Cleanup(e.Stop)
	return &hub{Engine: e, store: store, db: db}
}

func (h *hub) add(t *testing.T, msgs ...*types.Message) {
	t.Helper()
	for _, msg := range msgs {
		_, err := h.store.Submit(context.Background(), messages.SourceRPC, msg)
		require.NoError(t, err)
	}
	require.NoError(t, h.WaitForTrieQueue(context.Background()))
}

func testMessage(fid uint64, ts uint32) *types.Message {
	return types.NewMessage(fid, ts, 1, []byte(fmt.Sprintf("message %d at %d", fid, ts)))
}

func testMessages(n int, fid uint64, ts uint32) []*types.Message {
	msgs := make([]*types.Message, n)
	for i := range msgs {
		msgs[i] = testMessage(fid, ts+uint32(i*7))
	}
	return msgs
}

// localTransport serves a peer engine in process and counts calls by kind.
type localTransport struct {
	peer *hub

	mu    sync.Mutex
	calls map[wire.Kind]int

	fail     func(wire.Kind) error
	snapshot func(*wire.SyncSnapshot)
	messages func(*wire.Messages)
	block    chan struct{}
}

func newLocalTransport(peer *hub) *localTransport {
	return &localTransport{peer: peer, calls: map[wire.Kind]int{}}
}

func (l *localTransport) call(ctx context.Context, kind wire.Kind) error {
	l.mu.Lock()
	l.calls[kind]++
	l.mu.Unlock()
	if l.block != nil {
		select {
		case <-l.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if l.fail != nil {
		return l.fail(kind)
	}
	return nil
}

func (l *localTransport) count(kind wire.Kind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[kind]
}

func (l *localTransport) GetInfo(ctx context.Context, req *wire.InfoRequest) (*wire.HubInfo, error) {
	if err := l.call(ctx, wire.KindGetInfo); err != nil {
		return nil, err
	}
	info, err := l.peer.Info(req.DBStats)
	if err != nil {
		return nil, err
	}
	return &wire.HubInfo{
		Version:  info.Version,
		RootHash: info.RootHash.Hex(),
		DBStats:  wire.DBStats{NumMessages: uint64(info.NumMessages)},
	}, nil
}

func (l *localTransport) GetSyncSnapshotByPrefix(ctx context.Context, prefix []byte) (*wire.SyncSnapshot, error) {
	if err := l.call(ctx, wire.KindGetSyncSnapshotByPrefix); err != nil {
		return nil, err
	}
	snap := wire.NewSyncSnapshot(l.peer.Snapshot(prefix))
	if l.snapshot != nil {
		l.snapshot(snap)
	}
	return snap, nil
}

func (l *localTransport) GetSyncMetadataByPrefix(ctx context.Context, prefix []byte) (*wire.TrieNodeMetadata, error) {
	if err := l.call(ctx, wire.KindGetSyncMetadataByPrefix); err != nil {
		return nil, err
	}
	return wire.NewTrieNodeMetadata(l.peer.NodeMetadata(prefix)), nil
}

func (l *localTransport) GetAllSyncIDsByPrefix(ctx context.Context, prefix []byte) (*wire.SyncIDs, error) {
	if err := l.call(ctx, wire.KindGetAllSyncIDsByPrefix); err != nil {
		return nil, err
	}
	return wire.NewSyncIDs(l.peer.AllSyncIDs(prefix)), nil
}

func (l *localTransport) GetAllMessagesBySyncIDs(ctx context.Context, raw [][]byte) (*wire.Messages, error) {
	if err := l.call(ctx, wire.KindGetAllMessagesBySyncIDs); err != nil {
		return nil, err
	}
	ids, err := (&wire.SyncIDs{IDs: raw}).Parse()
	if err != nil {
		return nil, err
	}
	msgs, err := l.peer.MessagesBySyncIDs(ids)
	if err != nil {
		return nil, err
	}
	out := &wire.Messages{}
	for _, msg := range msgs {
		out.Messages = append(out.Messages, *msg)
	}
	if l.messages != nil {
		l.messages(out)
	}
	return out, nil
}

func (l *localTransport) Close() error { return nil }

func TestRootMatchSkipsEnumeration(t *testing.T) {
	msgs := testMessages(100, 1, 1_000_000)
	a, b := newHub(t), newHub(t)
	a.add(t, msgs...)
	b.add(t, msgs...)

	tr := newLocalTransport(b)
	// the reported prefix does not matter once the roots agree
	tr.snapshot = func(s *wire.SyncSnapshot) { s.Prefix = []byte("9999999999") }
	out, err := a.PerformSync(context.Background(), "b", tr)
	require.NoError(t, err)
	require.Equal(t, ResultInSync, out.Result)
	require.Equal(t, 1, tr.count(wire.KindGetSyncSnapshotByPrefix))
	require.Zero(t, tr.count(wire.KindGetSyncMetadataByPrefix))
	require.Zero(t, tr.count(wire.KindGetAllSyncIDsByPrefix))
	require.Zero(t, tr.count(wire.KindGetAllMessagesBySyncIDs))

	st, ok := a.PeerState("b")
	require.True(t, ok)
	require.Equal(t, ResultInSync, st.LastResult)
	require.False(t, st.InFlight)
	require.False(t, st.LastSuccess.IsZero())
}

func TestMalformedRootHashIsNotAMatch(t *testing.T) {
	msgs := testMessages(10, 1, 1_000_000)
	a, b := newHub(t), newHub(t)
	a.add(t, msgs...)
	b.add(t, msgs...)

	tr := newLocalTransport(b)
	tr.snapshot = func(s *wire.SyncSnapshot) { s.RootHash = "" }
	out, err := a.PerformSync(context.Background(), "b", tr)
	require.NoError(t, err)
	require.Equal(t, ResultSynced, out.Result)
	require.Equal(t, 1, out.Malformed)
	require.Equal(t, 1, tr.count(wire.KindGetSyncMetadataByPrefix))
	require.Zero(t, tr.count(wire.KindGetAllSyncIDsByPrefix))
}

func TestSyncFetchesMissingMessage(t *testing.T) {
	msgs := testMessages(300, 1, 1_000_000)
	extra := testMessage(2, 1_000_500)
	a, b := newHub(t), newHub(t)
	a.add(t, msgs...)
	b.add(t, append(msgs, extra)...)

	tr := newLocalTransport(b)
	out, err := a.PerformSync(context.Background(), "b", tr)
	require.NoError(t, err)
	require.Equal(t, ResultSynced, out.Result)
	require.Equal(t, 1, out.Missing)
	require.Equal(t, 1, out.Merged)
	require.Equal(t, 301, out.TheirMessages)

	require.NoError(t, a.WaitForTrieQueue(context.Background()))
	require.Equal(t, b.Trie().RootHash(), a.Trie().RootHash())
	require.Equal(t, 301, a.store.Count())
	// only the differing branch is enumerated
	require.Equal(t, 1, tr.count(wire.KindGetAllSyncIDsByPrefix))
	require.Equal(t, 1, tr.count(wire.KindGetAllMessagesBySyncIDs))
}

func TestSyncUnionConverges(t *testing.T) {
	shared := testMessages(50, 1, 1_000_000)
	onlyA := testMessages(80, 2, 1_200_000)
	onlyB := testMessages(120, 3, 1_100_000)
	a, b := newHub(t), newHub(t)
	a.add(t, append(shared, onlyA...)...)
	b.add(t, append(shared, onlyB...)...)

	_, err := a.PerformSync(context.Background(), "b", newLocalTransport(b))
	require.NoError(t, err)
	_, err = b.PerformSync(context.Background(), "a", newLocalTransport(a))
	require.NoError(t, err)
	require.NoError(t, a.WaitForTrieQueue(context.Background()))
	require.NoError(t, b.WaitForTrieQueue(context.Background()))

	require.Equal(t, 250, a.store.Count())
	require.Equal(t, 250, b.store.Count())
	require.Equal(t, 250, a.Trie().Items())
	require.Equal(t, a.Trie().RootHash(), b.Trie().RootHash())

	out, err := a.PerformSync(context.Background(), "b", newLocalTransport(b))
	require.NoError(t, err)
	require.Equal(t, ResultInSync, out.Result)
}

func TestSyncEmptyHubInBatches(t *testing.T) {
	cfg := testConfig()
	cfg.FetchBatchSize = 30
	cfg.MaxConcurrentFetches = 2
	a, b := newHub(t, WithConfig(cfg)), newHub(t)
	b.add(t, testMessages(500, 7, 1_000_000)...)

	tr := newLocalTransport(b)
	out, err := a.PerformSync(context.Background(), "b", tr)
	require.NoError(t, err)
	require.Equal(t, 500, out.Merged)
	require.Equal(t, 500, out.Fetched)
	require.NoError(t, a.WaitForTrieQueue(context.Background()))
	require.Equal(t, b.Trie().RootHash(), a.Trie().RootHash())
	require.GreaterOrEqual(t, tr.count(wire.KindGetAllMessagesBySyncIDs), 500/30)
}

func TestSyncInProgress(t *testing.T) {
	a, b := newHub(t), newHub(t)
	b.add(t, testMessage(1, 1_000_000))

	tr := newLocalTransport(b)
	tr.block = make(chan struct{})
	errc := make(chan error, 1)
	go func() {
		_, err := a.PerformSync(context.Background(), "b", tr)
		errc <- err
	}()
	require.Eventually(t, a.IsSyncing, time.Second, time.Millisecond)

	_, err := a.PerformSync(context.Background(), "b", newLocalTransport(b))
	require.ErrorIs(t, err, ErrSyncInProgress)
	st, ok := a.PeerState("b")
	require.True(t, ok)
	require.True(t, st.InFlight)

	// other peers are not affected
	_, err = a.PerformSync(context.Background(), "c", newLocalTransport(b))
	require.NoError(t, err)

	close(tr.block)
	require.NoError(t, <-errc)
	require.False(t, a.IsSyncing())
}

func TestStopCancelsAttempts(t *testing.T) {
	a, b := newHub(t), newHub(t)
	b.add(t, testMessage(1, 1_000_000))

	tr := newLocalTransport(b)
	tr.block = make(chan struct{})
	errc := make(chan error, 1)
	go func() {
		_, err := a.PerformSync(context.Background(), "b", tr)
		errc <- err
	}()
	require.Eventually(t, a.IsSyncing, time.Second, time.Millisecond)

	a.Stop()
	require.ErrorIs(t, <-errc, ErrStopped)
	st, ok := a.PeerState("b")
	require.True(t, ok)
	require.Equal(t, ResultFailed, st.LastResult)
	require.False(t, st.LastFailure.IsZero())

	_, err := a.PerformSync(context.Background(), "b", newLocalTransport(b))
	require.ErrorIs(t, err, ErrStopped)
}

func TestTransportFailureKeepsProgress(t *testing.T) {
	cfg := testConfig()
	cfg.FetchBatchSize = 10
	cfg.MaxConcurrentFetches = 1
	a, b := newHub(t, WithConfig(cfg)), newHub(t)
	b.add(t, testMessages(40, 1, 1_000_000)...)

	tr := newLocalTransport(b)
	errUnreachable := fmt.Errorf("peer unreachable")
	tr.fail = func(kind wire.Kind) error {
		if kind == wire.KindGetAllMessagesBySyncIDs && tr.count(kind) > 2 {
			return errUnreachable
		}
		return nil
	}
	out, err := a.PerformSync(context.Background(), "b", tr)
	require.ErrorIs(t, err, errUnreachable)
	require.Equal(t, ResultFailed, out.Result)
	require.Equal(t, 20, out.Merged)
	require.Equal(t, 20, a.store.Count())

	st, ok := a.PeerState("b")
	require.True(t, ok)
	require.Equal(t, ResultFailed, st.LastResult)
	require.Equal(t, 20, st.Merged)

	tr.fail = nil
	out, err = a.PerformSync(context.Background(), "b", tr)
	require.NoError(t, err)
	require.Equal(t, 20, out.Merged)
	require.NoError(t, a.WaitForTrieQueue(context.Background()))
	require.Equal(t, b.Trie().RootHash(), a.Trie().RootHash())
}

func TestUnrequestedAndInvalidMessages(t *testing.T) {
	a, b := newHub(t), newHub(t)
	wanted := testMessage(1, 1_000_000)
	b.add(t, wanted)

	tr := newLocalTransport(b)
	tr.messages = func(m *wire.Messages) {
		tampered := m.Messages[0]
		tampered.Body = []byte("tampered")
		m.Messages = append(m.Messages, *testMessage(9, 1_000_001), tampered)
	}
	out, err := a.PerformSync(context.Background(), "b", tr)
	require.NoError(t, err)
	// the tampered copy arrives after the genuine one for the same id
	require.Equal(t, 1, out.Merged)
	require.Equal(t, 2, out.Malformed)
	require.Equal(t, 1, a.store.Count())
}

func TestInvalidMessageCounted(t *testing.T) {
	a, b := newHub(t), newHub(t)
	b.add(t, testMessage(1, 1_000_000))

	tr := newLocalTransport(b)
	tr.messages = func(m *wire.Messages) {
		m.Messages[0].Body = []byte("tampered")
	}
	out, err := a.PerformSync(context.Background(), "b", tr)
	require.NoError(t, err)
	require.Equal(t, ResultSynced, out.Result)
	require.Equal(t, 1, out.Invalid)
	require.Zero(t, out.Merged)
	require.Zero(t, a.store.Count())
}

func TestSnapshotAtTimestampPrefix(t *testing.T) {
	clock := clockwork.NewFakeClockAt(types.Epoch.Add(1_000_000_007 * time.Second))
	h := newHub(t, WithClock(clock))
	h.add(t, testMessage(1, 1_000_000_000))

	snap := h.Snapshot(nil)
	require.Equal(t, []byte("1000000000"), snap.Prefix)
	require.Equal(t, 1, snap.NumMessages)
	require.Equal(t, h.Trie().RootHash(), snap.RootHash)

	snap = h.Snapshot([]byte("0"))
	require.Equal(t, []byte("0"), snap.Prefix)
	require.Zero(t, snap.NumMessages)
}

func TestCompareWith(t *testing.T) {
	clock := clockwork.NewFakeClockAt(types.Epoch.Add(2_000_000_500 * time.Second))
	a, b := newHub(t, WithClock(clock)), newHub(t, WithClock(clock))
	shared := []*types.Message{testMessage(1, 1_000_000_000), testMessage(1, 2_000_000_050)}
	a.add(t, shared...)
	b.add(t, append(shared, testMessage(2, 2_000_000_100))...)

	st, err := a.CompareWith(context.Background(), "b", newLocalTransport(b))
	require.NoError(t, err)
	require.False(t, st.InSync)
	require.True(t, st.ShouldSync)
	require.Equal(t, []byte("2000000"), st.DivergencePrefix)
	require.EqualValues(t, 500, st.DivergenceSecondsAgo)
	require.Equal(t, 2, st.OurMessages)
	require.Equal(t, 3, st.TheirMessages)

	st, err = b.CompareWith(context.Background(), "a", newLocalTransport(a))
	require.NoError(t, err)
	require.False(t, st.InSync)
	require.False(t, st.ShouldSync)

	_, err = a.PerformSync(context.Background(), "b", newLocalTransport(b))
	require.NoError(t, err)
	require.NoError(t, a.WaitForTrieQueue(context.Background()))
	st, err = a.CompareWith(context.Background(), "b", newLocalTransport(b))
	require.NoError(t, err)
	require.True(t, st.InSync)
	require.False(t, st.ShouldSync)
	require.False(t, st.LastSuccessSync.IsZero())
}

func TestCompareWithMalformedSnapshot(t *testing.T) {
	a, b := newHub(t), newHub(t)
	tr := newLocalTransport(b)
	tr.snapshot = func(s *wire.SyncSnapshot) { s.ExcludedHashes = []string{"zz"} }
	_, err := a.CompareWith(context.Background(), "b", tr)
	require.ErrorIs(t, err, ErrMalformedPeerResponse)
}

func TestComputeSyncStatusWithoutDialer(t *testing.T) {
	h := newHub(t)
	_, err := h.ComputeSyncStatus(context.Background(), "b")
	require.ErrorIs(t, err, ErrNoDialer)
}

func TestRebuild(t *testing.T) {
	h := newHub(t)
	h.add(t, testMessages(64, 1, 1_000_000)...)
	want := h.Trie().RootHash()

	h.Trie().Insert(syncid.MustEncode(5, types.Hash20{1}))
	require.NotEqual(t, want, h.Trie().RootHash())

	require.NoError(t, h.Rebuild(context.Background()))
	require.Equal(t, want, h.Trie().RootHash())
	require.Equal(t, 64, h.Trie().Items())

	loaded, err := trie.Load(h.db)
	require.NoError(t, err)
	require.Equal(t, want, loaded.RootHash())
}

func TestStopFlushesTrie(t *testing.T) {
	h := newHub(t)
	h.add(t, testMessages(20, 1, 1_000_000)...)
	h.Stop()
	require.False(t, h.Started())

	loaded, err := trie.Load(h.db)
	require.NoError(t, err)
	require.Equal(t, h.Trie().RootHash(), loaded.RootHash())
	require.Equal(t, 20, loaded.Items())
}

func TestRemovedMessagesLeaveTrie(t *testing.T) {
	h := newHub(t)
	msgs := testMessages(5, 1, 1_000_000)
	h.add(t, msgs...)

	id, err := syncid.FromMessage(msgs[2])
	require.NoError(t, err)
	require.NoError(t, h.store.Remove(context.Background(), id))
	require.NoError(t, h.WaitForTrieQueue(context.Background()))
	require.False(t, h.Trie().Exists(id))
	require.Equal(t, 4, h.Trie().Items())
	require.Zero(t, h.TrieQueueSize())
}

func TestRemoveDuringMergeNotification(t *testing.T) {
	db := database.NewMemDatabase()
	t.Cleanup(func() { db.Close() })
	store, err := messages.New(db, messages.WithLogger(logtest.New(t)))
	require.NoError(t, err)

	// stalls the merge notification ahead of the engine's listener
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	store.OnMerged(func(context.Context, syncid.ID) error {
		once.Do(func() {
			close(entered)
			<-release
		})
		return nil
	})
	e := New(trie.New(), store, WithLogger(logtest.New(t)), WithConfig(testConfig()), WithDatabase(db))
	e.Start()
	t.Cleanup(e.Stop)

	msg := testMessage(1, 1_000_000)
	id, err := syncid.FromMessage(msg)
	require.NoError(t, err)

	submitted := make(chan error, 1)
	go func() {
		_, err := store.Submit(context.Background(), messages.SourceRPC, msg)
		submitted <- err
	}()
	<-entered
	removed := make(chan error, 1)
	go func() { removed <- store.Remove(context.Background(), id) }()
	select {
	case err := <-removed:
		require.FailNow(t, "remove completed before the merge was reported", "err: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	require.NoError(t, <-submitted)
	require.NoError(t, <-removed)

	require.NoError(t, e.WaitForTrieQueue(context.Background()))
	require.Zero(t, store.Count())
	require.False(t, e.Trie().Exists(id))
	require.Equal(t, store.Count(), e.Trie().Items())
}

func TestHashesPerFetchBoundedByPeerResponse(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.Validate())
	cfg.HashesPerFetch = trie.MaxValuesReturnedPerCall
	require.NoError(t, cfg.Validate())
	cfg.HashesPerFetch = trie.MaxValuesReturnedPerCall + 1
	require.Error(t, cfg.Validate())

	h := newHub(t, WithConfig(cfg))
	require.Equal(t, trie.MaxValuesReturnedPerCall, h.cfg.HashesPerFetch)
}

func TestInfo(t *testing.T) {
	h := newHub(t, WithIdentity("self", "v1.2.3", "hub-a"))
	h.add(t, testMessages(3, 1, 1_000_000)...)

	info, err := h.Info(false)
	require.NoError(t, err)
	require.Equal(t, "v1.2.3", info.Version)
	require.Equal(t, "hub-a", info.Nickname)
	require.Equal(t, types.PeerID("self"), info.PeerID)
	require.Equal(t, h.Trie().RootHash(), info.RootHash)
	require.Zero(t, info.NumMessages)

	info, err = h.Info(true)
	require.NoError(t, err)
	require.Equal(t, 3, info.NumMessages)
}

func TestPrefixTimestamp(t *testing.T) {
	for _, tc := range []struct {
		prefix string
		want   uint64
	}{
		{"", 0},
		{"1", 1_000_000_000},
		{"0001000000", 1_000_000},
		{"16651823", 1_665_182_300},
		{"1665182343\x01\x02", 1_665_182_343},
		{"abc", 0},
	} {
		t.Run(fmt.Sprintf("%q", tc.prefix), func(t *testing.T) {
			require.Equal(t, tc.want, prefixTimestamp([]byte(tc.prefix)))
		})
	}
}
