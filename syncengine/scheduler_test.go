package syncengine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hubsync/go-hub/api/client"
	clientmocks "github.com/hubsync/go-hub/api/client/mocks"
	"github.com/hubsync/go-hub/api/wire"
	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/fetch/peers"
	"github.com/hubsync/go-hub/syncengine/mocks"
)

func TestRoundSyncsWithKnownPeers(t *testing.T) {
	ctrl := gomock.NewController(t)
	dialer := mocks.NewMockDialer(ctrl)
	tracker := peers.New()
	a := newHub(t, WithDialer(dialer), WithPeers(tracker), WithIdentity("a", "", ""))
	b := newHub(t)
	b.add(t, testMessages(10, 1, 1_000_000)...)

	errRefused := errors.New("connection refused")
	dialer.EXPECT().Peers().Return([]types.PeerID{"a", "b", "c"})
	dialer.EXPECT().Dial(gomock.Any(), types.PeerID("b")).Return(newLocalTransport(b), nil)
	dialer.EXPECT().Dial(gomock.Any(), types.PeerID("c")).Return(nil, errRefused)

	a.Round(context.Background())
	require.NoError(t, a.WaitForTrieQueue(context.Background()))
	require.Equal(t, b.Trie().RootHash(), a.Trie().RootHash())

	st, ok := a.PeerState("b")
	require.True(t, ok)
	require.Equal(t, ResultSynced, st.LastResult)
	require.Equal(t, 10, st.Merged)
	_, ok = a.PeerState("c")
	require.False(t, ok)

	// self is never tracked
	require.Equal(t, 2, tracker.Total())
	require.Equal(t, types.PeerID("b"), tracker.SelectBestFrom([]types.PeerID{"b", "c"}))
}

func TestRoundForgetsRemovedPeers(t *testing.T) {
	ctrl := gomock.NewController(t)
	dialer := mocks.NewMockDialer(ctrl)
	tracker := peers.New()
	tracker.Add("gone")
	a := newHub(t, WithDialer(dialer), WithPeers(tracker))

	dialer.EXPECT().Peers().Return(nil)
	a.Round(context.Background())
	require.Zero(t, tracker.Total())
}

func TestRoundLimitsPeers(t *testing.T) {
	cfg := testConfig()
	cfg.PeersPerRound = 2
	ctrl := gomock.NewController(t)
	dialer := mocks.NewMockDialer(ctrl)
	a := newHub(t, WithDialer(dialer), WithConfig(cfg))
	b := newHub(t)

	dialer.EXPECT().Peers().Return([]types.PeerID{"p1", "p2", "p3", "p4"})
	dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, types.PeerID) (client.Transport, error) {
			return newLocalTransport(b), nil
		}).
		Times(2)
	a.Round(context.Background())
	require.Len(t, a.PeerStates(), 2)
}

func TestSyncWithMockTransport(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := clientmocks.NewMockTransport(ctrl)
	a := newHub(t)

	tr.EXPECT().GetSyncSnapshotByPrefix(gomock.Any(), gomock.Len(0)).
		Return(&wire.SyncSnapshot{RootHash: types.Hash20{1}.Hex()}, nil)
	tr.EXPECT().GetSyncMetadataByPrefix(gomock.Any(), gomock.Len(0)).
		Return(&wire.TrieNodeMetadata{
			NumMessages: 100,
			Hash:        types.Hash20{1}.Hex(),
			Children: []wire.TrieNodeMetadata{
				// does not extend the parent by one byte
				{Prefix: []byte("00"), NumMessages: 100, Hash: types.Hash20{2}.Hex()},
			},
		}, nil)

	out, err := a.PerformSync(context.Background(), "b", tr)
	require.NoError(t, err)
	require.Equal(t, ResultSynced, out.Result)
	require.Equal(t, 1, out.Malformed)
	require.Equal(t, 100, out.TheirMessages)
}

func TestSyncTransportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := clientmocks.NewMockTransport(ctrl)
	a := newHub(t)

	tr.EXPECT().GetSyncSnapshotByPrefix(gomock.Any(), gomock.Any()).
		Return(nil, client.ErrTransport)
	out, err := a.PerformSync(context.Background(), "b", tr)
	require.ErrorIs(t, err, client.ErrTransport)
	require.Equal(t, ResultFailed, out.Result)
}

func TestComputeSyncStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	dialer := mocks.NewMockDialer(ctrl)
	a := newHub(t, WithDialer(dialer))
	b := newHub(t)
	b.add(t, testMessages(3, 1, 1_000_000)...)

	tr := clientmocks.NewMockTransport(ctrl)
	local := newLocalTransport(b)
	tr.EXPECT().GetSyncSnapshotByPrefix(gomock.Any(), gomock.Any()).DoAndReturn(local.GetSyncSnapshotByPrefix)
	tr.EXPECT().GetInfo(gomock.Any(), gomock.Any()).DoAndReturn(local.GetInfo)
	tr.EXPECT().Close()
	dialer.EXPECT().Dial(gomock.Any(), types.PeerID("b")).Return(tr, nil)

	st, err := a.ComputeSyncStatus(context.Background(), "b")
	require.NoError(t, err)
	require.Equal(t, types.PeerID("b"), st.Peer)
	require.False(t, st.InSync)
	require.True(t, st.ShouldSync)
	require.Equal(t, 3, st.TheirMessages)
	require.Zero(t, st.OurMessages)

	dialer.EXPECT().Dial(gomock.Any(), types.PeerID("c")).Return(nil, client.ErrUnknownPeer)
	_, err = a.ComputeSyncStatus(context.Background(), "c")
	require.ErrorIs(t, err, client.ErrUnknownPeer)
}

func TestRunSchedulesRounds(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ctrl := gomock.NewController(t)
	dialer := mocks.NewMockDialer(ctrl)
	cfg := testConfig()
	cfg.Interval = time.Minute
	a := newHub(t, WithClock(clock), WithConfig(cfg))
	a.dialer = dialer

	rounds := make(chan struct{}, 3)
	dialer.EXPECT().Peers().DoAndReturn(func() []types.PeerID {
		rounds <- struct{}{}
		return nil
	}).Times(2)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- a.Run(ctx) }()

	<-rounds
	clock.BlockUntil(1)
	clock.Advance(cfg.Interval)
	<-rounds
	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(time.Second):
		require.FailNow(t, "scheduler did not stop")
	}
}

func TestRunWithoutDialer(t *testing.T) {
	h := newHub(t)
	require.ErrorIs(t, h.Run(context.Background()), ErrNoDialer)
}
