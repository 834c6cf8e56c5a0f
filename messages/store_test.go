package messages

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/database"
	"github.com/hubsync/go-hub/log/logtest"
	"github.com/hubsync/go-hub/syncid"
)

func newStore(t *testing.T, opts ...Opt) (*Store, *database.LDBDatabase) {
	t.Helper()
	db := database.NewMemDatabase()
	t.Cleanup(func() { db.Close() })
	opts = append([]Opt{WithLogger(logtest.New(t))}, opts...)
	s, err := New(db, opts...)
	require.NoError(t, err)
	return s, db
}

func testMessage(fid uint64, ts uint32) *types.Message {
	return types.NewMessage(fid, ts, 1, []byte{byte(fid), byte(ts)})
}

func TestSubmitGet(t *testing.T) {
	clock := clockwork.NewFakeClockAt(types.Epoch.Add(time.Hour))
	s, _ := newStore(t, WithClock(clock))

	msg := testMessage(1, 100)
	res, err := s.Submit(context.Background(), SourceRPC, msg)
	require.NoError(t, err)
	require.Equal(t, Applied, res)
	require.Equal(t, 1, s.Count())

	res, err = s.Submit(context.Background(), SourceSync, msg)
	require.NoError(t, err)
	require.Equal(t, Duplicate, res)
	require.Equal(t, 1, s.Count())

	id, err := syncid.FromMessage(msg)
	require.NoError(t, err)
	got, err := s.Get(id)
	require.NoError(t, err)
	require.Equal(t, msg, got)

	_, err = s.Get(syncid.MustEncode(1, msg.Hash))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitInvalid(t *testing.T) {
	s, _ := newStore(t)
	msg := testMessage(1, 100)
	msg.Body = append(msg.Body, 1)
	_, err := s.Submit(context.Background(), SourceRPC, msg)
	require.ErrorIs(t, err, ErrInvalidMessage)
	require.Zero(t, s.Count())
}

func TestGetUncached(t *testing.T) {
	s, db := newStore(t, WithCacheSize(1))
	first := testMessage(1, 1)
	second := testMessage(2, 2)
	for _, msg := range []*types.Message{first, second} {
		_, err := s.Submit(context.Background(), SourceSync, msg)
		require.NoError(t, err)
	}
	id, err := syncid.FromMessage(first)
	require.NoError(t, err)
	got, err := s.Get(id)
	require.NoError(t, err)
	require.Equal(t, first, got)

	reopened, err := New(db)
	require.NoError(t, err)
	require.Equal(t, 2, reopened.Count())
	got, err = reopened.Get(id)
	require.NoError(t, err)
	require.Equal(t, first, got)
}

func TestListeners(t *testing.T) {
	s, _ := newStore(t)
	var merged, removed []syncid.ID
	s.OnMerged(func(_ context.Context, id syncid.ID) error {
		merged = append(merged, id)
		return nil
	})
	s.OnMerged(func(context.Context, syncid.ID) error {
		return errors.New("listener failures are only logged")
	})
	s.OnRemoved(func(_ context.Context, id syncid.ID) error {
		removed = append(removed, id)
		return nil
	})

	msg := testMessage(7, 70)
	id, err := syncid.FromMessage(msg)
	require.NoError(t, err)
	res, err := s.Submit(context.Background(), SourceSync, msg)
	require.NoError(t, err)
	require.Equal(t, Applied, res)
	_, err = s.Submit(context.Background(), SourceSync, msg)
	require.NoError(t, err)
	require.Equal(t, []syncid.ID{id}, merged)

	require.NoError(t, s.Remove(context.Background(), id))
	require.Equal(t, []syncid.ID{id}, removed)
	require.Zero(t, s.Count())
	require.ErrorIs(t, s.Remove(context.Background(), id), ErrNotFound)
}

func TestListenersFollowWriteOrder(t *testing.T) {
	s, _ := newStore(t)
	var (
		mu     sync.Mutex
		events []string
	)
	record := func(event string) Listener {
		return func(context.Context, syncid.ID) error {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, event)
			return nil
		}
	}
	entered := make(chan struct{})
	release := make(chan struct{})
	s.OnMerged(func(context.Context, syncid.ID) error {
		close(entered)
		<-release
		return nil
	})
	s.OnMerged(record("merged"))
	s.OnRemoved(record("removed"))

	msg := testMessage(3, 30)
	id, err := syncid.FromMessage(msg)
	require.NoError(t, err)

	var eg errgroup.Group
	eg.Go(func() error {
		_, err := s.Submit(context.Background(), SourceSync, msg)
		return err
	})
	<-entered
	eg.Go(func() error {
		return s.Remove(context.Background(), id)
	})
	// the remove waits for the merge notification to finish
	time.Sleep(20 * time.Millisecond)
	close(release)
	require.NoError(t, eg.Wait())
	require.Equal(t, []string{"merged", "removed"}, events)
	require.Zero(t, s.Count())
}

func TestGetBySyncIDs(t *testing.T) {
	s, _ := newStore(t)
	var ids []syncid.ID
	for i := range 5 {
		msg := testMessage(uint64(i), uint32(100-i))
		_, err := s.Submit(context.Background(), SourceSync, msg)
		require.NoError(t, err)
		id, err := syncid.FromMessage(msg)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	missing := syncid.MustEncode(5, types.Hash20{1})
	msgs, err := s.GetBySyncIDs([]syncid.ID{ids[3], missing, ids[0]})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, uint64(3), msgs[0].Fid)
	require.Equal(t, uint64(0), msgs[1].Fid)
}

func TestIterateInSyncIDOrder(t *testing.T) {
	s, _ := newStore(t)
	for i := range 20 {
		_, err := s.Submit(context.Background(), SourceSync, testMessage(uint64(i%3), uint32(1000-i*7)))
		require.NoError(t, err)
	}
	var prev *syncid.ID
	n := 0
	require.NoError(t, s.Iterate(func(id syncid.ID, msg *types.Message) error {
		if prev != nil {
			require.Negative(t, prev.Compare(id))
		}
		require.Equal(t, uint64(msg.Timestamp), id.Timestamp())
		prev = &id
		n++
		return nil
	}))
	require.Equal(t, 20, n)

	n = 0
	require.NoError(t, s.IterateIDs(func(syncid.ID) error {
		n++
		if n == 5 {
			return database.ErrStopIteration
		}
		return nil
	}))
	require.Equal(t, 5, n)
}

func TestSortByTimestamp(t *testing.T) {
	msgs := []*types.Message{testMessage(1, 30), testMessage(2, 10), testMessage(3, 20), testMessage(4, 10)}
	SortByTimestamp(msgs)
	for i := 1; i < len(msgs); i++ {
		require.LessOrEqual(t, msgs[i-1].Timestamp, msgs[i].Timestamp)
	}
	require.Equal(t, uint32(10), msgs[0].Timestamp)
	require.Equal(t, uint32(30), msgs[3].Timestamp)
}

func TestConcurrentSubmitSameFid(t *testing.T) {
	s, _ := newStore(t)
	var (
		mu      sync.Mutex
		applied int
	)
	var eg errgroup.Group
	for i := range 50 {
		msg := testMessage(42, uint32(i%10))
		eg.Go(func() error {
			res, err := s.Submit(context.Background(), SourceSync, msg)
			if err != nil {
				return err
			}
			if res == Applied {
				mu.Lock()
				applied++
				mu.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	require.Equal(t, 10, applied)
	require.Equal(t, 10, s.Count())
}
