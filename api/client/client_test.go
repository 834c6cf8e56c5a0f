package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/hubsync/go-hub/api/wire"
	"github.com/hubsync/go-hub/codec"
	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/syncid"
)

type fakeServer struct {
	msgs  []types.Message
	err   error
	block chan struct{}

	streamErr   error
	breakAfter  int // stream requests answered before the session is reset
	streamCalls atomic.Int32
	handled     atomic.Int32
}

func (f *fakeServer) wait(ctx context.Context) error {
	if f.block == nil {
		return nil
	}
	select {
	case <-f.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeServer) GetInfo(ctx context.Context, req *wire.InfoRequest) (*wire.HubInfo, error) {
	f.handled.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	info := &wire.HubInfo{Version: "test", Nickname: "fake"}
	if req.DBStats {
		info.DBStats = wire.DBStats{NumMessages: uint64(len(f.msgs))}
	}
	return info, nil
}

func (f *fakeServer) GetSyncSnapshotByPrefix(ctx context.Context, req *wire.PrefixRequest) (*wire.SyncSnapshot, error) {
	f.handled.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &wire.SyncSnapshot{
		Prefix:      req.Prefix,
		NumMessages: uint64(len(f.msgs)),
		RootHash:    types.Hash20{1}.Hex(),
	}, nil
}

func (f *fakeServer) GetSyncMetadataByPrefix(ctx context.Context, req *wire.PrefixRequest) (*wire.TrieNodeMetadata, error) {
	f.handled.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &wire.TrieNodeMetadata{
		Prefix:      req.Prefix,
		NumMessages: uint64(len(f.msgs)),
		Hash:        types.Hash20{2}.Hex(),
	}, nil
}

func (f *fakeServer) GetAllSyncIDsByPrefix(ctx context.Context, req *wire.PrefixRequest) (*wire.SyncIDs, error) {
	f.handled.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]syncid.ID, 0, len(f.msgs))
	for i := range f.msgs {
		ids = append(ids, syncid.MustEncode(uint64(f.msgs[i].Timestamp), f.msgs[i].Hash))
	}
	return wire.NewSyncIDs(ids), nil
}

func (f *fakeServer) GetAllMessagesBySyncIDs(ctx context.Context, req *wire.SyncIDs) (*wire.Messages, error) {
	f.handled.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := &wire.Messages{}
	for _, raw := range req.IDs {
		for _, msg := range f.msgs {
			if syncid.MustEncode(uint64(msg.Timestamp), msg.Hash) == syncid.ID(raw) {
				out.Messages = append(out.Messages, msg)
			}
		}
	}
	return out, nil
}

func (f *fakeServer) GetSyncStatus(context.Context, *wire.SyncStatusRequest) (*wire.SyncStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "not served")
}

func (f *fakeServer) SubmitMessage(context.Context, *types.Message) (*wire.SubmitResponse, error) {
	return nil, status.Error(codes.Unimplemented, "not served")
}

func (f *fakeServer) StreamSync(stream wire.StreamSyncServer) error {
	f.streamCalls.Add(1)
	if f.streamErr != nil {
		return f.streamErr
	}
	ctx := stream.Context()
	for served := 0; ; served++ {
		req, err := stream.Recv()
		if err != nil {
			return nil
		}
		if f.breakAfter > 0 && served == f.breakAfter {
			return status.Error(codes.Unavailable, "session reset")
		}
		resp := &wire.StreamResponse{ID: req.ID, Kind: req.Kind}
		var out codec.Encodable
		switch req.Kind {
		case wire.KindGetInfo:
			var in wire.InfoRequest
			if err = codec.Decode(req.Payload, &in); err == nil {
				out, err = f.GetInfo(ctx, &in)
			}
		case wire.KindGetSyncSnapshotByPrefix:
			var in wire.PrefixRequest
			if err = codec.Decode(req.Payload, &in); err == nil {
				out, err = f.GetSyncSnapshotByPrefix(ctx, &in)
			}
		case wire.KindGetSyncMetadataByPrefix:
			var in wire.PrefixRequest
			if err = codec.Decode(req.Payload, &in); err == nil {
				out, err = f.GetSyncMetadataByPrefix(ctx, &in)
			}
		case wire.KindGetAllSyncIDsByPrefix:
			var in wire.PrefixRequest
			if err = codec.Decode(req.Payload, &in); err == nil {
				out, err = f.GetAllSyncIDsByPrefix(ctx, &in)
			}
		case wire.KindGetAllMessagesBySyncIDs:
			var in wire.SyncIDs
			if err = codec.Decode(req.Payload, &in); err == nil {
				out, err = f.GetAllMessagesBySyncIDs(ctx, &in)
			}
		default:
			err = status.Errorf(codes.InvalidArgument, "unexpected kind %s", req.Kind)
		}
		if err != nil {
			resp.Code = uint32(status.Code(err))
			resp.Error = err.Error()
		} else {
			resp.Payload = codec.MustEncode(out)
		}
		if err := stream.Send(resp); err != nil {
			return err
		}
	}
}

func serve(t *testing.T, srv wire.HubSyncServer) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	wire.RegisterHubSyncServer(s, srv)
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { cc.Close() })
	return cc
}

func testMessages(n int) []types.Message {
	msgs := make([]types.Message, n)
	for i := range msgs {
		msgs[i] = *types.NewMessage(uint64(i+1), 1_000_000+uint32(i), 1, []byte(fmt.Sprintf("body %d", i)))
	}
	return msgs
}

func TestTransports(t *testing.T) {
	for _, tc := range []struct {
		desc string
		new  func(*testing.T, grpc.ClientConnInterface) Transport
	}{
		{
			desc: "unary",
			new: func(t *testing.T, cc grpc.ClientConnInterface) Transport {
				return NewUnary(cc, WithLogger(zaptest.NewLogger(t)))
			},
		},
		{
			desc: "stream",
			new: func(t *testing.T, cc grpc.ClientConnInterface) Transport {
				return NewStream(cc, WithLogger(zaptest.NewLogger(t)))
			},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			srv := &fakeServer{msgs: testMessages(3)}
			tr := tc.new(t, serve(t, srv))
			t.Cleanup(func() { tr.Close() })
			ctx := context.Background()

			info, err := tr.GetInfo(ctx, &wire.InfoRequest{DBStats: true})
			require.NoError(t, err)
			require.Equal(t, "fake", info.Nickname)
			require.EqualValues(t, 3, info.DBStats.NumMessages)

			snap, err := tr.GetSyncSnapshotByPrefix(ctx, []byte("0001"))
			require.NoError(t, err)
			require.Equal(t, []byte("0001"), snap.Prefix)
			require.Equal(t, types.Hash20{1}.Hex(), snap.RootHash)

			ids, err := tr.GetAllSyncIDsByPrefix(ctx, nil)
			require.NoError(t, err)
			parsed, err := ids.Parse()
			require.NoError(t, err)
			require.Len(t, parsed, 3)

			md, err := tr.GetSyncMetadataByPrefix(ctx, []byte("00"))
			require.NoError(t, err)
			require.Equal(t, types.Hash20{2}.Hex(), md.Hash)

			msgs, err := tr.GetAllMessagesBySyncIDs(ctx, ids.IDs[:2])
			require.NoError(t, err)
			require.Len(t, msgs.Messages, 2)
			require.Equal(t, srv.msgs[0], msgs.Messages[0])
		})
	}
}

func TestStreamMultiplexesSession(t *testing.T) {
	srv := &fakeServer{}
	s := NewStream(serve(t, srv), WithLogger(zaptest.NewLogger(t)))
	t.Cleanup(func() { s.Close() })

	var eg errgroup.Group
	for i := range 20 {
		eg.Go(func() error {
			prefix := []byte(fmt.Sprintf("%010d", i))
			snap, err := s.GetSyncSnapshotByPrefix(context.Background(), prefix)
			if err != nil {
				return err
			}
			if string(snap.Prefix) != string(prefix) {
				return fmt.Errorf("got prefix %q for %q", snap.Prefix, prefix)
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	require.EqualValues(t, 1, srv.streamCalls.Load())
}

func TestServerErrors(t *testing.T) {
	for _, tc := range []struct {
		desc      string
		err       error
		transport bool
	}{
		{"not found", status.Error(codes.NotFound, "missing"), false},
		{"invalid argument", status.Error(codes.InvalidArgument, "bad prefix"), false},
		{"resource exhausted", status.Error(codes.ResourceExhausted, "slow down"), false},
		{"unavailable", status.Error(codes.Unavailable, "going away"), true},
		{"internal", status.Error(codes.Internal, "boom"), true},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			srv := &fakeServer{err: tc.err}
			cc := serve(t, srv)
			for _, tr := range []Transport{NewUnary(cc), NewStream(cc)} {
				_, err := tr.GetSyncSnapshotByPrefix(context.Background(), nil)
				require.Error(t, err)
				if tc.transport {
					require.ErrorIs(t, err, ErrTransport)
				} else {
					var serr *ServerError
					require.ErrorAs(t, err, &serr)
					require.Equal(t, status.Code(tc.err), serr.Code)
					require.NotErrorIs(t, err, ErrTransport)
				}
				require.NoError(t, tr.Close())
			}
		})
	}
}

func TestFailoverFallsBackForSession(t *testing.T) {
	srv := &fakeServer{streamErr: status.Error(codes.Unimplemented, "no streams")}
	tr := NewTransport(serve(t, srv), true, WithLogger(zaptest.NewLogger(t)))
	t.Cleanup(func() { tr.Close() })
	f, ok := tr.(*Failover)
	require.True(t, ok)

	snap, err := f.GetSyncSnapshotByPrefix(context.Background(), []byte("1"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), snap.Prefix)
	require.True(t, f.FellBack())

	_, err = f.GetAllSyncIDsByPrefix(context.Background(), nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, srv.streamCalls.Load())
	require.EqualValues(t, 2, srv.handled.Load())
}

func TestFailoverAfterSessionBreaks(t *testing.T) {
	srv := &fakeServer{msgs: testMessages(2), breakAfter: 2}
	tr := NewTransport(serve(t, srv), true, WithLogger(zaptest.NewLogger(t)))
	t.Cleanup(func() { tr.Close() })
	f, ok := tr.(*Failover)
	require.True(t, ok)
	ctx := context.Background()

	for _, prefix := range []string{"1", "2"} {
		snap, err := f.GetSyncSnapshotByPrefix(ctx, []byte(prefix))
		require.NoError(t, err)
		require.Equal(t, []byte(prefix), snap.Prefix)
	}
	require.False(t, f.FellBack())

	// the session is reset while this call is in flight
	md, err := f.GetSyncMetadataByPrefix(ctx, []byte("3"))
	require.NoError(t, err)
	require.Equal(t, []byte("3"), md.Prefix)
	require.True(t, f.FellBack())

	ids, err := f.GetAllSyncIDsByPrefix(ctx, nil)
	require.NoError(t, err)
	require.Len(t, ids.IDs, 2)
	require.EqualValues(t, 1, srv.streamCalls.Load())
	require.EqualValues(t, 4, srv.handled.Load())
}

func TestFailoverKeepsServerErrors(t *testing.T) {
	srv := &fakeServer{err: status.Error(codes.NotFound, "missing")}
	tr := NewTransport(serve(t, srv), true, WithLogger(zaptest.NewLogger(t)))
	t.Cleanup(func() { tr.Close() })

	_, err := tr.GetSyncSnapshotByPrefix(context.Background(), nil)
	require.ErrorIs(t, err, &ServerError{})
	require.False(t, tr.(*Failover).FellBack())
	require.EqualValues(t, 1, srv.handled.Load())
}

func TestFailoverCallerCanceled(t *testing.T) {
	preferred := &stubTransport{err: fmt.Errorf("%w: %w", ErrTransport, context.Canceled)}
	fallback := &stubTransport{}
	f := NewFailover(zaptest.NewLogger(t), preferred, fallback)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.GetInfo(ctx, &wire.InfoRequest{})
	require.ErrorIs(t, err, ErrTransport)
	require.False(t, f.FellBack())
	require.Zero(t, fallback.calls)
}

func TestRequestTimeout(t *testing.T) {
	srv := &fakeServer{block: make(chan struct{})}
	t.Cleanup(func() { close(srv.block) })
	cc := serve(t, srv)
	for _, tr := range []Transport{
		NewUnary(cc, WithRequestTimeout(50*time.Millisecond)),
		NewStream(cc, WithRequestTimeout(50*time.Millisecond)),
	} {
		_, err := tr.GetInfo(context.Background(), &wire.InfoRequest{})
		require.ErrorIs(t, err, ErrTransport)
		require.NoError(t, tr.Close())
	}
}

func TestStreamClosed(t *testing.T) {
	s := NewStream(serve(t, &fakeServer{}))
	_, err := s.GetSyncSnapshotByPrefix(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.GetSyncSnapshotByPrefix(context.Background(), nil)
	require.ErrorIs(t, err, ErrTransport)
}

func TestClassify(t *testing.T) {
	require.NoError(t, classify(nil))
	require.ErrorIs(t, classify(context.DeadlineExceeded), ErrTransport)
	require.ErrorIs(t, classify(context.Canceled), ErrTransport)
	require.ErrorIs(t, classify(errors.New("connection reset")), ErrTransport)
	require.ErrorIs(t, classify(status.Error(codes.Unimplemented, "")), ErrTransport)
	require.ErrorIs(t, classify(status.Error(codes.DeadlineExceeded, "")), ErrTransport)

	err := classify(status.Error(codes.PermissionDenied, "go away"))
	var serr *ServerError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, codes.PermissionDenied, serr.Code)
	require.Equal(t, "go away", serr.Msg)
	require.Same(t, err, classify(err))
}

func TestPeerDialer(t *testing.T) {
	d := NewPeerDialer(zaptest.NewLogger(t), DefaultConfig(), nil)
	_, err := d.Dial(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrUnknownPeer)

	d.SetAddress("b", "localhost:1")
	d.SetAddress("a", "localhost:2")
	require.Equal(t, []types.PeerID{"a", "b"}, d.Peers())

	tr, err := d.Dial(context.Background(), "a")
	require.NoError(t, err)
	require.NoError(t, tr.Close())
}

type stubTransport struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubTransport) call() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *stubTransport) GetInfo(context.Context, *wire.InfoRequest) (*wire.HubInfo, error) {
	return &wire.HubInfo{}, s.call()
}

func (s *stubTransport) GetSyncSnapshotByPrefix(context.Context, []byte) (*wire.SyncSnapshot, error) {
	return &wire.SyncSnapshot{}, s.call()
}

func (s *stubTransport) GetSyncMetadataByPrefix(context.Context, []byte) (*wire.TrieNodeMetadata, error) {
	return &wire.TrieNodeMetadata{}, s.call()
}

func (s *stubTransport) GetAllSyncIDsByPrefix(context.Context, []byte) (*wire.SyncIDs, error) {
	return &wire.SyncIDs{}, s.call()
}

func (s *stubTransport) GetAllMessagesBySyncIDs(context.Context, [][]byte) (*wire.Messages, error) {
	return &wire.Messages{}, s.call()
}

func (s *stubTransport) Close() error { return nil }
