package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hubsync/go-hub/api/wire"
	"github.com/hubsync/go-hub/codec"
)

var errSessionClosed = errors.New("stream session closed")

// Stream multiplexes calls over one StreamSync session. The session is opened
// by the first call. Once it breaks every later call fails with ErrTransport.
type Stream struct {
	options
	client *wire.HubSyncClient

	sendMu sync.Mutex

	mu      sync.Mutex
	stream  wire.StreamSyncClient
	cancel  context.CancelFunc
	nextID  uint64
	pending map[uint64]chan *wire.StreamResponse
	err     error
	done    chan struct{}
}

var _ Transport = (*Stream)(nil)

func NewStream(cc grpc.ClientConnInterface, opts ...Opt) *Stream {
	s := &Stream{
		options: defaultOptions(),
		client:  wire.NewHubSyncClient(cc),
		pending: map[uint64]chan *wire.StreamResponse{},
	}
	for _, opt := range opts {
		opt(&s.options)
	}
	return s
}

// session returns the open stream, opening it if needed.
func (s *Stream) session() (wire.StreamSyncClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.stream != nil {
		return s.stream, nil
	}
	// the session outlives individual calls
	ctx, cancel := context.WithCancel(context.Background())
	stream, err := s.client.StreamSync(ctx)
	if err != nil {
		cancel()
		s.err = classify(err)
		return nil, s.err
	}
	s.stream = stream
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.receive(stream, s.done)
	s.logger.Debug("stream session opened", zap.Stringer("peer", s.peer))
	return stream, nil
}

func (s *Stream) receive(stream wire.StreamSyncClient, done chan struct{}) {
	defer close(done)
	for {
		resp, err := stream.Recv()
		if err != nil {
			s.fail(classify(err))
			return
		}
		s.mu.Lock()
		ch, ok := s.pending[resp.ID]
		delete(s.pending, resp.ID)
		s.mu.Unlock()
		if !ok {
			s.logger.Debug("response for unknown request",
				zap.Stringer("peer", s.peer),
				zap.Uint64("id", resp.ID),
				zap.Stringer("kind", resp.Kind),
			)
			continue
		}
		ch <- resp
	}
}

// fail marks the session broken and releases every waiting call.
func (s *Stream) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		if !errors.Is(err, ErrTransport) {
			err = fmt.Errorf("%w: %w", ErrTransport, err)
		}
		s.err = err
		s.logger.Debug("stream session broken", zap.Stringer("peer", s.peer), zap.Error(err))
	}
	for id, ch := range s.pending {
		close(ch)
		delete(s.pending, id)
	}
}

func (s *Stream) register() (uint64, chan *wire.StreamResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	ch := make(chan *wire.StreamResponse, 1)
	s.pending[s.nextID] = ch
	return s.nextID, ch
}

func (s *Stream) forget(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

func (s *Stream) brokenErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	return fmt.Errorf("%w: %w", ErrTransport, errSessionClosed)
}

func (s *Stream) call(ctx context.Context, kind wire.Kind, req codec.Encodable, resp codec.Decodable) (err error) {
	start := time.Now()
	defer func() { observe("stream", kind.String(), start, err) }()

	stream, err := s.session()
	if err != nil {
		return err
	}
	payload, err := codec.Encode(req)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	id, ch := s.register()
	s.sendMu.Lock()
	err = stream.Send(&wire.StreamRequest{ID: id, Kind: kind, Payload: payload})
	s.sendMu.Unlock()
	if err != nil {
		s.forget(id)
		s.fail(classify(err))
		return s.brokenErr()
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var out *wire.StreamResponse
	select {
	case <-ctx.Done():
		s.forget(id)
		return fmt.Errorf("%w: %s: %w", ErrTransport, kind, ctx.Err())
	case r, ok := <-ch:
		if !ok {
			return s.brokenErr()
		}
		out = r
	}
	if out.Code != uint32(codes.OK) {
		return classify(status.Error(codes.Code(out.Code), out.Error))
	}
	if out.Kind != kind {
		return fmt.Errorf("%w: response kind %s for %s", ErrTransport, out.Kind, kind)
	}
	if err := codec.Decode(out.Payload, resp); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrTransport, kind, err)
	}
	return nil
}

func (s *Stream) GetInfo(ctx context.Context, req *wire.InfoRequest) (*wire.HubInfo, error) {
	var resp wire.HubInfo
	if err := s.call(ctx, wire.KindGetInfo, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Stream) GetSyncSnapshotByPrefix(ctx context.Context, prefix []byte) (*wire.SyncSnapshot, error) {
	var resp wire.SyncSnapshot
	req := &wire.PrefixRequest{Prefix: prefix}
	if err := s.call(ctx, wire.KindGetSyncSnapshotByPrefix, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Stream) GetSyncMetadataByPrefix(ctx context.Context, prefix []byte) (*wire.TrieNodeMetadata, error) {
	var resp wire.TrieNodeMetadata
	req := &wire.PrefixRequest{Prefix: prefix}
	if err := s.call(ctx, wire.KindGetSyncMetadataByPrefix, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Stream) GetAllSyncIDsByPrefix(ctx context.Context, prefix []byte) (*wire.SyncIDs, error) {
	var resp wire.SyncIDs
	req := &wire.PrefixRequest{Prefix: prefix}
	if err := s.call(ctx, wire.KindGetAllSyncIDsByPrefix, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Stream) GetAllMessagesBySyncIDs(ctx context.Context, ids [][]byte) (*wire.Messages, error) {
	var resp wire.Messages
	req := &wire.SyncIDs{IDs: ids}
	if err := s.call(ctx, wire.KindGetAllMessagesBySyncIDs, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Close ends the session. Calls after Close fail with ErrTransport.
func (s *Stream) Close() error {
	s.mu.Lock()
	stream, cancel, done := s.stream, s.cancel, s.done
	if s.err == nil {
		s.err = fmt.Errorf("%w: %w", ErrTransport, errSessionClosed)
	}
	s.mu.Unlock()
	if stream == nil {
		return nil
	}
	s.sendMu.Lock()
	err := stream.CloseSend()
	s.sendMu.Unlock()
	cancel()
	<-done
	return err
}
