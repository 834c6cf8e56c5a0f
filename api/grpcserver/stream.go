package grpcserver

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hubsync/go-hub/api/wire"
	"github.com/hubsync/go-hub/codec"
	"github.com/hubsync/go-hub/log"
)

var errStreamIdle = status.Error(codes.DeadlineExceeded, "stream idle")

// StreamSync serves the sync calls multiplexed over one session. Requests are
// served concurrently and answered in completion order. The session ends when
// the client closes its side, a send fails or no request is in flight for
// StreamIdleTimeout.
func (s *Service) StreamSync(stream wire.StreamSyncServer) error {
	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()
	ctx = log.WithNewSessionID(ctx)
	sessions.Inc()
	defer sessions.Dec()

	reqs := make(chan *wire.StreamRequest)
	recvErr := make(chan error, 1)
	go func() {
		for {
			req, err := stream.Recv()
			if err != nil {
				recvErr <- err
				return
			}
			select {
			case reqs <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		sendMu   sync.Mutex
		inFlight atomic.Int64
	)
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(max(s.cfg.StreamConcurrency, 1))
	idle := s.newIdleTimer()
	defer idle.Stop()

	finish := func(reason string, err error) error {
		cancel()
		if werr := eg.Wait(); err == nil {
			err = werr
		}
		sessionsClosed.WithLabelValues(reason).Inc()
		ctxzap.Debug(ctx, "stream session closed", zap.String("reason", reason), zap.Error(err))
		return err
	}

	for {
		select {
		case req := <-reqs:
			idle.reset()
			if err := s.limiter.Wait(ectx); err != nil {
				return finish("canceled", toStatus(err))
			}
			inFlight.Add(1)
			eg.Go(func() error {
				resp := s.serveStreamRequest(ectx, req)
				inFlight.Add(-1)
				sendMu.Lock()
				defer sendMu.Unlock()
				return stream.Send(resp)
			})
		case err := <-recvErr:
			if errors.Is(err, io.EOF) {
				// wait for the answers before returning closes the stream
				werr := eg.Wait()
				sessionsClosed.WithLabelValues("eof").Inc()
				return werr
			}
			return finish("recv", err)
		case <-idle.c():
			if inFlight.Load() > 0 {
				idle.reset()
				continue
			}
			return finish("idle", errStreamIdle)
		case <-ectx.Done():
			return finish("done", toStatus(ectx.Err()))
		}
	}
}

// idleTimer wraps the clock's timer; a zero StreamIdleTimeout never fires.
type idleTimer struct {
	timeout time.Duration
	timer   clockwork.Timer
}

func (s *Service) newIdleTimer() *idleTimer {
	t := &idleTimer{timeout: s.cfg.StreamIdleTimeout}
	if t.timeout > 0 {
		t.timer = s.clock.NewTimer(t.timeout)
	}
	return t
}

func (t *idleTimer) c() <-chan time.Time {
	if t.timer == nil {
		return nil
	}
	return t.timer.Chan()
}

func (t *idleTimer) reset() {
	if t.timer != nil {
		t.timer.Reset(t.timeout)
	}
}

func (t *idleTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (s *Service) serveStreamRequest(ctx context.Context, req *wire.StreamRequest) *wire.StreamResponse {
	start := time.Now()
	ctx = log.WithNewRequestID(ctx)
	payload, err := s.dispatch(ctx, req)
	err = toStatus(err)
	code := status.Code(err)
	requests.WithLabelValues(req.Kind.String(), code.String()).Inc()
	latency.WithLabelValues(req.Kind.String()).Observe(time.Since(start).Seconds())

	resp := &wire.StreamResponse{ID: req.ID, Kind: req.Kind}
	if err != nil {
		msg := status.Convert(err).Message()
		if len(msg) > wire.MaxErrorSize {
			msg = msg[:wire.MaxErrorSize]
		}
		resp.Code = uint32(code)
		resp.Error = msg
		s.logger.Debug("stream request failed",
			log.ZContext(ctx),
			zap.Uint64("id", req.ID),
			zap.Stringer("kind", req.Kind),
			zap.Error(err),
		)
		return resp
	}
	resp.Payload = payload
	return resp
}

func (s *Service) dispatch(ctx context.Context, req *wire.StreamRequest) ([]byte, error) {
	switch req.Kind {
	case wire.KindGetInfo:
		return serve(ctx, req.Payload, s.GetInfo)
	case wire.KindGetSyncSnapshotByPrefix:
		return serve(ctx, req.Payload, s.GetSyncSnapshotByPrefix)
	case wire.KindGetSyncMetadataByPrefix:
		return serve(ctx, req.Payload, s.GetSyncMetadataByPrefix)
	case wire.KindGetAllSyncIDsByPrefix:
		return serve(ctx, req.Payload, s.GetAllSyncIDsByPrefix)
	case wire.KindGetAllMessagesBySyncIDs:
		return serve(ctx, req.Payload, s.GetAllMessagesBySyncIDs)
	}
	return nil, status.Errorf(codes.InvalidArgument, "unknown request kind %s", req.Kind)
}

func serve[Req any, PReq interface {
	*Req
	codec.Decodable
}, Resp codec.Encodable](
	ctx context.Context,
	payload []byte,
	handler func(context.Context, PReq) (Resp, error),
) ([]byte, error) {
	in := PReq(new(Req))
	if err := codec.Decode(payload, in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	out, err := handler(ctx, in)
	if err != nil {
		return nil, err
	}
	return codec.Encode(out)
}
