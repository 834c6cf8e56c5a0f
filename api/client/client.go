// Package client calls remote hubs during sync.
//
// Every call is available over two mechanisms: one grpc call per request
// (Unary) or requests multiplexed over a single StreamSync session (Stream).
// Failover prefers the stream and moves to unary calls for the rest of the
// session once the stream reports a transport failure. All three report the
// same errors, so callers cannot tell which mechanism served a call.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hubsync/go-hub/api/wire"
	"github.com/hubsync/go-hub/common/types"
)

// ErrTransport wraps failures to reach the peer or to complete a call in time.
var ErrTransport = errors.New("transport failure")

// ServerError is a failure reported by the peer itself.
type ServerError struct {
	Code codes.Code
	Msg  string
}

func (*ServerError) Is(target error) bool {
	_, ok := target.(*ServerError)
	return ok
}

func (err *ServerError) Error() string {
	return fmt.Sprintf("peer error (%s): %s", err.Code, err.Msg)
}

//go:generate mockgen -typed -package=mocks -destination=./mocks/mocks.go -source=./client.go

// Transport is the set of calls the sync engine makes against a peer.
type Transport interface {
	GetInfo(ctx context.Context, req *wire.InfoRequest) (*wire.HubInfo, error)
	GetSyncSnapshotByPrefix(ctx context.Context, prefix []byte) (*wire.SyncSnapshot, error)
	GetSyncMetadataByPrefix(ctx context.Context, prefix []byte) (*wire.TrieNodeMetadata, error)
	GetAllSyncIDsByPrefix(ctx context.Context, prefix []byte) (*wire.SyncIDs, error)
	GetAllMessagesBySyncIDs(ctx context.Context, ids [][]byte) (*wire.Messages, error)
	Close() error
}

// Config of the outgoing calls.
type Config struct {
	// RequestTimeout bounds every call. A call that times out is a transport failure.
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	// Streaming enables StreamSync sessions with unary fallback.
	Streaming bool `mapstructure:"streaming"`
	// KeepaliveTime is the interval of client pings on idle connections.
	KeepaliveTime time.Duration `mapstructure:"keepalive-time"`
}

func DefaultConfig() Config {
	return Config{
		RequestTimeout: 30 * time.Second,
		Streaming:      true,
		KeepaliveTime:  time.Minute,
	}
}

// Opt configures a client.
type Opt func(*options)

type options struct {
	logger  *zap.Logger
	timeout time.Duration
	peer    types.PeerID
}

func defaultOptions() options {
	return options{
		logger:  zap.NewNop(),
		timeout: DefaultConfig().RequestTimeout,
	}
}

func WithLogger(logger *zap.Logger) Opt {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRequestTimeout bounds every call. Zero disables the bound.
func WithRequestTimeout(timeout time.Duration) Opt {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithPeer names the remote hub in logs and metrics.
func WithPeer(peer types.PeerID) Opt {
	return func(o *options) {
		o.peer = peer
	}
}

func (o *options) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.timeout)
}

// classify maps a grpc or context error to ErrTransport or *ServerError.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransport) || errors.Is(err, &ServerError{}) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	switch st.Code() {
	case codes.InvalidArgument, codes.NotFound, codes.ResourceExhausted,
		codes.FailedPrecondition, codes.Aborted, codes.OutOfRange, codes.PermissionDenied:
		return &ServerError{Code: st.Code(), Msg: st.Message()}
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

func isServerError(err error) bool {
	return errors.Is(err, &ServerError{})
}
