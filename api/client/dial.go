package client

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/log"
)

// ErrUnknownPeer is returned by PeerDialer for peers without an address.
var ErrUnknownPeer = errors.New("unknown peer")

// Conn is a Transport owning its grpc connection.
type Conn struct {
	Transport
	cc *grpc.ClientConn
}

func (c *Conn) Close() error {
	return errors.Join(c.Transport.Close(), c.cc.Close())
}

// Dial connects to a hub. The connection is established lazily by the first call.
func Dial(addr string, cfg Config, opts ...Opt) (*Conn, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(grpc_zap.UnaryClientInterceptor(o.logger)),
		grpc.WithChainStreamInterceptor(grpc_zap.StreamClientInterceptor(o.logger)),
	}
	if cfg.KeepaliveTime > 0 {
		dialOpts = append(dialOpts, grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                cfg.KeepaliveTime,
			Timeout:             cfg.KeepaliveTime / 3,
			PermitWithoutStream: false,
		}))
	}
	cc, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	opts = append([]Opt{WithRequestTimeout(cfg.RequestTimeout)}, opts...)
	return &Conn{Transport: NewTransport(cc, cfg.Streaming, opts...), cc: cc}, nil
}

// NewTransport builds a Failover when streaming is enabled and a Unary otherwise.
func NewTransport(cc grpc.ClientConnInterface, streaming bool, opts ...Opt) Transport {
	unary := NewUnary(cc, opts...)
	if !streaming {
		return unary
	}
	stream := NewStream(cc, opts...)
	return NewFailover(stream.logger, stream, unary)
}

// PeerDialer dials peers from a static address book.
type PeerDialer struct {
	logger *zap.Logger
	cfg    Config

	mu    sync.RWMutex
	addrs map[types.PeerID]string
}

func NewPeerDialer(logger *zap.Logger, cfg Config, addrs map[types.PeerID]string) *PeerDialer {
	d := &PeerDialer{logger: logger, cfg: cfg, addrs: maps.Clone(addrs)}
	if d.addrs == nil {
		d.addrs = map[types.PeerID]string{}
	}
	return d
}

// SetAddress adds or replaces the address of a peer.
func (d *PeerDialer) SetAddress(peer types.PeerID, addr string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addrs[peer] = addr
}

// Peers returns every peer with a known address, sorted.
func (d *PeerDialer) Peers() []types.PeerID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Sorted(maps.Keys(d.addrs))
}

// Dial opens a session with peer. The caller closes the returned transport.
func (d *PeerDialer) Dial(ctx context.Context, peer types.PeerID) (Transport, error) {
	d.mu.RLock()
	addr, ok := d.addrs[peer]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPeer, peer)
	}
	logger := d.logger.With(zap.Stringer("peer", peer), zap.String("addr", addr))
	logger.Debug("dialing peer", log.ZContext(ctx))
	return Dial(addr, d.cfg, WithLogger(logger), WithPeer(peer))
}
