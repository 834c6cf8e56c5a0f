package grpcserver

import (
	"context"
	"errors"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hubsync/go-hub/api/client"
	"github.com/hubsync/go-hub/api/wire"
	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/messages"
	"github.com/hubsync/go-hub/syncengine"
	"github.com/hubsync/go-hub/syncid"
	"github.com/hubsync/go-hub/trie"
)

//go:generate mockgen -typed -package=grpcserver -destination=./mocks.go -source=./service.go

// Engine serves the local trie and compares it with peers.
type Engine interface {
	Info(dbStats bool) (syncengine.Info, error)
	Snapshot(prefix []byte) trie.Snapshot
	NodeMetadata(prefix []byte) trie.NodeMetadata
	AllSyncIDs(prefix []byte) []syncid.ID
	MessagesBySyncIDs(ids []syncid.ID) ([]*types.Message, error)
	ComputeSyncStatus(ctx context.Context, peer types.PeerID) (syncengine.SyncStatus, error)
	KnownPeers() []types.PeerID
	IsSyncing() bool
	Started() bool
}

// Submitter accepts messages from clients.
type Submitter interface {
	Submit(ctx context.Context, source messages.Source, msg *types.Message) (messages.Result, error)
}

// Service implements wire.HubSyncServer.
type Service struct {
	logger  *zap.Logger
	clock   clockwork.Clock
	cfg     Config
	engine  Engine
	store   Submitter
	limiter *rate.Limiter
}

var _ wire.HubSyncServer = (*Service)(nil)

// ServiceOpt configures a Service.
type ServiceOpt func(*Service)

func WithLogger(logger *zap.Logger) ServiceOpt {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock drives the StreamSync idle timeout.
func WithClock(clock clockwork.Clock) ServiceOpt {
	return func(s *Service) {
		s.clock = clock
	}
}

func NewService(engine Engine, store Submitter, cfg Config, opts ...ServiceOpt) *Service {
	s := &Service{
		logger: zap.NewNop(),
		clock:  clockwork.NewRealClock(),
		cfg:    cfg,
		engine: engine,
		store:  store,
	}
	for _, opt := range opts {
		opt(s)
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	s.limiter = rate.NewLimiter(limit, max(cfg.Burst, 1))
	targetRps.Set(float64(limit))
	return s
}

func (s *Service) RegisterService(server *grpc.Server) {
	wire.RegisterHubSyncServer(server, s)
}

// Limit reports whether a call must be rejected. It satisfies the
// go-grpc-middleware ratelimit.Limiter interface.
func (s *Service) Limit() bool {
	return !s.limiter.Allow()
}

// toStatus maps local errors to grpc codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, messages.ErrInvalidMessage):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, client.ErrUnknownPeer):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, syncengine.ErrNoDialer):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, syncengine.ErrMalformedPeerResponse), errors.Is(err, client.ErrTransport):
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func (s *Service) GetInfo(ctx context.Context, req *wire.InfoRequest) (*wire.HubInfo, error) {
	info, err := s.engine.Info(req.DBStats)
	if err != nil {
		ctxzap.Error(ctx, "failed to read hub info", zap.Error(err))
		return nil, toStatus(err)
	}
	out := &wire.HubInfo{
		Version:   info.Version,
		IsSyncing: info.IsSyncing,
		Nickname:  info.Nickname,
		RootHash:  info.RootHash.Hex(),
		PeerID:    info.PeerID.String(),
	}
	if req.DBStats {
		out.DBStats = wire.DBStats{
			NumMessages: uint64(info.NumMessages),
			ApproxSize:  uint64(max(info.ApproxSize, 0)),
		}
	}
	return out, nil
}

func (s *Service) GetSyncSnapshotByPrefix(ctx context.Context, req *wire.PrefixRequest) (*wire.SyncSnapshot, error) {
	return wire.NewSyncSnapshot(s.engine.Snapshot(req.Prefix)), nil
}

func (s *Service) GetSyncMetadataByPrefix(ctx context.Context, req *wire.PrefixRequest) (*wire.TrieNodeMetadata, error) {
	return wire.NewTrieNodeMetadata(s.engine.NodeMetadata(req.Prefix)), nil
}

func (s *Service) GetAllSyncIDsByPrefix(ctx context.Context, req *wire.PrefixRequest) (*wire.SyncIDs, error) {
	return wire.NewSyncIDs(s.engine.AllSyncIDs(req.Prefix)), nil
}

func (s *Service) GetAllMessagesBySyncIDs(ctx context.Context, req *wire.SyncIDs) (*wire.Messages, error) {
	ids, err := req.Parse()
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	msgs, err := s.engine.MessagesBySyncIDs(ids)
	if err != nil {
		ctxzap.Error(ctx, "failed to read messages", zap.Int("ids", len(ids)), zap.Error(err))
		return nil, toStatus(err)
	}
	out := &wire.Messages{Messages: make([]types.Message, len(msgs))}
	for i, msg := range msgs {
		out.Messages[i] = *msg
	}
	return out, nil
}

// GetSyncStatus compares with the requested peer, or with every known peer when
// none is named. A peer that cannot be reached is reported with an unknown
// InSync only in the second case.
func (s *Service) GetSyncStatus(ctx context.Context, req *wire.SyncStatusRequest) (*wire.SyncStatusResponse, error) {
	resp := &wire.SyncStatusResponse{
		IsSyncing:     s.engine.IsSyncing(),
		EngineStarted: s.engine.Started(),
	}
	if req.PeerID != "" {
		st, err := s.engine.ComputeSyncStatus(ctx, types.PeerID(req.PeerID))
		if err != nil {
			return nil, toStatus(err)
		}
		resp.Statuses = append(resp.Statuses, peerSyncStatus(st))
		return resp, nil
	}
	known := s.engine.KnownPeers()
	if len(known) > wire.MaxPeers {
		known = known[:wire.MaxPeers]
	}
	for _, peer := range known {
		st, err := s.engine.ComputeSyncStatus(ctx, peer)
		if err != nil {
			if ctx.Err() != nil {
				return nil, toStatus(ctx.Err())
			}
			ctxzap.Debug(ctx, "sync status unavailable", zap.Stringer("peer", peer), zap.Error(err))
			resp.Statuses = append(resp.Statuses, wire.PeerSyncStatus{PeerID: peer.String(), InSync: "unknown"})
			continue
		}
		resp.Statuses = append(resp.Statuses, peerSyncStatus(st))
	}
	return resp, nil
}

func unixMilli(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	return uint64(max(t.UnixMilli(), 0))
}

func peerSyncStatus(st syncengine.SyncStatus) wire.PeerSyncStatus {
	inSync := "false"
	if st.InSync {
		inSync = "true"
	}
	return wire.PeerSyncStatus{
		PeerID:               st.Peer.String(),
		InSync:               inSync,
		ShouldSync:           st.ShouldSync,
		DivergencePrefix:     st.DivergencePrefix,
		DivergenceSecondsAgo: uint64(max(st.DivergenceSecondsAgo, 0)),
		TheirMessages:        uint64(st.TheirMessages),
		OurMessages:          uint64(st.OurMessages),
		LastBadSync:          unixMilli(st.LastBadSync),
		LastSuccessSync:      unixMilli(st.LastSuccessSync),
	}
}

func (s *Service) SubmitMessage(ctx context.Context, msg *types.Message) (*wire.SubmitResponse, error) {
	res, err := s.store.Submit(ctx, messages.SourceRPC, msg)
	if err != nil {
		if !errors.Is(err, messages.ErrInvalidMessage) {
			ctxzap.Error(ctx, "failed to submit message", zap.Object("message", msg), zap.Error(err))
		}
		return nil, toStatus(err)
	}
	return &wire.SubmitResponse{Result: uint8(res)}, nil
}
