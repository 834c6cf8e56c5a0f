// Package grpcserver serves HubSyncService to remote hubs.
package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"github.com/grpc-ecosystem/go-grpc-middleware/ratelimit"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpc_ctxtags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// ServiceAPI is a grpc service registered on a Server.
type ServiceAPI interface {
	RegisterService(*grpc.Server)
}

// Server wraps the grpc server and its listener.
type Server struct {
	listener string
	logger   *zap.Logger
	cfg      Config
	grp      errgroup.Group

	GrpcServer *grpc.Server
	boundAddr  net.Addr
}

// ServerOptions are shared by all grpc servers.
var ServerOptions = []grpc.ServerOption{
	// keep idle peers connected behind load balancers that drop quiet connections
	grpc.KeepaliveParams(keepalive.ServerParameters{
		MaxConnectionIdle:     2 * time.Hour,
		MaxConnectionAge:      3 * time.Hour,
		MaxConnectionAgeGrace: 10 * time.Minute,
		Time:                  time.Minute,
		Timeout:               3 * time.Minute,
	}),
	grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
		MinTime:             10 * time.Second,
		PermitWithoutStream: true,
	}),
}

// codeToLevel logs expected peer mistakes below warn.
func codeToLevel(code codes.Code) zapcore.Level {
	switch code {
	case codes.OK, codes.Canceled, codes.NotFound, codes.InvalidArgument, codes.ResourceExhausted:
		return zapcore.DebugLevel
	}
	return grpc_zap.DefaultCodeToLevel(code)
}

func recoveryHandler(logger *zap.Logger) grpc_recovery.RecoveryHandlerFuncContext {
	return func(ctx context.Context, p any) error {
		logger.Error("panic while serving request", zap.Any("panic", p), zap.Stack("stack"))
		return status.Errorf(codes.Internal, "internal error")
	}
}

// New creates a Server listening on cfg.Listener with the given services.
// Calls are logged, recovered from panics, and rate limited through limiter.
func New(cfg Config, logger *zap.Logger, limiter ratelimit.Limiter, svcs []ServiceAPI, opts ...grpc.ServerOption) *Server {
	logOpts := []grpc_zap.Option{grpc_zap.WithLevels(codeToLevel)}
	unary := []grpc.UnaryServerInterceptor{
		grpc_ctxtags.UnaryServerInterceptor(),
		grpc_zap.UnaryServerInterceptor(logger, logOpts...),
		grpc_recovery.UnaryServerInterceptor(grpc_recovery.WithRecoveryHandlerContext(recoveryHandler(logger))),
	}
	stream := []grpc.StreamServerInterceptor{
		grpc_ctxtags.StreamServerInterceptor(),
		grpc_zap.StreamServerInterceptor(logger, logOpts...),
		grpc_recovery.StreamServerInterceptor(grpc_recovery.WithRecoveryHandlerContext(recoveryHandler(logger))),
	}
	if limiter != nil {
		unary = append(unary, ratelimit.UnaryServerInterceptor(limiter))
		stream = append(stream, ratelimit.StreamServerInterceptor(limiter))
	}
	unary = append(unary, metricsUnaryInterceptor)

	opts = append(opts, ServerOptions...)
	opts = append(opts,
		grpc.ChainUnaryInterceptor(unary...),
		grpc.ChainStreamInterceptor(stream...),
	)
	if cfg.MaxMessageSize > 0 {
		opts = append(opts,
			grpc.MaxRecvMsgSize(cfg.MaxMessageSize),
			grpc.MaxSendMsgSize(cfg.MaxMessageSize),
		)
	}
	server := &Server{
		listener:   cfg.Listener,
		logger:     logger,
		cfg:        cfg,
		GrpcServer: grpc.NewServer(opts...),
	}
	for _, svc := range svcs {
		svc.RegisterService(server.GrpcServer)
	}
	reflection.Register(server.GrpcServer)
	return server
}

func metricsUnaryInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	requests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
	latency.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
	return resp, err
}

// Start listens and serves in the background.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.listener)
	if err != nil {
		s.logger.Error("start listen server", zap.Error(err))
		return fmt.Errorf("listen %s: %w", s.listener, err)
	}
	s.Serve(lis)
	return nil
}

// Serve serves on lis in the background.
func (s *Server) Serve(lis net.Listener) {
	s.boundAddr = lis.Addr()
	s.logger.Info("starting sync grpc server", zap.Stringer("address", lis.Addr()))
	s.grp.Go(func() error {
		if err := s.GrpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.logger.Error("serving grpc server", zap.Error(err))
			return err
		}
		return nil
	})
}

// BoundAddress returns the address the server listens on, once started.
func (s *Server) BoundAddress() string {
	if s.boundAddr == nil {
		return ""
	}
	return s.boundAddr.String()
}

// Close stops the server. Running calls get GracefulShutdown to complete.
func (s *Server) Close() error {
	s.logger.Info("stopping sync grpc server")
	stopped := make(chan struct{})
	go func() {
		s.GrpcServer.GracefulStop()
		close(stopped)
	}()
	timeout := s.cfg.GracefulShutdown
	if timeout <= 0 {
		timeout = time.Nanosecond
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-stopped:
	case <-timer.C:
		s.logger.Warn("graceful shutdown timed out, stopping server")
		s.GrpcServer.Stop()
	}
	return s.grp.Wait()
}
