// Package grpc exposes the account and contact services over gRPC.
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/rpc"
	"github.com/dmitrijs2005/contactbook/internal/server/metrics"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
	"google.golang.org/grpc"
)

const maxRecvMsgSize = 8 << 20

var _ rpc.ContactBookServer = (*GRPCServer)(nil)

type GRPCServer struct {
	address  string
	logger   logging.Logger
	accounts *services.AccountService
	contacts *services.ContactService
	identity *services.IdentityResolver
	metrics  *metrics.Metrics
}

func NewGRPCServer(a string, l logging.Logger, as *services.AccountService, cs *services.ContactService,
	ir *services.IdentityResolver, m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		accounts: as,
		contacts: cs,
		identity: ir,
		metrics:  m,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor),
		grpc.MaxRecvMsgSize(maxRecvMsgSize),
	)
	rpc.RegisterContactBookServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}

	return nil
}
