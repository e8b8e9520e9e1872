// Package grpc serves the standard gRPC health protocol so orchestrators can
// probe the service. Serving status follows the reachability of the store.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/staffbook/internal/dbx"
	"github.com/dmitrijs2005/staffbook/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported alongside the overall ("") status.
const ServiceName = "staffbook.Employees"

const (
	defaultProbeInterval = 10 * time.Second
	probeTimeout         = 2 * time.Second
)

type GRPCServer struct {
	address  string
	logger   logging.Logger
	store    dbx.Pinger
	health   *health.Server
	interval time.Duration
}

func NewGRPCServer(a string, l logging.Logger, store dbx.Pinger) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		store:    store,
		health:   health.NewServer(),
		interval: defaultProbeInterval,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.probe(ctx)
	go s.watchStore(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

func (s *GRPCServer) watchStore(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.probe(ctx)
		}
	}
}

// probe pings the store once and publishes the result.
func (s *GRPCServer) probe(ctx context.Context) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if dbx.ReadyState(ctx, s.store, probeTimeout) == dbx.StateConnected {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}
