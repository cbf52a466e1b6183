package transport

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer exposes grpc.health.v1.Health for orchestrators.
type HealthServer struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	log        *slog.Logger
}

func NewHealthServer(log *slog.Logger, addr string) (*HealthServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	return &HealthServer{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		log:        log,
	}, nil
}

func (s *HealthServer) Addr() string {
	return s.listener.Addr().String()
}

// Serve blocks until ctx is done, then reports NOT_SERVING and stops.
func (s *HealthServer) Serve(ctx context.Context) error {
	s.log.Info(fmt.Sprintf("gRPC health listening at %v", s.listener.Addr()))
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		return ignoreStopped(<-serveErr)
	case err := <-serveErr:
		return ignoreStopped(err)
	}
}

func ignoreStopped(err error) error {
	if err == nil || goerrors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return fmt.Errorf("serve gRPC: %w", err)
}
