package api

import (
	"context"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const ServiceName = "staff_portal.Portal"

// Probe reports whether one backend is reachable.
type Probe func(ctx context.Context) error

type Server struct {
	grpc   *grpc.Server
	health *health.Server
	probes map[string]Probe
	logger *slog.Logger
}

// NewServer registers the standard health service; every service starts as
// NOT_SERVING until Refresh runs.
func NewServer(logger *slog.Logger, probes map[string]Probe) *Server {
	s := &Server{
		grpc:   grpc.NewServer(),
		health: health.NewServer(),
		probes: probes,
		logger: logger,
	}

	healthpb.RegisterHealthServer(s.grpc, s.health)
	reflection.Register(s.grpc)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return s
}

// Refresh runs every probe and publishes SERVING only if all succeed.
func (s *Server) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING

	for name, probe := range s.probes {
		if err := probe(ctx); err != nil {
			s.logger.Error("Health probe failed", slog.String("backend", name), slog.String("error", err.Error()))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)

	return status
}

func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC health server is starting", slog.String("address", lis.Addr().String()))
	return s.grpc.Serve(lis)
}

func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
