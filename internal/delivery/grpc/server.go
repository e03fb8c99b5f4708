package grpc

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/sirupsen/logrus"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// Server bundles the catalog service with the standard health and
// reflection services.
type Server struct {
	grpc   *gogrpc.Server
	health *health.Server
	log    *logrus.Logger
}

func NewServer(catalog CatalogServer, logger *logrus.Logger) *Server {
	s := &Server{
		grpc:   gogrpc.NewServer(gogrpc.ChainUnaryInterceptor(loggingInterceptor(logger))),
		health: health.NewServer(),
		log:    logger,
	}
	RegisterCatalogServer(s.grpc, catalog)
	healthpb.RegisterHealthServer(s.grpc, s.health)
	reflection.Register(s.grpc)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(CatalogServiceName, healthpb.HealthCheckResponse_SERVING)
	return s
}

// Serve blocks until the listener fails or Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Infof("gRPC server listening on %s", lis.Addr())
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, gogrpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Stop reports NOT_SERVING to health checkers and drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
	s.log.Info("gRPC server stopped.")
}

func loggingInterceptor(logger *logrus.Logger) gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.WithFields(logrus.Fields{
			"method":   info.FullMethod,
			"code":     status.Code(err).String(),
			"duration": time.Since(start).String(),
		}).Debug("gRPC request")
		return resp, err
	}
}
