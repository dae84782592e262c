// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/metrics"
	"github.com/MKhiriev/go-org-site/internal/service"
)

const defaultHealthInterval = 10 * time.Second

// Handler is the root gRPC transport handler.
//
// It serves the standard grpc.health.v1 service. The serving status follows
// [service.HealthService], which is polled by [Handler.WatchHealth].
type Handler struct {
	services *service.Services
	health   *health.Server

	healthInterval time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services:       services,
		health:         health.NewServer(),
		healthInterval: defaultHealthInterval,
		logger:         logger,
	}
}

// Register attaches the health and reflection services to srv and initialises
// the per-method Prometheus series.
func (h *Handler) Register(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, h.health)
	reflection.Register(srv)
	metrics.GRPCServer.InitializeMetrics(srv)
}

// ServerOptions returns the interceptor chain of the gRPC server.
func (h *Handler) ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			h.unaryLogging,
			metrics.GRPCServer.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			metrics.GRPCServer.StreamServerInterceptor(),
		),
	}
}

// WatchHealth refreshes the serving status until ctx is done, then marks
// every service NOT_SERVING so that clients drain before GracefulStop.
func (h *Handler) WatchHealth(ctx context.Context) {
	h.updateHealth(ctx)

	ticker := time.NewTicker(h.healthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return
		case <-ticker.C:
			h.updateHealth(ctx)
		}
	}
}

func (h *Handler) updateHealth(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.services.HealthService.Check(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		h.logger.Warn().Err(err).Msg("health check failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.health.SetServingStatus("", status)
}
