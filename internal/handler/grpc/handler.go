// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package grpc exposes the reference server's health over the standard
// grpc.health.v1 service, which agents can probe instead of HTTP.
package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/service"
	"github.com/MKhiriev/carehome-sync/models"
)

const (
	defaultCheckInterval = 5 * time.Second
	pingTimeout          = 2 * time.Second
)

// Handler is the root gRPC transport handler. It mirrors the database
// health into the gRPC health service.
type Handler struct {
	services *service.Services
	health   *health.Server
	interval time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services: services,
		health:   health.NewServer(),
		interval: defaultCheckInterval,
		logger:   logger,
	}
}

// Register attaches the health service to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Run updates the serving status every interval until ctx is cancelled,
// then reports NOT_SERVING to every watcher.
func (h *Handler) Run(ctx context.Context) error {
	h.check(ctx)

	t := time.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return nil
		case <-t.C:
			h.check(ctx)
		}
	}
}

func (h *Handler) check(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING

	if h.services != nil && h.services.HealthService != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := h.services.HealthService.Ping(pingCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			h.logger.Err(err).Str("func", "*Handler.check").Msg("database ping failed")
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}

	// the empty name stands for the server as a whole
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(models.HealthServiceName, status)
}
