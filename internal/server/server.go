// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/carehome-sync/internal/config"
	"github.com/MKhiriev/carehome-sync/internal/handler"
	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/service"
	"github.com/MKhiriev/carehome-sync/internal/workers"
)

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer
	workers    *workers.Workers
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, services *service.Services, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	s := &server{
		workers: workers.New(logger),
		logger:  logger,
	}

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		s.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
		s.workers.Add("http", s.httpServer)
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		s.gRPCServer = newGRPCServer(handlers.GRPC, cfg, logger)
		s.workers.Add("grpc", s.gRPCServer)
		s.workers.Add("grpc-health", handlers.GRPC)
	}

	if s.httpServer == nil && s.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	if services != nil && services.Janitor != nil {
		s.workers.Add("idempotency-janitor", services.Janitor)
	}

	return s, nil
}

func (s *server) RunServer() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	return s.run(ctx)
}

func (s *server) run(ctx context.Context) error {
	if err := s.workers.Run(ctx); err != nil {
		return err
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}
