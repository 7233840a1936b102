// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"net"
	"sync"

	"google.golang.org/grpc"

	"github.com/MKhiriev/carehome-sync/internal/config"
	myGRPC "github.com/MKhiriev/carehome-sync/internal/handler/grpc"
	"github.com/MKhiriev/carehome-sync/internal/logger"
)

type grpcServer struct {
	address string
	server  *grpc.Server

	mu   sync.Mutex
	addr net.Addr

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	srv := grpc.NewServer()
	handler.Register(srv)

	return &grpcServer{
		address: cfg.GRPCAddress,
		server:  srv,
		logger:  logger,
	}
}

func (g *grpcServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", g.address)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.addr = lis.Addr()
	g.mu.Unlock()

	g.logger.Info().Str("address", lis.Addr().String()).Msg("Launching GRPC server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- g.server.Serve(lis)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	g.logger.Info().Msg("GRPC server Shutdown")
	g.server.GracefulStop()
	return nil
}

func (g *grpcServer) Addr() net.Addr {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addr
}
