// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/carehome-sync/internal/app"
	"github.com/MKhiriev/carehome-sync/internal/config"
	"github.com/MKhiriev/carehome-sync/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type httpServer struct {
	server *http.Server

	mu   sync.Mutex
	addr net.Addr

	logger *logger.Logger
}

func newHTTPServer(handler http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	if cfg.RequestTimeout > 0 {
		handler = http.TimeoutHandler(handler, cfg.RequestTimeout, app.MsgRequestTimedOut)
	}

	return &httpServer{
		server: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           handler,
			ReadHeaderTimeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then drains open requests.
func (h *httpServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.addr = lis.Addr()
	h.mu.Unlock()

	h.logger.Info().Str("address", lis.Addr().String()).Msg("Launching HTTP server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.server.Serve(lis)
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	h.logger.Info().Msg("HTTP server Shutdown")
	return h.server.Shutdown(shutdownCtx)
}

// Addr is the bound address once Run has started listening.
func (h *httpServer) Addr() net.Addr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.addr
}
