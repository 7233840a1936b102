// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/carehome-sync/internal/adapter"
	"github.com/MKhiriev/carehome-sync/internal/config"
	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/network"
	"github.com/MKhiriev/carehome-sync/internal/service"
	"github.com/MKhiriev/carehome-sync/internal/store"
	"github.com/MKhiriev/carehome-sync/internal/workers"
	"github.com/MKhiriev/carehome-sync/models"
)

var _ Client = (*App)(nil)

// App is the sync agent: local store, connectivity monitor, sync job and
// the loopback API, run together until a shutdown signal.
type App struct {
	tenantID string
	storages *store.ClientStorages
	services *service.ClientServices
	monitor  *network.Monitor
	api      *API
	closers  []io.Closer

	logger *logger.Logger
}

func NewApp(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	remote, err := adapter.NewHTTPRemoteAPI(cfg.Adapter, cfg.App, logger)
	if err != nil {
		storages.LocalStore.Close()
		return nil, fmt.Errorf("create remote adapter: %w", err)
	}

	prober, err := newProber(cfg.Adapter)
	if err != nil {
		storages.LocalStore.Close()
		return nil, fmt.Errorf("create connectivity prober: %w", err)
	}

	closers := []io.Closer{storages.LocalStore}
	if c, ok := prober.(io.Closer); ok {
		closers = append(closers, c)
	}

	monitor := network.NewMonitor(prober, cfg.Workers.ProbeInterval, logger)
	services := service.NewClientServices(storages, remote, monitor, cfg, logger)

	return &App{
		tenantID: cfg.App.TenantID,
		storages: storages,
		services: services,
		monitor:  monitor,
		api:      NewAPI(services.EntityService, cfg.API.ListenAddress, logger),
		closers:  closers,
		logger:   logger,
	}, nil
}

// newProber prefers the gRPC health service when an address for it is
// configured and falls back to the HTTP health endpoint.
func newProber(cfg config.ClientAdapter) (network.Prober, error) {
	if cfg.GRPCAddress != "" {
		return network.NewGRPCProber(cfg.GRPCAddress, models.HealthServiceName)
	}
	return network.NewHTTPProber(cfg.HTTPAddress, cfg.RequestTimeout)
}

// Run implements [Client].
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	defer a.close()

	released, err := a.storages.LocalStore.RecoverInFlight(ctx, a.tenantID)
	if err != nil {
		return fmt.Errorf("recover in-flight mutations: %w", err)
	}
	if released > 0 {
		a.logger.Warn().Int64("released", released).Msg("mutations left in flight by a previous run are pending again")
	}

	a.logger.Info().Str("tenant", a.tenantID).Msg("sync agent started")

	err = workers.New(a.logger).
		Add("network-monitor", a.monitor).
		Add("sync-job", a.services.SyncJob).
		Add("local-api", a.api).
		Run(ctx)

	a.logger.Info().Msg("sync agent stopped")
	return err
}

func (a *App) close() {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Err(err).Str("func", "*App.close").Msg("error closing agent resources")
	}
}
