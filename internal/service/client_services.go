// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/carehome-sync/internal/adapter"
	"github.com/MKhiriev/carehome-sync/internal/config"
	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/status"
	"github.com/MKhiriev/carehome-sync/internal/store"
)

type ClientServices struct {
	Status        *status.Publisher
	SyncService   ClientSyncService
	SyncJob       ClientSyncJob
	EntityService ClientEntityService
}

func NewClientServices(
	storages *store.ClientStorages,
	remote adapter.RemoteAPI,
	monitor ConnectivityMonitor,
	cfg *config.ClientConfig,
	logger *logger.Logger,
) *ClientServices {
	tenantID := cfg.App.TenantID

	publisher := status.NewPublisher(storages.LocalStore, tenantID, logger)
	syncSvc := NewClientSyncService(storages.LocalStore, remote, publisher, tenantID, NewSyncSettings(cfg), logger)
	syncJob := NewClientSyncJob(syncSvc, monitor, cfg.Workers.SyncInterval, logger)

	return &ClientServices{
		Status:        publisher,
		SyncService:   syncSvc,
		SyncJob:       syncJob,
		EntityService: NewClientEntityService(storages.LocalStore, publisher, syncSvc, syncJob, tenantID, logger),
	}
}
