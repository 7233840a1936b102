// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/carehome-sync/internal/config"
	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/store"
)

type Services struct {
	EntityService  EntityService
	AppInfoService AppInfoService
	HealthService  HealthService
	Janitor        *IdempotencyJanitor
}

func NewServices(repositories *store.Repositories, cfg *config.ServerConfig, logger *logger.Logger) *Services {
	entityService := NewEntityValidationService().Wrap(
		NewEntityService(repositories.EntityRepository, logger),
	)

	return &Services{
		EntityService:  entityService,
		AppInfoService: NewAppInfoService(cfg.App, logger),
		HealthService:  repositories.EntityRepository,
		Janitor:        NewIdempotencyJanitor(repositories.EntityRepository, logger),
	}
}
