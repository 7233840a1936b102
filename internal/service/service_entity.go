// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/store"
	"github.com/MKhiriev/carehome-sync/internal/utils"
	"github.com/MKhiriev/carehome-sync/models"
)

type entityService struct {
	entityRepository store.EntityRepository

	logger *logger.Logger
}

func NewEntityService(entityRepository store.EntityRepository, logger *logger.Logger) EntityService {
	return &entityService{
		entityRepository: entityRepository,
		logger:           logger,
	}
}

// Create keeps an id chosen by the caller. Ids minted offline by an agent
// are never stored; the repository assigns a server id instead.
func (e *entityService) Create(ctx context.Context, req models.EntityRequest) (models.Entity, bool, error) {
	id := req.ID
	if id == "" {
		id = idFromData(req.Data)
	}
	if utils.IsLocalID(id) {
		id = ""
	}

	return e.entityRepository.Create(ctx, req.TenantID, req.Collection, req.IdempotencyKey, models.Entity{ID: id, Data: req.Data})
}

func (e *entityService) Get(ctx context.Context, tenantID, collection, id string) (models.Entity, error) {
	return e.entityRepository.Get(ctx, tenantID, collection, id)
}

func (e *entityService) Update(ctx context.Context, req models.EntityRequest) (models.Entity, error) {
	return e.entityRepository.Update(ctx, req.TenantID, req.Collection, models.Entity{ID: req.ID, Data: req.Data})
}

func (e *entityService) Delete(ctx context.Context, tenantID, collection, id string) error {
	return e.entityRepository.Delete(ctx, tenantID, collection, id)
}
