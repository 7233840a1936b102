// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/carehome-sync/models"
)

// CollectionClient is a [ClientEntityService] bound to one collection.
type CollectionClient struct {
	name    string
	service ClientEntityService
}

func (s *clientEntityService) Collection(name string) *CollectionClient {
	return &CollectionClient{name: name, service: s}
}

func (s *clientEntityService) CarePlans() *CollectionClient {
	return s.Collection(models.CollectionCarePlans)
}

func (s *clientEntityService) Updates() *CollectionClient {
	return s.Collection(models.CollectionUpdates)
}

func (s *clientEntityService) Residents() *CollectionClient {
	return s.Collection(models.CollectionResidents)
}

func (s *clientEntityService) Medications() *CollectionClient {
	return s.Collection(models.CollectionMedications)
}

func (c *CollectionClient) Name() string {
	return c.name
}

func (c *CollectionClient) Create(ctx context.Context, data json.RawMessage) (models.CachedEntity, error) {
	return c.service.CreateEntity(ctx, c.name, data)
}

func (c *CollectionClient) Get(ctx context.Context, id string) (models.CachedEntity, error) {
	return c.service.GetEntity(ctx, c.name, id)
}

func (c *CollectionClient) Update(ctx context.Context, id string, data json.RawMessage) (models.CachedEntity, error) {
	return c.service.UpdateEntity(ctx, c.name, id, data)
}

func (c *CollectionClient) Delete(ctx context.Context, id string) error {
	return c.service.DeleteEntity(ctx, c.name, id)
}

// PendingChanges counts queued mutations of this collection.
func (c *CollectionClient) PendingChanges(ctx context.Context) (int, error) {
	return c.service.GetPendingChangesCount(ctx, c.name)
}
