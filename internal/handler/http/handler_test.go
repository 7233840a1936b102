// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/service"
	"github.com/MKhiriev/carehome-sync/internal/store"
	"github.com/MKhiriev/carehome-sync/models"
)

// memoryEntityService keeps entities in a map and deduplicates creates by
// idempotency key.
type memoryEntityService struct {
	mu       sync.Mutex
	entities map[string]models.Entity
	keys     map[string]string
	nextID   int
	failWith error
}

func newMemoryEntityService() *memoryEntityService {
	return &memoryEntityService{
		entities: make(map[string]models.Entity),
		keys:     make(map[string]string),
	}
}

func entityKey(tenant, collection, id string) string {
	return tenant + "/" + collection + "/" + id
}

func (m *memoryEntityService) Create(_ context.Context, req models.EntityRequest) (models.Entity, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return models.Entity{}, false, m.failWith
	}
	if req.IdempotencyKey != "" {
		if key, ok := m.keys[req.TenantID+"/"+req.IdempotencyKey]; ok {
			return m.entities[key], true, nil
		}
	}

	m.nextID++
	e := models.Entity{ID: fmt.Sprintf("srv-%d", m.nextID), Data: req.Data}
	key := entityKey(req.TenantID, req.Collection, e.ID)
	m.entities[key] = e
	if req.IdempotencyKey != "" {
		m.keys[req.TenantID+"/"+req.IdempotencyKey] = key
	}
	return e, false, nil
}

func (m *memoryEntityService) Get(_ context.Context, tenant, collection, id string) (models.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entities[entityKey(tenant, collection, id)]
	if !ok {
		return models.Entity{}, store.ErrEntityNotFound
	}
	return e, nil
}

func (m *memoryEntityService) Update(_ context.Context, req models.EntityRequest) (models.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return models.Entity{}, m.failWith
	}
	key := entityKey(req.TenantID, req.Collection, req.ID)
	if _, ok := m.entities[key]; !ok {
		return models.Entity{}, store.ErrEntityNotFound
	}
	e := models.Entity{ID: req.ID, Data: req.Data}
	m.entities[key] = e
	return e, nil
}

func (m *memoryEntityService) Delete(_ context.Context, tenant, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := entityKey(tenant, collection, id)
	if _, ok := m.entities[key]; !ok {
		return store.ErrEntityNotFound
	}
	delete(m.entities, key)
	return nil
}

type stubAppInfoService struct {
	version string
}

func (s *stubAppInfoService) GetAppVersion(context.Context) string {
	return s.version
}

type stubHealthService struct {
	err error
}

func (s *stubHealthService) Ping(context.Context) error {
	return s.err
}

func newTestHandler(entities service.EntityService, hashKey string) *Handler {
	return NewHandler(&service.Services{
		EntityService:  entities,
		AppInfoService: &stubAppInfoService{version: "1.2.3"},
		HealthService:  &stubHealthService{},
	}, hashKey, logger.Nop())
}

func decodeAPIError(body []byte) models.APIError {
	var apiErr models.APIError
	_ = json.Unmarshal(body, &apiErr)
	return apiErr
}

var errDatabaseDown = errors.New("database down")
