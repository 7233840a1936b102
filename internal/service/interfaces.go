// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/carehome-sync/models"
)

// EntityService is the reference server's entity store.
type EntityService interface {
	// Create stores a new entity. A request repeating an idempotency key
	// already used by the tenant returns the original entity and
	// replayed is true.
	Create(ctx context.Context, req models.EntityRequest) (entity models.Entity, replayed bool, err error)
	Get(ctx context.Context, tenantID, collection, id string) (models.Entity, error)
	// Update replaces the entity data; the last write wins.
	Update(ctx context.Context, req models.EntityRequest) (models.Entity, error)
	Delete(ctx context.Context, tenantID, collection, id string) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// HealthService reports whether the server can serve requests.
type HealthService interface {
	Ping(ctx context.Context) error
}

// EntityServiceWrapper defines middleware composition for EntityService.
// Implementations wrap an existing EntityService to add behavior such as
// logging or validating.
type EntityServiceWrapper interface {
	Wrap(EntityService) EntityService // returns a decorated EntityService applying additional behavior
}

// idFromData extracts a caller-chosen id from the entity body.
func idFromData(data json.RawMessage) string {
	var fields struct {
		ID json.RawMessage `json:"id"`
	}
	if json.Unmarshal(data, &fields) != nil || len(fields.ID) == 0 {
		return ""
	}

	var id string
	if json.Unmarshal(fields.ID, &id) != nil {
		return ""
	}
	return id
}
