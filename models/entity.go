// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// CachedEntity is the last known-good snapshot of a remote entity, or the
// optimistic local version of it while a mutation is pending.
type CachedEntity struct {
	ID         string          `json:"id"`
	TenantID   string          `json:"tenant_id"`
	Collection string          `json:"collection"`
	Data       json.RawMessage `json:"data"`
	FetchedAt  time.Time       `json:"fetched_at"`
	Revision   int64           `json:"revision"`
}

// Entity is the canonical representation returned by the remote API.
type Entity struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`

	// Replayed is set by the client when the server answered a CREATE
	// from its idempotency record instead of creating a new entity.
	Replayed bool `json:"-"`
}

// Collections known to the care-home platform. The sync layer accepts any
// non-empty collection name; these are the ones with typed clients.
const (
	CollectionCarePlans   = "carePlans"
	CollectionUpdates     = "updates"
	CollectionResidents   = "residents"
	CollectionMedications = "medications"
)

// EntityRequest is a write received by the remote API.
type EntityRequest struct {
	TenantID       string
	Collection     string
	ID             string
	IdempotencyKey string
	Data           json.RawMessage
}
