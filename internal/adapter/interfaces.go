// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the agent's client for the remote care-home API.
//
// [RemoteAPI] decouples the sync engine from the transport. Failures are
// classified into [ErrRetryable] and [ErrNonRetryable] so the engine can
// decide between backoff and surfacing the error; [ErrTimeout] is a
// retryable failure.
package adapter

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/carehome-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RemoteAPI issues the remote calls of a drain cycle. All calls are scoped to
// the tenant the implementation was built for.
type RemoteAPI interface {
	// Create sends POST /api/{tenant}/{collection}. idempotencyKey lets the
	// server answer a replayed request with the entity it already created.
	Create(ctx context.Context, collection, idempotencyKey string, payload json.RawMessage) (models.Entity, error)

	// Update sends PUT /api/{tenant}/{collection}/{id} with the full payload.
	Update(ctx context.Context, collection, id string, payload json.RawMessage) (models.Entity, error)

	// Delete sends DELETE /api/{tenant}/{collection}/{id}. An entity that is
	// already gone counts as deleted.
	Delete(ctx context.Context, collection, id string) error

	// Health sends GET /api/health.
	Health(ctx context.Context) error
}
