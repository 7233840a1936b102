// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package queue implements the ordering contract of the pending-mutation
// log: mutations are appended through [Queue.Enqueue] and, at drain time,
// grouped into per-entity lanes and coalesced into a [Plan].
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/store"
	"github.com/MKhiriev/carehome-sync/internal/utils"
	"github.com/MKhiriev/carehome-sync/models"
)

// ErrInvalidMutation is returned by [Queue.Enqueue] for a malformed mutation.
var ErrInvalidMutation = errors.New("invalid mutation")

// Queue appends mutations to a [store.LocalStore].
type Queue struct {
	store store.LocalStore
	ids   *utils.UUIDGenerator
	now   func() time.Time
}

func New(st store.LocalStore) *Queue {
	return &Queue{
		store: st,
		ids:   utils.NewUUIDGenerator(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Enqueue assigns the mutation id, idempotency key and enqueue time, then
// appends it to the log. Persistence failures come back wrapped in
// [store.ErrStorageFailure].
func (q *Queue) Enqueue(ctx context.Context, tenantID, collection string, op models.Operation, targetID string, payload json.RawMessage) (models.PendingMutation, error) {
	if err := validate(collection, op, targetID, payload); err != nil {
		return models.PendingMutation{}, err
	}

	m := models.PendingMutation{
		ID:             q.ids.Generate(),
		TenantID:       tenantID,
		Collection:     collection,
		Operation:      op,
		TargetID:       targetID,
		Payload:        payload,
		IdempotencyKey: q.ids.Generate(),
		EnqueuedAt:     q.now(),
		SyncStatus:     models.MutationPending,
	}
	if op == models.OperationDelete {
		m.Payload = nil
	}

	stored, err := q.store.EnqueueMutation(ctx, m)
	if err != nil {
		return models.PendingMutation{}, err
	}

	logger.FromContext(ctx).Debug().
		Str("func", "Queue.Enqueue").
		Str("tenant", tenantID).
		Str("collection", collection).
		Str("mutation_id", stored.ID).
		Str("target_id", targetID).
		Str("operation", string(op)).
		Int64("seq", stored.Seq).
		Msg("mutation enqueued")

	return stored, nil
}

// Pending returns the live contents of the log in enqueue order.
func (q *Queue) Pending(ctx context.Context, tenantID, collection string) ([]models.PendingMutation, error) {
	return q.store.ListPendingMutations(ctx, tenantID, collection)
}

func validate(collection string, op models.Operation, targetID string, payload json.RawMessage) error {
	if collection == "" {
		return fmt.Errorf("%w: empty collection", ErrInvalidMutation)
	}
	if !op.Valid() {
		return fmt.Errorf("%w: unknown operation %q", ErrInvalidMutation, op)
	}
	if targetID == "" {
		return fmt.Errorf("%w: empty target id", ErrInvalidMutation)
	}
	if op != models.OperationDelete && len(payload) > 0 && !json.Valid(payload) {
		return fmt.Errorf("%w: payload is not valid JSON", ErrInvalidMutation)
	}
	return nil
}
