// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/carehome-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// LocalStore is the agent's durable, tenant-scoped persistence layer. It owns
// the entity cache and the pending-mutation log.
//
// Every error other than [ErrEntityNotFound], [ErrMutationNotFound] and
// [ErrStaleRecord] is wrapped in [ErrStorageFailure].
type LocalStore interface {
	// Put upserts a cached entity. Repeating the same Put is harmless.
	Put(ctx context.Context, tenantID, collection string, entity models.CachedEntity) error
	// Get returns [ErrEntityNotFound] when nothing is cached under id.
	Get(ctx context.Context, tenantID, collection, id string) (models.CachedEntity, error)
	Remove(ctx context.Context, tenantID, collection, id string) error

	// EnqueueMutation appends m to the log and returns it with Seq and
	// Revision assigned.
	EnqueueMutation(ctx context.Context, mutation models.PendingMutation) (models.PendingMutation, error)
	// ListPendingMutations returns pending, syncing and failed entries in
	// enqueue order. An empty collection means all collections.
	ListPendingMutations(ctx context.Context, tenantID, collection string) ([]models.PendingMutation, error)
	GetMutation(ctx context.Context, tenantID, id string) (models.PendingMutation, error)
	ClearMutations(ctx context.Context, tenantID, collection string) error

	// UpdateMutation writes m if the stored revision still equals
	// m.Revision, and returns m with the new revision.
	UpdateMutation(ctx context.Context, mutation models.PendingMutation) (models.PendingMutation, error)
	DeleteMutations(ctx context.Context, tenantID string, ids ...string) error
	CountPending(ctx context.Context, tenantID, collection string) (int, error)
	CountFailed(ctx context.Context, tenantID, collection string) (int, error)
	// RetargetMutations points every mutation addressed to fromID at toID.
	RetargetMutations(ctx context.Context, tenantID, collection, fromID, toID string) (int64, error)
	// ResetFailed moves failed entries back to pending with zero attempts.
	// LastError is kept; it marks the entries as already sent once.
	ResetFailed(ctx context.Context, tenantID, collection string) (int64, error)
	// RecoverInFlight releases entries left in syncing by a process that
	// stopped mid-dispatch.
	RecoverInFlight(ctx context.Context, tenantID string) (int64, error)
	DiscardMutation(ctx context.Context, tenantID, id string) error

	Close() error
}

// EntityRepository is the reference server's PostgreSQL repository.
type EntityRepository interface {
	// Create stores a new entity. When idempotencyKey was already used by
	// the tenant, the entity created by the first request is returned and
	// replayed is true.
	Create(ctx context.Context, tenantID, collection, idempotencyKey string, entity models.Entity) (stored models.Entity, replayed bool, err error)
	Get(ctx context.Context, tenantID, collection, id string) (models.Entity, error)
	// Update replaces the entity data. Last write wins.
	Update(ctx context.Context, tenantID, collection string, entity models.Entity) (models.Entity, error)
	// Delete returns [ErrEntityNotFound] if nothing was deleted.
	Delete(ctx context.Context, tenantID, collection, id string) error
	// PurgeIdempotencyKeys removes keys older than the cutoff.
	PurgeIdempotencyKeys(ctx context.Context, olderThan time.Time) (int64, error)
	Ping(ctx context.Context) error
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
