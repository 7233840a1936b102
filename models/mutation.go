// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// Operation is the kind of write a pending mutation carries.
type Operation string

const (
	OperationCreate Operation = "CREATE"
	OperationUpdate Operation = "UPDATE"
	OperationDelete Operation = "DELETE"
)

// Valid reports whether o is one of the known operations.
func (o Operation) Valid() bool {
	switch o {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// MutationStatus is the per-mutation sync state.
//
//	pending -> syncing -> (removed on success) | pending (retry) | failed
type MutationStatus string

const (
	MutationPending MutationStatus = "pending"
	MutationSyncing MutationStatus = "syncing"
	MutationFailed  MutationStatus = "failed"
)

// PendingMutation is a write made locally that the remote API has not yet
// acknowledged. Rows are owned by the local store; the sync engine only
// borrows them for the duration of one drain cycle.
type PendingMutation struct {
	// ID is a UUIDv7 generated at enqueue time.
	ID string `json:"id"`

	// Seq is assigned by the local store on insert and defines the
	// authoritative enqueue order.
	Seq int64 `json:"seq"`

	// TenantID scopes the mutation to a single care home.
	TenantID string `json:"tenant_id"`

	// Collection is the logical entity type (e.g. "carePlans").
	Collection string `json:"collection"`

	Operation Operation `json:"operation"`

	// TargetID identifies the entity. For a CREATE that has not been
	// acknowledged yet it holds the client-side local id.
	TargetID string `json:"target_id,omitempty"`

	// Payload is the write body. Nil for DELETE.
	Payload json.RawMessage `json:"payload,omitempty"`

	// IdempotencyKey is sent with the remote call so the server can drop
	// replays of a request whose response was lost.
	IdempotencyKey string `json:"idempotency_key"`

	EnqueuedAt time.Time      `json:"enqueued_at"`
	SyncStatus MutationStatus `json:"sync_status"`
	Attempts   int            `json:"attempts"`

	// NextAttemptAt gates retries after a retryable failure. Zero means due.
	NextAttemptAt time.Time `json:"next_attempt_at,omitempty"`

	// LastError keeps the detail of the last failed attempt.
	LastError string `json:"last_error,omitempty"`

	// Revision is bumped on every local update of the row and is used for
	// optimistic-concurrency checks between processes sharing the store.
	Revision int64 `json:"revision"`
}

// LaneKey returns the key of the FIFO lane the mutation belongs to.
func (m PendingMutation) LaneKey() LaneKey {
	return LaneKey{Collection: m.Collection, TargetID: m.TargetID}
}

// Due reports whether the mutation may be dispatched at now.
func (m PendingMutation) Due(now time.Time) bool {
	return m.NextAttemptAt.IsZero() || !m.NextAttemptAt.After(now)
}

// LaneKey identifies a per-entity FIFO lane.
type LaneKey struct {
	Collection string
	TargetID   string
}
