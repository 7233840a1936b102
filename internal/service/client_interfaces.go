// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/carehome-sync/internal/network"
	"github.com/MKhiriev/carehome-sync/internal/status"
	"github.com/MKhiriev/carehome-sync/models"
)

// ClientSyncService drains the pending-mutation log against the remote API.
type ClientSyncService interface {
	// Drain runs one drain cycle over collection ("" means every
	// collection). When a drain is already running the request is folded
	// into a re-run of that drain and ErrDrainInProgress is returned.
	//
	// Cancelling ctx stops dispatching new entries. Calls already in flight
	// run to completion and their outcome is recorded.
	Drain(ctx context.Context, collection string) (models.SyncResult, error)

	// Cancel stops the running drain, if any, the same way a cancelled
	// context does.
	Cancel()
}

// ClientSyncJob decides when to drain: on Trigger, on every offline→online
// edge and periodically while online.
type ClientSyncJob interface {
	// Start launches the background goroutine. A running job is stopped
	// first.
	Start(ctx context.Context)

	// Trigger requests a drain without blocking. Requests made while a
	// drain is pending are coalesced.
	Trigger()

	// Stop signals the goroutine to exit and waits for it.
	Stop()

	// Run starts the job and blocks until ctx is cancelled.
	Run(ctx context.Context) error
}

// ConnectivityMonitor is the part of [network.Monitor] the job relies on.
type ConnectivityMonitor interface {
	IsOnline() bool
	Subscribe() (<-chan network.Event, func())
}

// ClientEntityService is the consumer-facing contract of the agent. Writes
// are applied to the local store first and synchronised in the background;
// local persistence failures are returned synchronously, sync failures only
// show up in the sync status.
type ClientEntityService interface {
	// CreateEntity stores data optimistically and queues a CREATE. The id is
	// taken from data["id"] when present, otherwise a local id is generated.
	CreateEntity(ctx context.Context, collection string, data json.RawMessage) (models.CachedEntity, error)

	// UpdateEntity merges data into the cached entity and queues an UPDATE
	// carrying the full merged payload.
	UpdateEntity(ctx context.Context, collection, id string, data json.RawMessage) (models.CachedEntity, error)

	// DeleteEntity evicts the entity and queues a DELETE.
	DeleteEntity(ctx context.Context, collection, id string) error

	GetEntity(ctx context.Context, collection, id string) (models.CachedEntity, error)

	GetPendingChangesCount(ctx context.Context, collection string) (int, error)
	GetSyncStatus() models.SyncState
	SubscribeStatus(fn status.Listener) func()

	// ForceSync moves failed mutations back to pending and drains.
	ForceSync(ctx context.Context) (models.SyncResult, error)

	// DiscardMutation drops a queued mutation the caller gave up on.
	DiscardMutation(ctx context.Context, id string) error

	ListFailed(ctx context.Context, collection string) ([]models.PendingMutation, error)

	// Collection returns a client bound to one collection.
	Collection(name string) *CollectionClient
	CarePlans() *CollectionClient
	Updates() *CollectionClient
	Residents() *CollectionClient
	Medications() *CollectionClient
}
