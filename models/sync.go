// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncStatus is the process-wide state of the sync engine.
type SyncStatus string

const (
	SyncIdle    SyncStatus = "idle"
	SyncSyncing SyncStatus = "syncing"
	SyncError   SyncStatus = "error"
)

// SyncState is a read-only snapshot of the engine state. It is derived and
// never persisted.
type SyncState struct {
	Status     SyncStatus `json:"status"`
	LastError  string     `json:"last_error,omitempty"`
	LastSyncAt time.Time  `json:"last_sync_at,omitempty"`

	// Failed is the number of mutations left in the failed state by the
	// last finished cycle.
	Failed int `json:"failed"`
}

// SyncResult summarises one drain cycle.
type SyncResult struct {
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	Remaining  []PendingMutation `json:"remaining"`
}

// PendingCount answers GET /local/sync/pending.
type PendingCount struct {
	Collection string `json:"collection,omitempty"`
	Count      int    `json:"count"`
}
