// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package status publishes the state of the sync engine to consumers.
//
// The [Publisher] owns the in-memory [models.SyncState]. Only the sync
// engine moves it between idle, syncing and error; consumers read snapshots
// or subscribe to transitions. Pending counts are never cached here and are
// always read from the local store.
package status

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/models"
)

// PendingCounter reads the live number of queued mutations.
type PendingCounter interface {
	CountPending(ctx context.Context, tenantID, collection string) (int, error)
}

// Listener receives every state transition.
type Listener func(models.SyncState)

type Publisher struct {
	counter  PendingCounter
	tenantID string
	now      func() time.Time

	mu        sync.RWMutex
	state     models.SyncState
	listeners map[int]Listener
	nextID    int

	logger *logger.Logger
}

// NewPublisher starts in the idle state.
func NewPublisher(counter PendingCounter, tenantID string, logger *logger.Logger) *Publisher {
	return &Publisher{
		counter:   counter,
		tenantID:  tenantID,
		now:       time.Now,
		state:     models.SyncState{Status: models.SyncIdle},
		listeners: make(map[int]Listener),
		logger:    logger,
	}
}

// GetStatus returns a snapshot of the current state.
func (p *Publisher) GetStatus() models.SyncState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Subscribe registers fn for every transition. The returned function
// removes it.
func (p *Publisher) Subscribe(fn Listener) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// GetPendingCount reads the live count for collection; an empty collection
// counts the whole tenant.
func (p *Publisher) GetPendingCount(ctx context.Context, collection string) (int, error) {
	return p.counter.CountPending(ctx, p.tenantID, collection)
}

// SetSyncing marks the start of a drain cycle.
func (p *Publisher) SetSyncing() {
	p.transition(func(s *models.SyncState) {
		s.Status = models.SyncSyncing
	})
}

// SetIdle marks a cycle that left no failed mutations.
func (p *Publisher) SetIdle() {
	p.transition(func(s *models.SyncState) {
		s.Status = models.SyncIdle
		s.LastError = ""
		s.Failed = 0
		s.LastSyncAt = p.now()
	})
}

// SetError marks a cycle that ended with failed mutations or a cycle-level
// error. msg carries the detail shown to the user.
func (p *Publisher) SetError(msg string, failed int) {
	p.transition(func(s *models.SyncState) {
		s.Status = models.SyncError
		s.LastError = msg
		s.Failed = failed
		s.LastSyncAt = p.now()
	})
}

func (p *Publisher) transition(apply func(*models.SyncState)) {
	p.mu.Lock()
	prev := p.state
	apply(&p.state)
	next := p.state

	listeners := make([]Listener, 0, len(p.listeners))
	for _, fn := range p.listeners {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	if prev.Status == next.Status && prev.LastError == next.LastError && prev.Failed == next.Failed {
		return
	}

	p.logger.Debug().
		Str("func", "Publisher.transition").
		Str("from", string(prev.Status)).
		Str("to", string(next.Status)).
		Int("failed", next.Failed).
		Msg("sync status changed")

	for _, fn := range listeners {
		fn(next)
	}
}
