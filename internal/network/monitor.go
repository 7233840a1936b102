// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package network

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/carehome-sync/internal/logger"
)

const (
	defaultProbeInterval = 5 * time.Second
	subscriberBuffer     = 8
)

// Monitor holds the current connectivity state. The zero state is offline
// until the first probe completes, so a reachable API at startup produces an
// EventOnline.
type Monitor struct {
	prober   Prober
	interval time.Duration

	online atomic.Bool

	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int

	logger *logger.Logger
}

// NewMonitor creates a monitor that probes every interval. A nil prober is
// allowed: the state is then driven only by SetOnline.
func NewMonitor(prober Prober, interval time.Duration, logger *logger.Logger) *Monitor {
	if interval <= 0 {
		interval = defaultProbeInterval
	}

	return &Monitor{
		prober:   prober,
		interval: interval,
		subs:     make(map[int]chan Event),
		logger:   logger,
	}
}

// IsOnline reports the last observed state.
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// SetOnline records a new state and notifies subscribers when it differs
// from the previous one. The swap and the broadcast happen under one lock so
// concurrent callers deliver edges in the order the state changed.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.online.Swap(online) == online {
		return
	}

	event := EventOffline
	if online {
		event = EventOnline
	}

	m.logger.Info().
		Str("func", "Monitor.SetOnline").
		Stringer("event", event).
		Msg("connectivity changed")

	m.broadcastLocked(event)
}

// Subscribe registers a listener. The returned function unsubscribes and
// closes the channel; it is safe to call more than once.
func (m *Monitor) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = ch
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
			close(ch)
		})
	}
}

// broadcastLocked must be called with m.mu held.
func (m *Monitor) broadcastLocked(event Event) {
	for _, ch := range m.subs {
		select {
		case ch <- event:
		default:
			m.logger.Warn().
				Str("func", "Monitor.broadcastLocked").
				Stringer("event", event).
				Msg("subscriber is not keeping up, event dropped")
		}
	}
}

// Run probes immediately and then every interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	if m.prober == nil {
		<-ctx.Done()
		return nil
	}

	m.probe(ctx)

	t := time.NewTicker(m.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			m.probe(ctx)
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	err := m.prober.Probe(probeCtx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		m.logger.Debug().Err(err).Str("func", "Monitor.probe").Msg("remote api unreachable")
	}

	m.SetOnline(err == nil)
}
