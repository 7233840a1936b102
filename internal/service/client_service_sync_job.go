// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/network"
)

type clientSyncJob struct {
	syncService ClientSyncService
	monitor     ConnectivityMonitor
	interval    time.Duration
	trigger     chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewClientSyncJob creates a job that drains through syncService whenever
// monitor reports the remote API reachable. The job is idle until Start is
// called. If interval is zero or negative it defaults to 30 seconds.
func NewClientSyncJob(syncService ClientSyncService, monitor ConnectivityMonitor, interval time.Duration, logger *logger.Logger) ClientSyncJob {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &clientSyncJob{
		syncService: syncService,
		monitor:     monitor,
		interval:    interval,
		trigger:     make(chan struct{}, 1),
		logger:      logger,
	}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a goroutine that drains on triggers, on reconnection and on every
// tick while online. Going offline cancels a running drain. The goroutine
// exits when ctx is cancelled or Stop is called.
func (j *clientSyncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(2)
	j.mu.Unlock()

	events, unsubscribe := j.monitor.Subscribe()

	go func() {
		defer j.wg.Done()
		defer unsubscribe()

		t := time.NewTicker(j.interval)
		defer t.Stop()

		if j.monitor.IsOnline() {
			j.drain(jobCtx, "startup")
		}

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-j.trigger:
				if j.monitor.IsOnline() {
					j.drain(jobCtx, "trigger")
				}
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev == network.EventOnline {
					j.drain(jobCtx, "reconnect")
				}
			case <-t.C:
				if j.monitor.IsOnline() {
					j.drain(jobCtx, "interval")
				}
			}
		}
	}()

	go func() {
		defer j.wg.Done()
		j.watchOffline(jobCtx)
	}()
}

// watchOffline cancels a running drain as soon as connectivity is lost.
// The main loop is busy while a drain runs, so this needs its own
// subscription.
func (j *clientSyncJob) watchOffline(ctx context.Context) {
	events, unsubscribe := j.monitor.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev == network.EventOffline {
				j.syncService.Cancel()
			}
		}
	}
}

// Trigger implements ClientSyncJob.
func (j *clientSyncJob) Trigger() {
	select {
	case j.trigger <- struct{}{}:
	default:
	}
}

// Stop implements ClientSyncJob. It cancels the background goroutines' context
// and blocks until both the drain loop and the offline watcher have exited.
// Safe to call when the job is not running (no-op in that case).
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// Run implements ClientSyncJob.
func (j *clientSyncJob) Run(ctx context.Context) error {
	j.Start(ctx)
	<-ctx.Done()
	j.Stop()
	return nil
}

func (j *clientSyncJob) drain(ctx context.Context, reason string) {
	_, err := j.syncService.Drain(ctx, "")
	if err != nil && !errors.Is(err, ErrDrainInProgress) && ctx.Err() == nil {
		j.logger.Err(err).
			Str("func", "clientSyncJob.drain").
			Str("reason", reason).
			Msg("drain failed")
	}
}
