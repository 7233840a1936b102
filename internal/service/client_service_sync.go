// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/semaphore"

	"github.com/MKhiriev/carehome-sync/internal/adapter"
	"github.com/MKhiriev/carehome-sync/internal/config"
	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/queue"
	"github.com/MKhiriev/carehome-sync/internal/status"
	"github.com/MKhiriev/carehome-sync/internal/store"
	"github.com/MKhiriev/carehome-sync/internal/utils"
	"github.com/MKhiriev/carehome-sync/models"
)

// SyncSettings tunes the drain cycle.
type SyncSettings struct {
	Concurrency int
	MaxAttempts int
	BackoffBase time.Duration
	BackoffMax  time.Duration
	CallTimeout time.Duration
}

// NewSyncSettings maps the agent configuration.
func NewSyncSettings(cfg *config.ClientConfig) SyncSettings {
	return SyncSettings{
		Concurrency: cfg.Workers.Concurrency,
		MaxAttempts: cfg.Workers.MaxAttempts,
		BackoffBase: cfg.Workers.BackoffBase,
		BackoffMax:  cfg.Workers.BackoffMax,
		CallTimeout: cfg.Adapter.RequestTimeout,
	}
}

func (s SyncSettings) withDefaults() SyncSettings {
	if s.Concurrency <= 0 {
		s.Concurrency = config.DefaultConcurrency
	}
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = config.DefaultMaxAttempts
	}
	if s.BackoffBase <= 0 {
		s.BackoffBase = config.DefaultBackoffBase
	}
	if s.BackoffMax < s.BackoffBase {
		s.BackoffMax = max(s.BackoffBase, config.DefaultBackoffMax)
	}
	if s.CallTimeout <= 0 {
		s.CallTimeout = config.DefaultRequestTimeout
	}
	return s
}

type clientSyncService struct {
	store    store.LocalStore
	remote   adapter.RemoteAPI
	status   *status.Publisher
	tenantID string
	settings SyncSettings
	now      func() time.Time

	mu      sync.Mutex
	running bool
	rerun   bool
	cancel  context.CancelFunc

	logger *logger.Logger
}

// NewClientSyncService builds the sync engine for tenantID.
func NewClientSyncService(
	localStore store.LocalStore,
	remote adapter.RemoteAPI,
	publisher *status.Publisher,
	tenantID string,
	settings SyncSettings,
	logger *logger.Logger,
) ClientSyncService {
	return &clientSyncService{
		store:    localStore,
		remote:   remote,
		status:   publisher,
		tenantID: tenantID,
		settings: settings.withDefaults(),
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

func (s *clientSyncService) Drain(ctx context.Context, collection string) (models.SyncResult, error) {
	s.mu.Lock()
	if s.running {
		s.rerun = true
		s.mu.Unlock()
		return models.SyncResult{}, ErrDrainInProgress
	}
	s.running = true
	drainCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	defer cancel()

	var total models.SyncResult
	for {
		res, err := s.cycle(drainCtx, collection)
		total.Successful += res.Successful
		total.Failed += res.Failed
		total.Remaining = res.Remaining

		s.mu.Lock()
		again := s.rerun && err == nil && drainCtx.Err() == nil
		s.rerun = false
		if !again {
			s.running = false
			s.cancel = nil
			s.mu.Unlock()
			return total, err
		}
		s.mu.Unlock()

		// a request that arrived mid-cycle may concern any collection
		collection = ""
	}
}

func (s *clientSyncService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rerun = false
	if s.cancel != nil {
		s.cancel()
	}
}

// laneOutcome is what one lane contributed to a cycle.
type laneOutcome struct {
	successful int
	failed     int
	lastError  string
	err        error
}

func (s *clientSyncService) cycle(ctx context.Context, collection string) (models.SyncResult, error) {
	traceID := uuid.NewString()
	log := s.logger.GetChildLogger()
	log.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("trace_id", traceID).Str("tenant", s.tenantID)
	})
	ctx = utils.WithTraceID(log.WithContext(ctx), traceID)

	s.status.SetSyncing()

	muts, err := s.store.ListPendingMutations(ctx, s.tenantID, collection)
	if err != nil {
		log.Err(err).Str("func", "clientSyncService.cycle").Msg("failed to read pending mutations")
		s.finish(ctx, err.Error(), true)
		return models.SyncResult{}, fmt.Errorf("read pending mutations: %w", err)
	}

	now := s.now()
	sem := semaphore.NewWeighted(int64(s.settings.Concurrency))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		outcome laneOutcome
	)

	for _, lane := range queue.BuildLanes(muts) {
		plan := queue.Coalesce(lane, now)
		if len(plan.Cancel) == 0 && len(plan.Steps) == 0 {
			continue
		}

		if err = sem.Acquire(ctx, 1); err != nil {
			break
		}

		wg.Add(1)
		go func(plan queue.Plan) {
			defer wg.Done()
			defer sem.Release(1)

			out := s.runLane(ctx, plan)

			mu.Lock()
			outcome.successful += out.successful
			outcome.failed += out.failed
			if out.lastError != "" {
				outcome.lastError = out.lastError
			}
			if out.err != nil && outcome.err == nil {
				outcome.err = out.err
			}
			mu.Unlock()
		}(plan)
	}
	wg.Wait()

	// the cycle is over; what follows must be recorded even if cancelled
	recordCtx := context.WithoutCancel(ctx)

	result := models.SyncResult{Successful: outcome.successful, Failed: outcome.failed}
	if result.Remaining, err = s.store.ListPendingMutations(recordCtx, s.tenantID, collection); err != nil && outcome.err == nil {
		outcome.err = err
	}

	lastError := outcome.lastError
	if outcome.err != nil && lastError == "" {
		lastError = outcome.err.Error()
	}
	s.finish(recordCtx, lastError, outcome.err != nil || lastError != "")

	log.Info().
		Str("func", "clientSyncService.cycle").
		Str("collection", collection).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Int("remaining", len(result.Remaining)).
		Msg("drain cycle finished")

	if outcome.err != nil {
		return result, fmt.Errorf("drain cycle: %w", outcome.err)
	}
	return result, nil
}

// finish publishes the end state of a cycle. Failed rows left by any cycle
// keep the status in error until they are resolved.
func (s *clientSyncService) finish(ctx context.Context, lastError string, hadError bool) {
	failed, err := s.store.CountFailed(ctx, s.tenantID, "")
	if err != nil {
		s.status.SetError(err.Error(), 0)
		return
	}

	if !hadError && failed == 0 {
		s.status.SetIdle()
		return
	}

	if lastError == "" {
		lastError = s.status.GetStatus().LastError
	}
	if lastError == "" {
		lastError = fmt.Sprintf("%d mutation(s) failed to sync", failed)
	}
	s.status.SetError(lastError, failed)
}

func (s *clientSyncService) runLane(ctx context.Context, plan queue.Plan) laneOutcome {
	var out laneOutcome
	log := logger.FromContext(ctx)

	if len(plan.Cancel) > 0 {
		ids := make([]string, 0, len(plan.Cancel))
		for _, m := range plan.Cancel {
			ids = append(ids, m.ID)
		}
		if err := s.store.DeleteMutations(ctx, s.tenantID, ids...); err != nil {
			out.err = err
			return out
		}
		out.successful += len(ids)

		log.Debug().
			Str("func", "clientSyncService.runLane").
			Str("collection", plan.Key.Collection).
			Str("target_id", plan.Key.TargetID).
			Int("cancelled", len(ids)).
			Msg("create and delete cancelled locally")
	}

	steps := plan.Steps
	for i := range steps {
		if ctx.Err() != nil {
			return out
		}

		res := s.dispatch(ctx, steps[i], i == len(steps)-1 && plan.Blocked == nil)
		out.successful += res.successful
		out.failed += res.failed
		if res.lastError != "" {
			out.lastError = res.lastError
		}
		if res.err != nil {
			out.err = res.err
		}
		if !res.ok {
			return out
		}

		if res.retargetTo != "" {
			for j := i + 1; j < len(steps); j++ {
				if steps[j].Mutation.TargetID == steps[i].Mutation.TargetID {
					steps[j].Mutation.TargetID = res.retargetTo
					steps[j].Mutation.Revision++
				}
			}
		}
	}

	return out
}

type stepResult struct {
	laneOutcome
	ok         bool
	retargetTo string
}

// dispatch sends one step. last reports whether nothing else is queued
// behind it in this lane, in which case the cache takes the server
// representation; otherwise the optimistic local version is kept.
func (s *clientSyncService) dispatch(ctx context.Context, step queue.Step, last bool) stepResult {
	var res stepResult
	m := step.Mutation
	log := logger.FromContext(ctx).With().
		Str("collection", m.Collection).
		Str("mutation_id", m.ID).
		Str("target_id", m.TargetID).
		Str("operation", string(m.Operation)).
		Logger()

	if m.Attempts >= s.settings.MaxAttempts {
		return s.exhaust(context.WithoutCancel(ctx), m)
	}

	m.SyncStatus = models.MutationSyncing
	m.Attempts++
	claimed, err := s.store.UpdateMutation(ctx, m)
	if errors.Is(err, store.ErrStaleRecord) {
		log.Info().Str("func", "clientSyncService.dispatch").Msg("mutation changed by another writer, lane skipped")
		return res
	}
	if err != nil {
		res.err = err
		return res
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.settings.CallTimeout)
	defer cancel()

	entity, err := s.call(callCtx, claimed)
	recordCtx := context.WithoutCancel(ctx)

	if err != nil {
		return s.recordFailure(recordCtx, claimed, err)
	}

	if err = s.store.DeleteMutations(recordCtx, s.tenantID, step.IDs()...); err != nil {
		log.Err(err).Str("func", "clientSyncService.dispatch").Msg("remote call succeeded but the mutation could not be removed")
		res.err = err
		return res
	}

	res.ok = true
	res.successful = len(step.IDs())

	switch claimed.Operation {
	case models.OperationCreate:
		if entity.ID != claimed.TargetID {
			res.retargetTo = entity.ID
		}
		res.err = s.applyCreated(recordCtx, claimed, entity, last)
	case models.OperationUpdate:
		if last {
			res.err = s.cache(recordCtx, claimed.Collection, entity)
		}
	case models.OperationDelete:
		res.err = s.store.Remove(recordCtx, s.tenantID, claimed.Collection, claimed.TargetID)
	}

	log.Debug().
		Str("func", "clientSyncService.dispatch").
		Int("attempts", claimed.Attempts).
		Bool("replayed", entity.Replayed).
		Msg("mutation synced")

	return res
}

func (s *clientSyncService) call(ctx context.Context, m models.PendingMutation) (models.Entity, error) {
	switch m.Operation {
	case models.OperationCreate:
		return s.remote.Create(ctx, m.Collection, m.IdempotencyKey, m.Payload)
	case models.OperationUpdate:
		return s.remote.Update(ctx, m.Collection, m.TargetID, m.Payload)
	case models.OperationDelete:
		return models.Entity{ID: m.TargetID}, s.remote.Delete(ctx, m.Collection, m.TargetID)
	default:
		return models.Entity{}, fmt.Errorf("%w: unknown operation %q", adapter.ErrNonRetryable, m.Operation)
	}
}

// applyCreated moves later mutations and the cache entry from the local id
// to the id the server assigned.
func (s *clientSyncService) applyCreated(ctx context.Context, m models.PendingMutation, entity models.Entity, last bool) error {
	if entity.ID == m.TargetID {
		if last {
			return s.cache(ctx, m.Collection, entity)
		}
		return nil
	}

	if _, err := s.store.RetargetMutations(ctx, s.tenantID, m.Collection, m.TargetID, entity.ID); err != nil {
		return err
	}

	if !last {
		cached, err := s.store.Get(ctx, s.tenantID, m.Collection, m.TargetID)
		switch {
		case err == nil:
			entity.Data = cached.Data
		case !errors.Is(err, store.ErrEntityNotFound):
			return err
		}
	}

	if err := s.cache(ctx, m.Collection, entity); err != nil {
		return err
	}
	return s.store.Remove(ctx, s.tenantID, m.Collection, m.TargetID)
}

func (s *clientSyncService) cache(ctx context.Context, collection string, entity models.Entity) error {
	return s.store.Put(ctx, s.tenantID, collection, models.CachedEntity{
		ID:         entity.ID,
		TenantID:   s.tenantID,
		Collection: collection,
		Data:       entity.Data,
		FetchedAt:  s.now(),
	})
}

// recordFailure classifies a failed call. Retryable failures go back to
// pending behind a backoff gate until MaxAttempts is reached; everything
// else is failed at once with the server's detail.
func (s *clientSyncService) recordFailure(ctx context.Context, m models.PendingMutation, callErr error) stepResult {
	var res stepResult
	log := logger.FromContext(ctx)

	m.LastError = callErr.Error()
	m.NextAttemptAt = time.Time{}

	retryable := adapter.IsRetryable(callErr)
	switch {
	case retryable && m.Attempts < s.settings.MaxAttempts:
		m.SyncStatus = models.MutationPending
		m.NextAttemptAt = s.now().Add(backoffDelay(s.settings.BackoffBase, s.settings.BackoffMax, m.Attempts))
	default:
		m.SyncStatus = models.MutationFailed
		res.failed = 1
		// retryable failures stay out of the status until attempts run out
		res.lastError = m.LastError
	}

	event := log.Warn()
	if m.SyncStatus == models.MutationFailed {
		event = log.Error()
	}
	event.Err(callErr).
		Str("func", "clientSyncService.recordFailure").
		Str("collection", m.Collection).
		Str("mutation_id", m.ID).
		Str("target_id", m.TargetID).
		Int("attempts", m.Attempts).
		Bool("retryable", retryable).
		Str("sync_status", string(m.SyncStatus)).
		Msg("mutation sync failed")

	if _, err := s.store.UpdateMutation(ctx, m); err != nil {
		res.err = err
	}
	return res
}

// exhaust fails an entry that already used every attempt without another
// call. Such rows come back as pending when a crashed process left them in
// syncing.
func (s *clientSyncService) exhaust(ctx context.Context, m models.PendingMutation) stepResult {
	var res stepResult
	res.failed = 1

	m.SyncStatus = models.MutationFailed
	m.NextAttemptAt = time.Time{}
	if m.LastError == "" {
		m.LastError = fmt.Sprintf("gave up after %d attempts", m.Attempts)
	}
	res.lastError = m.LastError

	logger.FromContext(ctx).Error().
		Str("func", "clientSyncService.exhaust").
		Str("collection", m.Collection).
		Str("mutation_id", m.ID).
		Str("target_id", m.TargetID).
		Int("attempts", m.Attempts).
		Msg("mutation exhausted its attempts")

	if _, err := s.store.UpdateMutation(ctx, m); err != nil && !errors.Is(err, store.ErrStaleRecord) {
		res.err = err
	}
	return res
}

// backoffDelay is base × 2^(attempts-1), capped at maxDelay.
func backoffDelay(base, maxDelay time.Duration, attempts int) time.Duration {
	b := retry.WithCappedDuration(maxDelay, retry.NewExponential(base))

	delay := base
	for i := 0; i < attempts; i++ {
		next, stop := b.Next()
		if stop {
			break
		}
		delay = next
	}
	return delay
}
