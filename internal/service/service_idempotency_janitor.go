// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/store"
)

const (
	defaultKeyRetention  = 7 * 24 * time.Hour
	defaultPurgeInterval = time.Hour
)

// IdempotencyJanitor removes idempotency keys older than the retention
// window. An agent that retries a create after the window gets a fresh
// entity, so the window must exceed the agent's longest backoff.
type IdempotencyJanitor struct {
	repo      store.EntityRepository
	retention time.Duration
	interval  time.Duration
	now       func() time.Time

	logger *logger.Logger
}

func NewIdempotencyJanitor(repo store.EntityRepository, logger *logger.Logger) *IdempotencyJanitor {
	return &IdempotencyJanitor{
		repo:      repo,
		retention: defaultKeyRetention,
		interval:  defaultPurgeInterval,
		now:       time.Now,
		logger:    logger,
	}
}

// Run purges once at start and then every interval until ctx is cancelled.
func (j *IdempotencyJanitor) Run(ctx context.Context) error {
	j.purge(ctx)

	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			j.purge(ctx)
		}
	}
}

func (j *IdempotencyJanitor) purge(ctx context.Context) {
	n, err := j.repo.PurgeIdempotencyKeys(ctx, j.now().Add(-j.retention))
	if err != nil {
		if ctx.Err() == nil {
			j.logger.Err(err).Str("func", "IdempotencyJanitor.purge").Msg("failed to purge idempotency keys")
		}
		return
	}

	if n > 0 {
		j.logger.Info().Str("func", "IdempotencyJanitor.purge").Int64("purged", n).Msg("expired idempotency keys removed")
	}
}
