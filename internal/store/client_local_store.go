// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/carehome-sync/internal/crypto"
	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/models"
)

// busyRetries bounds how often a write is repeated while another process
// holds the database lock beyond the driver's busy timeout.
const (
	busyRetries = 3
	busyBackoff = 50 * time.Millisecond
)

type localStore struct {
	*DB
	sealer crypto.Sealer
	logger *logger.Logger
	now    func() time.Time
}

// NewLocalStore returns a [LocalStore] over an already migrated SQLite
// database. Entity data and mutation payloads are passed through sealer.
func NewLocalStore(db *DB, sealer crypto.Sealer, log *logger.Logger) LocalStore {
	if sealer == nil {
		sealer = crypto.NewNopSealer()
	}
	return &localStore{
		DB:     db,
		sealer: sealer,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *localStore) Put(ctx context.Context, tenantID, collection string, entity models.CachedEntity) error {
	log := logger.FromContext(ctx)

	sealed, err := s.sealer.Seal(tenantID, entity.Data)
	if err != nil {
		return storageErr("seal entity", err)
	}

	fetchedAt := entity.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = s.now()
	}

	query, args, err := buildPutEntityQuery(tenantID, collection, entity.ID, sealed, toMillis(fetchedAt))
	if err != nil {
		return storageErr("put entity", errors.Join(ErrBuildingSQLQuery, err))
	}

	if err = s.exec(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "localStore.Put").
			Str("tenant", tenantID).
			Str("collection", collection).
			Str("id", entity.ID).
			Msg("failed to upsert cached entity")
		return storageErr("put entity", err)
	}

	return nil
}

func (s *localStore) Get(ctx context.Context, tenantID, collection, id string) (models.CachedEntity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetEntityQuery(tenantID, collection, id)
	if err != nil {
		return models.CachedEntity{}, storageErr("get entity", errors.Join(ErrBuildingSQLQuery, err))
	}

	var (
		sealed    []byte
		fetchedAt int64
		revision  int64
	)
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&sealed, &fetchedAt, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CachedEntity{}, ErrEntityNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "localStore.Get").
			Str("tenant", tenantID).
			Str("collection", collection).
			Str("id", id).
			Msg("failed to read cached entity")
		return models.CachedEntity{}, storageErr("get entity", err)
	}

	data, err := s.sealer.Open(tenantID, sealed)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.Get").
			Str("tenant", tenantID).
			Str("id", id).
			Msg("cached entity cannot be opened")
		return models.CachedEntity{}, storageErr("open entity", err)
	}

	return models.CachedEntity{
		ID:         id,
		TenantID:   tenantID,
		Collection: collection,
		Data:       data,
		FetchedAt:  fromMillis(fetchedAt),
		Revision:   revision,
	}, nil
}

func (s *localStore) Remove(ctx context.Context, tenantID, collection, id string) error {
	query, args, err := buildRemoveEntityQuery(tenantID, collection, id)
	if err != nil {
		return storageErr("remove entity", errors.Join(ErrBuildingSQLQuery, err))
	}

	if err = s.exec(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localStore.Remove").
			Str("tenant", tenantID).
			Str("collection", collection).
			Str("id", id).
			Msg("failed to remove cached entity")
		return storageErr("remove entity", err)
	}

	return nil
}

func (s *localStore) EnqueueMutation(ctx context.Context, m models.PendingMutation) (models.PendingMutation, error) {
	log := logger.FromContext(ctx)

	payload, err := s.sealPayload(m.TenantID, m.Payload)
	if err != nil {
		return models.PendingMutation{}, storageErr("seal payload", err)
	}

	query, args, err := buildInsertMutationQuery(m, payload)
	if err != nil {
		return models.PendingMutation{}, storageErr("enqueue mutation", errors.Join(ErrBuildingSQLQuery, err))
	}

	var res sql.Result
	err = s.withBusyRetry(ctx, func(ctx context.Context) error {
		var execErr error
		res, execErr = s.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "localStore.EnqueueMutation").
			Str("tenant", m.TenantID).
			Str("collection", m.Collection).
			Str("mutation_id", m.ID).
			Msg("failed to append mutation")
		return models.PendingMutation{}, storageErr("enqueue mutation", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return models.PendingMutation{}, storageErr("enqueue mutation", err)
	}

	m.Seq = seq
	m.Revision = 1
	return m, nil
}

func (s *localStore) ListPendingMutations(ctx context.Context, tenantID, collection string) ([]models.PendingMutation, error) {
	query, args, err := buildListMutationsQuery(tenantID, collection)
	if err != nil {
		return nil, storageErr("list mutations", errors.Join(ErrBuildingSQLQuery, err))
	}

	muts, err := s.queryMutations(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localStore.ListPendingMutations").
			Str("tenant", tenantID).
			Str("collection", collection).
			Msg("failed to list mutations")
		return nil, storageErr("list mutations", err)
	}

	return muts, nil
}

func (s *localStore) GetMutation(ctx context.Context, tenantID, id string) (models.PendingMutation, error) {
	query, args, err := buildGetMutationQuery(tenantID, id)
	if err != nil {
		return models.PendingMutation{}, storageErr("get mutation", errors.Join(ErrBuildingSQLQuery, err))
	}

	muts, err := s.queryMutations(ctx, query, args...)
	if err != nil {
		return models.PendingMutation{}, storageErr("get mutation", err)
	}
	if len(muts) == 0 {
		return models.PendingMutation{}, ErrMutationNotFound
	}

	return muts[0], nil
}

func (s *localStore) ClearMutations(ctx context.Context, tenantID, collection string) error {
	query, args, err := buildClearMutationsQuery(tenantID, collection)
	if err != nil {
		return storageErr("clear mutations", errors.Join(ErrBuildingSQLQuery, err))
	}

	if err = s.exec(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localStore.ClearMutations").
			Str("tenant", tenantID).
			Str("collection", collection).
			Msg("failed to clear mutations")
		return storageErr("clear mutations", err)
	}

	return nil
}

func (s *localStore) UpdateMutation(ctx context.Context, m models.PendingMutation) (models.PendingMutation, error) {
	payload, err := s.sealPayload(m.TenantID, m.Payload)
	if err != nil {
		return models.PendingMutation{}, storageErr("seal payload", err)
	}

	query, args, err := buildUpdateMutationQuery(m, payload)
	if err != nil {
		return models.PendingMutation{}, storageErr("update mutation", errors.Join(ErrBuildingSQLQuery, err))
	}

	affected, err := s.execAffected(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localStore.UpdateMutation").
			Str("tenant", m.TenantID).
			Str("mutation_id", m.ID).
			Msg("failed to update mutation")
		return models.PendingMutation{}, storageErr("update mutation", err)
	}
	if affected == 0 {
		return models.PendingMutation{}, ErrStaleRecord
	}

	m.Revision++
	return m, nil
}

func (s *localStore) DeleteMutations(ctx context.Context, tenantID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := buildDeleteMutationsQuery(tenantID, ids)
	if err != nil {
		return storageErr("delete mutations", errors.Join(ErrBuildingSQLQuery, err))
	}

	if err = s.exec(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localStore.DeleteMutations").
			Str("tenant", tenantID).
			Strs("mutation_ids", ids).
			Msg("failed to delete mutations")
		return storageErr("delete mutations", err)
	}

	return nil
}

func (s *localStore) CountPending(ctx context.Context, tenantID, collection string) (int, error) {
	return s.count(ctx, tenantID, collection, "")
}

func (s *localStore) CountFailed(ctx context.Context, tenantID, collection string) (int, error) {
	return s.count(ctx, tenantID, collection, models.MutationFailed)
}

func (s *localStore) count(ctx context.Context, tenantID, collection string, status models.MutationStatus) (int, error) {
	query, args, err := buildCountMutationsQuery(tenantID, collection, status)
	if err != nil {
		return 0, storageErr("count mutations", errors.Join(ErrBuildingSQLQuery, err))
	}

	var n int
	if err = s.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localStore.count").
			Str("tenant", tenantID).
			Str("collection", collection).
			Msg("failed to count mutations")
		return 0, storageErr("count mutations", err)
	}

	return n, nil
}

func (s *localStore) RetargetMutations(ctx context.Context, tenantID, collection, fromID, toID string) (int64, error) {
	query, args, err := buildRetargetMutationsQuery(tenantID, collection, fromID, toID)
	if err != nil {
		return 0, storageErr("retarget mutations", errors.Join(ErrBuildingSQLQuery, err))
	}

	n, err := s.execAffected(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localStore.RetargetMutations").
			Str("tenant", tenantID).
			Str("collection", collection).
			Str("target_id", fromID).
			Msg("failed to retarget mutations")
		return 0, storageErr("retarget mutations", err)
	}

	return n, nil
}

func (s *localStore) ResetFailed(ctx context.Context, tenantID, collection string) (int64, error) {
	query, args, err := buildResetStatusQuery(tenantID, collection, models.MutationFailed, true)
	if err != nil {
		return 0, storageErr("reset failed", errors.Join(ErrBuildingSQLQuery, err))
	}

	n, err := s.execAffected(ctx, query, args...)
	if err != nil {
		return 0, storageErr("reset failed", err)
	}

	return n, nil
}

func (s *localStore) RecoverInFlight(ctx context.Context, tenantID string) (int64, error) {
	query, args, err := buildResetStatusQuery(tenantID, "", models.MutationSyncing, false)
	if err != nil {
		return 0, storageErr("recover in-flight", errors.Join(ErrBuildingSQLQuery, err))
	}

	n, err := s.execAffected(ctx, query, args...)
	if err != nil {
		return 0, storageErr("recover in-flight", err)
	}

	return n, nil
}

func (s *localStore) DiscardMutation(ctx context.Context, tenantID, id string) error {
	query, args, err := buildDeleteMutationsQuery(tenantID, []string{id})
	if err != nil {
		return storageErr("discard mutation", errors.Join(ErrBuildingSQLQuery, err))
	}

	n, err := s.execAffected(ctx, query, args...)
	if err != nil {
		return storageErr("discard mutation", err)
	}
	if n == 0 {
		return ErrMutationNotFound
	}

	return nil
}

func (s *localStore) Close() error {
	return s.DB.Close()
}

func (s *localStore) queryMutations(ctx context.Context, query string, args ...any) ([]models.PendingMutation, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	var muts []models.PendingMutation
	for rows.Next() {
		var (
			m                       models.PendingMutation
			op, status              string
			payload                 []byte
			enqueuedAt, nextAttempt int64
		)
		if err = rows.Scan(
			&m.Seq,
			&m.ID,
			&m.TenantID,
			&m.Collection,
			&op,
			&m.TargetID,
			&payload,
			&m.IdempotencyKey,
			&enqueuedAt,
			&status,
			&m.Attempts,
			&nextAttempt,
			&m.LastError,
			&m.Revision,
		); err != nil {
			return nil, errors.Join(ErrScanningRow, err)
		}

		if m.Payload, err = s.openPayload(m.TenantID, payload); err != nil {
			return nil, err
		}
		m.Operation = models.Operation(op)
		m.SyncStatus = models.MutationStatus(status)
		m.EnqueuedAt = fromMillis(enqueuedAt)
		m.NextAttemptAt = fromMillis(nextAttempt)

		muts = append(muts, m)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Join(ErrScanningRow, err)
	}

	return muts, nil
}

func (s *localStore) exec(ctx context.Context, query string, args ...any) error {
	_, err := s.execAffected(ctx, query, args...)
	return err
}

func (s *localStore) execAffected(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	err := s.withBusyRetry(ctx, func(ctx context.Context) error {
		res, err := s.DB.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

// withBusyRetry repeats fn while the classifier reports lock contention.
func (s *localStore) withBusyRetry(ctx context.Context, fn func(context.Context) error) error {
	backoff := retry.WithMaxRetries(busyRetries, retry.NewConstant(busyBackoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && s.errorClassificator != nil && s.errorClassificator.Classify(err) == Retryable {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *localStore) sealPayload(tenantID string, payload []byte) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	return s.sealer.Seal(tenantID, payload)
}

func (s *localStore) openPayload(tenantID string, sealed []byte) ([]byte, error) {
	if sealed == nil {
		return nil, nil
	}
	data, err := s.sealer.Open(tenantID, sealed)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMilli(v).UTC()
}
