// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/utils"
	"github.com/MKhiriev/carehome-sync/models"
)

// entityRepository is the PostgreSQL-backed implementation of
// [EntityRepository]. Deletes are soft so that a replayed create can still
// answer with the entity its first request produced.
type entityRepository struct {
	*DB
	ids    *utils.UUIDGenerator
	logger *logger.Logger
}

// NewEntityRepository constructs an [EntityRepository] on db.
func NewEntityRepository(db *DB, logger *logger.Logger) EntityRepository {
	return &entityRepository{
		DB:     db,
		ids:    utils.NewUUIDGenerator(),
		logger: logger,
	}
}

// Create inserts the entity and binds idempotencyKey to it in one
// transaction. A key that is already bound short-circuits into a replay; two
// concurrent requests with the same key race on the key's primary key and
// the loser replays the winner's entity.
func (r *entityRepository) Create(ctx context.Context, tenantID, collection, idempotencyKey string, entity models.Entity) (models.Entity, bool, error) {
	log := logger.FromContext(ctx)

	if idempotencyKey != "" {
		stored, found, err := r.replay(ctx, tenantID, collection, idempotencyKey)
		if err != nil || found {
			return stored, found, err
		}
	}

	if entity.ID == "" {
		entity.ID = r.ids.Generate()
	}
	if len(entity.Data) == 0 {
		entity.Data = json.RawMessage(`{}`)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "entityRepository.Create").Msg("failed to begin transaction")
		return models.Entity{}, false, mapPostgresError("create entity", errors.Join(ErrBeginningTransaction, err), r.errorClassificator)
	}
	defer tx.Rollback()

	query, args, err := buildInsertEntityQuery(tenantID, collection, entity.ID, entity.Data)
	if err != nil {
		return models.Entity{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var data []byte
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&data); err != nil {
		log.Err(err).
			Str("func", "entityRepository.Create").
			Str("tenant", tenantID).
			Str("collection", collection).
			Str("id", entity.ID).
			Msg("failed to insert entity")
		return models.Entity{}, false, mapPostgresError("create entity", err, r.errorClassificator)
	}

	if idempotencyKey != "" {
		query, args, err = buildInsertIdempotencyKeyQuery(tenantID, idempotencyKey, collection, entity.ID)
		if err != nil {
			return models.Entity{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			if postgresError(err) == pgerrcode.UniqueViolation {
				tx.Rollback()
				log.Info().
					Str("func", "entityRepository.Create").
					Str("tenant", tenantID).
					Str("idempotency_key", idempotencyKey).
					Msg("lost idempotency race, replaying")
				stored, _, replayErr := r.replay(ctx, tenantID, collection, idempotencyKey)
				return stored, replayErr == nil, replayErr
			}
			log.Err(err).
				Str("func", "entityRepository.Create").
				Str("tenant", tenantID).
				Str("idempotency_key", idempotencyKey).
				Msg("failed to store idempotency key")
			return models.Entity{}, false, mapPostgresError("store idempotency key", err, r.errorClassificator)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "entityRepository.Create").Msg("failed to commit transaction")
		return models.Entity{}, false, mapPostgresError("create entity", errors.Join(ErrCommitingTransaction, err), r.errorClassificator)
	}

	return models.Entity{ID: entity.ID, Data: data}, false, nil
}

// replay looks up an idempotency key. found is false when the key is unused.
func (r *entityRepository) replay(ctx context.Context, tenantID, collection, key string) (models.Entity, bool, error) {
	query, args, err := buildFindIdempotencyKeyQuery(tenantID, key)
	if err != nil {
		return models.Entity{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var boundCollection, entityID string
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&boundCollection, &entityID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entity{}, false, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityRepository.replay").
			Str("tenant", tenantID).
			Str("idempotency_key", key).
			Msg("failed to look up idempotency key")
		return models.Entity{}, false, mapPostgresError("find idempotency key", err, r.errorClassificator)
	}

	if boundCollection != collection {
		return models.Entity{}, false, ErrIdempotencyKeyConflict
	}

	entity, err := r.get(ctx, tenantID, collection, entityID, true)
	if err != nil {
		return models.Entity{}, false, err
	}

	return entity, true, nil
}

func (r *entityRepository) Get(ctx context.Context, tenantID, collection, id string) (models.Entity, error) {
	return r.get(ctx, tenantID, collection, id, false)
}

func (r *entityRepository) get(ctx context.Context, tenantID, collection, id string, includeDeleted bool) (models.Entity, error) {
	query, args, err := buildSelectEntityQuery(tenantID, collection, id, includeDeleted)
	if err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		entity models.Entity
		data   []byte
	)
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&entity.ID, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entity{}, ErrEntityNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityRepository.get").
			Str("tenant", tenantID).
			Str("collection", collection).
			Str("id", id).
			Msg("failed to read entity")
		return models.Entity{}, mapPostgresError("get entity", err, r.errorClassificator)
	}
	entity.Data = data

	return entity, nil
}

func (r *entityRepository) Update(ctx context.Context, tenantID, collection string, entity models.Entity) (models.Entity, error) {
	query, args, err := buildUpdateEntityQuery(tenantID, collection, entity.ID, entity.Data)
	if err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var data []byte
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entity{}, ErrEntityNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityRepository.Update").
			Str("tenant", tenantID).
			Str("collection", collection).
			Str("id", entity.ID).
			Msg("failed to update entity")
		return models.Entity{}, mapPostgresError("update entity", err, r.errorClassificator)
	}

	return models.Entity{ID: entity.ID, Data: data}, nil
}

func (r *entityRepository) Delete(ctx context.Context, tenantID, collection, id string) error {
	query, args, err := buildDeleteEntityQuery(tenantID, collection, id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityRepository.Delete").
			Str("tenant", tenantID).
			Str("collection", collection).
			Str("id", id).
			Msg("failed to delete entity")
		return mapPostgresError("delete entity", err, r.errorClassificator)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return mapPostgresError("delete entity", err, r.errorClassificator)
	}
	if n == 0 {
		return ErrEntityNotFound
	}

	return nil
}

func (r *entityRepository) PurgeIdempotencyKeys(ctx context.Context, olderThan time.Time) (int64, error) {
	query, args, err := buildPurgeIdempotencyKeysQuery(olderThan)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityRepository.PurgeIdempotencyKeys").
			Time("older_than", olderThan).
			Msg("failed to purge idempotency keys")
		return 0, mapPostgresError("purge idempotency keys", err, r.errorClassificator)
	}

	return res.RowsAffected()
}

func (r *entityRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
