// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const idempotencyKeysTable = "idempotency_keys"

// pgBuilder produces statements with "$n" placeholders.
var pgBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func buildFindIdempotencyKeyQuery(tenantID, key string) (string, []any, error) {
	return pgBuilder.
		Select("collection", "entity_id").
		From(idempotencyKeysTable).
		Where(sq.Eq{"tenant_id": tenantID, "key": key}).
		ToSql()
}

func buildInsertIdempotencyKeyQuery(tenantID, key, collection, entityID string) (string, []any, error) {
	return pgBuilder.
		Insert(idempotencyKeysTable).
		Columns("tenant_id", "key", "collection", "entity_id").
		Values(tenantID, key, collection, entityID).
		ToSql()
}

func buildPurgeIdempotencyKeysQuery(olderThan time.Time) (string, []any, error) {
	return pgBuilder.
		Delete(idempotencyKeysTable).
		Where(sq.Lt{"created_at": olderThan}).
		ToSql()
}

func buildInsertEntityQuery(tenantID, collection, id string, data []byte) (string, []any, error) {
	return pgBuilder.
		Insert(entitiesTable).
		Columns("tenant_id", "collection", "id", "data").
		Values(tenantID, collection, id, string(data)).
		Suffix("RETURNING data").
		ToSql()
}

// buildSelectEntityQuery reads one entity. Soft-deleted rows are only
// returned when includeDeleted is set, which is what idempotent replays of
// a create need.
func buildSelectEntityQuery(tenantID, collection, id string, includeDeleted bool) (string, []any, error) {
	where := sq.Eq{"tenant_id": tenantID, "collection": collection, "id": id}
	if !includeDeleted {
		where["deleted"] = false
	}

	return pgBuilder.
		Select("id", "data").
		From(entitiesTable).
		Where(where).
		ToSql()
}

func buildUpdateEntityQuery(tenantID, collection, id string, data []byte) (string, []any, error) {
	return pgBuilder.
		Update(entitiesTable).
		Set("data", string(data)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"tenant_id": tenantID, "collection": collection, "id": id, "deleted": false}).
		Suffix("RETURNING data").
		ToSql()
}

func buildDeleteEntityQuery(tenantID, collection, id string) (string, []any, error) {
	return pgBuilder.
		Update(entitiesTable).
		Set("deleted", true).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"tenant_id": tenantID, "collection": collection, "id": id, "deleted": false}).
		ToSql()
}
