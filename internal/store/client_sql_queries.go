// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/carehome-sync/models"
)

const (
	entitiesTable  = "entities"
	mutationsTable = "mutations"
)

// sqliteBuilder produces statements with "?" placeholders.
var sqliteBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var mutationColumns = []string{
	"seq",
	"id",
	"tenant_id",
	"collection",
	"operation",
	"target_id",
	"payload",
	"idempotency_key",
	"enqueued_at",
	"sync_status",
	"attempts",
	"next_attempt_at",
	"last_error",
	"revision",
}

func buildPutEntityQuery(tenantID, collection, id string, data []byte, fetchedAt int64) (string, []any, error) {
	return sqliteBuilder.
		Insert(entitiesTable).
		Columns("tenant_id", "collection", "id", "data", "fetched_at", "revision").
		Values(tenantID, collection, id, data, fetchedAt, 1).
		Suffix(`ON CONFLICT (tenant_id, collection, id) DO UPDATE SET
			data = excluded.data,
			fetched_at = excluded.fetched_at,
			revision = entities.revision + 1`).
		ToSql()
}

func buildGetEntityQuery(tenantID, collection, id string) (string, []any, error) {
	return sqliteBuilder.
		Select("data", "fetched_at", "revision").
		From(entitiesTable).
		Where(sq.Eq{"tenant_id": tenantID, "collection": collection, "id": id}).
		ToSql()
}

func buildRemoveEntityQuery(tenantID, collection, id string) (string, []any, error) {
	return sqliteBuilder.
		Delete(entitiesTable).
		Where(sq.Eq{"tenant_id": tenantID, "collection": collection, "id": id}).
		ToSql()
}

func buildInsertMutationQuery(m models.PendingMutation, payload []byte) (string, []any, error) {
	return sqliteBuilder.
		Insert(mutationsTable).
		Columns(mutationColumns[1:]...).
		Values(
			m.ID,
			m.TenantID,
			m.Collection,
			string(m.Operation),
			m.TargetID,
			payload,
			m.IdempotencyKey,
			toMillis(m.EnqueuedAt),
			string(m.SyncStatus),
			m.Attempts,
			toMillis(m.NextAttemptAt),
			m.LastError,
			1,
		).
		ToSql()
}

// scope restricts a statement to a tenant and, unless empty, a collection.
func scope(tenantID, collection string) sq.Eq {
	where := sq.Eq{"tenant_id": tenantID}
	if collection != "" {
		where["collection"] = collection
	}
	return where
}

func buildListMutationsQuery(tenantID, collection string) (string, []any, error) {
	return sqliteBuilder.
		Select(mutationColumns...).
		From(mutationsTable).
		Where(scope(tenantID, collection)).
		OrderBy("seq ASC").
		ToSql()
}

func buildGetMutationQuery(tenantID, id string) (string, []any, error) {
	return sqliteBuilder.
		Select(mutationColumns...).
		From(mutationsTable).
		Where(sq.Eq{"tenant_id": tenantID, "id": id}).
		ToSql()
}

func buildClearMutationsQuery(tenantID, collection string) (string, []any, error) {
	return sqliteBuilder.
		Delete(mutationsTable).
		Where(scope(tenantID, collection)).
		ToSql()
}

func buildUpdateMutationQuery(m models.PendingMutation, payload []byte) (string, []any, error) {
	return sqliteBuilder.
		Update(mutationsTable).
		Set("target_id", m.TargetID).
		Set("payload", payload).
		Set("sync_status", string(m.SyncStatus)).
		Set("attempts", m.Attempts).
		Set("next_attempt_at", toMillis(m.NextAttemptAt)).
		Set("last_error", m.LastError).
		Set("revision", sq.Expr("revision + 1")).
		Where(sq.Eq{"tenant_id": m.TenantID, "id": m.ID, "revision": m.Revision}).
		ToSql()
}

func buildDeleteMutationsQuery(tenantID string, ids []string) (string, []any, error) {
	return sqliteBuilder.
		Delete(mutationsTable).
		Where(sq.Eq{"tenant_id": tenantID, "id": ids}).
		ToSql()
}

func buildCountMutationsQuery(tenantID, collection string, status models.MutationStatus) (string, []any, error) {
	where := scope(tenantID, collection)
	if status != "" {
		where["sync_status"] = string(status)
	}

	return sqliteBuilder.
		Select("COUNT(*)").
		From(mutationsTable).
		Where(where).
		ToSql()
}

func buildRetargetMutationsQuery(tenantID, collection, fromID, toID string) (string, []any, error) {
	return sqliteBuilder.
		Update(mutationsTable).
		Set("target_id", toID).
		Set("revision", sq.Expr("revision + 1")).
		Where(sq.Eq{"tenant_id": tenantID, "collection": collection, "target_id": fromID}).
		ToSql()
}

func buildResetStatusQuery(tenantID, collection string, from models.MutationStatus, resetAttempts bool) (string, []any, error) {
	where := scope(tenantID, collection)
	where["sync_status"] = string(from)

	b := sqliteBuilder.
		Update(mutationsTable).
		Set("sync_status", string(models.MutationPending)).
		Set("next_attempt_at", 0).
		Set("revision", sq.Expr("revision + 1")).
		Where(where)
	if resetAttempts {
		b = b.Set("attempts", 0)
	}

	return b.ToSql()
}
