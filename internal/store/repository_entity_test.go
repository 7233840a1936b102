// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/models"
)

var (
	findKeySQL      = regexp.QuoteMeta(`SELECT collection, entity_id FROM idempotency_keys`)
	insertKeySQL    = regexp.QuoteMeta(`INSERT INTO idempotency_keys`)
	insertEntitySQL = regexp.QuoteMeta(`INSERT INTO entities`)
	selectEntitySQL = regexp.QuoteMeta(`SELECT id, data FROM entities`)
	updateEntitySQL = regexp.QuoteMeta(`UPDATE entities SET data = $1`)
	deleteEntitySQL = regexp.QuoteMeta(`UPDATE entities SET deleted = $1`)
	purgeKeysSQL    = regexp.QuoteMeta(`DELETE FROM idempotency_keys WHERE created_at < $1`)
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newDBFromSQL(db *sql.DB) *DB {
	return &DB{
		DB:                 db,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             logger.Nop(),
	}
}

func newTestRepo(t *testing.T) (EntityRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	return NewEntityRepository(newDBFromSQL(db), logger.Nop()), mock
}

func noKeyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"collection", "entity_id"})
}

// ── Create ───────────────────────────────────────────────────────────────────

func TestEntityRepository_Create_NoKey(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertEntitySQL).
		WithArgs("home-1", "carePlans", "1", `{"a":1}`).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"a":1}`)))
	mock.ExpectCommit()

	got, replayed, err := repo.Create(testContext(), "home-1", "carePlans", "", models.Entity{ID: "1", Data: json.RawMessage(`{"a":1}`)})
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, "1", got.ID)
	assert.JSONEq(t, `{"a":1}`, string(got.Data))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Create_GeneratesID(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertEntitySQL).
		WithArgs("home-1", "carePlans", sqlmock.AnyArg(), `{}`).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{}`)))
	mock.ExpectCommit()

	got, _, err := repo.Create(testContext(), "home-1", "carePlans", "", models.Entity{})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Create_BindsKey(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(findKeySQL).WillReturnRows(noKeyRows())
	mock.ExpectBegin()
	mock.ExpectQuery(insertEntitySQL).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{}`)))
	mock.ExpectExec(insertKeySQL).
		WithArgs("home-1", "key-1", "carePlans", "1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, replayed, err := repo.Create(testContext(), "home-1", "carePlans", "key-1", models.Entity{ID: "1", Data: json.RawMessage(`{}`)})
	require.NoError(t, err)
	assert.False(t, replayed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Create_Replay(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(findKeySQL).
		WillReturnRows(noKeyRows().AddRow("carePlans", "srv-1"))
	mock.ExpectQuery(selectEntitySQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).AddRow("srv-1", []byte(`{"status":"ACTIVE"}`)))

	got, replayed, err := repo.Create(testContext(), "home-1", "carePlans", "key-1", models.Entity{Data: json.RawMessage(`{"status":"ACTIVE"}`)})
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, "srv-1", got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Create_KeyBoundToOtherCollection(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(findKeySQL).
		WillReturnRows(noKeyRows().AddRow("updates", "srv-1"))

	_, _, err := repo.Create(testContext(), "home-1", "carePlans", "key-1", models.Entity{})
	assert.ErrorIs(t, err, ErrIdempotencyKeyConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Create_LostKeyRace(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(findKeySQL).WillReturnRows(noKeyRows())
	mock.ExpectBegin()
	mock.ExpectQuery(insertEntitySQL).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{}`)))
	mock.ExpectExec(insertKeySQL).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	mock.ExpectRollback()
	mock.ExpectQuery(findKeySQL).
		WillReturnRows(noKeyRows().AddRow("carePlans", "winner"))
	mock.ExpectQuery(selectEntitySQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).AddRow("winner", []byte(`{}`)))

	got, replayed, err := repo.Create(testContext(), "home-1", "carePlans", "key-1", models.Entity{ID: "loser"})
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, "winner", got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Create_Errors(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "duplicate id", dbErr: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, wantErr: ErrEntityConflict},
		{name: "serialization failure", dbErr: &pgconn.PgError{Code: pgerrcode.SerializationFailure}, wantErr: ErrTransientStorage},
		{name: "connection failure", dbErr: &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, wantErr: ErrTransientStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRepo(t)

			mock.ExpectBegin()
			mock.ExpectQuery(insertEntitySQL).WillReturnError(tt.dbErr)
			mock.ExpectRollback()

			_, _, err := repo.Create(testContext(), "home-1", "carePlans", "", models.Entity{ID: "1"})
			assert.ErrorIs(t, err, tt.wantErr)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEntityRepository_Create_BeginFails(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("boom"))

	_, _, err := repo.Create(testContext(), "home-1", "carePlans", "", models.Entity{ID: "1"})
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

// ── Get / Update / Delete ────────────────────────────────────────────────────

func TestEntityRepository_Get(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(selectEntitySQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).AddRow("1", []byte(`{"a":1}`)))
	mock.ExpectQuery(selectEntitySQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}))

	got, err := repo.Get(testContext(), "home-1", "carePlans", "1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got.Data))

	_, err = repo.Get(testContext(), "home-1", "carePlans", "2")
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestEntityRepository_Update(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(updateEntitySQL).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"b":2}`)))
	mock.ExpectQuery(updateEntitySQL).
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	got, err := repo.Update(testContext(), "home-1", "carePlans", models.Entity{ID: "1", Data: json.RawMessage(`{"b":2}`)})
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
	assert.JSONEq(t, `{"b":2}`, string(got.Data))

	_, err = repo.Update(testContext(), "home-1", "carePlans", models.Entity{ID: "missing"})
	assert.ErrorIs(t, err, ErrEntityNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Delete(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(deleteEntitySQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteEntitySQL).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(deleteEntitySQL).WillReturnError(&pgconn.PgError{Code: pgerrcode.DeadlockDetected})

	require.NoError(t, repo.Delete(testContext(), "home-1", "carePlans", "1"))
	assert.ErrorIs(t, repo.Delete(testContext(), "home-1", "carePlans", "1"), ErrEntityNotFound)
	assert.ErrorIs(t, repo.Delete(testContext(), "home-1", "carePlans", "1"), ErrTransientStorage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_PurgeIdempotencyKeys(t *testing.T) {
	repo, mock := newTestRepo(t)
	cutoff := time.Now().Add(-24 * time.Hour)

	mock.ExpectExec(purgeKeysSQL).WithArgs(cutoff).WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.PurgeIdempotencyKeys(testContext(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

// ── error classification ─────────────────────────────────────────────────────

func TestPostgresErrorClassifier_Classify(t *testing.T) {
	c := NewPostgresErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "nil", err: nil, want: NonRetryable},
		{name: "plain error", err: errors.New("x"), want: NonRetryable},
		{name: "unique violation", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: NonRetryable},
		{name: "syntax error", err: &pgconn.PgError{Code: pgerrcode.SyntaxError}, want: NonRetryable},
		{name: "connection failure", err: &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, want: Retryable},
		{name: "deadlock", err: &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, want: Retryable},
		{name: "cannot connect now", err: &pgconn.PgError{Code: pgerrcode.CannotConnectNow}, want: Retryable},
		{name: "wrapped serialization failure", err: errors.Join(errors.New("ctx"), &pgconn.PgError{Code: pgerrcode.SerializationFailure}), want: Retryable},
		{name: "bad conn", err: driverErrBadConn(), want: Retryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

func TestSQLiteErrorClassifier_Classify(t *testing.T) {
	c := NewSQLiteErrorClassifier()
	assert.Equal(t, NonRetryable, c.Classify(errors.New("x")))
	assert.Equal(t, NonRetryable, c.Classify(nil))
}

func driverErrBadConn() error {
	return fmt.Errorf("exec: %w", driver.ErrBadConn)
}
