// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification indicates whether a failed database operation should
// be retried or abandoned.
type ErrorClassification int

const (
	// NonRetryable is the default for unrecognised errors, constraint
	// violations, syntax errors and data exceptions.
	NonRetryable ErrorClassification = iota

	// Retryable marks failures that may succeed if attempted again, such as
	// a lost connection or a deadlock rollback.
	Retryable
)

// PostgresErrorClassifier implements [ErrorClassificator] for PostgreSQL
// errors surfaced by the pgx driver.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Besides server error codes it
// treats a broken connection and an expired deadline as retryable.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return Retryable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ClassifyPgError(pgErr)
	}

	return NonRetryable
}

// ClassifyPgError maps a PostgreSQL error code to an [ErrorClassification].
// Connection exceptions (class 08), transaction rollbacks (class 40) and
// "cannot connect now" (57P03) are retryable; everything else is not.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	switch {
	case pgerrcode.IsConnectionException(pgErr.Code),
		pgerrcode.IsTransactionRollback(pgErr.Code),
		pgErr.Code == pgerrcode.CannotConnectNow,
		pgErr.Code == pgerrcode.AdminShutdown:
		return Retryable
	}

	return NonRetryable
}

// mapPostgresError translates a driver error into the repository's error
// taxonomy so the HTTP layer can choose a status code.
func mapPostgresError(op string, err error, classifier ErrorClassificator) error {
	if postgresError(err) == pgerrcode.UniqueViolation {
		return fmt.Errorf("%s: %w: %w", op, ErrEntityConflict, err)
	}

	if classifier != nil && classifier.Classify(err) == Retryable {
		return fmt.Errorf("%s: %w: %w", op, ErrTransientStorage, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
