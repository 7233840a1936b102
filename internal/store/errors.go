// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the local store and the server repository.
// Callers should use [errors.Is] to match against these values.
var (
	// ErrStorageFailure wraps every error raised by the local persistence
	// layer: the database is unavailable, full or corrupted. It is always
	// surfaced to the caller and never swallowed.
	ErrStorageFailure = errors.New("local storage failure")

	// ErrEntityNotFound is returned when a cached or remote entity does not
	// exist for the given tenant, collection and id.
	ErrEntityNotFound = errors.New("entity was not found")

	// ErrMutationNotFound is returned when a pending mutation addressed by id
	// does not exist.
	ErrMutationNotFound = errors.New("pending mutation was not found")

	// ErrStaleRecord is returned when an optimistic-concurrency check fails:
	// another writer changed or removed the mutation row since it was read.
	ErrStaleRecord = errors.New("mutation row was changed by another writer")

	// ErrEntityConflict is returned by the server repository when a create
	// carries an id that already exists.
	ErrEntityConflict = errors.New("entity already exists")

	// ErrTransientStorage is returned by the server repository when the
	// database failed in a way that may succeed on retry.
	ErrTransientStorage = errors.New("transient storage error")

	// ErrIdempotencyKeyConflict is returned by the server repository when an
	// idempotency key is already bound to a different collection.
	ErrIdempotencyKeyConflict = errors.New("idempotency key already used for another collection")
)

// Low-level database operation errors wrapped by repository methods.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrScanningRow          = errors.New("failed to scan row")
)

// storageErr wraps err with [ErrStorageFailure] and the failed operation.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}
