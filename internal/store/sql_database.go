// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/migrations"
)

// DB wraps a *sql.DB together with the error classifier of its driver.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// MigrateClient applies the embedded local store schema.
func (db *DB) MigrateClient(ctx context.Context) error {
	return migrations.MigrateClient(ctx, db.DB)
}

// MigrateServer applies the embedded reference server schema.
func (db *DB) MigrateServer(ctx context.Context) error {
	return migrations.MigrateServer(ctx, db.DB)
}
