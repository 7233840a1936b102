// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/carehome-sync/internal/config"
	"github.com/MKhiriev/carehome-sync/internal/logger"
)

// Repositories groups the reference server's storage layer.
type Repositories struct {
	EntityRepository EntityRepository

	db *DB
}

// NewRepositories connects to PostgreSQL, applies the server schema and
// builds the repositories on top of it.
func NewRepositories(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Repositories, error) {
	log.Info().Msg("creating new repositories...")

	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = db.MigrateServer(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Repositories{
		EntityRepository: NewEntityRepository(db, log),
		db:               db,
	}, nil
}

// Close releases the database pool.
func (r *Repositories) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
