// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/carehome-sync/internal/config"
	"github.com/MKhiriev/carehome-sync/internal/crypto"
	"github.com/MKhiriev/carehome-sync/internal/logger"
)

// ClientStorages groups the agent's storage layer.
type ClientStorages struct {
	LocalStore LocalStore
}

// NewClientStorages opens the SQLite database at cfg.Storage.DB.DSN, applies
// the local schema and returns a [LocalStore] that seals payloads when an
// encryption key is configured.
func NewClientStorages(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Msg("creating local storage...")

	sealer := crypto.NewNopSealer()
	if cfg.App.EncryptionKey != "" {
		s, err := crypto.NewSealer(cfg.App.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("sealer init error: %w", err)
		}
		sealer = s
	} else {
		log.Warn().Msg("no encryption key configured, local payloads are stored in plain text")
	}

	db, err := NewConnectSQLite(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.MigrateClient(ctx); err != nil {
		db.Close()
		return nil, storageErr("migrate local store", err)
	}

	return &ClientStorages{
		LocalStore: NewLocalStore(db, sealer, log),
	}, nil
}
