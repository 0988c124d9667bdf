// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/logger"
)

// ClientStorages groups the client-side repositories.
type ClientStorages struct {
	// EntryCache holds the bundles last fetched from the server.
	EntryCache EntryCache

	db *DB
}

// NewClientStorages opens the sqlite cache at cfg.Cache.DSN and migrates it.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating client storages...")

	db, err := NewConnectSQLite(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		EntryCache: NewEntryCache(db, logger),
		db:         db,
	}, nil
}

// Close closes the sqlite cache database.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}
