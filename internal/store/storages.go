// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/logger"
)

// Storages groups the server repositories around one Postgres connection.
type Storages struct {
	// UserRepository stores accounts and their verifier bundles.
	UserRepository  UserRepository
	// EntryRepository stores opaque vault entries.
	EntryRepository EntryRepository
	// AuditRepository is the append-only audit trail.
	AuditRepository AuditRepository

	db *DB
}

// NewStorages connects to Postgres, applies migrations and builds the
// repositories.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newStorages(db, logger), nil
}

func newStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		UserRepository:  NewUserRepository(db, logger),
		EntryRepository: NewEntryRepository(db, logger),
		AuditRepository: NewAuditRepository(db, logger),
		db:              db,
	}
}

// Ping reports whether the database is reachable.
func (s *Storages) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *Storages) Close() error {
	return s.db.Close()
}
