// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-key-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists accounts and their verifier bundles.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
}

// EntryRepository persists opaque vault entries.
//
// GetEntry looks an entry up by id alone so callers can tell a missing
// entry from one owned by someone else. Every mutating method is scoped to
// the owner and to active rows.
type EntryRepository interface {
	SaveEntry(ctx context.Context, entry models.VaultEntry) (models.VaultEntry, error)
	GetEntry(ctx context.Context, id string) (models.VaultEntry, error)
	ListEntries(ctx context.Context, filter models.EntryFilter) (models.EntryList, error)
	DeactivateEntry(ctx context.Context, id string, userID int64) error
	TouchEntry(ctx context.Context, id string, userID int64, at time.Time) error
	RotateEntry(ctx context.Context, oldID string, replacement models.VaultEntry) (models.VaultEntry, error)
	// DeactivateExpired soft-deletes every active entry whose expiry is at or
	// before now, across all owners, and returns how many rows changed.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// AuditRepository is the append-only audit trail. There is no update or
// delete path.
type AuditRepository interface {
	AppendRecord(ctx context.Context, record models.AuditRecord) error
	ListRecords(ctx context.Context, filter models.AuditFilter) (models.AuditList, error)
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
