// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-key-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=EntryServiceWrapper

// AuthService registers and logs in accounts and issues bearer tokens. The
// server only ever sees the account password, never the master secret.
type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	// Verifier returns the bundle the client trial-decrypts on unlock.
	Verifier(ctx context.Context, userID int64) (models.EncryptedBundle, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// EntryService stores and hands out encrypted entries. Every method that takes
// a userID fails with ErrUnauthorized when the entry belongs to someone else
// and with ErrEntryNotFound when it does not exist.
type EntryService interface {
	StoreEntry(ctx context.Context, entry models.VaultEntry) (models.VaultEntry, error)
	GetEntry(ctx context.Context, userID int64, id string) (models.VaultEntry, error)
	ListEntries(ctx context.Context, filter models.EntryFilter) (models.EntryList, error)
	// DeleteEntry marks the entry inactive. Rows are never removed.
	DeleteEntry(ctx context.Context, userID int64, id string) error
	// RotateEntry replaces the entry's bundles with a new active entry that
	// points back to the old one, and deactivates the old one.
	RotateEntry(ctx context.Context, userID int64, id string, request models.RotateRequest) (models.VaultEntry, error)
	// TouchEntry records a successful reveal.
	TouchEntry(ctx context.Context, userID int64, id string) error
}

// AuditService appends to and reads the audit trail. Records are never
// updated or deleted.
type AuditService interface {
	Record(ctx context.Context, record models.AuditRecord) error
	// ReportEvent checks a client-reported reveal against the caller's
	// entries and bumps the entry's access statistics when it succeeded.
	// Recording the event is left to the caller, which knows its origin.
	ReportEvent(ctx context.Context, userID int64, event models.AuditEvent) error
	ListRecords(ctx context.Context, filter models.AuditFilter) (models.AuditList, error)
}

// EntryServiceWrapper defines middleware composition for EntryService.
// Implementations wrap an existing EntryService to add behavior such as
// validating.
type EntryServiceWrapper interface {
	Wrap(EntryService) EntryService
}
