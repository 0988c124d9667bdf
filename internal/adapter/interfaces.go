// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the client's view of the vault server.
//
// [ServerAdapter] hides the transport from the service layer. The HTTP
// implementation maps response statuses to the sentinel errors in errors.go,
// and wraps network failures in [ErrTransport] so callers can fall back to
// the local cache.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-key-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter talks to the vault server. Every payload it sends or
// receives is already encrypted.
type ServerAdapter interface {
	// SetToken stores the bearer token used by authenticated requests.
	SetToken(token string)
	Token() string

	// UserID reads the owner from the current token without verifying it.
	UserID() (int64, error)

	// Register creates the account and stores the issued token.
	Register(ctx context.Context, user models.User) (models.User, error)
	// Login authenticates and stores the issued token. The returned user
	// carries the verifier bundle.
	Login(ctx context.Context, user models.User) (models.User, error)
	Verifier(ctx context.Context) (models.EncryptedBundle, error)

	CreateEntry(ctx context.Context, entry models.VaultEntry) (models.VaultEntry, error)
	ListEntries(ctx context.Context, filter models.EntryFilter) (models.EntryList, error)
	GetEntry(ctx context.Context, id string) (models.VaultEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	RotateEntry(ctx context.Context, id string, req models.RotateRequest) (models.VaultEntry, error)

	// ReportAudit records a client-side reveal.
	ReportAudit(ctx context.Context, event models.AuditEvent) error
	ListAudit(ctx context.Context, filter models.AuditFilter) (models.AuditList, error)
}
