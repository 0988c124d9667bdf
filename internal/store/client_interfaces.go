// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-key-vault/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// EntryCache is the client's local copy of the server's bundles. It holds
// ciphertext only and serves listing while the server is unreachable.
type EntryCache interface {
	ReplaceAll(ctx context.Context, userID int64, entries []models.VaultEntry) error
	PutEntry(ctx context.Context, entry models.VaultEntry) error
	GetEntry(ctx context.Context, userID int64, id string) (models.VaultEntry, error)
	ListEntries(ctx context.Context, filter models.EntryFilter) (models.EntryList, error)
	DeleteEntry(ctx context.Context, userID int64, id string) error
}
