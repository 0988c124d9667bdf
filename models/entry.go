// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Classification is the non-secret category of a vault entry.
type Classification string

const (
	ClassificationAPIKey      Classification = "api_key"
	ClassificationToken       Classification = "token"
	ClassificationPassword    Classification = "password"
	ClassificationCertificate Classification = "certificate"
	ClassificationNote        Classification = "note"
)

// Classifications lists every accepted classification.
var Classifications = []Classification{
	ClassificationAPIKey,
	ClassificationToken,
	ClassificationPassword,
	ClassificationCertificate,
	ClassificationNote,
}

// Valid reports whether c is one of [Classifications].
func (c Classification) Valid() bool {
	for _, known := range Classifications {
		if c == known {
			return true
		}
	}
	return false
}

// VaultEntry is a stored secret. Only the bundles carry sensitive data;
// label, tags and the rest are plaintext metadata the server may filter on.
type VaultEntry struct {
	ID     string `json:"id"`
	UserID int64  `json:"-"`

	Label          string         `json:"label"`
	Description    string         `json:"description,omitempty"`
	Classification Classification `json:"classification"`
	Tags           []string       `json:"tags,omitempty"`
	Environment    string         `json:"environment,omitempty"`

	// Primary holds the secret itself and is always present.
	Primary EncryptedBundle `json:"primary"`
	// Secondary holds an optional companion secret (e.g. an API secret next to a key id).
	Secondary *EncryptedBundle `json:"secondary,omitempty"`
	// Metadata holds optional sensitive notes.
	Metadata *EncryptedBundle `json:"metadata,omitempty"`

	Active        bool       `json:"active"`
	RotatedFromID *string    `json:"rotated_from_id,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`

	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	AccessCount    int64      `json:"access_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bundles returns the entry's non-nil bundles, primary first.
func (e VaultEntry) Bundles() []EncryptedBundle {
	bundles := []EncryptedBundle{e.Primary}
	if e.Secondary != nil {
		bundles = append(bundles, *e.Secondary)
	}
	if e.Metadata != nil {
		bundles = append(bundles, *e.Metadata)
	}
	return bundles
}

// Expired reports whether the entry has an expiry at or before now.
func (e VaultEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !now.Before(*e.ExpiresAt)
}

// TableName returns the name of the database table for entries.
func (e VaultEntry) TableName() string {
	return "vault_entries"
}

// EntryFilter narrows a listing of the caller's entries.
// Only plaintext metadata can be filtered on.
type EntryFilter struct {
	UserID          int64          `json:"-"`
	Classification  Classification `json:"classification,omitempty"`
	Environment     string         `json:"environment,omitempty"`
	Tag             string         `json:"tag,omitempty"`
	IncludeInactive bool           `json:"include_inactive,omitempty"`
	Limit           uint64         `json:"limit,omitempty"`
	Offset          uint64         `json:"offset,omitempty"`
}

// EntryList is a page of entries plus the total number matching the filter.
type EntryList struct {
	Entries []VaultEntry `json:"entries"`
	Total   int          `json:"total"`
}

// RotateRequest carries the replacement bundles for an existing entry.
type RotateRequest struct {
	Primary   EncryptedBundle  `json:"primary"`
	Secondary *EncryptedBundle `json:"secondary,omitempty"`
	Metadata  *EncryptedBundle `json:"metadata,omitempty"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
}
