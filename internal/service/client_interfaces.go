// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/session"
	"github.com/MKhiriev/go-key-vault/internal/validators"
	"github.com/MKhiriev/go-key-vault/models"
)

// ClientAuthService defines the client-side contract for account registration
// and the bearer token lifecycle. The token survives restarts in the OS keyring.
type ClientAuthService interface {
	// Register checks masterSecret against the password policy before anything
	// else and returns a *validators.PolicyError listing every violation. It
	// then encrypts the verifier marker under masterSecret, creates the
	// account and saves the issued token.
	Register(ctx context.Context, login, password, masterSecret string) error

	// Login authenticates against the server and saves the issued token.
	Login(ctx context.Context, login, password string) error

	// Logout forgets the token locally and in the keyring.
	Logout(ctx context.Context) error

	// RestoreSession loads a saved token. It returns ErrNotLoggedIn when the
	// keyring holds none.
	RestoreSession(ctx context.Context) error

	LoggedIn() bool
}

// NewEntry is a plaintext entry before encryption. Secret is required;
// Secondary and Notes become optional bundles when non-empty.
type NewEntry struct {
	// Label is the display name of the entry.
	Label          string
	Description    string
	// Classification, Tags and Environment are stored in the clear for
	// filtering.
	Classification models.Classification
	Tags           []string
	Environment    string
	// ExpiresAt is optional. Past it the entry is shown as expired and the
	// server eventually deactivates it.
	ExpiresAt      *time.Time

	Secret    string
	Secondary string
	Notes     string
}

// RevealedEntry is an entry with its bundles decrypted. It lives only in
// memory and must be dropped when the session locks.
type RevealedEntry struct {
	Entry     models.VaultEntry
	Secret    string
	Secondary string
	Notes     string
}

// EntryPage is one page of entries. FromCache is set when the server was
// unreachable and the page came from the local cache.
type EntryPage struct {
	models.EntryList
	// FromCache is true when the page came from the local cache.
	FromCache bool
}

// VaultStatus is a snapshot of the session for display.
type VaultStatus struct {
	// State is the session lock state.
	State          session.State
	// Deadline is when the session auto-locks; zero while locked.
	Deadline       time.Time
	// LoggedIn reports whether the client holds a bearer token.
	LoggedIn       bool
	// ClipboardDelay is how long a copied secret stays on the clipboard.
	ClipboardDelay time.Duration
}

// VaultService is the client boundary for everything that touches the master
// secret. Encryption and decryption run only while the session is unlocked.
type VaultService interface {
	Unlock(ctx context.Context, masterSecret string) error
	Lock()
	ResetAutoLock() error
	// OnLock registers fn to run after every transition to Locked.
	OnLock(fn func(session.LockReason))

	Store(ctx context.Context, entry NewEntry) (models.VaultEntry, error)
	List(ctx context.Context, filter models.EntryFilter) (EntryPage, error)
	Reveal(ctx context.Context, id string) (RevealedEntry, error)
	// Copy reveals the entry and puts its secret on the clipboard until the
	// clear delay passes.
	Copy(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Rotate(ctx context.Context, id, newSecret string) (models.VaultEntry, error)
	RefreshCache(ctx context.Context) error
	Audit(ctx context.Context, filter models.AuditFilter) (models.AuditList, error)

	Validate(candidate string) validators.PolicyResult
	GenerateSecret(length int) (string, error)
	Status() VaultStatus

	// Close locks the session and clears any pending clipboard contents.
	Close() error
}

// ClientCacheJob defines the contract for a background worker that keeps the
// local cache in step with the server.
type ClientCacheJob interface {
	// Run launches the background goroutine. Any previously running job is
	// stopped before the new one begins.
	Run(ctx context.Context)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}
