// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-key-vault/internal/adapter"
	"github.com/MKhiriev/go-key-vault/internal/clipboard"
	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/session"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/internal/validators"
	"github.com/MKhiriev/go-key-vault/models"
)

// offlineVerifierBundles caps how many cached bundles an offline unlock tries.
const offlineVerifierBundles = 3

type vaultService struct {
	adapter    adapter.ServerAdapter
	cache      store.EntryCache
	guard      *session.Guard
	encryption crypto.EncryptionService
	clipboard  *clipboard.Guard
	policy     validators.PasswordPolicy
	logger     *logger.Logger
}

// NewVaultService returns the client [VaultService]. guard must be the same
// guard whose verifier source was built with [NewVerifierSource].
func NewVaultService(
	serverAdapter adapter.ServerAdapter,
	cache store.EntryCache,
	guard *session.Guard,
	encryption crypto.EncryptionService,
	clipboardGuard *clipboard.Guard,
	logger *logger.Logger,
) VaultService {
	return &vaultService{
		adapter:    serverAdapter,
		cache:      cache,
		guard:      guard,
		encryption: encryption,
		clipboard:  clipboardGuard,
		policy:     validators.NewPasswordPolicy(),
		logger:     logger,
	}
}

// NewVerifierSource returns the bundles an unlock is checked against: the
// account verifier from the server, or, when the server is unreachable, a few
// cached entry bundles. Every cached bundle was sealed under the same master
// secret, so any of them proves it.
func NewVerifierSource(serverAdapter adapter.ServerAdapter, cache store.EntryCache) session.VerifierSource {
	return session.VerifierSourceFunc(func(ctx context.Context) ([]models.EncryptedBundle, error) {
		verifier, err := serverAdapter.Verifier(ctx)
		if err == nil {
			return []models.EncryptedBundle{verifier}, nil
		}
		if !errors.Is(err, adapter.ErrTransport) {
			return nil, mapAdapterError(err)
		}

		userID, idErr := serverAdapter.UserID()
		if idErr != nil {
			return nil, ErrNotLoggedIn
		}
		cached, cacheErr := cache.ListEntries(ctx, models.EntryFilter{UserID: userID, Limit: offlineVerifierBundles})
		if cacheErr != nil {
			return nil, fmt.Errorf("%w: %w", err, cacheErr)
		}

		bundles := make([]models.EncryptedBundle, 0, len(cached.Entries))
		for _, entry := range cached.Entries {
			bundles = append(bundles, entry.Primary)
		}
		return bundles, nil
	})
}

func (s *vaultService) Unlock(ctx context.Context, masterSecret string) error {
	return s.guard.Unlock(ctx, masterSecret)
}

func (s *vaultService) Lock() {
	s.guard.Lock()
}

func (s *vaultService) ResetAutoLock() error {
	return s.guard.ResetAutoLock()
}

func (s *vaultService) OnLock(fn func(session.LockReason)) {
	s.guard.OnLock(fn)
}

// Store encrypts each non-empty plaintext field into its own bundle and
// uploads the entry. Plaintext never leaves this method.
func (s *vaultService) Store(ctx context.Context, entry NewEntry) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	if entry.Secret == "" {
		return models.VaultEntry{}, fmt.Errorf("%w: secret is required", ErrValidation)
	}

	vaultEntry := models.VaultEntry{
		Label:          entry.Label,
		Description:    entry.Description,
		Classification: entry.Classification,
		Tags:           entry.Tags,
		Environment:    entry.Environment,
		ExpiresAt:      entry.ExpiresAt,
	}

	err := s.guard.WithSecret(func(masterSecret []byte) error {
		secret := string(masterSecret)

		primary, err := s.encryption.Encrypt(entry.Secret, secret)
		if err != nil {
			return err
		}
		vaultEntry.Primary = primary

		if vaultEntry.Secondary, err = s.encryptOptional(entry.Secondary, secret); err != nil {
			return err
		}
		vaultEntry.Metadata, err = s.encryptOptional(entry.Notes, secret)
		return err
	})
	if err != nil {
		return models.VaultEntry{}, err
	}

	saved, err := s.adapter.CreateEntry(ctx, vaultEntry)
	if err != nil {
		log.Err(err).Str("func", "vaultService.Store").Msg("uploading entry failed")
		return models.VaultEntry{}, mapAdapterError(err)
	}

	s.cachePut(ctx, saved)
	return saved, nil
}

// List reads from the server and falls back to the cache when the server is
// unreachable. Listing needs no secret but counts as activity.
func (s *vaultService) List(ctx context.Context, filter models.EntryFilter) (EntryPage, error) {
	log := logger.FromContext(ctx)
	s.activity()

	list, err := s.adapter.ListEntries(ctx, filter)
	if err == nil {
		return EntryPage{EntryList: list}, nil
	}
	if !errors.Is(err, adapter.ErrTransport) {
		return EntryPage{}, mapAdapterError(err)
	}

	userID, idErr := s.adapter.UserID()
	if idErr != nil {
		return EntryPage{}, ErrNotLoggedIn
	}

	log.Warn().Err(err).Str("func", "vaultService.List").Msg("server unreachable, listing cached entries")
	filter.UserID = userID
	cached, cacheErr := s.cache.ListEntries(ctx, filter)
	if cacheErr != nil {
		return EntryPage{}, fmt.Errorf("%w: %w", err, cacheErr)
	}
	return EntryPage{EntryList: cached, FromCache: true}, nil
}

// Reveal decrypts every bundle of the entry and reports the attempt to the
// server audit trail. A failed report is logged; it does not hide the result.
func (s *vaultService) Reveal(ctx context.Context, id string) (RevealedEntry, error) {
	log := logger.FromContext(ctx)

	if s.guard.State() != session.Unlocked {
		return RevealedEntry{}, session.ErrSessionLocked
	}

	entry, err := s.fetchEntry(ctx, id)
	if err != nil {
		return RevealedEntry{}, err
	}

	revealed := RevealedEntry{Entry: entry}
	err = s.guard.WithSecret(func(masterSecret []byte) error {
		secret := string(masterSecret)

		var err error
		if revealed.Secret, err = s.encryption.Decrypt(entry.Primary, secret); err != nil {
			return err
		}
		if revealed.Secondary, err = s.decryptOptional(entry.Secondary, secret); err != nil {
			return err
		}
		revealed.Notes, err = s.decryptOptional(entry.Metadata, secret)
		return err
	})
	if errors.Is(err, session.ErrSessionLocked) {
		return RevealedEntry{}, err
	}

	event := models.AuditEvent{EntryID: id, Action: models.AuditActionRetrieve, Success: err == nil}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	if reportErr := s.adapter.ReportAudit(ctx, event); reportErr != nil {
		log.Warn().Err(reportErr).Str("func", "vaultService.Reveal").Str("entry_id", id).Msg("reveal not reported")
	}

	if err != nil {
		log.Warn().Str("func", "vaultService.Reveal").Str("entry_id", id).Msg("entry did not decrypt")
		return RevealedEntry{}, err
	}

	if err = s.guard.Remember(id, revealed.Secret); err != nil {
		return RevealedEntry{}, err
	}
	return revealed, nil
}

// Copy puts the entry's secret on the clipboard, revealing it first when it
// is not remembered for this session. The clipboard guard schedules the clear.
func (s *vaultService) Copy(ctx context.Context, id string) error {
	secret, ok := s.guard.Recall(id)
	if !ok {
		revealed, err := s.Reveal(ctx, id)
		if err != nil {
			return err
		}
		secret = revealed.Secret
	}

	if err := s.clipboard.Copy(secret); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "vaultService.Copy").Str("entry_id", id).Msg("copy failed")
		return err
	}
	s.activity()
	return nil
}

// Delete deactivates the entry on the server and forgets any plaintext and
// cached copy of it.
func (s *vaultService) Delete(ctx context.Context, id string) error {
	if err := s.adapter.DeleteEntry(ctx, id); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "vaultService.Delete").Str("entry_id", id).Msg("delete failed")
		return mapAdapterError(err)
	}

	s.guard.Forget(id)
	s.cacheDelete(ctx, id)
	s.activity()
	return nil
}

// Rotate seals newSecret as the entry's primary bundle. The other bundles are
// carried over unchanged; they are already sealed under the same master secret.
func (s *vaultService) Rotate(ctx context.Context, id, newSecret string) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	if newSecret == "" {
		return models.VaultEntry{}, fmt.Errorf("%w: secret is required", ErrValidation)
	}
	if s.guard.State() != session.Unlocked {
		return models.VaultEntry{}, session.ErrSessionLocked
	}

	old, err := s.adapter.GetEntry(ctx, id)
	if err != nil {
		return models.VaultEntry{}, mapAdapterError(err)
	}

	request := models.RotateRequest{Secondary: old.Secondary, Metadata: old.Metadata, ExpiresAt: old.ExpiresAt}
	err = s.guard.WithSecret(func(masterSecret []byte) error {
		var err error
		request.Primary, err = s.encryption.Encrypt(newSecret, string(masterSecret))
		return err
	})
	if err != nil {
		return models.VaultEntry{}, err
	}

	rotated, err := s.adapter.RotateEntry(ctx, id, request)
	if err != nil {
		log.Err(err).Str("func", "vaultService.Rotate").Str("entry_id", id).Msg("rotation failed")
		return models.VaultEntry{}, mapAdapterError(err)
	}

	s.guard.Forget(id)
	s.cacheDelete(ctx, id)
	s.cachePut(ctx, rotated)
	return rotated, nil
}

// RefreshCache replaces the cache with every active entry on the server.
func (s *vaultService) RefreshCache(ctx context.Context) error {
	log := logger.FromContext(ctx)

	userID, err := s.adapter.UserID()
	if err != nil {
		return ErrNotLoggedIn
	}

	var entries []models.VaultEntry
	filter := models.EntryFilter{Limit: validators.MaxPageSize}
	for {
		page, err := s.adapter.ListEntries(ctx, filter)
		if err != nil {
			log.Warn().Err(err).Str("func", "vaultService.RefreshCache").Msg("listing entries failed")
			return mapAdapterError(err)
		}
		entries = append(entries, page.Entries...)
		if len(page.Entries) == 0 || len(entries) >= page.Total {
			break
		}
		filter.Offset += uint64(len(page.Entries))
	}

	if err = s.cache.ReplaceAll(ctx, userID, entries); err != nil {
		log.Err(err).Str("func", "vaultService.RefreshCache").Msg("replacing cache failed")
		return fmt.Errorf("replacing cache failed: %w", err)
	}

	log.Debug().Str("func", "vaultService.RefreshCache").Int("entries", len(entries)).Msg("cache refreshed")
	return nil
}

func (s *vaultService) Audit(ctx context.Context, filter models.AuditFilter) (models.AuditList, error) {
	s.activity()

	list, err := s.adapter.ListAudit(ctx, filter)
	if err != nil {
		return models.AuditList{}, mapAdapterError(err)
	}
	return list, nil
}

func (s *vaultService) Validate(candidate string) validators.PolicyResult {
	return s.policy.Validate(candidate)
}

func (s *vaultService) GenerateSecret(length int) (string, error) {
	return crypto.GenerateSecret(length)
}

func (s *vaultService) Status() VaultStatus {
	deadline, _ := s.guard.Deadline()
	return VaultStatus{
		State:          s.guard.State(),
		Deadline:       deadline,
		LoggedIn:       s.adapter.Token() != "",
		ClipboardDelay: s.clipboard.Delay(),
	}
}

// Close locks the session and clears the clipboard if a clear is pending.
func (s *vaultService) Close() error {
	s.guard.Lock()
	return s.clipboard.Close()
}

// fetchEntry loads id from the server, or from the cache when the server is
// unreachable.
func (s *vaultService) fetchEntry(ctx context.Context, id string) (models.VaultEntry, error) {
	entry, err := s.adapter.GetEntry(ctx, id)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, adapter.ErrTransport) {
		return models.VaultEntry{}, mapAdapterError(err)
	}

	userID, idErr := s.adapter.UserID()
	if idErr != nil {
		return models.VaultEntry{}, ErrNotLoggedIn
	}
	cached, cacheErr := s.cache.GetEntry(ctx, userID, id)
	if errors.Is(cacheErr, store.ErrEntryNotFound) {
		return models.VaultEntry{}, err
	}
	if cacheErr != nil {
		return models.VaultEntry{}, fmt.Errorf("%w: %w", err, cacheErr)
	}
	return cached, nil
}

func (s *vaultService) encryptOptional(plaintext, masterSecret string) (*models.EncryptedBundle, error) {
	if plaintext == "" {
		return nil, nil
	}
	bundle, err := s.encryption.Encrypt(plaintext, masterSecret)
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (s *vaultService) decryptOptional(bundle *models.EncryptedBundle, masterSecret string) (string, error) {
	if bundle == nil {
		return "", nil
	}
	return s.encryption.Decrypt(*bundle, masterSecret)
}

// activity pushes the auto-lock deadline when the session is unlocked.
func (s *vaultService) activity() {
	_ = s.guard.ResetAutoLock()
}

func (s *vaultService) cachePut(ctx context.Context, entry models.VaultEntry) {
	if entry.UserID == 0 {
		entry.UserID, _ = s.adapter.UserID()
	}
	if err := s.cache.PutEntry(ctx, entry); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "vaultService.cachePut").Str("entry_id", entry.ID).Msg("cache write failed")
	}
}

func (s *vaultService) cacheDelete(ctx context.Context, id string) {
	userID, err := s.adapter.UserID()
	if err != nil {
		return
	}
	if err = s.cache.DeleteEntry(ctx, userID, id); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "vaultService.cacheDelete").Str("entry_id", id).Msg("cache delete failed")
	}
}
