// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/internal/utils"
	"github.com/MKhiriev/go-key-vault/models"
)

const defaultPageSize = 50

// entryService keeps bundles it cannot read. It decides ownership; the
// repository looks entries up by id alone.
type entryService struct {
	entryRepository store.EntryRepository
	now             func() time.Time
	logger          *logger.Logger
}

// NewEntryService returns an [EntryService] over entryRepository. It handles
// ownership checks; input validation is layered on with
// [EntryValidationService].
func NewEntryService(entryRepository store.EntryRepository, logger *logger.Logger) EntryService {
	return &entryService{
		entryRepository: entryRepository,
		now:             time.Now,
		logger:          logger,
	}
}

// StoreEntry assigns a fresh id and persists the entry as active.
func (s *entryService) StoreEntry(ctx context.Context, entry models.VaultEntry) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	entry.ID = utils.NewID()
	entry.Active = true
	entry.RotatedFromID = nil
	entry.LastAccessedAt = nil
	entry.AccessCount = 0

	saved, err := s.entryRepository.SaveEntry(ctx, entry)
	if err != nil {
		log.Err(err).Str("func", "entryService.StoreEntry").Int64("user_id", entry.UserID).Msg("saving entry failed")
		return models.VaultEntry{}, fmt.Errorf("saving entry failed: %w", err)
	}

	log.Info().Str("func", "entryService.StoreEntry").Str("entry_id", saved.ID).Msg("entry stored")
	return saved, nil
}

func (s *entryService) GetEntry(ctx context.Context, userID int64, id string) (models.VaultEntry, error) {
	return s.ownedEntry(ctx, "entryService.GetEntry", userID, id)
}

func (s *entryService) ListEntries(ctx context.Context, filter models.EntryFilter) (models.EntryList, error) {
	if filter.Limit == 0 {
		filter.Limit = defaultPageSize
	}

	list, err := s.entryRepository.ListEntries(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entryService.ListEntries").
			Int64("user_id", filter.UserID).
			Msg("listing entries failed")
		return models.EntryList{}, fmt.Errorf("listing entries failed: %w", err)
	}

	return list, nil
}

// DeleteEntry soft-deletes the entry after the ownership check.
func (s *entryService) DeleteEntry(ctx context.Context, userID int64, id string) error {
	log := logger.FromContext(ctx)

	if _, err := s.ownedEntry(ctx, "entryService.DeleteEntry", userID, id); err != nil {
		return err
	}

	if err := s.entryRepository.DeactivateEntry(ctx, id, userID); err != nil {
		return s.mapRepositoryError(log, "entryService.DeleteEntry", id, err)
	}

	log.Info().Str("func", "entryService.DeleteEntry").Str("entry_id", id).Msg("entry deactivated")
	return nil
}

// RotateEntry copies the old entry's descriptive fields onto a replacement
// carrying the new bundles. An inactive entry cannot be rotated.
func (s *entryService) RotateEntry(ctx context.Context, userID int64, id string, request models.RotateRequest) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	old, err := s.ownedEntry(ctx, "entryService.RotateEntry", userID, id)
	if err != nil {
		return models.VaultEntry{}, err
	}
	if !old.Active {
		return models.VaultEntry{}, ErrEntryNotFound
	}

	replacement := models.VaultEntry{
		ID:             utils.NewID(),
		UserID:         userID,
		Label:          old.Label,
		Description:    old.Description,
		Classification: old.Classification,
		Tags:           old.Tags,
		Environment:    old.Environment,
		Primary:        request.Primary,
		Secondary:      request.Secondary,
		Metadata:       request.Metadata,
		Active:         true,
		ExpiresAt:      request.ExpiresAt,
	}

	rotated, err := s.entryRepository.RotateEntry(ctx, id, replacement)
	if err != nil {
		return models.VaultEntry{}, s.mapRepositoryError(log, "entryService.RotateEntry", id, err)
	}

	return rotated, nil
}

func (s *entryService) TouchEntry(ctx context.Context, userID int64, id string) error {
	log := logger.FromContext(ctx)

	if _, err := s.ownedEntry(ctx, "entryService.TouchEntry", userID, id); err != nil {
		return err
	}

	if err := s.entryRepository.TouchEntry(ctx, id, userID, s.now()); err != nil {
		return s.mapRepositoryError(log, "entryService.TouchEntry", id, err)
	}
	return nil
}

// ownedEntry loads id and checks it belongs to userID. Inactive entries are
// returned; callers that need an active one check it themselves.
func (s *entryService) ownedEntry(ctx context.Context, fn string, userID int64, id string) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	entry, err := s.entryRepository.GetEntry(ctx, id)
	if err != nil {
		return models.VaultEntry{}, s.mapRepositoryError(log, fn, id, err)
	}

	if entry.UserID != userID {
		log.Warn().
			Str("func", fn).
			Str("entry_id", id).
			Int64("user_id", userID).
			Msg("entry belongs to another user")
		return models.VaultEntry{}, ErrUnauthorized
	}

	return entry, nil
}

func (s *entryService) mapRepositoryError(log *logger.Logger, fn, id string, err error) error {
	if errors.Is(err, store.ErrEntryNotFound) {
		log.Warn().Str("func", fn).Str("entry_id", id).Msg("entry not found")
		return ErrEntryNotFound
	}

	log.Err(err).Str("func", fn).Str("entry_id", id).Msg("repository call failed")
	return fmt.Errorf("repository call failed: %w", err)
}
