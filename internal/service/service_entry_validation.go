// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-key-vault/internal/validators"
	"github.com/MKhiriev/go-key-vault/models"
)

// EntryValidationService rejects malformed input before it reaches the
// wrapped EntryService. Every rejection wraps ErrValidation.
type EntryValidationService struct {
	inner     EntryService
	validator validators.Validator
}

// NewEntryValidationService returns a wrapper that rejects malformed ids,
// incomplete bundles and out-of-range paging with ErrValidation before the
// wrapped service is called.
func NewEntryValidationService() EntryServiceWrapper {
	return &EntryValidationService{
		validator: validators.NewEntryValidator(),
	}
}

func (v *EntryValidationService) StoreEntry(ctx context.Context, entry models.VaultEntry) (models.VaultEntry, error) {
	if err := v.validator.Validate(ctx, entry); err != nil {
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return v.inner.StoreEntry(ctx, entry)
}

func (v *EntryValidationService) GetEntry(ctx context.Context, userID int64, id string) (models.VaultEntry, error) {
	if err := v.validateTarget(ctx, userID, id); err != nil {
		return models.VaultEntry{}, err
	}

	return v.inner.GetEntry(ctx, userID, id)
}

func (v *EntryValidationService) ListEntries(ctx context.Context, filter models.EntryFilter) (models.EntryList, error) {
	if err := v.validator.Validate(ctx, filter); err != nil {
		return models.EntryList{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return v.inner.ListEntries(ctx, filter)
}

func (v *EntryValidationService) DeleteEntry(ctx context.Context, userID int64, id string) error {
	if err := v.validateTarget(ctx, userID, id); err != nil {
		return err
	}

	return v.inner.DeleteEntry(ctx, userID, id)
}

func (v *EntryValidationService) RotateEntry(ctx context.Context, userID int64, id string, request models.RotateRequest) (models.VaultEntry, error) {
	if err := v.validateTarget(ctx, userID, id); err != nil {
		return models.VaultEntry{}, err
	}
	if err := v.validator.Validate(ctx, request); err != nil {
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return v.inner.RotateEntry(ctx, userID, id, request)
}

func (v *EntryValidationService) TouchEntry(ctx context.Context, userID int64, id string) error {
	if err := v.validateTarget(ctx, userID, id); err != nil {
		return err
	}

	return v.inner.TouchEntry(ctx, userID, id)
}

// Wrap implements [EntryServiceWrapper].
func (v *EntryValidationService) Wrap(wrapped EntryService) EntryService {
	v.inner = wrapped
	return v
}

func (v *EntryValidationService) validateTarget(ctx context.Context, userID int64, id string) error {
	target := models.VaultEntry{ID: id, UserID: userID}
	if err := v.validator.Validate(ctx, target, validators.FieldID, validators.FieldUserID); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}
