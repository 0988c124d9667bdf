// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/models"
	"github.com/google/uuid"
)

const (
	FieldID             = "id"
	FieldUserID         = "user_id"
	FieldLabel          = "label"
	FieldClassification = "classification"
	FieldTags           = "tags"
	FieldBundles        = "bundles"
	FieldAction         = "action"
	FieldDateRange      = "date_range"
	FieldLimit          = "limit"
	FieldEntryID        = "entry_id"
	FieldLogin          = "login"
	FieldPassword       = "password"
	FieldVerifier       = "verifier"
)

const (
	MaxLabelLength = 255
	MaxTags        = 16
	MaxTagLength   = 64
	MaxPageSize    = 500
)

type EntryValidator struct{}

func NewEntryValidator() Validator {
	return &EntryValidator{}
}

func (v *EntryValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.VaultEntry:
		return v.validateEntry(ctx, value, fields...)
	case *models.VaultEntry:
		return v.validateEntry(ctx, *value, fields...)

	case models.RotateRequest:
		return v.validateRotateRequest(value)
	case *models.RotateRequest:
		return v.validateRotateRequest(*value)

	case models.EntryFilter:
		return v.validateEntryFilter(value, fields...)
	case *models.EntryFilter:
		return v.validateEntryFilter(*value, fields...)

	case models.AuditFilter:
		return v.validateAuditFilter(value, fields...)
	case *models.AuditFilter:
		return v.validateAuditFilter(*value, fields...)

	case models.AuditEvent:
		return v.validateAuditEvent(value, fields...)
	case *models.AuditEvent:
		return v.validateAuditEvent(*value, fields...)

	case models.User:
		return v.validateUser(value, fields...)
	case *models.User:
		return v.validateUser(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *EntryValidator) validateEntry(_ context.Context, entry models.VaultEntry, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldLabel, FieldClassification, FieldTags, FieldBundles}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if err := validateUUID(entry.ID); err != nil {
				return err
			}
		case FieldUserID:
			if entry.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldLabel:
			if entry.Label == "" {
				return ErrEmptyLabel
			}
			if utf8.RuneCountInString(entry.Label) > MaxLabelLength {
				return ErrLabelTooLong
			}
		case FieldClassification:
			if !entry.Classification.Valid() {
				return ErrInvalidClassification
			}
		case FieldTags:
			if len(entry.Tags) > MaxTags {
				return ErrTooManyTags
			}
			for _, tag := range entry.Tags {
				if tag == "" || utf8.RuneCountInString(tag) > MaxTagLength {
					return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
				}
			}
		case FieldBundles:
			if err := validateBundles(entry.Primary, entry.Secondary, entry.Metadata); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntryValidator) validateRotateRequest(request models.RotateRequest) error {
	return validateBundles(request.Primary, request.Secondary, request.Metadata)
}

func (v *EntryValidator) validateEntryFilter(filter models.EntryFilter, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldClassification, FieldLimit}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if filter.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldClassification:
			if filter.Classification != "" && !filter.Classification.Valid() {
				return ErrInvalidClassification
			}
		case FieldLimit:
			if filter.Limit > MaxPageSize {
				return ErrInvalidLimit
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntryValidator) validateAuditFilter(filter models.AuditFilter, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldAction, FieldEntryID, FieldDateRange, FieldLimit}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if filter.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldAction:
			if filter.Action != "" && !filter.Action.Valid() {
				return ErrInvalidAction
			}
		case FieldEntryID:
			if filter.EntryID != "" {
				if err := validateUUID(filter.EntryID); err != nil {
					return err
				}
			}
		case FieldDateRange:
			if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
				return ErrInvalidDateRange
			}
		case FieldLimit:
			if filter.Limit > MaxPageSize {
				return ErrInvalidLimit
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntryValidator) validateAuditEvent(event models.AuditEvent, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEntryID, FieldAction}
	}

	for _, f := range fields {
		switch f {
		case FieldEntryID:
			if err := validateUUID(event.EntryID); err != nil {
				return err
			}
		case FieldAction:
			// Only reveals are reported by the client; the server audits the rest itself.
			if event.Action != models.AuditActionRetrieve {
				return ErrInvalidAction
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntryValidator) validateUser(user models.User, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldPassword, FieldVerifier}
	}

	for _, f := range fields {
		switch f {
		case FieldLogin:
			if user.Login == "" {
				return ErrEmptyLogin
			}
		case FieldPassword:
			if user.Password == "" {
				return ErrEmptyPassword
			}
		case FieldVerifier:
			if err := validateBundle(user.Verifier); err != nil {
				return fmt.Errorf("verifier: %w", err)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntryID, err)
	}
	return nil
}

func validateBundles(primary models.EncryptedBundle, optional ...*models.EncryptedBundle) error {
	if err := validateBundle(primary); err != nil {
		return fmt.Errorf("primary: %w", err)
	}
	for i, b := range optional {
		if b == nil {
			continue
		}
		if err := validateBundle(*b); err != nil {
			return fmt.Errorf("bundle %d: %w", i+1, err)
		}
	}
	return nil
}

// validateBundle checks encoding and component sizes only. Whether the bundle
// decrypts is unknowable without the master secret.
func validateBundle(b models.EncryptedBundle) error {
	ciphertext, err := base64.StdEncoding.DecodeString(b.Ciphertext)
	if err != nil || len(ciphertext) < crypto.TagSize {
		return fmt.Errorf("%w: ciphertext", ErrInvalidBundle)
	}
	nonce, err := base64.StdEncoding.DecodeString(b.Nonce)
	if err != nil || len(nonce) != crypto.NonceSize {
		return fmt.Errorf("%w: nonce", ErrInvalidBundle)
	}
	salt, err := base64.StdEncoding.DecodeString(b.Salt)
	if err != nil || len(salt) != crypto.SaltSize {
		return fmt.Errorf("%w: salt", ErrInvalidBundle)
	}
	return nil
}
