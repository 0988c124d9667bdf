// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/go-key-vault/internal/adapter"
	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/internal/session"
	"github.com/MKhiriev/go-key-vault/internal/validators"
)

// describeError turns a service error into a line for the status bar.
func describeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, validators.ErrInvalidMasterSecret):
		return "wrong master secret"
	case errors.Is(err, session.ErrNoVerifier):
		return "no verifier available, connect to the server once to unlock"
	case errors.Is(err, session.ErrSessionLocked):
		return "vault is locked"
	case errors.Is(err, crypto.ErrDecryptionFailed):
		return "entry cannot be decrypted, it may have been tampered with"
	case errors.Is(err, service.ErrNotLoggedIn), errors.Is(err, adapter.ErrUnauthorized):
		return "session expired, log in again"
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, adapter.ErrForbidden):
		return "access denied"
	case errors.Is(err, service.ErrEntryNotFound), errors.Is(err, adapter.ErrNotFound):
		return "entry not found"
	case errors.Is(err, adapter.ErrTransport):
		return "server unavailable"
	}

	return err.Error()
}
