// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-key-vault/internal/adapter"
	"github.com/MKhiriev/go-key-vault/internal/app"
)

// mapAdapterError translates the adapter's transport error into a service
// business error. Transport failures are returned unchanged so callers can
// fall back to the cache.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		return fmt.Errorf("%w: %s", ErrValidation, msg)

	case errors.Is(err, adapter.ErrUnauthorized):
		if msg == app.MsgInvalidLoginPassword {
			return ErrWrongPassword
		}
		return ErrInvalidToken

	case errors.Is(err, adapter.ErrNoToken):
		return ErrNotLoggedIn

	case errors.Is(err, adapter.ErrForbidden):
		return ErrUnauthorized

	case errors.Is(err, adapter.ErrNotFound):
		return ErrEntryNotFound

	case errors.Is(err, adapter.ErrConflict):
		if msg == app.MsgLoginAlreadyExists {
			return ErrLoginAlreadyExists
		}

	case errors.Is(err, adapter.ErrServer):
		switch {
		case strings.HasSuffix(msg, app.MsgRegistrationFailed):
			return fmt.Errorf("%w: %w", ErrRegisterFailed, err)
		case strings.HasSuffix(msg, app.MsgLoginFailed):
			return fmt.Errorf("%w: %w", ErrLoginFailed, err)
		}
	}

	return err
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}
