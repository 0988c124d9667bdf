// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrWrongPassword = errors.New("wrong password")

	ErrLoginAlreadyExists  = errors.New("login already exists")
	ErrTokenCreationFailed = errors.New("token creation failed")
	ErrInvalidToken        = errors.New("token is expired or invalid")

	ErrEntryNotFound = errors.New("entry not found")
	// ErrUnauthorized is returned when an entry exists but belongs to another user.
	ErrUnauthorized = errors.New("entry belongs to another user")
)

// Client-side errors.
var (
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrRegisterFailed = errors.New("registration on server failed")
	ErrLoginFailed    = errors.New("login on server failed")
)
