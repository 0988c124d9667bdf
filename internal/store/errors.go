// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrLoginAlreadyExists is returned when registering a login that is taken.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when a user lookup matches no row.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrEntryNotFound is returned when an entry id matches no row, or when an
	// update targets an entry that is already inactive.
	ErrEntryNotFound = errors.New("vault entry was not found")

	// ErrEntryNotSaved is returned when an INSERT affects no rows.
	ErrEntryNotSaved = errors.New("vault entry was not saved")
)

// Low-level database operation errors.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrExecutingStatement   = errors.New("failed to execute statement")
	ErrScanningRow          = errors.New("failed to scan row")
	ErrScanningRows         = errors.New("failed to scan rows")

	// ErrEncodingColumn is returned when a JSON text column cannot be
	// encoded or decoded.
	ErrEncodingColumn = errors.New("failed to encode column")
)
