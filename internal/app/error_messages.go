// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains message strings shared by the server handlers and the
// client error mapper.
//
// The server writes a Msg* constant into the JSON error body; the client reads
// it back to tell apart failures that share one HTTP status (e.g. a wrong
// password and an expired token are both 401).
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidLoginPassword is returned when the login/password pair does
	// not match an account.
	MsgInvalidLoginPassword = "invalid login/password"

	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token is missing,
	// malformed, expired or signed by someone else.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoUserIDProvided is returned when an authenticated route runs
	// without a user ID in its context.
	MsgNoUserIDProvided = "no user ID provided"

	// MsgAccessDenied is returned when the caller targets an entry owned by
	// another user.
	MsgAccessDenied = "access denied"

	MsgLoginAlreadyExists = "login already exists"

	// MsgEntryNotFound is returned when an entry does not exist or is
	// already inactive.
	MsgEntryNotFound = "entry not found"

	MsgRegistrationFailed = "registration failed"
	MsgLoginFailed        = "login failed"

	// MsgNotFound is the body for unknown routes and unsupported methods.
	MsgNotFound = "not found"

	// MsgTooManyRequests is returned when a client exceeds the account
	// route rate limit.
	MsgTooManyRequests = "too many requests, try again later"
)
