// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidMasterSecret = errors.New("invalid master secret")

	ErrInvalidUserID         = errors.New("invalid user ID")
	ErrInvalidEntryID        = errors.New("invalid entry ID")
	ErrEmptyLabel            = errors.New("label is required")
	ErrLabelTooLong          = errors.New("label is too long")
	ErrInvalidClassification = errors.New("invalid classification")
	ErrTooManyTags           = errors.New("too many tags")
	ErrInvalidTag            = errors.New("invalid tag")
	ErrInvalidBundle         = errors.New("invalid encrypted bundle")
	ErrInvalidAction         = errors.New("invalid audit action")
	ErrInvalidDateRange      = errors.New("invalid date range")
	ErrInvalidLimit          = errors.New("invalid limit")
	ErrEmptyLogin            = errors.New("login is required")
	ErrEmptyPassword         = errors.New("password is required")
)
