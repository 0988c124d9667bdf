// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators holds input validation shared by the server and the client.
//
// Two kinds of validators live here:
//   - Validator: structural checks on entries, bundles and queries before they
//     reach storage, optionally scoped to named fields.
//   - PasswordPolicy: strength rules for the master secret, reporting every
//     unmet rule at once.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {
	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
