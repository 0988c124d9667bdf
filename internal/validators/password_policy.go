// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultMinLength = 16
	// DefaultSymbols is the printable ASCII punctuation accepted as a symbol.
	DefaultSymbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// Violation names one unmet password rule.
type Violation string

const (
	ViolationTooShort    Violation = "too_short"
	ViolationNoUppercase Violation = "no_uppercase"
	ViolationNoLowercase Violation = "no_lowercase"
	ViolationNoDigit     Violation = "no_digit"
	ViolationNoSymbol    Violation = "no_symbol"
)

// Describe returns a message suitable for showing to the user.
func (v Violation) Describe(p PasswordPolicy) string {
	switch v {
	case ViolationTooShort:
		return fmt.Sprintf("must be at least %d characters long", p.MinLength)
	case ViolationNoUppercase:
		return "must contain an uppercase letter"
	case ViolationNoLowercase:
		return "must contain a lowercase letter"
	case ViolationNoDigit:
		return "must contain a digit"
	case ViolationNoSymbol:
		return fmt.Sprintf("must contain one of %s", p.Symbols)
	}
	return string(v)
}

// PolicyResult is the outcome of [PasswordPolicy.Validate].
type PolicyResult struct {
	Valid      bool
	Violations []Violation
}

// Err returns nil for a valid result and a [*PolicyError] otherwise.
func (r PolicyResult) Err() error {
	if r.Valid {
		return nil
	}
	return &PolicyError{Violations: r.Violations}
}

// PolicyError carries every rule a rejected master secret broke.
// It matches [ErrInvalidMasterSecret] with errors.Is.
type PolicyError struct {
	Violations []Violation
}

func (e *PolicyError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = string(v)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidMasterSecret, strings.Join(parts, ", "))
}

func (e *PolicyError) Is(target error) bool {
	return target == ErrInvalidMasterSecret
}

// PasswordPolicy checks master-secret strength.
type PasswordPolicy struct {
	MinLength int
	Symbols   string
}

// NewPasswordPolicy returns the default policy: 16 characters and at least one
// uppercase letter, lowercase letter, digit and symbol.
func NewPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: DefaultMinLength, Symbols: DefaultSymbols}
}

// Validate checks every rule independently. Violations are reported in a
// fixed order: length, uppercase, lowercase, digit, symbol.
func (p PasswordPolicy) Validate(candidate string) PolicyResult {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range candidate {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(p.Symbols, r):
			hasSymbol = true
		}
	}

	var violations []Violation
	if utf8.RuneCountInString(candidate) < p.MinLength {
		violations = append(violations, ViolationTooShort)
	}
	if !hasUpper {
		violations = append(violations, ViolationNoUppercase)
	}
	if !hasLower {
		violations = append(violations, ViolationNoLowercase)
	}
	if !hasDigit {
		violations = append(violations, ViolationNoDigit)
	}
	if !hasSymbol {
		violations = append(violations, ViolationNoSymbol)
	}

	return PolicyResult{Valid: len(violations) == 0, Violations: violations}
}
