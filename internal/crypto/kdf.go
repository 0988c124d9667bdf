// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor used unless overridden.
	DefaultIterations = 600_000
	// KeySize is the derived key length: one AES-256 key.
	KeySize = 32
	// SaltSize is the length of a per-bundle salt.
	SaltSize = 16
)

// pbkdf2Deriver is the PBKDF2-HMAC-SHA256 implementation of [KeyDeriver].
type pbkdf2Deriver struct {
	iterations int
}

// NewKeyDeriver returns a PBKDF2-HMAC-SHA256 [KeyDeriver]. A non-positive
// iteration count falls back to [DefaultIterations].
func NewKeyDeriver(iterations int) KeyDeriver {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &pbkdf2Deriver{iterations: iterations}
}

func (d *pbkdf2Deriver) DeriveKey(secret, salt []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSalt, len(salt), SaltSize)
	}
	return pbkdf2.Key(secret, salt, d.iterations, KeySize, sha256.New), nil
}
