// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	MinGeneratedLength     = 16
	MaxGeneratedLength     = 256
	DefaultGeneratedLength = 32
)

// GenerateSecret returns a random URL-safe secret of the given length, drawn
// uniformly from [A-Za-z0-9-_] with crypto/rand.
func GenerateSecret(length int) (string, error) {
	if length < MinGeneratedLength || length > MaxGeneratedLength {
		return "", fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidLength, length, MinGeneratedLength, MaxGeneratedLength)
	}

	limit := big.NewInt(int64(len(secretAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrRandomSource, err)
		}
		out[i] = secretAlphabet[n.Int64()]
	}
	return string(out), nil
}
