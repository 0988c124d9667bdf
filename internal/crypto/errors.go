// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	ErrInvalidKeySize   = errors.New("invalid key size")
	ErrInvalidNonceSize = errors.New("invalid nonce size")
	ErrInvalidSalt      = errors.New("invalid salt")
	ErrAuthFailure      = errors.New("message authentication failed")
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrRandomSource     = errors.New("reading random bytes failed")
	ErrInvalidLength    = errors.New("invalid secret length")
)
