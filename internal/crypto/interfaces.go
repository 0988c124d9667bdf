// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "github.com/MKhiriev/go-key-vault/models"

// KeyDeriver turns a master secret and a salt into a symmetric key.
// Output is deterministic for the same inputs and iteration count.
type KeyDeriver interface {
	// DeriveKey returns a KeySize-byte key. The salt must be SaltSize bytes.
	DeriveKey(secret, salt []byte) ([]byte, error)
}

// AuthenticatedCipher seals and opens data under a key and a nonce.
// Open fails with [ErrAuthFailure] if any bit of the ciphertext, key or nonce differs.
type AuthenticatedCipher interface {
	Seal(key, nonce, plaintext []byte) ([]byte, error)
	Open(key, nonce, ciphertext []byte) ([]byte, error)
}

// EncryptionService converts between plaintext and [models.EncryptedBundle].
//
// Every Encrypt call draws a fresh salt and nonce, so encrypting the same
// plaintext twice never yields equal bundles. Decrypt reports every failure
// as [ErrDecryptionFailed] and never says which check failed.
type EncryptionService interface {
	Encrypt(plaintext, masterSecret string) (models.EncryptedBundle, error)
	Decrypt(bundle models.EncryptedBundle, masterSecret string) (string, error)
}
