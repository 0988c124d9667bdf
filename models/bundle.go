// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EncryptedBundle is the unit of ciphertext produced by one encryption call.
// All three fields are standard base64. The server stores bundles verbatim and
// never interprets them.
type EncryptedBundle struct {
	// Ciphertext is the AEAD output with the 16-byte tag appended.
	Ciphertext string `json:"ciphertext"`

	// Nonce is the 12-byte nonce used for this bundle only.
	Nonce string `json:"nonce"`

	// Salt is the 16-byte KDF salt used to derive this bundle's key.
	Salt string `json:"salt"`
}

// IsZero reports whether no field of the bundle is set.
func (b EncryptedBundle) IsZero() bool {
	return b.Ciphertext == "" && b.Nonce == "" && b.Salt == ""
}
