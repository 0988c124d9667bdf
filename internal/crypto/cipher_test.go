// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCipher_SealOpen(t *testing.T) {
	c := NewCipher()
	key := bytes.Repeat([]byte{0x01}, KeySize)
	nonce := bytes.Repeat([]byte{0x02}, NonceSize)

	ct, err := c.Seal(key, nonce, []byte("hello"))
	require.NoError(t, err)
	assert.Len(t, ct, len("hello")+TagSize)

	pt, err := c.Open(key, nonce, ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), pt)
}

func TestCipher_OpenDetectsChanges(t *testing.T) {
	c := NewCipher()
	key := bytes.Repeat([]byte{0x01}, KeySize)
	nonce := bytes.Repeat([]byte{0x02}, NonceSize)

	ct, err := c.Seal(key, nonce, []byte("hello"))
	require.NoError(t, err)

	otherKey := bytes.Repeat([]byte{0x03}, KeySize)
	_, err = c.Open(otherKey, nonce, ct)
	assert.ErrorIs(t, err, ErrAuthFailure)

	otherNonce := bytes.Repeat([]byte{0x04}, NonceSize)
	_, err = c.Open(key, otherNonce, ct)
	assert.ErrorIs(t, err, ErrAuthFailure)

	for i := range ct {
		tampered := bytes.Clone(ct)
		tampered[i] ^= 0x80
		_, err = c.Open(key, nonce, tampered)
		assert.ErrorIs(t, err, ErrAuthFailure, "byte %d", i)
	}

	_, err = c.Open(key, nonce, ct[:TagSize-1])
	assert.ErrorIs(t, err, ErrAuthFailure)
}

func TestCipher_RejectsBadSizes(t *testing.T) {
	c := NewCipher()

	_, err := c.Seal(make([]byte, 16), make([]byte, NonceSize), nil)
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	_, err = c.Seal(make([]byte, KeySize), make([]byte, 8), nil)
	assert.ErrorIs(t, err, ErrInvalidNonceSize)

	_, err = c.Open(make([]byte, 31), make([]byte, NonceSize), make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}

func TestWipe(t *testing.T) {
	b := []byte("sensitive")
	Wipe(b)
	assert.Equal(t, make([]byte, len("sensitive")), b)

	Wipe(nil)
}

func TestGenerateSecret(t *testing.T) {
	s, err := GenerateSecret(DefaultGeneratedLength)
	require.NoError(t, err)
	assert.Len(t, s, DefaultGeneratedLength)
	for _, r := range s {
		assert.Contains(t, secretAlphabet, string(r))
	}

	other, err := GenerateSecret(DefaultGeneratedLength)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)

	_, err = GenerateSecret(MinGeneratedLength - 1)
	assert.ErrorIs(t, err, ErrInvalidLength)
	_, err = GenerateSecret(MaxGeneratedLength + 1)
	assert.ErrorIs(t, err, ErrInvalidLength)
}
