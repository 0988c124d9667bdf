// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/MKhiriev/go-key-vault/models"
)

// encryptionService is the default implementation of [EncryptionService].
type encryptionService struct {
	deriver KeyDeriver
	cipher  AuthenticatedCipher
	random  io.Reader
}

// Option configures an [EncryptionService].
type Option func(*encryptionService)

// WithIterations sets the PBKDF2 iteration count.
func WithIterations(iterations int) Option {
	return func(s *encryptionService) {
		s.deriver = NewKeyDeriver(iterations)
	}
}

// WithKeyDeriver replaces the key derivation function.
func WithKeyDeriver(d KeyDeriver) Option {
	return func(s *encryptionService) {
		s.deriver = d
	}
}

// WithRandom replaces the source of salts and nonces.
func WithRandom(r io.Reader) Option {
	return func(s *encryptionService) {
		s.random = r
	}
}

// NewEncryptionService builds a PBKDF2 + AES-256-GCM [EncryptionService].
func NewEncryptionService(opts ...Option) EncryptionService {
	s := &encryptionService{
		deriver: NewKeyDeriver(DefaultIterations),
		cipher:  NewCipher(),
		random:  rand.Reader,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *encryptionService) Encrypt(plaintext, masterSecret string) (models.EncryptedBundle, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(s.random, salt); err != nil {
		return models.EncryptedBundle{}, fmt.Errorf("%w: %w", ErrRandomSource, err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(s.random, nonce); err != nil {
		return models.EncryptedBundle{}, fmt.Errorf("%w: %w", ErrRandomSource, err)
	}

	secret := []byte(masterSecret)
	defer Wipe(secret)

	key, err := s.deriver.DeriveKey(secret, salt)
	if err != nil {
		return models.EncryptedBundle{}, fmt.Errorf("deriving key: %w", err)
	}
	defer Wipe(key)

	data := []byte(plaintext)
	defer Wipe(data)

	ciphertext, err := s.cipher.Seal(key, nonce, data)
	if err != nil {
		return models.EncryptedBundle{}, fmt.Errorf("sealing plaintext: %w", err)
	}

	return models.EncryptedBundle{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Salt:       base64.StdEncoding.EncodeToString(salt),
	}, nil
}

func (s *encryptionService) Decrypt(bundle models.EncryptedBundle, masterSecret string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(bundle.Ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	nonce, err := base64.StdEncoding.DecodeString(bundle.Nonce)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	salt, err := base64.StdEncoding.DecodeString(bundle.Salt)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	secret := []byte(masterSecret)
	defer Wipe(secret)

	key, err := s.deriver.DeriveKey(secret, salt)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	defer Wipe(key)

	plaintext, err := s.cipher.Open(key, nonce, ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	defer Wipe(plaintext)

	return string(plaintext), nil
}
