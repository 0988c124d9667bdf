// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/MKhiriev/go-key-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIterations = 1000

func newTestService() EncryptionService {
	return NewEncryptionService(WithIterations(testIterations))
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "api key", plaintext: "sk-live-abc123"},
		{name: "empty", plaintext: ""},
		{name: "unicode", plaintext: "пароль ключ 🔑"},
		{name: "long", plaintext: string(bytes.Repeat([]byte("x"), 4096))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle, err := svc.Encrypt(tt.plaintext, "Correct-Horse-9!")
			require.NoError(t, err)

			got, err := svc.Decrypt(bundle, "Correct-Horse-9!")
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, got)
		})
	}
}

func TestEncryptDecrypt_WrongSecretAfterRoundTrip(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name      string
		plaintext string
		secret    string
		wrong     string
	}{
		{name: "live api key", plaintext: "sk_live_abc123", secret: "CorrectHorseBattery9!", wrong: "WrongPassword1!"},
		{name: "near miss secret", plaintext: "ghp_token", secret: "CorrectHorseBattery9!", wrong: "CorrectHorseBattery9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle, err := svc.Encrypt(tt.plaintext, tt.secret)
			require.NoError(t, err)

			for field, value := range map[string]string{
				"ciphertext": bundle.Ciphertext,
				"nonce":      bundle.Nonce,
				"salt":       bundle.Salt,
			} {
				require.NotEmpty(t, value, field)
				_, err = base64.StdEncoding.DecodeString(value)
				require.NoError(t, err, field)
			}

			got, err := svc.Decrypt(bundle, tt.secret)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, got)

			got, err = svc.Decrypt(bundle, tt.wrong)
			assert.ErrorIs(t, err, ErrDecryptionFailed)
			assert.Empty(t, got)
		})
	}
}

func TestEncrypt_BundleShape(t *testing.T) {
	bundle, err := newTestService().Encrypt("secret", "pw")
	require.NoError(t, err)

	nonce, err := base64.StdEncoding.DecodeString(bundle.Nonce)
	require.NoError(t, err)
	assert.Len(t, nonce, NonceSize)

	salt, err := base64.StdEncoding.DecodeString(bundle.Salt)
	require.NoError(t, err)
	assert.Len(t, salt, SaltSize)

	ct, err := base64.StdEncoding.DecodeString(bundle.Ciphertext)
	require.NoError(t, err)
	assert.Len(t, ct, len("secret")+TagSize)
}

func TestEncrypt_FreshSaltAndNonce(t *testing.T) {
	svc := newTestService()

	a, err := svc.Encrypt("same plaintext", "same secret")
	require.NoError(t, err)
	b, err := svc.Encrypt("same plaintext", "same secret")
	require.NoError(t, err)

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.Nonce, b.Nonce)
	assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
}

func TestDecrypt_WrongSecret(t *testing.T) {
	svc := newTestService()

	bundle, err := svc.Encrypt("sk-live-abc123", "right secret")
	require.NoError(t, err)

	_, err = svc.Decrypt(bundle, "wrong secret")
	require.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecrypt_FailuresAreIndistinguishable(t *testing.T) {
	svc := newTestService()

	bundle, err := svc.Encrypt("sk-live-abc123", "secret")
	require.NoError(t, err)

	flip := func(b64 string) string {
		raw, err := base64.StdEncoding.DecodeString(b64)
		require.NoError(t, err)
		raw[0] ^= 0x01
		return base64.StdEncoding.EncodeToString(raw)
	}

	tests := []struct {
		name   string
		mutate func(b models.EncryptedBundle) models.EncryptedBundle
	}{
		{name: "tampered ciphertext", mutate: func(b models.EncryptedBundle) models.EncryptedBundle {
			b.Ciphertext = flip(b.Ciphertext)
			return b
		}},
		{name: "tampered nonce", mutate: func(b models.EncryptedBundle) models.EncryptedBundle {
			b.Nonce = flip(b.Nonce)
			return b
		}},
		{name: "tampered salt", mutate: func(b models.EncryptedBundle) models.EncryptedBundle {
			b.Salt = flip(b.Salt)
			return b
		}},
		{name: "malformed base64", mutate: func(b models.EncryptedBundle) models.EncryptedBundle {
			b.Ciphertext = "%%%not-base64%%%"
			return b
		}},
		{name: "short salt", mutate: func(b models.EncryptedBundle) models.EncryptedBundle {
			b.Salt = base64.StdEncoding.EncodeToString([]byte("short"))
			return b
		}},
		{name: "short nonce", mutate: func(b models.EncryptedBundle) models.EncryptedBundle {
			b.Nonce = base64.StdEncoding.EncodeToString([]byte("abc"))
			return b
		}},
		{name: "truncated ciphertext", mutate: func(b models.EncryptedBundle) models.EncryptedBundle {
			b.Ciphertext = base64.StdEncoding.EncodeToString([]byte("tiny"))
			return b
		}},
		{name: "empty bundle", mutate: func(models.EncryptedBundle) models.EncryptedBundle {
			return models.EncryptedBundle{}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Decrypt(tt.mutate(bundle), "secret")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecryptionFailed))
			assert.Equal(t, ErrDecryptionFailed.Error(), err.Error())
		})
	}
}

func TestEncrypt_RandomSourceFailure(t *testing.T) {
	svc := NewEncryptionService(WithIterations(testIterations), WithRandom(bytes.NewReader(nil)))

	_, err := svc.Encrypt("x", "y")
	require.ErrorIs(t, err, ErrRandomSource)
}

func TestEncryptDecrypt_DefaultIterations(t *testing.T) {
	if testing.Short() {
		t.Skip("full work factor")
	}
	svc := NewEncryptionService()

	bundle, err := svc.Encrypt("sk-live-abc123", "Correct-Horse-9!")
	require.NoError(t, err)

	got, err := svc.Decrypt(bundle, "Correct-Horse-9!")
	require.NoError(t, err)
	assert.Equal(t, "sk-live-abc123", got)

	_, err = NewEncryptionService(WithIterations(testIterations)).Decrypt(bundle, "Correct-Horse-9!")
	assert.ErrorIs(t, err, ErrDecryptionFailed, "a different work factor must derive a different key")
}
