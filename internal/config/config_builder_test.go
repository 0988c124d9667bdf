// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuild_LaterNonZeroFieldsWin(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{TokenIssuer: "first", TokenSignKey: "key"}, Server: Server{RequestTimeout: time.Second}},
		&StructuredConfig{App: App{TokenIssuer: "second"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "second", cfg.App.TokenIssuer)
	assert.Equal(t, "key", cfg.App.TokenSignKey, "zero fields must not erase earlier values")
	assert.Equal(t, time.Second, cfg.Server.RequestTimeout)
}

func TestBuild_DefaultsEnvFlagsJSON(t *testing.T) {
	t.Setenv("APP_TOKEN_SIGN_KEY", "env-key")
	t.Setenv("APP_TOKEN_ISSUER", "env-issuer")
	t.Setenv("STORAGE_DB_DATABASE_URI", "postgres://env")

	jsonPath := writeTempFile(t, `{"app": {"token_issuer": "json-issuer"}, "server": {"request_timeout": "5s"}}`)

	cfg, err := newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags([]string{"-d", "postgres://flag", "-c", jsonPath}).
		withJSON().
		build()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.App.TokenSignKey)
	assert.Equal(t, "json-issuer", cfg.App.TokenIssuer)
	assert.Equal(t, "postgres://flag", cfg.Storage.DB.DSN)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress, "default survives")
	assert.Equal(t, DefaultKDFIterations, cfg.Vault.KDFIterations)
	require.NoError(t, cfg.validate())
}

func TestBuild_CollectsSourceErrors(t *testing.T) {
	t.Setenv("APP_TOKEN_DURATION", "not-a-duration")

	_, err := newConfigBuilder().
		withEnv().
		withFlags([]string{"-unknown-flag"}).
		withJSONPath(filepath.Join(t.TempDir(), "missing.json")).
		build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env")
	assert.Contains(t, err.Error(), "flags")
	assert.Contains(t, err.Error(), "json")
}

// ── validation ────────────────────────────────────────────────────────────────

func TestValidate_Server(t *testing.T) {
	cfg := defaults()
	err := cfg.validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)

	cfg.App.TokenSignKey = "k"
	cfg.Storage.DB.DSN = "postgres://x"
	require.NoError(t, cfg.validate())

	cfg.App.BcryptCost = 2
	assert.ErrorIs(t, cfg.validate(), ErrInvalidAppConfigs)
	cfg.App.BcryptCost = DefaultBcryptCost

	cfg.Server.AuthRateLimit = 0
	cfg.Workers.EntryExpiryInterval = 0
	err = cfg.validate()
	assert.ErrorIs(t, err, ErrInvalidServerConfigs)
	assert.ErrorIs(t, err, ErrInvalidWorkerConfigs)
}

func TestValidate_Client(t *testing.T) {
	cfg := newClientConfig(defaults())
	require.NoError(t, cfg.validate())

	cfg.Vault.KDFIterations = 1000
	cfg.Adapter.HTTPAddress = "localhost:8080"
	cfg.Workers.CacheRefreshInterval = 0

	err := cfg.validate()
	assert.ErrorIs(t, err, ErrInvalidVaultConfigs)
	assert.ErrorIs(t, err, ErrInvalidAdapterConfigs)
	assert.ErrorIs(t, err, ErrInvalidWorkerConfigs)
}

func TestGetClientConfig(t *testing.T) {
	t.Setenv("VAULT_AUTO_LOCK_TIMEOUT", "2m")
	jsonPath := writeTempFile(t, `{"adapter": {"http_address": "https://vault.example.com"}, "vault": {"clipboard_clear_delay": "10s"}}`)

	cfg, err := GetClientConfig(jsonPath)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.Vault.AutoLockTimeout)
	assert.Equal(t, 10*time.Second, cfg.Vault.ClipboardClearDelay)
	assert.Equal(t, "https://vault.example.com", cfg.Adapter.HTTPAddress)
	assert.Equal(t, DefaultKDFIterations, cfg.Vault.KDFIterations)
}
