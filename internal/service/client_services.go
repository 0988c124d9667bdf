// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-key-vault/internal/adapter"
	"github.com/MKhiriev/go-key-vault/internal/clipboard"
	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/keyring"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/session"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/internal/utils"
)

// ClientServices groups the client-side services the UI and CLI use.
type ClientServices struct {
	// AuthService handles account registration, login and the saved token.
	AuthService  ClientAuthService
	// VaultService is the only path to plaintext; it owns the session guard.
	VaultService VaultService
	// CacheJob refreshes the local cache in the background while logged in.
	CacheJob     ClientCacheJob
}

// NewClientServices wires the session guard, clipboard guard and
// encryption service from cfg and builds the client services around them.
func NewClientServices(
	cache store.EntryCache,
	serverAdapter adapter.ServerAdapter,
	tokens keyring.TokenStore,
	clipboardWriter clipboard.Writer,
	cfg config.ClientConfig,
	logger *logger.Logger,
) *ClientServices {
	encryption := crypto.NewEncryptionService(crypto.WithIterations(cfg.Vault.KDFIterations))
	clock := utils.SystemClock()

	guard := session.NewGuard(encryption, NewVerifierSource(serverAdapter, cache),
		session.WithClock(clock),
		session.WithTimeout(cfg.Vault.AutoLockTimeout),
		session.WithLogger(logger),
	)
	clipboardGuard := clipboard.NewGuard(clipboardWriter, clock, cfg.Vault.ClipboardClearDelay, logger)

	authSvc := NewClientAuthService(serverAdapter, tokens, encryption, cfg.Adapter.HTTPAddress, logger)
	vaultSvc := NewVaultService(serverAdapter, cache, guard, encryption, clipboardGuard, logger)

	return &ClientServices{
		AuthService:  authSvc,
		VaultService: vaultSvc,
		CacheJob:     NewCacheRefreshJob(vaultSvc, authSvc.LoggedIn, cfg.Workers.CacheRefreshInterval, logger),
	}
}
