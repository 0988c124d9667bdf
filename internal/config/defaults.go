// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

const (
	DefaultKDFIterations = 600_000
	// MinKDFIterations is the lowest PBKDF2 work factor the client accepts.
	MinKDFIterations = 100_000

	DefaultAutoLockTimeout      = 5 * time.Minute
	DefaultClipboardClearDelay  = 30 * time.Second
	DefaultCacheRefreshInterval = time.Minute
	DefaultEntryExpiryInterval  = time.Hour

	DefaultAuthRateLimit  = 10
	DefaultAuthRateWindow = time.Minute

	DefaultBcryptCost = 12
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogLevel:      "info",
			TokenIssuer:   "go-key-vault",
			TokenDuration: 24 * time.Hour,
			BcryptCost:    DefaultBcryptCost,
		},
		Storage: Storage{
			Cache: Cache{DSN: "file:vault-cache.db?_foreign_keys=on"},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			GRPCAddress:    "localhost:9090",
			RequestTimeout: 30 * time.Second,
			AuthRateLimit:  DefaultAuthRateLimit,
			AuthRateWindow: DefaultAuthRateWindow,
		},
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:8080",
			RequestTimeout: 10 * time.Second,
		},
		Vault: Vault{
			KDFIterations:       DefaultKDFIterations,
			AutoLockTimeout:     DefaultAutoLockTimeout,
			ClipboardClearDelay: DefaultClipboardClearDelay,
		},
		Workers: Workers{
			CacheRefreshInterval: DefaultCacheRefreshInterval,
			EntryExpiryInterval:  DefaultEntryExpiryInterval,
		},
	}
}
