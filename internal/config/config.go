// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container.
type StructuredConfig struct {
	App     App     `envPrefix:"APP_"`
	Storage Storage `envPrefix:"STORAGE_"`
	Server  Server  `envPrefix:"SERVER_"`
	Adapter Adapter `envPrefix:"ADAPTER_"`
	Vault   Vault   `envPrefix:"VAULT_"`
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: CONFIG
	JSONFilePath string `env:"CONFIG"`
}

// App holds logging and account-authentication settings.
type App struct {
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
	// LogFile is where the client writes its log. Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`

	// TokenSignKey signs and verifies JWTs. Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// BcryptCost is the work factor for account password hashes. Env: APP_BCRYPT_COST
	BcryptCost int `env:"BCRYPT_COST"`
}

// Storage groups the server database and the client cache.
type Storage struct {
	DB    DB    `envPrefix:"DB_"`
	Cache Cache `envPrefix:"CACHE_"`
}

// DB holds the PostgreSQL connection string.
type DB struct {
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Cache holds the client's sqlite cache location.
type Cache struct {
	// Env: STORAGE_CACHE_DSN
	DSN string `env:"DSN"`
}

// Server holds listen addresses and timeouts for the inbound transport layer.
type Server struct {
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// AuthRateLimit is how many register and login requests one client IP may
	// make per AuthRateWindow. Env: SERVER_AUTH_RATE_LIMIT
	AuthRateLimit int `env:"AUTH_RATE_LIMIT"`
	// Env: SERVER_AUTH_RATE_WINDOW
	AuthRateWindow time.Duration `env:"AUTH_RATE_WINDOW"`
}

// Adapter holds the client's view of the server.
type Adapter struct {
	// HTTPAddress is the server base URL. Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Vault holds the client-side cryptography and session settings.
type Vault struct {
	// Env: VAULT_KDF_ITERATIONS
	KDFIterations int `env:"KDF_ITERATIONS"`
	// Env: VAULT_AUTO_LOCK_TIMEOUT
	AutoLockTimeout time.Duration `env:"AUTO_LOCK_TIMEOUT"`
	// Env: VAULT_CLIPBOARD_CLEAR_DELAY
	ClipboardClearDelay time.Duration `env:"CLIPBOARD_CLEAR_DELAY"`
}

// Workers holds background job settings.
type Workers struct {
	// Env: WORKERS_CACHE_REFRESH_INTERVAL
	CacheRefreshInterval time.Duration `env:"CACHE_REFRESH_INTERVAL"`
	// EntryExpiryInterval is how often the server deactivates expired
	// entries. Env: WORKERS_ENTRY_EXPIRY_INTERVAL
	EntryExpiryInterval time.Duration `env:"ENTRY_EXPIRY_INTERVAL"`
}

// GetStructuredConfig loads and validates the server configuration from
// defaults, environment, os.Args flags and the optional JSON file.
func GetStructuredConfig() (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
	if err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}
