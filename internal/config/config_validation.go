// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/crypto/bcrypt"
)

// validate checks the merged server configuration and reports every problem.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if cfg.App.TokenSignKey == "" {
		errs = append(errs, fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs))
	}
	if cfg.App.TokenIssuer == "" || cfg.App.TokenDuration <= 0 {
		errs = append(errs, fmt.Errorf("%w: token issuer and duration are required", ErrInvalidAppConfigs))
	}
	if cfg.App.BcryptCost < bcrypt.MinCost || cfg.App.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("%w: bcrypt cost %d out of range", ErrInvalidAppConfigs, cfg.App.BcryptCost))
	}
	if cfg.Storage.DB.DSN == "" {
		errs = append(errs, fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs))
	}
	if cfg.Server.HTTPAddress == "" {
		errs = append(errs, fmt.Errorf("%w: HTTP address is required", ErrInvalidServerConfigs))
	}
	if cfg.Server.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: request timeout must be positive", ErrInvalidServerConfigs))
	}
	if cfg.Server.AuthRateLimit <= 0 || cfg.Server.AuthRateWindow <= 0 {
		errs = append(errs, fmt.Errorf("%w: auth rate limit and window must be positive", ErrInvalidServerConfigs))
	}
	if cfg.Workers.EntryExpiryInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: entry expiry interval must be positive", ErrInvalidWorkerConfigs))
	}

	return errors.Join(errs...)
}

func (cfg *ClientConfig) validate() error {
	var errs []error

	if cfg.Storage.Cache.DSN == "" {
		errs = append(errs, fmt.Errorf("%w: cache DSN is required", ErrInvalidStorageConfigs))
	}
	if u, err := url.Parse(cfg.Adapter.HTTPAddress); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("%w: server URL %q is invalid", ErrInvalidAdapterConfigs, cfg.Adapter.HTTPAddress))
	}
	if cfg.Adapter.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: request timeout must be positive", ErrInvalidAdapterConfigs))
	}
	if cfg.Vault.KDFIterations < MinKDFIterations {
		errs = append(errs, fmt.Errorf("%w: kdf iterations must be at least %d", ErrInvalidVaultConfigs, MinKDFIterations))
	}
	if cfg.Vault.AutoLockTimeout <= 0 || cfg.Vault.ClipboardClearDelay <= 0 {
		errs = append(errs, fmt.Errorf("%w: auto-lock timeout and clipboard delay must be positive", ErrInvalidVaultConfigs))
	}
	if cfg.Workers.CacheRefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache refresh interval must be positive", ErrInvalidWorkerConfigs))
	}

	return errors.Join(errs...)
}
