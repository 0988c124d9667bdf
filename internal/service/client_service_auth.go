// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-key-vault/internal/adapter"
	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/keyring"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/validators"
	"github.com/MKhiriev/go-key-vault/models"
)

// verifierMarker is the plaintext of every account's verifier bundle.
const verifierMarker = "go-key-vault:verifier:v1"

type clientAuthService struct {
	adapter    adapter.ServerAdapter
	tokens     keyring.TokenStore
	encryption crypto.EncryptionService
	policy     validators.PasswordPolicy

	// account is the keyring account the token is saved under; one per server.
	account string
	logger  *logger.Logger
}

// NewClientAuthService returns a [ClientAuthService] that saves the bearer
// token in tokens under account.
func NewClientAuthService(
	serverAdapter adapter.ServerAdapter,
	tokens keyring.TokenStore,
	encryption crypto.EncryptionService,
	account string,
	logger *logger.Logger,
) ClientAuthService {
	return &clientAuthService{
		adapter:    serverAdapter,
		tokens:     tokens,
		encryption: encryption,
		policy:     validators.NewPasswordPolicy(),
		account:    account,
		logger:     logger,
	}
}

// Register checks masterSecret against the password policy, seals a
// verifier under it and creates the account. The master secret itself never
// leaves the client.
func (a *clientAuthService) Register(ctx context.Context, login, password, masterSecret string) error {
	if err := a.policy.Validate(masterSecret).Err(); err != nil {
		return err
	}

	verifier, err := a.encryption.Encrypt(verifierMarker, masterSecret)
	if err != nil {
		return fmt.Errorf("error encrypting verifier: %w", err)
	}

	_, err = a.adapter.Register(ctx, models.User{Login: login, Password: password, Verifier: verifier})
	if err != nil {
		a.logger.Err(err).Str("func", "clientAuthService.Register").Str("login", login).Msg("registration failed")
		return mapAdapterError(err)
	}

	a.saveToken()
	return nil
}

func (a *clientAuthService) Login(ctx context.Context, login, password string) error {
	_, err := a.adapter.Login(ctx, models.User{Login: login, Password: password})
	if err != nil {
		a.logger.Err(err).Str("func", "clientAuthService.Login").Str("login", login).Msg("login failed")
		return mapAdapterError(err)
	}

	a.saveToken()
	return nil
}

// Logout drops the in-memory token and removes the saved one.
func (a *clientAuthService) Logout(_ context.Context) error {
	a.adapter.SetToken("")
	if err := a.tokens.DeleteToken(a.account); err != nil {
		return fmt.Errorf("error forgetting token: %w", err)
	}
	return nil
}

func (a *clientAuthService) RestoreSession(_ context.Context) error {
	token, err := a.tokens.LoadToken(a.account)
	if errors.Is(err, keyring.ErrTokenNotFound) {
		return ErrNotLoggedIn
	}
	if err != nil {
		return fmt.Errorf("error restoring session: %w", err)
	}

	a.adapter.SetToken(token)
	if _, err = a.adapter.UserID(); err != nil {
		a.adapter.SetToken("")
		_ = a.tokens.DeleteToken(a.account)
		return fmt.Errorf("%w: saved token is unreadable", ErrNotLoggedIn)
	}
	return nil
}

func (a *clientAuthService) LoggedIn() bool {
	return a.adapter.Token() != ""
}

// saveToken persists the adapter's token. A keyring failure only costs the
// next run its session, so it is logged and not returned.
func (a *clientAuthService) saveToken() {
	if err := a.tokens.SaveToken(a.account, a.adapter.Token()); err != nil {
		a.logger.Warn().Err(err).Str("func", "clientAuthService.saveToken").Msg("token not saved to keyring")
	}
}
