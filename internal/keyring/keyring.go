// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package keyring keeps the client's bearer token in the OS keyring between
// runs. Only the JWT is stored; the master secret never is.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "go-key-vault"

var ErrTokenNotFound = errors.New("no token in keyring")

//go:generate mockgen -source=keyring.go -destination=../mock/keyring_mock.go -package=mock

// TokenStore persists one bearer token per account. The account is the
// server address, so tokens for different servers never collide.
type TokenStore interface {
	SaveToken(account, token string) error
	LoadToken(account string) (string, error)
	DeleteToken(account string) error
}

type systemKeyring struct{}

// NewTokenStore returns a [TokenStore] backed by the OS keyring.
func NewTokenStore() TokenStore {
	return systemKeyring{}
}

func (systemKeyring) SaveToken(account, token string) error {
	if err := keyring.Set(serviceName, account, token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

func (systemKeyring) LoadToken(account string) (string, error) {
	token, err := keyring.Get(serviceName, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("loading token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the account's token. A missing token is not an error.
func (systemKeyring) DeleteToken(account string) error {
	err := keyring.Delete(serviceName, account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}
