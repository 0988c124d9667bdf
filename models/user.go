// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// User represents an account entity used for authentication and authorization.
//
// The account password only authenticates against the server. It is unrelated
// to the master secret, which never leaves the client.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"-"`

	// Login is the unique user login identifier.
	Login string `json:"login"`

	// Password is the plaintext account password as sent by the client.
	// It is only present on register and login requests.
	Password string `json:"password,omitempty"`

	// PasswordHash is the bcrypt hash of Password. Never serialized.
	PasswordHash string `json:"-"`

	// Verifier is a bundle of a fixed marker encrypted under the master secret.
	// The client trial-decrypts it to unlock a session.
	Verifier EncryptedBundle `json:"verifier"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
