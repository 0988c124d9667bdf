// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run(ctx context.Context) error
	Close() error
}

// UI is the interactive front end run by [App].
type UI interface {
	Run(ctx context.Context) error
}

// Prompter reads answers from the user. ReadSecret never echoes input.
type Prompter interface {
	ReadLine(prompt string) (string, error)
	ReadSecret(prompt string) (string, error)
}
