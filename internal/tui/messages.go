// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/internal/session"
)

type unlockedMsg struct {
	err error
}

type entriesLoadedMsg struct {
	page service.EntryPage
	err  error
}

type revealedMsg struct {
	id    string
	entry service.RevealedEntry
	err   error
}

type copiedMsg struct {
	err error
}

type deletedMsg struct {
	id  string
	err error
}

// lockedMsg is sent by the session lock hook.
type lockedMsg struct {
	reason session.LockReason
}

type clearStatusMsg struct{}
