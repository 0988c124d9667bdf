// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/models"
)

// detailModel shows one entry. revealed holds decrypted plaintext and is
// dropped when the user leaves the screen or the session locks.
type detailModel struct {
	entry         models.VaultEntry
	revealed      *service.RevealedEntry
	confirmDelete bool
	busy          bool
	errMsg        string
}

func newDetailModel(entry models.VaultEntry) detailModel {
	return detailModel{entry: entry}
}

func (m detailModel) View(now time.Time) string {
	var b strings.Builder

	e := m.entry
	fmt.Fprintf(&b, "Label          │ %s\n", e.Label)
	fmt.Fprintf(&b, "Classification │ %s\n", e.Classification)
	fmt.Fprintf(&b, "Environment    │ %s\n", valueOrDash(e.Environment))
	fmt.Fprintf(&b, "Tags           │ %s\n", valueOrDash(strings.Join(e.Tags, ", ")))
	fmt.Fprintf(&b, "Description    │ %s\n", valueOrDash(e.Description))
	fmt.Fprintf(&b, "Created        │ %s\n", formatTime(&e.CreatedAt))
	fmt.Fprintf(&b, "Expires        │ %s", formatTime(e.ExpiresAt))
	if e.Expired(now) {
		b.WriteString(" " + markStyle.Render("[expired]"))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Last accessed  │ %s\n", formatTime(e.LastAccessedAt))
	fmt.Fprintf(&b, "Access count   │ %d\n", e.AccessCount)
	if e.RotatedFromID != nil {
		fmt.Fprintf(&b, "Rotated from   │ %s\n", *e.RotatedFromID)
	}

	b.WriteString("\n")
	if m.revealed != nil {
		secret := "Secret: " + m.revealed.Secret
		if m.revealed.Secondary != "" {
			secret += "\nSecondary: " + m.revealed.Secondary
		}
		if m.revealed.Notes != "" {
			secret += "\nNotes: " + m.revealed.Notes
		}
		b.WriteString(secretStyle.Render(secret))
	} else {
		b.WriteString("Secret: " + maskedSecret)
	}

	if m.busy {
		b.WriteString("\n\nWorking...")
	}
	if m.confirmDelete {
		b.WriteString("\n\n" + errorStyle.Render("Delete this entry? (y/n)"))
	}
	if m.errMsg != "" {
		b.WriteString("\n\n" + errorStyle.Render(m.errMsg))
	}

	hotKeys := "r: reveal  c: copy  d: delete  l: lock  esc: back"
	if m.revealed != nil {
		hotKeys = "r: hide  c: copy  d: delete  l: lock  esc: back"
	}

	return renderPage(e.Label, b.String(), hotKeys)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
