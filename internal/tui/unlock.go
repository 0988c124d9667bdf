// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/MKhiriev/go-key-vault/internal/session"
)

// unlockModel holds the masked master secret input. The value is cleared as
// soon as it is submitted.
type unlockModel struct {
	input      textinput.Model
	submitting bool
	errMsg     string
	reason     session.LockReason
}

func newUnlockModel(reason session.LockReason) unlockModel {
	input := textinput.New()
	input.Placeholder = "master secret"
	input.CharLimit = 256
	input.Width = 40
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '*'
	input.Focus()

	return unlockModel{input: input, reason: reason}
}

// take returns the typed secret and empties the input.
func (m *unlockModel) take() string {
	secret := m.input.Value()
	m.input.Reset()
	return secret
}

func (m unlockModel) View() string {
	var b strings.Builder

	switch m.reason {
	case session.ReasonTimeout:
		b.WriteString(statusStyle.Render("Vault locked after inactivity."))
		b.WriteString("\n\n")
	case session.ReasonManual:
		b.WriteString(statusStyle.Render("Vault locked."))
		b.WriteString("\n\n")
	}

	b.WriteString("Master secret: ")
	b.WriteString(m.input.View())

	if m.submitting {
		b.WriteString("\n\nUnlocking...")
	}
	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}

	return renderPage("Unlock vault", b.String(), "enter: unlock")
}
