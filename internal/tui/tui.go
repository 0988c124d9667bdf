// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/internal/session"
)

type TUI struct {
	vault  service.VaultService
	logger *logger.Logger
}

func New(vault service.VaultService, logger *logger.Logger) *TUI {
	return &TUI{vault: vault, logger: logger}
}

// Run blocks until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	program := tea.NewProgram(newAppModel(ctx, t.vault), tea.WithAltScreen(), tea.WithContext(ctx))

	// Send is a no-op once the program has exited.
	t.vault.OnLock(func(reason session.LockReason) {
		program.Send(lockedMsg{reason: reason})
	})

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		t.logger.Err(err).Str("func", "TUI.Run").Msg("tui program failed")
		return fmt.Errorf("tui program failed: %w", err)
	}

	return nil
}
