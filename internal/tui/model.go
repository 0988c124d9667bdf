// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/internal/session"
	"github.com/MKhiriev/go-key-vault/models"
)

const statusTimeout = 3 * time.Second

type screen int

const (
	screenUnlock screen = iota
	screenList
	screenDetail
)

type appModel struct {
	ctx   context.Context
	vault service.VaultService
	now   func() time.Time

	current screen
	unlock  unlockModel
	list    listModel
	detail  detailModel

	status string
	err    string
}

func newAppModel(ctx context.Context, vault service.VaultService) appModel {
	m := appModel{
		ctx:     ctx,
		vault:   vault,
		now:     time.Now,
		current: screenUnlock,
		unlock:  newUnlockModel(""),
		list:    newListModel(),
	}

	if vault.Status().State == session.Unlocked {
		m.current = screenList
		m.list.loading = true
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.current == screenList {
		return m.cmdLoadEntries()
	}
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.quit) {
			return m, tea.Quit
		}
		if m.current != screenUnlock {
			if err := m.vault.ResetAutoLock(); errors.Is(err, session.ErrSessionLocked) {
				return m.applyLock(session.ReasonTimeout)
			}
		}
	case tea.WindowSizeMsg:
		m.list.list.SetSize(msg.Width-appStyle.GetHorizontalFrameSize(), msg.Height-appStyle.GetVerticalFrameSize()-1)
		return m, nil
	case lockedMsg:
		return m.applyLock(msg.reason)
	case unlockedMsg:
		m.unlock.submitting = false
		if msg.err != nil {
			m.unlock.errMsg = describeError(msg.err)
			return m, nil
		}
		m.current = screenList
		m.list.loading = true
		m.err = ""
		return m, m.cmdLoadEntries()
	case entriesLoadedMsg:
		m.list.loading = false
		if msg.err != nil {
			m.err = describeError(msg.err)
			return m, nil
		}
		m.err = ""
		return m, m.list.setPage(msg.page, m.now())
	case revealedMsg:
		m.detail.busy = false
		if m.current != screenDetail || m.detail.entry.ID != msg.id {
			return m, nil
		}
		if msg.err != nil {
			m.detail.errMsg = describeError(msg.err)
			return m, nil
		}
		revealed := msg.entry
		m.detail.revealed = &revealed
		m.detail.entry = revealed.Entry
		return m, nil
	case copiedMsg:
		m.detail.busy = false
		if msg.err != nil {
			m.detail.errMsg = describeError(msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Secret copied, clipboard clears in %s", m.vault.Status().ClipboardDelay)
		return m, cmdClearStatus()
	case deletedMsg:
		m.detail.busy = false
		if msg.err != nil {
			m.detail.errMsg = describeError(msg.err)
			return m, nil
		}
		m.detail = detailModel{}
		m.current = screenList
		m.list.loading = true
		m.status = "Entry deleted"
		return m, tea.Batch(m.cmdLoadEntries(), cmdClearStatus())
	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	switch m.current {
	case screenUnlock:
		return m.updateUnlock(msg)
	case screenList:
		return m.updateList(msg)
	case screenDetail:
		return m.updateDetail(msg)
	}

	return m, nil
}

func (m appModel) View() string {
	var body string
	switch m.current {
	case screenUnlock:
		body = m.unlock.View()
	case screenList:
		body = m.list.View()
	case screenDetail:
		body = m.detail.View(m.now())
	}

	if m.status != "" {
		body += "\n\n" + statusStyle.Render(m.status)
	}
	if m.err != "" && m.current != screenUnlock {
		body += "\n\n" + errorStyle.Render(m.err)
	}

	return appStyle.Render(body)
}

func (m appModel) updateUnlock(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, keys.enter) {
		if m.unlock.submitting {
			return m, nil
		}

		secret := m.unlock.take()
		if secret == "" {
			m.unlock.errMsg = "master secret is required"
			return m, nil
		}

		m.unlock.errMsg = ""
		m.unlock.submitting = true
		return m, m.cmdUnlock(secret)
	}

	var cmd tea.Cmd
	m.unlock.input, cmd = m.unlock.input.Update(msg)
	return m, cmd
}

func (m appModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.list.filtering() {
		switch {
		case key.Matches(keyMsg, keys.exit):
			return m, tea.Quit
		case key.Matches(keyMsg, keys.lock):
			return m.lockNow()
		case key.Matches(keyMsg, keys.refresh):
			m.list.loading = true
			return m, m.cmdLoadEntries()
		case key.Matches(keyMsg, keys.enter):
			entry, ok := m.list.selected()
			if !ok {
				return m, nil
			}
			m.detail = newDetailModel(entry)
			m.current = screenDetail
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list.list, cmd = m.list.list.Update(msg)
	return m, cmd
}

func (m appModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.detail.confirmDelete {
		switch {
		case key.Matches(keyMsg, keys.yes):
			m.detail.confirmDelete = false
			m.detail.busy = true
			return m, m.cmdDelete(m.detail.entry.ID)
		case key.Matches(keyMsg, keys.no), key.Matches(keyMsg, keys.esc):
			m.detail.confirmDelete = false
		}
		return m, nil
	}

	m.detail.errMsg = ""
	switch {
	case key.Matches(keyMsg, keys.esc):
		m.detail = detailModel{}
		m.current = screenList
	case key.Matches(keyMsg, keys.lock):
		return m.lockNow()
	case key.Matches(keyMsg, keys.reveal):
		if m.detail.revealed != nil {
			m.detail.revealed = nil
			return m, nil
		}
		m.detail.busy = true
		return m, m.cmdReveal(m.detail.entry.ID)
	case key.Matches(keyMsg, keys.copy):
		m.detail.busy = true
		return m, m.cmdCopy(m.detail.entry.ID)
	case key.Matches(keyMsg, keys.delete):
		m.detail.confirmDelete = true
	}

	return m, nil
}

func (m appModel) lockNow() (tea.Model, tea.Cmd) {
	m.vault.Lock()
	return m.applyLock(session.ReasonManual)
}

// applyLock drops every revealed value and returns to the unlock screen.
func (m appModel) applyLock(reason session.LockReason) (tea.Model, tea.Cmd) {
	m.detail = detailModel{}
	m.list.clear()
	m.unlock = newUnlockModel(reason)
	m.current = screenUnlock
	m.status = ""
	m.err = ""
	return m, textinput.Blink
}

func (m appModel) cmdUnlock(secret string) tea.Cmd {
	return func() tea.Msg {
		return unlockedMsg{err: m.vault.Unlock(m.ctx, secret)}
	}
}

func (m appModel) cmdLoadEntries() tea.Cmd {
	return func() tea.Msg {
		page, err := m.vault.List(m.ctx, models.EntryFilter{})
		return entriesLoadedMsg{page: page, err: err}
	}
}

func (m appModel) cmdReveal(id string) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.vault.Reveal(m.ctx, id)
		return revealedMsg{id: id, entry: entry, err: err}
	}
}

func (m appModel) cmdCopy(id string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: m.vault.Copy(m.ctx, id)}
	}
}

func (m appModel) cmdDelete(id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: m.vault.Delete(m.ctx, id)}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
