// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/models"
)

const (
	defaultListWidth  = 80
	defaultListHeight = 20
)

// entryItem adapts a VaultEntry to list.DefaultItem. Only plaintext metadata
// is shown.
type entryItem struct {
	entry   models.VaultEntry
	expired bool
}

func (i entryItem) Title() string {
	title := i.entry.Label
	if i.expired {
		title += " " + markStyle.Render("[expired]")
	}
	if !i.entry.Active {
		title += " " + markStyle.Render("[inactive]")
	}
	return title
}

func (i entryItem) Description() string {
	parts := []string{string(i.entry.Classification)}
	if i.entry.Environment != "" {
		parts = append(parts, i.entry.Environment)
	}
	if len(i.entry.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(i.entry.Tags, " #"))
	}
	return fitText(strings.Join(parts, " · "), defaultListWidth)
}

func (i entryItem) FilterValue() string {
	return i.entry.Label + " " + strings.Join(i.entry.Tags, " ")
}

type listModel struct {
	list      list.Model
	loading   bool
	fromCache bool
	total     int
}

func newListModel() listModel {
	l := list.New(nil, list.NewDefaultDelegate(), defaultListWidth, defaultListHeight)
	l.Title = "Vault entries"
	l.DisableQuitKeybindings()
	l.SetShowHelp(false)

	return listModel{list: l}
}

// setPage replaces the items. Entries expired at now are marked.
func (m *listModel) setPage(page service.EntryPage, now time.Time) tea.Cmd {
	items := make([]list.Item, 0, len(page.Entries))
	for _, entry := range page.Entries {
		items = append(items, entryItem{entry: entry, expired: entry.Expired(now)})
	}

	m.loading = false
	m.fromCache = page.FromCache
	m.total = page.Total

	m.list.Title = fmt.Sprintf("Vault entries (%d)", page.Total)
	if page.FromCache {
		m.list.Title += " [offline cache]"
	}

	return m.list.SetItems(items)
}

func (m *listModel) clear() {
	m.list.SetItems(nil)
	m.list.ResetFilter()
	m.list.Title = "Vault entries"
	m.fromCache = false
	m.total = 0
}

func (m listModel) selected() (models.VaultEntry, bool) {
	item, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return models.VaultEntry{}, false
	}
	return item.entry, true
}

func (m listModel) filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m listModel) View() string {
	if m.loading {
		return renderPage("Vault entries", "Loading...", "")
	}

	return m.list.View() + "\n" +
		helpStyle.Render("enter: open  /: filter  g: reload  l: lock  q: quit")
}
