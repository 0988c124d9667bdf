// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	enter   key.Binding
	esc     key.Binding
	quit    key.Binding
	exit    key.Binding
	lock    key.Binding
	reveal  key.Binding
	copy    key.Binding
	delete  key.Binding
	refresh key.Binding
	yes     key.Binding
	no      key.Binding
}

var keys = keyMap{
	enter:   key.NewBinding(key.WithKeys("enter")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	quit:    key.NewBinding(key.WithKeys("ctrl+c")),
	exit:    key.NewBinding(key.WithKeys("q")),
	lock:    key.NewBinding(key.WithKeys("l")),
	reveal:  key.NewBinding(key.WithKeys("r")),
	copy:    key.NewBinding(key.WithKeys("c")),
	delete:  key.NewBinding(key.WithKeys("d")),
	refresh: key.NewBinding(key.WithKeys("g")),
	yes:     key.NewBinding(key.WithKeys("y")),
	no:      key.NewBinding(key.WithKeys("n")),
}
