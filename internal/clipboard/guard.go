// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package clipboard copies secrets to the system clipboard and wipes them a
// fixed delay later.
package clipboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/utils"
	"github.com/atotto/clipboard"
)

// DefaultClearDelay is how long a copied secret stays on the clipboard.
const DefaultClearDelay = 30 * time.Second

// Writer replaces the clipboard contents.
type Writer interface {
	WriteAll(text string) error
}

type systemWriter struct{}

func (systemWriter) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// SystemWriter returns a [Writer] backed by the OS clipboard.
func SystemWriter() Writer {
	return systemWriter{}
}

// Guard schedules a clear after every copy. Each copy gets its own clear;
// a later copy does not postpone an earlier one. Clearing is best effort.
type Guard struct {
	writer Writer
	clock  utils.Clock
	delay  time.Duration
	logger *logger.Logger

	mu      sync.Mutex
	pending map[uint64]utils.Timer
	nextID  uint64
}

// NewGuard returns a Guard. A non-positive delay selects [DefaultClearDelay].
func NewGuard(writer Writer, clock utils.Clock, delay time.Duration, log *logger.Logger) *Guard {
	if delay <= 0 {
		delay = DefaultClearDelay
	}
	if clock == nil {
		clock = utils.SystemClock()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Guard{
		writer:  writer,
		clock:   clock,
		delay:   delay,
		logger:  log,
		pending: make(map[uint64]utils.Timer),
	}
}

// Delay returns the configured clear delay.
func (g *Guard) Delay() time.Duration {
	return g.delay
}

// Copy writes text to the clipboard and schedules a clear.
func (g *Guard) Copy(text string) error {
	if err := g.writer.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID++
	id := g.nextID
	g.pending[id] = g.clock.AfterFunc(g.delay, func() { g.clear(id) })
	return nil
}

// Close cancels pending clears and clears the clipboard now if any were pending.
func (g *Guard) Close() error {
	g.mu.Lock()
	hadPending := len(g.pending) > 0
	for id, timer := range g.pending {
		timer.Stop()
		delete(g.pending, id)
	}
	g.mu.Unlock()

	if !hadPending {
		return nil
	}
	if err := g.writer.WriteAll(""); err != nil {
		return fmt.Errorf("clear clipboard: %w", err)
	}
	return nil
}

func (g *Guard) clear(id uint64) {
	g.mu.Lock()
	delete(g.pending, id)
	g.mu.Unlock()

	if err := g.writer.WriteAll(""); err != nil {
		g.logger.Warn().Err(err).Str("func", "Guard.clear").Msg("failed to clear clipboard")
		return
	}
	g.logger.Debug().Str("func", "Guard.clear").Msg("clipboard cleared")
}
