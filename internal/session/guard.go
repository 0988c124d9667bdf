// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session holds the client's lock state machine.
//
// A [Guard] starts Locked. Unlock moves it to Unlocked after a successful
// trial decryption of a verifier bundle. Activity pushes the inactivity
// deadline forward; when the deadline passes, or Lock is called, the guard
// scrubs the master secret and every remembered plaintext and returns to Locked.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/utils"
	"github.com/MKhiriev/go-key-vault/internal/validators"
	"github.com/MKhiriev/go-key-vault/models"
)

// DefaultAutoLockTimeout is the inactivity period after which a session locks.
const DefaultAutoLockTimeout = 5 * time.Minute

var (
	ErrSessionLocked = errors.New("session is locked")
	ErrNoVerifier    = errors.New("no verifier bundle available")
)

// State is the lock state of a [Guard].
type State int

const (
	Locked State = iota
	Unlocked
)

func (s State) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

// LockReason tells lock hooks why the session locked.
type LockReason string

const (
	ReasonManual  LockReason = "manual"
	ReasonTimeout LockReason = "timeout"
)

// VerifierSource supplies the bundles an unlock attempt is checked against.
type VerifierSource interface {
	VerifierBundles(ctx context.Context) ([]models.EncryptedBundle, error)
}

// VerifierSourceFunc adapts a function to [VerifierSource].
type VerifierSourceFunc func(ctx context.Context) ([]models.EncryptedBundle, error)

func (f VerifierSourceFunc) VerifierBundles(ctx context.Context) ([]models.EncryptedBundle, error) {
	return f(ctx)
}

// Guard owns the master secret while the session is unlocked.
type Guard struct {
	encryption crypto.EncryptionService
	verifiers  VerifierSource
	clock      utils.Clock
	timeout    time.Duration
	logger     *logger.Logger

	mu         sync.Mutex
	state      State
	secret     []byte
	deadline   time.Time
	timer      utils.Timer
	generation uint64
	revealed   map[string][]byte
	onLock     []func(LockReason)
}

// Option configures a [Guard].
type Option func(*Guard)

// WithClock replaces the system clock.
func WithClock(c utils.Clock) Option {
	return func(g *Guard) { g.clock = c }
}

// WithTimeout sets the inactivity timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(g *Guard) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets the guard's logger.
func WithLogger(l *logger.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

// NewGuard returns a Locked guard.
func NewGuard(encryption crypto.EncryptionService, verifiers VerifierSource, opts ...Option) *Guard {
	g := &Guard{
		encryption: encryption,
		verifiers:  verifiers,
		clock:      utils.SystemClock(),
		timeout:    DefaultAutoLockTimeout,
		logger:     logger.Nop(),
		state:      Locked,
		revealed:   make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OnLock registers fn to run after every transition to Locked.
// Hooks run without the guard's lock held.
func (g *Guard) OnLock(fn func(LockReason)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onLock = append(g.onLock, fn)
}

// Unlock verifies masterSecret by trial-decrypting the verifier bundles and,
// on success, holds it until the deadline. A wrong secret yields
// [validators.ErrInvalidMasterSecret] and leaves the state unchanged.
//
// Unlock attempts and lock transitions are serialized.
func (g *Guard) Unlock(ctx context.Context, masterSecret string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	bundles, err := g.verifiers.VerifierBundles(ctx)
	if err != nil {
		return fmt.Errorf("loading verifier: %w", err)
	}
	if len(bundles) == 0 {
		return ErrNoVerifier
	}

	verified := false
	for _, bundle := range bundles {
		if err = ctx.Err(); err != nil {
			return err
		}
		if _, err = g.encryption.Decrypt(bundle, masterSecret); err == nil {
			verified = true
			break
		}
		if !errors.Is(err, crypto.ErrDecryptionFailed) {
			return fmt.Errorf("verifying master secret: %w", err)
		}
	}
	if !verified {
		g.logger.Warn().Str("func", "Guard.Unlock").Msg("unlock rejected")
		return validators.ErrInvalidMasterSecret
	}

	crypto.Wipe(g.secret)
	g.secret = []byte(masterSecret)
	g.state = Unlocked
	g.resetLocked()

	g.logger.Info().Str("func", "Guard.Unlock").Time("deadline", g.deadline).Msg("session unlocked")
	return nil
}

// Lock scrubs the master secret and remembered plaintexts. Locking a locked
// guard is a no-op.
func (g *Guard) Lock() {
	g.mu.Lock()
	hooks := g.lockLocked(ReasonManual)
	g.mu.Unlock()

	runHooks(hooks, ReasonManual)
}

// ResetAutoLock pushes the deadline to now plus the timeout. Activity after
// the deadline does not revive the session; the guard locks instead.
func (g *Guard) ResetAutoLock() error {
	g.mu.Lock()
	if g.state != Unlocked {
		g.mu.Unlock()
		return ErrSessionLocked
	}
	if !g.clock.Now().Before(g.deadline) {
		hooks := g.lockLocked(ReasonTimeout)
		g.mu.Unlock()
		runHooks(hooks, ReasonTimeout)
		return ErrSessionLocked
	}
	g.resetLocked()
	g.mu.Unlock()
	return nil
}

// State returns the current state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Deadline returns the auto-lock deadline. ok is false while locked.
func (g *Guard) Deadline() (deadline time.Time, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Unlocked {
		return time.Time{}, false
	}
	return g.deadline, true
}

// WithSecret calls fn with the master secret. The copy handed to fn is scrubbed
// when fn returns and must not be retained. A nil result from fn counts as
// activity and resets the deadline.
//
// A guard whose deadline has passed locks itself here even if its timer has
// not fired yet.
func (g *Guard) WithSecret(fn func(masterSecret []byte) error) error {
	g.mu.Lock()
	if g.state != Unlocked {
		g.mu.Unlock()
		return ErrSessionLocked
	}
	if !g.clock.Now().Before(g.deadline) {
		hooks := g.lockLocked(ReasonTimeout)
		g.mu.Unlock()
		runHooks(hooks, ReasonTimeout)
		return ErrSessionLocked
	}
	secret := make([]byte, len(g.secret))
	copy(secret, g.secret)
	generation := g.generation
	g.mu.Unlock()

	defer crypto.Wipe(secret)

	if err := fn(secret); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Unlocked && g.generation == generation {
		g.resetLocked()
	}
	return nil
}

// Remember caches a revealed plaintext under key until the session locks.
func (g *Guard) Remember(key, plaintext string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Unlocked {
		return ErrSessionLocked
	}
	crypto.Wipe(g.revealed[key])
	g.revealed[key] = []byte(plaintext)
	return nil
}

// Recall returns a plaintext cached by Remember.
func (g *Guard) Recall(key string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Unlocked {
		return "", false
	}
	value, ok := g.revealed[key]
	if !ok {
		return "", false
	}
	return string(value), true
}

// Forget drops a single cached plaintext.
func (g *Guard) Forget(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	crypto.Wipe(g.revealed[key])
	delete(g.revealed, key)
}

// resetLocked reschedules the auto-lock timer. Must hold g.mu.
func (g *Guard) resetLocked() {
	if g.timer != nil {
		g.timer.Stop()
	}
	g.generation++
	generation := g.generation
	g.deadline = g.clock.Now().Add(g.timeout)
	g.timer = g.clock.AfterFunc(g.timeout, func() { g.expire(generation) })
}

func (g *Guard) expire(generation uint64) {
	g.mu.Lock()
	if g.state != Unlocked || g.generation != generation {
		g.mu.Unlock()
		return
	}
	hooks := g.lockLocked(ReasonTimeout)
	g.mu.Unlock()

	runHooks(hooks, ReasonTimeout)
}

// lockLocked performs the transition to Locked and returns the hooks to run.
// Must hold g.mu.
func (g *Guard) lockLocked(reason LockReason) []func(LockReason) {
	if g.state != Unlocked {
		return nil
	}

	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.generation++

	crypto.Wipe(g.secret)
	g.secret = nil
	for key, value := range g.revealed {
		crypto.Wipe(value)
		delete(g.revealed, key)
	}
	g.state = Locked
	g.deadline = time.Time{}

	g.logger.Info().Str("func", "Guard.lock").Str("reason", string(reason)).Msg("session locked")

	hooks := make([]func(LockReason), len(g.onLock))
	copy(hooks, g.onLock)
	return hooks
}

func runHooks(hooks []func(LockReason), reason LockReason) {
	for _, hook := range hooks {
		hook(reason)
	}
}
