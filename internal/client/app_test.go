// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/service"
)

// ───────────── fakes ─────────────

type fakeAuth struct {
	service.ClientAuthService

	restoreErr error
	registered []string
	loggedIn   []string
	registerFn func(login, password, masterSecret string) error
	loginErr   error
	logouts    int
}

func (f *fakeAuth) RestoreSession(context.Context) error { return f.restoreErr }

func (f *fakeAuth) Register(_ context.Context, login, password, masterSecret string) error {
	f.registered = append(f.registered, login)
	if f.registerFn != nil {
		return f.registerFn(login, password, masterSecret)
	}
	return nil
}

func (f *fakeAuth) Login(_ context.Context, login, _ string) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = append(f.loggedIn, login)
	return nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return nil
}

type fakeVault struct {
	service.VaultService
	closed int
}

func (f *fakeVault) Close() error {
	f.closed++
	return nil
}

type fakeJob struct {
	events *[]string
}

func (f *fakeJob) Run(context.Context) { *f.events = append(*f.events, "job:run") }
func (f *fakeJob) Stop()               { *f.events = append(*f.events, "job:stop") }

type fakeUI struct {
	events *[]string
	err    error
	ctx    context.Context
}

func (f *fakeUI) Run(ctx context.Context) error {
	f.ctx = ctx
	*f.events = append(*f.events, "ui:run")
	return f.err
}

type appFixture struct {
	app    *App
	auth   *fakeAuth
	vault  *fakeVault
	ui     *fakeUI
	events []string
	closed int
}

func newAppFixture() *appFixture {
	f := &appFixture{auth: &fakeAuth{}, vault: &fakeVault{}}
	f.ui = &fakeUI{events: &f.events}

	services := &service.ClientServices{
		AuthService:  f.auth,
		VaultService: f.vault,
		CacheJob:     &fakeJob{events: &f.events},
	}
	f.app = NewApp(services, f.ui, logger.Nop(), func() error {
		f.closed++
		return nil
	})
	return f
}

// ───────────── App ─────────────

func TestApp_Run_StartsWorkersAroundUI(t *testing.T) {
	f := newAppFixture()

	require.NoError(t, f.app.Run(context.Background()))

	assert.Equal(t, []string{"job:run", "ui:run", "job:stop"}, f.events)
	assert.Equal(t, 1, f.vault.closed)
	assert.Error(t, f.ui.ctx.Err(), "UI context is cancelled after Run returns")
}

func TestApp_Run_NotLoggedIn(t *testing.T) {
	f := newAppFixture()
	f.auth.restoreErr = service.ErrNotLoggedIn

	err := f.app.Run(context.Background())

	require.ErrorIs(t, err, service.ErrNotLoggedIn)
	assert.Contains(t, err.Error(), "login")
	assert.Empty(t, f.events)
	assert.Zero(t, f.vault.closed)
}

func TestApp_Run_RestoreFails(t *testing.T) {
	f := newAppFixture()
	boom := errors.New("keyring locked")
	f.auth.restoreErr = boom

	err := f.app.Run(context.Background())

	require.ErrorIs(t, err, boom)
	assert.Empty(t, f.events)
}

func TestApp_Run_UIErrorStillStops(t *testing.T) {
	f := newAppFixture()
	f.ui.err = errors.New("no tty")

	err := f.app.Run(context.Background())

	require.EqualError(t, err, "no tty")
	assert.Equal(t, []string{"job:run", "ui:run", "job:stop"}, f.events)
	assert.Equal(t, 1, f.vault.closed)
}

func TestApp_Close_Once(t *testing.T) {
	f := newAppFixture()

	require.NoError(t, f.app.Close())
	require.NoError(t, f.app.Close())

	assert.Equal(t, 1, f.closed)
}

func TestApp_Close_JoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	app := NewApp(&service.ClientServices{CacheJob: &fakeJob{events: new([]string)}}, nil, logger.Nop(),
		func() error { return boom },
		func() error { return nil },
	)

	assert.ErrorIs(t, app.Close(), boom)
}
