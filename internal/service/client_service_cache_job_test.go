// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-key-vault/internal/logger"
)

// spyRefresher counts RefreshCache calls.
type spyRefresher struct {
	calls atomic.Int64
	err   error
}

func (s *spyRefresher) RefreshCache(context.Context) error {
	s.calls.Add(1)
	return s.err
}

func always() bool { return true }

// ── Run / Stop ───────────────────────────────────────────────────────────────

func TestCacheRefreshJob_RunCallsRefresh(t *testing.T) {
	spy := &spyRefresher{}
	job := NewCacheRefreshJob(spy, always, 10*time.Millisecond, logger.Nop())

	job.Run(context.Background())
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	got := spy.calls.Load()
	assert.GreaterOrEqual(t, got, int64(3), "RefreshCache called %d times", got)
}

func TestCacheRefreshJob_SkipsWhileLoggedOut(t *testing.T) {
	spy := &spyRefresher{}
	var loggedIn atomic.Bool
	job := NewCacheRefreshJob(spy, loggedIn.Load, 10*time.Millisecond, logger.Nop())

	job.Run(context.Background())
	time.Sleep(35 * time.Millisecond)
	assert.Zero(t, spy.calls.Load())

	loggedIn.Store(true)
	time.Sleep(35 * time.Millisecond)
	job.Stop()
	assert.Positive(t, spy.calls.Load())
}

func TestCacheRefreshJob_StopStopsGoroutine(t *testing.T) {
	spy := &spyRefresher{}
	job := NewCacheRefreshJob(spy, always, 10*time.Millisecond, logger.Nop())

	job.Run(context.Background())
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	callsAfterStop := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, callsAfterStop, spy.calls.Load(), "no refresh after Stop")
}

func TestCacheRefreshJob_StopBeforeRun(t *testing.T) {
	job := NewCacheRefreshJob(&spyRefresher{}, always, time.Second, logger.Nop())
	assert.NotPanics(t, func() { job.Stop() })
}

func TestCacheRefreshJob_ContextCancel(t *testing.T) {
	spy := &spyRefresher{}
	job := NewCacheRefreshJob(spy, always, 10*time.Millisecond, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	job.Run(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after context cancel")
	}
}

func TestCacheRefreshJob_ErrorsKeepJobRunning(t *testing.T) {
	spy := &spyRefresher{err: errors.New("offline")}
	job := NewCacheRefreshJob(spy, always, 10*time.Millisecond, logger.Nop())

	job.Run(context.Background())
	time.Sleep(45 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, spy.calls.Load(), int64(2))
}

func TestNewCacheRefreshJob_DefaultInterval(t *testing.T) {
	job := NewCacheRefreshJob(&spyRefresher{}, always, 0, logger.Nop())
	require.Equal(t, defaultCacheRefreshInterval, job.(*cacheRefreshJob).interval)
}
