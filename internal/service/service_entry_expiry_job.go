// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/utils"
	"github.com/MKhiriev/go-key-vault/internal/workers"
)

const defaultEntryExpiryInterval = time.Hour

type expiredEntryDeactivator interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// entryExpiryJob soft-deletes entries whose ExpiresAt has passed. Expired
// rows stay in the table; they only stop being active.
type entryExpiryJob struct {
	entries  expiredEntryDeactivator
	clock    utils.Clock
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEntryExpiryJob creates a job that sweeps expired entries once when it
// starts and then every interval. A non-positive interval defaults to one
// hour.
func NewEntryExpiryJob(entries expiredEntryDeactivator, clock utils.Clock, interval time.Duration, logger *logger.Logger) workers.Worker {
	if interval <= 0 {
		interval = defaultEntryExpiryInterval
	}
	return &entryExpiryJob{entries: entries, clock: clock, interval: interval, logger: logger}
}

func (j *entryExpiryJob) Run(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		j.sweep(jobCtx)

		t := time.NewTicker(j.interval)
		defer t.Stop()
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.sweep(jobCtx)
			}
		}
	}()
}

func (j *entryExpiryJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *entryExpiryJob) sweep(ctx context.Context) {
	now := j.clock.Now()
	expired, err := j.entries.DeactivateExpired(ctx, now)
	if err != nil {
		if ctx.Err() == nil {
			j.logger.Err(err).Str("func", "entryExpiryJob.sweep").Msg("failed to deactivate expired entries")
		}
		return
	}
	if expired > 0 {
		j.logger.Info().
			Str("func", "entryExpiryJob.sweep").
			Int64("deactivated", expired).
			Time("now", now).
			Msg("expired entries deactivated")
	}
}
