// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/logger"
)

const defaultCacheRefreshInterval = time.Minute

type cacheRefresher interface {
	RefreshCache(ctx context.Context) error
}

type cacheRefreshJob struct {
	refresher cacheRefresher
	loggedIn  func() bool
	interval  time.Duration
	logger    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCacheRefreshJob creates a job that calls RefreshCache on a ticker while
// loggedIn reports true. A non-positive interval defaults to one minute. The
// job is idle until Run is called.
func NewCacheRefreshJob(refresher cacheRefresher, loggedIn func() bool, interval time.Duration, logger *logger.Logger) ClientCacheJob {
	if interval <= 0 {
		interval = defaultCacheRefreshInterval
	}
	return &cacheRefreshJob{refresher: refresher, loggedIn: loggedIn, interval: interval, logger: logger}
}

// Run implements ClientCacheJob. The goroutine exits when ctx is cancelled or
// Stop is called.
func (j *cacheRefreshJob) Run(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if !j.loggedIn() {
					continue
				}
				if err := j.refresher.RefreshCache(jobCtx); err != nil {
					j.logger.Debug().Err(err).Str("func", "cacheRefreshJob.Run").Msg("cache refresh skipped")
				}
			}
		}
	}()
}

// Stop implements ClientCacheJob. Safe to call when the job is not running.
func (j *cacheRefreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
