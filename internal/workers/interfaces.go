// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the client's background jobs as one group.
//
// It defines the Worker interface and a Workers aggregate that starts and
// stops every registered worker together.
package workers

import "context"

// Worker is a background job with an explicit lifecycle.
//
// Run must not block: implementations start their own goroutine and return.
// The goroutine exits when ctx is cancelled or Stop is called. Stop blocks
// until the goroutine has finished and is safe to call on an idle worker.
type Worker interface {
	Run(ctx context.Context)
	Stop()
}
