// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the long-lived loops of a process (listeners, sync
// job, network monitor, janitors) as one unit.
package workers

import "context"

// Worker is a long-lived loop. Run blocks until ctx is cancelled or the
// worker fails; a nil return means a clean stop.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to [Worker].
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}
