// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/carehome-sync/internal/logger"
)

type named struct {
	name   string
	worker Worker
}

type Workers struct {
	workers []named
	logger  *logger.Logger
}

func New(logger *logger.Logger) *Workers {
	return &Workers{logger: logger}
}

// Add registers w under name. Nil workers are ignored.
func (w *Workers) Add(name string, worker Worker) *Workers {
	if worker != nil {
		w.workers = append(w.workers, named{name: name, worker: worker})
	}
	return w
}

// Run starts every worker and blocks until all of them have returned. The
// first failure cancels the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, n := range w.workers {
		n := n
		g.Go(func() error {
			w.logger.Info().Str("worker", n.name).Msg("worker started")

			err := n.worker.Run(ctx)
			if err != nil {
				w.logger.Err(err).Str("worker", n.name).Msg("worker failed")
				return fmt.Errorf("%s: %w", n.name, err)
			}

			w.logger.Info().Str("worker", n.name).Msg("worker stopped")
			return nil
		})
	}

	return g.Wait()
}
