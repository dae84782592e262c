// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/metrics"
)

// jobFunc does one unit of work and returns the fields to log for it.
type jobFunc func(ctx context.Context) (map[string]any, error)

// periodicWorker runs job once per interval. A run that is still in progress
// when the next tick fires delays that tick instead of overlapping it.
type periodicWorker struct {
	name     string
	interval time.Duration
	job      jobFunc
	logger   *logger.Logger
}

func newPeriodicWorker(name string, interval time.Duration, job jobFunc, log *logger.Logger) *periodicWorker {
	return &periodicWorker{
		name:     name,
		interval: interval,
		job:      job,
		logger:   log.WithRole(name),
	}
}

func (w *periodicWorker) Run(ctx context.Context) {
	w.logger.Info().Dur("interval", w.interval).Msg("worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *periodicWorker) tick(ctx context.Context) {
	start := time.Now()

	fields, err := w.job(ctx)
	if err != nil {
		metrics.JobRuns.WithLabelValues(w.name, "error").Inc()
		w.logger.Err(err).Dur("duration", time.Since(start)).Msg("job failed")
		return
	}

	metrics.JobRuns.WithLabelValues(w.name, "ok").Inc()
	w.logger.Info().Fields(fields).Dur("duration", time.Since(start)).Msg("job finished")
}
