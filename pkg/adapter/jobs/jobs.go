// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package jobs contains the background jobs which are scheduled with
// the robfig/cron scheduler while the web server is running.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/vehicles/pkg/core/model"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the health probe every 30 seconds.
const DefaultSchedule = "@every 30s"

// Checker is the subset of the healthuc.UseCase which is used by the
// HealthProbeJob.
type Checker interface {
	Check(ctx context.Context) ([]model.CollaboratorStatus, bool)
}

// HealthProbeJob refreshes the collaborators health snapshot
// periodically.
type HealthProbeJob struct {
	checker  Checker
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewHealthProbeJob creates a job which runs checker.Check on the
// schedule cron spec (supporting the seconds field and descriptors
// like @every 10s). Each run is bounded by timeout.
func NewHealthProbeJob(
	checker Checker, schedule string, timeout time.Duration,
	logger *slog.Logger,
) *HealthProbeJob {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &HealthProbeJob{
		checker:  checker,
		schedule: schedule,
		timeout:  timeout,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "health_probe_job"),
	}
}

// Run probes the collaborators once.
func (j *HealthProbeJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	statuses, healthy := j.checker.Check(ctx)
	j.logger.DebugContext(ctx, "Health probe finished",
		"healthy", healthy, "collaborators", len(statuses))
}

// Start schedules the job and starts the scheduler. The collaborators
// are probed once immediately, so the health snapshot is available
// before the first scheduled run.
func (j *HealthProbeJob) Start() error {
	if _, err := j.cron.AddJob(j.schedule, j); err != nil {
		return fmt.Errorf("scheduling %q: %w", j.schedule, err)
	}
	go j.Run()
	j.cron.Start()
	j.logger.Info("Health probe job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running probe to finish.
func (j *HealthProbeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Health probe job stopped")
}
