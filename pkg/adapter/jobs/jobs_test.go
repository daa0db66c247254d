// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momeni/vehicles/pkg/adapter/jobs"
	"github.com/momeni/vehicles/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checker struct {
	calls    atomic.Int32
	deadline atomic.Bool
}

func (c *checker) Check(ctx context.Context) ([]model.CollaboratorStatus, bool) {
	if _, ok := ctx.Deadline(); ok {
		c.deadline.Store(true)
	}
	c.calls.Add(1)
	return nil, true
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealthProbeJobRunsPeriodically(t *testing.T) {
	c := &checker{}
	j := jobs.NewHealthProbeJob(c, "@every 1s", time.Second, discard())
	require.NoError(t, j.Start())
	assert.Eventually(t, func() bool {
		return c.calls.Load() >= 2
	}, 5*time.Second, 50*time.Millisecond,
		"expected the immediate run and a scheduled run")
	j.Stop()
	assert.True(t, c.deadline.Load(), "probes must be bounded")
}

func TestHealthProbeJobRejectsBadSchedule(t *testing.T) {
	j := jobs.NewHealthProbeJob(&checker{}, "every now and then",
		time.Second, discard())
	assert.Error(t, j.Start())
}

func TestHealthProbeJobRun(t *testing.T) {
	c := &checker{}
	j := jobs.NewHealthProbeJob(c, "", time.Second, discard())
	j.Run()
	assert.Equal(t, int32(1), c.calls.Load())
}
