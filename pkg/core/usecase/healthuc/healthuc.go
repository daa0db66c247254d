// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package healthuc contains the collaborators health use case.
// It probes the remote collaborators (pricing and maps services) and
// keeps a snapshot of their last known statuses, so the readiness of
// this service may be reported without calling them on every request.
// Probing may be triggered periodically by a scheduler job or on demand.
package healthuc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/momeni/vehicles/pkg/core/log"
	"github.com/momeni/vehicles/pkg/core/model"
)

// Prober checks the reachability of one remote collaborator.
type Prober interface {
	Name() string
	Probe(ctx context.Context) error
}

// UseCase represents the collaborators health use case.
// It is safe to be used concurrently.
type UseCase struct {
	probers []Prober
	timeout time.Duration
	now     func() time.Time

	mu       sync.RWMutex
	statuses []model.CollaboratorStatus
}

// Option is a functional option for the health use case.
type Option func(uc *UseCase) error

// WithProbeTimeout option bounds each probe by the given timeout.
// Default timeout is 2s.
func WithProbeTimeout(d time.Duration) Option {
	return func(uc *UseCase) error {
		if d <= 0 {
			return fmt.Errorf("probe timeout (%v) is not positive", d)
		}
		if uc.timeout != 0 {
			return errors.New("probe timeout is already configured")
		}
		uc.timeout = d
		return nil
	}
}

// WithClock option replaces the time.Now function which is used for
// recording the probes time.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		uc.now = now
		return nil
	}
}

// New instantiates a health use case which probes the given probers.
func New(probers []Prober, opts ...Option) (*UseCase, error) {
	uc := &UseCase{probers: probers}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.timeout == 0 {
		uc.timeout = 2 * time.Second
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// Check probes all collaborators sequentially, records their statuses
// as the latest snapshot, and returns them. It also reports whether
// all collaborators are up.
func (uc *UseCase) Check(ctx context.Context) (
	statuses []model.CollaboratorStatus, healthy bool,
) {
	statuses = make([]model.CollaboratorStatus, 0, len(uc.probers))
	healthy = true
	for _, p := range uc.probers {
		s := uc.probe(ctx, p)
		if !s.Up {
			healthy = false
			log.Warn(ctx, "collaborator is down",
				log.Collaborator(s.Name), log.Err("error", errors.New(s.Error)))
		}
		statuses = append(statuses, s)
	}
	uc.mu.Lock()
	uc.statuses = statuses
	uc.mu.Unlock()
	return statuses, healthy
}

func (uc *UseCase) probe(ctx context.Context, p Prober) model.CollaboratorStatus {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	s := model.CollaboratorStatus{Name: p.Name(), Up: true}
	if err := p.Probe(ctx); err != nil {
		s.Up = false
		s.Error = err.Error()
	}
	s.CheckedAt = uc.now()
	return s
}

// Snapshot returns the statuses which were recorded by the last Check
// call. The ok return value is false if Check was never called.
func (uc *UseCase) Snapshot() (
	statuses []model.CollaboratorStatus, healthy, ok bool,
) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.statuses == nil {
		return nil, false, false
	}
	healthy = true
	for _, s := range uc.statuses {
		healthy = healthy && s.Up
	}
	statuses = append([]model.CollaboratorStatus(nil), uc.statuses...)
	return statuses, healthy, true
}

// Status returns the last snapshot if any, or runs a Check otherwise.
func (uc *UseCase) Status(ctx context.Context) (
	[]model.CollaboratorStatus, bool,
) {
	if statuses, healthy, ok := uc.Snapshot(); ok {
		return statuses, healthy
	}
	return uc.Check(ctx)
}
