// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/vehicles/pkg/adapter/config/cfg1"
	"github.com/momeni/vehicles/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/vehicles/pkg/adapter/restful/gin"
	"github.com/momeni/vehicles/pkg/adapter/restful/gin/carsrs"
	"github.com/momeni/vehicles/pkg/adapter/restful/gin/healthrs"
	"github.com/momeni/vehicles/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/vehicles/pkg/core/repo"
	"github.com/momeni/vehicles/pkg/core/usecase/carsuc"
	"github.com/momeni/vehicles/pkg/core/usecase/healthuc"
)

const rateLimiterCleanupPeriod = 2 * time.Minute

// Services contains the use cases and the optional middleware stores
// which are exposed by the REST API.
type Services struct {
	Cars   *carsuc.UseCase
	Health *healthuc.UseCase

	// Idempotency checks the Idempotency-Key header of the car creation
	// requests, if it is not nil.
	Idempotency middleware.IdempotencyStore

	// RateLimiter limits the cars requests per client, if it is not nil.
	RateLimiter *middleware.RateLimiter
}

// Mount registers the resources of s use cases on the e engine.
// The health resource is not rate limited.
func Mount(e *gin.Engine, s Services) {
	r := e.Group("/")
	if s.RateLimiter != nil {
		r.Use(middleware.RateLimit(s.RateLimiter))
	}
	var create []gin.HandlerFunc
	if s.Idempotency != nil {
		create = append(create, middleware.Idempotency(s.Idempotency))
	}
	carsrs.Register(r, s.Cars, create...)
	healthrs.Register(e, s.Health)
}

// Register instantiates relevant repositories, collaborator clients,
// and use cases based on the c configuration settings, and mounts
// their resources on the e engine. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. The health probing job and the rate
// limiter janitor are started too. The returned stop function stops
// them and releases the idempotency store. It must be called after
// the web server is shut down.
func Register(
	ctx context.Context, e *gin.Engine, p repo.Pool, c *cfg1.Config,
) (stop func() error, err error) {
	cs := c.Collaborators
	pr, mp, err := cs.Clients()
	if err != nil {
		return nil, fmt.Errorf("creating collaborator clients: %w", err)
	}
	cars, err := cs.NewCarsUseCase(p, carsrp.New(), pr, mp)
	if err != nil {
		return nil, fmt.Errorf("creating cars use case: %w", err)
	}
	health, err := cs.NewHealthUseCase(pr, mp)
	if err != nil {
		return nil, fmt.Errorf("creating health use case: %w", err)
	}
	s := Services{Cars: cars, Health: health}

	store, err := c.Redis.IdempotencyStore(ctx)
	if err != nil {
		return nil, err
	}
	if store != nil {
		s.Idempotency = store
	}
	ctx, cancel := context.WithCancel(ctx)
	if s.RateLimiter = c.Gin.NewRateLimiter(); s.RateLimiter != nil {
		s.RateLimiter.StartJanitor(ctx, rateLimiterCleanupPeriod)
	}
	job := cs.NewHealthJob(health, 2, slog.Default())
	if err = job.Start(); err != nil {
		cancel()
		if store != nil {
			err = errors.Join(err, store.Close())
		}
		return nil, fmt.Errorf("starting health probe job: %w", err)
	}
	Mount(e, s)
	return func() error {
		cancel()
		job.Stop()
		if store != nil {
			return store.Close()
		}
		return nil
	}, nil
}
