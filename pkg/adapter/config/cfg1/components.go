// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/momeni/vehicles/pkg/adapter/cache/redis"
	"github.com/momeni/vehicles/pkg/adapter/jobs"
	"github.com/momeni/vehicles/pkg/adapter/restful/gin"
	"github.com/momeni/vehicles/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/vehicles/pkg/adapter/webclient"
	"github.com/momeni/vehicles/pkg/adapter/webclient/maps"
	"github.com/momeni/vehicles/pkg/adapter/webclient/pricing"
	"github.com/momeni/vehicles/pkg/core/repo"
	"github.com/momeni/vehicles/pkg/core/usecase/carsuc"
	"github.com/momeni/vehicles/pkg/core/usecase/healthuc"
)

// NewLogger creates a slog logger which writes to w with the `l`
// level and format.
func (l Logging) NewLogger(w io.Writer) *slog.Logger {
	var lvl slog.Level
	_ = lvl.UnmarshalText([]byte(*l.Level)) // validated on load
	opts := &slog.HandlerOptions{Level: lvl, AddSource: true}
	if *l.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// InstallLogger replaces the slog default logger with a logger which
// writes to w, and returns it.
func (c *Config) InstallLogger(w io.Writer) *slog.Logger {
	l := c.Logging.NewLogger(w)
	slog.SetDefault(l)
	return l
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. Requests are tagged by IDs before being logged.
func (g Gin) NewEngine(l *slog.Logger) *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 3)
	middlewares = append(middlewares, middleware.RequestID())
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger(l))
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery(l))
	}
	return gin.New(middlewares...)
}

// NewRateLimiter returns nil if the rate limiting is disabled.
func (g Gin) NewRateLimiter() *middleware.RateLimiter {
	if *g.RateLimit.RPS == 0 {
		return nil
	}
	return middleware.NewRateLimiter(*g.RateLimit.RPS, *g.RateLimit.Burst)
}

// Clients creates the pricing and maps collaborator clients.
func (cs Collaborators) Clients() (*pricing.Client, *maps.Client, error) {
	pc, err := webclient.New(
		pricing.Name, *cs.Pricing.Endpoint, cs.Pricing.Timeout.Std(),
	)
	if err != nil {
		return nil, nil, err
	}
	mc, err := webclient.New(
		maps.Name, *cs.Maps.Endpoint, cs.Maps.Timeout.Std(),
	)
	if err != nil {
		return nil, nil, err
	}
	return pricing.New(pc), maps.New(mc), nil
}

// NewCarsUseCase instantiates a new cars use case based on the
// enrichment policy settings.
func (cs Collaborators) NewCarsUseCase(
	p repo.Pool, r repo.Cars, pr carsuc.Pricer, l carsuc.Locator,
) (*carsuc.UseCase, error) {
	opts := make([]carsuc.Option, 0, 2)
	if *cs.Lenient {
		opts = append(opts, carsuc.WithLenientEnrichment())
	}
	if fp := *cs.FallbackPrice; fp != carsuc.DefaultFallbackPrice {
		opts = append(opts, carsuc.WithFallbackPrice(fp))
	}
	return carsuc.New(p, r, pr, l, opts...)
}

// NewHealthUseCase instantiates a health use case which probes the
// given collaborators.
func (cs Collaborators) NewHealthUseCase(
	probers ...healthuc.Prober,
) (*healthuc.UseCase, error) {
	return healthuc.New(
		probers, healthuc.WithProbeTimeout(cs.Health.ProbeTimeout.Std()),
	)
}

// NewHealthJob creates the periodic health probing job. The whole run
// is bounded by the sum of the probes timeouts.
func (cs Collaborators) NewHealthJob(
	h *healthuc.UseCase, probers int, l *slog.Logger,
) *jobs.HealthProbeJob {
	timeout := cs.Health.ProbeTimeout.Std() * time.Duration(max(probers, 1))
	return jobs.NewHealthProbeJob(h, *cs.Health.Schedule, timeout, l)
}

// IdempotencyStore connects to the Redis server. It returns nil if no
// Redis address is configured.
func (r Redis) IdempotencyStore(ctx context.Context) (*redis.Store, error) {
	if *r.Addr == "" {
		return nil, nil
	}
	s, err := redis.Dial(ctx, *r.Addr,
		redis.WithPrefix(*r.Prefix),
		redis.WithTTL(r.IdempotencyTTL.Std()),
	)
	if err != nil {
		return nil, fmt.Errorf("idempotency store: %w", err)
	}
	return s, nil
}

// LogValue implements slog.LogValuer. The database URL and the pgpass
// directory are omitted, since they may carry credentials.
// It expects c to be normalized already.
func (c *Config) LogValue() slog.Value {
	cs := c.Collaborators
	return slog.GroupValue(
		slog.Group("database",
			slog.String("host", c.Database.Host),
			slog.Int("port", c.Database.Port),
			slog.String("name", c.Database.Name),
			slog.String("role", c.Database.Role),
			slog.Bool("url", c.Database.URL != ""),
		),
		slog.String("listen", *c.Gin.Listen),
		slog.String("level", *c.Logging.Level),
		slog.Group("collaborators",
			slog.Bool("lenient", *cs.Lenient),
			slog.String("pricing", *cs.Pricing.Endpoint),
			slog.Any("pricing_timeout", cs.Pricing.Timeout),
			slog.String("maps", *cs.Maps.Endpoint),
			slog.Any("maps_timeout", cs.Maps.Timeout),
			slog.String("health_schedule", *cs.Health.Schedule),
		),
		slog.String("redis", *c.Redis.Addr),
	)
}
