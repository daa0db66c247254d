// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/vehicles/pkg/core/log"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token-bucket limiter per client key.
// Limiters which are not used for an idle TTL are evicted by Cleanup.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a RateLimiter which allows rps requests per
// second for each client, with bursts of at most burst requests.
// A non-positive burst is replaced by max(1, rps).
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = max(1, int(math.Ceil(rps)))
	}
	return &RateLimiter{
		entries: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
		now:     time.Now,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if ent, ok := rl.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// Allow consumes one token of the key client. If no token is left, it
// returns false and the duration after which a token is available.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	lim := rl.limiter(key)
	now := rl.now()
	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d
	}
	return true, 0
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.entries)
}

// Cleanup evicts the limiters which were not used for the idle TTL.
func (rl *RateLimiter) Cleanup() {
	cutoff := rl.now().Add(-rl.idleTTL)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for k, ent := range rl.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(rl.entries, k)
		}
	}
}

// StartJanitor runs Cleanup every period until ctx is canceled.
func (rl *RateLimiter) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				rl.Cleanup()
			}
		}
	}()
}

// RateLimit rejects the requests of clients (identified by their IP
// addresses) which exceed the rl limits with 429 Too Many Requests.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := rl.Allow(c.ClientIP())
		if ok {
			c.Next()
			return
		}
		secs := max(1, int(math.Ceil(wait.Seconds())))
		c.Header("Retry-After", strconv.Itoa(secs))
		log.Warn(c, "rate limit exceeded", slog.String("client", c.ClientIP()))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"detail": "rate limit exceeded",
		})
	}
}
