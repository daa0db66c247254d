// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/vehicles/pkg/core/log"
)

// HeaderIdempotencyKey is the request header which carries the
// client chosen idempotency key.
const HeaderIdempotencyKey = "Idempotency-Key"

// IdempotencyStore records the idempotency keys.
// The cache/redis package provides its production implementation.
type IdempotencyStore interface {
	// Reserve records key, returning false if it was recorded before.
	Reserve(ctx context.Context, key string) (bool, error)

	// Release forgets key, so it may be reserved again.
	Release(ctx context.Context, key string) error
}

// Idempotency rejects a request whose Idempotency-Key header was seen
// before with 409 Conflict. Requests without that header are passed
// through. If the request fails (with a 4xx or 5xx status code), its
// key is released, so the client may retry it. When the store is not
// reachable, requests are passed through without checking.
func Idempotency(store IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		key = c.Request.Method + ":" + c.FullPath() + ":" + key
		ok, err := store.Reserve(c, key)
		if err != nil {
			log.Warn(c, "idempotency check is skipped",
				log.Err("error", err))
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"detail": "request with this " + HeaderIdempotencyKey +
					" is already processed",
			})
			return
		}
		c.Next()
		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(c, key); err != nil {
				log.Warn(c, "releasing idempotency key failed",
					log.Err("error", err))
			}
		}
	}
}
