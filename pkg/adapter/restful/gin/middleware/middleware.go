// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package middleware contains the gin middlewares of the REST API,
// namely, the request ID tagging, the per client rate limiting, and
// the idempotency keys checking of creation requests.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/vehicles/pkg/core/log"
)

// HeaderRequestID is the request (and response) header which carries
// the request ID.
const HeaderRequestID = "X-Request-ID"

const maxRequestIDLen = 128

// RequestID tags each request with an ID which is taken from the
// X-Request-ID header, or is generated as a random UUID otherwise.
// The ID is echoed in the response headers and is stored in the
// request context, so it is logged by the core log package.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.New().String()
		}
		c.Header(HeaderRequestID, id)
		ctx := log.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
