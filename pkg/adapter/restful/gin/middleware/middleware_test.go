// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/vehicles/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/vehicles/pkg/core/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(e *gin.Engine, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	e.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	var seen string
	e := gin.New()
	e.Use(middleware.RequestID())
	e.GET("/", func(c *gin.Context) {
		seen, _ = log.RequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := serve(e, http.MethodGet, "/", map[string]string{
		middleware.HeaderRequestID: "abc-123",
	})
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.HeaderRequestID))

	w = serve(e, http.MethodGet, "/", nil)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err, "a UUID must be generated")
	assert.Equal(t, seen, w.Header().Get(middleware.HeaderRequestID))
}

func TestRateLimit(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 2)
	e := gin.New()
	e.Use(middleware.RateLimit(rl))
	e.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/", nil).Code)
	w := serve(e, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, 1, rl.Len(), "all requests come from one client")
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 1)
	ok, _ := rl.Allow("a")
	assert.True(t, ok)
	ok, wait := rl.Allow("a")
	assert.False(t, ok)
	assert.Positive(t, wait)
	ok, _ = rl.Allow("b")
	assert.True(t, ok)
	assert.Equal(t, 2, rl.Len())
}

type store struct {
	mu       sync.Mutex
	keys     map[string]bool
	err      error
	released []string
}

func (s *store) Reserve(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *store) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	s.released = append(s.released, key)
	return nil
}

func idempotentEngine(s *store, status *int) *gin.Engine {
	e := gin.New()
	e.POST("/cars", middleware.Idempotency(s), func(c *gin.Context) {
		c.Status(*status)
	})
	return e
}

func TestIdempotency(t *testing.T) {
	s := &store{keys: map[string]bool{}}
	status := http.StatusCreated
	e := idempotentEngine(s, &status)
	key := map[string]string{middleware.HeaderIdempotencyKey: "k1"}

	assert.Equal(t, http.StatusCreated,
		serve(e, http.MethodPost, "/cars", key).Code)
	assert.Equal(t, http.StatusConflict,
		serve(e, http.MethodPost, "/cars", key).Code)
	assert.Equal(t, http.StatusCreated,
		serve(e, http.MethodPost, "/cars", nil).Code,
		"requests without a key are not checked")
	assert.Equal(t, http.StatusCreated,
		serve(e, http.MethodPost, "/cars", nil).Code)
}

func TestIdempotencyReleasesFailedRequests(t *testing.T) {
	s := &store{keys: map[string]bool{}}
	status := http.StatusBadRequest
	e := idempotentEngine(s, &status)
	key := map[string]string{middleware.HeaderIdempotencyKey: "k1"}

	assert.Equal(t, http.StatusBadRequest,
		serve(e, http.MethodPost, "/cars", key).Code)
	require.Len(t, s.released, 1)
	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated,
		serve(e, http.MethodPost, "/cars", key).Code,
		"a failed request may be retried with the same key")
}

func TestIdempotencyStoreDown(t *testing.T) {
	s := &store{keys: map[string]bool{}, err: errors.New("connection refused")}
	status := http.StatusCreated
	e := idempotentEngine(s, &status)
	key := map[string]string{middleware.HeaderIdempotencyKey: "k1"}
	assert.Equal(t, http.StatusCreated,
		serve(e, http.MethodPost, "/cars", key).Code)
	assert.Equal(t, http.StatusCreated,
		serve(e, http.MethodPost, "/cars", key).Code)
}
