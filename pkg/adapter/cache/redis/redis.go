// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package redis keeps the idempotency keys of the car creation
// requests in a Redis server. A key is reserved atomically with SETNX
// and expires after a TTL, so a replayed request within the TTL is
// detected even across multiple service instances.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is the idempotency keys lifetime when no TTL is given.
const DefaultTTL = 24 * time.Hour

// Store represents the idempotency keys store.
type Store struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// Option is a functional option for the Store.
type Option func(*Store)

// WithPrefix option sets the keys prefix. Default is "vehicles:idem".
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

// WithTTL option sets the keys lifetime.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// New creates a Store which uses the rdb client. The rdb will be closed
// by the Store.Close method.
func New(rdb *redis.Client, opts ...Option) *Store {
	s := &Store{
		rdb:    rdb,
		prefix: "vehicles:idem",
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial connects to the Redis server at addr and pings it.
func Dial(ctx context.Context, addr string, opts ...Option) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("pinging redis at %q: %w", addr, err)
	}
	return New(rdb, opts...), nil
}

func (s *Store) key(k string) string {
	return s.prefix + ":" + k
}

// Reserve records the k idempotency key. It returns false if k was
// reserved before and has not expired yet.
func (s *Store) Reserve(ctx context.Context, k string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, s.key(k), time.Now().Unix(), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("SETNX: %w", err)
	}
	return ok, nil
}

// Release forgets the k idempotency key, so it may be reserved again.
func (s *Store) Release(ctx context.Context, k string) error {
	if err := s.rdb.Del(ctx, s.key(k)).Err(); err != nil {
		return fmt.Errorf("DEL: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (s *Store) Close() error {
	return s.rdb.Close()
}
