// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer is an internal helper for the test packages.
// It starts a temporary postgres:16 container and connects to it,
// using a *postgres.Pool connection pool.
// It may be used in all integration-level test suites which require
// a real PostgreSQL DBMS server. Such tests are skipped in the -short
// mode or when no container runtime is reachable.
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/momeni/vehicles/pkg/adapter/db/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	image    = "postgres:16-alpine"
	database = "vehicles"
	username = "vehicles"
	password = "vehicles"
)

// New creates and starts up a postgres container.
// With podman, the podman.service needs to be started and the
// DOCKER_HOST environment variable needs to be initialized beforehand
// like DOCKER_HOST=unix://$XDG_RUNTIME_DIR/podman/podman.sock
// in order to be identified by this function properly.
// The ctx will be used during the container start up and shutdown,
// while the timeout will be considered only during the start up phase.
// Returned dfrs functions must be called (deferred) by the caller
// even if ok is false.
func New(ctx context.Context, timeout time.Duration, t *testing.T) (
	pg *tcpostgres.PostgresContainer,
	pool *postgres.Pool,
	dfrs []func(),
	ok bool,
) {
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration tests in short mode")
	}
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg, err := tcpostgres.Run(ctx2, image,
		tcpostgres.WithDatabase(database),
		tcpostgres.WithUsername(username),
		tcpostgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
		),
	)
	if err != nil {
		if pg != nil {
			_ = testcontainers.TerminateContainer(pg)
		}
		t.Skipf("no container runtime is available: %v", err)
	}
	dfrs = append(dfrs, func() {
		err := testcontainers.TerminateContainer(pg)
		assert.NoError(t, err, "failed to terminate test database")
	})
	u, err := pg.ConnectionString(ctx2, "sslmode=disable")
	ok = assert.NoError(t, err, "failed to find the test database URL")
	if !ok {
		return
	}
	for pool == nil {
		pool, err = postgres.NewPool(ctx2, u)
		if postgres.HasSQLState(err, postgres.CannotConnectNow) {
			continue // the database system is starting up
		}
		var netErr net.Error
		if ctx2.Err() == nil && errors.As(err, &netErr) {
			continue // tolerate network errors until a timeout
		}
		ok = assert.NoError(t, err, "cannot connect to test database")
		if !ok {
			return
		}
	}
	dfrs = append(dfrs, func() {
		err := pool.Close()
		assert.NoError(t, err, "failed to close the connections pool")
	})
	return
}
