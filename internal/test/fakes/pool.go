// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fakes is an internal helper for the test packages.
// It provides in-memory implementations of the repo interfaces and
// the cars use case collaborators, so use cases and REST resources can
// be tested without a PostgreSQL server or remote services.
package fakes

import (
	"context"
	"errors"

	"github.com/momeni/vehicles/pkg/core/repo"
)

// Pool is an in-memory repo.Pool. It lends Conn instances which carry
// no state, so all data is kept by the fake repositories themselves.
type Pool struct {
	// Err, if not nil, is returned by Conn without calling its handler.
	Err error
}

func (p *Pool) Conn(ctx context.Context, handler repo.ConnHandler) error {
	if p.Err != nil {
		return p.Err
	}
	return handler(ctx, &Conn{})
}

// Conn is the fake repo.Conn. Its transactions are not isolated and
// are never rolled back.
type Conn struct{}

func (c *Conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.New("fakes: Exec is not supported")
}

func (c *Conn) Tx(ctx context.Context, handler repo.TxHandler) error {
	return handler(ctx, &Tx{})
}

func (c *Conn) IsConn() {
}

// Tx is the fake repo.Tx.
type Tx struct{}

func (tx *Tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.New("fakes: Exec is not supported")
}

func (tx *Tx) IsTx() {
}
