// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package manufacturersrp provides a reification of the
// repo.Manufacturers interface using the manufacturers table.
package manufacturersrp

import (
	"context"

	"github.com/momeni/vehicles/pkg/adapter/db/postgres"
	"github.com/momeni/vehicles/pkg/core/model"
	"github.com/momeni/vehicles/pkg/core/repo"
)

// Repo represents the manufacturers repository.
type Repo struct {
}

// New instantiates a manufacturers Repo struct.
func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn. Otherwise, it will panic.
func (mfrs *Repo) Conn(c repo.Conn) repo.ManufacturersQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

// Tx unwraps the given repo.Tx instance, expecting to find an
// instance of *postgres.Tx. Otherwise, it will panic.
func (mfrs *Repo) Tx(tx repo.Tx) repo.ManufacturersQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (mq queryer[Q]) List(ctx context.Context) ([]model.Manufacturer, error) {
	return List(ctx, mq.q)
}

func (mq queryer[Q]) Upsert(ctx context.Context, m model.Manufacturer) error {
	return Upsert(ctx, mq.q, m)
}
