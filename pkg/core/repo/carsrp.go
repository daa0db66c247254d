// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/vehicles/pkg/core/model"
)

// Cars is the cars repository. It wraps a Conn or Tx and returns a
// queryer which runs the cars queries on it.
type Cars interface {
	Conn(Conn) CarsConnQueryer
	Tx(Tx) CarsTxQueryer
}

type CarsConnQueryer interface {
	CarsQueryer
}

type CarsTxQueryer interface {
	CarsQueryer

	// GetForUpdate is like Get, but locks the car row until the
	// transaction ends, so it may be modified without racing with
	// other transactions.
	GetForUpdate(ctx context.Context, id int64) (*model.Car, error)
}

// CarsQueryer lists the queries which may be run on both of connections
// and transactions. Methods which look up a specific car return an
// error wrapping model.ErrCarNotFound (as a cerr.NotFound) when no row
// exists for the given ID.
// Only the persistable fields of cars are stored. That is, the Price
// and resolved address fields of Location are ignored when writing and
// are left empty when reading.
type CarsQueryer interface {
	// List returns all cars ordered by their IDs.
	List(ctx context.Context) ([]model.Car, error)

	// Get returns the id car.
	Get(ctx context.Context, id int64) (*model.Car, error)

	// Insert persists car as a new row, ignoring its ID and timestamps,
	// and returns the stored car with its assigned ID and timestamps.
	Insert(ctx context.Context, car *model.Car) (*model.Car, error)

	// Update overwrites the condition, details, and location of the
	// car.ID row, refreshes its modification timestamp, and returns the
	// stored car. The creation timestamp is kept intact.
	Update(ctx context.Context, car *model.Car) (*model.Car, error)

	// Delete removes the id car.
	Delete(ctx context.Context, id int64) error
}
