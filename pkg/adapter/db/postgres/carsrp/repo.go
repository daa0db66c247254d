// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrp provides a reification of the repo.Cars interface,
// storing cars in the cars table of a PostgreSQL database. Cars refer
// to the manufacturers table by their manufacturer_code column.
package carsrp

import (
	"context"

	"github.com/momeni/vehicles/pkg/adapter/db/postgres"
	"github.com/momeni/vehicles/pkg/core/model"
	"github.com/momeni/vehicles/pkg/core/repo"
)

// Repo represents the cars repository.
type Repo struct {
}

// New instantiates a cars Repo struct.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by this adapter layer.
// Otherwise, it will panic.
func (cars *Repo) Conn(c repo.Conn) repo.CarsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) List(ctx context.Context) ([]model.Car, error) {
	return List(ctx, cq.Conn)
}

func (cq connQueryer) Get(ctx context.Context, id int64) (*model.Car, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) Insert(ctx context.Context, car *model.Car) (*model.Car, error) {
	return Insert(ctx, cq.Conn, car)
}

func (cq connQueryer) Update(ctx context.Context, car *model.Car) (*model.Car, error) {
	return Update(ctx, cq.Conn, car)
}

func (cq connQueryer) Delete(ctx context.Context, id int64) error {
	return Delete(ctx, cq.Conn, id)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx unwraps the given repo.Tx instance, expecting to find an instance
// of *postgres.Tx as created by this adapter layer.
// Otherwise, it will panic.
func (cars *Repo) Tx(tx repo.Tx) repo.CarsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) List(ctx context.Context) ([]model.Car, error) {
	return List(ctx, tq.Tx)
}

func (tq txQueryer) Get(ctx context.Context, id int64) (*model.Car, error) {
	return Get(ctx, tq.Tx, id)
}

func (tq txQueryer) GetForUpdate(ctx context.Context, id int64) (*model.Car, error) {
	return GetForUpdate(ctx, tq.Tx, id)
}

func (tq txQueryer) Insert(ctx context.Context, car *model.Car) (*model.Car, error) {
	return Insert(ctx, tq.Tx, car)
}

func (tq txQueryer) Update(ctx context.Context, car *model.Car) (*model.Car, error) {
	return Update(ctx, tq.Tx, car)
}

func (tq txQueryer) Delete(ctx context.Context, id int64) error {
	return Delete(ctx, tq.Tx, id)
}
