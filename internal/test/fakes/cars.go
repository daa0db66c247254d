// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/momeni/vehicles/pkg/core/cerr"
	"github.com/momeni/vehicles/pkg/core/model"
	"github.com/momeni/vehicles/pkg/core/repo"
)

// Cars is an in-memory repo.Cars which mimics the PostgreSQL carsrp
// repository. Only the persistable fields of cars are kept, so the
// transient price and address are dropped like a real store does.
type Cars struct {
	mu            sync.Mutex
	nextID        int64
	rows          map[int64]model.Car
	manufacturers map[int]string

	// Now returns the timestamps of inserted and updated rows.
	// It defaults to time.Now.
	Now func() time.Time

	// Deleted counts the successful Delete calls.
	Deleted int
}

// NewCars creates an empty Cars repository which knows about the
// given manufacturers. Inserting a car with an unknown manufacturer
// code fails like a foreign key violation.
func NewCars(mfrs ...model.Manufacturer) *Cars {
	m := make(map[int]string, len(mfrs))
	for _, mfr := range mfrs {
		m[mfr.Code] = mfr.Name
	}
	return &Cars{
		rows:          make(map[int64]model.Car),
		manufacturers: m,
		Now:           time.Now,
	}
}

func (cars *Cars) Conn(repo.Conn) repo.CarsConnQueryer {
	return cars
}

func (cars *Cars) Tx(repo.Tx) repo.CarsTxQueryer {
	return cars
}

// Len returns the number of stored cars.
func (cars *Cars) Len() int {
	cars.mu.Lock()
	defer cars.mu.Unlock()
	return len(cars.rows)
}

func (cars *Cars) List(context.Context) ([]model.Car, error) {
	cars.mu.Lock()
	defer cars.mu.Unlock()
	list := make([]model.Car, 0, len(cars.rows))
	for _, c := range cars.rows {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (cars *Cars) Get(_ context.Context, id int64) (*model.Car, error) {
	cars.mu.Lock()
	defer cars.mu.Unlock()
	c, ok := cars.rows[id]
	if !ok {
		return nil, cerr.NotFound(model.ErrCarNotFound)
	}
	return &c, nil
}

func (cars *Cars) GetForUpdate(ctx context.Context, id int64) (*model.Car, error) {
	return cars.Get(ctx, id)
}

func (cars *Cars) Insert(_ context.Context, car *model.Car) (*model.Car, error) {
	cars.mu.Lock()
	defer cars.mu.Unlock()
	c, err := cars.stored(car)
	if err != nil {
		return nil, err
	}
	cars.nextID++
	c.ID = cars.nextID
	c.CreatedAt = cars.Now()
	c.ModifiedAt = c.CreatedAt
	cars.rows[c.ID] = c
	return &c, nil
}

func (cars *Cars) Update(_ context.Context, car *model.Car) (*model.Car, error) {
	cars.mu.Lock()
	defer cars.mu.Unlock()
	old, ok := cars.rows[car.ID]
	if !ok {
		return nil, cerr.NotFound(model.ErrCarNotFound)
	}
	c, err := cars.stored(car)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = old.CreatedAt
	c.ModifiedAt = cars.Now()
	cars.rows[c.ID] = c
	return &c, nil
}

func (cars *Cars) Delete(_ context.Context, id int64) error {
	cars.mu.Lock()
	defer cars.mu.Unlock()
	if _, ok := cars.rows[id]; !ok {
		return cerr.NotFound(model.ErrCarNotFound)
	}
	delete(cars.rows, id)
	cars.Deleted++
	return nil
}

// stored returns a copy of car which only keeps the persisted fields
// and takes the manufacturer name from the known manufacturers.
func (cars *Cars) stored(car *model.Car) (model.Car, error) {
	c := *car
	c.Price = ""
	c.Location = c.Location.Stored()
	code := c.Details.Manufacturer.Code
	name, ok := cars.manufacturers[code]
	if !ok {
		return c, cerr.BadRequest(
			fmt.Errorf("unknown manufacturer code %d", code),
		)
	}
	c.Details.Manufacturer.Name = name
	return c, nil
}
