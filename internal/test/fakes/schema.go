// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"context"
	"sort"

	"github.com/momeni/vehicles/pkg/core/model"
	"github.com/momeni/vehicles/pkg/core/repo"
)

// Schema is a fake repo.Schema which records its calls.
// Dropping the tables clears the Cars repository which is given to it.
type Schema struct {
	Cars *Cars

	Created, Dropped int
	CreateErr        error
}

func (s *Schema) Tx(repo.Tx) repo.SchemaTxQueryer {
	return s
}

func (s *Schema) CreateTables(context.Context) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.Created++
	return nil
}

func (s *Schema) DropTables(context.Context) error {
	s.Dropped++
	if s.Cars != nil {
		s.Cars.mu.Lock()
		s.Cars.rows = make(map[int64]model.Car)
		s.Cars.manufacturers = make(map[int]string)
		s.Cars.mu.Unlock()
	}
	return nil
}

// Manufacturers returns a repo.Manufacturers which shares its data with
// cars, so upserted manufacturers may be referenced by inserted cars.
func (cars *Cars) Manufacturers() repo.Manufacturers {
	return manufacturers{cars}
}

type manufacturers struct {
	cars *Cars
}

func (m manufacturers) Conn(repo.Conn) repo.ManufacturersQueryer {
	return m
}

func (m manufacturers) Tx(repo.Tx) repo.ManufacturersQueryer {
	return m
}

func (m manufacturers) List(context.Context) ([]model.Manufacturer, error) {
	m.cars.mu.Lock()
	defer m.cars.mu.Unlock()
	list := make([]model.Manufacturer, 0, len(m.cars.manufacturers))
	for code, name := range m.cars.manufacturers {
		list = append(list, model.Manufacturer{Code: code, Name: name})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Code < list[j].Code
	})
	return list, nil
}

func (m manufacturers) Upsert(_ context.Context, mfr model.Manufacturer) error {
	m.cars.mu.Lock()
	defer m.cars.mu.Unlock()
	m.cars.manufacturers[mfr.Code] = mfr.Name
	return nil
}
