// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemauc contains the database initialization use cases.
// A fresh database may be initialized with production suitable data
// (the known manufacturers) or development suitable data (the known
// manufacturers and a few sample cars).
package schemauc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/vehicles/pkg/core/log"
	"github.com/momeni/vehicles/pkg/core/model"
	"github.com/momeni/vehicles/pkg/core/repo"
)

// Manufacturers lists the manufacturers which are seeded in both of
// the development and production databases.
var Manufacturers = []model.Manufacturer{
	{Code: 100, Name: "Audi"},
	{Code: 101, Name: "Chevrolet"},
	{Code: 102, Name: "Ford"},
	{Code: 103, Name: "BMW"},
	{Code: 104, Name: "Dodge"},
}

// SampleCars lists the cars which are inserted in a development
// database.
var SampleCars = []model.Car{
	{
		Condition: model.ConditionUsed,
		Details: model.Details{
			Body:           "sedan",
			Model:          "Impala",
			Manufacturer:   model.Manufacturer{Code: 101},
			NumberOfDoors:  4,
			FuelType:       "Gasoline",
			Engine:         "3.6L V6",
			Mileage:        32280,
			ModelYear:      2018,
			ProductionYear: 2018,
			ExternalColor:  "white",
		},
		Location: model.Location{Lat: 40.730610, Lon: -73.935242},
	},
	{
		Condition: model.ConditionNew,
		Details: model.Details{
			Body:           "pickup",
			Model:          "F-150",
			Manufacturer:   model.Manufacturer{Code: 102},
			NumberOfDoors:  4,
			FuelType:       "Gasoline",
			Engine:         "5.0L V8",
			Mileage:        12,
			ModelYear:      2024,
			ProductionYear: 2023,
			ExternalColor:  "blue",
		},
		Location: model.Location{Lat: 42.3601, Lon: -71.0589},
	},
}

// UseCase represents the database initialization use case.
type UseCase struct {
	pool   repo.Pool
	schema repo.Schema
	mfrsrp repo.Manufacturers
	carsrp repo.Cars
}

// New instantiates a database initialization use case.
func New(
	p repo.Pool, s repo.Schema, m repo.Manufacturers, c repo.Cars,
) *UseCase {
	return &UseCase{pool: p, schema: s, mfrsrp: m, carsrp: c}
}

// InitProd creates the tables if they are missing and upserts the
// known manufacturers. Existing cars are kept, so InitProd may be
// repeated safely.
func (uc *UseCase) InitProd(ctx context.Context) error {
	return uc.initDB(ctx, false)
}

// InitDev drops the tables (losing all of their rows), creates them
// again, and fills them with the known manufacturers and SampleCars.
func (uc *UseCase) InitDev(ctx context.Context) error {
	return uc.initDB(ctx, true)
}

func (uc *UseCase) initDB(ctx context.Context, dev bool) error {
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.schema.Tx(tx)
			if dev {
				if err := q.DropTables(ctx); err != nil {
					return fmt.Errorf("dropping tables: %w", err)
				}
			}
			if err := q.CreateTables(ctx); err != nil {
				return fmt.Errorf("creating tables: %w", err)
			}
			mq := uc.mfrsrp.Tx(tx)
			for _, m := range Manufacturers {
				if err := mq.Upsert(ctx, m); err != nil {
					return fmt.Errorf("upserting %q: %w", m.Name, err)
				}
			}
			if !dev {
				return nil
			}
			cq := uc.carsrp.Tx(tx)
			for i := range SampleCars {
				car, err := cq.Insert(ctx, &SampleCars[i])
				if err != nil {
					return fmt.Errorf("inserting sample car: %w", err)
				}
				log.Debug(ctx, "sample car is inserted", log.CarID(car.ID))
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("initializing database (dev=%v): %w", dev, err)
	}
	log.Info(ctx, "database is initialized",
		slog.Bool("dev", dev),
		slog.Int("manufacturers", len(Manufacturers)),
	)
	return nil
}
