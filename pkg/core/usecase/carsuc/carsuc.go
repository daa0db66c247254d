// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsuc contains the cars UseCase which manages the cars
// inventory. Four use cases are supported:
//  1. Listing all cars,
//  2. Finding a car and enriching it with its price and address,
//  3. Saving a new car or updating an existing one,
//  4. Deleting a car.
//
// Enrichment asks the Pricer and Locator collaborators on every
// lookup and never persists their results.
package carsuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/vehicles/pkg/core/cerr"
	"github.com/momeni/vehicles/pkg/core/log"
	"github.com/momeni/vehicles/pkg/core/model"
	"github.com/momeni/vehicles/pkg/core/repo"
)

// Pricer finds the current price of a car.
type Pricer interface {
	Price(ctx context.Context, carID int64) (string, error)
}

// Locator resolves the address of a location. The returned Location
// keeps the given latitude and longitude.
type Locator interface {
	Locate(ctx context.Context, loc model.Location) (model.Location, error)
}

// UseCase represents a cars use case. It holds a database connection
// pool, the cars repository instance (to be guided with the DB pool),
// the pricing and maps collaborators, and the enrichment settings.
type UseCase struct {
	pool    repo.Pool
	carsrp  repo.Cars
	pricer  Pricer
	locator Locator

	lenient       bool
	fallbackPrice string
}

// New instantiates a cars use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool, c repo.Cars, pr Pricer, l Locator, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, carsrp: c, pricer: pr, locator: l}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.fallbackPrice == "" {
		uc.fallbackPrice = DefaultFallbackPrice
	}
	return uc, nil
}

// List returns all persisted cars without enriching them.
func (cars *UseCase) List(ctx context.Context) (list []model.Car, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		list, err = cars.carsrp.Conn(c).List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing cars: %w", err)
	}
	return list, nil
}

// FindByID returns the id car, enriched with its current price and
// resolved address. An error wrapping model.ErrCarNotFound is returned
// if no such car exists, and in that case no collaborator is called.
func (cars *UseCase) FindByID(ctx context.Context, id int64) (*model.Car, error) {
	car, err := cars.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = cars.enrich(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

// Save persists car and returns the stored version.
// A car with zero ID is inserted as a new car and takes its ID and
// timestamps from the store. For a non-zero ID, the existing car is
// looked up and only its details and location are overwritten, while
// its creation timestamp and condition are preserved. Since the given
// condition is ignored in that case, it is not validated either.
// An error wrapping model.ErrCarNotFound is returned if that car does
// not exist.
func (cars *UseCase) Save(ctx context.Context, car *model.Car) (saved *model.Car, err error) {
	validate := car.Validate
	if car.ID != 0 {
		validate = car.ValidateDetails
	}
	if err = validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if car.ID == 0 {
			saved, err = cars.carsrp.Conn(c).Insert(ctx, car)
			return err
		}
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := cars.carsrp.Tx(tx)
			existing, err := q.GetForUpdate(ctx, car.ID)
			if err != nil {
				return err
			}
			existing.Details = car.Details
			existing.Location = car.Location.Stored()
			saved, err = q.Update(ctx, existing)
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("saving car %d: %w", car.ID, err)
	}
	log.Info(ctx, "car is saved", log.CarID(saved.ID))
	return saved, nil
}

// Delete removes the id car. The car is resolved like FindByID first,
// so the collaborators are called before deletion and their failure
// (in strict mode) prevents the deletion. An error wrapping
// model.ErrCarNotFound is returned if the car does not exist.
func (cars *UseCase) Delete(ctx context.Context, id int64) error {
	car, err := cars.FindByID(ctx, id)
	if err != nil {
		return err
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return cars.carsrp.Conn(c).Delete(ctx, car.ID)
	})
	if err != nil {
		return fmt.Errorf("deleting car %d: %w", id, err)
	}
	log.Info(ctx, "car is deleted", log.CarID(id))
	return nil
}

func (cars *UseCase) get(ctx context.Context, id int64) (car *model.Car, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		car, err = cars.carsrp.Conn(c).Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("finding car %d: %w", id, err)
	}
	return car, nil
}

// enrich sets the price and the resolved location of car.
// The pricing collaborator is asked first and the maps collaborator
// is asked afterwards, sequentially.
func (cars *UseCase) enrich(ctx context.Context, car *model.Car) error {
	price, err := cars.pricer.Price(ctx, car.ID)
	if err != nil {
		if !cars.lenient {
			log.Error(ctx, "pricing failed",
				log.CarID(car.ID), log.Err("error", err))
			return unavailable("pricing", car.ID, err)
		}
		log.Warn(ctx, "pricing failed, using fallback price",
			log.CarID(car.ID), log.Err("error", err))
		price = cars.fallbackPrice
	}
	car.Price = price

	loc, err := cars.locator.Locate(ctx, car.Location.Stored())
	if err != nil {
		if !cars.lenient {
			log.Error(ctx, "locating failed",
				log.CarID(car.ID), log.Err("error", err))
			return unavailable("locating", car.ID, err)
		}
		log.Warn(ctx, "locating failed, keeping stored location",
			log.CarID(car.ID), log.Err("error", err))
		loc = car.Location.Stored()
	}
	car.Location = loc
	return nil
}

func unavailable(op string, id int64, err error) error {
	if !errors.Is(err, model.ErrCollaboratorUnavailable) {
		err = fmt.Errorf("%w: %w", model.ErrCollaboratorUnavailable, err)
	}
	return cerr.BadGateway(fmt.Errorf("%s car %d: %w", op, id, err))
}
