// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/momeni/vehicles/internal/test/fakes"
	"github.com/momeni/vehicles/pkg/core/cerr"
	"github.com/momeni/vehicles/pkg/core/model"
	"github.com/momeni/vehicles/pkg/core/usecase/carsuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chevrolet = model.Manufacturer{Code: 101, Name: "Chevrolet"}

var resolved = model.Location{
	Address: "777 Brockton Avenue",
	City:    "Abington",
	State:   "MA",
	Zip:     "2351",
}

func impala() *model.Car {
	return &model.Car{
		Condition: model.ConditionUsed,
		Details: model.Details{
			Body:           "sedan",
			Model:          "Impala",
			Manufacturer:   model.Manufacturer{Code: chevrolet.Code},
			NumberOfDoors:  4,
			FuelType:       "Gasoline",
			Engine:         "3.6L V6",
			Mileage:        32280,
			ModelYear:      2018,
			ProductionYear: 2018,
			ExternalColor:  "white",
		},
		Location: model.Location{Lat: 40.730610, Lon: -73.935242},
	}
}

type fixture struct {
	cars    *fakes.Cars
	pricer  *fakes.Pricer
	locator *fakes.Locator
	uc      *carsuc.UseCase
}

func newFixture(t *testing.T, opts ...carsuc.Option) *fixture {
	f := &fixture{
		cars:    fakes.NewCars(chevrolet),
		pricer:  &fakes.Pricer{},
		locator: &fakes.Locator{Address: resolved},
	}
	uc, err := carsuc.New(&fakes.Pool{}, f.cars, f.pricer, f.locator, opts...)
	require.NoError(t, err)
	f.uc = uc
	return f
}

func (f *fixture) create(t *testing.T) *model.Car {
	car, err := f.uc.Save(context.Background(), impala())
	require.NoError(t, err)
	return car
}

func assertStatus(t *testing.T, status int, err error) {
	var ce *cerr.Error
	if assert.True(t, errors.As(err, &ce), "expected a *cerr.Error: %v", err) {
		assert.Equal(t, status, ce.HTTPStatusCode)
	}
}

func TestNewRejectsDuplicateOptions(t *testing.T) {
	_, err := carsuc.New(nil, nil, nil, nil,
		carsuc.WithLenientEnrichment(), carsuc.WithLenientEnrichment())
	assert.Error(t, err)

	_, err = carsuc.New(nil, nil, nil, nil, carsuc.WithFallbackPrice(""))
	assert.Error(t, err)
}

func TestSaveNewCarAssignsID(t *testing.T) {
	f := newFixture(t)
	car := impala()
	car.Price = "USD 1.00"
	car.Location.Address = "must not be stored"

	saved, err := f.uc.Save(context.Background(), car)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, impala().Details.Model, saved.Details.Model)
	assert.Equal(t, "Chevrolet", saved.Details.Manufacturer.Name)
	assert.Equal(t, impala().Location, saved.Location)
	assert.Empty(t, saved.Price)
	assert.Zero(t, f.pricer.Calls.Load(), "saving must not price")
}

func TestSaveRejectsInvalidCar(t *testing.T) {
	f := newFixture(t)
	car := impala()
	car.Condition = model.ConditionInvalid
	_, err := f.uc.Save(context.Background(), car)
	assertStatus(t, http.StatusBadRequest, err)
	assert.ErrorIs(t, err, model.ErrUnknownCondition)
	assert.Zero(t, f.cars.Len())
}

func TestSaveExistingCarOverwritesDetailsAndLocation(t *testing.T) {
	f := newFixture(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	f.cars.Now = func() time.Time { return created }
	orig := f.create(t)

	modified := created.Add(time.Hour)
	f.cars.Now = func() time.Time { return modified }
	upd := impala()
	upd.ID = orig.ID
	upd.Condition = model.ConditionNew
	upd.Details.Mileage = 40000
	upd.Details.ExternalColor = "black"
	upd.Location = model.Location{Lat: 10, Lon: 20}

	saved, err := f.uc.Save(context.Background(), upd)
	require.NoError(t, err)
	assert.Equal(t, orig.ID, saved.ID)
	assert.Equal(t, created, saved.CreatedAt)
	assert.Equal(t, modified, saved.ModifiedAt)
	assert.Equal(t, model.ConditionUsed, saved.Condition,
		"condition must be preserved")
	assert.Equal(t, 40000, saved.Details.Mileage)
	assert.Equal(t, "black", saved.Details.ExternalColor)
	assert.Equal(t, model.Location{Lat: 10, Lon: 20}, saved.Location)
	assert.Equal(t, 1, f.cars.Len())
}

func TestSaveExistingCarIgnoresCondition(t *testing.T) {
	f := newFixture(t)
	orig := f.create(t)
	upd := impala()
	upd.ID = orig.ID
	upd.Condition = model.ConditionInvalid
	upd.Details.Mileage = 50000

	saved, err := f.uc.Save(context.Background(), upd)
	require.NoError(t, err)
	assert.Equal(t, model.ConditionUsed, saved.Condition)
	assert.Equal(t, 50000, saved.Details.Mileage)

	upd.Location.Lat = 91
	_, err = f.uc.Save(context.Background(), upd)
	assertStatus(t, http.StatusBadRequest, err)
}

func TestSaveUnknownCarFails(t *testing.T) {
	f := newFixture(t)
	car := impala()
	car.ID = 41
	_, err := f.uc.Save(context.Background(), car)
	assert.ErrorIs(t, err, model.ErrCarNotFound)
	assertStatus(t, http.StatusNotFound, err)
	assert.Zero(t, f.cars.Len())
}

func TestSaveUnknownManufacturerFails(t *testing.T) {
	f := newFixture(t)
	car := impala()
	car.Details.Manufacturer.Code = 999
	_, err := f.uc.Save(context.Background(), car)
	assertStatus(t, http.StatusBadRequest, err)
}

func TestFindByIDEnriches(t *testing.T) {
	f := newFixture(t)
	car := f.create(t)

	found, err := f.uc.FindByID(context.Background(), car.ID)
	require.NoError(t, err)
	assert.Equal(t, "USD 100.00", found.Price)
	assert.Equal(t, resolved.Address, found.Location.Address)
	assert.Equal(t, resolved.Zip, found.Location.Zip)
	assert.Equal(t, car.Location.Lat, found.Location.Lat)
	assert.Equal(t, car.Location.Lon, found.Location.Lon)
	assert.Equal(t, car.Details, found.Details)

	_, err = f.uc.FindByID(context.Background(), car.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.pricer.Calls.Load(),
		"every lookup must ask for a fresh price")
	assert.EqualValues(t, 2, f.locator.Calls.Load(),
		"every lookup must resolve the address again")
}

func TestFindByIDMissingCar(t *testing.T) {
	f := newFixture(t)
	found, err := f.uc.FindByID(context.Background(), 41)
	assert.Nil(t, found)
	assert.ErrorIs(t, err, model.ErrCarNotFound)
	assertStatus(t, http.StatusNotFound, err)
	assert.Zero(t, f.pricer.Calls.Load())
	assert.Zero(t, f.locator.Calls.Load())
}

func TestFindByIDStrictCollaboratorFailure(t *testing.T) {
	for _, tc := range []struct {
		name           string
		pricer, mapper error
	}{
		{name: "pricing", pricer: errors.New("connection refused")},
		{name: "maps", mapper: errors.New("timeout")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			car := f.create(t)
			f.pricer.Err = tc.pricer
			f.locator.Err = tc.mapper

			found, err := f.uc.FindByID(context.Background(), car.ID)
			assert.Nil(t, found)
			assert.ErrorIs(t, err, model.ErrCollaboratorUnavailable)
			assertStatus(t, http.StatusBadGateway, err)
		})
	}
}

func TestFindByIDLenientCollaboratorFailure(t *testing.T) {
	f := newFixture(t, carsuc.WithLenientEnrichment())
	car := f.create(t)
	f.pricer.Err = errors.New("connection refused")
	f.locator.Err = errors.New("timeout")

	found, err := f.uc.FindByID(context.Background(), car.ID)
	require.NoError(t, err)
	assert.Equal(t, carsuc.DefaultFallbackPrice, found.Price)
	assert.Equal(t, car.Location, found.Location)
	assert.Empty(t, found.Location.Address)
}

func TestFindByIDLenientCustomFallbackPrice(t *testing.T) {
	f := newFixture(t,
		carsuc.WithLenientEnrichment(), carsuc.WithFallbackPrice("n/a"))
	car := f.create(t)
	f.pricer.Err = errors.New("connection refused")

	found, err := f.uc.FindByID(context.Background(), car.ID)
	require.NoError(t, err)
	assert.Equal(t, "n/a", found.Price)
	assert.Equal(t, resolved.City, found.Location.City)
}

func TestListIsNotEnriched(t *testing.T) {
	f := newFixture(t)
	first := f.create(t)
	second := f.create(t)

	list, err := f.uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	for _, c := range list {
		assert.Empty(t, c.Price)
		assert.Empty(t, c.Location.Address)
	}
	assert.Zero(t, f.pricer.Calls.Load())
	assert.Zero(t, f.locator.Calls.Load())
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	car := f.create(t)

	require.NoError(t, f.uc.Delete(context.Background(), car.ID))
	assert.EqualValues(t, 1, f.pricer.Calls.Load(),
		"delete resolves the car like a lookup")
	assert.Zero(t, f.cars.Len())

	_, err := f.uc.FindByID(context.Background(), car.ID)
	assert.ErrorIs(t, err, model.ErrCarNotFound)
}

func TestDeleteMissingCar(t *testing.T) {
	f := newFixture(t)
	f.create(t)

	err := f.uc.Delete(context.Background(), 41)
	assert.ErrorIs(t, err, model.ErrCarNotFound)
	assertStatus(t, http.StatusNotFound, err)
	assert.Zero(t, f.cars.Deleted)
	assert.Equal(t, 1, f.cars.Len())
}

func TestDeleteStrictCollaboratorFailureKeepsCar(t *testing.T) {
	f := newFixture(t)
	car := f.create(t)
	f.pricer.Err = errors.New("connection refused")

	err := f.uc.Delete(context.Background(), car.ID)
	assertStatus(t, http.StatusBadGateway, err)
	assert.Equal(t, 1, f.cars.Len())
}

func TestPoolFailureIsPropagated(t *testing.T) {
	boom := errors.New("pool exhausted")
	uc, err := carsuc.New(
		&fakes.Pool{Err: boom}, fakes.NewCars(),
		&fakes.Pricer{}, &fakes.Locator{},
	)
	require.NoError(t, err)
	_, err = uc.List(context.Background())
	assert.ErrorIs(t, err, boom)
	var ce *cerr.Error
	assert.False(t, errors.As(err, &ce), "store errors are internal")
}
