// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/momeni/vehicles/pkg/adapter/db/postgres"
	"github.com/momeni/vehicles/pkg/core/cerr"
	"github.com/momeni/vehicles/pkg/core/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gManufacturer is the GORM representation of the manufacturers table.
type gManufacturer struct {
	Code int `gorm:"primaryKey;autoIncrement:false"`
	Name string
}

func (gm *gManufacturer) TableName() string {
	return "manufacturers"
}

// gCar is the GORM representation of the cars table. The details and
// location columns are flattened and the manufacturer is loaded by
// its code. Transient fields of model.Car have no columns.
type gCar struct {
	ID               int64 `gorm:"primaryKey"`
	CreatedAt        time.Time
	ModifiedAt       time.Time
	Condition        string
	ManufacturerCode int
	Manufacturer     gManufacturer `gorm:"foreignKey:ManufacturerCode;references:Code"`
	Body             string
	Model            string
	NumberOfDoors    int
	FuelType         string
	Engine           string
	Mileage          int
	ModelYear        int
	ProductionYear   int
	ExternalColor    string
	Lat              float64
	Lon              float64
}

func (gc *gCar) TableName() string {
	return "cars"
}

// updatedColumns lists the columns which are overwritten by Update.
var updatedColumns = []string{
	"modified_at", "condition", "manufacturer_code",
	"body", "model", "number_of_doors", "fuel_type", "engine",
	"mileage", "model_year", "production_year", "external_color",
	"lat", "lon",
}

func fromModel(c *model.Car) *gCar {
	d := c.Details
	return &gCar{
		ID:               c.ID,
		CreatedAt:        c.CreatedAt,
		ModifiedAt:       c.ModifiedAt,
		Condition:        c.Condition.String(),
		ManufacturerCode: d.Manufacturer.Code,
		Body:             d.Body,
		Model:            d.Model,
		NumberOfDoors:    d.NumberOfDoors,
		FuelType:         d.FuelType,
		Engine:           d.Engine,
		Mileage:          d.Mileage,
		ModelYear:        d.ModelYear,
		ProductionYear:   d.ProductionYear,
		ExternalColor:    d.ExternalColor,
		Lat:              c.Location.Lat,
		Lon:              c.Location.Lon,
	}
}

func (gc *gCar) toModel() (*model.Car, error) {
	cond, err := model.ParseCondition(gc.Condition)
	if err != nil {
		return nil, fmt.Errorf("car %d condition %q: %w", gc.ID, gc.Condition, err)
	}
	return &model.Car{
		ID:         gc.ID,
		CreatedAt:  gc.CreatedAt,
		ModifiedAt: gc.ModifiedAt,
		Condition:  cond,
		Details: model.Details{
			Body:  gc.Body,
			Model: gc.Model,
			Manufacturer: model.Manufacturer{
				Code: gc.ManufacturerCode,
				Name: gc.Manufacturer.Name,
			},
			NumberOfDoors:  gc.NumberOfDoors,
			FuelType:       gc.FuelType,
			Engine:         gc.Engine,
			Mileage:        gc.Mileage,
			ModelYear:      gc.ModelYear,
			ProductionYear: gc.ProductionYear,
			ExternalColor:  gc.ExternalColor,
		},
		Location: model.Location{Lat: gc.Lat, Lon: gc.Lon},
	}, nil
}

// writeErr maps the errors of INSERT and UPDATE statements.
// A foreign key violation can only be caused by an unknown
// manufacturer code, so it is reported as a bad request.
func writeErr(err error, mfrCode int) error {
	if postgres.HasSQLState(err, postgres.ForeignKeyViolation) {
		return cerr.BadRequest(
			fmt.Errorf("unknown manufacturer code %d", mfrCode),
		)
	}
	return fmt.Errorf("query: %w", err)
}

func List[Q postgres.Queryer](ctx context.Context, q Q) ([]model.Car, error) {
	var gcs []gCar
	gdb := q.GORM(ctx).Preload("Manufacturer").Order("id").Find(&gcs)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	cars := make([]model.Car, 0, len(gcs))
	for i := range gcs {
		c, err := gcs[i].toModel()
		if err != nil {
			return nil, err
		}
		cars = append(cars, *c)
	}
	return cars, nil
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, id int64) (*model.Car, error) {
	var gc gCar
	gdb := q.GORM(ctx).Preload("Manufacturer").Take(&gc, id)
	if err := gdb.Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cerr.NotFound(model.ErrCarNotFound)
		}
		return nil, fmt.Errorf("query: %w", err)
	}
	return gc.toModel()
}

// GetForUpdate locks the id car row with SELECT ... FOR UPDATE.
// The manufacturer name is not loaded, since the locked car is
// expected to be updated and loaded again.
func GetForUpdate(ctx context.Context, tx *postgres.Tx, id int64) (*model.Car, error) {
	var gc gCar
	gdb := tx.GORM(ctx).Clauses(
		clause.Locking{Strength: "UPDATE"},
	).Take(&gc, id)
	if err := gdb.Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cerr.NotFound(model.ErrCarNotFound)
		}
		return nil, fmt.Errorf("query: %w", err)
	}
	return gc.toModel()
}

func Insert[Q postgres.Queryer](ctx context.Context, q Q, car *model.Car) (*model.Car, error) {
	gc := fromModel(car)
	gc.ID = 0
	now := time.Now()
	gc.CreatedAt, gc.ModifiedAt = now, now
	gdb := q.GORM(ctx).Omit(clause.Associations).Create(gc)
	if err := gdb.Error; err != nil {
		return nil, writeErr(err, gc.ManufacturerCode)
	}
	return Get(ctx, q, gc.ID)
}

func Update[Q postgres.Queryer](ctx context.Context, q Q, car *model.Car) (*model.Car, error) {
	gc := fromModel(car)
	gc.ModifiedAt = time.Now()
	gdb := q.GORM(ctx).Model(&gCar{ID: car.ID}).Select(
		updatedColumns,
	).Omit(clause.Associations).Updates(gc)
	if err := gdb.Error; err != nil {
		return nil, writeErr(err, gc.ManufacturerCode)
	}
	if n := gdb.RowsAffected; n != 1 {
		return nil, cerr.NotFound(fmt.Errorf(
			"%w: expected one row, but got %d", model.ErrCarNotFound, n,
		))
	}
	return Get(ctx, q, car.ID)
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, id int64) error {
	gdb := q.GORM(ctx).Delete(&gCar{}, id)
	if err := gdb.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if n := gdb.RowsAffected; n != 1 {
		return cerr.NotFound(fmt.Errorf(
			"%w: expected one row, but got %d", model.ErrCarNotFound, n,
		))
	}
	return nil
}
