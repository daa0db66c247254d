// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrs realizes the cars resource, allowing the cars
// manipulation REST APIs to be accepted and delegated to the
// cars use case respectively.
package carsrs

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/momeni/vehicles/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/vehicles/pkg/core/usecase/carsuc"
)

type resource struct {
	cars *carsuc.UseCase
}

// Register instantiates a resource adapting the cars use case instance
// with the relevant REST APIs including:
//  1. POST request to /cars in order to create a car,
//  2. GET request to /cars in order to list all cars,
//  3. GET request to /cars/:id in order to fetch a priced and located
//     car,
//  4. PUT request to /cars/:id in order to update a car,
//  5. DELETE request to /cars/:id in order to delete a car.
//
// The create handlers run after the create middlewares, so POST
// requests may be checked for their idempotency keys.
func Register(
	r gin.IRouter, cars *carsuc.UseCase, create ...gin.HandlerFunc,
) {
	rs := &resource{cars: cars}
	r.POST("cars", append(create, rs.CreateCar)...)
	r.GET("cars", rs.ListCars)
	r.GET("cars/:id", rs.GetCar)
	r.PUT("cars/:id", rs.UpdateCar)
	r.DELETE("cars/:id", rs.DeleteCar)
}

func (rs *resource) CreateCar(c *gin.Context) {
	car := rs.DserCarReq(c)
	if car == nil {
		return
	}
	saved, err := rs.cars.Save(c, car)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Header("Location", "/cars/"+strconv.FormatInt(saved.ID, 10))
	c.JSON(http.StatusCreated, saved)
}

func (rs *resource) ListCars(c *gin.Context) {
	cars, err := rs.cars.List(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (rs *resource) GetCar(c *gin.Context) {
	id, ok := rs.DserCarID(c)
	if !ok {
		return
	}
	car, err := rs.cars.FindByID(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (rs *resource) UpdateCar(c *gin.Context) {
	id, ok := rs.DserCarID(c)
	if !ok {
		return
	}
	car := rs.DserCarReq(c)
	if car == nil {
		return
	}
	car.ID = id
	saved, err := rs.cars.Save(c, car)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (rs *resource) DeleteCar(c *gin.Context) {
	id, ok := rs.DserCarID(c)
	if !ok {
		return
	}
	if err := rs.cars.Delete(c, id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
