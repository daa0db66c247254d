// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrs

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/vehicles/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/vehicles/pkg/core/model"
)

// carReq is the body of the car creation and update requests.
// The price, address, and timestamps are server-side fields, so they
// are ignored even if they are sent.
type carReq struct {
	Condition string      `json:"condition" binding:"required,oneof=NEW USED"`
	Details   detailsReq  `json:"details"`
	Location  locationReq `json:"location"`
}

type detailsReq struct {
	Body           string          `json:"body"`
	Model          string          `json:"model" binding:"required"`
	Manufacturer   manufacturerReq `json:"manufacturer"`
	NumberOfDoors  int             `json:"numberOfDoors" binding:"gte=0"`
	FuelType       string          `json:"fuelType"`
	Engine         string          `json:"engine"`
	Mileage        int             `json:"mileage" binding:"gte=0"`
	ModelYear      int             `json:"modelYear" binding:"gte=0"`
	ProductionYear int             `json:"productionYear" binding:"gte=0"`
	ExternalColor  string          `json:"externalColor"`
}

type manufacturerReq struct {
	Code int `json:"code" binding:"required,gt=0"`
}

type locationReq struct {
	Lat *float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Lon *float64 `json:"lon" binding:"required,gte=-180,lte=180"`
}

func (req *carReq) toModel() (*model.Car, error) {
	cond, err := model.ParseCondition(req.Condition)
	if err != nil {
		return nil, err
	}
	d := req.Details
	return &model.Car{
		Condition: cond,
		Details: model.Details{
			Body:  d.Body,
			Model: d.Model,
			Manufacturer: model.Manufacturer{
				Code: d.Manufacturer.Code,
			},
			NumberOfDoors:  d.NumberOfDoors,
			FuelType:       d.FuelType,
			Engine:         d.Engine,
			Mileage:        d.Mileage,
			ModelYear:      d.ModelYear,
			ProductionYear: d.ProductionYear,
			ExternalColor:  d.ExternalColor,
		},
		Location: model.Location{
			Lat: *req.Location.Lat,
			Lon: *req.Location.Lon,
		},
	}, nil
}

// DserCarReq deserializes the JSON body of a car creation or update
// request. If it fails, an error response is sent and nil is returned.
func (rs *resource) DserCarReq(c *gin.Context) *model.Car {
	req := &carReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	car, err := req.toModel()
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "condition", err.Error())
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return car
}

// DserCarID parses the id path parameter. If it is not a positive
// integer, an error response is sent and false is returned.
func (rs *resource) DserCarID(c *gin.Context) (int64, bool) {
	var errs map[string][]string
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if serdser.Assert(
		&errs, err == nil && id > 0,
		"id", "Path param id is not a positive integer.",
	) {
		return id, true
	}
	c.JSON(http.StatusBadRequest, errs)
	return 0, false
}
