// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package maps is the client of the maps (reverse geocoding)
// collaborator.
package maps

import (
	"context"
	"net/url"
	"strconv"

	"github.com/momeni/vehicles/pkg/adapter/webclient"
	"github.com/momeni/vehicles/pkg/core/model"
)

// Name of the maps collaborator in logs and health reports.
const Name = "maps"

// Client realizes the carsuc.Locator port.
type Client struct {
	*webclient.Client
}

func New(wc *webclient.Client) *Client {
	return &Client{Client: wc}
}

type address struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// Locate resolves the address of loc coordinates. The returned
// location keeps the loc latitude and longitude.
func (c *Client) Locate(
	ctx context.Context, loc model.Location,
) (model.Location, error) {
	var a address
	q := url.Values{
		"lat": {strconv.FormatFloat(loc.Lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(loc.Lon, 'f', -1, 64)},
	}
	if err := c.GetJSON(ctx, "/maps", q, &a); err != nil {
		return model.Location{}, err
	}
	return model.Location{
		Lat:     loc.Lat,
		Lon:     loc.Lon,
		Address: a.Address,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
	}, nil
}
