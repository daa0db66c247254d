// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package pricing is the client of the pricing collaborator.
package pricing

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/momeni/vehicles/pkg/adapter/webclient"
	"github.com/momeni/vehicles/pkg/core/model"
)

// Name of the pricing collaborator in logs and health reports.
const Name = "pricing"

// Client realizes the carsuc.Pricer port.
type Client struct {
	*webclient.Client
}

// New wraps wc which must target the pricing endpoint.
func New(wc *webclient.Client) *Client {
	return &Client{Client: wc}
}

type price struct {
	Currency  string      `json:"currency"`
	Price     json.Number `json:"price"`
	VehicleID int64       `json:"vehicleId"`
}

// Price fetches the price of the carID car and formats it like
// "USD 12345.67".
func (c *Client) Price(ctx context.Context, carID int64) (string, error) {
	var p price
	q := url.Values{"vehicleId": {strconv.FormatInt(carID, 10)}}
	if err := c.GetJSON(ctx, "/services/price", q, &p); err != nil {
		return "", err
	}
	if p.Price == "" {
		return "", fmt.Errorf(
			"%s: %w: missing price of car %d",
			Name, model.ErrCollaboratorUnavailable, carID,
		)
	}
	return strings.TrimSpace(p.Currency + " " + p.Price.String()), nil
}
