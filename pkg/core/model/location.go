// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "fmt"

// Location represents the geographical location of a car.
// Only the latitude and longitude are persisted. The Address, City,
// State, and Zip fields are resolved by the maps collaborator at read
// time and are left empty otherwise.
type Location struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address,omitempty"`
	City    string  `json:"city,omitempty"`
	State   string  `json:"state,omitempty"`
	Zip     string  `json:"zip,omitempty"`
}

// Stored returns a copy of l which only keeps its persistable fields,
// dropping the resolved address.
func (l Location) Stored() Location {
	return Location{Lat: l.Lat, Lon: l.Lon}
}

// Validate returns an error if latitude or longitude are out of their
// acceptable ranges.
func (l Location) Validate() error {
	switch {
	case l.Lat < -90 || l.Lat > 90:
		return fmt.Errorf("latitude (%v) is out of [-90, 90] range", l.Lat)
	case l.Lon < -180 || l.Lon > 180:
		return fmt.Errorf(
			"longitude (%v) is out of [-180, 180] range", l.Lon,
		)
	}
	return nil
}
