// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., the JSON field names which
// are exposed by the REST API) since adding more tags does not
// complicate definition of a struct, but can prevent unnecessary
// structs duplication.
package model

import (
	"fmt"
	"time"
)

// Car models a vehicle of the inventory.
// The ID is zero until the car is persisted, then the store assigns
// it together with the CreatedAt and ModifiedAt timestamps.
// Price is a derived field. It is filled by the pricing collaborator
// whenever a single car is fetched and is never persisted.
// For the corresponding struct which is stored in the database,
// see the unexported gCar struct in the
// pkg/adapter/db/postgres/carsrp/query.go file.
type Car struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Condition  Condition `json:"condition"`
	Details    Details   `json:"details"`
	Location   Location  `json:"location"`
	Price      string    `json:"price,omitempty"`
}

// Details is a value object which describes a car. It is embedded in
// the Car struct and has no identity of its own.
type Details struct {
	Body           string       `json:"body"`
	Model          string       `json:"model"`
	Manufacturer   Manufacturer `json:"manufacturer"`
	NumberOfDoors  int          `json:"numberOfDoors"`
	FuelType       string       `json:"fuelType"`
	Engine         string       `json:"engine"`
	Mileage        int          `json:"mileage"`
	ModelYear      int          `json:"modelYear"`
	ProductionYear int          `json:"productionYear"`
	ExternalColor  string       `json:"externalColor"`
}

// Manufacturer is referenced by cars using its numeric Code.
// Manufacturers are seeded during the database initialization and
// are not owned by any Car instance.
type Manufacturer struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// Validate returns nil if the car may be inserted. It checks the
// condition enum and the fields which are checked by ValidateDetails.
func (c *Car) Validate() error {
	if err := c.Condition.Validate(); err != nil {
		return err
	}
	return c.ValidateDetails()
}

// ValidateDetails returns nil if the Details and Location of the car
// may overwrite those of a stored car. The Details are free-form and
// are not checked here, except for the manufacturer code which must be
// positive in order to reference a manufacturer.
func (c *Car) ValidateDetails() error {
	if code := c.Details.Manufacturer.Code; code <= 0 {
		return fmt.Errorf("manufacturer code (%d) is not positive", code)
	}
	return c.Location.Validate()
}
