// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/vehicles/pkg/core/model"
)

type Manufacturers interface {
	Conn(Conn) ManufacturersQueryer
	Tx(Tx) ManufacturersQueryer
}

type ManufacturersQueryer interface {
	// List returns all manufacturers ordered by their codes.
	List(ctx context.Context) ([]model.Manufacturer, error)

	// Upsert inserts m or renames an existing manufacturer with the
	// same code.
	Upsert(ctx context.Context, m model.Manufacturer) error
}
