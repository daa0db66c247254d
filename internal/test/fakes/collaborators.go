// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/momeni/vehicles/pkg/core/model"
)

// Pricer is a fake pricing collaborator. It prices each car as
// "USD <id>00.00" unless Err is set.
type Pricer struct {
	Err   error
	Calls atomic.Int32
}

func (p *Pricer) Price(_ context.Context, carID int64) (string, error) {
	p.Calls.Add(1)
	if p.Err != nil {
		return "", p.Err
	}
	return fmt.Sprintf("USD %d00.00", carID), nil
}

// Locator is a fake maps collaborator. It resolves every location to
// the same Address unless Err is set.
type Locator struct {
	Address model.Location
	Err     error
	Calls   atomic.Int32
}

func (l *Locator) Locate(_ context.Context, loc model.Location) (model.Location, error) {
	l.Calls.Add(1)
	if l.Err != nil {
		return model.Location{}, l.Err
	}
	res := l.Address
	res.Lat, res.Lon = loc.Lat, loc.Lon
	return res, nil
}
