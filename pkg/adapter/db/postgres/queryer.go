// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"github.com/momeni/vehicles/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is the type constraint of repositories query functions.
// Each query function is written once and may be called with either
// of a *Conn or *Tx instance.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer
	GORM(ctx context.Context) *gorm.DB
}
