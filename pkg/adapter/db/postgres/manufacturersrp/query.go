// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package manufacturersrp

import (
	"context"
	"fmt"

	"github.com/momeni/vehicles/pkg/adapter/db/postgres"
	"github.com/momeni/vehicles/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gManufacturer struct {
	Code int `gorm:"primaryKey;autoIncrement:false"`
	Name string
}

func (gm *gManufacturer) TableName() string {
	return "manufacturers"
}

func List[Q postgres.Queryer](ctx context.Context, q Q) ([]model.Manufacturer, error) {
	var gms []gManufacturer
	gdb := q.GORM(ctx).Order("code").Find(&gms)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	mfrs := make([]model.Manufacturer, len(gms))
	for i, gm := range gms {
		mfrs[i] = model.Manufacturer{Code: gm.Code, Name: gm.Name}
	}
	return mfrs, nil
}

// Upsert inserts m, renaming the existing manufacturer on a code
// conflict.
func Upsert[Q postgres.Queryer](
	ctx context.Context, q Q, m model.Manufacturer,
) error {
	gm := &gManufacturer{Code: m.Code, Name: m.Name}
	gdb := q.GORM(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(gm)
	if err := gdb.Error; err != nil {
		return fmt.Errorf("upserting manufacturer %d: %w", m.Code, err)
	}
	return nil
}
