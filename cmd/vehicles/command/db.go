// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/vehicles/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/vehicles/pkg/adapter/db/postgres/manufacturersrp"
	"github.com/momeni/vehicles/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/vehicles/pkg/core/usecase/schemauc"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For a fresh installation in a development environment, init-dev may
be used, while init-prod prepares a production database without
touching its existing cars.`,
}

// initDB connects to the configured database and passes a schema use
// case to run.
func initDB(run func(context.Context, *schemauc.UseCase) error) (err error) {
	ctx := context.Background()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer func() {
		if err2 := p.Close(); err == nil {
			err = err2
		}
	}()
	uc := schemauc.New(p, schemarp.New(), manufacturersrp.New(), carsrp.New())
	return run(ctx, uc)
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
