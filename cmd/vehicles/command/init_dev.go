// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/vehicles/pkg/core/usecase/schemauc"
	"github.com/spf13/cobra"
)

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development sample data",
	Long: `Initialize database contents with development sample data.
The cars and manufacturers tables are dropped (if they exist) and
created again. Then, known manufacturers and a few sample cars are
inserted. All existing cars are lost.
The database connection information are read from the config file.`,
	RunE: initDev,
	Args: cobra.NoArgs,
}

func initDev(_ *cobra.Command, _ []string) error {
	return initDB(func(ctx context.Context, uc *schemauc.UseCase) error {
		if err := uc.InitDev(ctx); err != nil {
			return fmt.Errorf("initializing DB with dev data: %w", err)
		}
		return nil
	})
}

func init() {
	dbCmd.AddCommand(initDevCmd)
}
