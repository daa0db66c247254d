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

var initProdCmd = &cobra.Command{
	Use:   "init-prod",
	Short: "Initialize database contents with production suitable data",
	Long: `Initialize database contents with production suitable data.
Missing tables are created and the known manufacturers are upserted.
Existing cars are kept, so this action may be repeated after adding
new manufacturers.
The database connection information are read from the config file.`,
	RunE: initProd,
	Args: cobra.NoArgs,
}

func initProd(_ *cobra.Command, _ []string) error {
	return initDB(func(ctx context.Context, uc *schemauc.UseCase) error {
		if err := uc.InitProd(ctx); err != nil {
			return fmt.Errorf("initializing DB with prod data: %w", err)
		}
		return nil
	})
}

func init() {
	dbCmd.AddCommand(initProdCmd)
}
