// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"fmt"

	"github.com/momeni/vehicles/pkg/adapter/db/postgres"
)

// createStatements create the v1.0.0 tables. Price and resolved
// address of cars are computed on every lookup, so they have no
// columns.
var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS manufacturers (
    code INTEGER PRIMARY KEY,
    name TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS cars (
    id BIGSERIAL PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    modified_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    condition TEXT NOT NULL CHECK (condition IN ('NEW', 'USED')),
    manufacturer_code INTEGER NOT NULL REFERENCES manufacturers (code),
    body TEXT NOT NULL DEFAULT '',
    model TEXT NOT NULL DEFAULT '',
    number_of_doors INTEGER NOT NULL DEFAULT 0,
    fuel_type TEXT NOT NULL DEFAULT '',
    engine TEXT NOT NULL DEFAULT '',
    mileage INTEGER NOT NULL DEFAULT 0,
    model_year INTEGER NOT NULL DEFAULT 0,
    production_year INTEGER NOT NULL DEFAULT 0,
    external_color TEXT NOT NULL DEFAULT '',
    lat DOUBLE PRECISION NOT NULL CHECK (lat BETWEEN -90 AND 90),
    lon DOUBLE PRECISION NOT NULL CHECK (lon BETWEEN -180 AND 180)
)`,
	`CREATE INDEX IF NOT EXISTS cars_manufacturer_code_idx
    ON cars (manufacturer_code)`,
}

var dropStatements = []string{
	`DROP TABLE IF EXISTS cars`,
	`DROP TABLE IF EXISTS manufacturers`,
}

// CreateTables creates the manufacturers and cars tables and their
// indices in the current search_path if they do not exist.
func CreateTables(ctx context.Context, tx *postgres.Tx) error {
	return execAll(ctx, tx, createStatements)
}

// DropTables drops the cars and manufacturers tables if they exist.
func DropTables(ctx context.Context, tx *postgres.Tx) error {
	return execAll(ctx, tx, dropStatements)
}

func execAll(ctx context.Context, tx *postgres.Tx, stmts []string) error {
	for i, sql := range stmts {
		if _, err := tx.Exec(ctx, sql); err != nil {
			return fmt.Errorf("statement #%d: %w", i+1, err)
		}
	}
	return nil
}
