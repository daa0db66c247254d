// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres realizes the repo.Pool, repo.Conn, and repo.Tx
// interfaces using GORM on top of the pgx PostgreSQL driver.
// The sub-packages (named like carsrp) realize the repositories.
// They type assert the given repo.Conn or repo.Tx into *Conn or *Tx
// and run their queries through the embedded *gorm.DB instances.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/vehicles/pkg/core/model"
)

// These constants represent the major, minor, and patch components of
// the current database schema semantic version. The schemarp package
// creates tables with this version.
const (
	Major = 1 // latest supported schema major version
	Minor = 0 // latest schema minor version in Major series
	Patch = 0 // latest schema patch version in Minor series
)

// Version is the latest supported database schema semantic version.
var Version = model.SemVer{Major, Minor, Patch}

// SQLSTATE codes which are recognized by the repositories.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	ForeignKeyViolation = "23503"
	CannotConnectNow    = "57P03" // the database system is starting up
)

// HasSQLState reports whether err wraps a PostgreSQL error with the
// given SQLSTATE code.
func HasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == code
}
