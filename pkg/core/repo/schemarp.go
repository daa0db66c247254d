// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Schema manages the database tables. Schema changes are only allowed
// in a transaction, so a failed initialization leaves no partial
// tables behind.
type Schema interface {
	Tx(Tx) SchemaTxQueryer
}

type SchemaTxQueryer interface {
	// CreateTables creates the manufacturers and cars tables if they
	// do not exist.
	CreateTables(ctx context.Context) error

	// DropTables drops the manufacturers and cars tables if they exist,
	// losing all of their rows.
	DropTables(ctx context.Context) error
}
