// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Queryer is implemented by both of Conn and Tx, so plain statements
// may be executed on either of them.
type Queryer interface {
	// Exec runs the sql statement with the given args and returns the
	// number of affected rows.
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
}
