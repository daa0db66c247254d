// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Tx represents a database transaction.
// It is unsafe to be used concurrently. All statements which are run
// in a single transaction observe the ACID properties. A READ-COMMITTED
// transaction is expected from a PostgreSQL DBMS server, so rows which
// must not change concurrently should be locked explicitly (see the
// CarsTxQueryer.GetForUpdate method).
type Tx interface {
	Queryer

	// IsTx method prevents a non-Tx object (such as a Conn) to
	// mistakenly implement the Tx interface.
	IsTx()
}
