// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// TxHandler is a function which runs queries in a transaction.
// Returning a non-nil error rolls back the transaction.
type TxHandler func(context.Context, Tx) error

// Conn represents a database connection which is borrowed from a Pool.
// It is unsafe to be used concurrently.
type Conn interface {
	Queryer

	// Tx begins a transaction and passes it to the handler function.
	// The transaction is committed if handler returns nil and is
	// rolled back if it returns an error or panics.
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a non-Conn object (such as a Tx) to
	// mistakenly implement the Conn interface.
	IsConn()
}
