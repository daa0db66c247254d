// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo specifies the interfaces which must be implemented by
// the adapters layer repositories, so the use cases layer can persist
// and load models without depending on a specific database.
// A Pool lends a Conn to a handler and a Conn can begin a Tx. Each
// repository takes a Conn or Tx and returns a queryer object which
// runs its queries on that connection or transaction.
package repo

import "context"

// ConnHandler is a function which uses a borrowed Conn. The Conn may
// not be used after the handler returns.
type ConnHandler func(context.Context, Conn) error

// Pool represents a database connection pool.
type Pool interface {
	// Conn acquires a connection, passes it to the handler function,
	// and releases it when the handler returns. Errors of the handler
	// are returned after possible wrapping.
	Conn(ctx context.Context, handler ConnHandler) error
}
