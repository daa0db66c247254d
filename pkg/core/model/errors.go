// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "errors"

// ErrCarNotFound indicates that no car is persisted with the asked ID.
// The ID is not included because the caller already knows about it.
var ErrCarNotFound = errors.New("car not found")

// ErrCollaboratorUnavailable indicates that a remote collaborator,
// such as the pricing or maps services, could not be reached in time
// or has returned an unexpected response.
var ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
