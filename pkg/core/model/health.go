// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "time"

// CollaboratorStatus reports the outcome of the last reachability
// probe of a remote collaborator.
type CollaboratorStatus struct {
	Name      string    `json:"name"`
	Up        bool      `json:"up"`
	CheckedAt time.Time `json:"checkedAt"`
	Error     string    `json:"error,omitempty"`
}
