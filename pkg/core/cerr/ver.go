// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import (
	"fmt"

	"github.com/momeni/vehicles/pkg/core/model"
)

// IncompatibleSemVerError indicates that a configuration file or a
// database schema has a version which is not supported by this binary.
// The first element is the supported version and the second element is
// the version which was found.
type IncompatibleSemVerError [2]model.SemVer

// Error returns a string representation of `isve` error instance. This
// method causes *IncompatibleSemVerError to implement error interface.
func (isve *IncompatibleSemVerError) Error() string {
	supported := (*isve)[0]
	actual := (*isve)[1]
	return fmt.Sprintf(
		"v%s is not compatible with the supported v%s",
		actual.String(), supported.String(),
	)
}
