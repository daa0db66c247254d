// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SemVer represents a released semantic version with the major, minor,
// and patch components. It versions the configuration file format and
// the database schema, so a binary can reject files or databases which
// it does not know how to use.
// Pre-release versions are not supported.
type SemVer [3]uint

// ParseSemVer parses a dot-separated version string such as "1.0.0".
// Missing minor or patch components are taken as zero.
func ParseSemVer(s string) (sv SemVer, err error) {
	err = sv.UnmarshalText([]byte(s))
	return
}

// UnmarshalText deserializes text byte slice as a string consisting of
// at most three dot-separated numbers and fills the sv SemVer instance.
// In case of errors, sv will be left unchanged.
func (sv *SemVer) UnmarshalText(text []byte) (err error) {
	p := strings.Split(string(text), ".")
	l := len(p)
	if l == 0 || l > 3 {
		return fmt.Errorf("the %q has wrong number of components", text)
	}
	var v [3]uint64
	for i := 0; i < l; i++ {
		v[i], err = strconv.ParseUint(p[i], 10, 32)
		if err != nil {
			return fmt.Errorf("the %q component is not numeric", p[i])
		}
	}
	*sv = SemVer{uint(v[0]), uint(v[1]), uint(v[2])}
	return nil
}

// MarshalText implements encoding.TextMarshaler interface and
// serializes `sv` semantic version as its string representation.
func (sv SemVer) MarshalText() ([]byte, error) {
	return []byte(sv.String()), nil
}

// Compatible reports whether a file or database with version `other`
// may be used by a binary which supports `sv`. Major versions must
// match and `other` may not have a newer minor version.
func (sv SemVer) Compatible(other SemVer) bool {
	return sv[0] == other[0] && other[1] <= sv[1]
}

// String returns the sv semantic version as a dot-separated string
// like major.minor.patch.
func (sv SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", sv[0], sv[1], sv[2])
}
