// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the generic helpers which are used by the
// versioned config packages (like cfg1) in order to fill the missing
// settings with their defaults, override them with the environment
// variables, and verify their acceptable ranges.
// Optional settings are kept as pointers, so a missing item can be
// told apart from an explicit zero value.
package settings

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Nil2Zero makes (*t) point to a new zero value of T if it is nil.
func Nil2Zero[T any](t **T) {
	if (*t) != nil {
		return
	}
	var zero T
	(*t) = &zero
}

// OverwriteNil makes (*dst) point to a copy of (*src) if (*dst) is nil
// and src is not nil. Otherwise, it does nothing.
func OverwriteNil[T any](dst **T, src *T) {
	if (*dst) != nil || src == nil {
		return
	}
	t := *src
	(*dst) = &t
}

// Default is like OverwriteNil, but takes the default value itself.
func Default[T any](dst **T, def T) {
	OverwriteNil(dst, &def)
}

// FromEnv overwrites (*dst) by the value of the key environment
// variable if it is set and is not empty. Values are parsed based on
// the T type which may be string, bool, int, or float64.
// It reports whether (*dst) was overwritten.
func FromEnv[T string | bool | int | float64](dst **T, key string) (
	bool, error,
) {
	s, ok := os.LookupEnv(key)
	s = strings.TrimSpace(s)
	if !ok || s == "" {
		return false, nil
	}
	var v T
	var err error
	switch p := any(&v).(type) {
	case *string:
		*p = s
	case *bool:
		*p, err = strconv.ParseBool(s)
	case *int:
		*p, err = strconv.Atoi(s)
	case *float64:
		*p, err = strconv.ParseFloat(s, 64)
	}
	if err != nil {
		return false, fmt.Errorf("parsing $%s=%q: %w", key, s, err)
	}
	(*dst) = &v
	return true, nil
}
