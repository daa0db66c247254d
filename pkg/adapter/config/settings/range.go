// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// OutOfRangeError indicates that Value was out of its [Min, Max] range.
// A nil Min or Max means that the range is open from that side.
type OutOfRangeError[T cmp.Ordered] struct {
	Value    T
	Min, Max *T
}

func (e *OutOfRangeError[T]) Error() string {
	switch {
	case e.Min != nil && e.Max != nil && *e.Min > *e.Max:
		return fmt.Sprintf("min (%v) is greater than max (%v)", *e.Min, *e.Max)
	case e.Min != nil && e.Value < *e.Min:
		return fmt.Sprintf("%v is less than min (%v)", e.Value, *e.Min)
	default:
		return fmt.Sprintf("%v is greater than max (%v)", e.Value, *e.Max)
	}
}

// VerifyRange checks that (*value) is nil or is within the minb and
// maxb boundaries (if they are not nil). An out of range value is
// clamped to the violated boundary and the original value is reported
// in the returned error.
func VerifyRange[T cmp.Ordered](value **T, minb, maxb *T) error {
	if minb != nil && maxb != nil && *minb > *maxb {
		var zero T
		return &OutOfRangeError[T]{Value: zero, Min: minb, Max: maxb}
	}
	if (*value) == nil {
		return nil
	}
	v := **value
	switch {
	case minb != nil && v < *minb:
		**value = *minb
	case maxb != nil && v > *maxb:
		**value = *maxb
	default:
		return nil
	}
	return &OutOfRangeError[T]{Value: v, Min: minb, Max: maxb}
}
