// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// Condition specifies the car condition enum and accepts two
// new and used values. Although this enum is numeric, it is
// (de)serialized as an upper case string in the adapter layer.
type Condition int

// Valid values for the Condition enum.
const (
	ConditionInvalid Condition = iota // zero value is invalid

	ConditionNew  // brand new car
	ConditionUsed // second hand car
)

// ErrUnknownCondition indicates that a given string may not be parsed
// as a known car condition. The invalid string is not included because
// the caller of ParseCondition already knows about it and should wrap
// this error with the relevant context.
var ErrUnknownCondition = errors.New("unknown condition")

// ConditionError indicates an invalid numeric condition value.
type ConditionError int

// Error implements the error interface, returning a string
// representation of the ConditionError.
func (e ConditionError) Error() string {
	return fmt.Sprintf("invalid condition: %d", e)
}

// Unwrap allows errors.Is to match ConditionError instances with the
// ErrUnknownCondition sentinel error.
func (e ConditionError) Unwrap() error {
	return ErrUnknownCondition
}

// Validate returns nil if Condition value is valid. For invalid
// values, an instance of the ConditionError will be returned.
func (c Condition) Validate() error {
	switch c {
	case ConditionNew, ConditionUsed:
		return nil
	default:
		return ConditionError(c)
	}
}

// String converts the Condition enum to a string.
// Invalid conditions are rendered as "INVALID" instead of panicking
// because String is also used while logging.
func (c Condition) String() string {
	switch c {
	case ConditionNew:
		return "NEW"
	case ConditionUsed:
		return "USED"
	default:
		return "INVALID"
	}
}

// ParseCondition parses the given string and returns a Condition.
// For invalid strings, ConditionInvalid and ErrUnknownCondition
// will be returned.
func ParseCondition(s string) (Condition, error) {
	switch s {
	case "NEW":
		return ConditionNew, nil
	case "USED":
		return ConditionUsed, nil
	default:
		return ConditionInvalid, ErrUnknownCondition
	}
}

// MarshalText implements the encoding.TextMarshaler interface, so
// conditions are encoded as JSON strings.
func (c Condition) MarshalText() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (c *Condition) UnmarshalText(text []byte) error {
	cc, err := ParseCondition(string(text))
	if err != nil {
		return fmt.Errorf("parsing %q: %w", text, err)
	}
	*c = cc
	return nil
}
