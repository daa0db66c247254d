// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"log/slog"
	"strings"
	"time"
)

// Duration is a time.Duration which is read from the config files in
// the time.ParseDuration format, like 1500ms or 2s.
type Duration time.Duration

// Std converts d to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(strings.TrimSpace(string(data)))
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

// MarshalText drops the zero trailing units, so 2m0s is written as 2m
// and 1h0m0s is written as 1h.
func (d Duration) MarshalText() ([]byte, error) {
	s := time.Duration(d).String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return []byte(s), nil
}

func (d Duration) String() string {
	b, _ := d.MarshalText()
	return string(b)
}

// LogValue implements slog.LogValuer.
func (d *Duration) LogValue() slog.Value {
	if d == nil {
		return slog.StringValue("nil-duration")
	}
	return slog.DurationValue(time.Duration(*d))
}
