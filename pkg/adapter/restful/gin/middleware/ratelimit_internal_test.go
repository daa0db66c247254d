// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	rl := NewRateLimiter(10, 0)
	rl.now = func() time.Time { return now }
	assert.Equal(t, 10, rl.burst)

	rl.Allow("old")
	now = now.Add(10 * time.Minute)
	rl.Allow("recent")
	now = now.Add(6 * time.Minute)
	rl.Cleanup()
	assert.Equal(t, 1, rl.Len())
	_, ok := rl.entries["recent"]
	assert.True(t, ok)
}
