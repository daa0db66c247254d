// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc

import (
	"errors"
)

// DefaultFallbackPrice is reported as the price of a car in the lenient
// mode when the pricing collaborator fails.
const DefaultFallbackPrice = "(consult price)"

// Option is a functional option for the cars use case.
type Option func(uc *UseCase) error

// WithLenientEnrichment option configures a cars UseCase instance in
// order to tolerate the collaborators failures. A car whose price can
// not be found gets the fallback price and a car whose address can not
// be resolved keeps its stored location. Failures are logged as
// warnings. Without this option, a collaborator failure fails the whole
// lookup with a bad gateway error.
func WithLenientEnrichment() Option {
	return func(uc *UseCase) error {
		if uc.lenient {
			return errors.New("lenient enrichment is already configured")
		}
		uc.lenient = true
		return nil
	}
}

// WithFallbackPrice option replaces the DefaultFallbackPrice which is
// used in the lenient mode.
func WithFallbackPrice(price string) Option {
	return func(uc *UseCase) error {
		if price == "" {
			return errors.New("fallback price is empty")
		}
		if uc.fallbackPrice != "" {
			return errors.New("fallback price is already configured")
		}
		uc.fallbackPrice = price
		return nil
	}
}
