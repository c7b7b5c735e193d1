// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package phone normalizes the phone numbers of libraries and members
// to their E.164 representation, so they may be compared and filtered
// consistently.
package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidNumber indicates that a phone number could be parsed, but
// it is not assigned to any line according to the numbering plan of
// its region.
var ErrInvalidNumber = errors.New("invalid phone number")

// Normalizer parses phone numbers which may be written in the national
// format of a default region or in the international format.
type Normalizer struct {
	region string
}

// New instantiates a Normalizer with the given default region, which
// is a two letters ISO 3166-1 country code such as IN.
func New(region string) (*Normalizer, error) {
	region = strings.ToUpper(strings.TrimSpace(region))
	if phonenumbers.GetCountryCodeForRegion(region) == 0 {
		return nil, fmt.Errorf("unknown phone region: %q", region)
	}
	return &Normalizer{region: region}, nil
}

// Region returns the default region of national phone numbers.
func (n *Normalizer) Region() string {
	return n.region
}

// Normalize parses the raw phone number and formats it as E.164, e.g.,
// +919876543210.
func (n *Normalizer) Normalize(raw string) (string, error) {
	num, err := phonenumbers.Parse(raw, n.region)
	if err != nil {
		return "", fmt.Errorf("parsing %q: %w", raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidNumber)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
