// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a monetary value in hundredths of the (implicit) currency
// unit. Keeping it as an integer avoids the rounding surprises of
// floating point arithmetic while fees are accumulated.
type Amount int64

// ErrInvalidAmount indicates that a string could not be parsed as an
// amount with at most two fractional digits.
var ErrInvalidAmount = errors.New("invalid amount")

// maxWholeUnits is the largest whole part which ParseAmount accepts
// without overflowing an Amount.
const maxWholeUnits = (math.MaxInt64 - 99) / 100

// Units returns an Amount which equals to n whole currency units.
func Units(n int64) Amount {
	return Amount(n * 100)
}

// ParseAmount parses a decimal string such as "5", "5.5", or "5.25".
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	whole, frac, found := strings.Cut(s, ".")
	if whole == "" || (found && (frac == "" || len(frac) > 2)) {
		return 0, ErrInvalidAmount
	}
	neg := strings.HasPrefix(whole, "-")
	w, err := strconv.ParseUint(strings.TrimPrefix(whole, "-"), 10, 64)
	if err != nil || w > maxWholeUnits {
		return 0, ErrInvalidAmount
	}
	var f uint64
	if found {
		if len(frac) == 1 {
			frac += "0"
		}
		if f, err = strconv.ParseUint(frac, 10, 8); err != nil {
			return 0, ErrInvalidAmount
		}
	}
	a := Amount(w*100 + f)
	if neg {
		a = -a
	}
	return a, nil
}

// AmountFromFloat rounds a float value (e.g., as scanned from a
// NUMERIC database column) to the nearest Amount.
func AmountFromFloat(f float64) Amount {
	return Amount(math.Round(f * 100))
}

// Float returns the amount in currency units.
func (a Amount) Float() float64 {
	return float64(a) / 100
}

// String formats the amount with exactly two fractional digits.
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign, v = "-", -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a JSON number, omitting the
// trailing fractional zeros, so 25 units are encoded as 25.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(a.Float(), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts both JSON numbers and decimal JSON strings.
// A JSON null leaves a unchanged.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	s := strings.Trim(string(data), `"`)
	aa, err := ParseAmount(s)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", s, err)
	}
	*a = aa
	return nil
}
