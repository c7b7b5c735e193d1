// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"github.com/momeni/clean-library/pkg/core/model"
)

// Amount is a monetary amount with two fractional digits which is
// written as a decimal string in the configuration file, e.g., 5.00.
// It is kept as a distinct type, so the configuration file format does
// not change when model.Amount serialization changes.
type Amount int64

// UnmarshalText reifies the encoding.TextUnmarshaler interface and
// parses a decimal amount like 5 or 2.50.
func (a *Amount) UnmarshalText(data []byte) error {
	m, err := model.ParseAmount(string(data))
	if err != nil {
		return err
	}
	*a = Amount(m)
	return nil
}

// MarshalText implements encoding.TextMarshaler interface.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(model.Amount(a).String()), nil
}

// Model converts `a` to its model layer representation.
func (a Amount) Model() model.Amount {
	return model.Amount(a)
}
