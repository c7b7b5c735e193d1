// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Day is the length of a calendar day, as used by loan periods.
const Day = 24 * time.Hour

// Duration is a specialization of the time.Duration which produces a
// more human-readable representation when marshaled using its Marshal
// method. Whole days may be written with a d suffix, e.g., 14d.
type Duration time.Duration

// UnmarshalText reifies the encoding.TextUnmarshaler interface, so
// a byte slice (e.g., read from a YAML file) can be decoded as a
// time duration. The format of the `data` argument should either be
// a non-negative number of days like 14d or conform to the
// time.ParseDuration expected format. In absence of errors, a nil
// error will be returned and only then, `d` receiver will be updated
// to contain the decoded duration.
func (d *Duration) UnmarshalText(data []byte) error {
	s := string(data)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseUint(days, 10, 16)
		if err != nil {
			return fmt.Errorf("invalid number of days: %q", s)
		}
		*d = Duration(time.Duration(n) * Day)
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

// Marshal returns a string representation of the `d` time duration.
// If d is nil, nil will be returned. A whole number of days is
// encoded like 14d and other durations follow the time.Duration string
// representation, e.g., 2h3m4s, with this difference that zero
// trailing values will be ignored. A zero duration is encoded as 0h.
func (d *Duration) Marshal() *string {
	if d == nil {
		return nil
	}
	td := time.Duration(*d)
	if td > 0 && td%Day == 0 {
		s := fmt.Sprintf("%dd", td/Day)
		return &s
	}
	s := td.String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	if s == "0s" {
		s = "0h"
	}
	return &s
}

// String returns the Marshal representation of d, like 14d.
func (d Duration) String() string {
	return *(&d).Marshal()
}

// MarshalText implements encoding.TextMarshaler interface and
// serializes `d` duration using its Marshal method.
func (d *Duration) MarshalText() ([]byte, error) {
	if s := d.Marshal(); s != nil {
		return []byte(*s), nil
	}
	return nil, errors.New("nil duration")
}

// LogValue implements slog.LogValuer interface, so a nil Duration is
// logged as "nil-duration".
func (d *Duration) LogValue() slog.Value {
	if d == nil {
		return slog.StringValue("nil-duration")
	}
	return slog.DurationValue(time.Duration(*d))
}
