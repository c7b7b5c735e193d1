// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"log/slog"
	"time"
)

// DateLayout is the textual representation of a Date, as expected
// in JSON documents, query strings, and log records.
const DateLayout = time.DateOnly

// Date is a calendar day without any time-of-day or time zone.
// It is stored as the UTC midnight of that day, so two Date values
// may be compared with the == operator.
// The zero Date is 0001-01-01 and is reported by IsZero.
type Date struct {
	t time.Time
}

// NewDate returns the Date of the given year, month, and day.
// Out of range month and day values are normalized similar to the
// time.Date function (e.g., 2025-02-30 becomes 2025-03-02).
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of the given instant as observed
// in the t location. The clock reading is discarded.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing %q as a date: %w", s, err)
	}
	return Date{t: t}, nil
}

// MustParseDate is similar to ParseDate but panics on errors.
// It is useful for constants in tests and sample data.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the UTC midnight instant of d.
func (d Date) Time() time.Time {
	return d.t
}

// Before reports whether d is strictly earlier than d2.
func (d Date) Before(d2 Date) bool {
	return d.t.Before(d2.t)
}

// After reports whether d is strictly later than d2.
func (d Date) After(d2 Date) bool {
	return d.t.After(d2.t)
}

// AddDays returns the Date which is n days after d (or before it if
// n is negative).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysSince returns the number of whole days from d2 to d.
// The result is negative when d is before d2.
func (d Date) DaysSince(d2 Date) int {
	return int(d.t.Sub(d2.t).Hours() / 24)
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// LogValue implements the slog.LogValuer interface.
func (d Date) LogValue() slog.Value {
	return slog.StringValue(d.String())
}

// MarshalText implements the encoding.TextMarshaler interface, so
// a Date is (de)serialized as a YYYY-MM-DD JSON string.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (d *Date) UnmarshalText(text []byte) error {
	dd, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = dd
	return nil
}
