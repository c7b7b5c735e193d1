// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// OutOfRangeError reports a setting which was not within its bounds.
// Value is the rejected value, and Min or Max is the violated bound.
// If both bounds are set, the bounds themselves were inconsistent.
type OutOfRangeError[T cmp.Ordered] struct {
	Value    T
	Min, Max *T
}

func (e *OutOfRangeError[T]) Error() string {
	switch {
	case e.Min != nil && e.Max != nil:
		return fmt.Sprintf(
			"minimum %v is greater than maximum %v", *e.Min, *e.Max,
		)
	case e.Min != nil:
		return fmt.Sprintf("%v is less than the minimum %v", e.Value, *e.Min)
	default:
		return fmt.Sprintf("%v is greater than the maximum %v", e.Value, *e.Max)
	}
}

// VerifyRange checks that *value is within the lo and hi bounds. A nil
// *value or bound is not checked. An out of range *value is clamped to
// the violated bound, so callers which only log the error may go on.
func VerifyRange[T cmp.Ordered](value **T, lo, hi *T) *OutOfRangeError[T] {
	if lo != nil && hi != nil && *lo > *hi {
		return &OutOfRangeError[T]{Min: lo, Max: hi}
	}
	if *value == nil {
		return nil
	}
	v := **value
	if lo != nil && v < *lo {
		**value = *lo
		return &OutOfRangeError[T]{Value: v, Min: lo}
	}
	if hi != nil && v > *hi {
		**value = *hi
		return &OutOfRangeError[T]{Value: v, Max: hi}
	}
	return nil
}
