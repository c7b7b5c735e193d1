// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "errors"

// These errors describe the violated business rules. They carry no
// parameters because callers already know the involved entities and
// are expected to wrap them (e.g., by the cerr package) before
// returning them to the outer layers.
var (
	ErrNoCopiesAvailable     = errors.New("no copies available")
	ErrAlreadyReturned       = errors.New("already returned")
	ErrBorrowDateInFuture    = errors.New("borrow date is in the future")
	ErrDueBeforeBorrow       = errors.New("due date is before the borrow date")
	ErrReturnBeforeBorrow    = errors.New("return date is before the borrow date")
	ErrNegativeLateFee       = errors.New("late fee is negative")
	ErrNegativeCopies        = errors.New("copies count is negative")
	ErrAvailableExceedsTotal = errors.New("available copies exceed total copies")
	ErrTotalBelowLent        = errors.New("total copies are fewer than the lent copies")
	ErrRatingOutOfRange      = errors.New("rating must be between 1 and 5")
	ErrUnknownMemberType     = errors.New("unknown member type")
	ErrEmptyName             = errors.New("name is empty")
)
