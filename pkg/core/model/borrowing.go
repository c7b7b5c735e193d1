// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "github.com/google/uuid"

// Borrowing records that a member has taken one copy of a book.
// A borrowing is active while its ReturnDate is nil. It is closed
// exactly once by the Close method, fixing its ReturnDate and LateFee.
// A closed borrowing is never modified again.
type Borrowing struct {
	ID         ID     `json:"borrowing_id"`
	BookID     ID     `json:"book_id"`
	MemberID   ID     `json:"member_id"`
	BorrowDate Date   `json:"borrow_date"`
	DueDate    Date   `json:"due_date"`
	ReturnDate *Date  `json:"return_date"`
	LateFee    Amount `json:"late_fee"`

	// RequestID is the client supplied idempotency key of the borrow
	// request which has created this borrowing, if any.
	RequestID *uuid.UUID `json:"-"`
}

// NewBorrowing validates the borrowing dates against today and
// returns an active Borrowing with no late fee.
// The borrowDate must not be after today and dueDate must not be
// before the borrowDate.
func NewBorrowing(
	bookID, memberID ID, borrowDate, dueDate, today Date,
) (*Borrowing, error) {
	switch {
	case borrowDate.After(today):
		return nil, ErrBorrowDateInFuture
	case dueDate.Before(borrowDate):
		return nil, ErrDueBeforeBorrow
	}
	return &Borrowing{
		BookID:     bookID,
		MemberID:   memberID,
		BorrowDate: borrowDate,
		DueDate:    dueDate,
	}, nil
}

// IsActive reports whether b is not returned yet.
func (b Borrowing) IsActive() bool {
	return b.ReturnDate == nil
}

// IsOverdue reports whether b is active and its due date has passed.
func (b Borrowing) IsOverdue(today Date) bool {
	return b.IsActive() && b.DueDate.Before(today)
}

// Close marks b as returned on the returnDate and computes its late
// fee using the perDay rate. Closing an already returned borrowing
// fails with ErrAlreadyReturned and leaves b intact.
func (b *Borrowing) Close(returnDate Date, perDay Amount) error {
	switch {
	case !b.IsActive():
		return ErrAlreadyReturned
	case returnDate.Before(b.BorrowDate):
		return ErrReturnBeforeBorrow
	case perDay < 0:
		return ErrNegativeLateFee
	}
	b.ReturnDate = &returnDate
	b.LateFee = LateFee(b.DueDate, returnDate, perDay)
	return nil
}

// LateFee computes the fee of returning a copy on the returnDate
// while it was due on the dueDate. Each whole day of delay costs
// perDay and returning on (or before) the due date costs nothing.
func LateFee(dueDate, returnDate Date, perDay Amount) Amount {
	days := returnDate.DaysSince(dueDate)
	if days <= 0 {
		return 0
	}
	return Amount(days) * perDay
}

// HasOverdue reports whether any of the given borrowings is overdue.
func HasOverdue(bs []Borrowing, today Date) bool {
	for _, b := range bs {
		if b.IsOverdue(today) {
			return true
		}
	}
	return false
}
