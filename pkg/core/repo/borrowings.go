// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/clean-library/pkg/core/model"
)

// BorrowingsQueryer contains the read-only queries of borrowings.
type BorrowingsQueryer interface {
	ReadQueryer[model.Borrowing]

	// CountActive returns the number of not yet returned borrowings.
	CountActive(ctx context.Context) (int64, error)

	// CountOverdue returns the number of active borrowings which their
	// due date is before today.
	CountOverdue(ctx context.Context, today model.Date) (int64, error)

	// OverdueMembers returns the subset of memberIDs which have at
	// least one active borrowing with a due date before today.
	OverdueMembers(
		ctx context.Context, memberIDs []model.ID, today model.Date,
	) (map[model.ID]bool, error)
}

// BorrowingsConnQueryer is the connection specific BorrowingsQueryer.
type BorrowingsConnQueryer interface {
	BorrowingsQueryer
}

// BorrowingsTxQueryer contains the lifecycle write operations which
// must be combined with the books copies bookkeeping in a transaction.
type BorrowingsTxQueryer interface {
	BorrowingsQueryer

	// Create inserts the b active borrowing.
	// If b.RequestID is not nil and another borrowing is created with
	// the same request ID, a conflict error is returned.
	Create(ctx context.Context, b *model.Borrowing) (*model.Borrowing, error)

	// FindByRequestID returns the borrowing which was created by the
	// requestID idempotency key, or ErrNotFound.
	FindByRequestID(ctx context.Context, requestID uuid.UUID) (
		*model.Borrowing, error,
	)

	// Lock returns the id borrowing after locking its row until the
	// end of the current transaction, or ErrNotFound.
	Lock(ctx context.Context, id model.ID) (*model.Borrowing, error)

	// Close persists the return date and late fee of b if it is still
	// active in the database, reporting whether it was updated.
	Close(ctx context.Context, b *model.Borrowing) (bool, error)
}

// Borrowings is a repository of model.Borrowing entities.
type Borrowings interface {
	Conn(Conn) BorrowingsConnQueryer
	Tx(Tx) BorrowingsTxQueryer
}
