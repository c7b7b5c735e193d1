// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/clean-library/pkg/core/model"
)

// Books is the catalog repository of books, managing their records
// and authors and categories links. Copies bookkeeping during the
// borrowing lifecycle is performed by the Inventory repository.
type Books = Entities[model.Book]

// InventoryQueryer contains the read-only copies queries.
type InventoryQueryer interface {
	// Availability returns the copies counts of the id book or
	// ErrNotFound.
	Availability(ctx context.Context, id model.ID) (
		*model.Availability, error,
	)

	// Rating returns the average rating of the bookID book if it
	// belongs to the libraryID library, otherwise, ErrNotFound.
	Rating(ctx context.Context, libraryID, bookID model.ID) (
		*model.BookRating, error,
	)
}

// InventoryConnQueryer is the connection specific InventoryQueryer.
type InventoryConnQueryer interface {
	InventoryQueryer
}

// InventoryTxQueryer contains the copies updates which must be
// executed in a transaction because they are a part of a larger
// atomic unit, such as borrowing a book.
type InventoryTxQueryer interface {
	InventoryQueryer

	// TakeCopy decrements the available copies of the id book if it
	// has at least one available copy. The check and decrement are
	// performed atomically, so concurrent callers may not take more
	// copies than available. The false return value indicates that
	// either the book has no available copy or it does not exist.
	TakeCopy(ctx context.Context, id model.ID) (bool, error)

	// PutCopy increments the available copies of the id book if it is
	// less than its total copies, reporting whether it was updated.
	PutCopy(ctx context.Context, id model.ID) (bool, error)
}

// Inventory is a repository for the copies counts of books.
type Inventory interface {
	Conn(Conn) InventoryConnQueryer
	Tx(Tx) InventoryTxQueryer
}
