// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package inventoryrp

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/clean-library/pkg/adapter/db/postgres"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
	"gorm.io/gorm"
)

type gCopies struct {
	BookID          model.ID `gorm:"primaryKey;column:book_id"`
	Title           string   `gorm:"column:title"`
	TotalCopies     int      `gorm:"column:total_copies"`
	AvailableCopies int      `gorm:"column:available_copies"`
}

func (gc *gCopies) TableName() string {
	return "books"
}

// Availability returns the copies counts of the id book.
func Availability[Q postgres.Queryer](
	ctx context.Context, q Q, id model.ID,
) (*model.Availability, error) {
	var gc gCopies
	err := q.GORM(ctx).Where("book_id = ?", id).Take(&gc).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, repo.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	return &model.Availability{
		BookID:          gc.BookID,
		Title:           gc.Title,
		AvailableCopies: gc.AvailableCopies,
		TotalCopies:     gc.TotalCopies,
	}, nil
}

// Rating computes the average rating of the bookID book, rounded to
// two decimal places, if it belongs to the libraryID library.
// A book without reviews has a nil average rating.
func Rating[Q postgres.Queryer](
	ctx context.Context, q Q, libraryID, bookID model.ID,
) (*model.BookRating, error) {
	var rows []struct {
		BookID        model.ID `gorm:"column:book_id"`
		AverageRating *float64 `gorm:"column:average_rating"`
	}
	err := q.GORM(ctx).Raw(`SELECT b.book_id,
	CAST(ROUND(AVG(r.rating), 2) AS double precision) AS average_rating
FROM books b LEFT JOIN reviews r ON r.book_id = b.book_id
WHERE b.book_id = ? AND b.library_id = ?
GROUP BY b.book_id`, bookID, libraryID).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(rows) != 1 {
		return nil, repo.ErrNotFound
	}
	return &model.BookRating{
		BookID: rows[0].BookID, AverageRating: rows[0].AverageRating,
	}, nil
}

// TakeCopy decrements the available copies of the id book in one
// conditional UPDATE statement, so the availability check and the
// decrement may not be interleaved by a concurrent transaction.
func TakeCopy[Q postgres.Queryer](
	ctx context.Context, q Q, id model.ID,
) (bool, error) {
	res := q.GORM(ctx).Model(&gCopies{}).
		Where("book_id = ? AND available_copies > 0", id).
		UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
	if err := res.Error; err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	return res.RowsAffected == 1, nil
}

// PutCopy increments the available copies of the id book unless it
// already equals the total copies.
func PutCopy[Q postgres.Queryer](
	ctx context.Context, q Q, id model.ID,
) (bool, error) {
	res := q.GORM(ctx).Model(&gCopies{}).
		Where("book_id = ? AND available_copies < total_copies", id).
		UpdateColumn("available_copies", gorm.Expr("available_copies + 1"))
	if err := res.Error; err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	return res.RowsAffected == 1, nil
}
