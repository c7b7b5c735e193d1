// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package borrowingsrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres/filterqb"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gBorrowing keeps the late fee as the text form of its NUMERIC
// column, so no precision is lost by a float conversion.
type gBorrowing struct {
	BorrowingID model.ID   `gorm:"primaryKey;column:borrowing_id"`
	BookID      model.ID   `gorm:"column:book_id"`
	MemberID    model.ID   `gorm:"column:member_id"`
	BorrowDate  time.Time  `gorm:"column:borrow_date;type:date"`
	DueDate     time.Time  `gorm:"column:due_date;type:date"`
	ReturnDate  *time.Time `gorm:"column:return_date;type:date"`
	LateFee     string     `gorm:"column:late_fee;type:numeric(10,2)"`
	RequestID   *uuid.UUID `gorm:"column:request_id;type:uuid"`
}

func (gb *gBorrowing) TableName() string {
	return "borrowings"
}

func (gb *gBorrowing) Model() (*model.Borrowing, error) {
	fee, err := model.ParseAmount(gb.LateFee)
	if err != nil {
		return nil, fmt.Errorf("late fee of borrowing %d: %w", gb.BorrowingID, err)
	}
	b := &model.Borrowing{
		ID:         gb.BorrowingID,
		BookID:     gb.BookID,
		MemberID:   gb.MemberID,
		BorrowDate: model.DateOf(gb.BorrowDate),
		DueDate:    model.DateOf(gb.DueDate),
		LateFee:    fee,
		RequestID:  gb.RequestID,
	}
	if gb.ReturnDate != nil {
		d := model.DateOf(*gb.ReturnDate)
		b.ReturnDate = &d
	}
	return b, nil
}

func fromModel(b *model.Borrowing) *gBorrowing {
	gb := &gBorrowing{
		BookID:     b.BookID,
		MemberID:   b.MemberID,
		BorrowDate: b.BorrowDate.Time(),
		DueDate:    b.DueDate.Time(),
		LateFee:    b.LateFee.String(),
		RequestID:  b.RequestID,
	}
	if b.ReturnDate != nil {
		t := b.ReturnDate.Time()
		gb.ReturnDate = &t
	}
	return gb
}

// List returns the borrowings which match the q query.
func List[Q postgres.Queryer](
	ctx context.Context, q Q, fq *filter.Query,
) ([]model.Borrowing, error) {
	rows, err := filterqb.Find[gBorrowing](q.GORM(ctx), filter.Borrowings, fq)
	if err != nil {
		return nil, err
	}
	bs := make([]model.Borrowing, len(rows))
	for i := range rows {
		b, err := rows[i].Model()
		if err != nil {
			return nil, err
		}
		bs[i] = *b
	}
	return bs, nil
}

// Get returns the id borrowing. If lock is true, the borrowing row is
// locked (using SELECT ... FOR UPDATE) until the end of the ongoing
// transaction, so concurrent returns of one borrowing are serialized.
func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id model.ID, lock bool,
) (*model.Borrowing, error) {
	gdb := q.GORM(ctx)
	if lock {
		gdb = gdb.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return take(gdb.Where("borrowing_id = ?", id))
}

// FindByRequestID returns the borrowing which was created by the
// requestID idempotency key.
func FindByRequestID[Q postgres.Queryer](
	ctx context.Context, q Q, requestID uuid.UUID,
) (*model.Borrowing, error) {
	return take(q.GORM(ctx).Where("request_id = ?", requestID))
}

func take(gdb *gorm.DB) (*model.Borrowing, error) {
	var gb gBorrowing
	err := gdb.Take(&gb).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, repo.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	return gb.Model()
}

// Count returns the number of borrowings which match the optional
// cond condition with its args.
func Count[Q postgres.Queryer](
	ctx context.Context, q Q, cond string, args ...any,
) (n int64, err error) {
	gdb := q.GORM(ctx).Model(&gBorrowing{})
	if cond != "" {
		gdb = gdb.Where(cond, args...)
	}
	if err = gdb.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("query: %w", err)
	}
	return n, nil
}

// OverdueMembers finds out which memberIDs members have at least one
// active borrowing which its due date is before today.
func OverdueMembers[Q postgres.Queryer](
	ctx context.Context, q Q, memberIDs []model.ID, today model.Date,
) (map[model.ID]bool, error) {
	res := make(map[model.ID]bool)
	if len(memberIDs) == 0 {
		return res, nil
	}
	var ids []model.ID
	err := q.GORM(ctx).Model(&gBorrowing{}).
		Distinct("member_id").
		Where("member_id IN ?", memberIDs).
		Where("return_date IS NULL AND due_date < ?", today.Time()).
		Pluck("member_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	for _, id := range ids {
		res[id] = true
	}
	return res, nil
}

// Create inserts the b borrowing. Reusing a request ID violates the
// unique index of the request_id column and is reported as a conflict.
func Create[Q postgres.Queryer](
	ctx context.Context, q Q, b *model.Borrowing,
) (*model.Borrowing, error) {
	gb := fromModel(b)
	if err := q.GORM(ctx).Create(gb).Error; err != nil {
		return nil, postgres.TranslateError(err, "inserting borrowing")
	}
	return gb.Model()
}

// Close stores the return date and late fee of b, provided that it is
// not returned yet. The false return value indicates that another
// transaction has returned it beforehand.
func Close[Q postgres.Queryer](
	ctx context.Context, q Q, b *model.Borrowing,
) (bool, error) {
	if b.ReturnDate == nil {
		return false, errors.New("closing a borrowing with no return date")
	}
	res := q.GORM(ctx).Model(&gBorrowing{}).
		Where("borrowing_id = ? AND return_date IS NULL", b.ID).
		Updates(map[string]any{
			"return_date": b.ReturnDate.Time(),
			"late_fee":    b.LateFee.String(),
		})
	if err := res.Error; err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	return res.RowsAffected == 1, nil
}
