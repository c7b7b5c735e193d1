// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package borrowinguc contains the borrowing lifecycle UseCase.
// A borrowing is created by the Borrow use case which takes one copy
// of a book, and is closed exactly once by the Return use case which
// puts that copy back and computes the late fee. Both of them update
// the borrowing and its book in one transaction, so no caller may
// observe a borrowing without its matching copies bookkeeping.
// Derived queries, such as listing the active borrowings of a member
// or checking if a member has overdue books, are supported too.
package borrowinguc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/momeni/clean-library/pkg/core/cerr"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/log"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
)

// Observer is notified about the outcome of the lifecycle operations.
// The err argument is nil for successful operations and elapsed is
// the time which is spent by an operation.
type Observer interface {
	ObserveBorrow(err error, elapsed time.Duration)
	ObserveReturn(fee model.Amount, err error, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveBorrow(error, time.Duration) {}

func (nopObserver) ObserveReturn(model.Amount, error, time.Duration) {}

// UseCase represents the borrowing lifecycle use case. It holds a
// database connection pool, the involved repositories, and the
// lending policy settings.
type UseCase struct {
	pool         repo.Pool
	borrowingsrp repo.Borrowings
	inventoryrp  repo.Inventory
	membersrp    repo.Members

	clock         clock.Clock
	location      *time.Location
	lateFeePerDay model.Amount
	loanDays      int
	observer      Observer
}

// New instantiates a borrowing use case.
func New(
	p repo.Pool,
	b repo.Borrowings,
	i repo.Inventory,
	m repo.Members,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:         p,
		borrowingsrp: b,
		inventoryrp:  i,
		membersrp:    m,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.clock == nil {
		uc.clock = clock.WallClock
	}
	if uc.location == nil {
		uc.location = time.UTC
	}
	if uc.lateFeePerDay == 0 {
		uc.lateFeePerDay = model.Units(5)
	}
	if uc.loanDays == 0 {
		uc.loanDays = 14
	}
	if uc.observer == nil {
		uc.observer = nopObserver{}
	}
	return uc, nil
}

// Today returns the current date as observed by the configured clock
// in the configured time zone.
func (uc *UseCase) Today() model.Date {
	return model.DateOf(uc.clock.Now().In(uc.location))
}

// BorrowRequest contains the Borrow use case arguments.
// A nil BorrowDate stands for today and a nil DueDate stands for the
// borrow date plus the configured loan period.
// A non-nil RequestID makes the request idempotent, so retrying it
// returns the borrowing which was created by the first attempt.
type BorrowRequest struct {
	BookID     model.ID
	MemberID   model.ID
	BorrowDate *model.Date
	DueDate    *model.Date
	RequestID  *uuid.UUID
}

// Borrow use case lends one copy of the req.BookID book to the
// req.MemberID member. The new borrowing is created and the available
// copies of the book is decremented atomically. If the book has no
// available copy, an InvalidState error wrapping the
// model.ErrNoCopiesAvailable is returned.
func (uc *UseCase) Borrow(
	ctx context.Context, req BorrowRequest,
) (b *model.Borrowing, err error) {
	start := uc.clock.Now()
	defer func() {
		uc.observer.ObserveBorrow(err, uc.clock.Now().Sub(start))
	}()
	today := uc.Today()
	borrowDate := today
	if req.BorrowDate != nil {
		borrowDate = *req.BorrowDate
	}
	dueDate := borrowDate.AddDays(uc.loanDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}
	nb, err := model.NewBorrowing(
		req.BookID, req.MemberID, borrowDate, dueDate, today,
	)
	if err != nil {
		return nil, cerr.Validation(err)
	}
	nb.RequestID = req.RequestID
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			b, err = uc.borrow(ctx, tx, nb)
			return err
		})
	})
	if err != nil {
		log.Info(
			ctx, "borrow is refused",
			slog.Int64("book", req.BookID),
			slog.Int64("member", req.MemberID),
			log.Err("reason", err),
		)
		return nil, err
	}
	log.Info(
		ctx, "book is borrowed",
		slog.Int64("borrowing", b.ID),
		slog.Int64("book", b.BookID),
		slog.Int64("member", b.MemberID),
		log.Valuer("due", b.DueDate),
	)
	return b, nil
}

func (uc *UseCase) borrow(
	ctx context.Context, tx repo.Tx, nb *model.Borrowing,
) (*model.Borrowing, error) {
	bq := uc.borrowingsrp.Tx(tx)
	if nb.RequestID != nil {
		prev, err := bq.FindByRequestID(ctx, *nb.RequestID)
		switch {
		case err == nil:
			if prev.BookID != nb.BookID || prev.MemberID != nb.MemberID {
				return nil, cerr.Conflict(fmt.Errorf(
					"request %s was used for borrowing %d",
					nb.RequestID, prev.ID,
				))
			}
			return prev, nil
		case !errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("finding request %s: %w", nb.RequestID, err)
		}
	}
	if _, err := uc.membersrp.Tx(tx).Get(ctx, nb.MemberID); err != nil {
		return nil, notFound(err, "member", nb.MemberID)
	}
	iq := uc.inventoryrp.Tx(tx)
	taken, err := iq.TakeCopy(ctx, nb.BookID)
	if err != nil {
		return nil, fmt.Errorf("taking a copy of book %d: %w", nb.BookID, err)
	}
	if !taken {
		if _, err := iq.Availability(ctx, nb.BookID); err != nil {
			return nil, notFound(err, "book", nb.BookID)
		}
		return nil, cerr.InvalidState(model.ErrNoCopiesAvailable)
	}
	b, err := bq.Create(ctx, nb)
	if err != nil {
		return nil, fmt.Errorf("creating borrowing: %w", err)
	}
	return b, nil
}

// Return use case closes the id borrowing as of today, computes its
// late fee, and puts back its book copy atomically. Returning a closed
// borrowing fails with an InvalidState error wrapping the
// model.ErrAlreadyReturned error.
func (uc *UseCase) Return(
	ctx context.Context, id model.ID,
) (b *model.Borrowing, err error) {
	start := uc.clock.Now()
	defer func() {
		var fee model.Amount
		if b != nil {
			fee = b.LateFee
		}
		uc.observer.ObserveReturn(fee, err, uc.clock.Now().Sub(start))
	}()
	today := uc.Today()
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			b, err = uc.giveBack(ctx, tx, id, today)
			return err
		})
	})
	if err != nil {
		log.Info(
			ctx, "return is refused",
			slog.Int64("borrowing", id),
			log.Err("reason", err),
		)
		return nil, err
	}
	log.Info(
		ctx, "book is returned",
		slog.Int64("borrowing", b.ID),
		slog.Int64("book", b.BookID),
		slog.String("late_fee", b.LateFee.String()),
	)
	return b, nil
}

func (uc *UseCase) giveBack(
	ctx context.Context, tx repo.Tx, id model.ID, today model.Date,
) (*model.Borrowing, error) {
	bq := uc.borrowingsrp.Tx(tx)
	b, err := bq.Lock(ctx, id)
	if err != nil {
		return nil, notFound(err, "borrowing", id)
	}
	if err := b.Close(today, uc.lateFeePerDay); err != nil {
		return nil, cerr.InvalidState(err)
	}
	closed, err := bq.Close(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("closing borrowing %d: %w", id, err)
	}
	if !closed {
		return nil, cerr.InvalidState(model.ErrAlreadyReturned)
	}
	put, err := uc.inventoryrp.Tx(tx).PutCopy(ctx, b.BookID)
	if err != nil {
		return nil, fmt.Errorf("putting back a copy of book %d: %w", b.BookID, err)
	}
	if !put {
		return nil, cerr.Conflict(fmt.Errorf(
			"book %d: %w", b.BookID, model.ErrAvailableExceedsTotal,
		))
	}
	return b, nil
}

// Availability returns the copies counts of the id book.
func (uc *UseCase) Availability(
	ctx context.Context, id model.ID,
) (a *model.Availability, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		a, err = uc.inventoryrp.Conn(c).Availability(ctx, id)
		return err
	})
	if err != nil {
		return nil, notFound(err, "book", id)
	}
	return a, nil
}

// Rating returns the average rating of the bookID book of the
// libraryID library.
func (uc *UseCase) Rating(
	ctx context.Context, libraryID, bookID model.ID,
) (r *model.BookRating, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		r, err = uc.inventoryrp.Conn(c).Rating(ctx, libraryID, bookID)
		return err
	})
	if err != nil {
		return nil, notFound(err, "book", bookID)
	}
	return r, nil
}

// List returns the borrowings which match with the q query.
func (uc *UseCase) List(
	ctx context.Context, q *filter.Query,
) (bs []model.Borrowing, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		bs, err = uc.borrowingsrp.Conn(c).List(ctx, q)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing borrowings: %w", err)
	}
	return bs, nil
}

// Get returns the id borrowing.
func (uc *UseCase) Get(
	ctx context.Context, id model.ID,
) (b *model.Borrowing, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		b, err = uc.borrowingsrp.Conn(c).Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, notFound(err, "borrowing", id)
	}
	return b, nil
}

// ActiveBorrowings returns the not yet returned borrowings of the
// memberID member, ordered by their identities.
func (uc *UseCase) ActiveBorrowings(
	ctx context.Context, memberID model.ID,
) ([]model.Borrowing, error) {
	q := (&filter.Query{}).
		Where(filter.Borrowings.Field("member"), memberID).
		Where(filter.Borrowings.Field("return_date_isnull"), true)
	return uc.memberBorrowings(ctx, memberID, q)
}

// History returns all borrowings of the memberID member, including
// both of active and returned ones, ordered by their identities.
func (uc *UseCase) History(
	ctx context.Context, memberID model.ID,
) ([]model.Borrowing, error) {
	q := (&filter.Query{}).
		Where(filter.Borrowings.Field("member"), memberID)
	return uc.memberBorrowings(ctx, memberID, q)
}

func (uc *UseCase) memberBorrowings(
	ctx context.Context, memberID model.ID, q *filter.Query,
) (bs []model.Borrowing, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if _, err := uc.membersrp.Conn(c).Get(ctx, memberID); err != nil {
			return notFound(err, "member", memberID)
		}
		bs, err = uc.borrowingsrp.Conn(c).List(ctx, q)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("borrowings of member %d: %w", memberID, err)
	}
	return bs, nil
}

// HasOverdueBooks reports whether the memberID member has an active
// borrowing which its due date is before today.
func (uc *UseCase) HasOverdueBooks(
	ctx context.Context, memberID model.ID,
) (overdue bool, err error) {
	today := uc.Today()
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if _, err := uc.membersrp.Conn(c).Get(ctx, memberID); err != nil {
			return notFound(err, "member", memberID)
		}
		m, err := uc.borrowingsrp.Conn(c).OverdueMembers(
			ctx, []model.ID{memberID}, today,
		)
		overdue = m[memberID]
		return err
	})
	if err != nil {
		return false, fmt.Errorf("checking member %d: %w", memberID, err)
	}
	return overdue, nil
}

// MarkOverdue fills the HasOverdue field of the given members using
// the c connection. It is suitable to be registered as a decorator of
// the members catalog use case.
func (uc *UseCase) MarkOverdue(
	ctx context.Context, c repo.Conn, ms []model.Member,
) error {
	if len(ms) == 0 {
		return nil
	}
	ids := make([]model.ID, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	overdue, err := uc.borrowingsrp.Conn(c).OverdueMembers(
		ctx, ids, uc.Today(),
	)
	if err != nil {
		return fmt.Errorf("finding overdue members: %w", err)
	}
	for i := range ms {
		ms[i].HasOverdue = overdue[ms[i].ID]
	}
	return nil
}

func notFound(err error, entity string, id model.ID) error {
	if errors.Is(err, repo.ErrNotFound) {
		return cerr.NotFound(fmt.Errorf("%s %d: %w", entity, id, err))
	}
	return fmt.Errorf("finding %s %d: %w", entity, id, err)
}
