// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package borrowinguc_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock/testclock"
	"github.com/momeni/clean-library/internal/test/memrepo"
	"github.com/momeni/clean-library/pkg/core/cerr"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/usecase/borrowinguc"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

type recorder struct {
	mu      sync.Mutex
	borrows []error
	returns []model.Amount
}

func (r *recorder) ObserveBorrow(err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.borrows = append(r.borrows, err)
}

func (r *recorder) ObserveReturn(fee model.Amount, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		r.returns = append(r.returns, fee)
	}
}

type BorrowingUseCaseTestSuite struct {
	suite.Suite

	ctx   context.Context
	store *memrepo.Store
	clock *testclock.Clock
	obs   *recorder
	uc    *borrowinguc.UseCase

	book   model.Book
	member model.Member
}

func TestBorrowingUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(BorrowingUseCaseTestSuite))
}

func (s *BorrowingUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memrepo.New()
	s.clock = testclock.NewClock(
		time.Date(2025, time.August, 10, 9, 30, 0, 0, time.UTC),
	)
	s.obs = &recorder{}
	var err error
	s.uc, err = borrowinguc.New(
		s.store,
		s.store.BorrowingsRepo(),
		s.store.InventoryRepo(),
		s.store.MembersRepo(),
		borrowinguc.WithClock(s.clock),
		borrowinguc.WithObserver(s.obs),
	)
	s.Require().NoError(err)
	lib := s.store.Libraries.Insert(model.Library{Name: "Central"})
	s.book = s.store.Books.Insert(model.Book{
		Title: "Dune", ISBN: "9780441013593", LibraryID: lib.ID,
		TotalCopies: 5, AvailableCopies: 1,
	})
	s.member = s.store.Members.Insert(model.Member{
		FirstName: "Ada", LastName: "Lovelace",
		MemberType: model.MemberTypeStudent,
	})
}

func (s *BorrowingUseCaseTestSuite) availableCopies() int {
	b, ok := s.store.Books.Row(s.book.ID)
	s.Require().True(ok)
	return b.AvailableCopies
}

func (s *BorrowingUseCaseTestSuite) borrow(bd, dd string) (*model.Borrowing, error) {
	req := borrowinguc.BorrowRequest{
		BookID: s.book.ID, MemberID: s.member.ID,
	}
	if bd != "" {
		d := model.MustParseDate(bd)
		req.BorrowDate = &d
	}
	if dd != "" {
		d := model.MustParseDate(dd)
		req.DueDate = &d
	}
	return s.uc.Borrow(s.ctx, req)
}

func (s *BorrowingUseCaseTestSuite) TestBorrowTakesTheLastCopy() {
	b, err := s.borrow("2025-08-10", "2025-08-24")
	s.Require().NoError(err)
	s.True(b.IsActive())
	s.Equal(model.Amount(0), b.LateFee)
	s.Equal(0, s.availableCopies())
	s.Equal(1, s.store.Borrowings.Len())

	_, err = s.borrow("2025-08-10", "2025-08-24")
	s.Require().Error(err)
	s.ErrorIs(err, model.ErrNoCopiesAvailable)
	s.Equal(cerr.KindInvalidState, cerr.KindOf(err))
	s.Equal(0, s.availableCopies())
	s.Equal(1, s.store.Borrowings.Len())
	s.Len(s.obs.borrows, 2)
}

func (s *BorrowingUseCaseTestSuite) TestBorrowDefaults() {
	b, err := s.borrow("", "")
	s.Require().NoError(err)
	s.Equal(model.NewDate(2025, time.August, 10), b.BorrowDate)
	s.Equal(model.NewDate(2025, time.August, 24), b.DueDate)
}

func (s *BorrowingUseCaseTestSuite) TestBorrowNotFound() {
	_, err := s.uc.Borrow(s.ctx, borrowinguc.BorrowRequest{
		BookID: s.book.ID + 100, MemberID: s.member.ID,
	})
	s.Equal(cerr.KindNotFound, cerr.KindOf(err))
	_, err = s.uc.Borrow(s.ctx, borrowinguc.BorrowRequest{
		BookID: s.book.ID, MemberID: s.member.ID + 100,
	})
	s.Equal(cerr.KindNotFound, cerr.KindOf(err))
	s.Equal(1, s.availableCopies())
}

func (s *BorrowingUseCaseTestSuite) TestBorrowValidation() {
	_, err := s.borrow("2025-08-11", "2025-08-24")
	s.ErrorIs(err, model.ErrBorrowDateInFuture)
	s.Equal(cerr.KindValidation, cerr.KindOf(err))
	_, err = s.borrow("2025-08-10", "2025-08-09")
	s.ErrorIs(err, model.ErrDueBeforeBorrow)
	s.Equal(cerr.KindValidation, cerr.KindOf(err))
	s.Equal(1, s.availableCopies())
}

func (s *BorrowingUseCaseTestSuite) TestBorrowRollsBackOnFailure() {
	s.store.FailCreateBorrowing = errors.New("disk is full")
	_, err := s.borrow("2025-08-10", "2025-08-24")
	s.Require().Error(err)
	s.Equal(1, s.availableCopies())
	s.Equal(0, s.store.Borrowings.Len())
}

func (s *BorrowingUseCaseTestSuite) TestBorrowIsIdempotentByRequestID() {
	id := uuid.New()
	req := borrowinguc.BorrowRequest{
		BookID: s.book.ID, MemberID: s.member.ID, RequestID: &id,
	}
	b1, err := s.uc.Borrow(s.ctx, req)
	s.Require().NoError(err)
	b2, err := s.uc.Borrow(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(b1.ID, b2.ID)
	s.Equal(0, s.availableCopies())
	s.Equal(1, s.store.Borrowings.Len())

	req.MemberID = s.store.Members.Insert(model.Member{FirstName: "X"}).ID
	_, err = s.uc.Borrow(s.ctx, req)
	s.Equal(cerr.KindConflict, cerr.KindOf(err))
}

// TestConcurrentBorrowsOfTheLastCopy checks that refused borrows are
// reported as ErrNoCopiesAvailable under contention. The memrepo
// transactions are serialized by a store lock, so the conditional
// decrement itself is covered by the memrepo tests and by the postgres
// suite of the gin package (TestPostgresConcurrentBorrows).
func (s *BorrowingUseCaseTestSuite) TestConcurrentBorrowsOfTheLastCopy() {
	const n = 8
	var wins, refusals int
	var mu sync.Mutex
	g := &errgroup.Group{}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := s.borrow("", "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, model.ErrNoCopiesAvailable):
				refusals++
			default:
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	s.Equal(1, wins)
	s.Equal(n-1, refusals)
	s.Equal(0, s.availableCopies())
}

func (s *BorrowingUseCaseTestSuite) TestReturnComputesLateFee() {
	b, err := s.borrow("2025-08-10", "2025-08-24")
	s.Require().NoError(err)
	s.clock.Advance(19 * 24 * time.Hour) // 2025-08-29

	r, err := s.uc.Return(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Require().NotNil(r.ReturnDate)
	s.Equal(model.NewDate(2025, time.August, 29), *r.ReturnDate)
	s.Equal(model.Units(25), r.LateFee)
	s.Equal(1, s.availableCopies())
	s.Equal([]model.Amount{model.Units(25)}, s.obs.returns)

	_, err = s.uc.Return(s.ctx, b.ID)
	s.ErrorIs(err, model.ErrAlreadyReturned)
	s.Equal(cerr.KindInvalidState, cerr.KindOf(err))
	s.Equal(1, s.availableCopies())
}

func (s *BorrowingUseCaseTestSuite) TestReturnOnTimeIsFree() {
	b, err := s.borrow("2025-08-10", "2025-08-24")
	s.Require().NoError(err)
	s.clock.Advance(14 * 24 * time.Hour) // due date itself
	r, err := s.uc.Return(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(model.Amount(0), r.LateFee)
}

func (s *BorrowingUseCaseTestSuite) TestReturnNotFound() {
	_, err := s.uc.Return(s.ctx, 42)
	s.Equal(cerr.KindNotFound, cerr.KindOf(err))
}

func (s *BorrowingUseCaseTestSuite) TestConcurrentReturnsApplyOnce() {
	b, err := s.borrow("", "")
	s.Require().NoError(err)
	var mu sync.Mutex
	var ok int
	g := &errgroup.Group{}
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			_, err := s.uc.Return(s.ctx, b.ID)
			if errors.Is(err, model.ErrAlreadyReturned) {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			ok++
			return err
		})
	}
	s.Require().NoError(g.Wait())
	s.Equal(1, ok)
	s.Equal(1, s.availableCopies())
}

func (s *BorrowingUseCaseTestSuite) TestMemberQueries() {
	overdue, err := s.uc.HasOverdueBooks(s.ctx, s.member.ID)
	s.Require().NoError(err)
	s.False(overdue, "no borrowings at all")

	b, err := s.borrow("2025-08-10", "2025-08-12")
	s.Require().NoError(err)
	active, err := s.uc.ActiveBorrowings(s.ctx, s.member.ID)
	s.Require().NoError(err)
	s.Len(active, 1)

	overdue, err = s.uc.HasOverdueBooks(s.ctx, s.member.ID)
	s.Require().NoError(err)
	s.False(overdue, "due date is not passed yet")

	s.clock.Advance(3 * 24 * time.Hour) // 2025-08-13
	overdue, err = s.uc.HasOverdueBooks(s.ctx, s.member.ID)
	s.Require().NoError(err)
	s.True(overdue)

	ms := []model.Member{s.member}
	s.Require().NoError(s.uc.MarkOverdue(s.ctx, nil, ms))
	s.True(ms[0].HasOverdue)

	_, err = s.uc.Return(s.ctx, b.ID)
	s.Require().NoError(err)
	overdue, err = s.uc.HasOverdueBooks(s.ctx, s.member.ID)
	s.Require().NoError(err)
	s.False(overdue, "returned borrowings are never overdue")

	active, err = s.uc.ActiveBorrowings(s.ctx, s.member.ID)
	s.Require().NoError(err)
	s.Empty(active)
	history, err := s.uc.History(s.ctx, s.member.ID)
	s.Require().NoError(err)
	s.Len(history, 1)

	_, err = s.uc.ActiveBorrowings(s.ctx, s.member.ID+1)
	s.Equal(cerr.KindNotFound, cerr.KindOf(err))
	_, err = s.uc.HasOverdueBooks(s.ctx, s.member.ID+1)
	s.Equal(cerr.KindNotFound, cerr.KindOf(err))
}

func (s *BorrowingUseCaseTestSuite) TestAvailability() {
	a, err := s.uc.Availability(s.ctx, s.book.ID)
	s.Require().NoError(err)
	s.Equal(model.Availability{
		BookID: s.book.ID, Title: "Dune",
		AvailableCopies: 1, TotalCopies: 5,
	}, *a)
	_, err = s.uc.Availability(s.ctx, s.book.ID+1)
	s.Equal(cerr.KindNotFound, cerr.KindOf(err))
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	store := memrepo.New()
	_, err := borrowinguc.New(
		store, store.BorrowingsRepo(), store.InventoryRepo(),
		store.MembersRepo(), borrowinguc.WithLoanPeriod(time.Hour),
	)
	if err == nil {
		t.Error("expected a loan period shorter than a day to be rejected")
	}
	_, err = borrowinguc.New(
		store, store.BorrowingsRepo(), store.InventoryRepo(),
		store.MembersRepo(), borrowinguc.WithLateFeePerDay(-1),
	)
	if err == nil {
		t.Error("expected a negative late fee to be rejected")
	}
}
