// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package statsuc contains the statistics UseCase which reports the
// overall counters of the catalog and borrowings.
package statsuc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/juju/clock"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
	"golang.org/x/sync/errgroup"
)

// UseCase represents the statistics use case.
type UseCase struct {
	pool         repo.Pool
	booksrp      repo.Books
	membersrp    repo.Members
	borrowingsrp repo.Borrowings

	clock    clock.Clock
	location *time.Location
}

// Option is a functional option for the statistics use case.
type Option func(uc *UseCase) error

// WithClock option replaces the wall clock which is used to find out
// which borrowings are overdue.
func WithClock(c clock.Clock, loc *time.Location) Option {
	return func(uc *UseCase) error {
		if c == nil || loc == nil {
			return errors.New("clock and location must be non-nil")
		}
		uc.clock, uc.location = c, loc
		return nil
	}
}

// New instantiates a statistics use case.
func New(
	p repo.Pool,
	books repo.Books,
	members repo.Members,
	borrowings repo.Borrowings,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:         p,
		booksrp:      books,
		membersrp:    members,
		borrowingsrp: borrowings,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.clock == nil {
		uc.clock, uc.location = clock.WallClock, time.UTC
	}
	return uc, nil
}

// Statistics computes the counters concurrently, each one using a
// distinct connection of the pool.
func (uc *UseCase) Statistics(ctx context.Context) (*model.Statistics, error) {
	s := &model.Statistics{}
	today := model.DateOf(uc.clock.Now().In(uc.location))
	g, ctx := errgroup.WithContext(ctx)
	count := func(dst *int64, f func(context.Context, repo.Conn) (int64, error)) {
		g.Go(func() error {
			return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
				*dst, err = f(ctx, c)
				return err
			})
		})
	}
	count(&s.TotalBooks, func(ctx context.Context, c repo.Conn) (int64, error) {
		return uc.booksrp.Conn(c).Count(ctx)
	})
	count(&s.TotalMembers, func(ctx context.Context, c repo.Conn) (int64, error) {
		return uc.membersrp.Conn(c).Count(ctx)
	})
	count(&s.TotalBorrowings, func(ctx context.Context, c repo.Conn) (int64, error) {
		return uc.borrowingsrp.Conn(c).Count(ctx)
	})
	count(&s.ActiveBorrowings, func(ctx context.Context, c repo.Conn) (int64, error) {
		return uc.borrowingsrp.Conn(c).CountActive(ctx)
	})
	count(&s.OverdueBorrowings, func(ctx context.Context, c repo.Conn) (int64, error) {
		return uc.borrowingsrp.Conn(c).CountOverdue(ctx, today)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("computing statistics: %w", err)
	}
	return s, nil
}
