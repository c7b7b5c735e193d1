// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package borrowingsrp provides a reification of the repo.Borrowings
// interface, persisting the borrowings lifecycle.
package borrowingsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
)

// Repo represents the borrowings repository.
type Repo struct {
}

// New instantiates a borrowings Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by the postgres package.
// Otherwise, it will panic.
func (bs *Repo) Conn(c repo.Conn) repo.BorrowingsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) List(
	ctx context.Context, q *filter.Query,
) ([]model.Borrowing, error) {
	return List(ctx, cq.Conn, q)
}

func (cq connQueryer) Get(
	ctx context.Context, id model.ID,
) (*model.Borrowing, error) {
	return Get(ctx, cq.Conn, id, false)
}

func (cq connQueryer) Count(ctx context.Context) (int64, error) {
	return Count(ctx, cq.Conn, "")
}

func (cq connQueryer) CountActive(ctx context.Context) (int64, error) {
	return Count(ctx, cq.Conn, "return_date IS NULL")
}

func (cq connQueryer) CountOverdue(
	ctx context.Context, today model.Date,
) (int64, error) {
	return Count(
		ctx, cq.Conn, "return_date IS NULL AND due_date < ?", today.Time(),
	)
}

func (cq connQueryer) OverdueMembers(
	ctx context.Context, memberIDs []model.ID, today model.Date,
) (map[model.ID]bool, error) {
	return OverdueMembers(ctx, cq.Conn, memberIDs, today)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx unwraps the given repo.Tx instance, expecting to find an
// instance of *postgres.Tx as created by the postgres package.
// The lifecycle updates are only available in a transaction, so they
// may be combined with the book copies updates atomically.
func (bs *Repo) Tx(tx repo.Tx) repo.BorrowingsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) List(
	ctx context.Context, q *filter.Query,
) ([]model.Borrowing, error) {
	return List(ctx, tq.Tx, q)
}

func (tq txQueryer) Get(
	ctx context.Context, id model.ID,
) (*model.Borrowing, error) {
	return Get(ctx, tq.Tx, id, false)
}

func (tq txQueryer) Count(ctx context.Context) (int64, error) {
	return Count(ctx, tq.Tx, "")
}

func (tq txQueryer) CountActive(ctx context.Context) (int64, error) {
	return Count(ctx, tq.Tx, "return_date IS NULL")
}

func (tq txQueryer) CountOverdue(
	ctx context.Context, today model.Date,
) (int64, error) {
	return Count(
		ctx, tq.Tx, "return_date IS NULL AND due_date < ?", today.Time(),
	)
}

func (tq txQueryer) OverdueMembers(
	ctx context.Context, memberIDs []model.ID, today model.Date,
) (map[model.ID]bool, error) {
	return OverdueMembers(ctx, tq.Tx, memberIDs, today)
}

func (tq txQueryer) Create(
	ctx context.Context, b *model.Borrowing,
) (*model.Borrowing, error) {
	return Create(ctx, tq.Tx, b)
}

func (tq txQueryer) FindByRequestID(
	ctx context.Context, requestID uuid.UUID,
) (*model.Borrowing, error) {
	return FindByRequestID(ctx, tq.Tx, requestID)
}

func (tq txQueryer) Lock(
	ctx context.Context, id model.ID,
) (*model.Borrowing, error) {
	return Get(ctx, tq.Tx, id, true)
}

func (tq txQueryer) Close(
	ctx context.Context, b *model.Borrowing,
) (bool, error) {
	return Close(ctx, tq.Tx, b)
}
