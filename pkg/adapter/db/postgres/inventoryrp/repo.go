// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package inventoryrp provides a reification of the repo.Inventory
// interface, managing the copies counts of books.
package inventoryrp

import (
	"context"

	"github.com/momeni/clean-library/pkg/adapter/db/postgres"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
)

// Repo represents the books inventory repository.
type Repo struct {
}

// New instantiates an inventory Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by the postgres package.
// Otherwise, it will panic.
func (inv *Repo) Conn(c repo.Conn) repo.InventoryConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Availability(
	ctx context.Context, id model.ID,
) (*model.Availability, error) {
	return Availability(ctx, cq.Conn, id)
}

func (cq connQueryer) Rating(
	ctx context.Context, libraryID, bookID model.ID,
) (*model.BookRating, error) {
	return Rating(ctx, cq.Conn, libraryID, bookID)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx unwraps the given repo.Tx instance, expecting to find an
// instance of *postgres.Tx as created by the postgres package.
// The copies updates are only available in a transaction, so they
// may be combined with the borrowing updates atomically.
func (inv *Repo) Tx(tx repo.Tx) repo.InventoryTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Availability(
	ctx context.Context, id model.ID,
) (*model.Availability, error) {
	return Availability(ctx, tq.Tx, id)
}

func (tq txQueryer) Rating(
	ctx context.Context, libraryID, bookID model.ID,
) (*model.BookRating, error) {
	return Rating(ctx, tq.Tx, libraryID, bookID)
}

func (tq txQueryer) TakeCopy(ctx context.Context, id model.ID) (bool, error) {
	return TakeCopy(ctx, tq.Tx, id)
}

func (tq txQueryer) PutCopy(ctx context.Context, id model.ID) (bool, error) {
	return PutCopy(ctx, tq.Tx, id)
}
