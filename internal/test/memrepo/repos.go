// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memrepo

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
)

// ErrDuplicateRequest is returned when two borrowings are created with
// the same request ID, similar to a unique constraint violation.
var ErrDuplicateRequest = errors.New("duplicate borrowing request id")

// Entities is an in-memory repo.Entities[M] implementation.
type Entities[M any] struct {
	store  *Store
	table  *Table[M]
	schema *filter.Schema
}

// NewEntities returns a repository for the t table of s store.
func NewEntities[M any](
	s *Store, t *Table[M], schema *filter.Schema,
) *Entities[M] {
	return &Entities[M]{store: s, table: t, schema: schema}
}

// LibrariesRepo returns the libraries repository of s.
func (s *Store) LibrariesRepo() repo.Libraries {
	return NewEntities(s, s.Libraries, filter.Libraries)
}

// BooksRepo returns the books repository of s.
func (s *Store) BooksRepo() repo.Books {
	return NewEntities(s, s.Books, filter.Books)
}

// AuthorsRepo returns the authors repository of s.
func (s *Store) AuthorsRepo() repo.Authors {
	return NewEntities(s, s.Authors, filter.Authors)
}

// CategoriesRepo returns the categories repository of s.
func (s *Store) CategoriesRepo() repo.Categories {
	return NewEntities(s, s.Categories, filter.Categories)
}

// MembersRepo returns the members repository of s.
func (s *Store) MembersRepo() repo.Members {
	return NewEntities(s, s.Members, filter.Members)
}

// ReviewsRepo returns the reviews repository of s.
func (s *Store) ReviewsRepo() repo.Reviews {
	return NewEntities(s, s.Reviews, filter.Reviews)
}

// Conn returns a queryer which locks the store per operation.
func (e *Entities[M]) Conn(repo.Conn) repo.EntitiesConnQueryer[M] {
	return entitiesQueryer[M]{Entities: e, lock: locker(e.store, false)}
}

// Tx returns a queryer which relies on the transaction lock.
func (e *Entities[M]) Tx(repo.Tx) repo.EntitiesTxQueryer[M] {
	return entitiesQueryer[M]{Entities: e, lock: locker(e.store, true)}
}

type entitiesQueryer[M any] struct {
	*Entities[M]
	lock func() func()
}

func (q entitiesQueryer[M]) List(
	_ context.Context, fq *filter.Query,
) ([]M, error) {
	defer q.lock()()
	return list(q.store, q.table, q.schema, fq), nil
}

func (q entitiesQueryer[M]) Get(_ context.Context, id model.ID) (*M, error) {
	defer q.lock()()
	m, ok := q.table.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &m, nil
}

// GetForUpdate is Get, since a transaction holds the store lock.
func (q entitiesQueryer[M]) GetForUpdate(
	ctx context.Context, id model.ID,
) (*M, error) {
	return q.Get(ctx, id)
}

func (q entitiesQueryer[M]) Count(context.Context) (int64, error) {
	defer q.lock()()
	return int64(len(q.table.rows)), nil
}

func (q entitiesQueryer[M]) Create(_ context.Context, m *M) (*M, error) {
	defer q.lock()()
	created := q.table.Insert(*m)
	return &created, nil
}

func (q entitiesQueryer[M]) Update(
	_ context.Context, id model.ID, m *M,
) (*M, error) {
	defer q.lock()()
	if _, ok := q.table.rows[id]; !ok {
		return nil, repo.ErrNotFound
	}
	updated := *m
	*q.table.id(&updated) = id
	q.table.rows[id] = updated
	return &updated, nil
}

func (q entitiesQueryer[M]) Delete(_ context.Context, id model.ID) error {
	defer q.lock()()
	if _, ok := q.table.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(q.table.rows, id)
	return nil
}

// Inventory is an in-memory repo.Inventory implementation.
type Inventory struct {
	store *Store
}

// InventoryRepo returns the inventory repository of s.
func (s *Store) InventoryRepo() repo.Inventory {
	return &Inventory{store: s}
}

// Conn returns a queryer which locks the store per operation.
func (i *Inventory) Conn(repo.Conn) repo.InventoryConnQueryer {
	return inventoryQueryer{store: i.store, lock: locker(i.store, false)}
}

// Tx returns a queryer which relies on the transaction lock.
func (i *Inventory) Tx(repo.Tx) repo.InventoryTxQueryer {
	return inventoryQueryer{store: i.store, lock: locker(i.store, true)}
}

type inventoryQueryer struct {
	store *Store
	lock  func() func()
}

func (q inventoryQueryer) Availability(
	_ context.Context, id model.ID,
) (*model.Availability, error) {
	defer q.lock()()
	b, ok := q.store.Books.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &model.Availability{
		BookID:          b.ID,
		Title:           b.Title,
		AvailableCopies: b.AvailableCopies,
		TotalCopies:     b.TotalCopies,
	}, nil
}

func (q inventoryQueryer) Rating(
	_ context.Context, libraryID, bookID model.ID,
) (*model.BookRating, error) {
	defer q.lock()()
	b, ok := q.store.Books.rows[bookID]
	if !ok || b.LibraryID != libraryID {
		return nil, repo.ErrNotFound
	}
	sum, n := 0, 0
	for _, r := range q.store.Reviews.rows {
		if r.BookID == bookID {
			sum += r.Rating
			n++
		}
	}
	br := &model.BookRating{BookID: bookID}
	if n > 0 {
		avg := math.Round(float64(sum)/float64(n)*100) / 100
		br.AverageRating = &avg
	}
	return br, nil
}

func (q inventoryQueryer) TakeCopy(_ context.Context, id model.ID) (bool, error) {
	defer q.lock()()
	b, ok := q.store.Books.rows[id]
	if !ok || b.AvailableCopies < 1 {
		return false, nil
	}
	b.AvailableCopies--
	q.store.Books.rows[id] = b
	return true, nil
}

func (q inventoryQueryer) PutCopy(_ context.Context, id model.ID) (bool, error) {
	defer q.lock()()
	b, ok := q.store.Books.rows[id]
	if !ok || b.AvailableCopies >= b.TotalCopies {
		return false, nil
	}
	b.AvailableCopies++
	q.store.Books.rows[id] = b
	return true, nil
}

// Borrowings is an in-memory repo.Borrowings implementation.
type Borrowings struct {
	store *Store
}

// BorrowingsRepo returns the borrowings repository of s.
func (s *Store) BorrowingsRepo() repo.Borrowings {
	return &Borrowings{store: s}
}

// Conn returns a queryer which locks the store per operation.
func (b *Borrowings) Conn(repo.Conn) repo.BorrowingsConnQueryer {
	return borrowingsQueryer{store: b.store, lock: locker(b.store, false)}
}

// Tx returns a queryer which relies on the transaction lock.
func (b *Borrowings) Tx(repo.Tx) repo.BorrowingsTxQueryer {
	return borrowingsQueryer{store: b.store, lock: locker(b.store, true)}
}

type borrowingsQueryer struct {
	store *Store
	lock  func() func()
}

func (q borrowingsQueryer) List(
	_ context.Context, fq *filter.Query,
) ([]model.Borrowing, error) {
	defer q.lock()()
	return list(q.store, q.store.Borrowings, filter.Borrowings, fq), nil
}

func (q borrowingsQueryer) Get(
	_ context.Context, id model.ID,
) (*model.Borrowing, error) {
	defer q.lock()()
	b, ok := q.store.Borrowings.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &b, nil
}

func (q borrowingsQueryer) Count(context.Context) (int64, error) {
	defer q.lock()()
	return int64(q.store.Borrowings.Len()), nil
}

func (q borrowingsQueryer) CountActive(context.Context) (int64, error) {
	defer q.lock()()
	var n int64
	for _, b := range q.store.Borrowings.rows {
		if b.IsActive() {
			n++
		}
	}
	return n, nil
}

func (q borrowingsQueryer) CountOverdue(
	_ context.Context, today model.Date,
) (int64, error) {
	defer q.lock()()
	var n int64
	for _, b := range q.store.Borrowings.rows {
		if b.IsOverdue(today) {
			n++
		}
	}
	return n, nil
}

func (q borrowingsQueryer) OverdueMembers(
	_ context.Context, memberIDs []model.ID, today model.Date,
) (map[model.ID]bool, error) {
	defer q.lock()()
	res := make(map[model.ID]bool)
	for _, id := range memberIDs {
		for _, b := range q.store.Borrowings.rows {
			if b.MemberID == id && b.IsOverdue(today) {
				res[id] = true
				break
			}
		}
	}
	return res, nil
}

func (q borrowingsQueryer) Create(
	_ context.Context, b *model.Borrowing,
) (*model.Borrowing, error) {
	defer q.lock()()
	if err := q.store.FailCreateBorrowing; err != nil {
		q.store.FailCreateBorrowing = nil
		return nil, err
	}
	if b.RequestID != nil {
		for _, prev := range q.store.Borrowings.rows {
			if prev.RequestID != nil && *prev.RequestID == *b.RequestID {
				return nil, ErrDuplicateRequest
			}
		}
	}
	created := q.store.Borrowings.Insert(*b)
	return &created, nil
}

func (q borrowingsQueryer) FindByRequestID(
	_ context.Context, requestID uuid.UUID,
) (*model.Borrowing, error) {
	defer q.lock()()
	for _, b := range q.store.Borrowings.rows {
		if b.RequestID != nil && *b.RequestID == requestID {
			return &b, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (q borrowingsQueryer) Lock(
	ctx context.Context, id model.ID,
) (*model.Borrowing, error) {
	return q.Get(ctx, id)
}

func (q borrowingsQueryer) Close(
	_ context.Context, b *model.Borrowing,
) (bool, error) {
	defer q.lock()()
	stored, ok := q.store.Borrowings.rows[b.ID]
	if !ok || !stored.IsActive() {
		return false, nil
	}
	stored.ReturnDate = b.ReturnDate
	stored.LateFee = b.LateFee
	q.store.Borrowings.rows[b.ID] = stored
	return true, nil
}
