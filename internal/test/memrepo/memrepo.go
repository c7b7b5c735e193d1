// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memrepo is an internal helper for the test packages.
// It provides an in-memory reification of the repo.Pool and the
// repositories interfaces, so use cases and REST resources may be
// tested without a real PostgreSQL DBMS server.
//
// Transactions are serialized by a store-wide mutex. Each transaction
// takes a snapshot of all tables when it begins and restores them if
// its handler returns an error, so the atomicity of the use cases may
// be verified too. Raw Exec and Query methods are not supported.
package memrepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
)

// ErrRawSQL is returned by the Exec and Query methods.
var ErrRawSQL = errors.New("raw SQL is not supported by memrepo")

type snapshotter interface {
	snapshot() (restore func())
}

// Store is an in-memory database. It implements the repo.Pool
// interface and holds the tables of all entities.
type Store struct {
	mu     sync.Mutex
	tables []snapshotter

	Libraries  *Table[model.Library]
	Books      *Table[model.Book]
	Authors    *Table[model.Author]
	Categories *Table[model.Category]
	Members    *Table[model.Member]
	Borrowings *Table[model.Borrowing]
	Reviews    *Table[model.Review]

	// FailCreateBorrowing makes the next borrowing creation to fail
	// with this error, so rollbacks may be tested.
	FailCreateBorrowing error
}

// New creates an empty Store.
func New() *Store {
	s := &Store{
		Libraries: newTable(
			func(m *model.Library) *model.ID { return &m.ID },
			libraryColumns,
		),
		Books: newTable(
			func(m *model.Book) *model.ID { return &m.ID },
			bookColumns,
		),
		Authors: newTable(
			func(m *model.Author) *model.ID { return &m.ID },
			authorColumns,
		),
		Categories: newTable(
			func(m *model.Category) *model.ID { return &m.ID },
			categoryColumns,
		),
		Members: newTable(
			func(m *model.Member) *model.ID { return &m.ID },
			memberColumns,
		),
		Borrowings: newTable(
			func(m *model.Borrowing) *model.ID { return &m.ID },
			borrowingColumns,
		),
		Reviews: newTable(
			func(m *model.Review) *model.ID { return &m.ID },
			reviewColumns,
		),
	}
	s.tables = []snapshotter{
		s.Libraries, s.Books, s.Authors, s.Categories,
		s.Members, s.Borrowings, s.Reviews,
	}
	return s
}

// Conn passes a connection to f. Connections are not limited.
func (s *Store) Conn(ctx context.Context, f repo.ConnHandler) error {
	return f(ctx, &Conn{store: s})
}

// Close is a no-op since an in-memory store holds no connections.
func (s *Store) Close() error {
	return nil
}

// Do runs f while holding the store lock. It is useful for test
// assertions which need a consistent view of tables.
func (s *Store) Do(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f()
}

// Conn is an in-memory repo.Conn.
type Conn struct {
	store *Store
}

// Tx runs f in a serialized transaction, restoring all tables if f
// returns an error or panics.
func (c *Conn) Tx(ctx context.Context, f repo.TxHandler) (err error) {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	restores := make([]func(), len(s.tables))
	for i, t := range s.tables {
		restores[i] = t.snapshot()
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("panicked in transaction")
		}
		if err != nil {
			for _, r := range restores {
				r()
			}
		}
	}()
	return f(ctx, &Tx{store: s})
}

// Exec is not supported.
func (c *Conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, ErrRawSQL
}

// Query is not supported.
func (c *Conn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, ErrRawSQL
}

// IsConn marks Conn as a repo.Conn.
func (c *Conn) IsConn() {
}

// Tx is an in-memory repo.Tx.
type Tx struct {
	store *Store
}

// Exec is not supported.
func (tx *Tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, ErrRawSQL
}

// Query is not supported.
func (tx *Tx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, ErrRawSQL
}

// IsTx marks Tx as a repo.Tx.
func (tx *Tx) IsTx() {
}

// locker returns a function which locks the store if q belongs to a
// connection and so is not protected by a transaction lock already.
func locker(s *Store, locked bool) func() func() {
	return func() func() {
		if locked {
			return func() {}
		}
		s.mu.Lock()
		return s.mu.Unlock
	}
}

// Table keeps the rows of one entity type by their identities.
type Table[M any] struct {
	rows    map[model.ID]M
	nextID  model.ID
	id      func(*M) *model.ID
	columns func(*M) map[string]any
}

func newTable[M any](
	id func(*M) *model.ID, columns func(*M) map[string]any,
) *Table[M] {
	return &Table[M]{
		rows: make(map[model.ID]M), nextID: 1, id: id, columns: columns,
	}
}

func (t *Table[M]) snapshot() func() {
	rows := make(map[model.ID]M, len(t.rows))
	for k, v := range t.rows {
		rows[k] = v
	}
	nextID := t.nextID
	return func() {
		t.rows, t.nextID = rows, nextID
	}
}

// Insert stores a copy of m with a fresh identity and returns it.
// It does not lock the store, so it should be used for fixtures or
// within the Store.Do method.
func (t *Table[M]) Insert(m M) M {
	*t.id(&m) = t.nextID
	t.nextID++
	t.rows[*t.id(&m)] = m
	return m
}

// Row returns a copy of the id row.
func (t *Table[M]) Row(id model.ID) (M, bool) {
	m, ok := t.rows[id]
	return m, ok
}

// Len returns the number of rows.
func (t *Table[M]) Len() int {
	return len(t.rows)
}

func (t *Table[M]) sorted() []M {
	ids := make([]model.ID, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	ms := make([]M, len(ids))
	for i, id := range ids {
		ms[i] = t.rows[id]
	}
	return ms
}
