// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"errors"

	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
)

// ErrNotFound is returned (possibly wrapped) by the repositories when
// an entity with the asked identity does not exist.
var ErrNotFound = errors.New("record not found")

// ReadQueryer lists the read-only queries of a listable entity.
type ReadQueryer[M any] interface {
	// List returns the entities which match with the q predicates,
	// ordered and paginated as asked by q. A zero q.Limit lists all
	// matching entities.
	List(ctx context.Context, q *filter.Query) ([]M, error)

	// Get returns the entity with the given id or ErrNotFound.
	Get(ctx context.Context, id model.ID) (*M, error)

	// Count returns the number of all entities.
	Count(ctx context.Context) (int64, error)
}

// EntitiesQueryer adds the write operations to the ReadQueryer.
// Write operations return the persisted version of the entity, so
// database generated fields (e.g., ID) are filled.
type EntitiesQueryer[M any] interface {
	ReadQueryer[M]

	Create(ctx context.Context, m *M) (*M, error)

	// Update overwrites all writable fields of the id entity by the m
	// fields, returning ErrNotFound if there is no such entity.
	Update(ctx context.Context, id model.ID, m *M) (*M, error)

	// Delete removes the id entity, returning ErrNotFound if there is
	// no such entity.
	Delete(ctx context.Context, id model.ID) error
}

// EntitiesConnQueryer is the connection specific EntitiesQueryer.
type EntitiesConnQueryer[M any] interface {
	EntitiesQueryer[M]
}

// EntitiesTxQueryer is the transaction specific EntitiesQueryer.
type EntitiesTxQueryer[M any] interface {
	EntitiesQueryer[M]

	// GetForUpdate works like Get, but also locks the id entity until
	// the end of the transaction, so concurrent writers wait for it.
	GetForUpdate(ctx context.Context, id model.ID) (*M, error)
}

// Entities is a repository of M entities which may be used with both
// of connections and transactions.
type Entities[M any] interface {
	Conn(Conn) EntitiesConnQueryer[M]
	Tx(Tx) EntitiesTxQueryer[M]
}

// Libraries, Authors, Categories, Members, and Reviews are plain
// catalog repositories with no extra queries.
type (
	Libraries  = Entities[model.Library]
	Authors    = Entities[model.Author]
	Categories = Entities[model.Category]
	Members    = Entities[model.Member]
	Reviews    = Entities[model.Review]
)
