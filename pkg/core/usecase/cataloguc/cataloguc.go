// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cataloguc contains the catalog UseCase which manages the
// records of the libraries, books, authors, categories, members, and
// reviews. The UseCase is generic over the managed entity type, so
// one implementation supports the list, get, create, update, patch,
// and delete use cases of all of them.
// Entities are normalized (and their phone numbers canonicalized)
// before being persisted, and may be decorated with derived fields
// (e.g., whether a member has overdue books) after being read.
package cataloguc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/momeni/clean-library/pkg/core/cerr"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/log"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
)

// Entity is the set of requirements from the managed entity types.
// PM is the pointer type of an entity type M.
type Entity[M any] interface {
	*M
	model.Normalizer
}

// PhoneHolder is implemented by the entities which have a phone
// number field that should be stored in a canonical format.
type PhoneHolder interface {
	Phone() *string
}

// PhoneNormalizer converts a phone number to its canonical format,
// returning an error if it is not a valid phone number.
type PhoneNormalizer interface {
	Normalize(phone string) (string, error)
}

// LentKeeper is implemented by the entities which have fields that
// only the borrowing lifecycle may change. KeepLent restores them from
// the stored version before an update is persisted.
type LentKeeper[M any] interface {
	KeepLent(stored *M) error
}

// Decorator fills the derived fields of the read entities.
type Decorator[M any] func(ctx context.Context, c repo.Conn, ms []M) error

// Stamper fills the missing fields of a new entity before its
// creation, e.g., by the current date.
type Stamper[M any] func(m *M)

// UseCase represents the catalog use cases of the M entity type.
type UseCase[M any, PM Entity[M]] struct {
	name   string
	pool   repo.Pool
	rp     repo.Entities[M]
	schema *filter.Schema

	phones    PhoneNormalizer
	decorator Decorator[M]
	stamper   Stamper[M]
}

// New instantiates a catalog use case for the M entities which are
// called name in the errors and logs. The schema is used for parsing
// the listing requests.
func New[M any, PM Entity[M]](
	name string,
	p repo.Pool,
	r repo.Entities[M],
	schema *filter.Schema,
	opts ...Option[M, PM],
) (*UseCase[M, PM], error) {
	uc := &UseCase[M, PM]{name: name, pool: p, rp: r, schema: schema}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return uc, nil
}

// Schema returns the filter schema of the managed entities, so the
// adapter layer may parse the query parameters of listing requests.
func (uc *UseCase[M, PM]) Schema() *filter.Schema {
	return uc.schema
}

// List returns the entities which match with the q query.
func (uc *UseCase[M, PM]) List(
	ctx context.Context, q *filter.Query,
) (ms []M, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ms, err = uc.rp.Conn(c).List(ctx, q)
		if err != nil {
			return err
		}
		return uc.decorate(ctx, c, ms)
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", uc.name, err)
	}
	return ms, nil
}

// Get returns the id entity.
func (uc *UseCase[M, PM]) Get(
	ctx context.Context, id model.ID,
) (m *M, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		m, err = uc.rp.Conn(c).Get(ctx, id)
		if err != nil {
			return uc.notFound(err, id)
		}
		return uc.decorateOne(ctx, c, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create normalizes and persists the m entity.
func (uc *UseCase[M, PM]) Create(ctx context.Context, m *M) (*M, error) {
	if uc.stamper != nil {
		uc.stamper(m)
	}
	if err := uc.prepare(m); err != nil {
		return nil, err
	}
	var created *M
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		err := c.Tx(ctx, func(ctx context.Context, tx repo.Tx) (err error) {
			created, err = uc.rp.Tx(tx).Create(ctx, m)
			return err
		})
		if err != nil {
			return err
		}
		return uc.decorateOne(ctx, c, created)
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", uc.name, err)
	}
	log.Info(ctx, "catalog record is created", slog.String("type", uc.name))
	return created, nil
}

// Update replaces all writable fields of the id entity by m fields.
// The lifecycle owned fields (see LentKeeper) are kept.
func (uc *UseCase[M, PM]) Update(
	ctx context.Context, id model.ID, m *M,
) (*M, error) {
	return uc.Patch(ctx, id, func(stored *M) error {
		*stored = *m
		return nil
	})
}

// Patch loads and locks the id entity, lets the apply function to
// modify it, and persists the result in one transaction. The apply
// function may return a validation error in order to cancel the
// update. Changes of the lifecycle owned fields are discarded, and an
// update which conflicts with them is refused as an invalid state.
func (uc *UseCase[M, PM]) Patch(
	ctx context.Context, id model.ID, apply func(stored *M) error,
) (*M, error) {
	var updated *M
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		err := c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.rp.Tx(tx)
			stored, err := q.GetForUpdate(ctx, id)
			if err != nil {
				return uc.notFound(err, id)
			}
			prev := *stored
			if err := apply(stored); err != nil {
				return cerr.Validation(err)
			}
			if lk, ok := any(stored).(LentKeeper[M]); ok {
				if err := lk.KeepLent(&prev); err != nil {
					return cerr.InvalidState(err)
				}
			}
			if err := uc.prepare(stored); err != nil {
				return err
			}
			updated, err = q.Update(ctx, id, stored)
			if err != nil {
				return uc.notFound(err, id)
			}
			return nil
		})
		if err != nil {
			return err
		}
		return uc.decorateOne(ctx, c, updated)
	})
	if err != nil {
		return nil, fmt.Errorf("updating %s %d: %w", uc.name, id, err)
	}
	log.Info(
		ctx, "catalog record is updated",
		slog.String("type", uc.name), slog.Int64("id", id),
	)
	return updated, nil
}

// Delete removes the id entity.
func (uc *UseCase[M, PM]) Delete(ctx context.Context, id model.ID) error {
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return uc.notFound(uc.rp.Tx(tx).Delete(ctx, id), id)
		})
	})
	if err != nil {
		return fmt.Errorf("deleting %s %d: %w", uc.name, id, err)
	}
	log.Info(
		ctx, "catalog record is deleted",
		slog.String("type", uc.name), slog.Int64("id", id),
	)
	return nil
}

// Count returns the number of all entities.
func (uc *UseCase[M, PM]) Count(ctx context.Context) (n int64, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		n, err = uc.rp.Conn(c).Count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", uc.name, err)
	}
	return n, nil
}

func (uc *UseCase[M, PM]) prepare(m *M) error {
	if ph, ok := any(m).(PhoneHolder); ok && uc.phones != nil {
		p := ph.Phone()
		n, err := uc.phones.Normalize(*p)
		if err != nil {
			return cerr.Validation(fmt.Errorf("phone number: %w", err))
		}
		*p = n
	}
	if err := PM(m).Normalize(); err != nil {
		return cerr.Validation(err)
	}
	return nil
}

func (uc *UseCase[M, PM]) decorate(
	ctx context.Context, c repo.Conn, ms []M,
) error {
	if uc.decorator == nil {
		return nil
	}
	return uc.decorator(ctx, c, ms)
}

func (uc *UseCase[M, PM]) decorateOne(
	ctx context.Context, c repo.Conn, m *M,
) error {
	if uc.decorator == nil || m == nil {
		return nil
	}
	ms := []M{*m}
	if err := uc.decorator(ctx, c, ms); err != nil {
		return err
	}
	*m = ms[0]
	return nil
}

func (uc *UseCase[M, PM]) notFound(err error, id model.ID) error {
	if errors.Is(err, repo.ErrNotFound) {
		return cerr.NotFound(fmt.Errorf("%s %d: %w", uc.name, id, err))
	}
	return err
}
