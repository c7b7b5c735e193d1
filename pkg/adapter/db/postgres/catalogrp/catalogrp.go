// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package catalogrp provides the reifications of the repo.Entities
// interface for the catalog entities, namely libraries, books,
// authors, categories, members, and reviews.
// One generic Repo implements the common listing and CRUD queries
// using GORM (and the filterqb package for listings), while each
// entity provides its GORM model and conversion methods. Books use
// extra hooks in order to maintain their authors and categories
// links and to load their computed fields.
package catalogrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/momeni/clean-library/pkg/adapter/db/postgres"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres/filterqb"
	"github.com/momeni/clean-library/pkg/core/cerr"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Row is the set of requirements from the GORM model R of the M
// entities. PR is the pointer type of R.
type Row[M, R any] interface {
	*R
	TableName() string
	Key() model.ID
	Model() *M
	Fill(m *M) // writable columns only, leaving the identity intact
}

// loader fills the computed fields of the listed entities.
type loader[M any] func(ctx context.Context, gdb *gorm.DB, ms []M) error

// saver persists the parts of m which are not stored in its table.
type saver[M any] func(
	ctx context.Context, gdb *gorm.DB, id model.ID, m *M,
) error

// Repo represents a catalog repository of M entities which are stored
// as R rows.
type Repo[M, R any, PR Row[M, R]] struct {
	schema *filter.Schema
	load   loader[M]
	save   saver[M]
}

type gormer interface {
	GORM(ctx context.Context) *gorm.DB
}

type queryer[M, R any, PR Row[M, R]] struct {
	*Repo[M, R, PR]
	q gormer
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by the postgres package, and
// returns a queryer which runs the entities queries using it.
func (r *Repo[M, R, PR]) Conn(c repo.Conn) repo.EntitiesConnQueryer[M] {
	cc := c.(*postgres.Conn)
	return queryer[M, R, PR]{Repo: r, q: cc}
}

// Tx unwraps the given repo.Tx instance, expecting to find an
// instance of *postgres.Tx, and returns a queryer which runs the
// entities queries in that transaction.
func (r *Repo[M, R, PR]) Tx(tx repo.Tx) repo.EntitiesTxQueryer[M] {
	tt := tx.(*postgres.Tx)
	return queryer[M, R, PR]{Repo: r, q: tt}
}

func (q queryer[M, R, PR]) List(
	ctx context.Context, fq *filter.Query,
) ([]M, error) {
	gdb := q.q.GORM(ctx)
	rows, err := filterqb.Find[R](gdb, q.schema, fq)
	if err != nil {
		return nil, err
	}
	ms := make([]M, len(rows))
	for i := range rows {
		ms[i] = *PR(&rows[i]).Model()
	}
	if q.load != nil && len(ms) > 0 {
		if err := q.load(ctx, gdb, ms); err != nil {
			return nil, err
		}
	}
	return ms, nil
}

func (q queryer[M, R, PR]) Get(ctx context.Context, id model.ID) (*M, error) {
	return q.get(ctx, id, false)
}

// GetForUpdate locks the id row (SELECT ... FOR UPDATE) until the end
// of the ongoing transaction, so a concurrent borrow or return of a
// book waits for its catalog update.
func (q queryer[M, R, PR]) GetForUpdate(
	ctx context.Context, id model.ID,
) (*M, error) {
	return q.get(ctx, id, true)
}

func (q queryer[M, R, PR]) get(
	ctx context.Context, id model.ID, lock bool,
) (*M, error) {
	gdb := q.q.GORM(ctx)
	tdb := gdb.Where(map[string]any{q.schema.IDColumn: id})
	if lock {
		tdb = tdb.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var r R
	err := tdb.Take(&r).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, repo.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("finding %s row: %w", q.schema.Table, err)
	}
	ms := []M{*PR(&r).Model()}
	if q.load != nil {
		if err := q.load(ctx, gdb, ms); err != nil {
			return nil, err
		}
	}
	return &ms[0], nil
}

func (q queryer[M, R, PR]) Count(ctx context.Context) (n int64, err error) {
	err = q.q.GORM(ctx).Model(new(R)).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", q.schema.Table, err)
	}
	return n, nil
}

func (q queryer[M, R, PR]) Create(ctx context.Context, m *M) (*M, error) {
	gdb := q.q.GORM(ctx)
	var r R
	PR(&r).Fill(m)
	// zero identity is filled by the DBMS and returned
	if err := gdb.Create(&r).Error; err != nil {
		return nil, postgres.TranslateError(err, "inserting "+q.schema.Table)
	}
	id := PR(&r).Key()
	if q.save != nil {
		if err := q.save(ctx, gdb, id, m); err != nil {
			return nil, err
		}
	}
	return q.Get(ctx, id)
}

func (q queryer[M, R, PR]) Update(
	ctx context.Context, id model.ID, m *M,
) (*M, error) {
	gdb := q.q.GORM(ctx)
	var r R
	PR(&r).Fill(m)
	res := gdb.Model(&r).
		Where(map[string]any{q.schema.IDColumn: id}).
		Select("*").Omit(q.schema.IDColumn).
		Updates(&r)
	if err := res.Error; err != nil {
		return nil, postgres.TranslateError(err, "updating "+q.schema.Table)
	}
	if res.RowsAffected == 0 {
		return nil, repo.ErrNotFound
	}
	if q.save != nil {
		if err := q.save(ctx, gdb, id, m); err != nil {
			return nil, err
		}
	}
	return q.Get(ctx, id)
}

func (q queryer[M, R, PR]) Delete(ctx context.Context, id model.ID) error {
	res := q.q.GORM(ctx).
		Where(map[string]any{q.schema.IDColumn: id}).
		Delete(new(R))
	if err := res.Error; err != nil {
		if postgres.Code(err) == postgres.ForeignKeyViolation {
			return cerr.Conflict(fmt.Errorf(
				"%s row %d is still referenced: %w", q.schema.Table, id, err,
			))
		}
		return fmt.Errorf("deleting %s row: %w", q.schema.Table, err)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// date converts a nullable model.Date to its column value.
func date(d *model.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

// modelDate converts a nullable date column value to a model.Date.
func modelDate(t *time.Time) *model.Date {
	if t == nil {
		return nil
	}
	d := model.DateOf(*t)
	return &d
}
