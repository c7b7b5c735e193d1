// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package filterqb compiles the filter.Query instances to PostgreSQL
// SELECT statements using the goqu query builder. Predicate values
// are always passed as prepared statement arguments, and identifiers
// are taken from the filter.Schema (never from the web clients), so
// the generated statements are safe against SQL injection.
package filterqb

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"gorm.io/gorm"
)

var dialect = goqu.Dialect("postgres")

// Select builds the SELECT statement of the s schema table which
// returns all columns of the rows matching q, ordered and paginated
// as asked by q. Rows are finally ordered by their identities, so
// pagination is deterministic.
func Select(s *filter.Schema, q *filter.Query) *goqu.SelectDataset {
	t := goqu.T(s.Table)
	ds := dialect.From(t).Select(t.All()).Prepared(true)
	if w := Where(s, q); len(w) > 0 {
		ds = ds.Where(w...)
	}
	orders := make([]exp.OrderedExpression, 0, len(q.Orders)+1)
	for _, o := range q.Orders {
		c := t.Col(o.Column)
		if o.Desc {
			orders = append(orders, c.Desc().NullsLast())
		} else {
			orders = append(orders, c.Asc().NullsLast())
		}
	}
	orders = append(orders, t.Col(s.IDColumn).Asc())
	ds = ds.Order(orders...)
	if q.Limit > 0 {
		ds = ds.Limit(uint(q.Limit))
	}
	if q.Offset > 0 {
		ds = ds.Offset(uint(q.Offset))
	}
	return ds
}

// Where compiles the predicates and search term of q.
func Where(s *filter.Schema, q *filter.Query) []exp.Expression {
	t := goqu.T(s.Table)
	ws := make([]exp.Expression, 0, len(q.Predicates)+1)
	for _, p := range q.Predicates {
		ws = append(ws, predicate(t, p))
	}
	if q.Search != "" {
		ws = append(ws, search(s, q.Search))
	}
	return ws
}

func predicate(t exp.IdentifierExpression, p filter.Predicate) exp.Expression {
	f := p.Field
	c := t.Col(f.Column)
	switch f.Op {
	case filter.OpIContains:
		return c.ILike(contains(p.Value.(string)))
	case filter.OpGte:
		return c.Gte(value(p.Value))
	case filter.OpLte:
		if d, ok := p.Value.(model.Date); ok {
			// timestamp columns must match the whole last day
			return c.Lt(d.AddDays(1).Time())
		}
		return c.Lte(value(p.Value))
	case filter.OpIsNull:
		if p.Value.(bool) {
			return c.IsNull()
		}
		return c.IsNotNull()
	case filter.OpAnyOf:
		if f.Through == nil {
			return c.In(p.Value)
		}
		sub := dialect.From(f.Through.Table).
			Select(goqu.C(f.Through.OwnerKey)).
			Where(goqu.C(f.Through.TargetKey).In(p.Value))
		return c.In(sub)
	default:
		return c.Eq(value(p.Value))
	}
}

func search(s *filter.Schema, term string) exp.Expression {
	pattern := contains(term)
	t := goqu.T(s.Table)
	ors := make([]exp.Expression, 0, len(s.Search.Columns)+len(s.Search.Related))
	for _, col := range s.Search.Columns {
		ors = append(ors, t.Col(col).ILike(pattern))
	}
	for _, r := range s.Search.Related {
		jt, rt := goqu.T(r.Through.Table), goqu.T(r.Table)
		likes := make([]exp.Expression, 0, len(r.Columns))
		for _, col := range r.Columns {
			likes = append(likes, rt.Col(col).ILike(pattern))
		}
		sub := dialect.From(jt).
			Join(rt, goqu.On(rt.Col(r.Key).Eq(jt.Col(r.Through.TargetKey)))).
			Select(jt.Col(r.Through.OwnerKey)).
			Where(goqu.Or(likes...))
		ors = append(ors, t.Col(s.IDColumn).In(sub))
	}
	return goqu.Or(ors...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains returns an ILIKE pattern which matches strings containing
// s literally.
func contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// value converts the model value types to their driver values.
func value(v any) any {
	switch vv := v.(type) {
	case model.Date:
		return vv.Time()
	case model.Amount:
		return vv.String()
	default:
		return v
	}
}

// Find runs the Select statement of s and q using gdb and scans the
// resulting rows into a slice of R (which is expected to be a GORM
// model of the s.Table rows).
func Find[R any](gdb *gorm.DB, s *filter.Schema, q *filter.Query) ([]R, error) {
	sql, args, err := Select(s, q).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building %s query: %w", s.Table, err)
	}
	var rows []R
	if err := gdb.Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.Table, err)
	}
	return rows, nil
}
