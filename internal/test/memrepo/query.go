// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memrepo

import (
	"cmp"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
)

// lookup returns the columns of the id row of the table.
func (s *Store) lookup(table string, id int64) (map[string]any, bool) {
	switch table {
	case "authors":
		if m, ok := s.Authors.rows[id]; ok {
			return authorColumns(&m), true
		}
	case "categories":
		if m, ok := s.Categories.rows[id]; ok {
			return categoryColumns(&m), true
		}
	}
	return nil, false
}

func list[M any](
	s *Store, t *Table[M], schema *filter.Schema, q *filter.Query,
) []M {
	var res []M
	cols := make(map[model.ID]map[string]any)
	for _, m := range t.sorted() {
		c := t.columns(&m)
		if !matches(c, q.Predicates) {
			continue
		}
		if q.Search != "" && !s.found(c, schema.Search, q.Search) {
			continue
		}
		cols[*t.id(&m)] = c
		res = append(res, m)
	}
	orders := append(slices.Clone(q.Orders), filter.Order{
		Column: schema.IDColumn,
	})
	sort.SliceStable(res, func(i, j int) bool {
		ci, cj := cols[*t.id(&res[i])], cols[*t.id(&res[j])]
		for _, o := range orders {
			r := compare(ci[o.Column], cj[o.Column])
			if r == 0 {
				continue
			}
			if o.Desc {
				return r > 0
			}
			return r < 0
		}
		return false
	})
	if q.Offset >= len(res) {
		return nil
	}
	res = res[q.Offset:]
	if q.Limit > 0 && q.Limit < len(res) {
		res = res[:q.Limit]
	}
	return res
}

func matches(c map[string]any, ps []filter.Predicate) bool {
	for _, p := range ps {
		f := p.Field
		v := c[f.Column]
		if f.Through != nil {
			v = c[f.Through.Table]
		}
		switch f.Op {
		case filter.OpExact:
			if v == nil || compare(v, p.Value) != 0 {
				return false
			}
		case filter.OpIContains:
			s, _ := v.(string)
			sub, _ := p.Value.(string)
			if !strings.Contains(strings.ToLower(s), strings.ToLower(sub)) {
				return false
			}
		case filter.OpGte:
			if v == nil || compare(v, p.Value) < 0 {
				return false
			}
		case filter.OpLte:
			if v == nil || compare(v, p.Value) > 0 {
				return false
			}
		case filter.OpIsNull:
			if (v == nil) != p.Value.(bool) {
				return false
			}
		case filter.OpAnyOf:
			if !anyOf(v, p.Value) {
				return false
			}
		}
	}
	return true
}

func anyOf(v, values any) bool {
	switch vs := values.(type) {
	case []int64:
		if linked, ok := v.([]int64); ok {
			for _, l := range linked {
				if slices.Contains(vs, l) {
					return true
				}
			}
			return false
		}
		n, ok := v.(int64)
		return ok && slices.Contains(vs, n)
	case []string:
		s, ok := v.(string)
		return ok && slices.Contains(vs, s)
	}
	return false
}

func (s *Store) found(c map[string]any, search filter.Search, term string) bool {
	term = strings.ToLower(term)
	contains := func(c map[string]any, cols []string) bool {
		for _, col := range cols {
			v, _ := c[col].(string)
			if strings.Contains(strings.ToLower(v), term) {
				return true
			}
		}
		return false
	}
	if contains(c, search.Columns) {
		return true
	}
	for _, r := range search.Related {
		linked, _ := c[r.Through.Table].([]int64)
		for _, id := range linked {
			rc, ok := s.lookup(r.Table, id)
			if ok && contains(rc, r.Columns) {
				return true
			}
		}
	}
	return false
}

// compare orders the normalized column values. The nil values are
// ordered after all other values, similar to PostgreSQL NULLS LAST.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	switch av := a.(type) {
	case int64:
		if bv, ok := b.(int64); ok {
			return cmp.Compare(av, bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return cmp.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok && av != bv {
			if av {
				return 1
			}
			return -1
		}
		return 0
	case model.Amount:
		if bv, ok := b.(model.Amount); ok {
			return cmp.Compare(av, bv)
		}
	case model.Date:
		if bv, ok := b.(model.Date); ok {
			return av.Time().Compare(bv.Time())
		}
	case time.Time:
		switch bv := b.(type) {
		case time.Time:
			return av.Compare(bv)
		case model.Date:
			return model.DateOf(av).Time().Compare(bv.Time())
		}
	}
	return 0
}
