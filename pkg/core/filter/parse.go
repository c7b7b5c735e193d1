// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package filter

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/momeni/clean-library/pkg/core/model"
)

// Reserved query parameter names which are not filters.
const (
	SearchParam   = "search"
	OrderingParam = "ordering"
	LimitParam    = "limit"
	OffsetParam   = "offset"
)

// Page contains the pagination limits. A request may ask for at most
// Max records and will obtain Default records if it does not specify
// the limit parameter.
type Page struct {
	Default int
	Max     int
}

// Parse converts the values query parameters to a Query.
// Empty parameters are ignored similar to the unknown ones.
// All problems are collected and returned as an Errors instance.
func (s *Schema) Parse(values url.Values, page Page) (*Query, error) {
	q := &Query{}
	errs := Errors{}
	for _, f := range s.Fields {
		raw := nonEmpty(values[f.Param], f.Op == OpAnyOf)
		if len(raw) == 0 {
			continue
		}
		if f.Op == OpAnyOf {
			vs, err := parseMany(f, raw)
			if err != nil {
				errs.Add(f.Param, err.Error())
				continue
			}
			q.Where(f, vs)
			continue
		}
		v, err := parseOne(f, raw[len(raw)-1])
		if err != nil {
			errs.Add(f.Param, err.Error())
			continue
		}
		q.Where(f, v)
	}
	q.Search = strings.TrimSpace(values.Get(SearchParam))
	if o := values.Get(OrderingParam); o != "" {
		for _, name := range strings.Split(o, ",") {
			name = strings.TrimSpace(name)
			desc := strings.HasPrefix(name, "-")
			name = strings.TrimPrefix(name, "-")
			if !slices.Contains(s.Ordering, name) {
				errs.Add(OrderingParam, "unknown field "+strconv.Quote(name))
				continue
			}
			q.Orders = append(q.Orders, Order{Column: name, Desc: desc})
		}
	}
	q.Limit = page.Default
	if l := values.Get(LimitParam); l != "" {
		n, err := strconv.Atoi(l)
		switch {
		case err != nil:
			errs.Add(LimitParam, "must be an integer")
		case n < 1:
			errs.Add(LimitParam, "must be positive")
		default:
			q.Limit = n
		}
	}
	if page.Max > 0 && q.Limit > page.Max {
		q.Limit = page.Max
	}
	if o := values.Get(OffsetParam); o != "" {
		n, err := strconv.Atoi(o)
		switch {
		case err != nil:
			errs.Add(OffsetParam, "must be an integer")
		case n < 0:
			errs.Add(OffsetParam, "must not be negative")
		default:
			q.Offset = n
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return q, nil
}

// Field returns the field of s which has the given param name.
// It panics if there is no such field, so it must be used only with
// the constant parameter names.
func (s *Schema) Field(param string) Field {
	for _, f := range s.Fields {
		if f.Param == param {
			return f
		}
	}
	panic("unknown filter parameter: " + param)
}

// nonEmpty drops the blank values. If split is true, comma separated
// values are split too, so authors=1,2 is equivalent to
// authors=1&authors=2.
func nonEmpty(vs []string, split bool) []string {
	res := make([]string, 0, len(vs))
	for _, v := range vs {
		ps := []string{v}
		if split {
			ps = strings.Split(v, ",")
		}
		for _, p := range ps {
			if p = strings.TrimSpace(p); p != "" {
				res = append(res, p)
			}
		}
	}
	return res
}

func parseMany(f Field, raw []string) (any, error) {
	if f.Kind == KindInt {
		ids := make([]int64, 0, len(raw))
		for _, r := range raw {
			id, err := strconv.ParseInt(r, 10, 64)
			if err != nil {
				return nil, errNotInt(r)
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	vs := make([]string, 0, len(raw))
	for _, r := range raw {
		v, err := parseOne(f, r)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v.(string))
	}
	return vs, nil
}

func parseOne(f Field, raw string) (any, error) {
	if f.Parse != nil {
		return f.Parse(raw)
	}
	if f.Op == OpIsNull {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, valueError("a boolean", raw)
		}
		return b, nil
	}
	switch f.Kind {
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errNotInt(raw)
		}
		return n, nil
	case KindDate:
		d, err := model.ParseDate(raw)
		if err != nil {
			return nil, valueError("a YYYY-MM-DD date", raw)
		}
		return d, nil
	case KindAmount:
		a, err := model.ParseAmount(raw)
		if err != nil {
			return nil, valueError("a decimal amount", raw)
		}
		return a, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, valueError("a boolean", raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}

type valueErr struct {
	expected, raw string
}

func (e valueErr) Error() string {
	return strconv.Quote(e.raw) + " is not " + e.expected
}

func valueError(expected, raw string) error {
	return valueErr{expected: expected, raw: raw}
}

func errNotInt(raw string) error {
	return valueError("an integer", raw)
}
