// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package filter_test

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var page = filter.Page{Default: 20, Max: 100}

func parse(t *testing.T, s *filter.Schema, raw string) *filter.Query {
	t.Helper()
	vs, err := url.ParseQuery(raw)
	require.NoError(t, err)
	q, err := s.Parse(vs, page)
	require.NoError(t, err)
	return q
}

func values(q *filter.Query) map[string]any {
	m := make(map[string]any, len(q.Predicates))
	for _, p := range q.Predicates {
		m[p.Field.Param] = p.Value
	}
	return m
}

func ExampleErrors() {
	vs := url.Values{
		"late_fee__gte":      {"cheap"},
		"borrow_date_after":  {"yesterday"},
		"return_date_isnull": {"maybe"},
		"ordering":           {"-due_date,colour"},
	}
	_, err := filter.Borrowings.Parse(vs, page)
	fmt.Println(err)
	// Output:
	// borrow_date_after: "yesterday" is not a YYYY-MM-DD date; late_fee__gte: "cheap" is not a decimal amount; ordering: unknown field "colour"; return_date_isnull: "maybe" is not a boolean
}

func TestParseTypedValues(t *testing.T) {
	q := parse(t, filter.Borrowings,
		"member=7&borrow_date_after=2025-08-01&late_fee__lte=12.5"+
			"&return_date_isnull=true&unknown=1&book=",
	)
	assert.Equal(t, map[string]any{
		"member":             int64(7),
		"borrow_date_after":  model.MustParseDate("2025-08-01"),
		"late_fee__lte":      model.Amount(1250),
		"return_date_isnull": true,
	}, values(q))
	assert.Equal(t, 20, q.Limit)
	assert.Zero(t, q.Offset)
}

func TestParseAnyOf(t *testing.T) {
	q := parse(t, filter.Books, "authors=1,2&authors=3&title=a,b&search=%20dune%20")
	assert.Equal(t, map[string]any{
		"authors": []int64{1, 2, 3},
		"title":   "a,b",
	}, values(q))
	assert.Equal(t, "dune", q.Search)
	require.NotNil(t, q.Predicates[1].Field.Through)

	_, err := filter.Books.Parse(url.Values{"categories": {"1,x"}}, page)
	var errs filter.Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, []string{`"x" is not an integer`}, errs["categories"])
}

func TestParseEnum(t *testing.T) {
	q := parse(t, filter.Members, "member_type=Faculty")
	assert.Equal(t, "faculty", values(q)["member_type"])
	_, err := filter.Members.Parse(url.Values{"member_type": {"alumni"}}, page)
	assert.Error(t, err)
}

func TestParseOrderingAndPage(t *testing.T) {
	q := parse(t, filter.Libraries, "ordering=-created_at,library_name&limit=500&offset=40")
	assert.Equal(t, []filter.Order{
		{Column: "created_at", Desc: true},
		{Column: "library_name"},
	}, q.Orders)
	assert.Equal(t, 100, q.Limit)
	assert.Equal(t, 40, q.Offset)

	_, err := filter.Libraries.Parse(url.Values{
		"limit": {"0"}, "offset": {"-1"},
	}, page)
	var errs filter.Errors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
}

func TestWhere(t *testing.T) {
	q := (&filter.Query{}).
		Where(filter.Reviews.Field("rating__gte"), int64(4)).
		Where(filter.Reviews.Field("book"), int64(2))
	require.Len(t, q.Predicates, 2)
	assert.Equal(t, filter.OpGte, q.Predicates[0].Field.Op)
	assert.Equal(t, "book_id", q.Predicates[1].Field.Column)
	assert.Panics(t, func() { filter.Reviews.Field("stars") })
}
