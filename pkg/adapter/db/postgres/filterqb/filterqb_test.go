// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package filterqb_test

import (
	"net/url"
	"testing"

	"github.com/momeni/clean-library/pkg/adapter/db/postgres/filterqb"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, s *filter.Schema, raw string) (string, []any) {
	t.Helper()
	vs, err := url.ParseQuery(raw)
	require.NoError(t, err)
	q, err := s.Parse(vs, filter.Page{Default: 20, Max: 100})
	require.NoError(t, err)
	sql, args, err := filterqb.Select(s, q).ToSQL()
	require.NoError(t, err)
	return sql, args
}

func TestSelectBooks(t *testing.T) {
	sql, args := compile(t, filter.Books,
		"title=50%25&authors=1,2&ordering=-publication_date&search=tolkien",
	)
	assert.Contains(t, sql, `SELECT "books".* FROM "books"`)
	assert.Contains(t, sql, `"books"."title" ILIKE $1`)
	assert.Contains(t, sql, `"book_authors"`)
	assert.Contains(t, sql, `"book_categories"`)
	assert.Contains(t, sql, `"authors"."last_name" ILIKE`)
	assert.Contains(t, sql,
		`ORDER BY "books"."publication_date" DESC NULLS LAST, "books"."book_id" ASC`,
	)
	assert.NotContains(t, sql, "tolkien", "values must be passed as args")
	require.NotEmpty(t, args)
	assert.Equal(t, `%50\%%`, args[0])
	assert.Contains(t, args, "%tolkien%")
}

func TestSelectBorrowings(t *testing.T) {
	sql, args := compile(t, filter.Borrowings,
		"member=7&return_date_isnull=true&due_date_before=2025-08-24&late_fee__gte=5",
	)
	assert.Contains(t, sql, `"borrowings"."member_id" = $1`)
	assert.Contains(t, sql, `"borrowings"."return_date" IS NULL`)
	assert.Contains(t, sql, `"borrowings"."due_date" < $2`)
	assert.Contains(t, sql, `"borrowings"."late_fee" >= $3`)
	require.GreaterOrEqual(t, len(args), 3)
	assert.Equal(t, int64(7), args[0])
	assert.Equal(t, model.MustParseDate("2025-08-25").Time(), args[1])
	assert.Equal(t, "5.00", args[2])
}

func TestSelectWithoutLimit(t *testing.T) {
	q := (&filter.Query{}).Where(filter.Borrowings.Field("member"), int64(3))
	sql, _, err := filterqb.Select(filter.Borrowings, q).ToSQL()
	require.NoError(t, err)
	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, "OFFSET")
}
