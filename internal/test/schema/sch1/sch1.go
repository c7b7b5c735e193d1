// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sch1 provides database schema major version 1 verification
// logic. This implementation may be instantiated indirectly using
// the github.com/momeni/clean-library/internal/test/schema package.
package sch1

import (
	"context"
	"fmt"
	"testing"

	"github.com/momeni/clean-library/pkg/adapter/db/postgres/migration/stlmig1"
	"github.com/momeni/clean-library/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These constants present the relevant major, minor, and patch semantic
// versions of this schema verifier package. They follow the stlmig1
// package because whenever a new minor version is released, stlmig1
// has to create it and this verifier needs to verify it too.
const (
	Major = stlmig1.Major
	Minor = stlmig1.Minor
	Patch = stlmig1.Patch
)

// Verifier implements the schema major version 1 verification logic. It
// implements github.com/momeni/clean-library/internal/test/schema.Verifier
// interface and wraps a database connection as noted in New function.
type Verifier struct {
	c repo.Conn // database connection which is used for testing
}

// New instantiates a Verifier struct, wrapping the `c` database
// connection.
func New(c repo.Conn) *Verifier {
	return &Verifier{c}
}

// columns lists a few columns of each table which are read by the
// repositories. Missing columns fail the verification.
var columns = map[string][]string{
	"libraries":       {"library_id", "library_name", "phone_number"},
	"authors":         {"author_id", "first_name", "last_name"},
	"categories":      {"category_id", "category"},
	"books":           {"book_id", "isbn", "total_copies", "available_copies"},
	"book_authors":    {"book_id", "author_id"},
	"book_categories": {"book_id", "category_id"},
	"members":         {"member_id", "contact_email", "member_type"},
	"borrowings": {
		"borrowing_id", "book_id", "member_id", "borrow_date",
		"due_date", "return_date", "late_fee", "request_id",
	},
	"reviews": {"review_id", "member_id", "book_id", "rating"},
}

// VerifySchema checks that all tables of Major major version exist in
// the first schema of the search_path and have the expected columns.
// The verification failures are reported using the `t` argument.
func (v *Verifier) VerifySchema(ctx context.Context, t *testing.T) {
	for _, table := range stlmig1.Tables {
		var n int64
		err := v.scan(ctx, &n, `SELECT count(*)
FROM information_schema.columns
WHERE table_schema=current_schema() AND table_name=$1`, table)
		require.NoError(t, err, "querying columns of %q", table)
		assert.NotZero(t, n, "table %q is missing", table)
		for _, col := range columns[table] {
			err = v.scan(ctx, &n, `SELECT count(*)
FROM information_schema.columns
WHERE table_schema=current_schema() AND table_name=$1
AND column_name=$2`, table, col)
			require.NoError(t, err, "querying %q.%q", table, col)
			assert.Equal(t, int64(1), n, "column %q.%q", table, col)
		}
	}
}

// VerifyDevData checks for presence of the development suitable initial
// data and marks possible issues using the `t` testing argument.
// Presence of extra rows is acceptable.
func (v *Verifier) VerifyDevData(ctx context.Context, t *testing.T) {
	for table, least := range map[string]int64{
		"libraries":  2,
		"authors":    3,
		"categories": 3,
		"books":      4,
		"members":    3,
		"borrowings": 3,
		"reviews":    3,
	} {
		assert.GreaterOrEqual(t, v.count(ctx, t, table), least, table)
	}
	var copies, available int64
	err := v.scan(ctx, &copies,
		"SELECT total_copies FROM books WHERE isbn=$1", "9780441172719",
	)
	require.NoError(t, err, "finding the sample book")
	err = v.scan(ctx, &available,
		"SELECT available_copies FROM books WHERE isbn=$1", "9780441172719",
	)
	require.NoError(t, err, "finding the sample book")
	assert.Equal(t, int64(5), copies)
	assert.Equal(t, int64(4), available)
}

// VerifyProdData checks that the catalog and borrowing tables are
// empty, since the production catalog is filled by the librarians.
func (v *Verifier) VerifyProdData(ctx context.Context, t *testing.T) {
	for _, table := range stlmig1.Tables {
		assert.Zero(t, v.count(ctx, t, table), table)
	}
}

func (v *Verifier) count(
	ctx context.Context, t *testing.T, table string,
) int64 {
	var n int64
	// table names are taken from the trusted stlmig1.Tables list
	err := v.scan(ctx, &n, "SELECT count(*) FROM "+table)
	require.NoError(t, err, "counting rows of %q", table)
	return n
}

func (v *Verifier) scan(
	ctx context.Context, dst any, q string, args ...any,
) error {
	rows, err := v.c.Query(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return fmt.Errorf("no rows: %s", q)
	}
	return rows.Scan(dst)
}
