// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema is a facade for database schema verifiers which can
// be used for testing purposes. The verification code depends on the
// major version of the schema and not its specific minor version,
// because each stlmigN package always creates the latest minor version
// of its major version. VerifySchema only checks the tables and their
// columns, while VerifyDevData and VerifyProdData check the rows which
// are expected right after a database initialization.
package schema

import (
	"context"
	"fmt"
	"testing"

	"github.com/momeni/clean-library/internal/test/schema/sch1"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
)

// Verifier checks a database which was initialized by the libweb db
// init-dev or init-prod commands. Each method marks t as failed and
// returns early on the first mismatch.
type Verifier interface {
	// VerifySchema checks that every table exists with its columns.
	VerifySchema(ctx context.Context, t *testing.T)

	// VerifyDevData checks the sample rows of init-dev.
	VerifyDevData(ctx context.Context, t *testing.T)

	// VerifyProdData checks that init-prod left the tables empty.
	VerifyProdData(ctx context.Context, t *testing.T)
}

// NewVerifier returns the Verifier of the v schema version which runs
// its queries on c. Only the major version selects an implementation,
// but a minor version newer than the known one is rejected.
func NewVerifier(c repo.Conn, v model.SemVer) (Verifier, error) {
	if v[0] != 1 {
		return nil, fmt.Errorf("no verifier for major version %d", v[0])
	}
	if v[1] > sch1.Minor {
		return nil, fmt.Errorf("no verifier for %v", v)
	}
	return sch1.New(c), nil
}
