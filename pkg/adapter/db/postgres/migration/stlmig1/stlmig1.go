// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package stlmig1 provides Settler type for database schema major
// version 1. It creates the catalog and borrowing tables in an existing
// (and empty) libweb1 schema and fills them with the development or
// production suitable initial data.
package stlmig1

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/momeni/clean-library/pkg/core/repo"
)

// These constants indicate the major, minor, and patch components of
// the database schema which is created by this package. Each major
// version has a separate stlmigN package and the Minor is the latest
// supported minor version within the Major major version series.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Tables lists the tables which are created by a Settler, in their
// creation order.
var Tables = []string{
	"libraries", "authors", "categories", "books",
	"book_authors", "book_categories", "members",
	"borrowings", "reviews",
}

//go:embed schema.sql
var schemaDDL string

//go:embed devdata.sql
var devData string

// Settler creates the tables of major version 1 schema.
//
// Each instance of Settler wraps and uses a single transaction of the
// destination database, but the caller is responsible to commit that
// transaction in order to finalize the initialization results.
type Settler struct {
	tx repo.Tx // destination database transaction
}

// New creates a new Settler instance, wrapping the given `tx` database
// transaction. The settler object expects the database schema to exist
// (and be the first schema in the search_path of the connected role)
// and only tries to create relevant tables in that schema.
func New(tx repo.Tx) *Settler {
	return &Settler{
		tx: tx,
	}
}

// InitDevSchema creates major version 1 tables in libweb1 schema and
// fills them with a few libraries, books, members, and borrowings
// which are useful during the development.
func (sm1 *Settler) InitDevSchema(ctx context.Context) error {
	if err := sm1.createTables(ctx); err != nil {
		return err
	}
	if _, err := sm1.tx.Exec(ctx, devData); err != nil {
		return fmt.Errorf("inserting development data: %w", err)
	}
	return nil
}

// InitProdSchema creates major version 1 tables in libweb1 schema.
// Production catalog starts empty and is filled by librarians.
func (sm1 *Settler) InitProdSchema(ctx context.Context) error {
	return sm1.createTables(ctx)
}

func (sm1 *Settler) createTables(ctx context.Context) error {
	if _, err := sm1.tx.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}
