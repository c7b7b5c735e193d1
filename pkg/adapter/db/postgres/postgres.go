// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres provides the PostgreSQL reification of the repo
// package interfaces. A Pool wraps a GORM instance which is opened
// using the pgx driver, while Conn and Tx types wrap a single
// connection and an ongoing transaction respectively.
// The repositories live in the sub-packages (e.g., borrowingsrp) and
// depend on these types for running their queries.
package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/clean-library/pkg/core/cerr"
	"github.com/momeni/clean-library/pkg/core/model"
)

// These constants represent the major, minor, and patch components of
// the current database schema semantic version.
//
// The v1.0.0 is the latest supported database schema version.
const (
	Major = 1 // latest supported schema major version
	Minor = 0 // latest schema minor version in Major series
	Patch = 0 // latest schema patch version in Minor series
)

// Version is the latest supported database schema semantic version.
var Version = model.SemVer{Major, Minor, Patch}

// SQLSTATE codes of the integrity constraint violations.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	ForeignKeyViolation = "23503"
	UniqueViolation     = "23505"
	CheckViolation      = "23514"
)

// Code returns the SQLSTATE code of err if it wraps a PostgreSQL
// error, otherwise, an empty string.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// TranslateError converts the integrity constraint violations to
// the core layer errors. A duplicate key is reported as a conflict
// while a dangling reference or a failed check is reported as an
// invalid input. Other errors are wrapped with the msg prefix.
func TranslateError(err error, msg string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	detail := pgErr.Detail
	if detail == "" {
		detail = pgErr.Message
	}
	switch pgErr.Code {
	case UniqueViolation:
		return cerr.Conflict(fmt.Errorf("%s: %s: %w", msg, detail, err))
	case ForeignKeyViolation, CheckViolation:
		return cerr.Validation(fmt.Errorf("%s: %s: %w", msg, detail, err))
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
