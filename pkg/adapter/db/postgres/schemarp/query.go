// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres"
	"github.com/momeni/clean-library/pkg/core/repo"
	"github.com/momeni/clean-library/pkg/core/scram"
)

// iterations of the SCRAM password hashing, as recommended by RFC 7677
const iterations = 15000

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func roleName(roleSuffix, role repo.Role) string {
	return ident(string(role + roleSuffix))
}

func exec[Q postgres.Queryer](ctx context.Context, q Q, sql string) error {
	if _, err := q.Exec(ctx, sql); err != nil {
		return fmt.Errorf("%s: %w", strings.Fields(sql)[0], err)
	}
	return nil
}

// DropIfExists drops the `schema` schema with cascade if it exists.
// That is, all of its tables and their rows are dropped too.
func DropIfExists[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	return exec(ctx, q, "DROP SCHEMA IF EXISTS "+ident(schema)+" CASCADE")
}

// CreateSchema creates the `schema` schema. There must be no other
// schema with the same name.
func CreateSchema[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	return exec(ctx, q, "CREATE SCHEMA "+ident(schema))
}

// CreateRoleIfNotExists creates the `role` login role (suffixed by
// roleSuffix) if it does not exist. No password is set for it.
func CreateRoleIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix, role repo.Role,
) error {
	rows, err := q.Query(
		ctx, "SELECT 1 FROM pg_roles WHERE rolname = $1",
		string(role+roleSuffix),
	)
	if err != nil {
		return fmt.Errorf("finding role: %w", err)
	}
	exists := rows.Next()
	rows.Close()
	if err = rows.Err(); err != nil {
		return fmt.Errorf("finding role: %w", err)
	}
	if exists {
		return nil
	}
	return exec(ctx, q, "CREATE ROLE "+roleName(roleSuffix, role)+" LOGIN")
}

// GrantPrivileges grants ALL privileges on the `schema` schema to the
// `role` role, so it may create and access tables in that schema.
func GrantPrivileges[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix repo.Role, schema string,
	role repo.Role,
) error {
	return exec(ctx, q, fmt.Sprintf(
		"GRANT ALL PRIVILEGES ON SCHEMA %s TO %s",
		ident(schema), roleName(roleSuffix, role),
	))
}

// SetSearchPath alters the given database role and sets its default
// search_path to the given schema name alone.
func SetSearchPath[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix repo.Role, schema string,
	role repo.Role,
) error {
	return exec(ctx, q, fmt.Sprintf(
		"ALTER ROLE %s SET search_path TO %s",
		roleName(roleSuffix, role), ident(schema),
	))
}

// ChangePasswords updates the passwords of the given roles in the
// current transaction. The roles and passwords slices must have the
// same number of entries, so they can be used in pair.
// Passwords are hashed by the hasher with a random salt, so the
// plaintext passwords are never sent to the DBMS and may not leak
// through its statements logs.
func ChangePasswords[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	hasher scram.Hasher,
	roles []repo.Role,
	passwords []string,
) error {
	if len(roles) != len(passwords) {
		return errors.New("roles and passwords lengths are different")
	}
	for i, role := range roles {
		h, err := hasher.Hash(passwords[i], "", iterations)
		if err != nil {
			return fmt.Errorf("hashing password of %q: %w", role, err)
		}
		err = exec(ctx, q, fmt.Sprintf(
			"ALTER ROLE %s WITH PASSWORD '%s'",
			roleName(roleSuffix, role), strings.ReplaceAll(h, "'", "''"),
		))
		if err != nil {
			return err
		}
	}
	return nil
}
