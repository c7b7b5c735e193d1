// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// SchemaInitializer creates the tables of an empty schema.
// Implementations wrap a transaction which belongs to the NormalRole,
// so created tables will be owned by that role.
type SchemaInitializer interface {
	// InitDevSchema creates the tables and fills them with a small
	// set of sample records which are useful during development.
	InitDevSchema(ctx context.Context) error

	// InitProdSchema creates the tables, leaving them empty.
	InitProdSchema(ctx context.Context) error
}

// Schema is a repository for management of the database schema and
// the roles which may access it.
type Schema interface {
	Tx(Tx) SchemaTxQueryer
}

// SchemaTxQueryer lists the schema management operations which
// should be executed in a transaction by the AdminRole.
type SchemaTxQueryer interface {
	// DropIfExists drops the schema with all of its dependent
	// objects if it exists.
	DropIfExists(ctx context.Context, schema string) error

	// CreateSchema creates an empty schema.
	CreateSchema(ctx context.Context, schema string) error

	// CreateRoleIfNotExists creates a login role with no password.
	CreateRoleIfNotExists(ctx context.Context, role Role) error

	// GrantPrivileges grants all privileges on schema to the role.
	GrantPrivileges(ctx context.Context, schema string, role Role) error

	// SetSearchPath sets the default search_path of role to schema.
	SetSearchPath(ctx context.Context, schema string, role Role) error

	// ChangePasswords updates the passwords of the given roles.
	// The roles and passwords slices must have the same length.
	ChangePasswords(
		ctx context.Context, roles []Role, passwords []string,
	) error
}
