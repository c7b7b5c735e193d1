// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"

	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
)

// PasswordChanger sets the passwords of roles in the database, using
// the transaction which it was created for.
type PasswordChanger func(
	ctx context.Context, roles []repo.Role, passwords []string,
) error

// Settings is what the database initialization needs from the
// configuration file, so this package does not depend on its format.
type Settings interface {
	// ConnectionPool connects to the configured database as the r
	// role. Its password is read from the pass-dir files. If an
	// earlier RenewPasswords was not finalized, the pending passwords
	// are tried too and finalized if they work.
	ConnectionPool(ctx context.Context, r repo.Role) (repo.Pool, error)

	// NewSchemaRepo instantiates a Schema repository. It knows the
	// role names suffix of the settings, so the roles which it creates
	// or grants match the ones which ConnectionPool connects as.
	NewSchemaRepo() repo.Schema

	// SchemaInitializer creates the tables of SchemaVersion in the tx
	// transaction. Nothing is persisted unless tx commits.
	SchemaInitializer(tx repo.Tx) (repo.SchemaInitializer, error)

	// RenewPasswords generates new passwords for roles, records them
	// as pending, and calls change to set them in the database. The
	// returned finalizer makes them the current passwords and must be
	// called after the transaction of change commits.
	RenewPasswords(
		ctx context.Context, change PasswordChanger, roles ...repo.Role,
	) (finalizer func() error, err error)

	// SchemaVersion is the configured database schema version.
	SchemaVersion() model.SemVer
}
