// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Role is a database role name. Pools are created per role by the
// migrationuc.Settings.ConnectionPool method, reading the role
// password from the configured pass-dir.
type Role string

// The AdminRole must be created by the operator with superuser
// privileges. It recreates the libwebN schema and the NormalRole, and
// renews both passwords during the db init-* commands. The NormalRole
// owns the tables and serves the REST APIs.
const (
	AdminRole  Role = "admin"
	NormalRole Role = "libweb"
)
