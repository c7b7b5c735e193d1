// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migrationuc provides the database initialization use cases.
// InitDBUseCase (re)creates the libwebN schema and the roles which use
// it, renews their passwords, and fills the schema with development or
// production suitable data. The Settings interface represents what is
// expected from the configuration file representation, so this package
// may remain independent of the configuration format.
package migrationuc
