// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram exports the expected interface of a Salted Challenge
// Response Authentication Mechanism (SCRAM) password hasher. For its
// implementation, check the pkg/adapter/hash/scram package.
//
// The libweb roles passwords are renewed whenever the database is
// initialized. The schema repository hashes the new passwords before
// putting them in the ALTER ROLE statements, so the plaintext passwords
// are never sent to the DBMS and cannot leak through its statement
// logs. The client and server side conversations are handled by the
// PostgreSQL server and its driver, so only the hash format is needed.
package scram

// Hasher computes the stored form of a password for one underlying
// hash function (SHA-1 or SHA-256). Only the password, salt, and
// iterations count affect the StoredKey and ServerKey of RFC 5802,
// so the user name and authorization identity are not asked.
type Hasher interface {
	// Hash normalizes pass with SASLprep and returns
	//
	//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
	//
	// which PostgreSQL accepts in ALTER ROLE as an already hashed
	// password. An empty salt is replaced by a random one and iters
	// must be at least 4096.
	Hash(pass, salt string, iters int) (string, error)
}
