// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Tx is a READ-COMMITTED database transaction. It must not be shared
// between goroutines. The borrowing repositories rely on the row
// locks which a Tx takes, so a borrow and its inventory update are
// either committed together or not at all.
type Tx interface {
	Queryer

	// IsTx distinguishes a Tx from a Conn, since both have the same
	// statement execution methods.
	IsTx()
}
