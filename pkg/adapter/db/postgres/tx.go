// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

// Tx is an ongoing READ COMMITTED transaction. It may not be used
// concurrently. The borrowing lifecycle does not need a stricter
// isolation level because its writes are conditional updates which
// re-check their predicates on the locked rows.
// Repositories may use its *gorm.DB through the GORM method.
type Tx struct {
	session
}

// IsTx method prevents a non-Tx object (such as a Conn) to
// mistakenly implement the Tx interface.
func (tx *Tx) IsTx() {
}
