// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Statistics contains the overall counters of the system.
type Statistics struct {
	TotalBooks        int64 `json:"total_books"`
	TotalMembers      int64 `json:"total_members"`
	TotalBorrowings   int64 `json:"total_borrowings"`
	ActiveBorrowings  int64 `json:"active_borrowings"`
	OverdueBorrowings int64 `json:"overdue_borrowings"`
}
