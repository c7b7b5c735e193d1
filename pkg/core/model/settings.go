// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "time"

// Settings contains the configuration settings which are exposed to
// the web clients, so they may present the lending policy to users.
// Pointer fields may be nil if the corresponding setting is left to
// its default value.
type Settings struct {
	Borrowing BorrowingSettings `json:"borrowing"`
	Catalog   CatalogSettings   `json:"catalog"`
}

// BorrowingSettings describes the lending policy.
type BorrowingSettings struct {
	LateFeePerDay *Amount        `json:"late_fee_per_day"`
	LoanPeriod    *time.Duration `json:"loan_period"`
	MinLoanPeriod *time.Duration `json:"loan_period_minimum,omitempty"`
	MaxLoanPeriod *time.Duration `json:"loan_period_maximum,omitempty"`
}

// CatalogSettings describes how the catalog records are listed and
// normalized.
type CatalogSettings struct {
	PhoneRegion     string `json:"phone_region"`
	DefaultPageSize int    `json:"default_page_size"`
	MaxPageSize     int    `json:"max_page_size"`
}
