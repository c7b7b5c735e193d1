// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settingsrs

import (
	"time"

	"github.com/momeni/clean-library/pkg/core/model"
)

// SettingsResp publishes the settings with loan periods in whole days
// as follows:
//  1. The borrowing field for reporting the late fee per day and the
//     default loan period,
//  2. The min_bounds and max_bounds fields for reporting the range of
//     acceptable loan periods (if they are known),
//  3. The catalog field for reporting the phone region and the page
//     sizes of the listing APIs.
type SettingsResp struct {
	Borrowing BorrowingResp         `json:"borrowing"`
	MinBounds *BoundsResp           `json:"min_bounds,omitempty"`
	MaxBounds *BoundsResp           `json:"max_bounds,omitempty"`
	Catalog   model.CatalogSettings `json:"catalog"`
}

// BorrowingResp contains the lending policy.
type BorrowingResp struct {
	LateFeePerDay  *model.Amount `json:"late_fee_per_day"`
	LoanPeriodDays *int          `json:"loan_period_days"`
}

// BoundsResp contains a boundary of the lending policy settings.
type BoundsResp struct {
	LoanPeriodDays int `json:"loan_period_days"`
}

// SerSettings converts the s model settings to a SettingsResp.
func SerSettings(s model.Settings) SettingsResp {
	b := s.Borrowing
	resp := SettingsResp{
		Borrowing: BorrowingResp{
			LateFeePerDay:  b.LateFeePerDay,
			LoanPeriodDays: days(b.LoanPeriod),
		},
		Catalog: s.Catalog,
	}
	if d := days(b.MinLoanPeriod); d != nil {
		resp.MinBounds = &BoundsResp{LoanPeriodDays: *d}
	}
	if d := days(b.MaxLoanPeriod); d != nil {
		resp.MaxBounds = &BoundsResp{LoanPeriodDays: *d}
	}
	return resp
}

func days(d *time.Duration) *int {
	if d == nil {
		return nil
	}
	n := int(*d / (24 * time.Hour))
	return &n
}
