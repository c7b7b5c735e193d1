// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "strings"

// Review is the opinion of a member about a book.
type Review struct {
	ID         ID     `json:"review_id"`
	MemberID   ID     `json:"member_id" binding:"required"`
	BookID     ID     `json:"book_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment"`
	ReviewDate *Date  `json:"review_date"`
}

// Normalize verifies the rating range and trims the comment.
func (r *Review) Normalize() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrRatingOutOfRange
	}
	r.Comment = strings.TrimSpace(r.Comment)
	return nil
}

// Stamp fills the missing review date with today.
func (r *Review) Stamp(today Date) {
	if r.ReviewDate == nil {
		r.ReviewDate = &today
	}
}
