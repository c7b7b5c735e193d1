// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package catalogrp

import (
	"time"

	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
)

type gReview struct {
	ReviewID   model.ID   `gorm:"primaryKey;column:review_id"`
	MemberID   model.ID   `gorm:"column:member_id"`
	BookID     model.ID   `gorm:"column:book_id"`
	Rating     int        `gorm:"column:rating"`
	Comment    string     `gorm:"column:comment"`
	ReviewDate *time.Time `gorm:"column:review_date;type:date"`
}

func (gr *gReview) TableName() string {
	return "reviews"
}

func (gr *gReview) Key() model.ID {
	return gr.ReviewID
}

func (gr *gReview) Model() *model.Review {
	return &model.Review{
		ID:         gr.ReviewID,
		MemberID:   gr.MemberID,
		BookID:     gr.BookID,
		Rating:     gr.Rating,
		Comment:    gr.Comment,
		ReviewDate: modelDate(gr.ReviewDate),
	}
}

func (gr *gReview) Fill(r *model.Review) {
	gr.MemberID = r.MemberID
	gr.BookID = r.BookID
	gr.Rating = r.Rating
	gr.Comment = r.Comment
	gr.ReviewDate = date(r.ReviewDate)
}

// NewReviews instantiates the reviews repository.
func NewReviews() repo.Reviews {
	return &Repo[model.Review, gReview, *gReview]{schema: filter.Reviews}
}
