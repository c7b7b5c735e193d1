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

type gAuthor struct {
	AuthorID    model.ID   `gorm:"primaryKey;column:author_id"`
	FirstName   string     `gorm:"column:first_name"`
	LastName    string     `gorm:"column:last_name"`
	BirthDate   *time.Time `gorm:"column:birth_date;type:date"`
	Nationality string     `gorm:"column:nationality"`
	Biography   string     `gorm:"column:biography"`
}

func (ga *gAuthor) TableName() string {
	return "authors"
}

func (ga *gAuthor) Key() model.ID {
	return ga.AuthorID
}

func (ga *gAuthor) Model() *model.Author {
	return &model.Author{
		ID:          ga.AuthorID,
		FirstName:   ga.FirstName,
		LastName:    ga.LastName,
		BirthDate:   modelDate(ga.BirthDate),
		Nationality: ga.Nationality,
		Biography:   ga.Biography,
	}
}

func (ga *gAuthor) Fill(a *model.Author) {
	ga.FirstName = a.FirstName
	ga.LastName = a.LastName
	ga.BirthDate = date(a.BirthDate)
	ga.Nationality = a.Nationality
	ga.Biography = a.Biography
}

// NewAuthors instantiates the authors repository.
func NewAuthors() repo.Authors {
	return &Repo[model.Author, gAuthor, *gAuthor]{schema: filter.Authors}
}
