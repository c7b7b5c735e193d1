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

type gLibrary struct {
	LibraryID      model.ID  `gorm:"primaryKey;column:library_id"`
	LibraryName    string    `gorm:"column:library_name"`
	CampusLocation string    `gorm:"column:campus_location"`
	ContactEmail   string    `gorm:"column:contact_email"`
	PhoneNumber    string    `gorm:"column:phone_number"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime;<-:create"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (gl *gLibrary) TableName() string {
	return "libraries"
}

func (gl *gLibrary) Key() model.ID {
	return gl.LibraryID
}

func (gl *gLibrary) Model() *model.Library {
	return &model.Library{
		ID:             gl.LibraryID,
		Name:           gl.LibraryName,
		CampusLocation: gl.CampusLocation,
		ContactEmail:   gl.ContactEmail,
		PhoneNumber:    gl.PhoneNumber,
		CreatedAt:      gl.CreatedAt,
		UpdatedAt:      gl.UpdatedAt,
	}
}

func (gl *gLibrary) Fill(l *model.Library) {
	gl.LibraryName = l.Name
	gl.CampusLocation = l.CampusLocation
	gl.ContactEmail = l.ContactEmail
	gl.PhoneNumber = l.PhoneNumber
}

// NewLibraries instantiates the libraries repository.
func NewLibraries() repo.Libraries {
	return &Repo[model.Library, gLibrary, *gLibrary]{
		schema: filter.Libraries,
	}
}
