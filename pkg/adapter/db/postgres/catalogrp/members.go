// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package catalogrp

import (
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
)

// gMember keeps the member type as text, so the CHECK constraint of
// the members table rejects the unknown types.
type gMember struct {
	MemberID     model.ID `gorm:"primaryKey;column:member_id"`
	FirstName    string   `gorm:"column:first_name"`
	LastName     string   `gorm:"column:last_name"`
	ContactEmail string   `gorm:"column:contact_email"`
	PhoneNumber  string   `gorm:"column:phone_number"`
	MemberType   string   `gorm:"column:member_type"`
}

func (gm *gMember) TableName() string {
	return "members"
}

func (gm *gMember) Key() model.ID {
	return gm.MemberID
}

func (gm *gMember) Model() *model.Member {
	mt, _ := model.ParseMemberType(gm.MemberType)
	return &model.Member{
		ID:           gm.MemberID,
		FirstName:    gm.FirstName,
		LastName:     gm.LastName,
		ContactEmail: gm.ContactEmail,
		PhoneNumber:  gm.PhoneNumber,
		MemberType:   mt,
	}
}

func (gm *gMember) Fill(m *model.Member) {
	gm.FirstName = m.FirstName
	gm.LastName = m.LastName
	gm.ContactEmail = m.ContactEmail
	gm.PhoneNumber = m.PhoneNumber
	mt, _ := m.MemberType.MarshalText()
	gm.MemberType = string(mt)
}

// NewMembers instantiates the members repository.
// The HasOverdue field of members is not stored and is filled by the
// borrowing use case instead.
func NewMembers() repo.Members {
	return &Repo[model.Member, gMember, *gMember]{schema: filter.Members}
}
