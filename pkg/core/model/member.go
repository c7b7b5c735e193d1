// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strings"
)

// MemberType specifies the membership category of a library member.
// Although this enum is numeric, it is (de)serialized as a lower case
// string for readability.
type MemberType int

// Valid values for the MemberType enum.
const (
	MemberTypeInvalid MemberType = iota // zero value is invalid

	MemberTypeStudent
	MemberTypeFaculty
	MemberTypeStaff
)

// MemberTypeError indicates an invalid member type number.
type MemberTypeError int

// Error implements the error interface.
func (e MemberTypeError) Error() string {
	return fmt.Sprintf("invalid member type: %d", e)
}

// Validate returns nil if mt value is valid. For invalid values, an
// instance of the MemberTypeError will be returned.
func (mt MemberType) Validate() error {
	switch mt {
	case MemberTypeStudent, MemberTypeFaculty, MemberTypeStaff:
		return nil
	default:
		return MemberTypeError(mt)
	}
}

// String converts the MemberType enum to a string.
// Invalid member types cause a panic.
func (mt MemberType) String() string {
	switch mt {
	case MemberTypeStudent:
		return "student"
	case MemberTypeFaculty:
		return "faculty"
	case MemberTypeStaff:
		return "staff"
	default:
		panic(MemberTypeError(mt))
	}
}

// ParseMemberType parses the given string case insensitively.
// For unknown strings, MemberTypeInvalid and ErrUnknownMemberType
// will be returned.
func ParseMemberType(s string) (MemberType, error) {
	switch strings.ToLower(s) {
	case "student":
		return MemberTypeStudent, nil
	case "faculty":
		return MemberTypeFaculty, nil
	case "staff":
		return MemberTypeStaff, nil
	default:
		return MemberTypeInvalid, ErrUnknownMemberType
	}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (mt MemberType) MarshalText() ([]byte, error) {
	if err := mt.Validate(); err != nil {
		return nil, err
	}
	return []byte(mt.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (mt *MemberType) UnmarshalText(text []byte) error {
	m, err := ParseMemberType(string(text))
	if err != nil {
		return fmt.Errorf("parsing %q: %w", text, err)
	}
	*mt = m
	return nil
}

// Member is a person who may borrow books and review them.
// HasOverdue is computed while reading a member and is ignored when
// a member is created or updated.
type Member struct {
	ID           ID         `json:"member_id"`
	FirstName    string     `json:"first_name" binding:"required,max=100"`
	LastName     string     `json:"last_name" binding:"required,max=100"`
	ContactEmail string     `json:"contact_email" binding:"required,email,max=254"`
	PhoneNumber  string     `json:"phone_number" binding:"required,max=32"`
	MemberType   MemberType `json:"member_type"`
	HasOverdue   bool       `json:"has_overdue"`
}

// Normalize trims the names and checks the member type.
func (m *Member) Normalize() error {
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.LastName = strings.TrimSpace(m.LastName)
	m.ContactEmail = strings.TrimSpace(m.ContactEmail)
	if m.FirstName == "" || m.LastName == "" {
		return ErrEmptyName
	}
	if m.MemberType == MemberTypeInvalid {
		m.MemberType = MemberTypeStudent
	}
	return m.MemberType.Validate()
}

// Phone returns a pointer to the phone number field, so it can be
// normalized in place.
func (m *Member) Phone() *string {
	return &m.PhoneNumber
}
