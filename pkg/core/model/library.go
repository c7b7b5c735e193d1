// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"strings"
	"time"
)

// Library is a campus library which owns a collection of books.
type Library struct {
	ID             ID        `json:"library_id"`
	Name           string    `json:"library_name" binding:"required,max=100"`
	CampusLocation string    `json:"campus_location" binding:"max=100"`
	ContactEmail   string    `json:"contact_email" binding:"required,email,max=254"`
	PhoneNumber    string    `json:"phone_number" binding:"required,max=32"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Normalize trims the textual fields of l.
func (l *Library) Normalize() error {
	l.Name = strings.TrimSpace(l.Name)
	l.CampusLocation = strings.TrimSpace(l.CampusLocation)
	l.ContactEmail = strings.TrimSpace(l.ContactEmail)
	if l.Name == "" {
		return ErrEmptyName
	}
	return nil
}

// Phone returns a pointer to the phone number field, so it can be
// normalized in place.
func (l *Library) Phone() *string {
	return &l.PhoneNumber
}
