// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"strings"
	"unicode"
)

// Author is a person who has written some books.
type Author struct {
	ID          ID     `json:"author_id"`
	FirstName   string `json:"first_name" binding:"required,max=100"`
	LastName    string `json:"last_name" binding:"required,max=100"`
	BirthDate   *Date  `json:"birth_date"`
	Nationality string `json:"nationality" binding:"max=100"`
	Biography   string `json:"biography"`
}

// Normalize collapses the whitespace runs of the author names and
// converts them to title case, so "  jANE   austen" is stored as
// "Jane Austen".
func (a *Author) Normalize() error {
	a.FirstName = TitleName(a.FirstName)
	a.LastName = TitleName(a.LastName)
	a.Nationality = strings.TrimSpace(a.Nationality)
	if a.FirstName == "" || a.LastName == "" {
		return ErrEmptyName
	}
	return nil
}

// FullName returns the first and last names separated by a space.
func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// TitleName joins the whitespace separated words of s with a single
// space and upper cases every letter which does not follow another
// letter, while lower casing the rest of letters.
func TitleName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	b := strings.Builder{}
	b.Grow(len(s))
	afterLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			afterLetter = false
		case afterLetter:
			r = unicode.ToLower(r)
		default:
			r = unicode.ToUpper(r)
			afterLetter = true
		}
		b.WriteRune(r)
	}
	return b.String()
}
