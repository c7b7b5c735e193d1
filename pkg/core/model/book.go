// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strings"
)

// Book is a title which is held by a library in TotalCopies copies.
// AvailableCopies of them may be borrowed right now, while others are
// lent out by active borrowings. The 0 <= AvailableCopies <=
// TotalCopies invariant is verified by Normalize and is kept by the
// borrowing lifecycle operations.
type Book struct {
	ID              ID     `json:"book_id"`
	Title           string `json:"title" binding:"required,max=200"`
	ISBN            string `json:"isbn" binding:"required,max=13"`
	PublicationDate *Date  `json:"publication_date"`
	TotalCopies     int    `json:"total_copies" binding:"min=0"`
	AvailableCopies int    `json:"available_copies" binding:"min=0"`
	LibraryID       ID     `json:"library_id" binding:"required"`
	AuthorIDs       []ID   `json:"authors"`
	CategoryIDs     []ID   `json:"categories"`

	// These fields are computed while reading a book and are ignored
	// when a book is created or updated.
	Authors       []Author   `json:"authors_detail"`
	Categories    []Category `json:"categories_detail"`
	AverageRating *float64   `json:"average_rating"`
}

// Normalize trims the title and ISBN and verifies the copies counts.
func (b *Book) Normalize() error {
	b.Title = strings.TrimSpace(b.Title)
	b.ISBN = strings.TrimSpace(b.ISBN)
	if b.Title == "" {
		return ErrEmptyName
	}
	return CheckCopies(b.TotalCopies, b.AvailableCopies)
}

// KeepLent makes b, which is an edited version of the stored book,
// keep the copies which stored has lent out. AvailableCopies is derived
// from the new TotalCopies, so only the borrowing lifecycle changes
// the number of lent copies. The caller must hold stored locked until
// b is persisted.
func (b *Book) KeepLent(stored *Book) error {
	lent := stored.TotalCopies - stored.AvailableCopies
	if b.TotalCopies < lent {
		return fmt.Errorf(
			"%w: %d of %d copies are lent out",
			ErrTotalBelowLent, lent, stored.TotalCopies,
		)
	}
	b.AvailableCopies = b.TotalCopies - lent
	return nil
}

// CheckCopies verifies the 0 <= available <= total invariant.
func CheckCopies(total, available int) error {
	switch {
	case total < 0 || available < 0:
		return ErrNegativeCopies
	case available > total:
		return ErrAvailableExceedsTotal
	}
	return nil
}

// Availability summarizes the lendable copies of a book.
type Availability struct {
	BookID          ID     `json:"book_id"`
	Title           string `json:"title"`
	AvailableCopies int    `json:"available_copies"`
	TotalCopies     int    `json:"total_copies"`
}

// BookRating is the mean rating of a book reviews, or nil if it has
// no review yet.
type BookRating struct {
	BookID        ID       `json:"book_id"`
	AverageRating *float64 `json:"average_rating"`
}
