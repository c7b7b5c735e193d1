// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memrepo

import (
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
)

// Column values are normalized to int64, string, bool, model.Date,
// model.Amount, time.Time, []int64, or nil (for NULL values).

func date(d *model.Date) any {
	if d == nil {
		return nil
	}
	return *d
}

func ids(vs []model.ID) []int64 {
	res := make([]int64, len(vs))
	copy(res, vs)
	return res
}

func libraryColumns(m *model.Library) map[string]any {
	return map[string]any{
		"library_id":      m.ID,
		"library_name":    m.Name,
		"campus_location": m.CampusLocation,
		"contact_email":   m.ContactEmail,
		"phone_number":    m.PhoneNumber,
		"created_at":      m.CreatedAt,
		"updated_at":      m.UpdatedAt,
	}
}

func bookColumns(m *model.Book) map[string]any {
	return map[string]any{
		"book_id":                   m.ID,
		"title":                     m.Title,
		"isbn":                      m.ISBN,
		"publication_date":          date(m.PublicationDate),
		"total_copies":              int64(m.TotalCopies),
		"available_copies":          int64(m.AvailableCopies),
		"library_id":                m.LibraryID,
		filter.BookAuthors.Table:    ids(m.AuthorIDs),
		filter.BookCategories.Table: ids(m.CategoryIDs),
	}
}

func authorColumns(m *model.Author) map[string]any {
	return map[string]any{
		"author_id":   m.ID,
		"first_name":  m.FirstName,
		"last_name":   m.LastName,
		"birth_date":  date(m.BirthDate),
		"nationality": m.Nationality,
		"biography":   m.Biography,
	}
}

func categoryColumns(m *model.Category) map[string]any {
	return map[string]any{
		"category_id":  m.ID,
		"category":     m.Name,
		"descriptions": m.Descriptions,
	}
}

func memberColumns(m *model.Member) map[string]any {
	mt := ""
	if m.MemberType.Validate() == nil {
		mt = m.MemberType.String()
	}
	return map[string]any{
		"member_id":     m.ID,
		"first_name":    m.FirstName,
		"last_name":     m.LastName,
		"contact_email": m.ContactEmail,
		"phone_number":  m.PhoneNumber,
		"member_type":   mt,
	}
}

func borrowingColumns(m *model.Borrowing) map[string]any {
	return map[string]any{
		"borrowing_id": m.ID,
		"book_id":      m.BookID,
		"member_id":    m.MemberID,
		"borrow_date":  m.BorrowDate,
		"due_date":     m.DueDate,
		"return_date":  date(m.ReturnDate),
		"late_fee":     m.LateFee,
	}
}

func reviewColumns(m *model.Review) map[string]any {
	return map[string]any{
		"review_id":   m.ID,
		"member_id":   m.MemberID,
		"book_id":     m.BookID,
		"rating":      int64(m.Rating),
		"comment":     m.Comment,
		"review_date": date(m.ReviewDate),
	}
}
