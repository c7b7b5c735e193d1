// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package filter

import "github.com/momeni/clean-library/pkg/core/model"

func fields(groups ...[]Field) []Field {
	var fs []Field
	for _, g := range groups {
		fs = append(fs, g...)
	}
	return fs
}

func one(param, column string, kind Kind, op Op) []Field {
	return []Field{{Param: param, Column: column, Kind: kind, Op: op}}
}

// Libraries is the listing schema of the model.Library entities.
var Libraries = &Schema{
	Table:    "libraries",
	IDColumn: "library_id",
	Fields: fields(
		one("library_name", "library_name", KindText, OpIContains),
		one("campus_location", "campus_location", KindText, OpIContains),
		one("contact_email", "contact_email", KindText, OpIContains),
		one("phone_number", "phone_number", KindText, OpExact),
		Range("created_at", "created_at", KindDate),
		Range("updated_at", "updated_at", KindDate),
	),
	Search: Search{Columns: []string{"library_name", "campus_location"}},
	Ordering: []string{
		"library_id", "library_name", "campus_location",
		"contact_email", "phone_number", "created_at", "updated_at",
	},
}

// BookAuthors links books to their authors.
var BookAuthors = Through{
	Table: "book_authors", OwnerKey: "book_id", TargetKey: "author_id",
}

// BookCategories links books to their categories.
var BookCategories = Through{
	Table: "book_categories", OwnerKey: "book_id", TargetKey: "category_id",
}

// Books is the listing schema of the model.Book entities.
// The search parameter matches the title, authors names, and category
// names of books.
var Books = &Schema{
	Table:    "books",
	IDColumn: "book_id",
	Fields: fields(
		one("title", "title", KindText, OpIContains),
		one("isbn", "isbn", KindText, OpExact),
		Range("publication_date", "publication_date", KindDate),
		one("library", "library_id", KindInt, OpExact),
		Bounds("available_copies", "available_copies", KindInt),
		Bounds("total_copies", "total_copies", KindInt),
		[]Field{
			{
				Param: "authors", Column: "book_id", Kind: KindInt,
				Op: OpAnyOf, Through: &BookAuthors,
			},
			{
				Param: "categories", Column: "book_id", Kind: KindInt,
				Op: OpAnyOf, Through: &BookCategories,
			},
		},
	),
	Search: Search{
		Columns: []string{"title"},
		Related: []Related{
			{
				Through: BookAuthors,
				Table:   "authors", Key: "author_id",
				Columns: []string{"first_name", "last_name"},
			},
			{
				Through: BookCategories,
				Table:   "categories", Key: "category_id",
				Columns: []string{"category"},
			},
		},
	},
	Ordering: []string{
		"book_id", "title", "isbn", "publication_date",
		"total_copies", "available_copies", "library_id",
	},
}

// Authors is the listing schema of the model.Author entities.
var Authors = &Schema{
	Table:    "authors",
	IDColumn: "author_id",
	Fields: fields(
		one("first_name", "first_name", KindText, OpIContains),
		one("last_name", "last_name", KindText, OpIContains),
		Range("birth_date", "birth_date", KindDate),
		one("nationality", "nationality", KindText, OpIContains),
	),
	Search: Search{Columns: []string{"first_name", "last_name"}},
	Ordering: []string{
		"author_id", "first_name", "last_name", "birth_date",
		"nationality",
	},
}

// Categories is the listing schema of the model.Category entities.
var Categories = &Schema{
	Table:    "categories",
	IDColumn: "category_id",
	Fields: fields(
		one("category", "category", KindText, OpIContains),
		one("descriptions", "descriptions", KindText, OpIContains),
	),
	Search:   Search{Columns: []string{"category", "descriptions"}},
	Ordering: []string{"category_id", "category"},
}

// Members is the listing schema of the model.Member entities.
var Members = &Schema{
	Table:    "members",
	IDColumn: "member_id",
	Fields: fields(
		one("first_name", "first_name", KindText, OpIContains),
		one("last_name", "last_name", KindText, OpIContains),
		one("contact_email", "contact_email", KindText, OpIContains),
		one("phone_number", "phone_number", KindText, OpIContains),
		[]Field{{
			Param: "member_type", Column: "member_type",
			Kind: KindText, Op: OpExact,
			Parse: func(s string) (any, error) {
				mt, err := model.ParseMemberType(s)
				if err != nil {
					return nil, err
				}
				return mt.String(), nil
			},
		}},
	),
	Search: Search{
		Columns: []string{"first_name", "last_name", "contact_email"},
	},
	Ordering: []string{
		"member_id", "first_name", "last_name", "contact_email",
		"member_type",
	},
}

// Borrowings is the listing schema of the model.Borrowing entities.
var Borrowings = &Schema{
	Table:    "borrowings",
	IDColumn: "borrowing_id",
	Fields: fields(
		one("member", "member_id", KindInt, OpExact),
		one("book", "book_id", KindInt, OpExact),
		Range("borrow_date", "borrow_date", KindDate),
		Range("due_date", "due_date", KindDate),
		one("return_date", "return_date", KindDate, OpExact),
		one("return_date_isnull", "return_date", KindDate, OpIsNull),
		Bounds("late_fee", "late_fee", KindAmount),
	),
	Ordering: []string{
		"borrowing_id", "book_id", "member_id", "borrow_date",
		"due_date", "return_date", "late_fee",
	},
}

// Reviews is the listing schema of the model.Review entities.
var Reviews = &Schema{
	Table:    "reviews",
	IDColumn: "review_id",
	Fields: fields(
		one("member", "member_id", KindInt, OpExact),
		one("book", "book_id", KindInt, OpExact),
		one("rating__exact", "rating", KindInt, OpExact),
		Bounds("rating", "rating", KindInt),
		Range("review_date", "review_date", KindDate),
	),
	Search: Search{Columns: []string{"comment"}},
	Ordering: []string{
		"review_id", "member_id", "book_id", "rating", "review_date",
	},
}
