// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package catalogrp

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/momeni/clean-library/pkg/adapter/db/postgres"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
	"gorm.io/gorm"
)

type gBook struct {
	BookID          model.ID   `gorm:"primaryKey;column:book_id"`
	Title           string     `gorm:"column:title"`
	ISBN            string     `gorm:"column:isbn"`
	PublicationDate *time.Time `gorm:"column:publication_date;type:date"`
	TotalCopies     int        `gorm:"column:total_copies"`
	AvailableCopies int        `gorm:"column:available_copies"`
	LibraryID       model.ID   `gorm:"column:library_id"`
}

func (gb *gBook) TableName() string {
	return "books"
}

func (gb *gBook) Key() model.ID {
	return gb.BookID
}

func (gb *gBook) Model() *model.Book {
	return &model.Book{
		ID:              gb.BookID,
		Title:           gb.Title,
		ISBN:            gb.ISBN,
		PublicationDate: modelDate(gb.PublicationDate),
		TotalCopies:     gb.TotalCopies,
		AvailableCopies: gb.AvailableCopies,
		LibraryID:       gb.LibraryID,
		AuthorIDs:       []model.ID{},
		CategoryIDs:     []model.ID{},
		Authors:         []model.Author{},
		Categories:      []model.Category{},
	}
}

func (gb *gBook) Fill(b *model.Book) {
	gb.Title = b.Title
	gb.ISBN = b.ISBN
	gb.PublicationDate = date(b.PublicationDate)
	gb.TotalCopies = b.TotalCopies
	gb.AvailableCopies = b.AvailableCopies
	gb.LibraryID = b.LibraryID
}

type gBookAuthor struct {
	BookID   model.ID `gorm:"primaryKey;column:book_id"`
	AuthorID model.ID `gorm:"primaryKey;column:author_id"`
}

func (gba *gBookAuthor) TableName() string {
	return filter.BookAuthors.Table
}

type gBookCategory struct {
	BookID     model.ID `gorm:"primaryKey;column:book_id"`
	CategoryID model.ID `gorm:"primaryKey;column:category_id"`
}

func (gbc *gBookCategory) TableName() string {
	return filter.BookCategories.Table
}

// NewBooks instantiates the books repository. The authors and
// categories of a book are replaced whenever it is created or updated
// and are loaded (with their details) whenever it is read. The book
// average rating is computed from its reviews while reading it.
func NewBooks() repo.Books {
	return &Repo[model.Book, gBook, *gBook]{
		schema: filter.Books,
		load:   loadBooks,
		save:   saveBookLinks,
	}
}

func loadBooks(_ context.Context, gdb *gorm.DB, bs []model.Book) error {
	ids := make([]model.ID, len(bs))
	idx := make(map[model.ID]int, len(bs))
	for i, b := range bs {
		ids[i] = b.ID
		idx[b.ID] = i
	}
	var authors []struct {
		BookID  model.ID `gorm:"column:book_id"`
		gAuthor `gorm:"embedded"`
	}
	err := gdb.Table("book_authors").
		Select("book_authors.book_id, authors.*").
		Joins("JOIN authors ON authors.author_id = book_authors.author_id").
		Where("book_authors.book_id IN ?", ids).
		Order("authors.author_id").
		Scan(&authors).Error
	if err != nil {
		return fmt.Errorf("loading authors of books: %w", err)
	}
	for _, a := range authors {
		b := &bs[idx[a.BookID]]
		b.AuthorIDs = append(b.AuthorIDs, a.AuthorID)
		b.Authors = append(b.Authors, *a.gAuthor.Model())
	}
	var categories []struct {
		BookID    model.ID `gorm:"column:book_id"`
		gCategory `gorm:"embedded"`
	}
	err = gdb.Table("book_categories").
		Select("book_categories.book_id, categories.*").
		Joins("JOIN categories ON categories.category_id = book_categories.category_id").
		Where("book_categories.book_id IN ?", ids).
		Order("categories.category_id").
		Scan(&categories).Error
	if err != nil {
		return fmt.Errorf("loading categories of books: %w", err)
	}
	for _, c := range categories {
		b := &bs[idx[c.BookID]]
		b.CategoryIDs = append(b.CategoryIDs, c.CategoryID)
		b.Categories = append(b.Categories, *c.gCategory.Model())
	}
	var ratings []struct {
		BookID        model.ID `gorm:"column:book_id"`
		AverageRating float64  `gorm:"column:average_rating"`
	}
	err = gdb.Table("reviews").
		Select("book_id, CAST(ROUND(AVG(rating), 2) AS double precision) AS average_rating").
		Where("book_id IN ?", ids).
		Group("book_id").
		Scan(&ratings).Error
	if err != nil {
		return fmt.Errorf("loading ratings of books: %w", err)
	}
	for _, r := range ratings {
		avg := r.AverageRating
		bs[idx[r.BookID]].AverageRating = &avg
	}
	return nil
}

func saveBookLinks(
	_ context.Context, gdb *gorm.DB, id model.ID, b *model.Book,
) error {
	err := gdb.Where("book_id = ?", id).Delete(&gBookAuthor{}).Error
	if err != nil {
		return fmt.Errorf("unlinking authors of book %d: %w", id, err)
	}
	if ids := unique(b.AuthorIDs); len(ids) > 0 {
		links := make([]gBookAuthor, len(ids))
		for i, aid := range ids {
			links[i] = gBookAuthor{BookID: id, AuthorID: aid}
		}
		if err := gdb.Create(&links).Error; err != nil {
			return postgres.TranslateError(err, "linking authors")
		}
	}
	err = gdb.Where("book_id = ?", id).Delete(&gBookCategory{}).Error
	if err != nil {
		return fmt.Errorf("unlinking categories of book %d: %w", id, err)
	}
	if ids := unique(b.CategoryIDs); len(ids) > 0 {
		links := make([]gBookCategory, len(ids))
		for i, cid := range ids {
			links[i] = gBookCategory{BookID: id, CategoryID: cid}
		}
		if err := gdb.Create(&links).Error; err != nil {
			return postgres.TranslateError(err, "linking categories")
		}
	}
	return nil
}

func unique(ids []model.ID) []model.ID {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	return slices.Compact(ids)
}
