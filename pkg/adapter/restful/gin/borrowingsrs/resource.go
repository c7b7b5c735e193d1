// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package borrowingsrs realizes the borrowings resource, allowing the
// borrow and return REST APIs and the borrowing queries to be accepted
// and delegated to the borrowing use case respectively.
package borrowingsrs

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/clean-library/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/usecase/borrowinguc"
)

type resource struct {
	borrowings *borrowinguc.UseCase
	page       filter.Page
}

// Register instantiates a resource adapting the borrowing use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/v1/books/borrow
//     in order to lend a copy of a book to a member,
//  2. POST request to /api/v1/books/return
//     in order to close a borrowing and compute its late fee,
//  3. GET request to /api/v1/books/:id/availability
//     in order to fetch the available and total copies of a book,
//  4. GET request to /api/v1/members/:id/active-borrowings,
//     /api/v1/members/:id/borrowing-history, and
//     /api/v1/members/:id/has-overdue in order to query the borrowings
//     of a member,
//  5. GET request to /api/v1/borrowings and /api/v1/borrowings/:id
//     in order to list or fetch the borrowings,
//  6. GET request to /api/v1/libraries/:id/books/:book_id/rating
//     in order to fetch the average rating of a book of a library.
func Register(
	r *gin.RouterGroup, borrowings *borrowinguc.UseCase, page filter.Page,
) {
	rs := &resource{borrowings: borrowings, page: page}
	r.POST("books/borrow", rs.Borrow)
	r.POST("books/return", rs.Return)
	r.GET("books/:id/availability", rs.Availability)
	r.GET("members/:id/active-borrowings", rs.ActiveBorrowings)
	r.GET("members/:id/borrowing-history", rs.History)
	r.GET("members/:id/has-overdue", rs.HasOverdue)
	r.GET("borrowings", rs.List)
	r.GET("borrowings/:id", rs.Get)
	r.GET("libraries/:id/books/:book_id/rating", rs.Rating)
}

func (rs *resource) Borrow(c *gin.Context) {
	req := rs.DserBorrowReq(c)
	if req == nil {
		return
	}
	b, err := rs.borrowings.Borrow(c, *req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, BorrowResp{Status: "borrowed", Borrowing: b})
}

func (rs *resource) Return(c *gin.Context) {
	id, ok := rs.DserReturnReq(c)
	if !ok {
		return
	}
	b, err := rs.borrowings.Return(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ReturnResp{
		Status:    "returned",
		LateFee:   b.LateFee,
		Borrowing: b,
	})
}

func (rs *resource) Availability(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	a, err := rs.borrowings.Availability(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (rs *resource) ActiveBorrowings(c *gin.Context) {
	rs.memberBorrowings(c, rs.borrowings.ActiveBorrowings)
}

func (rs *resource) History(c *gin.Context) {
	rs.memberBorrowings(c, rs.borrowings.History)
}

func (rs *resource) memberBorrowings(
	c *gin.Context,
	query func(context.Context, model.ID) ([]model.Borrowing, error),
) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	bs, err := query(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(bs))
}

func (rs *resource) HasOverdue(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	overdue, err := rs.borrowings.HasOverdueBooks(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, OverdueResp{MemberID: id, HasOverdue: overdue})
}

func (rs *resource) List(c *gin.Context) {
	q := serdser.Query(c, filter.Borrowings, rs.page)
	if q == nil {
		return
	}
	bs, err := rs.borrowings.List(c, q)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(bs))
}

func (rs *resource) Get(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	b, err := rs.borrowings.Get(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (rs *resource) Rating(c *gin.Context) {
	libID, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	bookID, ok := serdser.ID(c, "book_id")
	if !ok {
		return
	}
	r, err := rs.borrowings.Rating(c, libID, bookID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func nonNil(bs []model.Borrowing) []model.Borrowing {
	if bs == nil {
		return []model.Borrowing{}
	}
	return bs
}
