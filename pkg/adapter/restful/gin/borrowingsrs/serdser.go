// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package borrowingsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/clean-library/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/usecase/borrowinguc"
)

// IdempotencyKeyHeader may carry a UUID which identifies a borrow
// request, so it can be retried safely.
const IdempotencyKeyHeader = "Idempotency-Key"

type rawBorrowReq struct {
	BookID     model.ID    `json:"book_id" binding:"required,gt=0"`
	MemberID   model.ID    `json:"member_id" binding:"required,gt=0"`
	BorrowDate *model.Date `json:"borrow_date"`
	DueDate    *model.Date `json:"due_date"`
}

type rawReturnReq struct {
	BorrowingID model.ID `json:"borrowing_id" binding:"required,gt=0"`
}

// BorrowResp is the response of a successful borrow request.
type BorrowResp struct {
	Status    string           `json:"status"`
	Borrowing *model.Borrowing `json:"borrowing"`
}

// ReturnResp is the response of a successful return request.
type ReturnResp struct {
	Status    string           `json:"status"`
	LateFee   model.Amount     `json:"late_fee"`
	Borrowing *model.Borrowing `json:"borrowing"`
}

// OverdueResp reports whether a member has overdue books.
type OverdueResp struct {
	MemberID   model.ID `json:"member_id"`
	HasOverdue bool     `json:"has_overdue"`
}

func (rs *resource) DserBorrowReq(c *gin.Context) *borrowinguc.BorrowRequest {
	req := &rawBorrowReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	val := &borrowinguc.BorrowRequest{
		BookID:     req.BookID,
		MemberID:   req.MemberID,
		BorrowDate: req.BorrowDate,
		DueDate:    req.DueDate,
	}
	var errs map[string][]string
	if key := c.GetHeader(IdempotencyKeyHeader); key != "" {
		rid, err := uuid.Parse(key)
		if serdser.Assert(
			&errs, err == nil, IdempotencyKeyHeader,
			"The idempotency key must be a UUID.",
		) {
			val.RequestID = &rid
		}
	}
	if req.BorrowDate != nil && req.DueDate != nil {
		serdser.Assert(
			&errs, !req.DueDate.Before(*req.BorrowDate), "due_date",
			"The due_date must not be before the borrow_date.",
		)
	}
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return val
}

func (rs *resource) DserReturnReq(c *gin.Context) (model.ID, bool) {
	req := &rawReturnReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return 0, false
	}
	return req.BorrowingID, true
}
