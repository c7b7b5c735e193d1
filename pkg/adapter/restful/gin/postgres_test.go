// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/juju/clock/testclock"
	"github.com/momeni/clean-library/internal/test/dbcontainer"
	"github.com/momeni/clean-library/pkg/adapter/config"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres"
	"github.com/momeni/clean-library/pkg/adapter/restful/gin"
	"github.com/momeni/clean-library/pkg/adapter/restful/gin/borrowingsrs"
	"github.com/momeni/clean-library/pkg/adapter/restful/gin/routes"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

// PostgresGinTestSuite runs the REST APIs against the postgres
// repositories and the development data of a disposable database.
type PostgresGinTestSuite struct {
	client

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
}

func TestPostgresGinTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &PostgresGinTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (pgts *PostgresGinTestSuite) SetupTest() {
	pgts.Require().True(dbcontainer.InitDevSchema(pgts.Ctx, pgts.Pool, pgts.T()))
	c, err := config.Parse([]byte(testConfig))
	pgts.Require().NoError(err, "cannot parse test config")
	pgts.Gin = gin.New(gin.Recovery())
	deps := routes.PostgresDeps(pgts.Pool)
	deps.Clock = testclock.NewClock(
		time.Date(2025, 8, 29, 10, 0, 0, 0, time.UTC),
	)
	err = routes.Register(pgts.Gin, c, deps)
	pgts.Require().NoError(err, "failed to register Gin routes")
}

func (pgts *PostgresGinTestSuite) TestPostgresReturnLateBorrowing() {
	pgts.Equal(4, pgts.available("1"))
	ret := &borrowingsrs.ReturnResp{}
	w := pgts.send(http.MethodPost, "/api/v1/books/return",
		`{"borrowing_id": 1}`, ret,
	)
	pgts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	pgts.Equal(model.Units(25), ret.LateFee)
	pgts.Equal("2025-08-29", ret.Borrowing.ReturnDate.String())
	pgts.Equal(5, pgts.available("1"))

	d := &detail{}
	w = pgts.send(http.MethodPost, "/api/v1/books/return",
		`{"borrowing_id": 1}`, d,
	)
	pgts.Equal(http.StatusConflict, w.Code)
	pgts.Equal("already returned", d.Detail)
	pgts.Equal(5, pgts.available("1"))
}

func (pgts *PostgresGinTestSuite) TestPostgresLastCopy() {
	res := &borrowingsrs.BorrowResp{}
	w := pgts.send(http.MethodPost, "/api/v1/books/borrow",
		`{"book_id": 4, "member_id": 3}`, res,
	)
	pgts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	pgts.Equal("2025-09-12", res.Borrowing.DueDate.String())
	pgts.Equal(0, pgts.available("4"))

	d := &detail{}
	w = pgts.send(http.MethodPost, "/api/v1/books/borrow",
		`{"book_id": 4, "member_id": 2}`, d,
	)
	pgts.Equal(http.StatusConflict, w.Code)
	pgts.Equal("no copies available", d.Detail)

	w = pgts.send(http.MethodPost, "/api/v1/books/borrow",
		`{"book_id": 4, "member_id": 42}`, d,
	)
	pgts.Equal(http.StatusNotFound, w.Code)
}

// TestPostgresConcurrentBorrows borrows the two copies of a book from
// many goroutines, so the conditional decrement must refuse the extra
// requests without a negative availability.
func (pgts *PostgresGinTestSuite) TestPostgresConcurrentBorrows() {
	var ok, refused atomic.Int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			req := httptest.NewRequest(http.MethodPost,
				"/api/v1/books/borrow",
				strings.NewReader(`{"book_id": 3, "member_id": 2}`),
			)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			pgts.Gin.ServeHTTP(w, req)
			switch w.Code {
			case http.StatusOK:
				ok.Add(1)
			case http.StatusConflict:
				refused.Add(1)
			}
			return nil
		})
	}
	pgts.Require().NoError(g.Wait())
	pgts.EqualValues(2, ok.Load())
	pgts.EqualValues(6, refused.Load())
	pgts.Equal(0, pgts.available("3"))
}

func (pgts *PostgresGinTestSuite) TestPostgresBookEditsKeepLentCopies() {
	b := &model.Book{}
	w := pgts.send(http.MethodPatch, "/api/v1/books/1",
		`{"title": "Dune (1965)", "available_copies": 5}`, b,
	)
	pgts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	pgts.Equal(4, b.AvailableCopies)

	d := &detail{}
	w = pgts.send(http.MethodPatch, "/api/v1/books/1", `{"total_copies": 0}`, d)
	pgts.Equal(http.StatusConflict, w.Code)
	pgts.Contains(d.Detail, model.ErrTotalBelowLent.Error())

	w = pgts.send(http.MethodPost, "/api/v1/books/return",
		`{"borrowing_id": 1}`, nil,
	)
	pgts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	pgts.Equal(5, pgts.available("1"))
}

// TestPostgresBookEditsDuringBorrows edits a book while it is being
// borrowed, so each decrement must survive the catalog updates.
func (pgts *PostgresGinTestSuite) TestPostgresBookEditsDuringBorrows() {
	var borrowed atomic.Int32
	var g errgroup.Group
	for i := 0; i < 6; i++ {
		method, path, body := http.MethodPost, "/api/v1/books/borrow",
			`{"book_id": 1, "member_id": 3}`
		if i%2 == 1 {
			method, path, body = http.MethodPatch, "/api/v1/books/1",
				`{"title": "Dune"}`
		}
		g.Go(func() error {
			req := httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			pgts.Gin.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				return fmt.Errorf("%s %s: %d %s", method, path, w.Code, w.Body)
			}
			if method == http.MethodPost {
				borrowed.Add(1)
			}
			return nil
		})
	}
	pgts.Require().NoError(g.Wait())
	pgts.EqualValues(3, borrowed.Load())
	pgts.Equal(1, pgts.available("1"))
}

func (pgts *PostgresGinTestSuite) TestPostgresMembers() {
	for id, overdue := range map[string]bool{"1": true, "2": true, "3": false} {
		var res borrowingsrs.OverdueResp
		w := pgts.send(http.MethodGet,
			"/api/v1/members/"+id+"/has-overdue", "", &res,
		)
		pgts.Require().Equal(http.StatusOK, w.Code)
		pgts.Equal(overdue, res.HasOverdue, "member %s", id)
	}
	var active, history []model.Borrowing
	w := pgts.send(http.MethodGet, "/api/v1/members/1/active-borrowings", "", &active)
	pgts.Require().Equal(http.StatusOK, w.Code)
	pgts.Len(active, 1)
	w = pgts.send(http.MethodGet, "/api/v1/members/1/borrowing-history", "", &history)
	pgts.Require().Equal(http.StatusOK, w.Code)
	pgts.Len(history, 2)

	var ms []model.Member
	w = pgts.send(http.MethodGet, "/api/v1/members?member_type=faculty", "", &ms)
	pgts.Require().Equal(http.StatusOK, w.Code)
	pgts.Require().Len(ms, 1)
	pgts.Equal("Iyer", ms[0].LastName)
	pgts.True(ms[0].HasOverdue)
}

func (pgts *PostgresGinTestSuite) TestPostgresBookFilters() {
	titles := func(query string) []string {
		var bs []model.Book
		w := pgts.send(http.MethodGet, "/api/v1/books?"+query, "", &bs)
		pgts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		ts := make([]string, 0, len(bs))
		for _, b := range bs {
			ts = append(ts, b.Title)
		}
		return ts
	}
	pgts.Equal([]string{"A Wizard of Earthsea"}, titles("search=earthsea"))
	pgts.Equal(
		[]string{"A Wizard of Earthsea", "The Left Hand of Darkness"},
		titles("search=le+guin&ordering=title"),
	)
	pgts.Equal(
		[]string{"The Left Hand of Darkness", "Dune"},
		titles("categories=1&ordering=-title"),
	)
	pgts.Equal([]string{"Dune"}, titles("available_copies__lte=4&total_copies__gte=5"))
	pgts.Len(titles("limit=2&offset=3"), 1)

	b := &model.Book{}
	w := pgts.send(http.MethodGet, "/api/v1/books/1", "", b)
	pgts.Require().Equal(http.StatusOK, w.Code)
	pgts.Require().NotNil(b.AverageRating)
	pgts.InDelta(4.5, *b.AverageRating, 0.001)

	errs := map[string][]string{}
	w = pgts.send(http.MethodGet, "/api/v1/books?ordering=colour", "", &errs)
	pgts.Equal(http.StatusBadRequest, w.Code)
	pgts.Contains(errs, "ordering")
}

func (pgts *PostgresGinTestSuite) TestPostgresCatalogWrites() {
	b := &model.Book{}
	w := pgts.send(http.MethodPost, "/api/v1/books", `{
		"title": "Dune", "isbn": "9780441172719",
		"total_copies": 1, "available_copies": 1, "library_id": 1
	}`, nil)
	pgts.Equal(http.StatusConflict, w.Code, "duplicate isbn")

	w = pgts.send(http.MethodPost, "/api/v1/books", `{
		"title": "Dune Messiah", "isbn": "9780593098233",
		"total_copies": 2, "available_copies": 2, "library_id": 1,
		"authors": [1], "categories": [1]
	}`, b)
	pgts.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	pgts.EqualValues(5, b.ID)

	w = pgts.send(http.MethodPatch, "/api/v1/books/5",
		`{"available_copies": 3}`, nil,
	)
	pgts.Equal(http.StatusBadRequest, w.Code, "available beyond total")

	st := &model.Statistics{}
	w = pgts.send(http.MethodGet, "/api/v1/statistics", "", st)
	pgts.Require().Equal(http.StatusOK, w.Code)
	pgts.Equal(model.Statistics{
		TotalBooks:        5,
		TotalMembers:      3,
		TotalBorrowings:   3,
		ActiveBorrowings:  2,
		OverdueBorrowings: 2,
	}, *st)

	w = pgts.send(http.MethodDelete, "/api/v1/books/5", "", nil)
	pgts.Equal(http.StatusNoContent, w.Code)
	w = pgts.send(http.MethodDelete, "/api/v1/books/5", "", nil)
	pgts.Equal(http.StatusNotFound, w.Code)
}
