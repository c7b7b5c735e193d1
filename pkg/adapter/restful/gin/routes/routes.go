// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/juju/clock"
	"github.com/momeni/clean-library/pkg/adapter/config"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres/borrowingsrp"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres/catalogrp"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres/inventoryrp"
	"github.com/momeni/clean-library/pkg/adapter/metrics"
	"github.com/momeni/clean-library/pkg/adapter/restful/gin/borrowingsrs"
	"github.com/momeni/clean-library/pkg/adapter/restful/gin/catalogrs"
	"github.com/momeni/clean-library/pkg/adapter/restful/gin/settingsrs"
	"github.com/momeni/clean-library/pkg/adapter/restful/gin/statsrs"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
	"github.com/momeni/clean-library/pkg/core/usecase/borrowinguc"
	"github.com/momeni/clean-library/pkg/core/usecase/cataloguc"
	"github.com/momeni/clean-library/pkg/core/usecase/statsuc"
)

// Prefix is the path prefix of all REST APIs.
const Prefix = "/api/v1"

// Deps contains the connection pool and the repositories which are
// passed to the use cases. Clock may be nil in order to use the wall
// clock.
type Deps struct {
	Pool       repo.Pool
	Libraries  repo.Libraries
	Books      repo.Books
	Authors    repo.Authors
	Categories repo.Categories
	Members    repo.Members
	Reviews    repo.Reviews
	Borrowings repo.Borrowings
	Inventory  repo.Inventory
	Clock      clock.Clock
}

// PostgresDeps returns the repositories of the postgres adapter which
// share the p connections pool.
func PostgresDeps(p repo.Pool) Deps {
	return Deps{
		Pool:       p,
		Libraries:  catalogrp.NewLibraries(),
		Books:      catalogrp.NewBooks(),
		Authors:    catalogrp.NewAuthors(),
		Categories: catalogrp.NewCategories(),
		Members:    catalogrp.NewMembers(),
		Reviews:    catalogrp.NewReviews(),
		Borrowings: borrowingsrp.New(),
		Inventory:  inventoryrp.New(),
	}
}

// Register instantiates the use cases based on the c configuration
// settings and the d dependencies. The d.Pool connections pool is
// passed to the use case instances, so they may acquire/release
// connections and transactions on demand. These connections and
// transactions will be passed to the repositories later in order to
// run relevant queries on them and accomplish those use cases.
// Register instantiates a series of "resource" structs, from packages
// which are named like borrowingsrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance, under the
// Prefix path. The lifecycle metrics are served at /metrics.
// Possible errors will be returned after possible wrapping.
func Register(e *gin.Engine, c *config.Config, d Deps) error {
	collector := metrics.NewCollector()
	reg, err := metrics.NewRegistry(collector)
	if err != nil {
		return fmt.Errorf("creating metrics registry: %w", err)
	}
	bopts := []borrowinguc.Option{borrowinguc.WithObserver(collector)}
	var sopts []statsuc.Option
	if d.Clock != nil {
		bopts = append(bopts, borrowinguc.WithClock(d.Clock))
		sopts = append(sopts, statsuc.WithClock(
			d.Clock, c.Usecases.Borrowings.Location(),
		))
	}
	borrowings, err := c.NewBorrowingUseCase(
		d.Pool, d.Borrowings, d.Inventory, d.Members, bopts...,
	)
	if err != nil {
		return fmt.Errorf("creating borrowing use case: %w", err)
	}
	stats, err := c.NewStatsUseCase(
		d.Pool, d.Books, d.Members, d.Borrowings, sopts...,
	)
	if err != nil {
		return fmt.Errorf("creating statistics use case: %w", err)
	}
	phones, err := c.Usecases.Catalog.PhoneNormalizer()
	if err != nil {
		return fmt.Errorf("creating phone normalizer: %w", err)
	}
	page := c.Usecases.Catalog.Page()

	r := e.Group(Prefix)
	err = registerCatalog(r, "libraries", d.Pool, d.Libraries,
		filter.Libraries, page,
		cataloguc.WithPhoneNormalizer[model.Library, *model.Library](phones),
	)
	if err != nil {
		return err
	}
	err = registerCatalog(r, "books", d.Pool, d.Books, filter.Books, page)
	if err != nil {
		return err
	}
	err = registerCatalog(r, "authors", d.Pool, d.Authors,
		filter.Authors, page,
	)
	if err != nil {
		return err
	}
	err = registerCatalog(r, "categories", d.Pool, d.Categories,
		filter.Categories, page,
	)
	if err != nil {
		return err
	}
	err = registerCatalog(r, "members", d.Pool, d.Members,
		filter.Members, page,
		cataloguc.WithPhoneNormalizer[model.Member, *model.Member](phones),
		cataloguc.WithDecorator[model.Member, *model.Member](
			borrowings.MarkOverdue,
		),
	)
	if err != nil {
		return err
	}
	err = registerCatalog(r, "reviews", d.Pool, d.Reviews,
		filter.Reviews, page,
		cataloguc.WithStamper[model.Review, *model.Review](
			func(rv *model.Review) {
				rv.Stamp(borrowings.Today())
			},
		),
	)
	if err != nil {
		return err
	}
	borrowingsrs.Register(r, borrowings, page)
	statsrs.Register(r, stats)
	settingsrs.Register(r, c.Settings())
	e.GET("/metrics", gin.WrapH(metrics.Handler(reg)))
	return nil
}

// registerCatalog instantiates a catalog use case for the M entities
// and registers its resource under the path prefix. The path is used
// as the entity name in the logs and errors too.
func registerCatalog[M any, PM cataloguc.Entity[M]](
	r *gin.RouterGroup,
	path string,
	p repo.Pool,
	rp repo.Entities[M],
	schema *filter.Schema,
	page filter.Page,
	opts ...cataloguc.Option[M, PM],
) error {
	uc, err := cataloguc.New(path, p, rp, schema, opts...)
	if err != nil {
		return fmt.Errorf("creating %s use case: %w", path, err)
	}
	catalogrs.Register(r, path, uc, page)
	return nil
}
