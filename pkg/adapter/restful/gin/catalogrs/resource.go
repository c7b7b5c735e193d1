// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package catalogrs realizes the catalog resources, allowing the
// libraries, books, authors, categories, members, and reviews REST
// APIs to be accepted and delegated to the catalog use cases. One
// generic resource type serves all of them.
package catalogrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/clean-library/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/usecase/cataloguc"
)

type resource[M any, PM cataloguc.Entity[M]] struct {
	uc   *cataloguc.UseCase[M, PM]
	page filter.Page
}

// Register instantiates a resource adapting the uc catalog use case
// with the relevant REST APIs under the path prefix (e.g., books):
//  1. GET request to /api/v1/<path> in order to list the entities,
//     filtered, searched, ordered, and paginated by query parameters,
//  2. POST request to /api/v1/<path> in order to create an entity,
//  3. GET request to /api/v1/<path>/:id in order to fetch an entity,
//  4. PUT request to /api/v1/<path>/:id in order to replace an entity,
//  5. PATCH request to /api/v1/<path>/:id in order to update the
//     fields which are present in the request body,
//  6. DELETE request to /api/v1/<path>/:id in order to remove it.
func Register[M any, PM cataloguc.Entity[M]](
	r *gin.RouterGroup,
	path string,
	uc *cataloguc.UseCase[M, PM],
	page filter.Page,
) {
	rs := &resource[M, PM]{uc: uc, page: page}
	r.GET(path, rs.List)
	r.POST(path, rs.Create)
	r.GET(path+"/:id", rs.Get)
	r.PUT(path+"/:id", rs.Update)
	r.PATCH(path+"/:id", rs.Patch)
	r.DELETE(path+"/:id", rs.Delete)
}

func (rs *resource[M, PM]) List(c *gin.Context) {
	q := serdser.Query(c, rs.uc.Schema(), rs.page)
	if q == nil {
		return
	}
	ms, err := rs.uc.List(c, q)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	if ms == nil {
		ms = []M{}
	}
	c.JSON(http.StatusOK, ms)
}

func (rs *resource[M, PM]) Create(c *gin.Context) {
	req := new(M)
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	m, err := rs.uc.Create(c, req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (rs *resource[M, PM]) Get(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	m, err := rs.uc.Get(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (rs *resource[M, PM]) Update(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	req := new(M)
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	m, err := rs.uc.Update(c, id, req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (rs *resource[M, PM]) Patch(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	apply := serdser.Patch[M](c)
	if apply == nil {
		return
	}
	m, err := rs.uc.Patch(c, id, apply)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (rs *resource[M, PM]) Delete(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	if err := rs.uc.Delete(c, id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
