// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package statsrs realizes the statistics resource.
package statsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/clean-library/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/clean-library/pkg/core/usecase/statsuc"
)

type resource struct {
	stats *statsuc.UseCase
}

// Register instantiates a resource adapting the statistics use case
// with the GET request to /api/v1/statistics.
func Register(r *gin.RouterGroup, stats *statsuc.UseCase) {
	rs := &resource{stats: stats}
	r.GET("statistics", rs.Statistics)
}

func (rs *resource) Statistics(c *gin.Context) {
	st, err := rs.stats.Statistics(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
