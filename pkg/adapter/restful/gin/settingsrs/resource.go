// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settingsrs realizes the settings resource, allowing the web
// clients to fetch the lending policy and the catalog listing limits,
// so they may present them to the users.
package settingsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/clean-library/pkg/core/model"
)

type resource struct {
	settings SettingsResp
}

// Register instantiates a resource which reports the s settings by
// the GET request to /api/v1/settings.
func Register(r *gin.RouterGroup, s model.Settings) {
	rs := &resource{settings: SerSettings(s)}
	r.GET("settings", rs.FetchSettings)
}

func (rs *resource) FetchSettings(c *gin.Context) {
	c.JSON(http.StatusOK, rs.settings)
}
