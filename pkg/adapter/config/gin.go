// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"github.com/momeni/clean-library/pkg/adapter/config/settings"
	"github.com/momeni/clean-library/pkg/adapter/restful/gin"
)

// DefaultAddress is the listening address of the web server when the
// gin.address setting is missing.
const DefaultAddress = ":8080"

// Gin contains the gin-gonic related configuration settings.
// Boolean fields are defined as pointers, so it is possible to detect
// if they are or are not initialized.
type Gin struct {
	Logger   *bool  // Whether to register the request logger middleware
	Recovery *bool  // Whether to register the panic recovery middleware
	Address  string `yaml:"address,omitempty"` // host:port to listen on
}

// Normalize replaces the missing settings by their defaults.
func (g *Gin) Normalize() {
	settings.Nil2Zero(&g.Logger)
	settings.Nil2Zero(&g.Recovery)
	if g.Address == "" {
		g.Address = DefaultAddress
	}
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if g.Logger != nil && *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if g.Recovery != nil && *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}
