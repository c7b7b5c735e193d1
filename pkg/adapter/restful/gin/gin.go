// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin is an adapter for the gin-gonic web framework. It wraps
// the engine instantiation and provides the request logging middleware
// which tags requests for the structured logger of the core/log package.
// Resource packages, which are named like borrowingsrs, adapt the use
// cases to REST APIs and are registered by the routes package.
package gin

import (
	"log/slog"

	ginslog "github.com/FabienMht/ginslog/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/clean-library/pkg/core/log"
)

// RequestIDHeader is echoed back to clients and attached to all logs
// of a request. Clients may provide it, otherwise it is generated.
const RequestIDHeader = "X-Request-ID"

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// New instantiates a gin engine and registers the given middlewares.
// The request context is consulted by the gin.Context when it is used
// as a context.Context, so attributes which are attached by Logger are
// visible to the use cases.
func New(middlewares ...HandlerFunc) *Engine {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.ContextWithFallback = true
	e.Use(middlewares...)
	return e
}

// Logger returns a middleware which tags each request with an id (see
// RequestIDHeader) and writes its access log by ginslog. The id is
// attached to the request context, so the use case logs carry it, and
// so does the access log whenever ginslog logs with that context.
func Logger() HandlerFunc {
	access := ginslog.New(slog.New(
		log.ContextHandler{Handler: slog.Default().Handler()},
	))
	return func(c *gin.Context) {
		tagRequest(c)
		access(c)
	}
}

func tagRequest(c *gin.Context) {
	rid := c.GetHeader(RequestIDHeader)
	if _, err := uuid.Parse(rid); err != nil {
		rid = uuid.NewString()
	}
	c.Header(RequestIDHeader, rid)
	ctx := log.WithAttrs(c.Request.Context(), slog.String("request_id", rid))
	c.Request = c.Request.WithContext(ctx)
}

// Recovery returns a middleware which recovers from panics and
// responds with the 500 status code.
func Recovery() HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Error(
			c, "panic while serving request",
			slog.Any("panic", err),
			slog.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(500, gin.H{"detail": "internal error"})
	})
}
