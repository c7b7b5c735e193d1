// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/clean-library/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool represents a database connection pool.
// It may be used concurrently from different goroutines.
type Pool struct {
	*gorm.DB
}

// PoolOption is a functional option for the NewPool function.
type PoolOption func(gdb *gorm.DB) error

// WithMaxConns limits the number of open connections of a Pool.
// Concurrent callers of the Pool.Conn method beyond this limit will
// block until a connection is released.
func WithMaxConns(n int) PoolOption {
	return func(gdb *gorm.DB) error {
		db, err := gdb.DB()
		if err != nil {
			return err
		}
		db.SetMaxOpenConns(n)
		db.SetMaxIdleConns(n)
		return nil
	}
}

// WithConnMaxLifetime closes the pooled connections after d.
func WithConnMaxLifetime(d time.Duration) PoolOption {
	return func(gdb *gorm.DB) error {
		db, err := gdb.DB()
		if err != nil {
			return err
		}
		db.SetConnMaxLifetime(d)
		return nil
	}
}

// NewPool instantiates a new database connection pool for the url
// connection string. The GORM logs, including the slow queries, are
// forwarded to the default slog logger. A connection is acquired and
// released once in order to ensure that the database is reachable.
func NewPool(ctx context.Context, url string, opts ...PoolOption) (*Pool, error) {
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				// Set to false in order to log with replaced vars
				ParameterizedQueries: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	pool := &Pool{DB: gdb}
	for _, opt := range opts {
		if err = opt(gdb); err != nil {
			pool.Close()
			return nil, fmt.Errorf("pool option: %w", err)
		}
	}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

// ConnHandler is a handler function which takes a context and a
// database connection which should be used solely from the current
// goroutine (or by proper synchronization).
type ConnHandler = repo.ConnHandler

// NoOpConnHandler is a connection handler which does nothing.
// It may be passed to Pool.Conn in order to check the connectivity.
func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

// Conn acquires a database connection, passes it into the f handler
// function, and finally releases it. Returned error from f is
// returned as is.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		return f(ctx, &Conn{session{c}})
	})
}

// Close closes the underlying connections of the pool.
func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
