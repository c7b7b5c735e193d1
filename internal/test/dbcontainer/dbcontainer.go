// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer starts a disposable postgres:16 container for
// the integration tests and connects to it. Tests which need a real
// DBMS, such as the concurrent borrowing tests, use it. It is skipped
// in the -short mode.
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres/migration/stlmig1"
	"github.com/momeni/clean-library/pkg/core/repo"
	"github.com/stretchr/testify/assert"
)

// dbmsVersion is the postgres image tag which is tested against.
const dbmsVersion = "16"

// New starts a container through the docker API (podman users should
// point DOCKER_HOST to the podman socket) and opens a pool to it.
// The timeout bounds the start up while ctx is used for the shutdown
// too. The dfrs functions close the pool and stop the container and
// must be called in the reverse order, even if ok is false.
func New(ctx context.Context, timeout time.Duration, t *testing.T) (
	pg *sqltestutil.PostgresContainer,
	pool *postgres.Pool,
	dfrs []func(),
	ok bool,
) {
	if testing.Short() {
		t.Skip("skipping the postgres container in the short mode")
	}
	startCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg, err := sqltestutil.StartPostgresContainer(startCtx, dbmsVersion)
	if !assert.NoError(t, err, "starting postgres container") {
		return nil, nil, nil, false
	}
	dfrs = append(dfrs, func() {
		assert.NoError(t, pg.Shutdown(ctx), "stopping postgres container")
	})
	pool, err = connect(startCtx, pg.ConnectionString())
	if !assert.NoError(t, err, "connecting to postgres container") {
		return pg, nil, dfrs, false
	}
	dfrs = append(dfrs, func() {
		assert.NoError(t, pool.Close(), "closing connections pool")
	})
	return pg, pool, dfrs, true
}

// connect retries while the server is starting up or refuses the
// connections, until ctx expires.
func connect(ctx context.Context, url string) (*postgres.Pool, error) {
	for {
		pool, err := postgres.NewPool(ctx, url)
		if err == nil {
			return pool, nil
		}
		var pgErr *pgconn.PgError
		var netErr net.Error
		starting := errors.As(err, &pgErr) && pgErr.SQLState() == "57P03"
		if ctx.Err() != nil || !starting && !errors.As(err, &netErr) {
			return nil, err
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// InitDevSchema recreates the public schema of the pool database with
// the latest schema tables and fills them with the development data, so
// repositories may be tested against the sample records. It may be
// called before each test case in order to discard the previous changes.
func InitDevSchema(
	ctx context.Context, pool *postgres.Pool, t *testing.T,
) bool {
	err := pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			if _, err := tx.Exec(ctx, `DROP SCHEMA IF EXISTS public CASCADE;
CREATE SCHEMA public`); err != nil {
				return err
			}
			return stlmig1.New(tx).InitDevSchema(ctx)
		})
	})
	return assert.NoError(t, err, "failed to initialize the dev schema")
}
