// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/momeni/clean-library/internal/test/dbcontainer"
	"github.com/momeni/clean-library/internal/test/schema"
	"github.com/momeni/clean-library/pkg/adapter/config"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres/migration/stlmig1"
	"github.com/momeni/clean-library/pkg/adapter/hash/scram"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
	"github.com/momeni/clean-library/pkg/core/usecase/migrationuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MigrationUseCasesTestSuite struct {
	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Port int

	dbDir  string
	hasher *scram.Mechanism
}

func TestSchemaName(t *testing.T) {
	assert.Equal(t, "libweb1", migrationuc.SchemaName(1))
	assert.Equal(t, "libweb12", migrationuc.SchemaName(12))
}

func TestMigrationUseCasesTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	u, err := url.Parse(pg.ConnectionString())
	if ok := assert.NoError(t, err, "parsing DB container URL"); !ok {
		return
	}
	p, err := strconv.Atoi(u.Port())
	if ok := assert.NoError(t, err, "parsing DB container port"); !ok {
		return
	}
	dbDir, err := os.MkdirTemp("", "miguc-db")
	if ok := assert.NoError(t, err, "creating temp db dir"); !ok {
		return
	}
	defer func() {
		err := os.RemoveAll(dbDir)
		assert.NoError(t, err, "removing temp db dir")
	}()
	migucts := &MigrationUseCasesTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
		Port: p,

		dbDir:  dbDir,
		hasher: scram.SHA256(),
	}
	t.Run("initialization", func(t *testing.T) {
		t.Run("init-dev", migucts.TestInitDev)
		t.Run("init-prod", migucts.TestInitProd)
		t.Run("repeated init", migucts.TestRepeatedInit)
	})
}

func (migucts *MigrationUseCasesTestSuite) TestInitDev(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	c := migucts.newConfig(t, "dev")
	err := migrationuc.NewInitDB(c).InitDev(migucts.Ctx)
	r.NoError(err, "initializing database with dev suitable data")
	migucts.verify(t, c, schema.Verifier.VerifyDevData)
}

func (migucts *MigrationUseCasesTestSuite) TestInitProd(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	c := migucts.newConfig(t, "prod")
	err := migrationuc.NewInitDB(c).InitProd(migucts.Ctx)
	r.NoError(err, "initializing database with prod suitable data")
	migucts.verify(t, c, schema.Verifier.VerifyProdData)
}

// TestRepeatedInit initializes the same database twice. The second run
// must connect with the renewed passwords and drop the sample data.
func (migucts *MigrationUseCasesTestSuite) TestRepeatedInit(
	t *testing.T,
) {
	t.Parallel()
	r := require.New(t)
	c := migucts.newConfig(t, "again")
	pgpass := filepath.Join(c.Database.PassDir, ".pgpass")
	before, err := os.ReadFile(pgpass)
	r.NoError(err)

	iduc := migrationuc.NewInitDB(c)
	r.NoError(iduc.InitDev(migucts.Ctx), "first InitDev")
	after, err := os.ReadFile(pgpass)
	r.NoError(err)
	r.NotEqual(string(before), string(after), "passwords are not renewed")
	_, err = os.Stat(filepath.Join(c.Database.PassDir, ".pgpass.new"))
	r.True(os.IsNotExist(err), ".pgpass.new is not finalized")

	r.NoError(iduc.InitProd(migucts.Ctx), "second InitProd")
	migucts.verify(t, c, schema.Verifier.VerifyProdData)
}

func (migucts *MigrationUseCasesTestSuite) verify(
	t *testing.T,
	c *config.Config,
	check func(v schema.Verifier, ctx context.Context, t *testing.T),
) {
	r := require.New(t)
	p, err := c.ConnectionPool(migucts.Ctx, repo.NormalRole)
	r.NoError(err, "creating connection pool for normal role")
	defer p.Close()
	err = p.Conn(migucts.Ctx, func(ctx context.Context, cn repo.Conn) error {
		v, err := schema.NewVerifier(cn, c.SchemaVersion())
		if err != nil {
			return fmt.Errorf("NewVerifier(%v): %w", c.SchemaVersion(), err)
		}
		v.VerifySchema(ctx, t)
		check(v, ctx, t)
		return nil
	})
	r.NoError(err, "verifying database schema")
}

// newConfig creates an empty database and an admin role which are
// specific to the name test case and returns the configuration
// settings which point to them.
func (migucts *MigrationUseCasesTestSuite) newConfig(
	t *testing.T, name string,
) *config.Config {
	a := assert.New(t)
	d, dbName, rs := migucts.createEmptyDB(a, name)
	c := &config.Config{
		Database: config.Database{
			Host:       "127.0.0.1",
			Port:       migucts.Port,
			Name:       dbName,
			PassDir:    d,
			RoleSuffix: rs,
		},
		Versions: config.Versions{
			Database: model.SemVer{
				stlmig1.Major, stlmig1.Minor, stlmig1.Patch,
			},
			Config: config.Version,
		},
	}
	require.NoError(t, c.ValidateAndNormalize(), "validating config")
	return c
}

func (migucts *MigrationUseCasesTestSuite) createEmptyDB(
	a *assert.Assertions, suffix string,
) (dbDir, dbName string, roleSuffix repo.Role) {
	name := "libweb_" + suffix
	roleSuffix = repo.Role("_" + name)
	u := repo.AdminRole + roleSuffix
	p := migucts.randPass(a)
	err := migucts.Pool.Conn(
		migucts.Ctx, func(ctx context.Context, c repo.Conn) error {
			// The database and role creation DDL statements do not
			// support parameterized queries, nevertheless, the `name`
			// and `u` variables are trusted.
			if _, err := c.Exec(
				ctx, "CREATE DATABASE "+name,
			); err != nil {
				return fmt.Errorf("creating %q database: %w", name, err)
			}
			// The `p` password is hashed before being sent to DBMS, so
			// it may not leak even if it is recorded in some log file.
			hp, err := migucts.hasher.Hash(p, "", 15000)
			if err != nil {
				return fmt.Errorf(
					"computing scram hash of password: %w", err,
				)
			}
			if _, err := c.Exec(
				ctx,
				fmt.Sprintf(
					`CREATE ROLE %s
WITH SUPERUSER LOGIN PASSWORD '%s';
GRANT ALL PRIVILEGES ON DATABASE %s TO %[1]s`,
					u, hp, name,
				),
			); err != nil {
				return fmt.Errorf("creating %q role: %w", u, err)
			}
			return nil
		},
	)
	if !a.NoError(err, "main connection error") {
		a.FailNow("failed to get a connection with superuser role")
	}
	d := filepath.Join(migucts.dbDir, name)
	err = os.Mkdir(d, 0o700)
	if !a.NoError(err, "creating %q dir", d) {
		a.FailNow("cannot create top database dir")
	}
	line := fmt.Sprintf(
		"127.0.0.1:%d:%s:%s:%s\n", migucts.Port, name, u, p,
	)
	pgpass := filepath.Join(d, ".pgpass")
	err = os.WriteFile(pgpass, []byte(line), 0o600)
	if !a.NoError(err, "writing %q file", pgpass) {
		a.FailNow("cannot write .pgpass file")
	}
	return d, name, roleSuffix
}

func (migucts *MigrationUseCasesTestSuite) randPass(
	a *assert.Assertions,
) string {
	b := make([]byte, 8)
	_, err := rand.Read(b)
	if !a.NoError(err, "generating a random password") {
		a.FailNow("cannot read random bytes")
	}
	return fmt.Sprintf("%x", b)
}
