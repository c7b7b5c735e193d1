// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/clean-library/pkg/core/log"
	"github.com/momeni/clean-library/pkg/core/repo"
)

// InitDBUseCase recreates the libwebN schema of the configured
// database and fills it with the development or production suitable
// data, as asked by the InitDev and InitProd methods.
type InitDBUseCase struct {
	settings   Settings
	schemaRepo repo.Schema
}

// NewInitDB creates an InitDBUseCase for the database which is
// described by the ss settings.
func NewInitDB(ss Settings) *InitDBUseCase {
	return &InitDBUseCase{
		settings:   ss,
		schemaRepo: ss.NewSchemaRepo(),
	}
}

// InitProd recreates the libwebN schema (N being the major version of
// the configured schema) with the admin role, makes sure that the normal
// role exists and may use that schema, and renews both passwords, all
// in one admin transaction. The password files are coordinated with
// that transaction, so an interrupted run may be repeated safely.
// It then connects as the normal role and creates the empty tables.
func (iduc *InitDBUseCase) InitProd(ctx context.Context) error {
	return iduc.initDB(ctx, "prod", repo.SchemaInitializer.InitProdSchema)
}

// InitDev works like InitProd, but also inserts a few sample
// libraries, books, members, borrowings, and reviews.
func (iduc *InitDBUseCase) InitDev(ctx context.Context) error {
	return iduc.initDB(ctx, "dev", repo.SchemaInitializer.InitDevSchema)
}

func (iduc *InitDBUseCase) initDB(
	ctx context.Context,
	mode string,
	fill func(repo.SchemaInitializer, context.Context) error,
) error {
	schema := SchemaName(iduc.settings.SchemaVersion()[0])
	if err := iduc.asAdmin(ctx, schema); err != nil {
		return fmt.Errorf("preparing %q schema: %w", schema, err)
	}
	err := iduc.inTx(ctx, repo.NormalRole, func(
		ctx context.Context, tx repo.Tx,
	) error {
		si, err := iduc.settings.SchemaInitializer(tx)
		if err != nil {
			return fmt.Errorf("creating SchemaInitializer: %w", err)
		}
		return fill(si, ctx)
	})
	if err != nil {
		return fmt.Errorf("filling %q schema: %w", schema, err)
	}
	log.Info(
		ctx, "database is initialized",
		slog.String("schema", schema), slog.String("mode", mode),
	)
	return nil
}

// asAdmin drops and recreates the schema, grants it to the normal
// role, and renews the passwords of both roles in one transaction.
// The new passwords are finalized only after that commit.
func (iduc *InitDBUseCase) asAdmin(ctx context.Context, schema string) error {
	var finalize func() error
	err := iduc.inTx(ctx, repo.AdminRole, func(
		ctx context.Context, tx repo.Tx,
	) error {
		q := iduc.schemaRepo.Tx(tx)
		steps := []struct {
			name string
			run  func() error
		}{
			{"dropping schema", func() error {
				return q.DropIfExists(ctx, schema)
			}},
			{"creating schema", func() error {
				return q.CreateSchema(ctx, schema)
			}},
			{"creating normal role", func() error {
				return q.CreateRoleIfNotExists(ctx, repo.NormalRole)
			}},
			{"granting privileges", func() error {
				return q.GrantPrivileges(ctx, schema, repo.NormalRole)
			}},
			{"setting search_path", func() error {
				return q.SetSearchPath(ctx, schema, repo.NormalRole)
			}},
		}
		for _, s := range steps {
			if err := s.run(); err != nil {
				return fmt.Errorf("%s: %w", s.name, err)
			}
		}
		var err error
		finalize, err = iduc.settings.RenewPasswords(
			ctx, q.ChangePasswords, repo.AdminRole, repo.NormalRole,
		)
		if err != nil {
			return fmt.Errorf("renewing passwords: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := finalize(); err != nil {
		return fmt.Errorf("finalizing passwords renewal: %w", err)
	}
	return nil
}

// inTx runs f in a transaction of a fresh pool of the r role.
func (iduc *InitDBUseCase) inTx(
	ctx context.Context, r repo.Role, f repo.TxHandler,
) error {
	p, err := iduc.settings.ConnectionPool(ctx, r)
	if err != nil {
		return fmt.Errorf("connecting as %q: %w", r, err)
	}
	defer p.Close()
	return p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, f)
	})
}

// SchemaName returns the target database schema name for the given
// major version. It returns libwebN for version N.
func SchemaName(major uint) string {
	return fmt.Sprintf("libweb%d", major)
}
