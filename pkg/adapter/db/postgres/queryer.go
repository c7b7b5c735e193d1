// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"github.com/momeni/clean-library/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is a type constraint which is satisfied by the Conn and Tx
// types. Repositories implement their queries as generic functions of
// a Queryer, so one implementation serves both of the connection and
// transaction queryer interfaces.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer
	GORM(ctx context.Context) *gorm.DB
}

// Unwrap returns the *gorm.DB of a repo.Conn or repo.Tx instance which
// was created by this package. It panics for other implementations.
func Unwrap(ctx context.Context, q repo.Queryer) *gorm.DB {
	switch qq := q.(type) {
	case *Conn:
		return qq.GORM(ctx)
	case *Tx:
		return qq.GORM(ctx)
	default:
		panic("unsupported queryer type")
	}
}

// session holds the statement execution methods which are shared by
// Conn and Tx. Statements take $1, $2, ... parameters (as emitted by
// the filterqb package) and GORM additionally accepts ? and @name.
// Without args, Exec may run several `;` separated statements.
type session struct {
	*gorm.DB
}

// Exec runs the sql statement with args and returns the number of
// affected rows.
func (s session) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	res := s.DB.WithContext(ctx).Exec(sql, args...)
	if err := res.Error; err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// Query runs the sql statement with args and returns its result set.
// The Rows must be closed before the next statement since a connection
// runs one statement at a time.
func (s session) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	rows, err := s.DB.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	return rowsAdapter{rows}, nil
}

// GORM returns the embedded *gorm.DB in a session which uses ctx.
func (s session) GORM(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}
