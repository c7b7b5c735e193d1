// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"

	"github.com/momeni/clean-library/pkg/core/repo"
	"gorm.io/gorm"
)

// Conn is a connection which is held by a Pool.Conn handler.
// It is not safe for concurrent use.
type Conn struct {
	session
}

// TxHandler is a handler function which takes a context and an
// ongoing transaction.
type TxHandler = repo.TxHandler

// Tx runs f in a new transaction. The transaction commits if f returns
// nil and rolls back if it fails or panics. The f error (or panic
// value) is wrapped along with any rollback error.
func (c *Conn) Tx(ctx context.Context, f TxHandler) (err error) {
	tx := c.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin tx: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			err = rollback(tx, fmt.Errorf("panicked: %v", r))
		} else if err != nil {
			err = rollback(tx, fmt.Errorf("handler: %w", err))
		} else if err = tx.Commit().Error; err != nil {
			err = fmt.Errorf("commit: %w", err)
		}
	}()
	return f(ctx, &Tx{session{tx}})
}

func rollback(tx *gorm.DB, cause error) error {
	if err := tx.Rollback().Error; err != nil {
		return fmt.Errorf("%w, rollback: %w", cause, err)
	}
	return cause
}

// IsConn distinguishes a Conn from a Tx.
func (c *Conn) IsConn() {
}
