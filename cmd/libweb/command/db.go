// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/clean-library/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

// credsRenewalMessage is shared by the help of the init sub-commands.
const credsRenewalMessage = `
The passwords of the admin and normal database roles are renewed too.
New passwords are written in the .pgpass.new file of the pass-dir
directory before being changed in the database and that file replaces
the .pgpass file when the database transaction is committed. If the
process is interrupted, the .pgpass.new file is tried on the next run.`

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init-dev or init-prod may be used.`,
}

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development suitable data",
	Long: `Initialize database contents with development suitable data
for the database schema version which is specified in the configuration
file. It works like init-prod, but also inserts a few sample libraries,
books, authors, categories, members, borrowings, and reviews.
` + credsRenewalMessage,
	RunE: initDB((*migrationuc.InitDBUseCase).InitDev),
	Args: cobra.NoArgs,
}

var initProdCmd = &cobra.Command{
	Use:   "init-prod",
	Short: "Initialize database contents with production suitable data",
	Long: `Initialize database contents with production suitable data
for the database schema version which is specified in the configuration
file. The database connection information are also read from the config
file. No changes will be made to the config file itself.
` + credsRenewalMessage + `

If database schema version X.Y.Z is asked in the config file, relevant
empty tables of the latest known X.Y'.Z' version will be created in the
libwebX schema. The libwebX schema is dropped and created again, so all
of its previous contents will be lost.`,
	RunE: initDB((*migrationuc.InitDBUseCase).InitProd),
	Args: cobra.NoArgs,
}

func initDB(
	action func(*migrationuc.InitDBUseCase, context.Context) error,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		muc := migrationuc.NewInitDB(c)
		if err := action(muc, context.Background()); err != nil {
			return fmt.Errorf("%s: %w", cmd.Name(), err)
		}
		return nil
	}
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(initDevCmd)
	dbCmd.AddCommand(initProdCmd)
}
