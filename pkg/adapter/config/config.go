// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config loads the libweb configuration settings from a YAML
// file. Config describes the database connection, the gin engine, the
// logging, and the use cases settings. It also implements the
// migrationuc.Settings interface, so it may be passed to the database
// initialization use cases, and instantiates the other use cases based
// on its settings.
//
// The versions section of the configuration file is read before the
// other sections, so an incompatible file is rejected before its
// contents are interpreted.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/momeni/clean-library/pkg/adapter/db/postgres"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres/migration"
	"github.com/momeni/clean-library/pkg/core/cerr"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
	"github.com/momeni/clean-library/pkg/core/usecase/migrationuc"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

var _ migrationuc.Settings = (*Config)(nil)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so the configuration format can be kept intact while other
// layers can change freely.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Log      Log      // Structured logging settings
	Usecases Usecases // Supported use cases configuration settings

	// Versions contains the configuration file and database schema
	// versions corresponding to this Config instance and its Database.
	Versions Versions `yaml:"versions"`
}

// Versions contains the configuration file and database schema versions
// which are used for detecting their relevant formats.
type Versions struct {
	Database model.SemVer `yaml:"database"`
	Config   model.SemVer `yaml:"config"`
}

// Load reads the `path` configuration file and parses it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	return c, nil
}

// Parse unmarshals the data byte slice and loads a Config instance.
// The versions section is checked first, so a configuration file with
// an unsupported format or database schema version is rejected before
// decoding its other sections. Extra items in the data will be ignored
// and missing items will take their default values. Thereafter, the
// loaded Config will be validated and normalized.
//
// If some settings should be overridden by environment variables,
// this function is the proper place for that replacement.
func Parse(data []byte) (*Config, error) {
	vc := &struct {
		Versions Versions `yaml:"versions"`
	}{}
	if err := yaml.Unmarshal(data, vc); err != nil {
		return nil, fmt.Errorf("unmarshalling versions: %w", err)
	}
	if err := vc.Versions.Validate(); err != nil {
		return nil, err
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// Validate returns an error if the configuration settings version is
// not supported by this package or the database schema version is not
// known to the migration package. That is, the major versions must
// match and the minor versions must not be newer than what is known.
func (vs Versions) Validate() error {
	v := vs.Config
	if !Version.Supports(v) {
		return fmt.Errorf(
			"unsupported config version: %w",
			&cerr.MismatchingSemVerError{Version, v},
		)
	}
	if _, err := migration.LatestVersion(vs.Database); err != nil {
		return fmt.Errorf(
			"database schema version %s: %w", vs.Database.String(), err,
		)
	}
	return nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Versions.Validate(); err != nil {
		return err
	}
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	c.Gin.Normalize()
	if err := c.Log.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating log settings: %w", err)
	}
	if err := c.Usecases.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating use cases settings: %w", err)
	}
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"%s.ConnectionPool: %w", c.Database.String(), err,
		)
	}
	return p, nil
}

// Pool works like ConnectionPool, but returns the concrete pool type
// which may be passed to the repositories of the postgres adapter.
func (c *Config) Pool(
	ctx context.Context, r repo.Role,
) (*postgres.Pool, error) {
	return c.Database.Pool(ctx, r)
}

// NewSchemaRepo instantiates a fresh Schema repository which suffixes
// role names like the ConnectionPool and RenewPasswords methods.
func (c *Config) NewSchemaRepo() repo.Schema {
	return c.Database.NewSchemaRepo()
}

// SchemaInitializer creates a repo.SchemaInitializer instance which
// wraps the given transaction argument and can be used to initialize
// the database with development or production suitable data. The
// format of the created tables is chosen based on the database schema
// version, as indicated by SchemaVersion method.
func (c *Config) SchemaInitializer(tx repo.Tx) (
	repo.SchemaInitializer, error,
) {
	return migration.NewInitializer(tx, c.SchemaVersion())
}

// RenewPasswords generates new secure passwords for the given roles,
// records them in the .pgpass.new file, and calls `change` in order to
// update them in the database too. See Database.RenewPasswords.
func (c *Config) RenewPasswords(
	ctx context.Context,
	change migrationuc.PasswordChanger,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	return c.Database.RenewPasswords(ctx, change, roles...)
}

// SchemaVersion returns the semantic version of the database schema
// which its connection information are kept by this Config struct.
// There is no direct dependency between the configuration file and
// database schema versions.
func (c *Config) SchemaVersion() model.SemVer {
	return c.Versions.Database
}

// Settings returns the lending policy and catalog settings which may
// be presented to the web clients.
func (c *Config) Settings() model.Settings {
	return model.Settings{
		Borrowing: c.Usecases.Borrowings.Model(),
		Catalog:   c.Usecases.Catalog.Model(),
	}
}
