// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/momeni/clean-library/pkg/adapter/db/postgres"
	"github.com/momeni/clean-library/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/clean-library/pkg/adapter/hash/scram"
	"github.com/momeni/clean-library/pkg/core/log"
	"github.com/momeni/clean-library/pkg/core/repo"
	scrami "github.com/momeni/clean-library/pkg/core/scram"
)

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like library
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// RoleSuffix specifies a possibly empty suffix for the database
	// role names. Normally, repo.AdminRole and repo.NormalRole roles
	// are used. In the parallel test cases, it is required to create
	// multiple non-colliding roles in the same database cluster and
	// so having a unique (per test) role suffix helps with parallelism.
	RoleSuffix repo.Role `yaml:"role-suffix,omitempty"`

	// AuthMethod specifies the database authentication method name.
	// This method indicates how passwords should be hashed and stored
	// in the database, so they may be used by an authentication
	// operation successfully.
	// Currently, only scram-sha-1 and scram-sha-256 methods are
	// supported. The scram-sha-256 is the default value.
	AuthMethod string `yaml:"auth-method,omitempty"`

	// MaxConns limits the number of open connections of each pool.
	// Zero means no limit.
	MaxConns int `yaml:"max-conns,omitempty"`

	// hasher is instantiated based on the AuthMethod and is used by
	// the NewSchemaRepo method, so Schema repo instances may hash
	// passwords properly (as expected by the DBMS).
	hasher scrami.Hasher
}

// String describes the database server without its credentials.
func (d Database) String() string {
	return fmt.Sprintf("postgresql://%s:%d/%s", d.Host, d.Port, d.Name)
}

// ConnectionPool creates a database connection pool as the `r` role.
// See the Pool method.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	p, err := d.Pool(ctx, r)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Pool connects to the `d` database as the `r` role (plus
// d.RoleSuffix). The password is looked up in the .pgpass file of
// d.PassDir first. If it is rejected, an earlier initialization may
// have changed the passwords without finalizing them, so .pgpass.new is
// tried next and replaces .pgpass if it works.
func (d Database) Pool(
	ctx context.Context, r repo.Role,
) (*postgres.Pool, error) {
	path := filepath.Join(d.PassDir, passFile)
	p, err := d.pool(ctx, r, path)
	if err == nil {
		return p, nil
	}
	newPath := filepath.Join(d.PassDir, newPassFile)
	log.Warn(
		ctx, "retrying with the new pass-file",
		log.Err("error", err),
	)
	p, err2 := d.pool(ctx, r, newPath)
	if err2 != nil {
		return nil, fmt.Errorf(
			"can use neither pass-file: %w", errors.Join(err, err2),
		)
	}
	if err = os.Rename(newPath, path); err != nil {
		p.Close()
		return nil, fmt.Errorf("os.Rename: %w", err)
	}
	return p, nil
}

func (d Database) pool(
	ctx context.Context, r repo.Role, path string,
) (*postgres.Pool, error) {
	u, err := d.ConnectionURL(r, path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	opts := []postgres.PoolOption{
		postgres.WithConnMaxLifetime(30 * time.Minute),
	}
	if d.MaxConns > 0 {
		opts = append(opts, postgres.WithMaxConns(d.MaxConns))
	}
	return postgres.NewPool(ctx, u, opts...)
}

// ConnectionURL returns the postgresql URL of the `d` database which
// authenticates as the `r` role (plus d.RoleSuffix) using its password
// from the `path` pgpass file.
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	r += d.RoleSuffix
	pass, err := lookupPassword(path, d.Host, d.Port, d.Name, string(r))
	if err != nil {
		return "", err
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   d.Name,
	}
	return u.String(), nil
}

// NewSchemaRepo instantiates a fresh Schema repository, using the
// role names suffix and the passwords hasher of the `d` settings.
// The ValidateAndNormalize method must be called beforehand, so the
// hasher is created based on the AuthMethod.
func (d Database) NewSchemaRepo() repo.Schema {
	return schemarp.New(d.RoleSuffix, d.hasher)
}

// RenewPasswords generates a random password for each one of the
// roles (plus d.RoleSuffix) and writes them in the .pgpass.new file of
// d.PassDir before calling `change` to set them in the database. The
// returned finalizer moves .pgpass.new over .pgpass and must be called
// after the transaction which `change` used is committed. If that
// transaction is lost, the old passwords remain valid and .pgpass.new
// is overwritten by the next attempt. Otherwise, the Pool method finds
// and finalizes the new passwords itself.
func (d Database) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	passwords := make([]string, len(roles))
	entries := make([]passEntry, len(roles))
	port := strconv.Itoa(d.Port)
	for i, r := range roles {
		if passwords[i], err = randomPassword(); err != nil {
			return nil, fmt.Errorf("password of %q: %w", r, err)
		}
		entries[i] = passEntry{
			d.Host, port, d.Name, string(r + d.RoleSuffix), passwords[i],
		}
	}
	newPath := filepath.Join(d.PassDir, newPassFile)
	if err = writePassFile(newPath, entries); err != nil {
		return nil, fmt.Errorf("writing %q file: %w", newPath, err)
	}
	if err = change(ctx, roles, passwords); err != nil {
		return nil, fmt.Errorf("passwords change callback: %w", err)
	}
	return func() error {
		return os.Rename(newPath, filepath.Join(d.PassDir, passFile))
	}, nil
}

// randomPassword returns 128 random bits in the unpadded base64 form.
func randomPassword() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(b), nil
}

// ValidateAndNormalize validates the database settings and returns an
// error if they were not acceptable. It also creates the passwords
// hasher based on the AuthMethod, so it takes a pointer receiver.
func (d *Database) ValidateAndNormalize() error {
	switch {
	case d.Host == "":
		return errors.New("missing host")
	case d.Port <= 0 || d.Port > 65535:
		return fmt.Errorf("invalid port: %d", d.Port)
	case d.Name == "":
		return errors.New("missing database name")
	case d.MaxConns < 0:
		return fmt.Errorf("negative max-conns: %d", d.MaxConns)
	}
	h, err := scram.ForMethod(d.AuthMethod)
	if err != nil {
		return fmt.Errorf("auth-method: %w", err)
	}
	if d.AuthMethod == "" {
		d.AuthMethod = scram.DefaultMethod
	}
	d.AuthMethod = strings.ToLower(d.AuthMethod)
	d.hasher = h
	return nil
}
