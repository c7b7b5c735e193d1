// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migration maps the configured database schema version to
// the stlmigN package which can create it. Callers only see the
// version independent repo.SchemaInitializer interface.
package migration

import (
	"fmt"

	"github.com/momeni/clean-library/pkg/adapter/db/postgres/migration/stlmig1"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
)

// major describes the newest schema of one stlmigN package.
type major struct {
	latest model.SemVer
	newer  func(tx repo.Tx) repo.SchemaInitializer
}

var majors = []major{
	{
		latest: model.SemVer{stlmig1.Major, stlmig1.Minor, stlmig1.Patch},
		newer: func(tx repo.Tx) repo.SchemaInitializer {
			return stlmig1.New(tx)
		},
	},
}

func find(v model.SemVer) (major, error) {
	for _, m := range majors {
		if m.latest.Supports(v) {
			return m, nil
		}
	}
	return major{}, fmt.Errorf("unsupported database schema version: %s", v)
}

// LatestVersion returns the newest known schema version which has the
// same major version as v. The v minor version must not be newer.
func LatestVersion(v model.SemVer) (model.SemVer, error) {
	m, err := find(v)
	return m.latest, err
}

// NewInitializer returns an initializer which creates the tables of
// the newest minor version of the v major version using tx. Those
// tables are a superset of what an older minor version expects.
// The caller commits tx.
func NewInitializer(tx repo.Tx, v model.SemVer) (
	repo.SchemaInitializer, error,
) {
	m, err := find(v)
	if err != nil {
		return nil, err
	}
	return m.newer(tx), nil
}
