// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/momeni/clean-library/pkg/adapter/config"
	"github.com/momeni/clean-library/pkg/adapter/config/settings"
	"github.com/momeni/clean-library/pkg/core/cerr"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func ExampleConfig_marshalYAML() {
	fee := settings.Amount(model.Units(5))
	d := settings.Duration(14 * settings.Day)
	l, r := true, true
	c := &config.Config{
		Database: config.Database{
			Host:    "127.0.0.1",
			Port:    5432,
			Name:    "library",
			PassDir: "/var/lib/libweb/db",
		},
		Gin: config.Gin{
			Logger:   &l,
			Recovery: &r,
		},
		Log: config.Log{
			Level:  "debug",
			Format: "json",
		},
		Usecases: config.Usecases{
			Borrowings: config.Borrowings{
				LateFeePerDay: &fee,
				LoanPeriod:    &d,
				TimeZone:      "Asia/Kolkata",
			},
			Catalog: config.Catalog{
				PhoneRegion: "IN",
			},
		},
		Versions: config.Versions{
			Database: model.SemVer{1, 0, 0},
			Config:   config.Version,
		},
	}
	b, err := yaml.Marshal(c)
	fmt.Println(err)
	fmt.Println(string(b))
	// Output:
	// <nil>
	// database:
	//     host: 127.0.0.1
	//     port: 5432
	//     name: library
	//     pass-dir: /var/lib/libweb/db
	// gin:
	//     logger: true
	//     recovery: true
	// log:
	//     level: debug
	//     format: json
	// usecases:
	//     borrowings:
	//         late-fee-per-day: "5.00"
	//         loan-period: 14d
	//         time-zone: Asia/Kolkata
	//     catalog:
	//         phone-region: IN
	// versions:
	//     database: 1.0.0
	//     config: 1.0.0
}

const minimal = `
database:
    host: db.local
    port: 5432
    name: library
    pass-dir: /tmp/pass
versions:
    database: 1.0.0
    config: 1.0.0
`

func TestParseFillsDefaults(t *testing.T) {
	c, err := config.Parse([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultAddress, c.Gin.Address)
	assert.False(t, *c.Gin.Logger)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, "scram-sha-256", c.Database.AuthMethod)
	assert.Equal(t, filter.Page{Default: 20, Max: 100}, c.Usecases.Catalog.Page())
	assert.Equal(t, time.UTC, c.Usecases.Borrowings.Location())
	assert.Equal(t, model.SemVer{1, 0, 0}, c.SchemaVersion())

	s := c.Settings()
	require.NotNil(t, s.Borrowing.LateFeePerDay)
	assert.Equal(t, model.Units(5), *s.Borrowing.LateFeePerDay)
	assert.Equal(t, 14*24*time.Hour, *s.Borrowing.LoanPeriod)
	assert.Equal(t, 24*time.Hour, *s.Borrowing.MinLoanPeriod)
	assert.Equal(t, 90*24*time.Hour, *s.Borrowing.MaxLoanPeriod)
	assert.Equal(t, "IN", s.Catalog.PhoneRegion)

	pn, err := c.Usecases.Catalog.PhoneNormalizer()
	require.NoError(t, err)
	assert.Equal(t, "IN", pn.Region())
}

func TestParseOverrides(t *testing.T) {
	c, err := config.Parse([]byte(minimal + `
log:
    level: WARN
    format: JSON
usecases:
    borrowings:
        late-fee-per-day: "2.50"
        loan-period: 7d
        time-zone: Asia/Kolkata
    catalog:
        phone-region: us
        default-page-size: 10
        max-page-size: 50
`))
	require.NoError(t, err)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, model.Amount(250), *c.Settings().Borrowing.LateFeePerDay)
	assert.Equal(t, 7*24*time.Hour, *c.Settings().Borrowing.LoanPeriod)
	assert.Equal(t, "Asia/Kolkata", c.Usecases.Borrowings.Location().String())
	assert.Equal(t, "US", c.Usecases.Catalog.PhoneRegion)
	assert.Equal(t, filter.Page{Default: 10, Max: 50}, c.Usecases.Catalog.Page())
}

func TestParseRejectsInvalidSettings(t *testing.T) {
	cases := map[string]string{
		"config major": strings.Replace(
			minimal, "config: 1.0.0", "config: 2.0.0", 1,
		),
		"config minor": strings.Replace(
			minimal, "config: 1.0.0", "config: 1.1.0", 1,
		),
		"database version": strings.Replace(
			minimal, "database: 1.0.0", "database: 3.0.0", 1,
		),
		"missing host": strings.Replace(
			minimal, "host: db.local", "host: ''", 1,
		),
		"auth method": strings.Replace(
			minimal, "pass-dir: /tmp/pass", "auth-method: md5", 1,
		),
		"log format": minimal + "log:\n    format: xml\n",
		"log level":  minimal + "log:\n    level: loud\n",
		"late fee": minimal +
			"usecases:\n    borrowings:\n        late-fee-per-day: \"0\"\n",
		"loan period": minimal +
			"usecases:\n    borrowings:\n        loan-period: 200d\n",
		"short minimum": minimal +
			"usecases:\n    borrowings:\n        loan-period-minimum: 1h\n",
		"time zone": minimal +
			"usecases:\n    borrowings:\n        time-zone: Mars/Olympus\n",
		"phone region": minimal +
			"usecases:\n    catalog:\n        phone-region: XX\n",
		"page size": minimal +
			"usecases:\n    catalog:\n        default-page-size: 500\n",
	}
	for name, data := range cases {
		_, err := config.Parse([]byte(data))
		assert.Error(t, err, name)
	}
}

func TestParseReportsLoanPeriodBounds(t *testing.T) {
	_, err := config.Parse([]byte(minimal +
		"usecases:\n    borrowings:\n        loan-period: 200d\n",
	))
	assert.ErrorContains(t, err, "200d is greater than the maximum 90d")
}

func TestParseReportsConfigVersion(t *testing.T) {
	_, err := config.Parse([]byte(strings.Replace(
		minimal, "config: 1.0.0", "config: 1.4.2", 1,
	)))
	var msve *cerr.MismatchingSemVerError
	require.ErrorAs(t, err, &msve)
	assert.Equal(t, config.Version, msve[0])
	assert.Equal(t, model.SemVer{1, 4, 2}, msve[1])
	assert.ErrorContains(t, err, "expected v1.0.0, but got v1.4.2")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load("/nonexistent/libweb.yaml")
	assert.Error(t, err)
}

func TestLoadSampleConfig(t *testing.T) {
	c, err := config.Load("../../../configs/sample-config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", c.Gin.Address)
	assert.Equal(t, 8, c.Database.MaxConns)
	assert.True(t, *c.Gin.Recovery)
}
