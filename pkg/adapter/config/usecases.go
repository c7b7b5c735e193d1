// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // the time-zone setting must not depend on the host

	"github.com/juju/clock"
	"github.com/momeni/clean-library/pkg/adapter/config/settings"
	"github.com/momeni/clean-library/pkg/adapter/phone"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
	"github.com/momeni/clean-library/pkg/core/usecase/borrowinguc"
	"github.com/momeni/clean-library/pkg/core/usecase/statsuc"
)

// Default values of the use cases settings.
const (
	DefaultLateFeePerDay   = 5
	DefaultLoanDays        = 14
	DefaultPhoneRegion     = "IN"
	DefaultPageSize        = 20
	DefaultMaxPageSize     = 100
	DefaultMinLoanDays     = 1
	DefaultMaxLoanDays     = 90
	defaultTimeZone        = "UTC"
	maxConfigurablePageLen = 1000
)

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Borrowings Borrowings // Borrowing lifecycle use case settings
	Catalog    Catalog    // Catalog and listing settings
}

// ValidateAndNormalize validates the settings of all use cases and
// fills their missing items with the default values.
func (u *Usecases) ValidateAndNormalize() error {
	if err := u.Borrowings.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("borrowings: %w", err)
	}
	if err := u.Catalog.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}

// Borrowings contains the lending policy settings.
// The loan period is bounded by the minimum and maximum loan periods,
// so an operator may not configure an unreasonable lending policy.
type Borrowings struct {
	LateFeePerDay *settings.Amount   `yaml:"late-fee-per-day,omitempty"`
	LoanPeriod    *settings.Duration `yaml:"loan-period,omitempty"`
	MinLoanPeriod *settings.Duration `yaml:"loan-period-minimum,omitempty"`
	MaxLoanPeriod *settings.Duration `yaml:"loan-period-maximum,omitempty"`

	// TimeZone is the IANA name of the location which is used for
	// converting the current time to the current date.
	TimeZone string `yaml:"time-zone,omitempty"`

	location *time.Location
}

// ValidateAndNormalize checks the lending policy and fills its missing
// items with their defaults.
func (b *Borrowings) ValidateAndNormalize() error {
	settings.Default(&b.LateFeePerDay, settings.Amount(model.Units(
		DefaultLateFeePerDay,
	)))
	if *b.LateFeePerDay <= 0 {
		return fmt.Errorf(
			"late fee per day (%s) must be positive",
			b.LateFeePerDay.Model(),
		)
	}
	settings.Default(&b.MinLoanPeriod, days(DefaultMinLoanDays))
	settings.Default(&b.MaxLoanPeriod, days(DefaultMaxLoanDays))
	if *b.MinLoanPeriod < days(1) {
		return errors.New("minimum loan period is shorter than a day")
	}
	settings.Default(&b.LoanPeriod, days(DefaultLoanDays))
	err := settings.VerifyRange(
		&b.LoanPeriod, b.MinLoanPeriod, b.MaxLoanPeriod,
	)
	if err != nil {
		return fmt.Errorf("loan period: %w", err)
	}
	if b.TimeZone == "" {
		b.TimeZone = defaultTimeZone
	}
	loc, lerr := time.LoadLocation(b.TimeZone)
	if lerr != nil {
		return fmt.Errorf("time zone %q: %w", b.TimeZone, lerr)
	}
	b.location = loc
	return nil
}

func days(n int) settings.Duration {
	return settings.Duration(time.Duration(n) * settings.Day)
}

// Location returns the time zone which was loaded by the
// ValidateAndNormalize method, or UTC if it is not called yet.
func (b Borrowings) Location() *time.Location {
	if b.location == nil {
		return time.UTC
	}
	return b.location
}

// Model converts the lending policy to its model layer representation.
func (b Borrowings) Model() model.BorrowingSettings {
	var bs model.BorrowingSettings
	if b.LateFeePerDay != nil {
		fee := b.LateFeePerDay.Model()
		bs.LateFeePerDay = &fee
	}
	bs.LoanPeriod = duration(b.LoanPeriod)
	bs.MinLoanPeriod = duration(b.MinLoanPeriod)
	bs.MaxLoanPeriod = duration(b.MaxLoanPeriod)
	return bs
}

func duration(d *settings.Duration) *time.Duration {
	if d == nil {
		return nil
	}
	td := time.Duration(*d)
	return &td
}

// Options returns the borrowing use case options which reflect the
// lending policy settings.
func (b Borrowings) Options() []borrowinguc.Option {
	opts := []borrowinguc.Option{borrowinguc.WithLocation(b.Location())}
	if b.LateFeePerDay != nil {
		opts = append(opts,
			borrowinguc.WithLateFeePerDay(b.LateFeePerDay.Model()),
		)
	}
	if b.LoanPeriod != nil {
		opts = append(opts,
			borrowinguc.WithLoanPeriod(time.Duration(*b.LoanPeriod)),
		)
	}
	return opts
}

// Catalog contains the settings of the catalog use cases.
type Catalog struct {
	// PhoneRegion is the ISO 3166-1 two letters region code which is
	// assumed for the phone numbers without a country calling code.
	PhoneRegion string `yaml:"phone-region,omitempty"`

	DefaultPageSize int `yaml:"default-page-size,omitempty"`
	MaxPageSize     int `yaml:"max-page-size,omitempty"`

	phones *phone.Normalizer
}

// ValidateAndNormalize checks the catalog settings and fills their
// missing items with their defaults.
func (c *Catalog) ValidateAndNormalize() error {
	if c.PhoneRegion == "" {
		c.PhoneRegion = DefaultPhoneRegion
	}
	pn, err := phone.New(c.PhoneRegion)
	if err != nil {
		return fmt.Errorf("phone region: %w", err)
	}
	c.phones = pn
	c.PhoneRegion = strings.ToUpper(c.PhoneRegion)
	if c.DefaultPageSize == 0 {
		c.DefaultPageSize = DefaultPageSize
	}
	if c.MaxPageSize == 0 {
		c.MaxPageSize = DefaultMaxPageSize
	}
	minSize, maxSize := 1, maxConfigurablePageLen
	ps := &c.MaxPageSize
	if err := settings.VerifyRange(&ps, &minSize, &maxSize); err != nil {
		return fmt.Errorf("max page size: %w", err)
	}
	ps = &c.DefaultPageSize
	if err := settings.VerifyRange(&ps, &minSize, &c.MaxPageSize); err != nil {
		return fmt.Errorf("default page size: %w", err)
	}
	return nil
}

// Model converts the catalog settings to their model layer
// representation.
func (c Catalog) Model() model.CatalogSettings {
	return model.CatalogSettings{
		PhoneRegion:     c.PhoneRegion,
		DefaultPageSize: c.DefaultPageSize,
		MaxPageSize:     c.MaxPageSize,
	}
}

// Page returns the pagination limits of the listing requests.
func (c Catalog) Page() filter.Page {
	return filter.Page{Default: c.DefaultPageSize, Max: c.MaxPageSize}
}

// PhoneNormalizer returns the phone numbers normalizer of the
// configured region. It creates one if ValidateAndNormalize is not
// called yet.
func (c Catalog) PhoneNormalizer() (*phone.Normalizer, error) {
	if c.phones != nil {
		return c.phones, nil
	}
	region := c.PhoneRegion
	if region == "" {
		region = DefaultPhoneRegion
	}
	return phone.New(region)
}

// NewBorrowingUseCase instantiates a borrowing use case using the
// lending policy settings. The opts are applied after the configured
// options, so callers may add an observer or replace the clock.
func (c *Config) NewBorrowingUseCase(
	p repo.Pool,
	b repo.Borrowings,
	i repo.Inventory,
	m repo.Members,
	opts ...borrowinguc.Option,
) (*borrowinguc.UseCase, error) {
	all := append(c.Usecases.Borrowings.Options(), opts...)
	uc, err := borrowinguc.New(p, b, i, m, all...)
	if err != nil {
		return nil, fmt.Errorf("borrowinguc.New: %w", err)
	}
	return uc, nil
}

// NewStatsUseCase instantiates a statistics use case which finds the
// overdue borrowings in the configured time zone. A WithClock option
// in opts overrides the wall clock.
func (c *Config) NewStatsUseCase(
	p repo.Pool,
	books repo.Books,
	members repo.Members,
	borrowings repo.Borrowings,
	opts ...statsuc.Option,
) (*statsuc.UseCase, error) {
	all := append([]statsuc.Option{statsuc.WithClock(
		clock.WallClock, c.Usecases.Borrowings.Location(),
	)}, opts...)
	uc, err := statsuc.New(p, books, members, borrowings, all...)
	if err != nil {
		return nil, fmt.Errorf("statsuc.New: %w", err)
	}
	return uc, nil
}
