// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package borrowinguc

import (
	"errors"
	"fmt"
	"time"

	"github.com/juju/clock"
	"github.com/momeni/clean-library/pkg/core/model"
)

// Option is a functional option for the borrowing use case.
type Option func(uc *UseCase) error

// WithClock option replaces the wall clock which is used for finding
// out today's date. Tests may pass a juju testclock.Clock instance in
// order to fix the current date deterministically.
func WithClock(c clock.Clock) Option {
	return func(uc *UseCase) error {
		if c == nil {
			return errors.New("clock is nil")
		}
		if uc.clock != nil {
			return errors.New("clock is already configured")
		}
		uc.clock = c
		return nil
	}
}

// WithLocation option specifies the time zone which is used for
// converting the clock readings to dates. By default, UTC is used.
func WithLocation(loc *time.Location) Option {
	return func(uc *UseCase) error {
		if loc == nil {
			return errors.New("location is nil")
		}
		if uc.location != nil {
			return errors.New("location is already configured")
		}
		uc.location = loc
		return nil
	}
}

// WithLateFeePerDay option configures the fee of each day of delay
// in returning a borrowed book. By default, it is 5 units.
func WithLateFeePerDay(fee model.Amount) Option {
	return func(uc *UseCase) error {
		if fee <= 0 {
			return fmt.Errorf("late fee per day (%s) is not positive", fee)
		}
		if uc.lateFeePerDay != 0 {
			return errors.New("late fee per day is already configured")
		}
		uc.lateFeePerDay = fee
		return nil
	}
}

// WithLoanPeriod option configures the default duration between the
// borrow and due dates when a borrow request has no due date.
// It is rounded down to whole days and must be at least one day.
// By default, it is two weeks.
func WithLoanPeriod(d time.Duration) Option {
	return func(uc *UseCase) error {
		days := int(d / (24 * time.Hour))
		if days < 1 {
			return fmt.Errorf("loan period (%v) is shorter than a day", d)
		}
		if uc.loanDays != 0 {
			return errors.New("loan period is already configured")
		}
		uc.loanDays = days
		return nil
	}
}

// WithObserver option registers an Observer which is notified about
// the outcome of every borrow and return operation.
func WithObserver(o Observer) Option {
	return func(uc *UseCase) error {
		if o == nil {
			return errors.New("observer is nil")
		}
		if uc.observer != nil {
			return errors.New("observer is already configured")
		}
		uc.observer = o
		return nil
	}
}
