// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cataloguc

import "errors"

// Option is a functional option for the catalog use case.
type Option[M any, PM Entity[M]] func(uc *UseCase[M, PM]) error

// WithPhoneNormalizer option asks the catalog use case to canonicalize
// the phone numbers of entities which implement PhoneHolder before
// persisting them. Entities with invalid phone numbers are rejected.
func WithPhoneNormalizer[M any, PM Entity[M]](
	pn PhoneNormalizer,
) Option[M, PM] {
	return func(uc *UseCase[M, PM]) error {
		if pn == nil {
			return errors.New("phone normalizer is nil")
		}
		if uc.phones != nil {
			return errors.New("phone normalizer is already configured")
		}
		uc.phones = pn
		return nil
	}
}

// WithDecorator option registers a decorator which fills the derived
// fields of entities after they are read or written.
func WithDecorator[M any, PM Entity[M]](d Decorator[M]) Option[M, PM] {
	return func(uc *UseCase[M, PM]) error {
		if d == nil {
			return errors.New("decorator is nil")
		}
		if uc.decorator != nil {
			return errors.New("decorator is already configured")
		}
		uc.decorator = d
		return nil
	}
}

// WithStamper option registers a function which fills the missing
// fields of entities right before their creation.
func WithStamper[M any, PM Entity[M]](s Stamper[M]) Option[M, PM] {
	return func(uc *UseCase[M, PM]) error {
		if s == nil {
			return errors.New("stamper is nil")
		}
		if uc.stamper != nil {
			return errors.New("stamper is already configured")
		}
		uc.stamper = s
		return nil
	}
}
