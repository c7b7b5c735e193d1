// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import "github.com/momeni/clean-library/pkg/core/model"

// MismatchingSemVerError reports an unsupported version as the
// {supported, actual} pair, such as a configuration file which was
// written for a newer libweb release.
type MismatchingSemVerError [2]model.SemVer

func (msve *MismatchingSemVerError) Error() string {
	return "expected v" + msve[0].String() + ", but got v" + msve[1].String()
}
