// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SemVer is a major.minor.patch released version of the configuration
// file format or the database schema. A newer minor version only adds
// to its major version, so a reader of X.Y may accept X.Y' if Y' <= Y.
type SemVer [3]uint

// ParseSemVer parses a version like 1.2.3. The missing trailing
// components, as in 1 or 1.2, are taken as zero.
func ParseSemVer(s string) (SemVer, error) {
	var sv SemVer
	parts := strings.Split(s, ".")
	if len(parts) > len(sv) {
		return sv, fmt.Errorf("version %q has more than three parts", s)
	}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return sv, fmt.Errorf("version %q: part %q is not a number", s, p)
		}
		sv[i] = uint(n)
	}
	return sv, nil
}

// Supports reports whether a reader of sv may read the v version,
// that is, they have the same major version and v is not newer.
func (sv SemVer) Supports(v SemVer) bool {
	return sv[0] == v[0] && v[1] <= sv[1]
}

// UnmarshalText parses text with ParseSemVer and leaves sv unchanged
// when it fails.
func (sv *SemVer) UnmarshalText(text []byte) error {
	v, err := ParseSemVer(string(text))
	if err != nil {
		return err
	}
	*sv = v
	return nil
}

// MarshalText implements the encoding.TextMarshaler interface which is
// used by the YAML and JSON encoders.
func (sv SemVer) MarshalText() ([]byte, error) {
	return []byte(sv.String()), nil
}

func (sv SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", sv[0], sv[1], sv[2])
}
