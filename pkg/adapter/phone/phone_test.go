// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package phone_test

import (
	"fmt"
	"testing"

	"github.com/momeni/clean-library/pkg/adapter/phone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleNormalizer_Normalize() {
	n, err := phone.New("in")
	if err != nil {
		panic(err)
	}
	for _, raw := range []string{
		"98765 43210",
		"+91 98765-43210",
		"+1 (650) 253-0000",
	} {
		fmt.Println(n.Normalize(raw))
	}
	// Output:
	// +919876543210 <nil>
	// +919876543210 <nil>
	// +16502530000 <nil>
}

func TestNormalizeRejectsInvalidNumbers(t *testing.T) {
	n, err := phone.New("IN")
	require.NoError(t, err)
	assert.Equal(t, "IN", n.Region())

	_, err = n.Normalize("12345")
	assert.ErrorIs(t, err, phone.ErrInvalidNumber)
	_, err = n.Normalize("not a number")
	assert.Error(t, err)

	_, err = phone.New("XX")
	assert.Error(t, err)
}
