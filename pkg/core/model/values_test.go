// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleTitleName() {
	fmt.Println(model.TitleName("  jOHN   ronald reuel  "))
	fmt.Println(model.TitleName("o'neil-smith"))
	// Output:
	// John Ronald Reuel
	// O'Neil-Smith
}

func ExampleAmount_MarshalJSON() {
	b, err := json.Marshal(struct {
		Fee    model.Amount `json:"fee"`
		Half   model.Amount `json:"half"`
		Rating model.Amount `json:"rating"`
	}{model.Units(25), 50, 425})
	fmt.Println(err)
	fmt.Println(string(b))
	// Output:
	// <nil>
	// {"fee":25,"half":0.5,"rating":4.25}
}

func TestParseAmount(t *testing.T) {
	valid := map[string]model.Amount{
		"5":     500,
		"5.5":   550,
		"5.25":  525,
		" 0.05": 5,
		"-1.5":  -150,

		"92233720368547757.99": 9223372036854775799,
	}
	for s, want := range valid {
		got, err := model.ParseAmount(s)
		if assert.NoError(t, err, s) {
			assert.Equal(t, want, got, s)
		}
	}
	for _, s := range []string{
		"", ".5", "5.", "5.255", "five", "5.x",
		"92233720368547758", "18446744073709551616",
	} {
		_, err := model.ParseAmount(s)
		assert.ErrorIs(t, err, model.ErrInvalidAmount, s)
	}
}

func TestAmountUnmarshalJSON(t *testing.T) {
	var v struct {
		A model.Amount `json:"a"`
		B model.Amount `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12.5,"b":"3"}`), &v))
	assert.Equal(t, model.Amount(1250), v.A)
	assert.Equal(t, model.Units(3), v.B)
	assert.Equal(t, model.Amount(1999), model.AmountFromFloat(19.99))

	require.NoError(t, json.Unmarshal([]byte(`{"a":null,"b":"0.5"}`), &v))
	assert.Equal(t, model.Amount(1250), v.A, "null keeps the value")
	assert.Equal(t, model.Amount(50), v.B)
}

func TestDate(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	d := model.DateOf(time.Date(2025, time.August, 29, 23, 45, 0, 0, loc))
	assert.Equal(t, "2025-08-29", d.String())
	assert.Equal(t, 5, d.DaysSince(model.MustParseDate("2025-08-24")))
	assert.Equal(t, -5, model.MustParseDate("2025-08-24").DaysSince(d))
	assert.Equal(t, "2025-09-02", d.AddDays(4).String())
	assert.True(t, model.Date{}.IsZero())

	_, err := model.ParseDate("2025-02-30")
	assert.Error(t, err)

	var v struct {
		D  model.Date  `json:"d"`
		ND *model.Date `json:"nd"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2024-02-29","nd":null}`), &v))
	assert.Equal(t, model.NewDate(2024, time.February, 29), v.D)
	assert.Nil(t, v.ND)
	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2024-02-29","nd":null}`, string(b))
}

func TestMemberType(t *testing.T) {
	for s, want := range map[string]model.MemberType{
		"student": model.MemberTypeStudent,
		"Faculty": model.MemberTypeFaculty,
		"STAFF":   model.MemberTypeStaff,
	} {
		got, err := model.ParseMemberType(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := model.ParseMemberType("alumni")
	assert.ErrorIs(t, err, model.ErrUnknownMemberType)

	m := model.Member{FirstName: " Ada ", LastName: "Lovelace"}
	require.NoError(t, m.Normalize())
	assert.Equal(t, "Ada", m.FirstName)
	assert.Equal(t, model.MemberTypeStudent, m.MemberType)

	var v struct {
		T model.MemberType `json:"member_type"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"member_type":"alumni"}`), &v))
	require.NoError(t, json.Unmarshal([]byte(`{"member_type":"staff"}`), &v))
	assert.Equal(t, model.MemberTypeStaff, v.T)
	_, err = json.Marshal(struct{ T model.MemberType }{})
	assert.Error(t, err, "the zero member type must not be encoded")
}

func TestCatalogNormalization(t *testing.T) {
	a := model.Author{FirstName: "  george  r. r.", LastName: "MARTIN"}
	require.NoError(t, a.Normalize())
	assert.Equal(t, "George R. R. Martin", a.FullName())

	b := model.Book{Title: " Dune ", TotalCopies: 2, AvailableCopies: 3}
	assert.ErrorIs(t, b.Normalize(), model.ErrAvailableExceedsTotal)
	b.AvailableCopies = -1
	assert.ErrorIs(t, b.Normalize(), model.ErrNegativeCopies)
	b.AvailableCopies = 2
	require.NoError(t, b.Normalize())
	assert.Equal(t, "Dune", b.Title)

	r := model.Review{Rating: 6}
	assert.ErrorIs(t, r.Normalize(), model.ErrRatingOutOfRange)
	today := model.MustParseDate("2025-08-29")
	r.Stamp(today)
	assert.Equal(t, today, *r.ReviewDate)
}

func TestSemVer(t *testing.T) {
	for in, want := range map[string]model.SemVer{
		"1.2.3": {1, 2, 3},
		"2.1":   {2, 1, 0},
		"4":     {4, 0, 0},
	} {
		v, err := model.ParseSemVer(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, v, in)
	}
	for _, in := range []string{"", "1.2.3.4", "1.x.0", "-1.0.0"} {
		_, err := model.ParseSemVer(in)
		assert.Error(t, err, in)
	}
	v := model.SemVer{1, 2, 0}
	assert.True(t, v.Supports(model.SemVer{1, 0, 7}))
	assert.True(t, v.Supports(model.SemVer{1, 2, 9}))
	assert.False(t, v.Supports(model.SemVer{1, 3, 0}))
	assert.False(t, v.Supports(model.SemVer{2, 0, 0}))

	b, err := json.Marshal(struct{ V model.SemVer }{v})
	require.NoError(t, err)
	assert.JSONEq(t, `{"V": "1.2.0"}`, string(b))
}
