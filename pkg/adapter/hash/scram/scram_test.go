// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scram_test

import (
	"strings"
	"testing"

	"github.com/momeni/clean-library/pkg/adapter/hash/scram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForMethod(t *testing.T) {
	m, err := scram.ForMethod("")
	require.NoError(t, err)
	assert.Same(t, m, mustMethod(t, "SCRAM-SHA-256"))
	_, err = scram.ForMethod("md5")
	assert.ErrorContains(t, err, "scram-sha-1, scram-sha-256")
}

func mustMethod(t *testing.T, name string) *scram.Mechanism {
	m, err := scram.ForMethod(name)
	require.NoError(t, err, name)
	return m
}

func TestHashIsDeterministicForASalt(t *testing.T) {
	const salt = "c2FsdHlzYWx0eXNhbHR5"
	for _, tc := range []struct {
		method, prefix string
	}{
		{"scram-sha-1", "SCRAM-SHA-1$4096:" + salt + "$"},
		{"scram-sha-256", "SCRAM-SHA-256$4096:" + salt + "$"},
	} {
		m := mustMethod(t, tc.method)
		h1, err := m.Hash("pencil", salt, 4096)
		require.NoError(t, err)
		h2, err := m.Hash("pencil", salt, 4096)
		require.NoError(t, err)
		assert.Equal(t, h1, h2)
		assert.True(t, strings.HasPrefix(h1, tc.prefix), h1)

		h3, err := m.Hash("pencil2", salt, 4096)
		require.NoError(t, err)
		assert.NotEqual(t, h1, h3)
	}
}

func TestHashUsesRandomSalt(t *testing.T) {
	m := scram.SHA256()
	h1, err := m.Hash("pencil", "", 15000)
	require.NoError(t, err)
	h2, err := m.Hash("pencil", "", 15000)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
	assert.Regexp(t, `^SCRAM-SHA-256\$15000:[A-Za-z0-9+/=]{44}\$[^:]+:[^:]+$`, h1)
}

func TestHashRejectsBadInputs(t *testing.T) {
	m := scram.SHA256()
	_, err := m.Hash("", "", 4096)
	assert.Error(t, err)
	_, err = m.Hash("pencil", "", 100)
	assert.Error(t, err)
	_, err = m.Hash("pencil", "%%%", 4096)
	assert.Error(t, err)
}
