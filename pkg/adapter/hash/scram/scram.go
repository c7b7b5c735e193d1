// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram hashes the libweb database role passwords in the SCRAM
// stored format which PostgreSQL accepts in its CREATE and ALTER ROLE
// statements. The mechanism is chosen by the auth-method setting of
// the database configuration using the ForMethod function.
package scram

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xdg-go/scram"
)

// DefaultMethod is the authentication method of PostgreSQL 14+ servers.
const DefaultMethod = "scram-sha-256"

// MinIterations is the least PBKDF2 iterations count which is accepted
// by the Hash method, as required by RFC 5802.
const MinIterations = 4096

// Mechanism computes the SCRAM stored credentials with a fixed hash
// function. It implements the pkg/core/scram.Hasher interface.
type Mechanism struct {
	gen    scram.HashGeneratorFcn
	keyLen int // bytes of the hash output, also used as the salt length
	prefix string
}

var mechanisms = map[string]*Mechanism{
	"scram-sha-1":   SHA1(),
	"scram-sha-256": SHA256(),
}

// ForMethod returns the mechanism of the method authentication method
// name, like scram-sha-256. Names are matched case-insensitively and
// an empty name selects the DefaultMethod.
func ForMethod(method string) (*Mechanism, error) {
	if method == "" {
		method = DefaultMethod
	}
	m, ok := mechanisms[strings.ToLower(method)]
	if !ok {
		return nil, fmt.Errorf(
			"unsupported authentication method %q (supported: %s)",
			method, strings.Join(Methods(), ", "),
		)
	}
	return m, nil
}

// Methods lists the supported authentication method names.
func Methods() []string {
	names := make([]string, 0, len(mechanisms))
	for name := range mechanisms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SHA1 returns the SCRAM-SHA-1 mechanism.
func SHA1() *Mechanism {
	return &Mechanism{gen: scram.SHA1, keyLen: 20, prefix: "SCRAM-SHA-1"}
}

// SHA256 returns the SCRAM-SHA-256 mechanism.
func SHA256() *Mechanism {
	return &Mechanism{gen: scram.SHA256, keyLen: 32, prefix: "SCRAM-SHA-256"}
}

// Hash returns the stored form of the pass password:
//
//	SCRAM-SHA-256$<iters>:<b64-salt>$<b64-storedKey>:<b64-serverKey>
//
// The salt is the base64 encoding of the salt bytes. If it is empty,
// a random salt of the hash output length is used. The pass is
// normalized with SASLprep, so passwords which it rejects are errors.
// PostgreSQL recognizes this format in a PASSWORD clause and stores it
// as is, so the plaintext password never reaches the server.
func (m *Mechanism) Hash(pass, salt string, iters int) (string, error) {
	if pass == "" {
		return "", errors.New("password must be non-empty")
	}
	if iters < MinIterations {
		return "", fmt.Errorf(
			"iters (%d) is less than %d", iters, MinIterations,
		)
	}
	if salt == "" {
		var err error
		if salt, err = m.randomSalt(); err != nil {
			return "", err
		}
	}
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("decoding base64 salt: %w", err)
	}
	// user and authzID do not affect the stored keys
	c, err := m.gen.NewClient("libweb", pass, "")
	if err != nil {
		return "", fmt.Errorf("preparing password: %w", err)
	}
	sc := c.GetStoredCredentials(scram.KeyFactors{
		Salt:  string(rawSalt),
		Iters: iters,
	})
	enc := base64.StdEncoding
	return fmt.Sprintf(
		"%s$%d:%s$%s:%s", m.prefix, iters, salt,
		enc.EncodeToString(sc.StoredKey),
		enc.EncodeToString(sc.ServerKey),
	), nil
}

func (m *Mechanism) randomSalt() (string, error) {
	b := make([]byte, m.keyLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("creating random salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
