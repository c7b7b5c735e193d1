// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Names of the passwords files in the pass-dir directory. The new file
// holds the renewed passwords until their database transaction commits.
const (
	passFile    = ".pgpass"
	newPassFile = ".pgpass.new"
)

// passEntry is a line of a pgpass file:
//
//	hostname:port:database:username:password
//
// The first four fields may be `*` in order to match anything. The `:`
// and `\` characters are escaped by a backslash.
type passEntry [5]string

// matches reports whether e applies to the given connection items.
func (e passEntry) matches(host string, port int, db, role string) bool {
	for i, v := range [4]string{host, strconv.Itoa(port), db, role} {
		if e[i] != "*" && e[i] != v {
			return false
		}
	}
	return true
}

func (e passEntry) String() string {
	esc := strings.NewReplacer(`\`, `\\`, `:`, `\:`)
	fs := make([]string, len(e))
	for i, f := range e {
		fs[i] = esc.Replace(f)
	}
	return strings.Join(fs, ":")
}

// parsePassEntry splits a pgpass line. Empty and `#` lines give false.
func parsePassEntry(line string) (e passEntry, ok bool, err error) {
	line = strings.TrimRight(line, "\r")
	if line == "" || line[0] == '#' {
		return e, false, nil
	}
	i := 0
	var b strings.Builder
	for j := 0; j < len(line); j++ {
		switch c := line[j]; {
		case c == '\\' && j+1 < len(line):
			j++
			b.WriteByte(line[j])
		case c == ':' && i < len(e)-1:
			e[i] = b.String()
			b.Reset()
			i++
		default:
			b.WriteByte(c)
		}
	}
	if i != len(e)-1 {
		return e, false, fmt.Errorf("%d fields instead of 5", i+1)
	}
	e[i] = b.String()
	return e, true, nil
}

// lookupPassword finds the password of the first matching line of the
// path pgpass file.
func lookupPassword(
	path, host string, port int, db, role string,
) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	for n, line := range strings.Split(string(data), "\n") {
		e, ok, err := parsePassEntry(line)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", n+1, err)
		}
		if ok && e.matches(host, port, db, role) && e[4] != "" {
			return e[4], nil
		}
	}
	return "", fmt.Errorf("no matching password line for %q", role)
}

// writePassFile replaces the path file with the given entries, so it
// is only readable by the current user as expected by libpq.
func writePassFile(path string, entries []passEntry) error {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o600)
}
