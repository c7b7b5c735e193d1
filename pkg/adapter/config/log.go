// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Log contains the structured logging settings.
type Log struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, or error
	Format string `yaml:"format,omitempty"` // text or json
	Source bool   `yaml:"source,omitempty"` // whether to log file:line

	level slog.Level
}

// ValidateAndNormalize parses the level and checks the format, using
// info and text as their defaults.
func (l *Log) ValidateAndNormalize() error {
	if l.Level == "" {
		l.Level = "info"
	}
	if err := l.level.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	l.Level = strings.ToLower(l.level.String())
	switch l.Format = strings.ToLower(l.Format); l.Format {
	case "":
		l.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %q", l.Format)
	}
	return nil
}

// NewLogger creates a logger which writes to w based on the `l`
// settings. ValidateAndNormalize must be called beforehand.
func (l Log) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: l.Source,
		Level:     l.level,
	}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Install makes a logger, as created by NewLogger, the default logger.
func (l Log) Install(w io.Writer) {
	slog.SetDefault(l.NewLogger(w))
}
