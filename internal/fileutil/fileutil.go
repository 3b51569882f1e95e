// Copyright (C) 2024 The Dagu Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Package fileutil provides filesystem and path helpers shared across the
// pipeline loader, run log store, and logger packages.
package fileutil

import (
	"log"
	"os"
	"strings"
	"time"

	"mvdan.cc/sh/v3/shell"
)

const dateFormat = "2006-01-02T15:04:05Z07:00"
const legacyDateFormat = "2006-01-02 15:04:05"
const noTimestamp = "-"

// MustGetUserHomeDir returns the user's home directory, panicking on failure.
func MustGetUserHomeDir() string {
	hd, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return hd
}

// MustGetwd returns the current working directory, panicking on failure.
func MustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return wd
}

// FormatTime renders t in RFC3339 form, or "-" for the zero value.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return noTimestamp
	}
	return t.Format(dateFormat)
}

// ParseTime parses a value produced by FormatTime, also accepting the
// legacy "2006-01-02 15:04:05" local-time layout.
func ParseTime(value string) (time.Time, error) {
	if value == noTimestamp || value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateFormat, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation(legacyDateFormat, value, time.Now().Location())
}

// SplitCommand splits a command line into a command name and its arguments
// using shell word splitting: quotes are removed and $VAR/${VAR} references
// are expanded from the process environment. A line the shell expander
// rejects (for example one containing command substitution) is split on
// whitespace instead, with nothing expanded or unquoted.
func SplitCommand(command string) (string, []string) {
	fields, err := shell.Fields(command, nil)
	if err != nil || len(fields) == 0 {
		fields = strings.Fields(command)
	}
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// SplitCommandWithParse expands $VAR/${VAR} references in command before
// splitting it with SplitCommand. Command substitution (`...` or $(...)) is
// not executed: a line containing one is passed to SplitCommand unexpanded.
func SplitCommandWithParse(command string) (string, []string) {
	expanded, err := shell.Expand(command, os.Getenv)
	if err != nil {
		expanded = command
	}
	return SplitCommand(expanded)
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// OpenOrCreateFile opens path for append, creating it (and no parent dirs)
// if it does not already exist.
func OpenOrCreateFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
}

// MustTempDir creates a temporary directory prefixed with pattern, panicking
// on failure.
func MustTempDir(pattern string) string {
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		panic(err)
	}
	return dir
}

// LogErr logs err under the given action label if err is non-nil.
func LogErr(action string, err error) {
	if err != nil {
		log.Printf("%s failed: %s", action, err)
	}
}

// TruncString truncates s to at most limit runes.
func TruncString(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// IsYAMLFile reports whether file has a .yaml or .yml extension.
func IsYAMLFile(file string) bool {
	return strings.HasSuffix(file, ".yaml") || strings.HasSuffix(file, ".yml")
}

// AddYAMLExtension normalizes file to a .yaml suffix, appending one if file
// has no recognized extension and converting a .yml suffix to .yaml.
func AddYAMLExtension(file string) string {
	if file == "" {
		return ""
	}
	switch {
	case strings.HasSuffix(file, ".yaml"):
		return file
	case strings.HasSuffix(file, ".yml"):
		return strings.TrimSuffix(file, ".yml") + ".yaml"
	case strings.Contains(file, "."):
		return file
	default:
		return file + ".yaml"
	}
}
