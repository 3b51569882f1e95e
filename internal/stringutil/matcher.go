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

package stringutil

import (
	"bufio"
	"context"
	"regexp"
	"strings"
)

const regexPrefix = "re:"

// MatchPattern reports whether val matches any of patterns. A pattern
// prefixed with "re:" is treated as a regular expression; any other
// pattern must match val exactly. An empty patterns slice never matches.
func MatchPattern(_ context.Context, val string, patterns []string) bool {
	for _, p := range patterns {
		if matchOne(val, p) {
			return true
		}
	}
	return false
}

// MatchPatternScanner reports whether any line produced by scanner matches
// any of patterns, using the same rules as MatchPattern.
func MatchPatternScanner(_ context.Context, scanner *bufio.Scanner, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	any := false
	for scanner.Scan() {
		any = true
		line := scanner.Text()
		for _, p := range patterns {
			if matchOne(line, p) {
				return true
			}
		}
	}
	if !any {
		// empty input: treat as a single empty line, matching MatchPattern's
		// behavior on an empty value.
		for _, p := range patterns {
			if matchOne("", p) {
				return true
			}
		}
	}
	return false
}

func matchOne(val, pattern string) bool {
	if strings.HasPrefix(pattern, regexPrefix) {
		re, err := regexp.Compile(strings.TrimPrefix(pattern, regexPrefix))
		if err != nil {
			return false
		}
		return re.MatchString(val)
	}
	return val == pattern
}
