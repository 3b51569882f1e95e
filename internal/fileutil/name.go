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

package fileutil

import (
	"regexp"
	"strings"
)

const safeNameMaxRunes = 100

var reservedCharRegex = regexp.MustCompile(`[^\p{L}\p{N}_-]`)

var reservedNamesRegex = regexp.MustCompile(
	`(?i)^(CON|PRN|AUX|NUL|COM[1-9]|LPT[1-9])$`,
)

// SafeName converts name into a string safe to use as a filesystem file or
// directory name: lowercased, every character other than a Unicode letter,
// a Unicode digit, "_" or "-" replaced with "_", reserved Windows device
// names wrapped with underscores, and
// truncated to at most 100 runes.
func SafeName(name string) string {
	if name == "" {
		return ""
	}
	if reservedNamesRegex.MatchString(name) {
		return "_" + strings.ToLower(name) + "_"
	}
	lower := strings.ToLower(name)
	safe := reservedCharRegex.ReplaceAllString(lower, "_")
	runes := []rune(safe)
	if len(runes) > safeNameMaxRunes {
		runes = runes[:safeNameMaxRunes]
	}
	return string(runes)
}
