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

import "strconv"

// KeyValue is a "key=value" string, such as one process-environment entry.
type KeyValue string

// NewKeyValue builds a KeyValue from a key and a value.
func NewKeyValue(key, value string) KeyValue {
	return KeyValue(key + "=" + value)
}

// Key returns the portion of the KeyValue before the first "=".
func (kv KeyValue) Key() string {
	s := string(kv)
	if i := indexByte(s, '='); i >= 0 {
		return s[:i]
	}
	return s
}

// Value returns the portion of the KeyValue after the first "=", or "" if
// there is no "=".
func (kv KeyValue) Value() string {
	s := string(kv)
	if i := indexByte(s, '='); i >= 0 {
		return s[i+1:]
	}
	return ""
}

// Bool reports whether Value() parses as true with strconv.ParseBool
// ("1", "t", "T", "true", "TRUE" or "True").
func (kv KeyValue) Bool() bool {
	b, err := strconv.ParseBool(kv.Value())
	return err == nil && b
}

// String returns the raw "key=value" string.
func (kv KeyValue) String() string {
	return string(kv)
}

// MarshalJSON implements json.Marshaler.
func (kv KeyValue) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(kv))), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (kv *KeyValue) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	*kv = KeyValue(s)
	return nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
