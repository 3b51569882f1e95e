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
	"crypto/sha256"
	"fmt"
	"math/big"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

type base58Error struct {
	char byte
}

func (e *base58Error) Error() string {
	return fmt.Sprintf("invalid base58 character: %c", e.char)
}

var base58Index [256]int

func init() {
	for i := range base58Index {
		base58Index[i] = -1
	}
	for i := 0; i < len(base58Alphabet); i++ {
		base58Index[base58Alphabet[i]] = i
	}
}

// Base58EncodeSHA256 hashes input with SHA-256 and returns the digest
// base58-encoded. Used to compute dag_hash: a deterministic, URL- and
// filename-safe content hash of a DAG definition.
func Base58EncodeSHA256(input string) string {
	sum := sha256.Sum256([]byte(input))
	return Base58Encode(sum[:])
}

// Base58Encode encodes data using the Bitcoin base58 alphabet.
func Base58Encode(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	zeros := 0
	for zeros < len(data) && data[zeros] == 0 {
		zeros++
	}

	num := new(big.Int).SetBytes(data)
	base := big.NewInt(58)
	mod := new(big.Int)
	var out []byte

	for num.Sign() > 0 {
		num.DivMod(num, base, mod)
		out = append(out, base58Alphabet[mod.Int64()])
	}

	for i := 0; i < zeros; i++ {
		out = append(out, base58Alphabet[0])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return string(out)
}

// Base58Decode decodes a base58 string into the original bytes.
func Base58Decode(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}

	zeros := 0
	for zeros < len(s) && s[zeros] == base58Alphabet[0] {
		zeros++
	}

	num := big.NewInt(0)
	base := big.NewInt(58)
	for i := 0; i < len(s); i++ {
		idx := base58Index[s[i]]
		if idx < 0 {
			return nil, &base58Error{char: s[i]}
		}
		num.Mul(num, base)
		num.Add(num, big.NewInt(int64(idx)))
	}

	decoded := num.Bytes()
	out := make([]byte, zeros, zeros+len(decoded))
	out = append(out, decoded...)
	return out, nil
}
