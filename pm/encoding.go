// Copyright 2026 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package pm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidEncoding = errors.New("invalid byte encoding")

// SerializeBytes encodes b as its decimal byte values joined by commas,
// e.g. "4,191,22". This is the format message ciphertexts are stored in.
func SerializeBytes(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 4)
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(v)))
	}
	return sb.String()
}

// DeserializeBytes is the inverse of SerializeBytes.
func DeserializeBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []byte{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]byte, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d (%q)", ErrInvalidEncoding, i, part)
		}
		out[i] = byte(v)
	}
	return out, nil
}
