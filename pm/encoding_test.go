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
	"bytes"
	"errors"
	"testing"
)

func TestSerializeBytes(t *testing.T) {
	tests := []struct {
		in  []byte
		out string
	}{
		{[]byte{}, ""},
		{[]byte{0}, "0"},
		{[]byte{1, 2, 255}, "1,2,255"},
		{[]byte("hi"), "104,105"},
	}
	for _, tt := range tests {
		if have := SerializeBytes(tt.in); have != tt.out {
			t.Errorf("SerializeBytes(%v) = %q, want %q", tt.in, have, tt.out)
		}
		back, err := DeserializeBytes(tt.out)
		if err != nil {
			t.Fatalf("DeserializeBytes(%q) failed: %v", tt.out, err)
		}
		if !bytes.Equal(back, tt.in) {
			t.Errorf("DeserializeBytes(%q) = %v, want %v", tt.out, back, tt.in)
		}
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	all := make([]byte, 512)
	for i := range all {
		all[i] = byte(i)
	}
	back, err := DeserializeBytes(SerializeBytes(all))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(back, all) {
		t.Fatal("round trip mismatch")
	}
}

func TestDeserializeBytesLenient(t *testing.T) {
	have, err := DeserializeBytes(" 4, 191 ,22\n")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(have, []byte{4, 191, 22}) {
		t.Fatalf("have %v", have)
	}
}

func TestDeserializeBytesInvalid(t *testing.T) {
	for _, in := range []string{"1,,2", "256", "-1", "a,b", "1.5", "1,2,"} {
		if _, err := DeserializeBytes(in); !errors.Is(err, ErrInvalidEncoding) {
			t.Errorf("DeserializeBytes(%q): expected ErrInvalidEncoding, got %v", in, err)
		}
	}
}
