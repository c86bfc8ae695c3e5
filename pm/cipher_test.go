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
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

func TestEncryptDecrypt(t *testing.T) {
	prv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("meet me at block 18000000 ✓")
	ct, err := EncryptMessage(&prv.PublicKey, msg)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(ct), "meet me") {
		t.Fatal("ciphertext contains plaintext")
	}
	pt, err := DecryptMessage(prv, ct)
	if err != nil {
		t.Fatal(err)
	}
	if string(pt) != string(msg) {
		t.Fatalf("plaintext mismatch: have %q, want %q", pt, msg)
	}

	other, _ := crypto.GenerateKey()
	if _, err := DecryptMessage(other, ct); err == nil {
		t.Fatal("decryption with the wrong key succeeded")
	}
}

func TestParsePrivateKey(t *testing.T) {
	const hexkey = "62B29D1AE19BF09856447A165E1DD4EE802726BAF3CDBA38250860B6460921C6"
	for _, in := range []string{hexkey, "0x" + hexkey, " 0x" + strings.ToLower(hexkey) + "\n"} {
		prv, err := ParsePrivateKey(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if have := hexutil.Encode(crypto.FromECDSA(prv)); have != "0x"+strings.ToLower(hexkey) {
			t.Fatalf("%q: wrong key %s", in, have)
		}
	}
	for _, in := range []string{"", "0x", "zz", hexkey[:60]} {
		if _, err := ParsePrivateKey(in); !errors.Is(err, ErrInvalidPrivateKey) {
			t.Errorf("%q: expected ErrInvalidPrivateKey, got %v", in, err)
		}
	}
}

func TestParsePublicKey(t *testing.T) {
	prv, _ := crypto.GenerateKey()
	want := crypto.PubkeyToAddress(prv.PublicKey)

	encoded := EncodePublicKey(&prv.PublicKey)
	if !strings.HasPrefix(encoded, "0x04") || len(encoded) != 2+130 {
		t.Fatalf("unexpected encoding %s", encoded)
	}
	for _, in := range []string{
		encoded,
		strings.TrimPrefix(encoded, "0x"),
		hexutil.Encode(crypto.CompressPubkey(&prv.PublicKey)),
	} {
		pub, err := ParsePublicKey(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if crypto.PubkeyToAddress(*pub) != want {
			t.Fatalf("%q: wrong key", in)
		}
	}
	for _, in := range []string{"", "0x04", "0x" + strings.Repeat("00", 65), "nothex"} {
		if _, err := ParsePublicKey(in); !errors.Is(err, ErrInvalidPublicKey) {
			t.Errorf("%q: expected ErrInvalidPublicKey, got %v", in, err)
		}
	}
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress(" 0xd36722adec3edcb29c8e7b5a47f352d701393462 ")
	if err != nil {
		t.Fatal(err)
	}
	if addr.Hex() != "0xD36722ADeC3EdCB29c8e7b5a47f352D701393462" {
		t.Fatalf("wrong address %s", addr.Hex())
	}
	if _, err := ParseAddress("0x1234"); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}
