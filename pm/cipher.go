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
	"crypto/ecdsa"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/crypto/ecies"
)

var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidPublicKey  = errors.New("invalid public key")
	ErrInvalidAddress    = errors.New("invalid address")
)

// EncryptMessage encrypts msg to the owner of pub using ECIES over secp256k1.
func EncryptMessage(pub *ecdsa.PublicKey, msg []byte) ([]byte, error) {
	return ecies.Encrypt(rand.Reader, ecies.ImportECDSAPublic(pub), msg, nil, nil)
}

// DecryptMessage decrypts a ciphertext produced by EncryptMessage.
func DecryptMessage(prv *ecdsa.PrivateKey, ct []byte) ([]byte, error) {
	return ecies.ImportECDSA(prv).Decrypt(ct, nil, nil)
}

// ParsePrivateKey parses a hex encoded secp256k1 private key, with or
// without 0x prefix.
func ParsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return key, nil
}

// ParsePublicKey parses a hex encoded public key in uncompressed (65 bytes)
// or compressed (33 bytes) form.
func ParsePublicKey(s string) (*ecdsa.PublicKey, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	var pub *ecdsa.PublicKey
	switch len(b) {
	case 65:
		pub, err = crypto.UnmarshalPubkey(b)
	case 33:
		pub, err = crypto.DecompressPubkey(b)
	default:
		return nil, fmt.Errorf("%w: unexpected length %d", ErrInvalidPublicKey, len(b))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return pub, nil
}

// EncodePublicKey returns the 0x prefixed uncompressed hex form of pub.
func EncodePublicKey(pub *ecdsa.PublicKey) string {
	return hexutil.Encode(crypto.FromECDSAPub(pub))
}

// ParseAddress parses a hex encoded Ethereum address.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}
