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
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

func TestRecoverPublicKey(t *testing.T) {
	var (
		chainID = big.NewInt(11155111)
		to      = common.HexToAddress("0x8f29c5f3b6b4f66e4e40db3d7f53c6fa9b1e2dd1")
		backend = newTestBackend()
	)
	tests := []struct {
		name   string
		signer types.Signer
		txdata types.TxData
	}{
		{
			"homestead",
			types.HomesteadSigner{},
			&types.LegacyTx{Nonce: 1, GasPrice: big.NewInt(10), Gas: 21000, To: &to, Value: big.NewInt(1)},
		},
		{
			"eip155",
			types.NewEIP155Signer(chainID),
			&types.LegacyTx{Nonce: 2, GasPrice: big.NewInt(10), Gas: 21000, To: &to, Data: []byte("hello")},
		},
		{
			"dynamic fee",
			types.NewLondonSigner(chainID),
			&types.DynamicFeeTx{ChainID: chainID, Nonce: 3, GasTipCap: big.NewInt(1), GasFeeCap: big.NewInt(10), Gas: 21000, To: &to},
		},
		{
			"access list",
			types.NewLondonSigner(chainID),
			&types.AccessListTx{ChainID: chainID, Nonce: 4, GasPrice: big.NewInt(10), Gas: 21000, To: &to},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := mustKey(t)
			tx := signedTransfer(t, backend, nil, key, tt.signer, tt.txdata)

			pub, err := RecoverPublicKey(tx)
			if err != nil {
				t.Fatal(err)
			}
			prv, _ := crypto.ToECDSA(key)
			if crypto.PubkeyToAddress(*pub) != crypto.PubkeyToAddress(prv.PublicKey) {
				t.Fatalf("recovered wrong key")
			}
		})
	}
}

func TestRecoverPublicKeyUnsigned(t *testing.T) {
	tx := types.NewTx(&types.LegacyTx{Nonce: 1, GasPrice: big.NewInt(1), Gas: 21000})
	if _, err := RecoverPublicKey(tx); !errors.Is(err, ErrUnsignedTransaction) {
		t.Fatalf("expected ErrUnsignedTransaction, got %v", err)
	}
}

func TestResolverPublicKey(t *testing.T) {
	var (
		backend = newTestBackend()
		history = new(testHistory)
		signer  = types.LatestSignerForChainID(backend.chainID)
		alice   = mustKey(t)
		bob     = mustKey(t)
	)
	alicePrv, _ := crypto.ToECDSA(alice)
	aliceAddr := crypto.PubkeyToAddress(alicePrv.PublicKey)

	// Bob pays Alice first: the first history entry of Alice is incoming
	// and must be skipped.
	signedTransfer(t, backend, history, bob, signer, &types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(1), Gas: 21000, To: &aliceAddr})
	signedTransfer(t, backend, history, alice, signer, &types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(1), Gas: 21000, To: &common.Address{1}})

	resolver := NewResolver(history, backend, 16)
	pub, err := resolver.PublicKey(context.Background(), aliceAddr)
	if err != nil {
		t.Fatal(err)
	}
	if EncodePublicKey(pub) != EncodePublicKey(&alicePrv.PublicKey) {
		t.Fatal("resolved wrong key")
	}
	if backend.lookups != 1 {
		t.Fatalf("expected 1 transaction lookup, got %d", backend.lookups)
	}

	// Served from the cache.
	if _, err := resolver.PublicKey(context.Background(), aliceAddr); err != nil {
		t.Fatal(err)
	}
	if history.calls != 1 || backend.lookups != 1 {
		t.Fatalf("cache miss: history calls %d, lookups %d", history.calls, backend.lookups)
	}
}

func TestResolverNoSignedTransaction(t *testing.T) {
	var (
		backend = newTestBackend()
		history = new(testHistory)
		signer  = types.LatestSignerForChainID(backend.chainID)
		bob     = mustKey(t)
		target  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	)
	signedTransfer(t, backend, history, bob, signer, &types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(1), Gas: 21000, To: &target})

	resolver := NewResolver(history, backend, 16)
	if _, err := resolver.PublicKey(context.Background(), target); !errors.Is(err, ErrNoSignedTransaction) {
		t.Fatalf("expected ErrNoSignedTransaction, got %v", err)
	}
}

func TestResolverSkipsUnknownTransactions(t *testing.T) {
	var (
		backend = newTestBackend()
		history = new(testHistory)
		signer  = types.LatestSignerForChainID(backend.chainID)
		alice   = mustKey(t)
	)
	alicePrv, _ := crypto.ToECDSA(alice)
	aliceAddr := crypto.PubkeyToAddress(alicePrv.PublicKey)

	first := signedTransfer(t, backend, history, alice, signer, &types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(1), Gas: 21000, To: &common.Address{1}})
	signedTransfer(t, backend, history, alice, signer, &types.LegacyTx{Nonce: 1, GasPrice: big.NewInt(1), Gas: 21000, To: &common.Address{2}})
	delete(backend.txs, first.Hash())

	resolver := NewResolver(history, backend, 16)
	pub, err := resolver.PublicKey(context.Background(), aliceAddr)
	if err != nil {
		t.Fatal(err)
	}
	if crypto.PubkeyToAddress(*pub) != aliceAddr {
		t.Fatal("resolved wrong key")
	}
}

func TestResolverHistoryError(t *testing.T) {
	history := &testHistory{err: errors.New("explorer down")}
	resolver := NewResolver(history, newTestBackend(), 16)
	if _, err := resolver.PublicKey(context.Background(), common.Address{1}); err == nil {
		t.Fatal("expected error")
	}
}

func TestResolverConcurrent(t *testing.T) {
	var (
		backend = newTestBackend()
		history = new(testHistory)
		signer  = types.LatestSignerForChainID(backend.chainID)
		alice   = mustKey(t)
	)
	alicePrv, _ := crypto.ToECDSA(alice)
	aliceAddr := crypto.PubkeyToAddress(alicePrv.PublicKey)
	signedTransfer(t, backend, history, alice, signer, &types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(1), Gas: 21000, To: &common.Address{1}})

	resolver := NewResolver(history, backend, 16)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pub, err := resolver.PublicKey(context.Background(), aliceAddr)
			if err != nil {
				t.Error(err)
				return
			}
			if crypto.PubkeyToAddress(*pub) != aliceAddr {
				t.Error("resolved wrong key")
			}
		}()
	}
	wg.Wait()
}
