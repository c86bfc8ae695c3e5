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
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereumpm/ethpm/etherscan"
	"github.com/ethereumpm/ethpm/swarm"
)

var errTxNotFound = errors.New("not found")

// testBackend is an in-memory chain serving the calls of the messenger.
type testBackend struct {
	mu       sync.Mutex
	chainID  *big.Int
	txs      map[common.Hash]*types.Transaction
	sent     []*types.Transaction
	lookups  int
	estimate ethereum.CallMsg
}

func newTestBackend() *testBackend {
	return &testBackend{chainID: big.NewInt(11155111), txs: make(map[common.Hash]*types.Transaction)}
}

func (b *testBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(b.chainID), nil
}

func (b *testBackend) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lookups++
	if tx, ok := b.txs[hash]; ok {
		return tx, false, nil
	}
	return nil, false, errTxNotFound
}

func (b *testBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.estimate = call
	return 21000 + 16*uint64(len(call.Data)), nil
}

func (b *testBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(2_000_000_000), nil
}

func (b *testBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var nonce uint64
	for _, tx := range b.sent {
		if from, _ := types.Sender(types.LatestSignerForChainID(b.chainID), tx); from == account {
			nonce++
		}
	}
	return nonce, nil
}

func (b *testBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, tx)
	b.txs[tx.Hash()] = tx
	return nil
}

// testHistory serves account histories built from transactions.
type testHistory struct {
	mu    sync.Mutex
	txs   []*etherscan.Transaction
	calls int
	err   error
}

func (h *testHistory) add(tx *types.Transaction, from common.Address) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.txs = append(h.txs, &etherscan.Transaction{
		BlockNumber: uint64(len(h.txs) + 1),
		Hash:        tx.Hash(),
		From:        from,
		To:          tx.To(),
		Value:       tx.Value(),
		Input:       tx.Data(),
	})
}

func (h *testHistory) History(ctx context.Context, addr common.Address) ([]*etherscan.Transaction, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	if h.err != nil {
		return nil, h.err
	}
	var txs []*etherscan.Transaction
	for _, tx := range h.txs {
		if tx.From == addr || (tx.To != nil && *tx.To == addr) {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

// testStorage is a content addressed in-memory store.
type testStorage struct {
	mu      sync.Mutex
	content map[string]string
}

func newTestStorage() *testStorage {
	return &testStorage{content: make(map[string]string)}
}

func (s *testStorage) Upload(ctx context.Context, content string) (string, error) {
	if content == "" {
		return "", swarm.ErrEmptyContent
	}
	sum := sha256.Sum256([]byte(content))
	hash := hex.EncodeToString(sum[:])
	s.mu.Lock()
	s.content[hash] = content
	s.mu.Unlock()
	return hash, nil
}

func (s *testStorage) Download(ctx context.Context, hash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.content[hash]
	if !ok {
		return "", swarm.ErrNotFound
	}
	return content, nil
}

// signedTransfer signs a plain transfer from key, registers it with the
// backend and the history, and returns it.
func signedTransfer(t *testing.T, b *testBackend, h *testHistory, key []byte, signer types.Signer, txdata types.TxData) *types.Transaction {
	t.Helper()
	prv, err := crypto.ToECDSA(key)
	if err != nil {
		t.Fatal(err)
	}
	tx, err := types.SignTx(types.NewTx(txdata), signer, prv)
	if err != nil {
		t.Fatal(err)
	}
	b.mu.Lock()
	b.txs[tx.Hash()] = tx
	b.mu.Unlock()
	if h != nil {
		h.add(tx, crypto.PubkeyToAddress(prv.PublicKey))
	}
	return tx
}

func mustKey(t *testing.T) []byte {
	t.Helper()
	prv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	return crypto.FromECDSA(prv)
}
