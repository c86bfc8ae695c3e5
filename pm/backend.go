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

// Package pm implements private messaging between Ethereum addresses. Messages
// are encrypted to the recipient's public key, stored on Swarm, and announced
// with a transaction to the recipient that carries a link to the content.
package pm

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereumpm/ethpm/etherscan"
)

var (
	ErrNoSignedTransaction = errors.New("the Ethereum address has no signed transactions")
	ErrAddressMismatch     = errors.New("recovered public key does not match address")
	ErrEmptyMessage        = errors.New("message is empty")
)

// Backend is the subset of the Ethereum JSON-RPC API the messenger needs.
// It is satisfied by *ethclient.Client.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (tx *types.Transaction, isPending bool, err error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// HistoryReader lists the transactions of an account. It is satisfied by
// *etherscan.Client.
type HistoryReader interface {
	History(ctx context.Context, addr common.Address) ([]*etherscan.Transaction, error)
}

// Storage stores and retrieves opaque text content by hash. It is satisfied
// by *swarm.Client.
type Storage interface {
	Upload(ctx context.Context, content string) (string, error)
	Download(ctx context.Context, hash string) (string, error)
}
