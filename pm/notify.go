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
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
)

// Notifier announces messages with value-less transactions to the recipient.
type Notifier struct {
	backend Backend
	log     log.Logger
}

// NewNotifier creates a notifier sending through backend.
func NewNotifier(backend Backend) *Notifier {
	return &Notifier{backend: backend, log: log.New("module", "notifier")}
}

// Notify sends a transaction from prv's account to to, carrying the UTF-8
// bytes of link as data.
func (n *Notifier) Notify(ctx context.Context, prv *ecdsa.PrivateKey, to common.Address, link string) (*types.Transaction, error) {
	var (
		from = crypto.PubkeyToAddress(prv.PublicKey)
		data = []byte(link)
	)
	chainID, err := n.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve chain id: %w", err)
	}
	gasPrice, err := n.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas price: %w", err)
	}
	gas, err := n.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: new(big.Int),
		Data:  data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}
	nonce, err := n.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve nonce: %w", err)
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    new(big.Int),
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), prv)
	if err != nil {
		return nil, err
	}
	if err := n.backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to send notification: %w", err)
	}
	n.log.Info("Sent message notification", "from", from, "to", to, "tx", signed.Hash(), "nonce", nonce, "gas", gas, "gasprice", gasPrice)
	return signed, nil
}
