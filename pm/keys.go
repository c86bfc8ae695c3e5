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
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

var (
	ErrUnsignedTransaction = errors.New("transaction is not signed")
	ErrInvalidSignature    = errors.New("invalid transaction signature")
)

// RecoverPublicKey recovers the public key of the account that signed tx.
func RecoverPublicKey(tx *types.Transaction) (*ecdsa.PublicKey, error) {
	v, r, s := tx.RawSignatureValues()
	if v == nil || r == nil || s == nil || (r.Sign() == 0 && s.Sign() == 0) {
		return nil, ErrUnsignedTransaction
	}
	var (
		signer types.Signer
		recid  = new(big.Int).Set(v)
	)
	switch {
	case tx.Type() != types.LegacyTxType:
		signer = types.LatestSignerForChainID(tx.ChainId())
	case tx.Protected():
		// EIP-155: v = recid + chainID*2 + 35
		chainID := tx.ChainId()
		signer = types.LatestSignerForChainID(chainID)
		offset := new(big.Int).Mul(chainID, big.NewInt(2))
		recid.Sub(recid, offset.Add(offset, big.NewInt(35)))
	default:
		signer = types.HomesteadSigner{}
		recid.Sub(recid, big.NewInt(27))
	}
	if !recid.IsUint64() || recid.Uint64() > 1 {
		return nil, fmt.Errorf("%w: bad recovery id", ErrInvalidSignature)
	}
	if r.BitLen() > 256 || s.BitLen() > 256 || !crypto.ValidateSignatureValues(byte(recid.Uint64()), r, s, true) {
		return nil, ErrInvalidSignature
	}
	sig := make([]byte, crypto.SignatureLength)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:64])
	sig[crypto.RecoveryIDOffset] = byte(recid.Uint64())

	hash := signer.Hash(tx)
	pub, err := crypto.SigToPub(hash[:], sig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return pub, nil
}

// Resolver derives the public keys of accounts from transactions they have
// signed in the past.
type Resolver struct {
	history HistoryReader
	backend Backend
	cache   *lru.Cache // common.Address -> *ecdsa.PublicKey
	group   singleflight.Group
	log     log.Logger
}

// NewResolver creates a resolver caching up to cacheLimit keys.
func NewResolver(history HistoryReader, backend Backend, cacheLimit int) *Resolver {
	if cacheLimit <= 0 {
		cacheLimit = 256
	}
	cache, err := lru.New(cacheLimit)
	if err != nil {
		panic(err)
	}
	return &Resolver{
		history: history,
		backend: backend,
		cache:   cache,
		log:     log.New("module", "resolver"),
	}
}

// PublicKey returns the public key of addr. The account must have sent at
// least one transaction.
func (r *Resolver) PublicKey(ctx context.Context, addr common.Address) (*ecdsa.PublicKey, error) {
	if pub, ok := r.cache.Get(addr); ok {
		return pub.(*ecdsa.PublicKey), nil
	}
	v, err, _ := r.group.Do(addr.Hex(), func() (interface{}, error) {
		pub, err := r.resolve(ctx, addr)
		if err != nil {
			return nil, err
		}
		r.cache.Add(addr, pub)
		return pub, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ecdsa.PublicKey), nil
}

func (r *Resolver) resolve(ctx context.Context, addr common.Address) (*ecdsa.PublicKey, error) {
	txs, err := r.history.History(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history of %s: %w", addr, err)
	}
	lastErr := ErrNoSignedTransaction
	for _, entry := range txs {
		if entry.From != addr {
			continue
		}
		pub, err := r.recover(ctx, addr, entry.Hash)
		if err == nil {
			r.log.Debug("Recovered public key", "address", addr, "tx", entry.Hash)
			return pub, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.log.Debug("Could not recover public key", "address", addr, "tx", entry.Hash, "err", err)
		lastErr = err
	}
	return nil, lastErr
}

func (r *Resolver) recover(ctx context.Context, addr common.Address, hash common.Hash) (*ecdsa.PublicKey, error) {
	tx, _, err := r.backend.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", hash, err)
	}
	pub, err := RecoverPublicKey(tx)
	if err != nil {
		return nil, err
	}
	if recovered := crypto.PubkeyToAddress(*pub); recovered != addr {
		return nil, fmt.Errorf("%w: %s recovered from %s", ErrAddressMismatch, recovered, hash)
	}
	return pub, nil
}
