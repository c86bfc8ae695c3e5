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
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/sync/errgroup"
)

// InboxEntry is a notification found in the account history.
type InboxEntry struct {
	TxHash      common.Hash
	BlockNumber uint64
	Time        time.Time
	From        common.Address
	SwarmHash   string
	Link        string
	Message     *Received // nil unless fetched
	FetchErr    error     // download failure when fetching
}

// Inbox lists the message notifications sent to the account of privateKey,
// newest first. With fetch set, every message is downloaded and decrypted.
func (m *Messenger) Inbox(ctx context.Context, privateKey string, fetch bool) ([]*InboxEntry, error) {
	prv, err := ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	owner := crypto.PubkeyToAddress(prv.PublicKey)
	txs, err := m.history.History(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history of %s: %w", owner, err)
	}
	var entries []*InboxEntry
	for i := len(txs) - 1; i >= 0; i-- {
		tx := txs[i]
		if tx.Failed || tx.To == nil || *tx.To != owner || len(tx.Input) == 0 {
			continue
		}
		link := string(tx.Input)
		hash, err := ParseMessageLink(link)
		if err != nil {
			continue
		}
		entries = append(entries, &InboxEntry{
			TxHash:      tx.Hash,
			BlockNumber: tx.BlockNumber,
			Time:        tx.Time,
			From:        tx.From,
			SwarmHash:   hash,
			Link:        link,
		})
	}
	m.log.Debug("Scanned inbox", "owner", owner, "txs", len(txs), "messages", len(entries))
	if !fetch || len(entries) == 0 {
		return entries, nil
	}
	return entries, m.fetchAll(ctx, prv, entries)
}

func (m *Messenger) fetchAll(ctx context.Context, prv *ecdsa.PrivateKey, entries []*InboxEntry) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.InboxWorkers)
	for _, entry := range entries {
		entry := entry
		g.Go(func() error {
			content, err := m.storage.Download(gctx, entry.SwarmHash)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				entry.FetchErr = err
				return nil
			}
			entry.Message = &Received{SwarmHash: entry.SwarmHash, Encrypted: content}
			m.open(entry.Message, prv)
			return nil
		})
	}
	return g.Wait()
}
