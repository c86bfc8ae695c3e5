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

package etherscan

import (
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Transaction is an entry of an account's history as reported by the explorer.
type Transaction struct {
	BlockNumber uint64
	Time        time.Time
	Hash        common.Hash
	Nonce       uint64
	From        common.Address
	To          *common.Address // nil for contract creation
	Value       *big.Int
	Input       []byte
	Failed      bool
}

// rpcTransaction is the wire form, explorers report every field as a string.
type rpcTransaction struct {
	BlockNumber string `json:"blockNumber"`
	TimeStamp   string `json:"timeStamp"`
	Hash        string `json:"hash"`
	Nonce       string `json:"nonce"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	Input       string `json:"input"`
	IsError     string `json:"isError"`
}

func (r *rpcTransaction) toTransaction() (*Transaction, error) {
	if !isHexHash(r.Hash) {
		return nil, fmt.Errorf("bad hash %q", r.Hash)
	}
	if !common.IsHexAddress(r.From) {
		return nil, fmt.Errorf("bad sender %q", r.From)
	}
	tx := &Transaction{
		Hash:   common.HexToHash(r.Hash),
		From:   common.HexToAddress(r.From),
		Value:  new(big.Int),
		Failed: r.IsError == "1",
	}
	var err error
	if tx.BlockNumber, err = parseUint(r.BlockNumber); err != nil {
		return nil, fmt.Errorf("bad block number: %v", err)
	}
	if tx.Nonce, err = parseUint(r.Nonce); err != nil {
		return nil, fmt.Errorf("bad nonce: %v", err)
	}
	ts, err := parseUint(r.TimeStamp)
	if err != nil {
		return nil, fmt.Errorf("bad timestamp: %v", err)
	}
	tx.Time = time.Unix(int64(ts), 0)
	if r.To != "" {
		if !common.IsHexAddress(r.To) {
			return nil, fmt.Errorf("bad recipient %q", r.To)
		}
		to := common.HexToAddress(r.To)
		tx.To = &to
	}
	if r.Value != "" {
		if _, ok := tx.Value.SetString(r.Value, 10); !ok {
			return nil, fmt.Errorf("bad value %q", r.Value)
		}
	}
	if r.Input != "" && r.Input != "0x" {
		if tx.Input, err = hexutil.Decode(r.Input); err != nil {
			return nil, fmt.Errorf("bad input: %v", err)
		}
	}
	return tx, nil
}

func parseUint(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

func isHexHash(s string) bool {
	b, err := hexutil.Decode(s)
	return err == nil && len(b) == common.HashLength
}
