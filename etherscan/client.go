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

// Package etherscan implements a client for the account history endpoint of
// Etherscan compatible block explorer APIs.
package etherscan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("explorer rate limit reached")

// noResults is the message explorers answer with for accounts without history.
const noResults = "No transactions found"

// Config holds configuration options for the client.
type Config struct {
	URL        string        // API endpoint, e.g. https://api.etherscan.io/api
	APIKey     string        // optional API key
	Timeout    time.Duration // timeout of a single request (default 10s)
	RateLimit  float64       // maximum requests / second (default 5)
	HTTPClient *http.Client  // defaults to http.DefaultClient
	Logger     log.Logger    // destination of client log messages (defaults to root logger)
}

func (cfg Config) withDefaults() Config {
	const (
		defaultTimeout   = 10 * time.Second
		defaultRateLimit = 5
	)
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Root()
	}
	return cfg
}

// Client queries the transaction history of accounts.
type Client struct {
	cfg       Config
	ratelimit *rate.Limiter
}

// NewClient creates a client.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:       cfg,
		ratelimit: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
	}
}

// response is the envelope of every explorer API reply. Result holds a list
// on success and an error description otherwise.
type response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// History returns the normal transactions sent from or to the given address,
// oldest first.
func (c *Client) History(ctx context.Context, addr common.Address) ([]*Transaction, error) {
	query := url.Values{
		"module":     {"account"},
		"action":     {"txlist"},
		"address":    {addr.Hex()},
		"startblock": {"0"},
		"endblock":   {"99999999"},
		"sort":       {"asc"},
	}
	if c.cfg.APIKey != "" {
		query.Set("apikey", c.cfg.APIKey)
	}
	var raw []rpcTransaction
	if err := c.get(ctx, query, &raw); err != nil {
		return nil, err
	}
	txs := make([]*Transaction, 0, len(raw))
	for i := range raw {
		tx, err := raw[i].toTransaction()
		if err != nil {
			return nil, fmt.Errorf("invalid transaction %s in history: %w", raw[i].Hash, err)
		}
		txs = append(txs, tx)
	}
	c.cfg.Logger.Debug("Fetched account history", "address", addr, "txs", len(txs))
	return txs, nil
}

func (c *Client) get(ctx context.Context, query url.Values, result interface{}) error {
	if err := c.ratelimit.Wait(ctx); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint := c.cfg.URL
	if strings.Contains(endpoint, "?") {
		endpoint += "&" + query.Encode()
	} else {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP status: %s", res.Status)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("invalid explorer response: %w", err)
	}
	if resp.Status != "1" {
		if resp.Message == noResults {
			return nil
		}
		var detail string
		if err := json.Unmarshal(resp.Result, &detail); err != nil || detail == "" {
			detail = resp.Message
		}
		if strings.Contains(strings.ToLower(detail), "rate limit") {
			return fmt.Errorf("%w: %s", ErrRateLimited, detail)
		}
		return fmt.Errorf("explorer error: %s", detail)
	}
	return json.Unmarshal(resp.Result, result)
}
