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

// Package swarm implements a client for the content endpoints of a Swarm
// HTTP gateway.
package swarm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// DefaultTimeout bounds a single gateway request.
const DefaultTimeout = 30 * time.Second

// maxContentSize caps downloads, messages are small text blobs.
const maxContentSize = 16 * 1024 * 1024

var (
	ErrEmptyContent = errors.New("content must not be empty")
	ErrInvalidHash  = errors.New("invalid swarm hash")
	ErrNotFound     = errors.New("content not found")
)

// hashMatcher accepts plain (32 byte) and encrypted (64 byte) references.
var hashMatcher = regexp.MustCompile("^([0-9A-Fa-f]{64})([0-9A-Fa-f]{64})?$")

// ValidHash reports whether hash is a well formed Swarm reference.
func ValidHash(hash string) bool {
	return hashMatcher.MatchString(hash)
}

// Client wraps interaction with a swarm HTTP gateway.
type Client struct {
	Gateway string
	client  *http.Client
	log     log.Logger
}

// NewClient creates a client for the gateway at the given base URL. A nil
// http client selects one with DefaultTimeout.
func NewClient(gateway string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		Gateway: strings.TrimRight(gateway, "/"),
		client:  client,
		log:     log.New("module", "swarm", "gateway", gateway),
	}
}

// Upload stores content as text/plain and returns the resulting hash, which
// makes the content available at bzz:/<hash>/.
func (c *Client) Upload(ctx context.Context, content string) (string, error) {
	if len(content) == 0 {
		return "", ErrEmptyContent
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Gateway+"/bzz:/", strings.NewReader(content))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "text/plain")
	req.ContentLength = int64(len(content))
	res, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected HTTP status: %s", res.Status)
	}
	data, err := io.ReadAll(io.LimitReader(res.Body, 1024))
	if err != nil {
		return "", err
	}
	hash := strings.TrimSpace(string(data))
	if !ValidHash(hash) {
		return "", fmt.Errorf("%w returned by gateway: %q", ErrInvalidHash, hash)
	}
	c.log.Debug("Uploaded content", "hash", hash, "size", len(content))
	return hash, nil
}

// Download fetches the content stored under the given hash (i.e. it gets
// bzz:/<hash>/).
func (c *Client) Download(ctx context.Context, hash string) (string, error) {
	if !ValidHash(hash) {
		return "", fmt.Errorf("%w: %q", ErrInvalidHash, hash)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Gateway+"/bzz:/"+hash+"/", nil)
	if err != nil {
		return "", err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrNotFound, hash)
	default:
		return "", fmt.Errorf("unexpected HTTP status: %s", res.Status)
	}
	data, err := io.ReadAll(io.LimitReader(res.Body, maxContentSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxContentSize {
		return "", fmt.Errorf("content %s exceeds %d bytes", hash, maxContentSize)
	}
	c.log.Debug("Downloaded content", "hash", hash, "size", len(data))
	return string(data), nil
}
