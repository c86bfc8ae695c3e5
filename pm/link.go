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
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereumpm/ethpm/swarm"
)

// SwarmHashParam is the query parameter of message links holding the hash.
const SwarmHashParam = "swarm-hash"

var ErrNoSwarmHash = errors.New("no swarm hash in link")

// MessageLink returns the link announcing the message stored under hash,
// e.g. https://ethereumpm.com?swarm-hash=<hash>.
func MessageLink(origin, hash string) string {
	return origin + "?" + SwarmHashParam + "=" + url.QueryEscape(hash)
}

// ParseMessageLink extracts the swarm hash from a message link. A bare hash
// is returned as is.
func ParseMessageLink(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrNoSwarmHash
	}
	if swarm.ValidHash(s) {
		return s, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSwarmHash, err)
	}
	hash := u.Query().Get(SwarmHashParam)
	if hash == "" {
		return "", ErrNoSwarmHash
	}
	if !swarm.ValidHash(hash) {
		return "", fmt.Errorf("%w: %q", swarm.ErrInvalidHash, hash)
	}
	return hash, nil
}
