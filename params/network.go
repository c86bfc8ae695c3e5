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

package params

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Environment selects the set of endpoints the messenger talks to.
type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
)

// ProductionHost is the host name the production front end is served from.
const ProductionHost = "ethereumpm.com"

// DefaultSwarmGateway is the public Swarm HTTP gateway used when none is configured.
const DefaultSwarmGateway = "https://swarm-gateways.net"

var ErrUnknownEnvironment = errors.New("unknown environment")

// ParseEnvironment parses an environment name. The empty string selects
// the development environment.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production, nil
	case "development", "dev", "":
		return Development, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, s)
}

// EnvironmentForHost mirrors how the web front end picks its environment:
// only the production host name is production, everything else is development.
func EnvironmentForHost(host string) Environment {
	if host == ProductionHost {
		return Production
	}
	return Development
}

// Origin returns the base URL message links point at.
func (e Environment) Origin() string {
	if e == Production {
		return "https://" + ProductionHost
	}
	return "http://localhost:7010"
}

// Network returns the name of the Ethereum network used by the environment.
func (e Environment) Network() string {
	if e == Production {
		return "homestead"
	}
	return "sepolia"
}

// Network describes an Ethereum network and the default endpoints serving it.
type Network struct {
	Name        string
	ChainID     *big.Int
	ExplorerURL string // Etherscan compatible account history API
	RPCURL      string // public JSON-RPC endpoint
}

// Networks lists the known networks by name. Ropsten and Goerli are kept for
// reading old notifications, both have been shut down.
var Networks = map[string]*Network{
	"homestead": {
		Name:        "homestead",
		ChainID:     big.NewInt(1),
		ExplorerURL: "https://api.etherscan.io/api",
		RPCURL:      "https://ethereum-rpc.publicnode.com",
	},
	"ropsten": {
		Name:        "ropsten",
		ChainID:     big.NewInt(3),
		ExplorerURL: "https://api-ropsten.etherscan.io/api",
	},
	"goerli": {
		Name:        "goerli",
		ChainID:     big.NewInt(5),
		ExplorerURL: "https://api-goerli.etherscan.io/api",
	},
	"sepolia": {
		Name:        "sepolia",
		ChainID:     big.NewInt(11155111),
		ExplorerURL: "https://api-sepolia.etherscan.io/api",
		RPCURL:      "https://ethereum-sepolia-rpc.publicnode.com",
	},
}

var ErrUnknownNetwork = errors.New("unknown network")

// LookupNetwork returns the network with the given name. "mainnet" is
// accepted as an alias of "homestead".
func LookupNetwork(name string) (*Network, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "mainnet" {
		name = "homestead"
	}
	if n, ok := Networks[name]; ok {
		return n, nil
	}
	return nil, fmt.Errorf("%w %q, known networks: %s", ErrUnknownNetwork, name, strings.Join(NetworkNames(), ", "))
}

// NetworkNames returns the sorted names of all known networks.
func NetworkNames() []string {
	names := make([]string, 0, len(Networks))
	for name := range Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
