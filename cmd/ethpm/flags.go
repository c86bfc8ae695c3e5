// Copyright 2026 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"github.com/ethereumpm/ethpm/internal/flags"
	"github.com/ethereumpm/ethpm/params"
	"github.com/urfave/cli/v2"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.MiscCategory,
	}
	environmentFlag = &cli.StringFlag{
		Name:     "env",
		Usage:    "Environment selecting the default network and origin (production, development)",
		Category: flags.NetworkCategory,
	}
	networkFlag = &cli.StringFlag{
		Name:     "network",
		Usage:    "Ethereum network name (homestead, sepolia, goerli, ropsten)",
		Category: flags.NetworkCategory,
	}
	rpcURLFlag = &cli.StringFlag{
		Name:     "rpc",
		Usage:    "Ethereum JSON-RPC endpoint",
		Category: flags.NetworkCategory,
	}
	explorerURLFlag = &cli.StringFlag{
		Name:     "explorer.url",
		Usage:    "Etherscan compatible account history API",
		Category: flags.NetworkCategory,
	}
	explorerKeyFlag = &cli.StringFlag{
		Name:     "explorer.apikey",
		Usage:    "API key of the history API",
		Category: flags.NetworkCategory,
	}
	explorerRateLimitFlag = &cli.IntFlag{
		Name:     "explorer.ratelimit",
		Usage:    "Maximum history API requests per second",
		Value:    5,
		Category: flags.NetworkCategory,
	}
	timeoutFlag = &cli.DurationFlag{
		Name:     "timeout",
		Usage:    "Time limit of a single operation",
		Category: flags.NetworkCategory,
	}
	swarmGatewayFlag = &cli.StringFlag{
		Name:     "swarm.gateway",
		Usage:    "Swarm HTTP gateway",
		Value:    params.DefaultSwarmGateway,
		Category: flags.StorageCategory,
	}
	dataDirFlag = &cli.StringFlag{
		Name:     "datadir",
		Usage:    "Data directory holding the form state",
		Value:    flags.DefaultDataDir(),
		Category: flags.StorageCategory,
	}
	cacheLimitFlag = &cli.IntFlag{
		Name:     "cache.pubkeys",
		Usage:    "Number of resolved public keys kept in memory",
		Value:    256,
		Category: flags.StorageCategory,
	}
	originFlag = &cli.StringFlag{
		Name:     "origin",
		Usage:    "Base URL of message links",
		Category: flags.APICategory,
	}
	httpHostFlag = &cli.StringFlag{
		Name:     "http.addr",
		Usage:    "HTTP API listening interface",
		Value:    "localhost",
		Category: flags.APICategory,
	}
	httpPortFlag = &cli.IntFlag{
		Name:     "http.port",
		Usage:    "HTTP API listening port",
		Value:    7010,
		Category: flags.APICategory,
	}
	corsOriginsFlag = &cli.StringFlag{
		Name:     "http.corsdomain",
		Usage:    "Comma separated list of domains from which to accept cross origin requests",
		Category: flags.APICategory,
	}
	inboxWorkersFlag = &cli.IntFlag{
		Name:     "inbox.workers",
		Usage:    "Maximum concurrent message downloads of the inbox",
		Value:    4,
		Category: flags.APICategory,
	}

	// command flags
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the result as JSON",
	}
	noNotifyFlag = &cli.BoolFlag{
		Name:  "no-notify",
		Usage: "Store the message without sending the notification transaction",
	}
	fetchFlag = &cli.BoolFlag{
		Name:  "fetch",
		Usage: "Download and decrypt every message",
	}
	privateKeyFlag = &cli.StringFlag{
		Name:  "key",
		Usage: "Hex encoded private key, stored in the form state",
	}
	toFlag = &cli.StringFlag{
		Name:  "to",
		Usage: "Receiver address, stored in the form state",
	}
	publicKeyFlag = &cli.StringFlag{
		Name:  "pubkey",
		Usage: "Receiver public key to encrypt to instead of looking it up",
	}
	messageFlag = &cli.StringFlag{
		Name:  "message",
		Usage: "Message to send, stored in the form state",
	}
)

var configFlags = []cli.Flag{
	configFileFlag,
	environmentFlag,
	networkFlag,
	rpcURLFlag,
	explorerURLFlag,
	explorerKeyFlag,
	explorerRateLimitFlag,
	timeoutFlag,
	swarmGatewayFlag,
	dataDirFlag,
	cacheLimitFlag,
	originFlag,
	httpHostFlag,
	httpPortFlag,
	corsOriginsFlag,
	inboxWorkersFlag,
}
