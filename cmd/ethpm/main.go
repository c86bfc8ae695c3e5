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

// ethpm sends private messages between Ethereum addresses over Swarm.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sort"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereumpm/ethpm/cmd/utils"
	"github.com/ethereumpm/ethpm/etherscan"
	"github.com/ethereumpm/ethpm/internal/debug"
	"github.com/ethereumpm/ethpm/internal/flags"
	"github.com/ethereumpm/ethpm/params"
	"github.com/ethereumpm/ethpm/pm"
	"github.com/ethereumpm/ethpm/state"
	"github.com/ethereumpm/ethpm/swarm"
	"github.com/urfave/cli/v2"
)

var (
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""

	app = flags.NewApp(gitCommit, gitDate, "private messaging between Ethereum addresses over Swarm")
)

func init() {
	app.HideVersion = true // we have a command to print the version
	app.Commands = []*cli.Command{
		sendCommand,
		readCommand,
		pubkeyCommand,
		inboxCommand,
		stateCommand,
		serveCommand,
		formCommand,
		dumpConfigCommand,
		{
			Action:    version,
			Name:      "version",
			Usage:     "Print version numbers",
			ArgsUsage: " ",
			Description: `
The output of this command is supposed to be machine-readable.
`,
		},
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	app.Flags = flags.SortedFlags(flags.Merge(configFlags, debug.Flags))
	app.Before = func(ctx *cli.Context) error {
		flags.MigrateGlobalFlags(ctx)
		return debug.Setup(ctx)
	}
	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func version(ctx *cli.Context) error {
	fmt.Println("ethpm")
	fmt.Println("Version:", params.VersionWithMeta)
	if gitCommit != "" {
		fmt.Println("Git Commit:", gitCommit)
	}
	if gitDate != "" {
		fmt.Println("Git Commit Date:", gitDate)
	}
	fmt.Println("Architecture:", runtime.GOARCH)
	fmt.Println("Go Version:", runtime.Version())
	fmt.Println("Operating System:", runtime.GOOS)
	return nil
}

// stack holds the services of a command invocation.
type stack struct {
	config  *ethpmConfig
	store   *state.Store
	rpc     *ethclient.Client
	session *pm.Session
}

// makeStack builds the configuration, opens the state database and
// connects the messenger to its endpoints.
func makeStack(ctx *cli.Context) (*stack, error) {
	cfg, err := buildConfig(ctx)
	if err != nil {
		return nil, err
	}
	store, err := state.Open(cfg.statePath())
	if err != nil {
		return nil, err
	}
	rpc, err := ethclient.DialContext(ctx.Context, cfg.RPCURL)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to connect to %s: %v", cfg.RPCURL, err)
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	history := etherscan.NewClient(etherscan.Config{
		URL:        cfg.ExplorerURL,
		APIKey:     cfg.ExplorerKey,
		Timeout:    cfg.Timeout,
		RateLimit:  float64(cfg.ExplorerRateLimit),
		HTTPClient: httpClient,
		Logger:     log.New("module", "etherscan", "network", cfg.Network),
	})
	storage := swarm.NewClient(cfg.SwarmGateway, httpClient)
	messenger := pm.NewMessenger(pm.Config{
		Origin:       cfg.Origin,
		CacheLimit:   cfg.CacheLimit,
		InboxWorkers: cfg.InboxWorkers,
	}, storage, history, rpc)

	log.Debug("Messenger ready", "network", cfg.Network, "rpc", cfg.RPCURL, "swarm", cfg.SwarmGateway)
	return &stack{
		config:  cfg,
		store:   store,
		rpc:     rpc,
		session: pm.NewSession(store, messenger),
	}, nil
}

// operationContext bounds a single command by the configured timeout.
func (s *stack) operationContext(ctx *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Context, s.config.Timeout)
}

func (s *stack) Close() {
	s.rpc.Close()
	if err := s.store.Close(); err != nil {
		log.Warn("Failed to close state database", "err", err)
	}
}

// withStack runs fn with a fresh stack and fails the command on error.
func withStack(fn func(*cli.Context, *stack) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		stack, err := makeStack(ctx)
		if err != nil {
			utils.Fatalf("%v", err)
		}
		err = fn(ctx, stack)
		stack.Close()
		if err != nil {
			utils.Fatalf("%v", err)
		}
		return nil
	}
}
