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
	"context"
	"net"
	"strconv"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereumpm/ethpm/cmd/utils"
	"github.com/ethereumpm/ethpm/server"
	"github.com/ethereumpm/ethpm/state"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var serveCommand = &cli.Command{
	Action:    withStack(serve),
	Name:      "serve",
	Usage:     "Serve the HTTP API over the form state",
	ArgsUsage: " ",
	Description: `
Starts the HTTP API on --http.addr and --http.port. Message links of the
configured origin resolve to GET /?swarm-hash=<hash>, which reads the message
into the form state. The server runs until interrupted.`,
}

func serve(ctx *cli.Context, stack *stack) error {
	printWarnings(ctx.App.ErrWriter)

	sigctx, stop := utils.SignalContext(ctx.Context)
	defer stop()

	srv := server.New(stack.session, server.Config{
		Addr:        net.JoinHostPort(stack.config.HTTPHost, strconv.Itoa(stack.config.HTTPPort)),
		CorsOrigins: stack.config.CORSOrigins,
		Timeout:     stack.config.Timeout,
	})
	g, gctx := errgroup.WithContext(sigctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})
	g.Go(func() error {
		watchState(gctx, stack.store)
		return nil
	})
	return g.Wait()
}

// watchState logs form state changes until ctx is done.
func watchState(ctx context.Context, store *state.Store) {
	updates := make(chan state.State, 16)
	sub := store.Subscribe(updates)
	defer sub.Unsubscribe()

	for {
		select {
		case st := <-updates:
			log.Debug("Form state updated", "receiver", st.ReceiverAddress, "link", st.MessageHyperlink)
		case <-sub.Err():
			return
		case <-ctx.Done():
			return
		}
	}
}
