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
	"fmt"
	"io"
	"strings"

	"github.com/ethereumpm/ethpm/cmd/utils"
	"github.com/ethereumpm/ethpm/state"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

var (
	stateCommand = &cli.Command{
		Name:  "state",
		Usage: "Manage the persisted form state",
		Description: `
The form state holds the sender private key, the receiver, the message to send
and the last message read. It is shared by all commands, the HTTP API and the
interactive form.`,
		Subcommands: []*cli.Command{
			{
				Action:    withStack(showState),
				Name:      "show",
				Usage:     "Print the form state",
				ArgsUsage: " ",
				Flags:     []cli.Flag{jsonFlag},
			},
			{
				Action:    withStack(setState),
				Name:      "set",
				Usage:     "Set a field of the form state",
				ArgsUsage: "<field> <value>",
				Description: `
Known fields: ` + strings.Join(state.FieldNames(), ", ") + `.`,
			},
			{
				Action:    withStack(resetState),
				Name:      "reset",
				Usage:     "Clear the form state",
				ArgsUsage: " ",
			},
		},
	}
)

func showState(ctx *cli.Context, stack *stack) error {
	st := stack.store.State()
	if ctx.Bool(jsonFlag.Name) {
		return utils.PrintJSON(ctx.App.Writer, st)
	}
	writeStateTable(ctx.App.Writer, st)
	return nil
}

func setState(ctx *cli.Context, stack *stack) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("need field and value arguments, known fields: %s", strings.Join(state.FieldNames(), ", "))
	}
	_, err := stack.store.Set(ctx.Args().Get(0), ctx.Args().Get(1))
	return err
}

func resetState(ctx *cli.Context, stack *stack) error {
	_, err := stack.store.Reset()
	return err
}

// writeStateTable prints the fields of st. The private key is masked.
func writeStateTable(w io.Writer, st state.State) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	for _, name := range state.FieldNames() {
		value, _ := st.Get(name)
		if name == "senderEthereumPrivateKey" && value != "" {
			value = maskSecret(value)
		}
		table.Append([]string{name, value})
	}
	table.Render()
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}
