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
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereumpm/ethpm/cmd/utils"
	"github.com/ethereumpm/ethpm/pm"
	"github.com/ethereumpm/ethpm/state"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

const (
	securityWarning = "This is a prototype that is violating major security best practices"
	mainnetWarning  = "Be careful of using this on the Ethereum main network"
)

var (
	sendCommand = &cli.Command{
		Action:    withStack(sendMessage),
		Name:      "send",
		Usage:     "Encrypt, store and announce the message of the form state",
		ArgsUsage: " ",
		Flags:     []cli.Flag{privateKeyFlag, toFlag, publicKeyFlag, messageFlag, noNotifyFlag, jsonFlag},
		Description: `
Sends the message held in the form state to the receiver address of the form
state. The --key, --to and --message flags update the form state before
sending. The receiver's public key is looked up from its transaction history
unless one is given with --pubkey, which must belong to the receiver address. The encrypted message is stored on Swarm and the
receiver is notified with a zero value transaction carrying the message link.

The resolved public key and the message link are stored back into the form state.`,
	}
	readCommand = &cli.Command{
		Action:    withStack(readMessage),
		Name:      "read",
		Usage:     "Fetch and decrypt a message",
		ArgsUsage: "<link or swarm hash>",
		Flags:     []cli.Flag{privateKeyFlag, jsonFlag},
		Description: `
Fetches the message referenced by a message link or swarm hash and decrypts it
with the private key of the form state. The ciphertext and plaintext are stored
in the form state.`,
	}
	pubkeyCommand = &cli.Command{
		Action:    withStack(lookupPublicKey),
		Name:      "pubkey",
		Usage:     "Recover the public key of an address from its transactions",
		ArgsUsage: "<address>",
		Flags:     []cli.Flag{jsonFlag},
	}
	inboxCommand = &cli.Command{
		Action:    withStack(listInbox),
		Name:      "inbox",
		Usage:     "List the messages announced to the account of the form state",
		ArgsUsage: " ",
		Flags:     []cli.Flag{privateKeyFlag, fetchFlag, jsonFlag},
	}
)

// formFlags maps command flags to the form state fields they overwrite.
var formFlags = map[*cli.StringFlag]string{
	privateKeyFlag: "senderEthereumPrivateKey",
	toFlag:         "receiverEthereumAddress",
	messageFlag:    "messageToSend",
}

func applyFormFlags(ctx *cli.Context, store *state.Store) error {
	values := make(map[string]string)
	for f, field := range formFlags {
		if ctx.IsSet(f.Name) {
			values[field] = ctx.String(f.Name)
		}
	}
	if len(values) == 0 {
		return nil
	}
	_, err := store.SetFields(values)
	return err
}

func printWarnings(w io.Writer) {
	fmt.Fprintln(w, "WARNING:", securityWarning)
	fmt.Fprintln(w, "WARNING:", mainnetWarning)
}

func sendMessage(ctx *cli.Context, stack *stack) error {
	if err := applyFormFlags(ctx, stack.store); err != nil {
		return err
	}
	if !ctx.Bool(jsonFlag.Name) {
		printWarnings(ctx.App.ErrWriter)
	}
	opctx, cancel := stack.operationContext(ctx)
	defer cancel()

	var (
		res *pm.SendResult
		err error
	)
	if ctx.IsSet(publicKeyFlag.Name) {
		res, err = stack.session.SendWithKey(opctx, ctx.String(publicKeyFlag.Name), ctx.Bool(noNotifyFlag.Name))
	} else {
		res, err = stack.session.Send(opctx, ctx.Bool(noNotifyFlag.Name))
	}
	if res == nil {
		return err
	}
	out := sendOutput{PublicKey: res.PublicKey, SwarmHash: res.SwarmHash, Link: res.Link}
	if res.Tx != nil {
		out.TxHash = res.Tx.Hash().Hex()
	}
	if err != nil {
		out.Error = err.Error()
	}
	if ctx.Bool(jsonFlag.Name) {
		if perr := utils.PrintJSON(ctx.App.Writer, out); perr != nil {
			return perr
		}
	} else {
		out.print(ctx.App.Writer)
	}
	if err != nil {
		return fmt.Errorf("message stored at %s but not announced: %w", res.Link, err)
	}
	return nil
}

type sendOutput struct {
	PublicKey string `json:"publicKey"`
	SwarmHash string `json:"swarmHash"`
	Link      string `json:"link"`
	TxHash    string `json:"txHash,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (o sendOutput) print(w io.Writer) {
	fmt.Fprintf(w, "Receiver public key: %s\n", o.PublicKey)
	fmt.Fprintf(w, "Swarm hash:          %s\n", o.SwarmHash)
	fmt.Fprintf(w, "Message link:        %s\n", o.Link)
	if o.TxHash != "" {
		fmt.Fprintf(w, "Notification tx:     %s\n", o.TxHash)
	}
}

func readMessage(ctx *cli.Context, stack *stack) error {
	if ctx.NArg() != 1 {
		return errors.New("need exactly one message link or swarm hash argument")
	}
	if err := applyFormFlags(ctx, stack.store); err != nil {
		return err
	}
	ref := ctx.Args().First()
	opctx, cancel := stack.operationContext(ctx)
	defer cancel()

	rec, err := stack.session.Read(opctx, ref)
	if err != nil {
		return err
	}
	if rec.Err != nil {
		log.Warn("Could not decrypt message", "hash", rec.SwarmHash, "err", rec.Err)
	}
	if ctx.Bool(jsonFlag.Name) {
		return utils.PrintJSON(ctx.App.Writer, struct {
			SwarmHash string `json:"swarmHash"`
			Encrypted string `json:"encrypted"`
			Plaintext string `json:"plaintext"`
		}{rec.SwarmHash, rec.Encrypted, rec.Plaintext})
	}
	fmt.Fprintln(ctx.App.Writer, rec.Plaintext)
	return nil
}

func lookupPublicKey(ctx *cli.Context, stack *stack) error {
	if ctx.NArg() != 1 {
		return errors.New("need exactly one address argument")
	}
	addr, err := pm.ParseAddress(ctx.Args().First())
	if err != nil {
		return err
	}
	opctx, cancel := stack.operationContext(ctx)
	defer cancel()

	pub, err := stack.session.Messenger().Resolver().PublicKey(opctx, addr)
	if err != nil {
		return err
	}
	if ctx.Bool(jsonFlag.Name) {
		return utils.PrintJSON(ctx.App.Writer, map[string]string{
			"address":   addr.Hex(),
			"publicKey": pm.EncodePublicKey(pub),
		})
	}
	fmt.Fprintln(ctx.App.Writer, pm.EncodePublicKey(pub))
	return nil
}

type inboxOutput struct {
	Time      time.Time `json:"time"`
	Block     uint64    `json:"blockNumber"`
	From      string    `json:"from"`
	TxHash    string    `json:"txHash"`
	Link      string    `json:"link"`
	Message   string    `json:"message,omitempty"`
	FetchErr  string    `json:"error,omitempty"`
	Decrypted bool      `json:"decrypted"`
}

func listInbox(ctx *cli.Context, stack *stack) error {
	if err := applyFormFlags(ctx, stack.store); err != nil {
		return err
	}
	opctx, cancel := stack.operationContext(ctx)
	defer cancel()

	entries, err := stack.session.Inbox(opctx, ctx.Bool(fetchFlag.Name))
	if err != nil {
		return err
	}
	out := make([]inboxOutput, 0, len(entries))
	for _, e := range entries {
		o := inboxOutput{
			Time:   e.Time.UTC(),
			Block:  e.BlockNumber,
			From:   e.From.Hex(),
			TxHash: e.TxHash.Hex(),
			Link:   e.Link,
		}
		if e.FetchErr != nil {
			o.FetchErr = e.FetchErr.Error()
		}
		if e.Message != nil {
			o.Message = e.Message.Plaintext
			o.Decrypted = e.Message.Err == nil
		}
		out = append(out, o)
	}
	if ctx.Bool(jsonFlag.Name) {
		return utils.PrintJSON(ctx.App.Writer, out)
	}
	writeInboxTable(ctx.App.Writer, out, ctx.Bool(fetchFlag.Name))
	return nil
}

func writeInboxTable(w io.Writer, entries []inboxOutput, fetched bool) {
	table := tablewriter.NewWriter(w)
	header := []string{"Time", "Block", "From", "Link"}
	if fetched {
		header = append(header, "Message")
	}
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	for _, e := range entries {
		row := []string{e.Time.Format(time.RFC3339), fmt.Sprint(e.Block), e.From, e.Link}
		if fetched {
			msg := e.Message
			if e.FetchErr != "" {
				msg = "error: " + e.FetchErr
			}
			row = append(row, msg)
		}
		table.Append(row)
	}
	table.Render()
}
