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
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
)

// DecryptFailedPlaceholder replaces the plaintext of messages that could not
// be decrypted.
const DecryptFailedPlaceholder = "Unable to decrypt this message with your private key"

// Config holds configuration options for the messenger.
type Config struct {
	Origin       string // base URL of message links
	CacheLimit   int    // maximum number of cached public keys (default 256)
	InboxWorkers int    // maximum concurrent message downloads (default 4)
}

func (cfg Config) withDefaults() Config {
	if cfg.CacheLimit <= 0 {
		cfg.CacheLimit = 256
	}
	if cfg.InboxWorkers <= 0 {
		cfg.InboxWorkers = 4
	}
	return cfg
}

// Messenger sends and receives encrypted messages.
type Messenger struct {
	cfg      Config
	storage  Storage
	history  HistoryReader
	resolver *Resolver
	notifier *Notifier
	log      log.Logger
}

// NewMessenger creates a messenger storing content in storage, looking up
// accounts through history and transacting through backend.
func NewMessenger(cfg Config, storage Storage, history HistoryReader, backend Backend) *Messenger {
	cfg = cfg.withDefaults()
	return &Messenger{
		cfg:      cfg,
		storage:  storage,
		history:  history,
		resolver: NewResolver(history, backend, cfg.CacheLimit),
		notifier: NewNotifier(backend),
		log:      log.New("module", "messenger"),
	}
}

// Resolver returns the public key resolver used by the messenger.
func (m *Messenger) Resolver() *Resolver {
	return m.resolver
}

// SendRequest describes a message to send.
type SendRequest struct {
	PrivateKey string // sender's hex private key
	To         string // recipient address
	PublicKey  string // recipient public key, resolved from To when empty
	Message    string
	SkipNotify bool // only upload, do not send the notification transaction
}

// SendResult describes a sent message.
type SendResult struct {
	PublicKey string             // recipient public key the message was encrypted to
	SwarmHash string             // hash of the stored ciphertext
	Link      string             // message link
	Tx        *types.Transaction // notification transaction, nil if skipped
}

// Send encrypts the message to the recipient, stores it on Swarm and
// notifies the recipient.
func (m *Messenger) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	prv, err := ParsePrivateKey(req.PrivateKey)
	if err != nil {
		return nil, err
	}
	to, err := ParseAddress(req.To)
	if err != nil {
		return nil, err
	}
	if req.Message == "" {
		return nil, ErrEmptyMessage
	}
	pub, err := m.recipientKey(ctx, req)
	if err != nil {
		return nil, err
	}
	ct, err := EncryptMessage(pub, []byte(req.Message))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt message: %w", err)
	}
	hash, err := m.storage.Upload(ctx, SerializeBytes(ct))
	if err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	res := &SendResult{
		PublicKey: EncodePublicKey(pub),
		SwarmHash: hash,
		Link:      MessageLink(m.cfg.Origin, hash),
	}
	m.log.Info("Stored message", "to", to, "hash", hash)
	if req.SkipNotify {
		return res, nil
	}
	if res.Tx, err = m.notifier.Notify(ctx, prv, to, res.Link); err != nil {
		// The content is stored, hand out the link so the send can be
		// announced by other means.
		return res, err
	}
	return res, nil
}

func (m *Messenger) recipientKey(ctx context.Context, req SendRequest) (*ecdsa.PublicKey, error) {
	to, err := ParseAddress(req.To)
	if err != nil {
		return nil, err
	}
	if req.PublicKey == "" {
		return m.resolver.PublicKey(ctx, to)
	}
	pub, err := ParsePublicKey(req.PublicKey)
	if err != nil {
		return nil, err
	}
	if crypto.PubkeyToAddress(*pub) != to {
		return nil, fmt.Errorf("%w: public key belongs to %s, not %s", ErrAddressMismatch, crypto.PubkeyToAddress(*pub), to)
	}
	return pub, nil
}

// Received is a fetched message.
type Received struct {
	SwarmHash string
	Encrypted string // content as stored on Swarm
	Plaintext string // decrypted message, or DecryptFailedPlaceholder
	Err       error  // reason decryption failed, if it did
}

// Receive fetches the message referenced by ref (a message link or a bare
// swarm hash) and decrypts it with privateKey. Failing to decrypt is not an
// error: the plaintext is replaced by DecryptFailedPlaceholder and the cause
// is recorded in Received.Err.
func (m *Messenger) Receive(ctx context.Context, privateKey string, ref string) (*Received, error) {
	hash, err := ParseMessageLink(ref)
	if err != nil {
		return nil, err
	}
	content, err := m.storage.Download(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}
	rec := &Received{SwarmHash: hash, Encrypted: content}
	prv, err := ParsePrivateKey(privateKey)
	if err != nil {
		rec.fail(err)
		return rec, nil
	}
	m.open(rec, prv)
	return rec, nil
}

func (m *Messenger) open(rec *Received, prv *ecdsa.PrivateKey) {
	ct, err := DeserializeBytes(rec.Encrypted)
	if err != nil {
		rec.fail(err)
		return
	}
	pt, err := DecryptMessage(prv, ct)
	if err != nil {
		rec.fail(err)
		return
	}
	// Invalid sequences become U+FFFD.
	rec.Plaintext = strings.ToValidUTF8(string(pt), "\uFFFD")
}

func (rec *Received) fail(err error) {
	rec.Plaintext = DecryptFailedPlaceholder
	rec.Err = err
}
