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
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereumpm/ethpm/state"
)

// Session runs the messenger actions on the persisted form state: inputs are
// read from the store and results are written back to it.
type Session struct {
	store     *state.Store
	messenger *Messenger
	log       log.Logger
}

// NewSession creates a session over store.
func NewSession(store *state.Store, messenger *Messenger) *Session {
	return &Session{
		store:     store,
		messenger: messenger,
		log:       log.New("module", "session"),
	}
}

// Store returns the state store of the session.
func (s *Session) Store() *state.Store {
	return s.store
}

// Messenger returns the messenger of the session.
func (s *Session) Messenger() *Messenger {
	return s.messenger
}

// Send sends the message in the state to the receiver in the state. The
// receiver's public key and the message link are stored back.
func (s *Session) Send(ctx context.Context, skipNotify bool) (*SendResult, error) {
	st := s.store.State()
	pub := st.ReceiverPublicKey
	if pub != "" && !keyMatches(pub, st.ReceiverAddress) {
		// The receiver changed since the key was stored.
		s.log.Debug("Dropping stale receiver public key", "receiver", st.ReceiverAddress)
		pub = ""
	}
	return s.send(ctx, st, pub, skipNotify)
}

// SendWithKey is like Send but encrypts to the given public key instead of
// the stored one. The key must belong to the receiver address.
func (s *Session) SendWithKey(ctx context.Context, publicKey string, skipNotify bool) (*SendResult, error) {
	return s.send(ctx, s.store.State(), publicKey, skipNotify)
}

func (s *Session) send(ctx context.Context, st state.State, publicKey string, skipNotify bool) (*SendResult, error) {
	res, err := s.messenger.Send(ctx, SendRequest{
		PrivateKey: st.SenderPrivateKey,
		To:         st.ReceiverAddress,
		PublicKey:  publicKey,
		Message:    st.MessageToSend,
		SkipNotify: skipNotify,
	})
	if res != nil {
		if _, serr := s.store.Update(func(st *state.State) {
			st.ReceiverPublicKey = res.PublicKey
			st.MessageHyperlink = res.Link
		}); serr != nil && err == nil {
			err = serr
		}
	}
	return res, err
}

// Read fetches and decrypts the message referenced by ref with the sender
// private key of the state, and stores the ciphertext and plaintext.
func (s *Session) Read(ctx context.Context, ref string) (*Received, error) {
	st := s.store.State()
	rec, err := s.messenger.Receive(ctx, st.SenderPrivateKey, ref)
	if err != nil {
		return nil, err
	}
	if rec.Err != nil {
		s.log.Debug("Could not decrypt message", "hash", rec.SwarmHash, "err", rec.Err)
	}
	_, err = s.store.Update(func(st *state.State) {
		st.ReceivedEncrypted = rec.Encrypted
		st.ReceivedDecrypted = rec.Plaintext
	})
	return rec, err
}

// Inbox lists the notifications sent to the account of the state's private key.
func (s *Session) Inbox(ctx context.Context, fetch bool) ([]*InboxEntry, error) {
	return s.messenger.Inbox(ctx, s.store.State().SenderPrivateKey, fetch)
}

func keyMatches(pubHex, addrHex string) bool {
	pub, err := ParsePublicKey(pubHex)
	if err != nil {
		return false
	}
	addr, err := ParseAddress(addrHex)
	if err != nil {
		return false
	}
	return crypto.PubkeyToAddress(*pub) == addr
}

// Placeholder reports whether plaintext is the stand-in for a message that
// could not be decrypted.
func Placeholder(plaintext string) bool {
	return strings.TrimSpace(plaintext) == DecryptFailedPlaceholder
}
