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

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereumpm/ethpm/pm"
	"github.com/ethereumpm/ethpm/state"
	"github.com/ethereumpm/ethpm/swarm"
	"github.com/gorilla/mux"
)

type errorResponse struct {
	Error string `json:"error"`
}

type sendResponse struct {
	PublicKey string `json:"publicKey"`
	SwarmHash string `json:"swarmHash"`
	Link      string `json:"link"`
	TxHash    string `json:"txHash,omitempty"`
	Error     string `json:"error,omitempty"`
}

type publicKeyResponse struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

type inboxEntry struct {
	TxHash      string    `json:"txHash"`
	BlockNumber uint64    `json:"blockNumber"`
	Time        time.Time `json:"time"`
	From        string    `json:"from"`
	SwarmHash   string    `json:"swarmHash"`
	Link        string    `json:"link"`
	Message     string    `json:"message,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// GetState returns the current form state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, s.session.Store().State())
}

// PutState overwrites the fields given in the JSON request body.
func (s *Server) PutState(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&values); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	st, err := s.session.Store().SetFields(values)
	if err != nil {
		respondError(w, statusOf(err), err)
		return
	}
	respond(w, http.StatusOK, st)
}

// DeleteState clears the form state.
func (s *Server) DeleteState(w http.ResponseWriter, r *http.Request) {
	st, err := s.session.Store().Reset()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respond(w, http.StatusOK, st)
}

// PostSend sends the message in the form state. The notification transaction
// is skipped with ?notify=false.
func (s *Server) PostSend(w http.ResponseWriter, r *http.Request) {
	notify := true
	if v := r.URL.Query().Get("notify"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		notify = b
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	res, err := s.session.Send(ctx, !notify)
	if res == nil {
		s.log.Warn("Send failed", "err", err)
		respondError(w, statusOf(err), err)
		return
	}
	out := sendResponse{PublicKey: res.PublicKey, SwarmHash: res.SwarmHash, Link: res.Link}
	if res.Tx != nil {
		out.TxHash = res.Tx.Hash().Hex()
	}
	if err != nil {
		// Stored but not announced.
		out.Error = err.Error()
		respond(w, statusOf(err), out)
		return
	}
	respond(w, http.StatusOK, out)
}

// GetRead fetches and decrypts the message named by the swarm-hash query
// parameter and returns the updated form state.
func (s *Server) GetRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	if _, err := s.session.Read(ctx, r.URL.Query().Get(pm.SwarmHashParam)); err != nil {
		respondError(w, statusOf(err), err)
		return
	}
	respond(w, http.StatusOK, s.session.Store().State())
}

// GetPublicKey recovers the public key of an address.
func (s *Server) GetPublicKey(w http.ResponseWriter, r *http.Request) {
	addr, err := pm.ParseAddress(mux.Vars(r)["address"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	pub, err := s.session.Messenger().Resolver().PublicKey(ctx, addr)
	if err != nil {
		respondError(w, statusOf(err), err)
		return
	}
	respond(w, http.StatusOK, publicKeyResponse{Address: addr.Hex(), PublicKey: pm.EncodePublicKey(pub)})
}

// GetInbox lists the notifications of the form state's account. Messages are
// fetched and decrypted with ?fetch=true.
func (s *Server) GetInbox(w http.ResponseWriter, r *http.Request) {
	fetch, _ := strconv.ParseBool(r.URL.Query().Get("fetch"))
	ctx, cancel := s.requestContext(r)
	defer cancel()

	entries, err := s.session.Inbox(ctx, fetch)
	if err != nil {
		respondError(w, statusOf(err), err)
		return
	}
	out := make([]inboxEntry, 0, len(entries))
	for _, e := range entries {
		entry := inboxEntry{
			TxHash:      e.TxHash.Hex(),
			BlockNumber: e.BlockNumber,
			Time:        e.Time.UTC(),
			From:        e.From.Hex(),
			SwarmHash:   e.SwarmHash,
			Link:        e.Link,
		}
		switch {
		case e.FetchErr != nil:
			entry.Error = e.FetchErr.Error()
		case e.Message != nil:
			entry.Message = e.Message.Plaintext
		}
		out = append(out, entry)
	}
	respond(w, http.StatusOK, out)
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.cfg.Timeout)
}

// statusOf maps messenger errors to HTTP status codes. Anything not caused by
// the request is blamed on the upstream services.
func statusOf(err error) int {
	switch {
	case errors.Is(err, pm.ErrInvalidPrivateKey),
		errors.Is(err, pm.ErrInvalidPublicKey),
		errors.Is(err, pm.ErrInvalidAddress),
		errors.Is(err, pm.ErrEmptyMessage),
		errors.Is(err, pm.ErrNoSwarmHash),
		errors.Is(err, swarm.ErrInvalidHash),
		errors.Is(err, state.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, pm.ErrNoSignedTransaction), errors.Is(err, swarm.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pm.ErrAddressMismatch):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, state.ErrClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func respond(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respond(w, status, errorResponse{Error: err.Error()})
}
