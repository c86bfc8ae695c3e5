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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereumpm/ethpm/etherscan"
	"github.com/ethereumpm/ethpm/pm"
	"github.com/ethereumpm/ethpm/state"
	"github.com/ethereumpm/ethpm/swarm"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	mu      sync.Mutex
	content map[string]string
}

func (s *memStorage) Upload(ctx context.Context, content string) (string, error) {
	sum := sha256.Sum256([]byte(content))
	hash := hex.EncodeToString(sum[:])
	s.mu.Lock()
	s.content[hash] = content
	s.mu.Unlock()
	return hash, nil
}

func (s *memStorage) Download(ctx context.Context, hash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.content[hash]; ok {
		return c, nil
	}
	return "", swarm.ErrNotFound
}

type noHistory struct{}

func (noHistory) History(ctx context.Context, addr common.Address) ([]*etherscan.Transaction, error) {
	return nil, nil
}

// nullBackend refuses every chain interaction.
type nullBackend struct{}

var errOffline = errors.New("offline")

func (nullBackend) ChainID(context.Context) (*big.Int, error) { return nil, errOffline }
func (nullBackend) TransactionByHash(context.Context, common.Hash) (*types.Transaction, bool, error) {
	return nil, false, errOffline
}
func (nullBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) { return 0, errOffline }
func (nullBackend) SuggestGasPrice(context.Context) (*big.Int, error) { return nil, errOffline }
func (nullBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 0, errOffline
}
func (nullBackend) SendTransaction(context.Context, *types.Transaction) error { return errOffline }

type testServer struct {
	*httptest.Server
	store *state.Store
}

func newTestServer(t *testing.T) *testServer {
	store, err := state.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	messenger := pm.NewMessenger(pm.Config{Origin: "http://localhost:7010"}, &memStorage{content: make(map[string]string)}, noHistory{}, nullBackend{})
	srv := New(pm.NewSession(store, messenger), Config{CorsOrigins: []string{"http://localhost:7010"}})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, store: store}
}

func (ts *testServer) do(t *testing.T, method, path, body string, out interface{}) int {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestStateEndpoints(t *testing.T) {
	ts := newTestServer(t)

	var st state.State
	status := ts.do(t, http.MethodPut, "/api/state", `{"messageToSend":"hi","receiverEthereumAddress":"0x01"}`, &st)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "hi", st.MessageToSend)

	st = state.State{}
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/state", "", &st))
	require.Equal(t, "0x01", st.ReceiverAddress)

	var e errorResponse
	require.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPut, "/api/state", `{"nope":"x"}`, &e))
	require.Contains(t, e.Error, "unknown state field")
	require.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPut, "/api/state", `[1,2]`, nil))

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodDelete, "/api/state", "", &st))
	require.Equal(t, state.State{}, ts.store.State())
}

func TestSendAndReadEndpoints(t *testing.T) {
	ts := newTestServer(t)
	sender, _ := crypto.GenerateKey()
	receiver, _ := crypto.GenerateKey()

	_, err := ts.store.SetFields(map[string]string{
		"senderEthereumPrivateKey":  hex.EncodeToString(crypto.FromECDSA(sender)),
		"receiverEthereumAddress":   crypto.PubkeyToAddress(receiver.PublicKey).Hex(),
		"receiverEthereumPublicKey": pm.EncodePublicKey(&receiver.PublicKey),
		"messageToSend":             "over http",
	})
	require.NoError(t, err)

	var sent sendResponse
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/send?notify=false", "", &sent))
	require.True(t, swarm.ValidHash(sent.SwarmHash))
	require.Equal(t, "http://localhost:7010?swarm-hash="+sent.SwarmHash, sent.Link)
	require.Empty(t, sent.TxHash)
	require.Equal(t, sent.Link, ts.store.State().MessageHyperlink)

	// With notifications the upload succeeds but announcing fails.
	var failed sendResponse
	require.Equal(t, http.StatusBadGateway, ts.do(t, http.MethodPost, "/api/send", "", &failed))
	require.NotEmpty(t, failed.Link)
	require.Contains(t, failed.Error, "offline")

	// Switch to the receiver and follow the link.
	_, err = ts.store.Set("senderEthereumPrivateKey", hex.EncodeToString(crypto.FromECDSA(receiver)))
	require.NoError(t, err)
	var st state.State
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/?swarm-hash="+sent.SwarmHash, "", &st))
	require.Equal(t, "over http", st.ReceivedDecrypted)
	require.NotEmpty(t, st.ReceivedEncrypted)
}

func TestReadErrors(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/read", "", nil))
	require.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/read?swarm-hash="+strings.Repeat("12", 32), "", nil))
}

func TestPublicKeyEndpoint(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/pubkey/0x12", "", nil))

	var e errorResponse
	require.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/pubkey/"+common.Address{1}.Hex(), "", &e))
	require.Contains(t, e.Error, pm.ErrNoSignedTransaction.Error())
}

func TestInboxEndpoint(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/inbox", "", nil))

	key, _ := crypto.GenerateKey()
	_, err := ts.store.Set("senderEthereumPrivateKey", hex.EncodeToString(crypto.FromECDSA(key)))
	require.NoError(t, err)
	var entries []inboxEntry
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/inbox?fetch=true", "", &entries))
	require.Empty(t, entries)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/state", nil)
	req.Header.Set("Origin", "http://localhost:7010")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, "http://localhost:7010", res.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	require.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}
