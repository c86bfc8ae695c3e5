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

// Package server exposes the messenger and its form state over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereumpm/ethpm/pm"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Config is the configuration of the HTTP server, including CORS settings.
type Config struct {
	Addr        string
	CorsOrigins []string
	Timeout     time.Duration // bound on a single request's upstream calls (default 60s)
}

// Server serves the messenger API.
type Server struct {
	session *pm.Session
	cfg     Config
	router  *mux.Router
	log     log.Logger
}

// New creates a server running actions on session.
func New(session *pm.Session, cfg Config) *Server {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	s := &Server{
		session: session,
		cfg:     cfg,
		router:  mux.NewRouter(),
		log:     log.New("module", "server"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.GetState).Methods(http.MethodGet)
	api.HandleFunc("/state", s.PutState).Methods(http.MethodPut)
	api.HandleFunc("/state", s.DeleteState).Methods(http.MethodDelete)
	api.HandleFunc("/send", s.PostSend).Methods(http.MethodPost)
	api.HandleFunc("/read", s.GetRead).Methods(http.MethodGet)
	api.HandleFunc("/pubkey/{address}", s.GetPublicKey).Methods(http.MethodGet)
	api.HandleFunc("/inbox", s.GetInbox).Methods(http.MethodGet)

	// Message links point at the site root.
	s.router.HandleFunc("/", s.GetRead).Methods(http.MethodGet).Queries(pm.SwarmHashParam, "{hash}")
}

// Handler returns the API handler wrapped with CORS handling.
func (s *Server) Handler() http.Handler {
	var origins []string
	for _, origin := range s.cfg.CorsOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		MaxAge:         600,
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(s.router)
}

// ListenAndServe serves the API until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("HTTP server started", "endpoint", listener.Addr(), "cors", strings.Join(s.cfg.CorsOrigins, ","))

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(listener) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	if serr := <-errc; !errors.Is(serr, http.ErrServerClosed) && err == nil {
		err = serr
	}
	s.log.Info("HTTP server stopped", "endpoint", listener.Addr())
	return err
}
