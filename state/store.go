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

package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
)

var (
	ErrUnknownField = errors.New("unknown state field")
	ErrClosed       = errors.New("state store closed")
)

// Store holds the current state and persists every change. It is safe for
// concurrent use.
type Store struct {
	sendMu sync.Mutex // serializes updates so events arrive in commit order
	mu     sync.Mutex
	db     *database
	state  State
	feed   event.Feed
	closed bool
	log    log.Logger
}

// Open opens the store persisted in the leveldb database at path, creating
// it if needed.
func Open(path string) (*Store, error) {
	db, err := openDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	return newStore(db, log.New("module", "state", "path", path))
}

// OpenMemory opens a store that is not backed by disk.
func OpenMemory() (*Store, error) {
	db, err := openMemoryDatabase()
	if err != nil {
		return nil, err
	}
	return newStore(db, log.New("module", "state"))
}

func newStore(db *database, logger log.Logger) (*Store, error) {
	s := &Store{db: db, log: logger}
	blob, err := db.get([]byte(PersistKey))
	if err != nil {
		db.close()
		return nil, err
	}
	if blob != nil {
		if err := json.Unmarshal(blob, &s.state); err != nil {
			// Start over rather than refusing to load.
			s.log.Warn("Discarding unreadable persisted state", "err", err)
			s.state = State{}
		}
	}
	return s, nil
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies fn to a copy of the current state, persists the result and
// makes it current. Subscribers are notified after the state is persisted,
// in the order the updates were applied. They must not call Update from the
// goroutine that receives the events.
func (s *Store) Update(fn func(*State)) (State, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return State{}, ErrClosed
	}
	next := s.state
	fn(&next)
	if err := s.persist(next); err != nil {
		s.mu.Unlock()
		return State{}, err
	}
	s.state = next
	s.mu.Unlock()

	s.feed.Send(next)
	return next, nil
}

// Set assigns a single field by its persisted name.
func (s *Store) Set(name, value string) (State, error) {
	return s.SetFields(map[string]string{name: value})
}

// SetFields assigns several fields at once. Either all fields are
// assigned or, if any name is unknown, none.
func (s *Store) SetFields(values map[string]string) (State, error) {
	for name := range values {
		if _, ok := fields[name]; !ok {
			return State{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}
	return s.Update(func(st *State) {
		for name, value := range values {
			st.Set(name, value)
		}
	})
}

// Reset clears all fields.
func (s *Store) Reset() (State, error) {
	return s.Update(func(st *State) { *st = State{} })
}

// Subscribe registers ch to receive every committed state.
func (s *Store) Subscribe(ch chan<- State) event.Subscription {
	return s.feed.Subscribe(ch)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.close()
}

func (s *Store) persist(st State) error {
	blob, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.db.put([]byte(PersistKey), blob); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	return nil
}
