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

// Package state keeps the messenger's form state: the flat record of keys,
// addresses and messages the user works with. Every committed change is
// persisted before it becomes visible.
package state

import (
	"fmt"
	"sort"
)

// PersistKey is the database key the state record is stored under.
const PersistKey = "EPM_APP_PERSISTED_STATE"

// State is the form state. All fields are strings, the empty string means
// absent.
type State struct {
	SenderPrivateKey  string `json:"senderEthereumPrivateKey"`
	ReceiverAddress   string `json:"receiverEthereumAddress"`
	ReceiverPublicKey string `json:"receiverEthereumPublicKey"`
	MessageToSend     string `json:"messageToSend"`
	ReceivedEncrypted string `json:"messageToReceiveEncrypted"`
	ReceivedDecrypted string `json:"messageToReceiveDecrypted"`
	MessageHyperlink  string `json:"messageHyperlink"`
}

// fields maps the persisted field names to their location in State.
var fields = map[string]func(*State) *string{
	"senderEthereumPrivateKey":  func(s *State) *string { return &s.SenderPrivateKey },
	"receiverEthereumAddress":   func(s *State) *string { return &s.ReceiverAddress },
	"receiverEthereumPublicKey": func(s *State) *string { return &s.ReceiverPublicKey },
	"messageToSend":             func(s *State) *string { return &s.MessageToSend },
	"messageToReceiveEncrypted": func(s *State) *string { return &s.ReceivedEncrypted },
	"messageToReceiveDecrypted": func(s *State) *string { return &s.ReceivedDecrypted },
	"messageHyperlink":          func(s *State) *string { return &s.MessageHyperlink },
}

// FieldNames returns the persisted names of all state fields, sorted.
func FieldNames() []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the value of the named field.
func (s *State) Get(name string) (string, error) {
	f, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return *f(s), nil
}

// Set assigns the value of the named field.
func (s *State) Set(name, value string) error {
	f, ok := fields[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	*f(s) = value
	return nil
}
