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
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereumpm/ethpm/pm"
	"github.com/ethereumpm/ethpm/state"
	"github.com/urfave/cli/v2"
)

var formCommand = &cli.Command{
	Action:    withStack(runForm),
	Name:      "form",
	Usage:     "Edit, send and read messages in an interactive form",
	ArgsUsage: " ",
	Description: `
Opens a terminal form over the form state. Every edit is persisted right away,
so the form can be closed and reopened at any point.`,
}

func runForm(ctx *cli.Context, stack *stack) error {
	m := newFormModel(ctx.Context, stack.session, stack.config.Timeout)
	defer m.relay.stop()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx.Context)).Run()
	return err
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sectionStyle = lipgloss.NewStyle().MarginTop(1)
)

type formKeyMap struct {
	Next key.Binding
	Prev key.Binding
	Send key.Binding
	Read key.Binding
	Quit key.Binding
}

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Send, k.Read, k.Quit}
}

func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev}, {k.Send, k.Read, k.Quit}}
}

var formKeys = formKeyMap{
	Next: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Prev: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
	Send: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send message")),
	Read: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "read link")),
	Quit: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

type formField int

const (
	fieldPrivateKey formField = iota
	fieldReceiver
	fieldMessage
	fieldLink
	fieldCount
)

type (
	stateMsg state.State
	sentMsg  struct {
		res *pm.SendResult
		err error
	}
	readMsg struct {
		rec *pm.Received
		err error
	}
)

// stateRelay drains the store subscription and keeps only the newest
// state, so feed delivery never waits on the UI loop.
type stateRelay struct {
	mu     sync.Mutex
	latest state.State
	notify chan struct{}
	quit   chan struct{}
	once   sync.Once
}

func newStateRelay(store *state.Store) *stateRelay {
	r := &stateRelay{
		notify: make(chan struct{}, 1),
		quit:   make(chan struct{}),
	}
	updates := make(chan state.State, 16)
	sub := store.Subscribe(updates)
	go r.loop(updates, sub)
	return r
}

func (r *stateRelay) loop(updates chan state.State, sub event.Subscription) {
	defer sub.Unsubscribe()
	for {
		select {
		case st := <-updates:
			r.mu.Lock()
			r.latest = st
			r.mu.Unlock()
			select {
			case r.notify <- struct{}{}:
			default:
			}
		case <-sub.Err():
			return
		case <-r.quit:
			return
		}
	}
}

// wait returns a command delivering the next state change.
func (r *stateRelay) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-r.notify:
		case <-r.quit:
			return nil
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		return stateMsg(r.latest)
	}
}

func (r *stateRelay) stop() {
	r.once.Do(func() { close(r.quit) })
}

type formModel struct {
	ctx     context.Context
	session *pm.Session
	timeout time.Duration
	relay   *stateRelay

	privateKey textinput.Model
	receiver   textinput.Model
	message    textarea.Model
	link       textinput.Model
	focus      formField

	snapshot state.State
	busy     string
	status   string
	err      error

	keys formKeyMap
	help help.Model
}

func newFormModel(ctx context.Context, session *pm.Session, timeout time.Duration) *formModel {
	st := session.Store().State()

	privateKey := textinput.New()
	privateKey.Placeholder = "hex encoded private key"
	privateKey.EchoMode = textinput.EchoPassword
	privateKey.EchoCharacter = '•'
	privateKey.Width = 66
	privateKey.SetValue(st.SenderPrivateKey)

	receiver := textinput.New()
	receiver.Placeholder = "0x..."
	receiver.Width = 44
	receiver.SetValue(st.ReceiverAddress)

	message := textarea.New()
	message.Placeholder = "Your message"
	message.SetWidth(66)
	message.SetHeight(5)
	message.SetValue(st.MessageToSend)

	link := textinput.New()
	link.Placeholder = "message link or swarm hash"
	link.Width = 66

	m := &formModel{
		ctx:        ctx,
		session:    session,
		timeout:    timeout,
		relay:      newStateRelay(session.Store()),
		privateKey: privateKey,
		receiver:   receiver,
		message:    message,
		link:       link,
		snapshot:   st,
		keys:       formKeys,
		help:       help.New(),
	}
	m.setFocus(fieldPrivateKey)
	return m
}

func (m *formModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.relay.wait())
}

func (m *formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		m.snapshot = state.State(msg)
		return m, m.relay.wait()

	case sentMsg:
		m.busy = ""
		m.err = msg.err
		switch {
		case msg.res != nil && msg.err != nil:
			m.status = "Message stored but the notification failed"
		case msg.err == nil:
			m.status = "Message sent, notification " + msg.res.Tx.Hash().Hex()
		default:
			m.status = ""
		}
		m.snapshot = m.session.Store().State()
		return m, nil

	case readMsg:
		m.busy = ""
		m.err = msg.err
		m.status = ""
		if msg.err == nil {
			m.status = "Message " + msg.rec.SwarmHash + " read"
		}
		m.snapshot = m.session.Store().State()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.relay.stop()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case key.Matches(msg, m.keys.Prev):
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case key.Matches(msg, m.keys.Send):
			return m, m.send()
		case key.Matches(msg, m.keys.Read):
			return m, m.read()
		}
	}
	return m, m.updateFocused(msg)
}

// updateFocused passes msg to the focused input and persists its value
// when it changed.
func (m *formModel) updateFocused(msg tea.Msg) tea.Cmd {
	var (
		cmd   tea.Cmd
		field string
		value string
	)
	switch m.focus {
	case fieldPrivateKey:
		m.privateKey, cmd = m.privateKey.Update(msg)
		field, value = "senderEthereumPrivateKey", m.privateKey.Value()
	case fieldReceiver:
		m.receiver, cmd = m.receiver.Update(msg)
		field, value = "receiverEthereumAddress", m.receiver.Value()
	case fieldMessage:
		m.message, cmd = m.message.Update(msg)
		field, value = "messageToSend", m.message.Value()
	case fieldLink:
		m.link, cmd = m.link.Update(msg)
		return cmd
	}
	if current, _ := m.snapshot.Get(field); current != value {
		st, err := m.session.Store().Set(field, value)
		if err != nil {
			m.err = err
		} else {
			m.snapshot = st
		}
	}
	return cmd
}

func (m *formModel) setFocus(f formField) tea.Cmd {
	m.focus = f
	m.privateKey.Blur()
	m.receiver.Blur()
	m.message.Blur()
	m.link.Blur()
	switch f {
	case fieldPrivateKey:
		return m.privateKey.Focus()
	case fieldReceiver:
		return m.receiver.Focus()
	case fieldMessage:
		return m.message.Focus()
	default:
		return m.link.Focus()
	}
}

func (m *formModel) send() tea.Cmd {
	if m.busy != "" {
		return nil
	}
	m.busy = "Sending message..."
	m.err = nil
	session, parent, timeout := m.session, m.ctx, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		res, err := session.Send(ctx, false)
		return sentMsg{res: res, err: err}
	}
}

func (m *formModel) read() tea.Cmd {
	if m.busy != "" {
		return nil
	}
	ref := m.link.Value()
	if strings.TrimSpace(ref) == "" {
		m.err = pm.ErrNoSwarmHash
		return nil
	}
	m.busy = "Reading message..."
	m.err = nil
	session, parent, timeout := m.session, m.ctx, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		rec, err := session.Read(ctx, ref)
		return readMsg{rec: rec, err: err}
	}
}

func (m *formModel) label(f formField, text string) string {
	if m.focus == f {
		return focusStyle.Render("> " + text)
	}
	return labelStyle.Render("  " + text)
}

func (m *formModel) View() string {
	var b strings.Builder
	st := m.snapshot

	b.WriteString(titleStyle.Render("Ethereum PM - Private messaging with Ethereum and Swarm"))
	b.WriteString("\n")
	b.WriteString(warnStyle.Render(securityWarning) + "\n")
	b.WriteString(warnStyle.Render(mainnetWarning) + "\n\n")

	b.WriteString(m.label(fieldPrivateKey, "Your Ethereum private key:") + "\n")
	b.WriteString(m.privateKey.View() + "\n")
	b.WriteString(m.label(fieldReceiver, "Receiver Ethereum address:") + "\n")
	b.WriteString(m.receiver.View() + "\n")
	if st.ReceiverPublicKey != "" {
		b.WriteString(labelStyle.Render("  Receiver public key: ") + valueStyle.Render(st.ReceiverPublicKey) + "\n")
	}
	b.WriteString(m.label(fieldMessage, "Message:") + "\n")
	b.WriteString(m.message.View() + "\n")
	if st.MessageHyperlink != "" {
		b.WriteString(labelStyle.Render("  Message link: ") + valueStyle.Render(st.MessageHyperlink) + "\n")
	}

	var read strings.Builder
	read.WriteString(m.label(fieldLink, "Read a message link:") + "\n")
	read.WriteString(m.link.View() + "\n")
	if st.ReceivedEncrypted != "" {
		read.WriteString(labelStyle.Render("  Received message:") + "\n")
		if pm.Placeholder(st.ReceivedDecrypted) {
			read.WriteString(errorStyle.Render(st.ReceivedDecrypted) + "\n")
		} else {
			read.WriteString(st.ReceivedDecrypted + "\n")
		}
	}
	b.WriteString(sectionStyle.Render(read.String()) + "\n")

	switch {
	case m.busy != "":
		b.WriteString(statusStyle.Render(m.busy) + "\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
		if m.status != "" {
			b.WriteString(statusStyle.Render(m.status) + "\n")
		}
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}
