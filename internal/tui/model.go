// Package tui is the interactive terminal front end: a bubbletea model
// that edits the endpoint and the message draft, drives connects and
// sends through a client.Session and renders the message log.
package tui

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/omochice/wstest/internal/chat"
	"github.com/omochice/wstest/internal/client"
)

// DefaultRefreshInterval is how often the model polls the message log.
const DefaultRefreshInterval = 50 * time.Millisecond

// Focus is the input field receiving keystrokes.
type Focus int

const (
	FocusEndpoint Focus = iota
	FocusMessage
)

// Other returns the opposite field.
func (f Focus) Other() Focus {
	if f == FocusEndpoint {
		return FocusMessage
	}
	return FocusEndpoint
}

func (f Focus) String() string {
	switch f {
	case FocusEndpoint:
		return "endpoint"
	case FocusMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Options configures a Model.
type Options struct {
	// Endpoint is the initial endpoint. When set, the model connects on
	// start and focuses the message field.
	Endpoint string

	RefreshInterval time.Duration
}

type tickMsg time.Time

// connectDoneMsg reports the outcome of a background connect. Failures
// are logged by the controller and not shown.
type connectDoneMsg struct {
	endpoint string
	err      error
}

// Model is the bubbletea model of the client.
type Model struct {
	session *client.Session
	keys    keyMap
	help    help.Model
	styles  styles

	endpoint textinput.Model
	draft    textinput.Model
	messages viewport.Model

	focus      Focus
	entries    []chat.Entry
	sendFailed bool
	refresh    time.Duration

	width  int
	height int
}

// New creates a Model driving session.
func New(session *client.Session, opts Options) Model {
	endpoint := textinput.New()
	endpoint.Prompt = ""
	endpoint.Placeholder = "ws://localhost:8080/"
	endpoint.SetValue(opts.Endpoint)

	draft := textinput.New()
	draft.Prompt = ""
	draft.Placeholder = "Type a message"

	refresh := opts.RefreshInterval
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}

	styles := defaultStyles()
	endpoint.TextStyle = styles.Endpoint

	m := Model{
		session:  session,
		keys:     defaultKeyMap(),
		help:     help.New(),
		styles:   styles,
		endpoint: endpoint,
		draft:    draft,
		messages: viewport.New(0, 0),
		refresh:  refresh,
	}
	focus := FocusEndpoint
	if opts.Endpoint != "" {
		focus = FocusMessage
	}
	m.setFocus(focus)
	m.resize(80, 24)
	return m
}

// Init starts the refresh ticker and the initial connect, if any.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.tick()}
	if m.endpoint.Value() != "" {
		cmds = append(cmds, connectCmd(m.session, m.endpoint.Value()))
	}
	return tea.Batch(cmds...)
}

// Update handles one event and then refreshes the log snapshot.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.syncEntries()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		return m, m.tick()

	case connectDoneMsg:
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.messages, cmd = m.messages.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			m.setFocus(m.focus.Other())
			return m, nil
		case key.Matches(msg, m.keys.Reconnect):
			return m, m.reconnect()
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
			var cmd tea.Cmd
			m.messages, cmd = m.messages.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	if m.focus == FocusEndpoint {
		m.endpoint, cmd = m.endpoint.Update(msg)
	} else {
		m.draft, cmd = m.draft.Update(msg)
	}
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.focus == FocusEndpoint {
		cmd := m.reconnect()
		m.setFocus(FocusMessage)
		return m, cmd
	}

	err := m.session.Send(context.Background(), m.draft.Value())
	m.sendFailed = err != nil
	m.draft.Reset()
	return m, nil
}

// reconnect clears the log and connects to the current endpoint in the
// background.
func (m *Model) reconnect() tea.Cmd {
	m.session.Log().Clear()
	return connectCmd(m.session, m.endpoint.Value())
}

func connectCmd(session *client.Session, endpoint string) tea.Cmd {
	return func() tea.Msg {
		err := session.Connect(context.Background(), endpoint)
		return connectDoneMsg{endpoint: endpoint, err: err}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) setFocus(focus Focus) {
	m.focus = focus
	if focus == FocusEndpoint {
		m.draft.Blur()
		m.endpoint.Focus()
	} else {
		m.endpoint.Blur()
		m.draft.Focus()
	}
}

// syncEntries pulls a snapshot of the log and updates the viewport when
// it changed. The view follows new entries while scrolled to the bottom.
func (m *Model) syncEntries() {
	entries := m.session.Log().Snapshot()
	if slices.Equal(entries, m.entries) {
		return
	}
	follow := m.messages.AtBottom() || len(entries) < len(m.entries)
	m.entries = entries
	m.messages.SetContent(m.renderEntries())
	if follow {
		m.messages.GotoBottom()
	}
}

// Focus returns the focused field.
func (m Model) Focus() Focus { return m.focus }

// Endpoint returns the endpoint text.
func (m Model) Endpoint() string { return m.endpoint.Value() }

// Draft returns the message draft.
func (m Model) Draft() string { return m.draft.Value() }

// SendFailed reports whether the last send failed.
func (m Model) SendFailed() bool { return m.sendFailed }

// Entries returns the log snapshot taken on the last update.
func (m Model) Entries() []chat.Entry { return m.entries }
