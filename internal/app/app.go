// Package app wires the chat controllers into the Bubble Tea program.
package app

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/simplechat/internal/config"
	"github.com/zhubert/simplechat/internal/logger"
	"github.com/zhubert/simplechat/internal/protocol"
	"github.com/zhubert/simplechat/internal/transport"
	"github.com/zhubert/simplechat/internal/ui"
)

// Model is the main Bubble Tea model
type Model struct {
	config *config.Config
	client transport.Client

	ctx    context.Context
	cancel context.CancelFunc

	header *ui.Header
	footer *ui.Footer
	modal  *ui.Modal

	users    *UserWindow
	chats    *ChatWindow
	messages *MessageWindow

	updates <-chan protocol.ChatUpdate

	width  int
	height int
	focus  ui.Pane
	closed bool
}

// New creates a new app model. The model owns client until the program
// exits.
func New(cfg *config.Config, client transport.Client) *Model {
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}

	ctx, cancel := context.WithCancel(context.Background())

	users := NewUserWindow(ctx, client)
	messages := NewMessageWindow(ctx, client, cfg.GetPollInterval())
	chats := NewChatWindow(ctx, client, users, messages)
	users.SetChatWindow(chats)

	m := &Model{
		config:   cfg,
		client:   client,
		ctx:      ctx,
		cancel:   cancel,
		header:   ui.NewHeader(),
		footer:   ui.NewFooter(),
		modal:    ui.NewModal(),
		users:    users,
		chats:    chats,
		messages: messages,
		updates:  client.Updates(),
		focus:    ui.PaneUsers,
	}
	m.header.SetTransport(cfg.GetTransport())
	m.applyFocus()

	logger.WithComponent("app").Info("app created",
		"server", cfg.GetServerURL(),
		"transport", cfg.GetTransport(),
		"pushes", client.Pushes(),
	)
	return m
}

// Init loads the first pages of both lists, restores the chat the server
// session left open and starts listening for pushes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.users.LoadUsers(1, true),
		m.chats.LoadChats(1),
		m.currentChat(),
		m.listenForUpdates(),
	)
}

func (m *Model) currentChat() tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		resp, err := client.CurrentChat(ctx)
		return CurrentChatMsg{Resp: resp, Err: err}
	}
}

// Shutdown cancels every request in flight and closes the transport. Calls
// after the first do nothing.
func (m *Model) Shutdown() {
	if m.closed {
		return
	}
	m.closed = true
	m.cancel()
	m.messages.Hide()
	if err := m.client.Close(); err != nil {
		logger.WithComponent("app").Warn("closing transport", "error", err)
	}
}

// Focus returns the focused pane.
func (m *Model) Focus() ui.Pane { return m.focus }

// SetFocus moves keyboard focus to a pane.
func (m *Model) SetFocus(p ui.Pane) {
	m.focus = p
	m.applyFocus()
}

func (m *Model) cycleFocus(step int) {
	const panes = 3
	m.SetFocus(ui.Pane((int(m.focus) + step + panes) % panes))
}

func (m *Model) applyFocus() {
	m.users.Panel().SetFocused(m.focus == ui.PaneUsers)
	m.chats.Panel().SetFocused(m.focus == ui.PaneChats)
	m.messages.Panel().SetFocused(m.focus == ui.PaneMessages)
}

func (m *Model) Users() *UserWindow { return m.users }

func (m *Model) Chats() *ChatWindow { return m.chats }

func (m *Model) Messages() *MessageWindow { return m.messages }
