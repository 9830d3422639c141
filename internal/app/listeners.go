package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/simplechat/internal/logger"
	"github.com/zhubert/simplechat/internal/notification"
	"github.com/zhubert/simplechat/internal/protocol"
	"github.com/zhubert/simplechat/internal/ui"
)

// listenForUpdates waits for the next chat_updated push. It is re-armed
// after every update and returns nil for transports that never push.
func (m *Model) listenForUpdates() tea.Cmd {
	ch := m.updates
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return UpdatesClosedMsg{}
		}
		return ChatUpdatedMsg{Update: update}
	}
}

// handleChatUpdated spreads a push over the open transcript and the badges.
func (m *Model) handleChatUpdated(msg ChatUpdatedMsg) (tea.Model, tea.Cmd) {
	log := logger.WithComponent("app")
	u := msg.Update
	log.Debug("chat update", "chats", len(u.Chats), "messages", len(u.CurrentChatMessages))

	if u.CurrentUsername != "" {
		m.header.SetUsername(u.CurrentUsername)
	}

	cmds := []tea.Cmd{m.messages.ApplyUpdate(u), m.listenForUpdates()}
	if raised := m.chats.ApplyUpdate(u); len(raised) > 0 && m.config.GetNotificationsEnabled() {
		cmds = append(cmds, notifyUnread(raised))
	}
	return m, tea.Batch(cmds...)
}

// notifyUnread sends one desktop notification per chat off the update loop.
func notifyUnread(chats []protocol.Chat) tea.Cmd {
	return func() tea.Msg {
		for _, c := range chats {
			_ = notification.UnreadMessages(c.ChatName, c.UnreadCount)
		}
		return nil
	}
}

func (m *Model) handleUpdatesClosed() (tea.Model, tea.Cmd) {
	m.updates = nil
	if m.ctx.Err() != nil {
		return m, nil
	}
	logger.WithComponent("app").Warn("push channel closed")
	return m, m.flash("Connection to server lost", ui.FlashWarning)
}
