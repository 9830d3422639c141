package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/simplechat/internal/keys"
	"github.com/zhubert/simplechat/internal/logger"
	"github.com/zhubert/simplechat/internal/ui"
)

// Update handles messages. This is the core Bubble Tea update function that routes
// all messages to appropriate handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKeyPress(msg)

	case UsersLoadedMsg:
		return m, m.fail(opName(msg.Search, "search_users", "load_users"), m.users.HandleUsers(msg))

	case ChatsLoadedMsg:
		return m, m.fail(opName(msg.Search, "search_chats", "load_chats"), m.chats.HandleChats(msg))

	case ChatChosenMsg:
		m.setUsername(msg.Resp.CurrentUsername)
		cmd, err := m.chats.HandleChosen(msg)
		return m, tea.Batch(cmd, m.fail("choose_chat", err))

	case CurrentChatMsg:
		if msg.Err != nil {
			return m, m.fail("current_chat", msg.Err)
		}
		return m, m.chats.Restore(msg.Resp)

	case MessagesLoadedMsg:
		m.setUsername(msg.Resp.CurrentUsername)
		cmd, err := m.messages.HandleLoaded(msg)
		return m, tea.Batch(cmd, m.fail("load_messages", err))

	case PollTickMsg:
		return m, m.messages.HandlePollTick(msg)

	case NewMessagesMsg:
		cmd, err := m.messages.HandleNewMessages(msg)
		return m, tea.Batch(cmd, m.fail("check_new_messages", err))

	case ContactsAddedMsg:
		return m, m.fail("add_contacts_and_chats", m.chats.HandleContactsAdded(msg))

	case ChatRemovedMsg:
		return m, m.fail("remove_chat", m.chats.HandleRemoved(msg))

	case MessageSentMsg:
		m.setUsername(msg.Resp.CurrentUsername)
		return m, m.fail("send_message", m.messages.HandleSent(msg))

	case RequestFailedMsg:
		return m, m.fail(msg.Op, msg.Err)

	case ChatUpdatedMsg:
		return m.handleChatUpdated(msg)

	case UpdatesClosedMsg:
		return m.handleUpdatesClosed()

	case ui.FlashTickMsg:
		if m.footer.ClearIfExpired() || !m.footer.HasFlash() {
			return m, nil
		}
		return m, ui.FlashTick()
	}

	// Cursor blink and other component messages
	_, cmd := m.messages.Panel().Update(msg)
	return m, cmd
}

func opName(search bool, searchOp, loadOp string) string {
	if search {
		return searchOp
	}
	return loadOp
}

func (m *Model) setUsername(name string) {
	if name != "" {
		m.header.SetUsername(name)
	}
}

// handleKeyPress routes a key to the modal, the global shortcuts or the
// focused pane, in that order.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == keys.CtrlC {
		logger.WithComponent("app").Info("quitting")
		m.Shutdown()
		return m, tea.Quit
	}

	// An alert swallows input until dismissed
	if m.modal.IsVisible() {
		if key == keys.Enter || key == keys.Escape {
			m.modal.Hide()
			return m, nil
		}
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		return m, cmd
	}

	switch key {
	case keys.Tab:
		m.cycleFocus(1)
		return m, nil
	case keys.ShiftTab:
		m.cycleFocus(-1)
		return m, nil
	}

	switch m.focus {
	case ui.PaneUsers:
		return m, m.users.HandleKey(msg)
	case ui.PaneChats:
		return m, m.chats.HandleKey(msg)
	default:
		return m, m.handleMessageKey(msg)
	}
}

func (m *Model) handleMessageKey(msg tea.KeyPressMsg) tea.Cmd {
	if !m.messages.Visible() {
		return nil
	}
	switch msg.String() {
	case keys.Enter:
		return m.messages.SendMessage(m.messages.Panel().Input())
	case keys.Escape:
		return m.chats.CloseSelected()
	case keys.CtrlY:
		return m.copyTranscript()
	case keys.CtrlR:
		return m.messages.PollNow()
	}
	return m.messages.HandleKey(msg)
}
