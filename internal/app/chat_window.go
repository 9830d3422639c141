package app

import (
	"context"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/simplechat/internal/keys"
	"github.com/zhubert/simplechat/internal/logger"
	"github.com/zhubert/simplechat/internal/protocol"
	"github.com/zhubert/simplechat/internal/state"
	"github.com/zhubert/simplechat/internal/transport"
	"github.com/zhubert/simplechat/internal/ui"
)

// ChatWindow controls the chat list: paging and searching it, opening and
// closing chats, removing them and keeping the unread badges.
type ChatWindow struct {
	ctx      context.Context
	client   transport.Client
	users    *UserWindow
	messages *MessageWindow

	list  *state.ChatList
	panel *ui.ChatPanel

	req   request
	query string
	log   *slog.Logger
}

// NewChatWindow creates the controller with its siblings.
func NewChatWindow(ctx context.Context, client transport.Client, users *UserWindow, messages *MessageWindow) *ChatWindow {
	list := state.NewChatList()
	return &ChatWindow{
		ctx:      ctx,
		client:   client,
		users:    users,
		messages: messages,
		list:     list,
		panel:    ui.NewChatPanel(list),
		log:      logger.WithComponent("chat-window"),
	}
}

func (w *ChatWindow) List() *state.ChatList { return w.list }

func (w *ChatWindow) Panel() *ui.ChatPanel { return w.panel }

// Selected returns the open chat's id.
func (w *ChatWindow) Selected() (protocol.ID, bool) { return w.list.Selected() }

// LoadChats asks for one page of the user's chats.
func (w *ChatWindow) LoadChats(page int) tea.Cmd {
	w.query = ""
	ctx, seq := w.req.next(w.ctx)
	client := w.client
	w.log.Debug("loading chats", "page", page, "seq", seq)
	return func() tea.Msg {
		resp, err := client.LoadChats(ctx, page)
		return ChatsLoadedMsg{Seq: seq, Page: page, Chats: resp.Chats, Err: err}
	}
}

// SearchChats asks for one page of chats whose name matches.
func (w *ChatWindow) SearchChats(name string, page int) tea.Cmd {
	w.query = name
	ctx, seq := w.req.next(w.ctx)
	client := w.client
	w.log.Debug("searching chats", "query", name, "page", page, "seq", seq)
	return func() tea.Msg {
		resp, err := client.SearchChats(ctx, name, page)
		return ChatsLoadedMsg{Seq: seq, Search: true, Query: name, Page: page, Chats: resp.FoundChats, Err: err}
	}
}

// QueryChanged restarts the list for the current search text.
func (w *ChatWindow) QueryChanged() tea.Cmd {
	q := w.panel.Query()
	if state.IsSearch(q) {
		return w.SearchChats(q, 1)
	}
	return w.LoadChats(1)
}

// NextPage fetches the page after the tracked chats.
func (w *ChatWindow) NextPage() tea.Cmd {
	page := w.list.PageNumber()
	if w.query != "" {
		return w.SearchChats(w.query, page)
	}
	return w.LoadChats(page)
}

// HandleChats applies a chat page. Pages before the second replace the list.
func (w *ChatWindow) HandleChats(msg ChatsLoadedMsg) error {
	if !w.req.finish(msg.Seq) {
		w.log.Debug("dropping stale chat page", "seq", msg.Seq, "current", w.req.seq)
		return nil
	}
	if msg.Err != nil {
		return msg.Err
	}
	clear := state.ClearForChats(msg.Page)
	w.list.AddChats(msg.Chats, clear)
	w.refresh()
	w.log.Debug("chats applied", "received", len(msg.Chats), "clear", clear, "tracked", w.list.Len())
	return nil
}

func (w *ChatWindow) refresh() {
	w.panel.Sync()
	if w.users != nil {
		w.users.Refresh()
	}
}

// Choose asks the server to open id, or to close it when it is already open.
func (w *ChatWindow) Choose(id protocol.ID) tea.Cmd {
	ctx, client := w.ctx, w.client
	w.log.Debug("choosing chat", "id", id)
	return func() tea.Msg {
		resp, err := client.ChooseChat(ctx, id)
		return ChatChosenMsg{ChatID: id, Resp: resp, Err: err}
	}
}

// HandleChosen moves the selection after choose_chat answered. An empty chat
// name means the server closed the chat; any other reply opens it.
func (w *ChatWindow) HandleChosen(msg ChatChosenMsg) (tea.Cmd, error) {
	if msg.Err != nil {
		return nil, msg.Err
	}

	if msg.Resp.ChatName == "" {
		w.list.Deselect()
		w.messages.Hide()
		w.log.Info("chat closed", "id", msg.ChatID)
		return nil, nil
	}

	// A name means the server has the chat open, even when it already was
	// open here, so it is never toggled closed.
	if w.list.IsSelected(msg.ChatID) {
		w.list.ClearUnread(msg.ChatID)
		w.log.Info("chat reopened", "id", msg.ChatID)
	} else {
		w.log.Info("chat chosen", "id", msg.ChatID, "transition", w.list.Choose(msg.ChatID))
	}
	w.list.SetName(msg.ChatID, msg.Resp.ChatName)
	return w.messages.Open(msg.ChatID, msg.Resp.ChatName, msg.Resp.Messages, msg.Resp.CurrentUsername), nil
}

// CloseSelected closes the open chat through the server toggle.
func (w *ChatWindow) CloseSelected() tea.Cmd {
	id, ok := w.list.Selected()
	if !ok {
		return nil
	}
	return w.Choose(id)
}

// Restore reopens the chat the server session still has open.
func (w *ChatWindow) Restore(resp protocol.CurrentChatResponse) tea.Cmd {
	if resp.ChatID == "" {
		return nil
	}
	w.list.Select(resp.ChatID)
	w.log.Info("restoring open chat", "id", resp.ChatID)
	return w.messages.Load(resp.ChatID, resp.ChatName)
}

// RemoveChat asks the server to drop a chat.
func (w *ChatWindow) RemoveChat(id protocol.ID) tea.Cmd {
	ctx, client := w.ctx, w.client
	w.log.Debug("removing chat", "id", id)
	return func() tea.Msg {
		resp, err := client.RemoveChat(ctx, id)
		return ChatRemovedMsg{ChatID: id, Resp: resp, Err: err}
	}
}

// HandleRemoved drops the chat and closes whatever chat was open, removed or
// not.
func (w *ChatWindow) HandleRemoved(msg ChatRemovedMsg) error {
	if msg.Err != nil {
		return msg.Err
	}
	id := msg.Resp.ID()
	if id == "" {
		id = msg.ChatID
	}
	w.list.RemoveChat(id)
	w.list.Deselect()
	w.messages.Hide()
	w.refresh()
	w.log.Info("chat removed", "id", id)
	return nil
}

// AddContactsAndChats creates chats with the given users.
func (w *ChatWindow) AddContactsAndChats(ids []protocol.ID) tea.Cmd {
	ctx, client := w.ctx, w.client
	ids = append([]protocol.ID(nil), ids...)
	w.log.Debug("adding contacts", "count", len(ids))
	return func() tea.Msg {
		resp, err := client.AddContactsAndChats(ctx, ids)
		return ContactsAddedMsg{Chats: resp.AddedChats, Err: err}
	}
}

// HandleContactsAdded appends the new chats.
func (w *ChatWindow) HandleContactsAdded(msg ContactsAddedMsg) error {
	if msg.Err != nil {
		return msg.Err
	}
	w.list.AddChats(msg.Chats, false)
	w.refresh()
	w.log.Info("chats added", "count", len(msg.Chats))
	return nil
}

// ApplyUpdate sets badges from a chat_updated push and returns the chats
// whose unread count went up. The open chat never gets a badge.
func (w *ChatWindow) ApplyUpdate(update protocol.ChatUpdate) []protocol.Chat {
	var raised []protocol.Chat
	for _, c := range update.Chats {
		if w.list.IsSelected(c.ChatID) {
			continue
		}
		before := w.list.Unread(c.ChatID)
		if !w.list.AddChat(c) {
			w.list.SetUnread(c.ChatID, c.UnreadCount)
		}
		if c.UnreadCount > before {
			raised = append(raised, c)
		}
	}
	w.refresh()
	return raised
}

// HandleKey processes a key while the chat pane is focused.
func (w *ChatWindow) HandleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case keys.Up:
		w.panel.MoveUp()
		return nil
	case keys.Down:
		if w.panel.MoveDown() {
			return w.NextPage()
		}
		return nil
	case keys.Home:
		w.panel.MoveHome()
		return nil
	case keys.End:
		w.panel.MoveEnd()
		return w.NextPage()
	case keys.Enter:
		if c, ok := w.panel.Highlighted(); ok {
			return w.Choose(c.ChatID)
		}
		return nil
	case keys.CtrlD:
		if c, ok := w.panel.Highlighted(); ok {
			return w.RemoveChat(c.ChatID)
		}
		return nil
	}

	changed, cmd := w.panel.UpdateSearch(msg)
	if changed {
		return tea.Batch(cmd, w.QueryChanged())
	}
	return cmd
}
