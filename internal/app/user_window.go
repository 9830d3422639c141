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

// UserWindow controls the platform user list: searching, paging, selecting
// users and turning the selection into chats.
type UserWindow struct {
	ctx    context.Context
	client transport.Client
	chats  *ChatWindow

	list  *state.UserList
	panel *ui.UserPanel

	req   request
	query string // active search, empty while showing the plain list
	log   *slog.Logger
}

// NewUserWindow creates the controller. SetChatWindow must be called before
// contacts can be added.
func NewUserWindow(ctx context.Context, client transport.Client) *UserWindow {
	list := state.NewUserList()
	return &UserWindow{
		ctx:    ctx,
		client: client,
		list:   list,
		panel:  ui.NewUserPanel(list),
		log:    logger.WithComponent("user-window"),
	}
}

// SetChatWindow wires the sibling that creates chats from the selection.
func (w *UserWindow) SetChatWindow(c *ChatWindow) { w.chats = c }

func (w *UserWindow) List() *state.UserList { return w.list }

func (w *UserWindow) Panel() *ui.UserPanel { return w.panel }

// AddUser tracks and renders a user once.
func (w *UserWindow) AddUser(u protocol.User) {
	if w.list.AddUser(u) {
		w.panel.Sync()
	}
}

// RemoveUser drops a user and its selection.
func (w *UserWindow) RemoveUser(id protocol.ID) {
	if w.list.RemoveUser(id) {
		w.panel.Sync()
	}
}

// SearchUsers asks for one page of users matching query.
func (w *UserWindow) SearchUsers(query string, page int) tea.Cmd {
	w.query = query
	ctx, seq := w.req.next(w.ctx)
	client := w.client
	w.log.Debug("searching users", "query", query, "page", page, "seq", seq)
	return func() tea.Msg {
		resp, err := client.SearchUsers(ctx, query, page)
		return UsersLoadedMsg{Seq: seq, Search: true, Query: query, Page: page, Users: resp.FoundUsers, Err: err}
	}
}

// LoadUsers asks for one page of the plain user list.
func (w *UserWindow) LoadUsers(page int, clear bool) tea.Cmd {
	w.query = ""
	ctx, seq := w.req.next(w.ctx)
	client := w.client
	w.log.Debug("loading users", "page", page, "clear", clear, "seq", seq)
	return func() tea.Msg {
		resp, err := client.LoadUsers(ctx, page, clear)
		return UsersLoadedMsg{Seq: seq, Page: page, Clear: clear || resp.ClearArea, Users: resp.AddedUsers, Err: err}
	}
}

// QueryChanged restarts the list for the current search text. Queries at or
// under the threshold show the plain list again.
func (w *UserWindow) QueryChanged() tea.Cmd {
	q := w.panel.Query()
	if state.IsSearch(q) {
		w.list.Clear()
		w.panel.Sync()
		return w.SearchUsers(q, 1)
	}
	return w.LoadUsers(1, true)
}

// NextPage fetches the page after the tracked users without clearing.
func (w *UserWindow) NextPage() tea.Cmd {
	page := w.list.PageNumber()
	if w.query != "" {
		return w.SearchUsers(w.query, page)
	}
	return w.LoadUsers(page, false)
}

// HandleUsers applies a user page. Stale replies are dropped.
func (w *UserWindow) HandleUsers(msg UsersLoadedMsg) error {
	if !w.req.finish(msg.Seq) {
		w.log.Debug("dropping stale user page", "seq", msg.Seq, "current", w.req.seq)
		return nil
	}
	if msg.Err != nil {
		return msg.Err
	}

	tracked := w.list.Len()
	var clear bool
	if msg.Search {
		clear = state.ClearForUserSearch(len(msg.Users), tracked, msg.Page)
	} else {
		clear = state.ClearForUserLoad(msg.Clear, len(msg.Users), tracked)
	}
	w.list.AddUsers(msg.Users, clear)
	w.panel.Sync()
	w.log.Debug("users applied", "received", len(msg.Users), "clear", clear, "tracked", w.list.Len())
	return nil
}

// ToggleHighlighted flips the selection of the user under the cursor.
func (w *UserWindow) ToggleHighlighted() {
	u, ok := w.panel.Highlighted()
	if !ok {
		return
	}
	selected := w.list.ToggleSelected(u.UserID)
	w.log.Debug("toggled user", "id", u.UserID, "selected", selected)
}

// AddContacts hands the selection to the chat window and clears it without
// waiting for the outcome.
func (w *UserWindow) AddContacts() tea.Cmd {
	ids := w.list.Selected()
	if len(ids) == 0 {
		return nil
	}
	var cmd tea.Cmd
	if w.chats != nil {
		cmd = w.chats.AddContactsAndChats(ids)
	}
	w.list.ClearSelection()
	return cmd
}

// Refresh re-clamps the cursor after the lists changed elsewhere.
func (w *UserWindow) Refresh() { w.panel.Sync() }

// HandleKey processes a key while the user pane is focused.
func (w *UserWindow) HandleKey(msg tea.KeyPressMsg) tea.Cmd {
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
		w.ToggleHighlighted()
		return nil
	case keys.CtrlA:
		return w.AddContacts()
	}

	changed, cmd := w.panel.UpdateSearch(msg)
	if changed {
		return tea.Batch(cmd, w.QueryChanged())
	}
	return cmd
}
