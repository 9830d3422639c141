package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/simplechat/internal/config"
	pcerrors "github.com/zhubert/simplechat/internal/errors"
	"github.com/zhubert/simplechat/internal/keys"
	"github.com/zhubert/simplechat/internal/protocol"
	"github.com/zhubert/simplechat/internal/transport"
)

// fakeClient is a transport that answers from canned data and records every
// call as "op:args".
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	users    map[int][]protocol.User // load_users and search_users by page
	chats    map[int][]protocol.Chat // load_chats and search_chats by page
	messages map[protocol.ID][]protocol.Message
	added    []protocol.Chat
	fresh    []protocol.Message // returned once by check_new_messages
	current  protocol.CurrentChatResponse
	names    map[protocol.ID]string
	errs     map[string]error
	username string

	// toggle makes choose_chat close an already open chat like the server.
	toggle bool
	open   protocol.ID

	pushes  bool
	updates chan protocol.ChatUpdate
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		users:    map[int][]protocol.User{},
		chats:    map[int][]protocol.Chat{},
		messages: map[protocol.ID][]protocol.Message{},
		names:    map[protocol.ID]string{},
		errs:     map[string]error{},
		username: "alice",
	}
}

func (f *fakeClient) record(op string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	parts := []string{op}
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	f.calls = append(f.calls, strings.Join(parts, ":"))
	return f.errs[op]
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) called(call string) bool {
	for _, c := range f.Calls() {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeClient) count(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func canceled(ctx context.Context, op string) error {
	if ctx.Err() != nil {
		return pcerrors.RequestFailed(op, ctx.Err())
	}
	return nil
}

func (f *fakeClient) SearchUsers(ctx context.Context, username string, page int) (protocol.SearchUsersResponse, error) {
	if err := f.record("search_users", username, page); err != nil {
		return protocol.SearchUsersResponse{}, err
	}
	if err := canceled(ctx, "search_users"); err != nil {
		return protocol.SearchUsersResponse{}, err
	}
	var found []protocol.User
	for _, u := range f.users[page] {
		if strings.Contains(u.Username, username) {
			found = append(found, u)
		}
	}
	return protocol.SearchUsersResponse{FoundUsers: found}, nil
}

func (f *fakeClient) LoadUsers(ctx context.Context, page int, clear bool) (protocol.LoadUsersResponse, error) {
	if err := f.record("load_users", page, clear); err != nil {
		return protocol.LoadUsersResponse{}, err
	}
	if err := canceled(ctx, "load_users"); err != nil {
		return protocol.LoadUsersResponse{}, err
	}
	return protocol.LoadUsersResponse{AddedUsers: f.users[page]}, nil
}

func (f *fakeClient) SearchChats(ctx context.Context, chatName string, page int) (protocol.SearchChatsResponse, error) {
	if err := f.record("search_chats", chatName, page); err != nil {
		return protocol.SearchChatsResponse{}, err
	}
	var found []protocol.Chat
	for _, c := range f.chats[page] {
		if strings.Contains(c.ChatName, chatName) {
			found = append(found, c)
		}
	}
	return protocol.SearchChatsResponse{FoundChats: found}, nil
}

func (f *fakeClient) LoadChats(ctx context.Context, page int) (protocol.LoadChatsResponse, error) {
	if err := f.record("load_chats", page); err != nil {
		return protocol.LoadChatsResponse{}, err
	}
	return protocol.LoadChatsResponse{Chats: f.chats[page]}, nil
}

func (f *fakeClient) ChooseChat(ctx context.Context, chatID protocol.ID) (protocol.ChooseChatResponse, error) {
	if err := f.record("choose_chat", chatID); err != nil {
		return protocol.ChooseChatResponse{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toggle && f.open == chatID {
		f.open = ""
		return protocol.ChooseChatResponse{ChatID: chatID, CurrentUsername: f.username}, nil
	}
	f.open = chatID
	return protocol.ChooseChatResponse{
		Messages:        f.messages[chatID],
		ChatName:        f.names[chatID],
		ChatID:          chatID,
		CurrentUsername: f.username,
	}, nil
}

func (f *fakeClient) LoadMessages(ctx context.Context, chatID protocol.ID) (protocol.MessagesResponse, error) {
	if err := f.record("load_messages", chatID); err != nil {
		return protocol.MessagesResponse{}, err
	}
	return protocol.MessagesResponse{Messages: f.messages[chatID], CurrentUsername: f.username}, nil
}

func (f *fakeClient) CheckNewMessages(ctx context.Context, chatID protocol.ID) (protocol.MessagesResponse, error) {
	if err := f.record("check_new_messages", chatID); err != nil {
		return protocol.MessagesResponse{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	fresh := f.fresh
	f.fresh = nil
	return protocol.MessagesResponse{Messages: fresh, CurrentUsername: f.username}, nil
}

func (f *fakeClient) AddContactsAndChats(ctx context.Context, userIDs []protocol.ID) (protocol.AddContactsResponse, error) {
	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}
	if err := f.record("add_contacts_and_chats", strings.Join(ids, ",")); err != nil {
		return protocol.AddContactsResponse{}, err
	}
	return protocol.AddContactsResponse{AddedChats: f.added}, nil
}

func (f *fakeClient) RemoveChat(ctx context.Context, chatID protocol.ID) (protocol.RemoveChatResponse, error) {
	if err := f.record("remove_chat", chatID); err != nil {
		return protocol.RemoveChatResponse{}, err
	}
	return protocol.RemoveChatResponse{RemovedChat: &protocol.ChatRequest{ChatID: chatID}}, nil
}

func (f *fakeClient) SendMessage(ctx context.Context, chatID protocol.ID, text string) (protocol.SendMessageResponse, error) {
	if err := f.record("send_message", chatID, text); err != nil {
		return protocol.SendMessageResponse{}, err
	}
	return protocol.SendMessageResponse{
		Message:         protocol.Message{Text: text, DateCreated: "2024-03-01T09:00:47", SenderUsername: f.username},
		CurrentUsername: f.username,
		ChatName:        f.names[chatID],
	}, nil
}

func (f *fakeClient) FlushMessages(ctx context.Context, chatID protocol.ID) error {
	return f.record("flush_messages", chatID)
}

func (f *fakeClient) CurrentChat(ctx context.Context) (protocol.CurrentChatResponse, error) {
	if err := f.record("current_chat"); err != nil {
		return protocol.CurrentChatResponse{}, err
	}
	return f.current, nil
}

func (f *fakeClient) Updates() <-chan protocol.ChatUpdate {
	if f.updates == nil {
		return nil
	}
	return f.updates
}

func (f *fakeClient) Pushes() bool { return f.pushes }

func (f *fakeClient) Close() error {
	f.record("close")
	return nil
}

var _ transport.Client = (*fakeClient)(nil)

// testConfig returns defaults with a poll interval long enough that no timer
// fires during a test.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.SetPollInterval(time.Hour)
	cfg.SetAlertOnError(true)
	return cfg
}

func testModel(t *testing.T, f *fakeClient) *Model {
	t.Helper()
	m := New(testConfig(), f)
	setSize(m, 120, 40)
	t.Cleanup(m.cancel)
	return m
}

func user(id, name string) protocol.User {
	return protocol.User{UserID: protocol.ID(id), Username: name}
}

func chat(id, name string, unread int) protocol.Chat {
	return protocol.Chat{ChatID: protocol.ID(id), ChatName: name, UnreadCount: unread}
}

// cmdTimeout bounds how long drain waits on one command. Timers (polls,
// flashes, cursor blinks) outlive it and are dropped.
const cmdTimeout = 50 * time.Millisecond

func runCmd(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

// drain runs cmd and feeds every resulting message back into m until no
// immediate work is left.
func drain(m *Model, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 500; steps++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := runCmd(c)
		if !ok || msg == nil {
			continue
		}
		if batch, isBatch := msg.(tea.BatchMsg); isBatch {
			queue = append(queue, batch...)
			continue
		}
		if _, isQuit := msg.(tea.QuitMsg); isQuit {
			continue
		}
		_, next := m.Update(msg)
		queue = append(queue, next)
	}
}

// keyPress creates a tea.KeyPressMsg for the given key string.
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.ShiftTab:
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Backspace:
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.Home:
		return tea.KeyPressMsg{Code: tea.KeyHome}
	case keys.End:
		return tea.KeyPressMsg{Code: tea.KeyEnd}
	case keys.PgUp:
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case keys.CtrlA:
		return tea.KeyPressMsg{Code: 'a', Mod: tea.ModCtrl}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case keys.CtrlD:
		return tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl}
	case keys.CtrlR:
		return tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	default:
		r := []rune(key)
		return tea.KeyPressMsg{Code: r[0], Text: key}
	}
}

// sendKey presses a key and runs whatever it triggers.
func sendKey(m *Model, key string) {
	_, cmd := m.Update(keyPress(key))
	drain(m, cmd)
}

// typeText simulates typing a string by sending individual character key presses.
func typeText(m *Model, text string) {
	for _, ch := range text {
		sendKey(m, string(ch))
	}
}

// setSize sends a window size message to the model.
func setSize(m *Model, width, height int) {
	m.Update(tea.WindowSizeMsg{Width: width, Height: height})
}

// chooseChat opens or closes a chat through the chat window.
func chooseChat(m *Model, id string) {
	drain(m, m.chats.Choose(protocol.ID(id)))
}
