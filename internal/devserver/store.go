package devserver

import (
	"errors"
	"html"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/zhubert/simplechat/internal/protocol"
)

// PerPage matches the server's USERS_PER_PAGE and CHATS_PER_PAGE.
const PerPage = 10

// maxStringLength bounds search strings, like MAX_STRING_LENGTH upstream.
const maxStringLength = 64

var (
	errNotFound = errors.New("not found")
	errEmpty    = errors.New("empty message")
)

type user struct {
	id       int
	username string
}

type chat struct {
	id       int
	name     string // empty for one-to-one chats
	members  []int
	modified time.Time
}

type message struct {
	id       int
	chatID   int
	senderID int
	text     string
	created  time.Time
	wasRead  bool
}

// Store is the in-memory data set behind the dev server: users, their
// contacts, chats, messages with read flags, and per-user removed chats.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	users    map[int]*user
	byName   map[string]*user
	chats    map[int]*chat
	messages []*message
	contacts map[int]map[int]bool
	removed  map[int]map[int]bool // user id -> chat ids hidden from that user

	nextUser, nextChat, nextMessage int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:      func() time.Time { return time.Now().UTC() },
		users:    make(map[int]*user),
		byName:   make(map[string]*user),
		chats:    make(map[int]*chat),
		contacts: make(map[int]map[int]bool),
		removed:  make(map[int]map[int]bool),
	}
}

func toID(n int) protocol.ID { return protocol.ID(strconv.Itoa(n)) }

func paginate[T any](items []T, page int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PerPage
	if start >= len(items) {
		return []T{}
	}
	end := min(start+PerPage, len(items))
	return items[start:end]
}

func clip(s string) string {
	s = html.EscapeString(s)
	if len(s) > maxStringLength {
		s = s[:maxStringLength]
	}
	return s
}

// AddUser registers a user, returning the existing one if the name is taken.
func (s *Store) AddUser(username string) protocol.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.byName[username]; ok {
		return protocol.User{UserID: toID(u.id), Username: u.username}
	}
	s.nextUser++
	u := &user{id: s.nextUser, username: username}
	s.users[u.id] = u
	s.byName[username] = u
	return protocol.User{UserID: toID(u.id), Username: u.username}
}

// UserID looks a user up by name.
func (s *Store) UserID(username string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byName[username]
	if !ok {
		return 0, false
	}
	return u.id, true
}

// Username returns the name of a user id, or "" when unknown.
func (s *Store) Username(id int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u.username
	}
	return ""
}

// otherUsers must be called with mu held.
func (s *Store) otherUsers(me int) []*user {
	var out []*user
	for _, u := range s.users {
		if u.id != me {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].username < out[j].username })
	return out
}

func usersToWire(users []*user) []protocol.User {
	out := make([]protocol.User, 0, len(users))
	for _, u := range users {
		out = append(out, protocol.User{UserID: toID(u.id), Username: u.username})
	}
	return out
}

// LoadUsers returns one page of every user except me, ordered by username.
func (s *Store) LoadUsers(me, page int) []protocol.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return usersToWire(paginate(s.otherUsers(me), page))
}

// SearchUsers returns one page of the other users whose name contains query.
func (s *Store) SearchUsers(me int, query string, page int) []protocol.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(clip(query))
	var found []*user
	for _, u := range s.otherUsers(me) {
		if strings.Contains(strings.ToLower(u.username), needle) {
			found = append(found, u)
		}
	}
	return usersToWire(paginate(found, page))
}

func (c *chat) has(userID int) bool {
	for _, m := range c.members {
		if m == userID {
			return true
		}
	}
	return false
}

// nameFor must be called with mu held.
func (s *Store) nameFor(c *chat, me int) string {
	if c.name != "" {
		return c.name
	}
	for _, m := range c.members {
		if m != me {
			return s.users[m].username
		}
	}
	return ""
}

// unread must be called with mu held.
func (s *Store) unread(c *chat, me int) []*message {
	var out []*message
	for _, m := range s.messages {
		if m.chatID == c.id && m.senderID != me && !m.wasRead {
			out = append(out, m)
		}
	}
	return out
}

// available must be called with mu held.
func (s *Store) available(me int) []*chat {
	var out []*chat
	for _, c := range s.chats {
		if c.has(me) && !s.removed[me][c.id] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].modified.Equal(out[j].modified) {
			return out[i].id > out[j].id
		}
		return out[i].modified.After(out[j].modified)
	})
	return out
}

func (s *Store) chatToWire(c *chat, me int) protocol.Chat {
	return protocol.Chat{
		ChatID:      toID(c.id),
		ChatName:    s.nameFor(c, me),
		UnreadCount: len(s.unread(c, me)),
	}
}

// LoadChats returns one page of the chats visible to me, most recently
// modified first, with unread counters.
func (s *Store) LoadChats(me, page int) []protocol.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []protocol.Chat
	for _, c := range paginate(s.available(me), page) {
		out = append(out, s.chatToWire(c, me))
	}
	return nonNil(out)
}

// SearchChats returns one page of my visible chats whose name, or the other
// member's username, contains query.
func (s *Store) SearchChats(me int, query string, page int) []protocol.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(clip(query))
	var found []*chat
	for _, c := range s.available(me) {
		if strings.Contains(strings.ToLower(s.nameFor(c, me)), needle) {
			found = append(found, c)
		}
	}
	var out []protocol.Chat
	for _, c := range paginate(found, page) {
		out = append(out, s.chatToWire(c, me))
	}
	return nonNil(out)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// member must be called with mu held.
func (s *Store) member(me, chatID int) (*chat, error) {
	c, ok := s.chats[chatID]
	if !ok || !c.has(me) {
		return nil, errNotFound
	}
	return c, nil
}

func (s *Store) messagesToWire(msgs []*message) []protocol.Message {
	out := make([]protocol.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, protocol.Message{
			Text:           m.text,
			DateCreated:    m.created.Format(time.RFC3339Nano),
			SenderUsername: s.users[m.senderID].username,
		})
	}
	return out
}

// ChatName returns the display name of a chat for me.
func (s *Store) ChatName(me, chatID int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.member(me, chatID)
	if err != nil {
		return "", err
	}
	return s.nameFor(c, me), nil
}

// Messages returns the whole transcript of a chat in creation order.
func (s *Store) Messages(me, chatID int) ([]protocol.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.member(me, chatID)
	if err != nil {
		return nil, err
	}
	var msgs []*message
	for _, m := range s.messages {
		if m.chatID == c.id {
			msgs = append(msgs, m)
		}
	}
	return s.messagesToWire(msgs), nil
}

// UnreadMessages returns the messages in a chat that me has not read,
// marking them read when flush is set.
func (s *Store) UnreadMessages(me, chatID int, flush bool) ([]protocol.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.member(me, chatID)
	if err != nil {
		return nil, err
	}
	msgs := s.unread(c, me)
	if flush {
		for _, m := range msgs {
			m.wasRead = true
		}
	}
	return s.messagesToWire(msgs), nil
}

// Flush marks every message in a chat as read for me.
func (s *Store) Flush(me, chatID int) error {
	_, err := s.UnreadMessages(me, chatID, true)
	return err
}

// chatWith must be called with mu held.
func (s *Store) chatWith(me, other int) *chat {
	for _, c := range s.chats {
		if c.name == "" && len(c.members) == 2 && c.has(me) && c.has(other) {
			return c
		}
	}
	return nil
}

// newChat must be called with mu held.
func (s *Store) newChat(name string, members ...int) *chat {
	s.nextChat++
	c := &chat{id: s.nextChat, name: name, members: members, modified: s.now()}
	s.chats[c.id] = c
	return c
}

func (s *Store) mark(userID, chatID int, removed bool) {
	if removed {
		if s.removed[userID] == nil {
			s.removed[userID] = make(map[int]bool)
		}
		s.removed[userID][chatID] = true
		return
	}
	delete(s.removed[userID], chatID)
}

// AddContactsAndChats adds the given users as contacts of me and returns the
// chats that became visible: previously removed chats with those users first,
// then newly created ones. A new chat stays hidden from the other member
// until the first message arrives.
func (s *Store) AddContactsAndChats(me int, userIDs []int) ([]protocol.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range userIDs {
		if _, ok := s.users[id]; !ok || id == me {
			return nil, errNotFound
		}
	}

	var restored, created []*chat
	for _, id := range userIDs {
		if c := s.chatWith(me, id); c != nil && s.removed[me][c.id] {
			s.mark(me, c.id, false)
			restored = append(restored, c)
		}
	}
	for _, id := range userIDs {
		if s.contacts[me] == nil {
			s.contacts[me] = make(map[int]bool)
		}
		s.contacts[me][id] = true

		if s.chatWith(me, id) == nil {
			c := s.newChat("", me, id)
			s.mark(id, c.id, true)
			created = append(created, c)
		}
	}

	out := make([]protocol.Chat, 0, len(restored)+len(created))
	for _, c := range append(restored, created...) {
		out = append(out, protocol.Chat{ChatID: toID(c.id), ChatName: s.nameFor(c, me)})
	}
	return out, nil
}

// RemoveChat hides a chat from me until someone writes to it again.
func (s *Store) RemoveChat(me, chatID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.member(me, chatID)
	if err != nil {
		return err
	}
	s.mark(me, c.id, true)
	return nil
}

// SendMessage stores a message from me and returns it together with the
// chat's display name for me and the ids of the other members. Recipients
// who had removed the chat see it again.
func (s *Store) SendMessage(me, chatID int, text string) (protocol.Message, string, []int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.member(me, chatID)
	if err != nil {
		return protocol.Message{}, "", nil, err
	}
	text = html.EscapeString(strings.TrimRight(text, " \t\r\n"))
	if text == "" {
		return protocol.Message{}, "", nil, errEmpty
	}

	s.nextMessage++
	m := &message{id: s.nextMessage, chatID: c.id, senderID: me, text: text, created: s.now()}
	s.messages = append(s.messages, m)
	c.modified = m.created

	var recipients []int
	for _, id := range c.members {
		if id != me {
			s.mark(id, c.id, false)
			recipients = append(recipients, id)
		}
	}
	return s.messagesToWire([]*message{m})[0], s.nameFor(c, me), recipients, nil
}

// Updates builds the chat_updated payload for a user: every visible chat with
// unread messages, plus the unread messages of currentChat. ok is false when
// nothing is unread.
func (s *Store) Updates(userID, currentChat int) (protocol.ChatUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return protocol.ChatUpdate{}, false
	}

	update := protocol.ChatUpdate{
		Chats:               []protocol.Chat{},
		CurrentChatMessages: []protocol.Message{},
		CurrentUsername:     u.username,
	}
	for _, c := range s.available(userID) {
		unread := s.unread(c, userID)
		if len(unread) == 0 {
			continue
		}
		update.Chats = append(update.Chats, protocol.Chat{
			ChatID:      toID(c.id),
			ChatName:    s.nameFor(c, userID),
			UnreadCount: len(unread),
		})
		if c.id == currentChat {
			update.CurrentChatMessages = s.messagesToWire(unread)
		}
	}
	return update, len(update.Chats) > 0
}

// CreateGroupChat adds a named chat. Used for seeding.
func (s *Store) CreateGroupChat(name string, members ...int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newChat(name, members...).id
}

// OpenChat returns the one-to-one chat between two users, creating it
// visible to both. Used for seeding.
func (s *Store) OpenChat(a, b int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.chatWith(a, b); c != nil {
		return c.id
	}
	return s.newChat("", a, b).id
}
