package state

import "github.com/zhubert/simplechat/internal/protocol"

// Transition is the outcome of choosing a chat.
type Transition int

const (
	Opened   Transition = iota // no chat was open
	Closed                     // the open chat was chosen again
	Switched                   // a different chat was open
)

func (t Transition) String() string {
	switch t {
	case Opened:
		return "opened"
	case Closed:
		return "closed"
	case Switched:
		return "switched"
	default:
		return "unknown"
	}
}

// ChatList is the ordered list of tracked chats, the single selected chat and
// the unread badge counters.
type ChatList struct {
	chats    []protocol.Chat
	tracked  map[protocol.ID]int // id -> index into chats
	selected protocol.ID
	unread   map[protocol.ID]int
}

func NewChatList() *ChatList {
	return &ChatList{
		tracked: make(map[protocol.ID]int),
		unread:  make(map[protocol.ID]int),
	}
}

func (l *ChatList) reindex() {
	clear(l.tracked)
	for i, c := range l.chats {
		l.tracked[c.ChatID] = i
	}
}

// AddChat appends a chat unless it is tracked already. A positive unread
// counter on the chat becomes its badge.
func (l *ChatList) AddChat(c protocol.Chat) bool {
	if _, ok := l.tracked[c.ChatID]; ok {
		return false
	}
	l.tracked[c.ChatID] = len(l.chats)
	l.chats = append(l.chats, c)
	if c.UnreadCount > 0 && c.ChatID != l.selected {
		l.unread[c.ChatID] = c.UnreadCount
	}
	return true
}

// AddChats appends chats in order, emptying the list first with clear. The
// selected id survives a clear so the chat is marked again when it returns.
func (l *ChatList) AddChats(chats []protocol.Chat, clear bool) {
	if clear {
		l.Clear()
	}
	for _, c := range chats {
		l.AddChat(c)
	}
}

// Clear empties the list and its badges.
func (l *ChatList) Clear() {
	l.chats = nil
	clear(l.tracked)
	clear(l.unread)
}

// RemoveChat drops a chat and its badge. The selection is left alone.
func (l *ChatList) RemoveChat(id protocol.ID) bool {
	i, ok := l.tracked[id]
	if !ok {
		return false
	}
	l.chats = append(l.chats[:i], l.chats[i+1:]...)
	delete(l.unread, id)
	l.reindex()
	return true
}

func (l *ChatList) Has(id protocol.ID) bool {
	_, ok := l.tracked[id]
	return ok
}

func (l *ChatList) Len() int { return len(l.chats) }

// Chat returns a tracked chat by id.
func (l *ChatList) Chat(id protocol.ID) (protocol.Chat, bool) {
	i, ok := l.tracked[id]
	if !ok {
		return protocol.Chat{}, false
	}
	return l.chats[i], true
}

// At returns the chat at display position i.
func (l *ChatList) At(i int) (protocol.Chat, bool) {
	if i < 0 || i >= len(l.chats) {
		return protocol.Chat{}, false
	}
	return l.chats[i], true
}

// Chats returns the tracked chats in display order.
func (l *ChatList) Chats() []protocol.Chat {
	out := make([]protocol.Chat, len(l.chats))
	copy(out, l.chats)
	return out
}

// IDs returns the tracked ids in display order.
func (l *ChatList) IDs() []protocol.ID {
	out := make([]protocol.ID, 0, len(l.chats))
	for _, c := range l.chats {
		out = append(out, c.ChatID)
	}
	return out
}

// SetName updates the display name of a tracked chat.
func (l *ChatList) SetName(id protocol.ID, name string) {
	if i, ok := l.tracked[id]; ok && name != "" {
		l.chats[i].ChatName = name
	}
}

// Choose applies the selection state machine: choosing the open chat closes
// it, anything else opens the chosen one. Opening clears its badge.
func (l *ChatList) Choose(id protocol.ID) Transition {
	if l.selected != "" && l.selected == id {
		l.selected = ""
		return Closed
	}
	prev := l.selected
	l.selected = id
	delete(l.unread, id)
	if prev == "" {
		return Opened
	}
	return Switched
}

// Select marks id as the open chat without the toggle semantics of Choose.
func (l *ChatList) Select(id protocol.ID) {
	l.selected = id
	delete(l.unread, id)
}

// Selected returns the open chat id.
func (l *ChatList) Selected() (protocol.ID, bool) {
	return l.selected, l.selected != ""
}

func (l *ChatList) IsSelected(id protocol.ID) bool {
	return l.selected != "" && l.selected == id
}

// Deselect closes the open chat, if any.
func (l *ChatList) Deselect() { l.selected = "" }

// SetUnread sets a badge counter. Zero or less removes the badge.
func (l *ChatList) SetUnread(id protocol.ID, n int) {
	if n <= 0 {
		delete(l.unread, id)
		return
	}
	l.unread[id] = n
}

func (l *ChatList) Unread(id protocol.ID) int { return l.unread[id] }

func (l *ChatList) ClearUnread(id protocol.ID) { delete(l.unread, id) }

// PageNumber is the next page to request when scrolling: trunc(n/10 + 1).
func (l *ChatList) PageNumber() int {
	return len(l.chats)/PerPage + 1
}
