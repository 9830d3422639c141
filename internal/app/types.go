package app

import "github.com/zhubert/simplechat/internal/protocol"

// Results of transport calls. Each carries what the issuing controller needs
// to decide whether the reply still matters.

// UsersLoadedMsg answers search_users (Search set) or load_users.
type UsersLoadedMsg struct {
	Seq    uint64
	Search bool
	Query  string
	Page   int
	Clear  bool // the caller asked for the list to be replaced
	Users  []protocol.User
	Err    error
}

// ChatsLoadedMsg answers search_chats (Search set) or load_chats.
type ChatsLoadedMsg struct {
	Seq    uint64
	Search bool
	Query  string
	Page   int
	Chats  []protocol.Chat
	Err    error
}

// ChatChosenMsg answers choose_chat.
type ChatChosenMsg struct {
	ChatID protocol.ID
	Resp   protocol.ChooseChatResponse
	Err    error
}

// MessagesLoadedMsg answers load_messages.
type MessagesLoadedMsg struct {
	ChatID protocol.ID
	Resp   protocol.MessagesResponse
	Err    error
}

// NewMessagesMsg answers a poll's check_new_messages.
type NewMessagesMsg struct {
	ChatID protocol.ID
	Gen    uint64 // tick chain that issued the request
	Run    uint64 // poller run, bumped whenever the transcript is replaced
	Resp   protocol.MessagesResponse
	Err    error
}

// ContactsAddedMsg answers add_contacts_and_chats.
type ContactsAddedMsg struct {
	Chats []protocol.Chat
	Err   error
}

// ChatRemovedMsg answers remove_chat.
type ChatRemovedMsg struct {
	ChatID protocol.ID
	Resp   protocol.RemoveChatResponse
	Err    error
}

// MessageSentMsg answers send_message.
type MessageSentMsg struct {
	ChatID protocol.ID
	Resp   protocol.SendMessageResponse
	Err    error
}

// CurrentChatMsg answers current_chat at startup.
type CurrentChatMsg struct {
	Resp protocol.CurrentChatResponse
	Err  error
}

// ChatUpdatedMsg carries one chat_updated push.
type ChatUpdatedMsg struct {
	Update protocol.ChatUpdate
}

// UpdatesClosedMsg is sent once the push channel closes.
type UpdatesClosedMsg struct{}

// RequestFailedMsg reports a failure from a call whose reply carries nothing
// else, such as flush_messages.
type RequestFailedMsg struct {
	Op  string
	Err error
}
