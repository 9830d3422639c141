package protocol

import "encoding/json"

// ClientIDHeader carries the per-process client id. The server keys its
// notion of the "current chat" on it, alongside the session cookie.
const ClientIDHeader = "X-Client-ID"

// SocketPath is where the server accepts websocket upgrades.
const SocketPath = "/socket"

// Endpoint names a server operation. HTTP requests POST to Path(); socket
// requests and their replies carry the name as the envelope event.
type Endpoint string

const (
	SearchUsers         Endpoint = "search_users"
	LoadUsers           Endpoint = "load_users"
	SearchChats         Endpoint = "search_chats"
	LoadChats           Endpoint = "load_chats"
	ChooseChat          Endpoint = "choose_chat"
	LoadMessages        Endpoint = "load_messages"
	CheckNewMessages    Endpoint = "check_new_messages" // HTTP only
	AddContactsAndChats Endpoint = "add_contacts_and_chats"
	RemoveChat          Endpoint = "remove_chat"
	SendMessage         Endpoint = "send_message"
	CurrentChat         Endpoint = "current_chat"
	FlushMessages       Endpoint = "flush_messages" // socket only, no reply
	ChatUpdated         Endpoint = "chat_updated"   // socket push only
)

// Path returns the HTTP path for the endpoint.
func (e Endpoint) Path() string { return "/" + string(e) }

// Requests

type SearchUsersRequest struct {
	Username   string `json:"username"`
	PageNumber int    `json:"page_number"`
}

type LoadUsersRequest struct {
	PageNumber int  `json:"page_number"`
	ClearArea  bool `json:"clear_area"`
}

type SearchChatsRequest struct {
	ChatName   string `json:"chat_name"`
	PageNumber int    `json:"page_number"`
}

type LoadChatsRequest struct {
	PageNumber int `json:"page_number"`
}

// ChatRequest is the body of every request that names a single chat.
type ChatRequest struct {
	ChatID ID `json:"chat_id"`
}

type AddContactsRequest struct {
	UserIDs []ID `json:"user_ids"`
}

// SendMessageRequest is the HTTP body for send_message.
type SendMessageRequest struct {
	Message string `json:"message"`
	ChatID  ID     `json:"chat_id"`
}

// SocketSendMessageRequest is the socket payload for send_message.
type SocketSendMessageRequest struct {
	MessageText string `json:"message_text"`
	ChatID      ID     `json:"chat_id"`
}

// Responses

type SearchUsersResponse struct {
	FoundUsers []User `json:"found_users"`
}

type LoadUsersResponse struct {
	AddedUsers []User `json:"added_users"`
	ClearArea  bool   `json:"clear_area,omitempty"`
}

type SearchChatsResponse struct {
	FoundChats []Chat `json:"found_chats"`
}

type LoadChatsResponse struct {
	Chats []Chat `json:"chats"`
}

// ChooseChatResponse answers choose_chat. An empty ChatName means the server
// toggled the chat closed.
type ChooseChatResponse struct {
	Messages        []Message `json:"messages"`
	ChatName        string    `json:"chat_name"`
	ChatID          ID        `json:"chat_id,omitempty"`
	CurrentUsername string    `json:"current_username"`
}

// MessagesResponse answers load_messages and check_new_messages.
type MessagesResponse struct {
	Messages        []Message `json:"messages"`
	CurrentUsername string    `json:"current_username"`
}

type AddContactsResponse struct {
	AddedChats []Chat `json:"added_chats"`
}

// RemoveChatResponse answers remove_chat. HTTP nests the id under
// removed_chat, the socket reply carries it at the top level.
type RemoveChatResponse struct {
	RemovedChat *ChatRequest `json:"removed_chat,omitempty"`
	ChatID      ID           `json:"chat_id,omitempty"`
}

// ID returns the removed chat's id from whichever shape the server used.
func (r RemoveChatResponse) ID() ID {
	if r.RemovedChat != nil && r.RemovedChat.ChatID != "" {
		return r.RemovedChat.ChatID
	}
	return r.ChatID
}

type SendMessageResponse struct {
	Message         Message `json:"message"`
	CurrentUsername string  `json:"current_username"`
	ChatName        string  `json:"chat_name"`
}

// CurrentChatResponse reports the chat left open in the server session, if any.
type CurrentChatResponse struct {
	ChatID   ID     `json:"chat_id,omitempty"`
	ChatName string `json:"chat_name,omitempty"`
}

// ChatUpdate is the payload of a chat_updated push. Chats lists every chat
// with unread messages for the receiving user.
type ChatUpdate struct {
	Chats               []Chat    `json:"chats"`
	CurrentChatMessages []Message `json:"current_chat_messages"`
	CurrentUsername     string    `json:"current_username"`
}

// Envelope frames every socket message in both directions. Error and Status
// are set only on server replies to requests that failed.
type Envelope struct {
	Event  Endpoint        `json:"event"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	Status int             `json:"status,omitempty"`
}

// NewEnvelope marshals v as the data of an envelope for event.
func NewEnvelope(event Endpoint, v any) (Envelope, error) {
	env := Envelope{Event: event}
	if v == nil {
		return env, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return env, err
	}
	env.Data = data
	return env, nil
}
