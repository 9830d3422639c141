// Package transport carries requests from the chat controllers to the server.
// Two implementations exist: HTTPClient posts JSON to one endpoint per
// operation and never pushes, SocketClient multiplexes every operation over a
// single websocket and delivers chat_updated pushes on Updates().
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/simplechat/internal/protocol"
)

// Client is the awaitable surface the controllers call. Every method blocks
// until the server answers, the context is done, or the transport fails.
type Client interface {
	SearchUsers(ctx context.Context, username string, page int) (protocol.SearchUsersResponse, error)
	LoadUsers(ctx context.Context, page int, clear bool) (protocol.LoadUsersResponse, error)
	SearchChats(ctx context.Context, chatName string, page int) (protocol.SearchChatsResponse, error)
	LoadChats(ctx context.Context, page int) (protocol.LoadChatsResponse, error)
	ChooseChat(ctx context.Context, chatID protocol.ID) (protocol.ChooseChatResponse, error)
	LoadMessages(ctx context.Context, chatID protocol.ID) (protocol.MessagesResponse, error)
	CheckNewMessages(ctx context.Context, chatID protocol.ID) (protocol.MessagesResponse, error)
	AddContactsAndChats(ctx context.Context, userIDs []protocol.ID) (protocol.AddContactsResponse, error)
	RemoveChat(ctx context.Context, chatID protocol.ID) (protocol.RemoveChatResponse, error)
	SendMessage(ctx context.Context, chatID protocol.ID, text string) (protocol.SendMessageResponse, error)
	FlushMessages(ctx context.Context, chatID protocol.ID) error
	CurrentChat(ctx context.Context) (protocol.CurrentChatResponse, error)

	// Updates yields pushed chat_updated payloads. It returns nil for
	// transports that never push, and the channel closes when the client does.
	Updates() <-chan protocol.ChatUpdate

	// Pushes reports whether the server delivers new messages unprompted.
	// When false the caller polls CheckNewMessages.
	Pushes() bool

	Close() error
}

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 15 * time.Second

// Options configure both transports.
type Options struct {
	BaseURL  string // e.g. http://localhost:5000
	Cookie   string // raw Cookie header value, may be empty
	ClientID string // generated when empty

	// HTTPClient overrides the client used by HTTPClient. Tests pass the one
	// from an httptest.Server.
	HTTPClient *http.Client
}

func (o Options) withDefaults() Options {
	if o.ClientID == "" {
		o.ClientID = uuid.NewString()
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return o
}

func (o Options) header() http.Header {
	h := http.Header{}
	h.Set(protocol.ClientIDHeader, o.ClientID)
	if o.Cookie != "" {
		h.Set("Cookie", o.Cookie)
	}
	return h
}
