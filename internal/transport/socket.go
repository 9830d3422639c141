package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	pcerrors "github.com/zhubert/simplechat/internal/errors"
	"github.com/zhubert/simplechat/internal/logger"
	"github.com/zhubert/simplechat/internal/protocol"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 20 * time.Second
	updateBuffer = 16
)

// SocketClient implements Client over one websocket. Replies carry the
// request's event name and are matched to callers in FIFO order per name.
type SocketClient struct {
	conn *websocket.Conn
	opts Options
	log  *slog.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	waiters map[protocol.Endpoint][]chan protocol.Envelope
	closed  bool

	updates   chan protocol.ChatUpdate
	done      chan struct{} // closed by Close
	readDone  chan struct{} // closed when the read pump exits
	closeOnce sync.Once
}

// SocketURL converts an http(s) base URL into the websocket endpoint URL.
func SocketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + protocol.SocketPath
	return u.String(), nil
}

// DialSocket connects to the server's socket endpoint and starts the read
// pump. The returned client owns the connection until Close.
func DialSocket(ctx context.Context, opts Options) (*SocketClient, error) {
	opts = opts.withDefaults()

	wsURL, err := SocketURL(opts.BaseURL)
	if err != nil {
		return nil, pcerrors.E(pcerrors.Op("transport.DialSocket"), pcerrors.KindInvalid, opts.BaseURL, err)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: writeWait,
	}
	conn, resp, err := dialer.DialContext(ctx, wsURL, opts.header())
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return nil, pcerrors.BadStatus(protocol.SocketPath, resp.StatusCode, err.Error())
		}
		return nil, pcerrors.RequestFailed(protocol.SocketPath, err)
	}

	c := &SocketClient{
		conn:     conn,
		opts:     opts,
		log:      logger.WithComponent("transport").With("transport", "socket"),
		waiters:  make(map[protocol.Endpoint][]chan protocol.Envelope),
		updates:  make(chan protocol.ChatUpdate, updateBuffer),
		done:     make(chan struct{}),
		readDone: make(chan struct{}),
	}

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.readPump()
	go c.pingLoop()

	c.log.Info("socket connected", "url", wsURL)
	return c, nil
}

// ClientID returns the id sent in the X-Client-ID handshake header.
func (c *SocketClient) ClientID() string { return c.opts.ClientID }

func (c *SocketClient) readPump() {
	defer c.fail()

	for {
		var env protocol.Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			select {
			case <-c.done:
			default:
				c.log.Warn("socket read failed", "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		if env.Event == protocol.ChatUpdated {
			var update protocol.ChatUpdate
			if err := json.Unmarshal(env.Data, &update); err != nil {
				c.log.Warn("bad chat_updated payload", "error", err)
				continue
			}
			select {
			case c.updates <- update:
			case <-c.done:
				return
			}
			continue
		}

		c.mu.Lock()
		queue := c.waiters[env.Event]
		if len(queue) == 0 {
			c.mu.Unlock()
			c.log.Debug("reply with no waiter", "event", env.Event)
			continue
		}
		waiter := queue[0]
		c.waiters[env.Event] = queue[1:]
		c.mu.Unlock()

		// Buffered by one, and each waiter receives at most one reply.
		waiter <- env
	}
}

// fail releases every pending caller once the read pump is gone.
func (c *SocketClient) fail() {
	c.mu.Lock()
	c.closed = true
	for ep, queue := range c.waiters {
		for _, w := range queue {
			close(w)
		}
		delete(c.waiters, ep)
	}
	c.mu.Unlock()

	close(c.updates)
	close(c.readDone)
}

func (c *SocketClient) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-c.done:
			return
		case <-c.readDone:
			return
		}
	}
}

func (c *SocketClient) write(event protocol.Endpoint, body any) error {
	env, err := protocol.NewEnvelope(event, body)
	if err != nil {
		return pcerrors.E(pcerrors.Op("transport.Socket"), pcerrors.KindInvalid, "encoding "+string(event), err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(env); err != nil {
		return pcerrors.RequestFailed(string(event), err)
	}
	return nil
}

// request sends one event and waits for its reply. A caller whose context
// ends leaves its slot queued so the late reply is still consumed by it and
// FIFO matching for later callers stays intact.
func (c *SocketClient) request(ctx context.Context, event protocol.Endpoint, body, out any) error {
	waiter := make(chan protocol.Envelope, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return pcerrors.ConnectionClosed(string(event))
	}
	c.waiters[event] = append(c.waiters[event], waiter)
	c.mu.Unlock()

	if err := c.write(event, body); err != nil {
		c.dropWaiter(event, waiter)
		return err
	}

	select {
	case env, ok := <-waiter:
		if !ok {
			return pcerrors.ConnectionClosed(string(event))
		}
		if env.Error != "" {
			return pcerrors.BadStatus(string(event), env.Status, env.Error)
		}
		if out == nil || len(env.Data) == 0 {
			return nil
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return pcerrors.DecodeFailed(string(event), err)
		}
		return nil
	case <-ctx.Done():
		return pcerrors.RequestFailed(string(event), ctx.Err())
	}
}

func (c *SocketClient) dropWaiter(event protocol.Endpoint, waiter chan protocol.Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()

	queue := c.waiters[event]
	for i, w := range queue {
		if w == waiter {
			c.waiters[event] = append(queue[:i:i], queue[i+1:]...)
			return
		}
	}
}

func (c *SocketClient) SearchUsers(ctx context.Context, username string, page int) (protocol.SearchUsersResponse, error) {
	var resp protocol.SearchUsersResponse
	err := c.request(ctx, protocol.SearchUsers, protocol.SearchUsersRequest{Username: username, PageNumber: page}, &resp)
	return resp, err
}

func (c *SocketClient) LoadUsers(ctx context.Context, page int, clear bool) (protocol.LoadUsersResponse, error) {
	var resp protocol.LoadUsersResponse
	err := c.request(ctx, protocol.LoadUsers, protocol.LoadUsersRequest{PageNumber: page, ClearArea: clear}, &resp)
	return resp, err
}

func (c *SocketClient) SearchChats(ctx context.Context, chatName string, page int) (protocol.SearchChatsResponse, error) {
	var resp protocol.SearchChatsResponse
	err := c.request(ctx, protocol.SearchChats, protocol.SearchChatsRequest{ChatName: chatName, PageNumber: page}, &resp)
	return resp, err
}

func (c *SocketClient) LoadChats(ctx context.Context, page int) (protocol.LoadChatsResponse, error) {
	var resp protocol.LoadChatsResponse
	err := c.request(ctx, protocol.LoadChats, protocol.LoadChatsRequest{PageNumber: page}, &resp)
	return resp, err
}

func (c *SocketClient) ChooseChat(ctx context.Context, chatID protocol.ID) (protocol.ChooseChatResponse, error) {
	var resp protocol.ChooseChatResponse
	err := c.request(ctx, protocol.ChooseChat, protocol.ChatRequest{ChatID: chatID}, &resp)
	return resp, err
}

func (c *SocketClient) LoadMessages(ctx context.Context, chatID protocol.ID) (protocol.MessagesResponse, error) {
	var resp protocol.MessagesResponse
	err := c.request(ctx, protocol.LoadMessages, protocol.ChatRequest{ChatID: chatID}, &resp)
	return resp, err
}

// CheckNewMessages is not served over the socket; new messages arrive as
// chat_updated pushes instead.
func (c *SocketClient) CheckNewMessages(ctx context.Context, chatID protocol.ID) (protocol.MessagesResponse, error) {
	return protocol.MessagesResponse{}, pcerrors.E(pcerrors.Op("transport.CheckNewMessages"), pcerrors.KindInvalid,
		"check_new_messages is not available over the socket")
}

func (c *SocketClient) AddContactsAndChats(ctx context.Context, userIDs []protocol.ID) (protocol.AddContactsResponse, error) {
	var resp protocol.AddContactsResponse
	err := c.request(ctx, protocol.AddContactsAndChats, protocol.AddContactsRequest{UserIDs: userIDs}, &resp)
	return resp, err
}

func (c *SocketClient) RemoveChat(ctx context.Context, chatID protocol.ID) (protocol.RemoveChatResponse, error) {
	var resp protocol.RemoveChatResponse
	err := c.request(ctx, protocol.RemoveChat, protocol.ChatRequest{ChatID: chatID}, &resp)
	return resp, err
}

func (c *SocketClient) SendMessage(ctx context.Context, chatID protocol.ID, text string) (protocol.SendMessageResponse, error) {
	var resp protocol.SendMessageResponse
	err := c.request(ctx, protocol.SendMessage, protocol.SocketSendMessageRequest{MessageText: text, ChatID: chatID}, &resp)
	return resp, err
}

// FlushMessages marks the open chat's pushed messages as read. The server
// sends no reply.
func (c *SocketClient) FlushMessages(ctx context.Context, chatID protocol.ID) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return pcerrors.ConnectionClosed(string(protocol.FlushMessages))
	}
	return c.write(protocol.FlushMessages, protocol.ChatRequest{ChatID: chatID})
}

func (c *SocketClient) CurrentChat(ctx context.Context) (protocol.CurrentChatResponse, error) {
	var resp protocol.CurrentChatResponse
	err := c.request(ctx, protocol.CurrentChat, nil, &resp)
	return resp, err
}

func (c *SocketClient) Updates() <-chan protocol.ChatUpdate { return c.updates }

func (c *SocketClient) Pushes() bool { return true }

// Close sends a close frame and tears the connection down. Pending requests
// fail with KindClosed.
func (c *SocketClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		c.writeMu.Unlock()
		err = c.conn.Close()
		<-c.readDone
		c.log.Info("socket closed")
	})
	return err
}

var _ Client = (*SocketClient)(nil)
