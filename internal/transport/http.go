package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	pcerrors "github.com/zhubert/simplechat/internal/errors"
	"github.com/zhubert/simplechat/internal/logger"
	"github.com/zhubert/simplechat/internal/protocol"
)

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 512

// HTTPClient implements Client with one JSON POST per operation.
type HTTPClient struct {
	opts Options
	base string
	log  *slog.Logger
}

// NewHTTPClient returns an HTTP transport for opts.BaseURL.
func NewHTTPClient(opts Options) *HTTPClient {
	opts = opts.withDefaults()
	return &HTTPClient{
		opts: opts,
		base: strings.TrimRight(opts.BaseURL, "/"),
		log:  logger.WithComponent("transport").With("transport", "http"),
	}
}

// ClientID returns the id sent in the X-Client-ID header.
func (c *HTTPClient) ClientID() string { return c.opts.ClientID }

func (c *HTTPClient) post(ctx context.Context, ep protocol.Endpoint, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return pcerrors.E(pcerrors.Op("transport.Post"), pcerrors.KindInvalid, "encoding "+string(ep), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+ep.Path(), bytes.NewReader(payload))
	if err != nil {
		return pcerrors.E(pcerrors.Op("transport.Post"), pcerrors.KindInvalid, "building "+string(ep), err)
	}
	req.Header = c.opts.header()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", "endpoint", ep, "error", err)
		return pcerrors.RequestFailed(ep.Path(), err)
	}
	defer resp.Body.Close()

	c.log.Debug("response", "endpoint", ep, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return pcerrors.BadStatus(ep.Path(), resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return pcerrors.RequestFailed(ep.Path(), ctx.Err())
		}
		return pcerrors.DecodeFailed(ep.Path(), err)
	}
	return nil
}

func (c *HTTPClient) SearchUsers(ctx context.Context, username string, page int) (protocol.SearchUsersResponse, error) {
	var resp protocol.SearchUsersResponse
	err := c.post(ctx, protocol.SearchUsers, protocol.SearchUsersRequest{Username: username, PageNumber: page}, &resp)
	return resp, err
}

func (c *HTTPClient) LoadUsers(ctx context.Context, page int, clear bool) (protocol.LoadUsersResponse, error) {
	var resp protocol.LoadUsersResponse
	err := c.post(ctx, protocol.LoadUsers, protocol.LoadUsersRequest{PageNumber: page, ClearArea: clear}, &resp)
	return resp, err
}

func (c *HTTPClient) SearchChats(ctx context.Context, chatName string, page int) (protocol.SearchChatsResponse, error) {
	var resp protocol.SearchChatsResponse
	err := c.post(ctx, protocol.SearchChats, protocol.SearchChatsRequest{ChatName: chatName, PageNumber: page}, &resp)
	return resp, err
}

func (c *HTTPClient) LoadChats(ctx context.Context, page int) (protocol.LoadChatsResponse, error) {
	var resp protocol.LoadChatsResponse
	err := c.post(ctx, protocol.LoadChats, protocol.LoadChatsRequest{PageNumber: page}, &resp)
	return resp, err
}

func (c *HTTPClient) ChooseChat(ctx context.Context, chatID protocol.ID) (protocol.ChooseChatResponse, error) {
	var resp protocol.ChooseChatResponse
	err := c.post(ctx, protocol.ChooseChat, protocol.ChatRequest{ChatID: chatID}, &resp)
	return resp, err
}

func (c *HTTPClient) LoadMessages(ctx context.Context, chatID protocol.ID) (protocol.MessagesResponse, error) {
	var resp protocol.MessagesResponse
	err := c.post(ctx, protocol.LoadMessages, protocol.ChatRequest{ChatID: chatID}, &resp)
	return resp, err
}

func (c *HTTPClient) CheckNewMessages(ctx context.Context, chatID protocol.ID) (protocol.MessagesResponse, error) {
	var resp protocol.MessagesResponse
	err := c.post(ctx, protocol.CheckNewMessages, protocol.ChatRequest{ChatID: chatID}, &resp)
	return resp, err
}

func (c *HTTPClient) AddContactsAndChats(ctx context.Context, userIDs []protocol.ID) (protocol.AddContactsResponse, error) {
	var resp protocol.AddContactsResponse
	err := c.post(ctx, protocol.AddContactsAndChats, protocol.AddContactsRequest{UserIDs: userIDs}, &resp)
	return resp, err
}

func (c *HTTPClient) RemoveChat(ctx context.Context, chatID protocol.ID) (protocol.RemoveChatResponse, error) {
	var resp protocol.RemoveChatResponse
	err := c.post(ctx, protocol.RemoveChat, protocol.ChatRequest{ChatID: chatID}, &resp)
	return resp, err
}

func (c *HTTPClient) SendMessage(ctx context.Context, chatID protocol.ID, text string) (protocol.SendMessageResponse, error) {
	var resp protocol.SendMessageResponse
	err := c.post(ctx, protocol.SendMessage, protocol.SendMessageRequest{Message: text, ChatID: chatID}, &resp)
	return resp, err
}

// FlushMessages is a no-op over HTTP: check_new_messages already marks the
// returned messages as read.
func (c *HTTPClient) FlushMessages(ctx context.Context, chatID protocol.ID) error {
	return nil
}

func (c *HTTPClient) CurrentChat(ctx context.Context) (protocol.CurrentChatResponse, error) {
	var resp protocol.CurrentChatResponse
	err := c.post(ctx, protocol.CurrentChat, struct{}{}, &resp)
	return resp, err
}

func (c *HTTPClient) Updates() <-chan protocol.ChatUpdate { return nil }

func (c *HTTPClient) Pushes() bool { return false }

func (c *HTTPClient) Close() error {
	c.opts.HTTPClient.CloseIdleConnections()
	return nil
}

var _ Client = (*HTTPClient)(nil)
