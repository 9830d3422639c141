// Package devserver is an in-memory chat server for local development and
// tests. It serves the same HTTP endpoints and socket events the client
// speaks, keeps the "current chat" per client session, and pushes
// chat_updated events to connected recipients.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/zhubert/simplechat/internal/logger"
	"github.com/zhubert/simplechat/internal/protocol"
)

// UserCookie names the cookie identifying the caller. Its value is a username.
const UserCookie = "simplechat_user"

const (
	writeWait = 10 * time.Second
	readWait  = 60 * time.Second
)

// statusError carries the HTTP status a failed operation maps to.
type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string { return e.msg }

func badRequest(msg string) error { return &statusError{http.StatusBadRequest, msg} }

func statusOf(err error) (int, string) {
	var se *statusError
	if errors.As(err, &se) {
		return se.code, se.msg
	}
	switch {
	case errors.Is(err, errNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, errEmpty):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

// caller identifies one client session: a user plus the client id it sent.
type caller struct {
	userID   int
	username string
	clientID string
}

func (c caller) key() string { return c.username + "|" + c.clientID }

type socketConn struct {
	ws      *websocket.Conn
	caller  caller
	writeMu sync.Mutex
}

func (c *socketConn) send(env protocol.Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(env)
}

// Server serves one Store over HTTP and websocket.
type Server struct {
	store *Store
	log   *slog.Logger

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]int // caller key -> current chat id
	conns    map[int]map[*socketConn]struct{}

	// EchoUser, when set, names a user that answers every message sent to it.
	EchoUser  string
	EchoDelay time.Duration
}

// New returns a server over store.
func New(store *Store) *Server {
	return &Server{
		store: store,
		log:   logger.WithComponent("devserver"),
		upgrader: websocket.Upgrader{
			CheckOrigin:      func(r *http.Request) bool { return true },
			HandshakeTimeout: writeWait,
		},
		sessions:  make(map[string]int),
		conns:     make(map[int]map[*socketConn]struct{}),
		EchoDelay: 300 * time.Millisecond,
	}
}

// Store returns the data set behind the server.
func (s *Server) Store() *Store { return s.store }

// Handler builds the router: one POST route per endpoint plus the socket.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)

	for _, ep := range []protocol.Endpoint{
		protocol.SearchUsers,
		protocol.LoadUsers,
		protocol.SearchChats,
		protocol.LoadChats,
		protocol.ChooseChat,
		protocol.LoadMessages,
		protocol.CheckNewMessages,
		protocol.AddContactsAndChats,
		protocol.RemoveChat,
		protocol.SendMessage,
		protocol.CurrentChat,
	} {
		r.Post(ep.Path(), s.handleHTTP(ep))
	}
	r.Get(protocol.SocketPath, s.handleSocket)
	return r
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "elapsed", time.Since(start))
	})
}

// Listen serves on addr in the background and returns the base URL plus a
// shutdown function.
func (s *Server) Listen(addr string) (string, func(context.Context) error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, err
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: writeWait}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("serve failed", "error", err)
		}
	}()
	s.log.Info("listening", "addr", ln.Addr().String())
	return "http://" + ln.Addr().String(), func(ctx context.Context) error {
		s.closeSockets()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Server) identify(r *http.Request) (caller, error) {
	cookie, err := r.Cookie(UserCookie)
	if err != nil || cookie.Value == "" {
		return caller{}, &statusError{http.StatusUnauthorized, "missing " + UserCookie + " cookie"}
	}
	id, ok := s.store.UserID(cookie.Value)
	if !ok {
		return caller{}, &statusError{http.StatusUnauthorized, "unknown user " + cookie.Value}
	}
	return caller{userID: id, username: cookie.Value, clientID: r.Header.Get(protocol.ClientIDHeader)}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHTTP(ep protocol.Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.identify(r)
		if err != nil {
			code, msg := statusOf(err)
			http.Error(w, msg, code)
			return
		}

		var raw json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "request body must be JSON", http.StatusBadRequest)
			return
		}

		resp, err := s.dispatch(c, ep, raw, false)
		if err != nil {
			code, msg := statusOf(err)
			http.Error(w, msg, code)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	c, err := s.identify(r)
	if err != nil {
		code, msg := statusOf(err)
		http.Error(w, msg, code)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn := &socketConn{ws: ws, caller: c}

	_ = ws.SetReadDeadline(time.Now().Add(readWait))
	ws.SetPingHandler(func(data string) error {
		_ = ws.SetReadDeadline(time.Now().Add(readWait))
		conn.writeMu.Lock()
		defer conn.writeMu.Unlock()
		err := ws.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	s.register(conn)
	defer func() {
		s.unregister(conn)
		_ = ws.Close()
	}()

	s.log.Info("socket connected", "user", c.username, "client", c.clientID)
	s.pushTo(conn)

	for {
		var env protocol.Envelope
		if err := ws.ReadJSON(&env); err != nil {
			s.log.Debug("socket closed", "user", c.username, "error", err)
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(readWait))

		resp, err := s.dispatch(c, env.Event, env.Data, true)
		if env.Event == protocol.FlushMessages && err == nil {
			continue
		}

		reply := protocol.Envelope{Event: env.Event}
		if err != nil {
			reply.Status, reply.Error = statusOf(err)
		} else if reply, err = protocol.NewEnvelope(env.Event, resp); err != nil {
			reply = protocol.Envelope{Event: env.Event, Status: http.StatusInternalServerError, Error: err.Error()}
		}
		if err := conn.send(reply); err != nil {
			return
		}
	}
}

func (s *Server) register(c *socketConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns[c.caller.userID] == nil {
		s.conns[c.caller.userID] = make(map[*socketConn]struct{})
	}
	s.conns[c.caller.userID][c] = struct{}{}
}

func (s *Server) unregister(c *socketConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns[c.caller.userID], c)
	if len(s.conns[c.caller.userID]) == 0 {
		delete(s.conns, c.caller.userID)
	}
}

func (s *Server) closeSockets() {
	s.mu.Lock()
	var all []*socketConn
	for _, set := range s.conns {
		for c := range set {
			all = append(all, c)
		}
	}
	s.mu.Unlock()

	for _, c := range all {
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"), time.Now().Add(writeWait))
		c.writeMu.Unlock()
		_ = c.ws.Close()
	}
}

func (s *Server) currentChat(c caller) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[c.key()]
}

func (s *Server) setCurrentChat(c caller, chatID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if chatID == 0 {
		delete(s.sessions, c.key())
		return
	}
	s.sessions[c.key()] = chatID
}

// pushTo sends a chat_updated event to one connection if it has anything
// unread.
func (s *Server) pushTo(c *socketConn) {
	update, ok := s.store.Updates(c.caller.userID, s.currentChat(c.caller))
	if !ok {
		return
	}
	env, err := protocol.NewEnvelope(protocol.ChatUpdated, update)
	if err != nil {
		return
	}
	if err := c.send(env); err != nil {
		s.log.Debug("push failed", "user", c.caller.username, "error", err)
	}
}

// pushUpdates notifies every connected socket of the given users.
func (s *Server) pushUpdates(userIDs []int) {
	for _, id := range userIDs {
		s.mu.Lock()
		var targets []*socketConn
		for c := range s.conns[id] {
			targets = append(targets, c)
		}
		s.mu.Unlock()

		for _, c := range targets {
			s.pushTo(c)
		}
	}
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return badRequest("malformed request: " + err.Error())
	}
	return nil
}

func parseID(id protocol.ID) (int, error) {
	n, err := strconv.Atoi(string(id))
	if err != nil {
		return 0, badRequest("invalid id " + strconv.Quote(string(id)))
	}
	return n, nil
}

func (s *Server) chatID(raw json.RawMessage) (int, error) {
	var req protocol.ChatRequest
	if err := decode(raw, &req); err != nil {
		return 0, err
	}
	return parseID(req.ChatID)
}

// dispatch runs one operation for a caller. The socket and HTTP variants
// differ only in a few field names, selected by socket.
func (s *Server) dispatch(c caller, ep protocol.Endpoint, raw json.RawMessage, socket bool) (any, error) {
	me := c.userID

	switch ep {
	case protocol.SearchUsers:
		var req protocol.SearchUsersRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		return protocol.SearchUsersResponse{FoundUsers: s.store.SearchUsers(me, req.Username, req.PageNumber)}, nil

	case protocol.LoadUsers:
		var req protocol.LoadUsersRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		return protocol.LoadUsersResponse{
			AddedUsers: s.store.LoadUsers(me, req.PageNumber),
			ClearArea:  socket && req.ClearArea,
		}, nil

	case protocol.SearchChats:
		var req protocol.SearchChatsRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		return protocol.SearchChatsResponse{FoundChats: s.store.SearchChats(me, req.ChatName, req.PageNumber)}, nil

	case protocol.LoadChats:
		var req protocol.LoadChatsRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		return protocol.LoadChatsResponse{Chats: s.store.LoadChats(me, req.PageNumber)}, nil

	case protocol.ChooseChat:
		id, err := s.chatID(raw)
		if err != nil {
			return nil, err
		}
		if s.currentChat(c) == id {
			s.setCurrentChat(c, 0)
			return protocol.ChooseChatResponse{
				Messages:        []protocol.Message{},
				ChatID:          toID(id),
				CurrentUsername: c.username,
			}, nil
		}
		msgs, err := s.store.Messages(me, id)
		if err != nil {
			return nil, err
		}
		name, _ := s.store.ChatName(me, id)
		_ = s.store.Flush(me, id)
		s.setCurrentChat(c, id)
		return protocol.ChooseChatResponse{
			Messages:        msgs,
			ChatName:        name,
			ChatID:          toID(id),
			CurrentUsername: c.username,
		}, nil

	case protocol.LoadMessages:
		id, err := s.chatID(raw)
		if err != nil {
			return nil, err
		}
		msgs, err := s.store.Messages(me, id)
		if err != nil {
			return nil, err
		}
		return protocol.MessagesResponse{Messages: msgs, CurrentUsername: c.username}, nil

	case protocol.CheckNewMessages:
		id, err := s.chatID(raw)
		if err != nil {
			return nil, err
		}
		msgs, err := s.store.UnreadMessages(me, id, true)
		if err != nil {
			return nil, err
		}
		return protocol.MessagesResponse{Messages: msgs, CurrentUsername: c.username}, nil

	case protocol.AddContactsAndChats:
		var req protocol.AddContactsRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		if len(req.UserIDs) == 0 {
			return nil, badRequest("user_ids must not be empty")
		}
		ids := make([]int, 0, len(req.UserIDs))
		for _, uid := range req.UserIDs {
			n, err := parseID(uid)
			if err != nil {
				return nil, err
			}
			ids = append(ids, n)
		}
		chats, err := s.store.AddContactsAndChats(me, ids)
		if err != nil {
			return nil, err
		}
		return protocol.AddContactsResponse{AddedChats: chats}, nil

	case protocol.RemoveChat:
		id, err := s.chatID(raw)
		if err != nil {
			return nil, err
		}
		if err := s.store.RemoveChat(me, id); err != nil {
			return nil, err
		}
		s.setCurrentChat(c, 0)
		if socket {
			return protocol.RemoveChatResponse{ChatID: toID(id)}, nil
		}
		return protocol.RemoveChatResponse{RemovedChat: &protocol.ChatRequest{ChatID: toID(id)}}, nil

	case protocol.SendMessage:
		var text string
		var chat protocol.ID
		if socket {
			var req protocol.SocketSendMessageRequest
			if err := decode(raw, &req); err != nil {
				return nil, err
			}
			text, chat = req.MessageText, req.ChatID
		} else {
			var req protocol.SendMessageRequest
			if err := decode(raw, &req); err != nil {
				return nil, err
			}
			text, chat = req.Message, req.ChatID
		}
		id, err := parseID(chat)
		if err != nil {
			return nil, err
		}
		msg, name, recipients, err := s.store.SendMessage(me, id, text)
		if err != nil {
			return nil, err
		}
		if !socket {
			// Flask's jsonify renders datetimes in RFC 1123.
			if t, ok := protocol.ParseDate(msg.DateCreated); ok {
				msg.DateCreated = t.UTC().Format(http.TimeFormat)
			}
		}
		s.pushUpdates(recipients)
		s.maybeEcho(c, id, text, recipients)
		return protocol.SendMessageResponse{Message: msg, CurrentUsername: c.username, ChatName: name}, nil

	case protocol.FlushMessages:
		id, err := s.chatID(raw)
		if err != nil {
			return nil, err
		}
		return nil, s.store.Flush(me, id)

	case protocol.CurrentChat:
		id := s.currentChat(c)
		if id == 0 {
			return protocol.CurrentChatResponse{}, nil
		}
		name, err := s.store.ChatName(me, id)
		if err != nil {
			s.setCurrentChat(c, 0)
			return protocol.CurrentChatResponse{}, nil
		}
		return protocol.CurrentChatResponse{ChatID: toID(id), ChatName: name}, nil
	}

	return nil, &statusError{http.StatusNotFound, "unknown event " + strconv.Quote(string(ep))}
}

// maybeEcho makes the echo user answer a message sent to it.
func (s *Server) maybeEcho(from caller, chatID int, text string, recipients []int) {
	if s.EchoUser == "" {
		return
	}
	echoID, ok := s.store.UserID(s.EchoUser)
	if !ok || from.userID == echoID {
		return
	}
	for _, r := range recipients {
		if r != echoID {
			continue
		}
		time.AfterFunc(s.EchoDelay, func() {
			if _, _, targets, err := s.store.SendMessage(echoID, chatID, "echo: "+text); err == nil {
				s.pushUpdates(targets)
			}
		})
	}
}
