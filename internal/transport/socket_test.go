package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zhubert/simplechat/internal/devserver"
	pcerrors "github.com/zhubert/simplechat/internal/errors"
	"github.com/zhubert/simplechat/internal/protocol"
)

func (f *fixture) socketClient(t *testing.T, user string) *SocketClient {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := DialSocket(ctx, Options{BaseURL: f.ts.URL, Cookie: devserver.UserCookie + "=" + user})
	if err != nil {
		t.Fatalf("DialSocket(%s): %v", user, err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSocketURL(t *testing.T) {
	tests := []struct {
		base    string
		want    string
		wantErr bool
	}{
		{"http://localhost:5000", "ws://localhost:5000/socket", false},
		{"https://chat.example.com/", "wss://chat.example.com/socket", false},
		{"https://chat.example.com/app", "wss://chat.example.com/app/socket", false},
		{"ws://localhost", "ws://localhost/socket", false},
		{"ftp://localhost", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got, err := SocketURL(tt.base)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SocketURL(%q) error = %v", tt.base, err)
			}
			if got != tt.want {
				t.Errorf("SocketURL(%q) = %q, want %q", tt.base, got, tt.want)
			}
		})
	}
}

func TestSocketClient_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)
	alice := f.socketClient(t, "alice")

	if !alice.Pushes() {
		t.Error("socket transport pushes")
	}

	users, err := alice.LoadUsers(ctx, 1, true)
	if err != nil {
		t.Fatalf("LoadUsers: %v", err)
	}
	if len(users.AddedUsers) != 1 || !users.ClearArea {
		t.Errorf("LoadUsers = %+v", users)
	}

	chosen, err := alice.ChooseChat(ctx, f.chatID)
	if err != nil || chosen.ChatName != "bob" || chosen.ChatID != f.chatID {
		t.Fatalf("ChooseChat = %+v, %v", chosen, err)
	}

	sent, err := alice.SendMessage(ctx, f.chatID, "hello bob")
	if err != nil || sent.Message.Text != "hello bob" || sent.ChatName != "bob" {
		t.Errorf("SendMessage = %+v, %v", sent, err)
	}

	removed, err := alice.RemoveChat(ctx, f.chatID)
	if err != nil || removed.ID() != f.chatID {
		t.Errorf("RemoveChat = %+v, %v", removed, err)
	}

	if _, err := alice.CheckNewMessages(ctx, f.chatID); !pcerrors.Is(err, pcerrors.KindInvalid) {
		t.Errorf("CheckNewMessages over socket should be KindInvalid, got %v", err)
	}
}

func TestSocketClient_ReceivesChatUpdated(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)
	alice := f.socketClient(t, "alice")
	bob := f.socketClient(t, "bob")

	if _, err := alice.ChooseChat(ctx, f.chatID); err != nil {
		t.Fatal(err)
	}
	if _, err := bob.SendMessage(ctx, f.chatID, "you there?"); err != nil {
		t.Fatal(err)
	}

	select {
	case update := <-alice.Updates():
		if len(update.Chats) != 1 || update.Chats[0].ChatID != f.chatID {
			t.Errorf("update chats = %+v", update.Chats)
		}
		if len(update.CurrentChatMessages) != 1 || update.CurrentChatMessages[0].Text != "you there?" {
			t.Errorf("current chat messages = %+v", update.CurrentChatMessages)
		}
	case <-ctx.Done():
		t.Fatal("no chat_updated received")
	}

	if err := alice.FlushMessages(ctx, f.chatID); err != nil {
		t.Fatal(err)
	}
	// flush has no reply, so a later request must still get its own answer.
	if _, err := alice.LoadChats(ctx, 1); err != nil {
		t.Fatalf("LoadChats after flush: %v", err)
	}
	a, _ := f.store.UserID("alice")
	if update, ok := f.store.Updates(a, 0); ok {
		t.Errorf("messages should be flushed, still have %+v", update)
	}
}

func TestSocketClient_BadCookie(t *testing.T) {
	f := newFixture(t)
	_, err := DialSocket(testContext(t), Options{BaseURL: f.ts.URL, Cookie: devserver.UserCookie + "=nobody"})
	if !pcerrors.Is(err, pcerrors.KindStatus) {
		t.Errorf("err = %v, want KindStatus", err)
	}
}

func TestSocketClient_ServerError(t *testing.T) {
	f := newFixture(t)
	alice := f.socketClient(t, "alice")

	_, err := alice.ChooseChat(testContext(t), "999")
	var e *pcerrors.Error
	if !pcerrors.Is(err, pcerrors.KindStatus) {
		t.Fatalf("err = %v, want KindStatus", err)
	}
	if !errors.As(err, &e) || e.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", e.Status)
	}
}

// scriptedServer answers each request only when told to, so tests control
// reply order.
type scriptedServer struct {
	ts       *httptest.Server
	requests chan protocol.Envelope
	replies  chan protocol.Envelope
}

func newScriptedServer(t *testing.T) *scriptedServer {
	t.Helper()
	s := &scriptedServer{
		requests: make(chan protocol.Envelope, 8),
		replies:  make(chan protocol.Envelope, 8),
	}
	upgrader := websocket.Upgrader{}
	s.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		go func() {
			for env := range s.replies {
				if err := conn.WriteJSON(env); err != nil {
					return
				}
			}
		}()
		for {
			var env protocol.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			s.requests <- env
		}
	}))
	t.Cleanup(func() {
		close(s.replies)
		s.ts.Close()
	})
	return s
}

func chatsReply(t *testing.T, name string) protocol.Envelope {
	t.Helper()
	env, err := protocol.NewEnvelope(protocol.LoadChats, protocol.LoadChatsResponse{
		Chats: []protocol.Chat{{ChatID: "1", ChatName: name}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return env
}

func TestSocketClient_RepliesMatchFIFO(t *testing.T) {
	s := newScriptedServer(t)
	c, err := DialSocket(testContext(t), Options{BaseURL: s.ts.URL})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	type result struct {
		name string
		err  error
	}
	first := make(chan result, 1)
	second := make(chan result, 1)

	go func() {
		resp, err := c.LoadChats(context.Background(), 1)
		name := ""
		if len(resp.Chats) > 0 {
			name = resp.Chats[0].ChatName
		}
		first <- result{name, err}
	}()
	<-s.requests

	go func() {
		resp, err := c.LoadChats(context.Background(), 2)
		name := ""
		if len(resp.Chats) > 0 {
			name = resp.Chats[0].ChatName
		}
		second <- result{name, err}
	}()
	<-s.requests

	s.replies <- chatsReply(t, "one")
	s.replies <- chatsReply(t, "two")

	if r := <-first; r.err != nil || r.name != "one" {
		t.Errorf("first = %+v", r)
	}
	if r := <-second; r.err != nil || r.name != "two" {
		t.Errorf("second = %+v", r)
	}
}

func TestSocketClient_CanceledRequestKeepsItsSlot(t *testing.T) {
	s := newScriptedServer(t)
	c, err := DialSocket(testContext(t), Options{BaseURL: s.ts.URL})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	canceled := make(chan error, 1)
	go func() {
		_, err := c.LoadChats(ctx, 1)
		canceled <- err
	}()
	<-s.requests
	cancel()
	if err := <-canceled; !pcerrors.IsCanceled(err) {
		t.Fatalf("err = %v, want canceled", err)
	}

	later := make(chan string, 1)
	go func() {
		resp, _ := c.LoadChats(context.Background(), 2)
		if len(resp.Chats) > 0 {
			later <- resp.Chats[0].ChatName
			return
		}
		later <- ""
	}()
	<-s.requests

	// The late reply to the canceled request must not be handed to the
	// second caller.
	s.replies <- chatsReply(t, "stale")
	s.replies <- chatsReply(t, "fresh")

	select {
	case name := <-later:
		if name != "fresh" {
			t.Errorf("second caller got %q, want fresh", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second caller never answered")
	}
}

func TestSocketClient_CloseFailsPendingRequests(t *testing.T) {
	s := newScriptedServer(t)
	c, err := DialSocket(testContext(t), Options{BaseURL: s.ts.URL})
	if err != nil {
		t.Fatal(err)
	}

	pending := make(chan error, 1)
	go func() {
		_, err := c.LoadChats(context.Background(), 1)
		pending <- err
	}()
	<-s.requests

	if err := c.Close(); err != nil {
		t.Logf("Close: %v", err)
	}
	if err := <-pending; !pcerrors.Is(err, pcerrors.KindClosed) {
		t.Errorf("pending err = %v, want KindClosed", err)
	}
	if _, err := c.LoadChats(context.Background(), 1); !pcerrors.Is(err, pcerrors.KindClosed) {
		t.Errorf("request after close err = %v, want KindClosed", err)
	}
	if _, ok := <-c.Updates(); ok {
		t.Error("Updates should be closed")
	}
}

func TestSocketClient_IgnoresBadPushes(t *testing.T) {
	s := newScriptedServer(t)
	c, err := DialSocket(testContext(t), Options{BaseURL: s.ts.URL})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	s.replies <- protocol.Envelope{Event: protocol.ChatUpdated, Data: json.RawMessage(`"not an object"`)}
	good, _ := protocol.NewEnvelope(protocol.ChatUpdated, protocol.ChatUpdate{CurrentUsername: "alice"})
	s.replies <- good

	select {
	case u := <-c.Updates():
		if u.CurrentUsername != "alice" {
			t.Errorf("update = %+v", u)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no update")
	}
}
