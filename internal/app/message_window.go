package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/simplechat/internal/logger"
	"github.com/zhubert/simplechat/internal/protocol"
	"github.com/zhubert/simplechat/internal/state"
	"github.com/zhubert/simplechat/internal/transport"
	"github.com/zhubert/simplechat/internal/ui"
)

// MessageWindow controls the transcript of the open chat and the input used
// to send to it. Over HTTP it polls for new messages while a chat is open.
type MessageWindow struct {
	ctx    context.Context
	client transport.Client

	transcript *state.Transcript
	panel      *ui.MessagePanel

	chatID protocol.ID // open chat, empty while hidden
	poll   poller
	log    *slog.Logger
}

// NewMessageWindow creates the controller. interval is the polling period
// used when the transport does not push.
func NewMessageWindow(ctx context.Context, client transport.Client, interval time.Duration) *MessageWindow {
	transcript := state.NewTranscript()
	return &MessageWindow{
		ctx:        ctx,
		client:     client,
		transcript: transcript,
		panel:      ui.NewMessagePanel(transcript),
		poll:       poller{interval: interval},
		log:        logger.WithComponent("message-window"),
	}
}

func (w *MessageWindow) Transcript() *state.Transcript { return w.transcript }

func (w *MessageWindow) Panel() *ui.MessagePanel { return w.panel }

// ChatID returns the open chat, if any.
func (w *MessageWindow) ChatID() (protocol.ID, bool) { return w.chatID, w.chatID != "" }

// Visible reports whether a chat is showing.
func (w *MessageWindow) Visible() bool { return w.transcript.Visible() }

// Polling reports the chat the poller is bound to.
func (w *MessageWindow) Polling() (protocol.ID, bool) { return w.poll.chatID, w.poll.active }

// Open shows a chat with its full history and starts polling for it.
func (w *MessageWindow) Open(chatID protocol.ID, name string, msgs []protocol.Message, viewpoint string) tea.Cmd {
	w.chatID = chatID
	w.transcript.SetHeader(name)
	w.transcript.Replace(msgs, viewpoint)
	w.transcript.Show()
	w.panel.ClearInput()
	w.panel.Refresh()
	w.log.Debug("chat opened", "id", chatID, "messages", len(msgs))
	return w.startPolling()
}

// Load shows a chat and fetches its history with load_messages.
func (w *MessageWindow) Load(chatID protocol.ID, name string) tea.Cmd {
	w.chatID = chatID
	w.transcript.SetHeader(name)
	w.transcript.Replace(nil, "")
	w.transcript.Show()
	w.panel.Refresh()

	ctx, client := w.ctx, w.client
	return func() tea.Msg {
		resp, err := client.LoadMessages(ctx, chatID)
		return MessagesLoadedMsg{ChatID: chatID, Resp: resp, Err: err}
	}
}

// HandleLoaded replaces the transcript with a load_messages reply.
func (w *MessageWindow) HandleLoaded(msg MessagesLoadedMsg) (tea.Cmd, error) {
	if msg.ChatID != w.chatID {
		return nil, nil
	}
	if msg.Err != nil {
		return nil, msg.Err
	}
	w.transcript.Replace(msg.Resp.Messages, msg.Resp.CurrentUsername)
	w.panel.Refresh()
	return w.startPolling(), nil
}

// Hide closes the panel, clears the input and stops polling.
func (w *MessageWindow) Hide() {
	if w.chatID != "" {
		w.log.Debug("chat hidden", "id", w.chatID)
	}
	w.chatID = ""
	w.poll.stop()
	w.transcript.Hide()
	w.transcript.SetHeader("")
	w.transcript.Replace(nil, "")
	w.panel.ClearInput()
	w.panel.Refresh()
}

func (w *MessageWindow) startPolling() tea.Cmd {
	if w.client.Pushes() {
		w.poll.stop()
		return nil
	}
	w.log.Debug("polling started", "id", w.chatID, "interval", w.poll.interval)
	return w.poll.start(w.chatID)
}

// HandlePollTick issues check_new_messages for the live poll chain.
func (w *MessageWindow) HandlePollTick(msg PollTickMsg) tea.Cmd {
	if !w.poll.current(msg.ChatID, msg.Gen) {
		return nil
	}
	ctx, client := w.ctx, w.client
	chatID, gen, run := msg.ChatID, msg.Gen, w.poll.run
	return func() tea.Msg {
		resp, err := client.CheckNewMessages(ctx, chatID)
		return NewMessagesMsg{ChatID: chatID, Gen: gen, Run: run, Resp: resp, Err: err}
	}
}

// PollNow checks the open chat right away. The pending tick is dropped and
// the reply schedules the next one, so there is still one chain.
func (w *MessageWindow) PollNow() tea.Cmd {
	if !w.poll.active {
		return nil
	}
	gen := w.poll.restart()
	return w.HandlePollTick(PollTickMsg{ChatID: w.poll.chatID, Gen: gen})
}

// HandleNewMessages appends polled messages for the open chat. The server
// flushes what it returns, so a reply from a superseded chain is still
// appended; only the live chain schedules the next tick. A failed poll keeps
// the chain alive.
func (w *MessageWindow) HandleNewMessages(msg NewMessagesMsg) (tea.Cmd, error) {
	if msg.ChatID != w.chatID || msg.Run != w.poll.run {
		return nil, nil
	}
	var next tea.Cmd
	if w.poll.current(msg.ChatID, msg.Gen) {
		next = w.poll.tick()
	}
	if msg.Err != nil {
		if next == nil {
			w.log.Debug("superseded poll failed", "id", msg.ChatID, "error", msg.Err)
			return nil, nil
		}
		return next, msg.Err
	}
	if len(msg.Resp.Messages) > 0 {
		w.transcript.Append(msg.Resp.Messages, msg.Resp.CurrentUsername)
		w.panel.Refresh()
	}
	return next, nil
}

// ApplyUpdate appends pushed messages for the open chat and acknowledges
// them with flush_messages.
func (w *MessageWindow) ApplyUpdate(update protocol.ChatUpdate) tea.Cmd {
	if w.chatID == "" || len(update.CurrentChatMessages) == 0 {
		return nil
	}
	w.transcript.Append(update.CurrentChatMessages, update.CurrentUsername)
	w.panel.Refresh()

	ctx, client, chatID := w.ctx, w.client, w.chatID
	return func() tea.Msg {
		if err := client.FlushMessages(ctx, chatID); err != nil {
			return RequestFailedMsg{Op: string(protocol.FlushMessages), Err: err}
		}
		return nil
	}
}

// SendMessage sends the trimmed text to the open chat. Blank text and a
// closed panel send nothing.
func (w *MessageWindow) SendMessage(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if w.chatID == "" {
		w.log.Warn("no chat open, message not sent")
		return nil
	}

	ctx, client, chatID := w.ctx, w.client, w.chatID
	w.log.Debug("sending message", "id", chatID, "length", len(text))
	return func() tea.Msg {
		resp, err := client.SendMessage(ctx, chatID, text)
		return MessageSentMsg{ChatID: chatID, Resp: resp, Err: err}
	}
}

// HandleSent clears the input and appends the server's copy of the message.
func (w *MessageWindow) HandleSent(msg MessageSentMsg) error {
	if msg.Err != nil {
		return msg.Err
	}
	if msg.ChatID != w.chatID {
		w.log.Debug("sent message belongs to a closed chat", "id", msg.ChatID)
		return nil
	}
	w.panel.ClearInput()
	w.transcript.Append([]protocol.Message{msg.Resp.Message}, msg.Resp.CurrentUsername)
	w.panel.Refresh()
	return nil
}

// Text renders the transcript as plain text.
func (w *MessageWindow) Text() string {
	return ui.TranscriptText(w.transcript, time.Local)
}

// HandleKey forwards input and scroll keys to the panel.
func (w *MessageWindow) HandleKey(msg tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	w.panel, cmd = w.panel.Update(msg)
	return cmd
}
