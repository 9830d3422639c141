package state

import "github.com/zhubert/simplechat/internal/protocol"

// Transcript is the message panel's model: whose point of view the messages
// are rendered from, the header, the messages, and whether the panel shows.
type Transcript struct {
	viewpoint string
	header    string
	messages  []protocol.Message
	visible   bool
}

func NewTranscript() *Transcript { return &Transcript{} }

// SetViewpoint sets the username rendered as "You". Empty keeps the current one.
func (t *Transcript) SetViewpoint(username string) {
	if username != "" {
		t.viewpoint = username
	}
}

func (t *Transcript) SetHeader(name string) { t.header = name }

func (t *Transcript) Header() string { return t.header }

// Replace swaps the whole transcript.
func (t *Transcript) Replace(msgs []protocol.Message, viewpoint string) {
	t.SetViewpoint(viewpoint)
	t.messages = append([]protocol.Message(nil), msgs...)
}

// Append adds messages after the existing ones.
func (t *Transcript) Append(msgs []protocol.Message, viewpoint string) {
	t.SetViewpoint(viewpoint)
	t.messages = append(t.messages, msgs...)
}

// Messages returns the transcript in arrival order.
func (t *Transcript) Messages() []protocol.Message {
	out := make([]protocol.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int { return len(t.messages) }

// IsOwn reports whether m was sent from the viewpoint user.
func (t *Transcript) IsOwn(m protocol.Message) bool {
	return t.viewpoint != "" && m.SenderUsername == t.viewpoint
}

func (t *Transcript) Show() { t.visible = true }

func (t *Transcript) Hide() { t.visible = false }

func (t *Transcript) Visible() bool { return t.visible }
