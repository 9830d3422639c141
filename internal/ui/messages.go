package ui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/simplechat/internal/protocol"
	"github.com/zhubert/simplechat/internal/state"
)

// OwnLabel replaces the viewpoint user's name in the transcript.
const OwnLabel = "You"

// MessagePanel renders a state.Transcript above a message input.
type MessagePanel struct {
	transcript *state.Transcript
	viewport   viewport.Model
	input      textarea.Model
	width      int
	height     int
	focused    bool
	loc        *time.Location
}

// NewMessagePanel creates a panel drawing transcript
func NewMessagePanel(transcript *state.Transcript) *MessagePanel {
	ti := textarea.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = MessageCharLimit
	ti.SetHeight(TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	p := &MessagePanel{
		transcript: transcript,
		viewport:   vp,
		input:      ti,
		loc:        time.Local,
	}
	p.Refresh()
	return p
}

// SetLocation sets the zone dates are rendered in
func (p *MessagePanel) SetLocation(loc *time.Location) {
	if loc != nil {
		p.loc = loc
		p.Refresh()
	}
}

// SetSize sets the panel dimensions
func (p *MessagePanel) SetSize(width, height int) {
	p.width = width
	p.height = height

	vc := GetViewContext()
	viewportHeight := vc.InnerHeight(height-InputTotalHeight) - TitleHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	p.viewport.SetWidth(vc.InnerWidth(width))
	p.viewport.SetHeight(viewportHeight)
	p.input.SetWidth(vc.InnerWidth(width) - InputPaddingWidth)
	p.Refresh()
}

// SetFocused sets the focus state
func (p *MessagePanel) SetFocused(focused bool) {
	p.focused = focused
	if focused {
		p.input.Focus()
	} else {
		p.input.Blur()
	}
}

// Input returns the raw input text
func (p *MessagePanel) Input() string { return p.input.Value() }

// ClearInput clears the input field
func (p *MessagePanel) ClearInput() { p.input.Reset() }

// SetInput sets the input field value
func (p *MessagePanel) SetInput(value string) { p.input.SetValue(value) }

// AtBottom reports whether the transcript is scrolled to the end
func (p *MessagePanel) AtBottom() bool { return p.viewport.AtBottom() }

// Refresh re-renders the transcript and scrolls to the bottom.
func (p *MessagePanel) Refresh() {
	p.viewport.SetContent(p.renderTranscript())
	p.viewport.GotoBottom()
}

func (p *MessagePanel) renderTranscript() string {
	if !p.transcript.Visible() {
		return ""
	}
	msgs := p.transcript.Messages()
	if len(msgs) == 0 {
		return EmptyStyle.Render("No messages yet. Say hello.")
	}

	width := p.viewport.Width()
	if width <= 0 {
		width = DefaultWrapWidth
	}

	var sb strings.Builder
	for i, m := range msgs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		label, style := m.SenderUsername, MessageOtherStyle
		if p.transcript.IsOwn(m) {
			label, style = OwnLabel, MessageOwnStyle
		}
		sb.WriteString(style.Render(label))
		if m.DateCreated != "" {
			sb.WriteString("  ")
			sb.WriteString(MessageDateStyle.Render(protocol.FormatDate(m.DateCreated, p.loc)))
		}
		sb.WriteString("\n")
		sb.WriteString(renderMessageText(protocol.Sanitize(m.Text), width))
	}
	return sb.String()
}

// Update routes scroll keys to the transcript and everything else to the
// input while focused.
func (p *MessagePanel) Update(msg tea.Msg) (*MessagePanel, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		if !p.focused || !p.transcript.Visible() {
			return p, nil
		}
		switch key.String() {
		case "pgup", "pgdown", "ctrl+up", "ctrl+down", "home", "end":
			var cmd tea.Cmd
			p.viewport, cmd = p.viewport.Update(msg)
			return p, cmd
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the panel
func (p *MessagePanel) View() string {
	style := PanelStyle
	if p.focused {
		style = PanelFocusedStyle
	}

	if !p.transcript.Visible() {
		placeholder := EmptyStyle.Render("No chat open. Pick one from the chat list.")
		return style.Width(p.width).Height(p.height).Render(placeholder)
	}

	title := PanelTitleStyle.Render(truncate(p.transcript.Header(), max(GetViewContext().InnerWidth(p.width)-2, 1)))
	history := style.Width(p.width).Height(p.height - InputTotalHeight).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, p.viewport.View()))

	inputStyle := ChatInputStyle
	if p.focused {
		inputStyle = ChatInputFocusedStyle
	}
	input := inputStyle.Width(p.width).Render(p.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, history, input)
}

// TranscriptText renders a transcript as plain text for the clipboard.
func TranscriptText(t *state.Transcript, loc *time.Location) string {
	var lines []string
	for _, m := range t.Messages() {
		label := m.SenderUsername
		if t.IsOwn(m) {
			label = OwnLabel
		}
		head := label
		if m.DateCreated != "" {
			head += " (" + protocol.FormatDate(m.DateCreated, loc) + ")"
		}
		lines = append(lines, head+": "+protocol.Sanitize(m.Text))
	}
	return strings.Join(lines, "\n")
}
