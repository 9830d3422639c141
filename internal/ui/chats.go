package ui

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/simplechat/internal/protocol"
	"github.com/zhubert/simplechat/internal/state"
)

// ChatElementID is the element id of a chat row.
func ChatElementID(id protocol.ID) string { return "chat-" + id.String() }

// ChatPanel renders a state.ChatList with badges and the open-chat marker.
type ChatPanel struct {
	list    *state.ChatList
	search  textinput.Model
	nav     listNav
	width   int
	height  int
	focused bool
}

// NewChatPanel creates a panel drawing list
func NewChatPanel(list *state.ChatList) *ChatPanel {
	return &ChatPanel{
		list:   list,
		search: newSearchInput("search chats..."),
	}
}

func (p *ChatPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

func (p *ChatPanel) SetFocused(focused bool) {
	p.focused = focused
	if focused {
		p.search.Focus()
	} else {
		p.search.Blur()
	}
}

func (p *ChatPanel) Query() string { return p.search.Value() }

func (p *ChatPanel) ClearQuery() { p.search.SetValue("") }

func (p *ChatPanel) UpdateSearch(msg tea.Msg) (bool, tea.Cmd) {
	return updateSearch(&p.search, msg)
}

func (p *ChatPanel) MoveUp() { p.nav.up() }

// MoveDown moves the highlight and reports whether it was already on the
// last chat.
func (p *ChatPanel) MoveDown() bool { return p.nav.down(p.list.Len()) }

func (p *ChatPanel) MoveHome() { p.nav.home() }

func (p *ChatPanel) MoveEnd() { p.nav.end(p.list.Len()) }

func (p *ChatPanel) Sync() { p.nav.clamp(p.list.Len()) }

// Highlighted returns the chat under the cursor
func (p *ChatPanel) Highlighted() (protocol.Chat, bool) {
	p.nav.clamp(p.list.Len())
	return p.list.At(p.nav.cursor)
}

// ElementIDs returns the element id of every row the panel holds, in order.
func (p *ChatPanel) ElementIDs() []string {
	var ids []string
	for _, c := range p.list.Chats() {
		ids = append(ids, ChatElementID(c.ChatID))
	}
	return ids
}

// View renders the panel
func (p *ChatPanel) View() string {
	p.nav.clamp(p.list.Len())
	innerWidth := GetViewContext().InnerWidth(p.width)

	from, to := p.nav.window(p.list.Len(), listRows(p.height))
	var rows []string
	for i := from; i < to; i++ {
		c, _ := p.list.At(i)
		marker := "  "
		if p.list.IsSelected(c.ChatID) {
			marker = ListMarkerStyle.Render("●") + " "
		}
		text := marker + c.ChatName
		if n := p.list.Unread(c.ChatID); n > 0 {
			text += " " + BadgeStyle.Render(strconv.Itoa(n))
		}
		rows = append(rows, renderRow(text, innerWidth, p.focused && i == p.nav.cursor))
	}

	empty := "No chats. Select users and press ctrl+a."
	if state.IsSearch(p.Query()) {
		empty = "No matches."
	}
	return renderList(p.width, p.height, p.focused, "Chats", "", p.search, rows, empty)
}
