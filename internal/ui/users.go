package ui

import (
	"fmt"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/simplechat/internal/protocol"
	"github.com/zhubert/simplechat/internal/state"
)

// UserElementID is the element id of a user row.
func UserElementID(id protocol.ID) string { return "user-" + id.String() }

// UserPanel renders a state.UserList with a search field and a highlight.
type UserPanel struct {
	list    *state.UserList
	search  textinput.Model
	nav     listNav
	width   int
	height  int
	focused bool
}

// NewUserPanel creates a panel drawing list
func NewUserPanel(list *state.UserList) *UserPanel {
	return &UserPanel{
		list:   list,
		search: newSearchInput("search users..."),
	}
}

// SetSize sets the panel dimensions
func (p *UserPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets the focus state. The search field takes keys while focused.
func (p *UserPanel) SetFocused(focused bool) {
	p.focused = focused
	if focused {
		p.search.Focus()
	} else {
		p.search.Blur()
	}
}

// Query returns the search field's value
func (p *UserPanel) Query() string { return p.search.Value() }

// ClearQuery empties the search field
func (p *UserPanel) ClearQuery() { p.search.SetValue("") }

// UpdateSearch forwards a key to the search field and reports whether the
// query changed.
func (p *UserPanel) UpdateSearch(msg tea.Msg) (bool, tea.Cmd) {
	return updateSearch(&p.search, msg)
}

func (p *UserPanel) MoveUp() { p.nav.up() }

// MoveDown moves the highlight and reports whether it was already on the
// last user, meaning the next page should be requested.
func (p *UserPanel) MoveDown() bool { return p.nav.down(p.list.Len()) }

func (p *UserPanel) MoveHome() { p.nav.home() }

func (p *UserPanel) MoveEnd() { p.nav.end(p.list.Len()) }

// Sync clamps the highlight after the list changed
func (p *UserPanel) Sync() { p.nav.clamp(p.list.Len()) }

// Highlighted returns the user under the cursor
func (p *UserPanel) Highlighted() (protocol.User, bool) {
	p.nav.clamp(p.list.Len())
	return p.list.At(p.nav.cursor)
}

// ElementIDs returns the element id of every row the panel holds, in order.
func (p *UserPanel) ElementIDs() []string {
	var ids []string
	for _, u := range p.list.Users() {
		ids = append(ids, UserElementID(u.UserID))
	}
	return ids
}

// View renders the panel
func (p *UserPanel) View() string {
	p.nav.clamp(p.list.Len())
	innerWidth := GetViewContext().InnerWidth(p.width)

	from, to := p.nav.window(p.list.Len(), listRows(p.height))
	var rows []string
	for i := from; i < to; i++ {
		u, _ := p.list.At(i)
		marker := "[ ] "
		if p.list.IsSelected(u.UserID) {
			marker = ListMarkerStyle.Render("[x]") + " "
		}
		rows = append(rows, renderRow(marker+u.Username, innerWidth, p.focused && i == p.nav.cursor))
	}

	hint := ""
	if n := len(p.list.Selected()); n > 0 {
		hint = fmt.Sprintf("ctrl+a: add %d", n)
	}
	empty := "No users."
	if state.IsSearch(p.Query()) {
		empty = "No matches."
	}
	return renderList(p.width, p.height, p.focused, "Users", hint, p.search, rows, empty)
}
