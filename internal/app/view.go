package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/simplechat/internal/ui"
)

// View renders the app. This is the core Bubble Tea view function.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the current view as a string.
// This is useful for demos and testing.
func (m *Model) RenderToString() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	m.updateFooterContext()
	m.header.SetChatName(m.messages.Transcript().Header())

	lists := lipgloss.JoinVertical(lipgloss.Left,
		m.users.Panel().View(),
		m.chats.Panel().View(),
	)
	panels := lipgloss.JoinHorizontal(lipgloss.Top, lists, m.messages.Panel().View())

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		panels,
		m.footer.View(),
	)
	if m.modal.IsVisible() {
		return m.modal.Overlay(view, m.width, m.height)
	}
	return view
}

// updateFooterContext updates the footer with current context for conditional bindings
func (m *Model) updateFooterContext() {
	m.footer.SetContext(m.focus, m.messages.Visible(), m.users.List().HasSelection(), m.modal.IsVisible())
}

// updateSizes updates component sizes based on terminal dimensions
func (m *Model) updateSizes() {
	ctx := ui.GetViewContext()
	ctx.UpdateTerminalSize(m.width, m.height)

	m.header.SetWidth(ctx.TerminalWidth)
	m.footer.SetWidth(ctx.TerminalWidth)
	m.users.Panel().SetSize(ctx.ListWidth, ctx.UsersHeight)
	m.chats.Panel().SetSize(ctx.ListWidth, ctx.ChatsHeight)
	m.messages.Panel().SetSize(ctx.MessageWidth, ctx.ContentHeight)
	m.messages.Panel().Refresh()
}
