package ui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// listNav is the highlighted row and scroll offset shared by list panels.
type listNav struct {
	cursor int
	offset int
}

// up moves the highlight one row up.
func (n *listNav) up() {
	if n.cursor > 0 {
		n.cursor--
	}
}

// down moves the highlight one row down and reports whether it was already
// on the last row, which is the panel's scroll-to-end signal.
func (n *listNav) down(count int) bool {
	if n.cursor >= count-1 {
		return true
	}
	n.cursor++
	return false
}

func (n *listNav) home() { n.cursor = 0 }

func (n *listNav) end(count int) {
	if count > 0 {
		n.cursor = count - 1
	}
}

// clamp keeps the cursor inside a list of count rows.
func (n *listNav) clamp(count int) {
	if n.cursor >= count {
		n.cursor = count - 1
	}
	if n.cursor < 0 {
		n.cursor = 0
	}
}

// window returns the visible row range for a viewport of rows lines.
func (n *listNav) window(count, rows int) (int, int) {
	if rows <= 0 {
		return 0, 0
	}
	if n.cursor < n.offset {
		n.offset = n.cursor
	}
	if n.cursor >= n.offset+rows {
		n.offset = n.cursor - rows + 1
	}
	if n.offset > count-rows {
		n.offset = max(count-rows, 0)
	}
	return n.offset, min(n.offset+rows, count)
}

func newSearchInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = SearchCharLimit
	ti.Prompt = ""
	return ti
}

// updateSearch forwards msg to the search field and reports whether its
// value changed.
func updateSearch(ti *textinput.Model, msg tea.Msg) (bool, tea.Cmd) {
	before := ti.Value()
	var cmd tea.Cmd
	*ti, cmd = ti.Update(msg)
	return ti.Value() != before, cmd
}

// renderList draws a titled list panel: title, search line, then rows.
func renderList(width, height int, focused bool, title, hint string, search textinput.Model, rows []string, empty string) string {
	vc := GetViewContext()
	innerWidth := vc.InnerWidth(width)

	style := PanelStyle
	if focused {
		style = PanelFocusedStyle
	}

	head := PanelTitleStyle.Render(title)
	if hint != "" {
		head += " " + PanelHintStyle.Render(hint)
	}
	search.SetWidth(max(innerWidth-3, 1))
	lines := []string{
		truncate(head, innerWidth),
		SearchPromptStyle.Render(" /") + " " + search.View(),
	}

	if len(rows) == 0 {
		lines = append(lines, ListItemStyle.Render(EmptyStyle.Render(empty)))
	} else {
		lines = append(lines, rows...)
	}

	return style.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

// renderRow draws one list row, highlighted when it is under the cursor.
func renderRow(text string, width int, highlighted bool) string {
	style := ListItemStyle
	if highlighted {
		style = ListCursorStyle
	}
	// Two cells of padding.
	return style.Width(width).Render(truncate(text, max(width-2, 1)))
}

// listRows is the number of rows left for items inside a panel of height.
func listRows(height int) int {
	return max(GetViewContext().InnerHeight(height)-TitleHeight-SearchHeight, 0)
}
