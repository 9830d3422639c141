package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

const headerTitle = " simplechat"

// Header represents the top header bar
type Header struct {
	width     int
	username  string
	transport string
	chatName  string
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetUsername sets the signed-in user shown on the right
func (h *Header) SetUsername(name string) {
	h.username = name
}

// SetTransport sets the transport label ("http" or "socket")
func (h *Header) SetTransport(name string) {
	h.transport = name
}

// SetChatName sets the open chat's name. Empty means no chat is open.
func (h *Header) SetChatName(name string) {
	h.chatName = name
}

func (h *Header) rightText() string {
	var parts []string
	if h.chatName != "" {
		parts = append(parts, "# "+h.chatName)
	}
	if h.username != "" {
		parts = append(parts, h.username)
	}
	if h.transport != "" {
		parts = append(parts, "("+h.transport+")")
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "  ") + " "
}

// View renders the header
func (h *Header) View() string {
	right := h.rightText()
	padding := h.width - runewidth.StringWidth(headerTitle) - runewidth.StringWidth(right)
	if padding < 0 {
		padding = 0
	}
	return h.renderGradient(headerTitle + strings.Repeat(" ", padding) + right)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders the content over a gradient from the primary color
// into the background color.
func (h *Header) renderGradient(content string) string {
	if len(content) == 0 {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)
	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	titleLen := len([]rune(headerTitle))
	transportStart := -1
	if h.transport != "" {
		transportStart = len([]rune(content)) - len([]rune("("+h.transport+") "))
	}

	runes := []rune(content)
	width := len(runes)
	var result strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(width)
		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Bold(i < titleLen)

		if transportStart >= 0 && i >= transportStart {
			style = style.Foreground(mutedColor)
		} else {
			style = style.Foreground(textColor)
		}

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
