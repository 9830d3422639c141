package ui

import "charm.land/lipgloss/v2"

// Color palette, overwritten by SetTheme
var (
	ColorPrimary     = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary   = lipgloss.Color("#06B6D4") // Cyan
	ColorMuted       = lipgloss.Color("#6B7280") // Gray
	ColorBorder      = lipgloss.Color("#374151") // Dark gray
	ColorBorderFocus = lipgloss.Color("#7C3AED") // Purple when focused
	ColorBg          = lipgloss.Color("#1F2937") // Dark background
	ColorBgSelected  = lipgloss.Color("#7C3AED")
	ColorText        = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted   = lipgloss.Color("#9CA3AF") // Muted text
	ColorTextInverse = lipgloss.Color("#1F2937") // Dark text for light backgrounds
	ColorOwn         = lipgloss.Color("#A78BFA")
	ColorOther       = lipgloss.Color("#22D3EE")
	ColorBadge       = lipgloss.Color("#EF4444")
	ColorWarning     = lipgloss.Color("#F59E0B") // Amber
	ColorInfo        = lipgloss.Color("#06B6D4") // Cyan
	ColorError       = lipgloss.Color("#EF4444") // Red
	ColorSuccess     = lipgloss.Color("#10B981") // Green
	ColorCodeBg      = lipgloss.Color("#1E1E2E")
)

// Header styles
var (
	HeaderStyle      lipgloss.Style
	HeaderTitleStyle lipgloss.Style
)

// Footer styles
var (
	FooterStyle     lipgloss.Style
	FooterKeyStyle  lipgloss.Style
	FooterDescStyle lipgloss.Style
)

// Panel styles
var (
	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
	PanelTitleStyle   lipgloss.Style
	PanelHintStyle    lipgloss.Style
	EmptyStyle        lipgloss.Style
)

// List styles
var (
	ListItemStyle     lipgloss.Style
	ListCursorStyle   lipgloss.Style
	ListMarkerStyle   lipgloss.Style // [x] on selected users, ● on the open chat
	BadgeStyle        lipgloss.Style
	SearchPromptStyle lipgloss.Style
)

// Message styles
var (
	MessageOwnStyle       lipgloss.Style
	MessageOtherStyle     lipgloss.Style
	MessageDateStyle      lipgloss.Style
	MessageTextStyle      lipgloss.Style
	MessageCodeBlockStyle lipgloss.Style
	ChatInputStyle        lipgloss.Style
	ChatInputFocusedStyle lipgloss.Style
)

// Modal styles
var (
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style
	AlertStyle      lipgloss.Style
)

// Status styles
var (
	StatusErrorStyle lipgloss.Style
)

func init() {
	buildStyles()
}

// buildStyles derives every style from the current color variables.
func buildStyles() {
	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText).
		Background(ColorPrimary).
		Padding(0, 1)

	HeaderTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText)

	FooterStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary)

	FooterDescStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	PanelFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorderFocus)

	PanelTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Padding(0, 1)

	PanelHintStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Italic(true)

	EmptyStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true)

	ListItemStyle = lipgloss.NewStyle().
		Padding(0, 1)

	ListCursorStyle = lipgloss.NewStyle().
		Background(ColorBgSelected).
		Foreground(ColorText).
		Bold(true).
		Padding(0, 1)

	ListMarkerStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	BadgeStyle = lipgloss.NewStyle().
		Foreground(ColorTextInverse).
		Background(ColorBadge).
		Bold(true).
		Padding(0, 1)

	SearchPromptStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	MessageOwnStyle = lipgloss.NewStyle().
		Foreground(ColorOwn).
		Bold(true)

	MessageOtherStyle = lipgloss.NewStyle().
		Foreground(ColorOther).
		Bold(true)

	MessageDateStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true)

	MessageTextStyle = lipgloss.NewStyle().
		Foreground(ColorText)

	MessageCodeBlockStyle = lipgloss.NewStyle().
		Background(ColorCodeBg)

	ChatInputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	ChatInputFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorderFocus).
		Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2).
		Width(ModalWidth)

	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1)

	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true).
		MarginTop(1)

	AlertStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(1, 2).
		Width(ModalWidth)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)
}
