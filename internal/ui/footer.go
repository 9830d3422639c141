package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// Pane identifies which part of the screen has focus, for footer hints.
type Pane int

const (
	PaneUsers Pane = iota
	PaneChats
	PaneMessages
)

// FlashType is the severity of a footer flash message
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

// DefaultFlashDuration is how long a flash stays up
const DefaultFlashDuration = 3 * time.Second

// FlashMessage is a transient notice shown in place of the key hints
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the message has outlived its duration
func (f *FlashMessage) IsExpired() bool {
	return time.Since(f.CreatedAt) >= f.Duration
}

// FlashTickMsg asks the app to drop an expired flash
type FlashTickMsg time.Time

// FlashTick returns a command that fires once the default flash duration elapses
func FlashTick() tea.Cmd {
	return tea.Tick(DefaultFlashDuration, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width        int
	pane         Pane
	chatOpen     bool
	hasSelection bool
	alert        bool
	flashMessage *FlashMessage
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{}
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(pane Pane, chatOpen, hasSelection, alert bool) {
	f.pane = pane
	f.chatOpen = chatOpen
	f.hasSelection = hasSelection
	f.alert = alert
}

// SetFlash shows a flash message for DefaultFlashDuration
func (f *Footer) SetFlash(text string, t FlashType) {
	f.SetFlashWithDuration(text, t, DefaultFlashDuration)
}

// SetFlashWithDuration shows a flash message for d
func (f *Footer) SetFlashWithDuration(text string, t FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{Text: text, Type: t, CreatedAt: time.Now(), Duration: d}
}

// ClearFlash removes any flash message
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// HasFlash reports whether a flash message is showing
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// ClearIfExpired drops an expired flash and reports whether it did
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
		return true
	}
	return false
}

// Bindings returns the hints for the current context
func (f *Footer) Bindings() []KeyBinding {
	if f.alert {
		return []KeyBinding{{Key: "enter/esc", Desc: "dismiss"}}
	}

	var bindings []KeyBinding
	switch f.pane {
	case PaneUsers:
		bindings = []KeyBinding{
			{Key: "type", Desc: "search"},
			{Key: "↑/↓", Desc: "move"},
			{Key: "enter", Desc: "select"},
		}
		if f.hasSelection {
			bindings = append(bindings, KeyBinding{Key: "ctrl+a", Desc: "add contacts"})
		}
	case PaneChats:
		bindings = []KeyBinding{
			{Key: "type", Desc: "search"},
			{Key: "↑/↓", Desc: "move"},
			{Key: "enter", Desc: "open/close"},
			{Key: "ctrl+d", Desc: "remove"},
		}
	case PaneMessages:
		if f.chatOpen {
			bindings = []KeyBinding{
				{Key: "enter", Desc: "send"},
				{Key: "pgup/dn", Desc: "scroll"},
				{Key: "ctrl+y", Desc: "copy"},
				{Key: "ctrl+r", Desc: "refresh"},
				{Key: "esc", Desc: "close"},
			}
		}
	}
	return append(bindings,
		KeyBinding{Key: "tab", Desc: "switch pane"},
		KeyBinding{Key: "ctrl+c", Desc: "quit"},
	)
}

func flashIcon(t FlashType) (string, lipgloss.Style) {
	switch t {
	case FlashError:
		return "✕", lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	case FlashWarning:
		return "⚠", lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	case FlashSuccess:
		return "✓", lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	default:
		return "ℹ", lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)
	}
}

// View renders the footer
func (f *Footer) View() string {
	if f.flashMessage != nil {
		icon, style := flashIcon(f.flashMessage.Type)
		return FooterStyle.Width(f.width).Render(style.Render(icon + " " + f.flashMessage.Text))
	}

	var parts []string
	for _, b := range f.Bindings() {
		parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
	}
	content := strings.Join(parts, "  "+lipgloss.NewStyle().Foreground(ColorBorder).Render("|")+"  ")
	return FooterStyle.Width(f.width).Render(content)
}
