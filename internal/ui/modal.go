package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// ModalState is a discriminated union interface for modal-specific state.
// Each modal type implements this interface with its own state struct.
type ModalState interface {
	modalState() // marker method to restrict implementations
	Title() string
	Help() string
	Render() string
	Update(msg tea.Msg) (ModalState, tea.Cmd)
}

// Modal represents a popup dialog. State is nil when no modal is visible.
type Modal struct {
	State ModalState
}

// NewModal creates a new modal
func NewModal() *Modal {
	return &Modal{}
}

// Show displays a modal with the given state
func (m *Modal) Show(state ModalState) {
	m.State = state
}

// Hide hides the modal
func (m *Modal) Hide() {
	m.State = nil
}

// IsVisible returns whether the modal is visible
func (m *Modal) IsVisible() bool {
	return m.State != nil
}

// Update handles messages by delegating to the current state
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	if m.State == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.State, cmd = m.State.Update(msg)
	return m, cmd
}

func (m *Modal) box() string {
	style := ModalStyle
	if _, ok := m.State.(*AlertState); ok {
		style = AlertStyle
	}
	return style.Render(m.State.Render())
}

// View renders the modal centered on a screen of the given size
func (m *Modal) View(screenWidth, screenHeight int) string {
	if m.State == nil {
		return ""
	}
	return lipgloss.Place(
		screenWidth, screenHeight,
		lipgloss.Center, lipgloss.Center,
		m.box(),
	)
}

// Overlay draws the modal centered on top of base, leaving the rest of the
// screen visible around it.
func (m *Modal) Overlay(base string, screenWidth, screenHeight int) string {
	if m.State == nil {
		return base
	}
	if screenWidth <= 0 || screenHeight <= 0 {
		return m.View(screenWidth, screenHeight)
	}

	area := uv.Rect(0, 0, screenWidth, screenHeight)
	scr := uv.NewScreenBuffer(area.Dx(), area.Dy())
	uv.NewStyledString(base).Draw(scr, area)

	box := m.box()
	w, h := min(lipgloss.Width(box), screenWidth), min(lipgloss.Height(box), screenHeight)
	x, y := (screenWidth-w)/2, (screenHeight-h)/2
	uv.NewStyledString(box).Draw(scr, uv.Rect(x, y, w, h))

	return scr.Render()
}

// =============================================================================
// AlertState - blocking error dialog
// =============================================================================

// AlertState reports a failed request. It has no inputs of its own; the app
// dismisses it on enter or esc and drops every other key while it shows.
type AlertState struct {
	title   string
	message string
}

func (*AlertState) modalState() {}

// NewAlertState creates an alert. An empty title becomes "Error".
func NewAlertState(title, message string) *AlertState {
	if title == "" {
		title = "Error"
	}
	return &AlertState{title: title, message: message}
}

func (s *AlertState) Title() string { return s.title }

func (s *AlertState) Message() string { return s.message }

func (s *AlertState) Help() string { return "enter/esc: dismiss" }

func (s *AlertState) Render() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ColorError).MarginBottom(1).Render("✕ " + s.title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorText).Width(ModalWidth - 6).Render(s.message))
	b.WriteString("\n")
	b.WriteString(ModalHelpStyle.Render(s.Help()))
	return b.String()
}

func (s *AlertState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	return s, nil
}
