package ui

import (
	"strings"
	"testing"
)

func TestModal_ShowHide(t *testing.T) {
	m := NewModal()
	if m.IsVisible() || m.View(80, 24) != "" {
		t.Fatal("new modal should be hidden")
	}

	m.Show(NewAlertState("", "load_chats failed: 500"))
	if !m.IsVisible() {
		t.Fatal("modal should be visible after Show")
	}
	view := stripANSI(m.View(80, 24))
	for _, want := range []string{"Error", "load_chats failed: 500", "dismiss"} {
		if !strings.Contains(view, want) {
			t.Errorf("alert view missing %q", want)
		}
	}

	m.Hide()
	if m.IsVisible() {
		t.Error("modal should be hidden after Hide")
	}
}

func TestAlertState_IgnoresInput(t *testing.T) {
	alert := NewAlertState("Send failed", "boom")
	next, cmd := alert.Update(keyPress("x"))
	if next != alert || cmd != nil {
		t.Error("alert should swallow input without changing")
	}
	if alert.Title() != "Send failed" || alert.Message() != "boom" {
		t.Errorf("alert = %q %q", alert.Title(), alert.Message())
	}
}

func TestModal_OverlayKeepsBaseAroundBox(t *testing.T) {
	base := strings.Repeat(strings.Repeat("#", 80)+"\n", 23) + strings.Repeat("#", 80)

	m := NewModal()
	if got := m.Overlay(base, 80, 24); got != base {
		t.Error("hidden modal should return the base unchanged")
	}

	m.Show(NewAlertState("Server error", "boom"))
	lines := strings.Split(stripANSI(m.Overlay(base, 80, 24)), "\n")
	if len(lines) != 24 {
		t.Fatalf("overlay has %d lines, want 24", len(lines))
	}
	if !strings.HasPrefix(lines[0], "####") || !strings.HasPrefix(lines[23], "####") {
		t.Error("rows outside the box should keep the base")
	}
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"Server error", "boom"} {
		if !strings.Contains(joined, want) {
			t.Errorf("overlay missing %q", want)
		}
	}
}
