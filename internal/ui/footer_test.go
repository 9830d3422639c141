package ui

import (
	"strings"
	"testing"
	"time"
)

func TestFooter_Bindings(t *testing.T) {
	tests := []struct {
		name     string
		pane     Pane
		chatOpen bool
		selected bool
		alert    bool
		want     []string
		notWant  []string
	}{
		{"users", PaneUsers, false, false, false, []string{"search", "select", "switch pane"}, []string{"add contacts", "send"}},
		{"users with selection", PaneUsers, false, true, false, []string{"add contacts"}, nil},
		{"chats", PaneChats, false, false, false, []string{"open/close", "remove"}, []string{"send"}},
		{"messages without chat", PaneMessages, false, false, false, []string{"switch pane"}, []string{"send", "copy"}},
		{"messages with chat", PaneMessages, true, false, false, []string{"send", "copy", "refresh", "close"}, nil},
		{"alert", PaneUsers, false, true, true, []string{"dismiss"}, []string{"search", "quit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFooter()
			f.SetWidth(160)
			f.SetContext(tt.pane, tt.chatOpen, tt.selected, tt.alert)
			view := stripANSI(f.View())
			for _, w := range tt.want {
				if !strings.Contains(view, w) {
					t.Errorf("footer %q missing %q", view, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(view, w) {
					t.Errorf("footer %q should not contain %q", view, w)
				}
			}
		})
	}
}

func TestFooter_SetFlash(t *testing.T) {
	f := NewFooter()
	f.SetFlash("Copied", FlashSuccess)

	if f.flashMessage == nil {
		t.Fatal("expected flash message to be set")
	}
	if f.flashMessage.Duration != DefaultFlashDuration {
		t.Errorf("Duration = %v, want %v", f.flashMessage.Duration, DefaultFlashDuration)
	}

	f.SetFlashWithDuration("Custom", FlashInfo, 10*time.Second)
	if f.flashMessage.Duration != 10*time.Second || f.flashMessage.Text != "Custom" {
		t.Errorf("flash = %+v", f.flashMessage)
	}

	f.ClearFlash()
	if f.HasFlash() {
		t.Error("HasFlash() after ClearFlash()")
	}
}

func TestFooter_ClearIfExpired(t *testing.T) {
	f := NewFooter()
	f.SetFlash("fresh", FlashInfo)
	if f.ClearIfExpired() || !f.HasFlash() {
		t.Error("fresh flash should stay")
	}

	f.flashMessage = &FlashMessage{
		Text:      "old",
		Type:      FlashInfo,
		CreatedAt: time.Now().Add(-10 * time.Second),
		Duration:  5 * time.Second,
	}
	if !f.ClearIfExpired() || f.HasFlash() {
		t.Error("expired flash should be cleared")
	}
}

func TestFooter_FlashTakesPriority(t *testing.T) {
	tests := []struct {
		name string
		typ  FlashType
		icon string
	}{
		{"error", FlashError, "✕"},
		{"warning", FlashWarning, "⚠"},
		{"info", FlashInfo, "ℹ"},
		{"success", FlashSuccess, "✓"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFooter()
			f.SetWidth(120)
			f.SetContext(PaneUsers, false, false, false)
			f.SetFlash("something happened", tt.typ)

			view := stripANSI(f.View())
			if !strings.Contains(view, tt.icon+" something happened") {
				t.Errorf("footer %q missing flash", view)
			}
			if strings.Contains(view, "switch pane") {
				t.Error("bindings should be hidden behind a flash")
			}
		})
	}
}

func TestFlashTick(t *testing.T) {
	if FlashTick() == nil {
		t.Error("FlashTick() should return a command")
	}
}
