// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/zhubert/simplechat/internal/logger"
)

// notifyFunc matches beeep.Notify so tests can swap it out.
type notifyFunc func(title, message string, icon any) error

var notifier notifyFunc = beeep.Notify

// SetNotifier replaces the function used to deliver notifications.
func SetNotifier(fn func(title, message string, icon any) error) {
	notifier = fn
}

// ResetNotifier restores beeep as the notification backend.
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title, "message", message)
	// Empty icon lets beeep pick the platform default
	err := notifier(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// UnreadMessages announces new messages in a chat that is not open.
func UnreadMessages(chatName string, count int) error {
	if count == 1 {
		return Send("simplechat", fmt.Sprintf("1 new message in %s", chatName))
	}
	return Send("simplechat", fmt.Sprintf("%d new messages in %s", count, chatName))
}
