// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/daveygoode/atlas/internal/logger"
)

// AppName is the title of every atlas notification.
const AppName = "Atlas"

// notifier is the function used to deliver notifications.
var notifier = beeep.Notify

// SetNotifier replaces the delivery function, for tests.
func SetNotifier(fn func(title, message string, icon any) error) {
	notifier = fn
}

// ResetNotifier restores beeep delivery.
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	logger.Debug("Notification: Sending notification - title=%q, message=%q", title, message)
	// Use empty string for icon - beeep handles platform defaults
	err := notifier(title, message, "")
	if err != nil {
		logger.Warn("Notification: Failed to send notification: %v", err)
	}
	return err
}

// SessionSaved announces a completed save.
func SessionSaved(sessionID string) error {
	return Send(AppName, "Session "+sessionID+" saved")
}
