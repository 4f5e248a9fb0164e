package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

// NotificationSystem represents a delivery system (e.g. email).
type NotificationSystem string

// NoticeType represents a kind of notice (e.g. "email_verification", "welcome").
type NoticeType string

const (
	EmailSystem NotificationSystem = "email"

	// EmailVerificationNotice carries the verification link for a freshly issued token.
	EmailVerificationNotice NoticeType = "email_verification"
	// WelcomeNotice is sent after a user's email has been verified. No token interaction.
	WelcomeNotice NoticeType = "welcome"
)

// NoticeTemplate holds the subject and body templates for a notice.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

// NotificationData is the per-message payload handed to a Notifier.
type NotificationData struct {
	To     string            // Recipient address
	ToName string            // Optional recipient display name
	Data   map[string]string // Template data (e.g. verification link, display name)
}

// Notifier delivers a rendered notice through one delivery system.
type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}

// renderTemplate executes a body template against the notification data.
func renderTemplate(name, text string, data map[string]string) (string, error) {
	if text == "" {
		return "", nil
	}
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", name, err)
	}
	return buf.String(), nil
}
