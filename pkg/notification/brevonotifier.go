package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoConfig holds the Brevo transactional email API configuration.
type BrevoConfig struct {
	APIKey      string
	SenderEmail string
	SenderName  string
}

// BrevoNotifier delivers email through the Brevo HTTP API.
type BrevoNotifier struct {
	config   BrevoConfig
	endpoint string
	client   *http.Client
}

// NewBrevoNotifier creates a Brevo notifier. The HTTP client carries an
// explicit timeout so a stalled provider cannot hold a request open.
func NewBrevoNotifier(config BrevoConfig) (*BrevoNotifier, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("brevo api key is required")
	}
	if config.SenderEmail == "" {
		return nil, fmt.Errorf("brevo sender email is required")
	}

	return &BrevoNotifier{
		config:   config,
		endpoint: brevoEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type brevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSendRequest struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HtmlContent string         `json:"htmlContent,omitempty"`
	TextContent string         `json:"textContent,omitempty"`
}

// Send renders the notice template and submits it to the Brevo API.
// Provider rejection is a hard failure; there is no retry.
func (b *BrevoNotifier) Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error {
	if notification.To == "" {
		return fmt.Errorf("email notification requires 'To' address")
	}

	htmlBody, err := renderTemplate("html", template.Html, notification.Data)
	if err != nil {
		return err
	}
	textBody, err := renderTemplate("text", template.Text, notification.Data)
	if err != nil {
		return err
	}

	payload := brevoSendRequest{
		Sender: brevoContact{
			Email: b.config.SenderEmail,
			Name:  b.config.SenderName,
		},
		To: []brevoContact{
			{Email: notification.To, Name: notification.ToName},
		},
		Subject:     template.Subject,
		HtmlContent: htmlBody,
		TextContent: textBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode brevo request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create brevo request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", b.config.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call brevo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Error("Brevo rejected message", "status", resp.StatusCode, "detail", string(detail))
		return fmt.Errorf("brevo rejected message: status %d: %s", resp.StatusCode, string(detail))
	}

	slog.Info("Email sent via Brevo", "to", notification.To, "notice_type", noticeType)
	return nil
}
