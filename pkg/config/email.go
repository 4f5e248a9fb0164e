package config

import (
	"github.com/kafexApp/kafexapp/pkg/notification"
)

// BrevoConfig holds Brevo (transactional email API) configuration.
// The API key must come from the environment; it is never hard-coded.
type BrevoConfig struct {
	APIKey      string `env:"BREVO_API_KEY"`
	SenderEmail string `env:"BREVO_SENDER_EMAIL" env-default:"noreply@kafex.com.br"`
	SenderName  string `env:"BREVO_SENDER_NAME" env-default:"Kafex App"`
}

// IsConfigured returns true if Brevo is configured
func (b BrevoConfig) IsConfigured() bool {
	return b.APIKey != ""
}

// ToBrevoConfig converts the config to a notification.BrevoConfig
func (b BrevoConfig) ToBrevoConfig() notification.BrevoConfig {
	return notification.BrevoConfig{
		APIKey:      b.APIKey,
		SenderEmail: b.SenderEmail,
		SenderName:  b.SenderName,
	}
}

// NewBrevoConfigFromEnv creates a BrevoConfig from environment variables
func NewBrevoConfigFromEnv() BrevoConfig {
	return BrevoConfig{
		APIKey:      GetEnv("BREVO_API_KEY"),
		SenderEmail: GetEnvOrDefault("BREVO_SENDER_EMAIL", "noreply@kafex.com.br"),
		SenderName:  GetEnvOrDefault("BREVO_SENDER_NAME", "Kafex App"),
	}
}

// EmailConfig holds SMTP email configuration, used when delivery goes
// through a plain SMTP relay instead of the Brevo API
type EmailConfig struct {
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     uint16 `env:"EMAIL_PORT" env-default:"1025"`
	Username string `env:"EMAIL_USERNAME"`
	Password string `env:"EMAIL_PASSWORD"`
	From     string `env:"EMAIL_FROM" env-default:"noreply@kafex.com.br"`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`
}

// IsConfigured returns true if an SMTP host is configured
func (e EmailConfig) IsConfigured() bool {
	return e.Host != ""
}

// ToSMTPConfig converts the config to a notification.SMTPConfig
func (e EmailConfig) ToSMTPConfig() notification.SMTPConfig {
	return notification.SMTPConfig{
		Host:     e.Host,
		Port:     int(e.Port),
		Username: e.Username,
		Password: e.Password,
		From:     e.From,
		TLS:      e.TLS,
	}
}
