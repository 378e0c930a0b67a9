// Package notify renders and delivers one-shot expiry notifications.
package notify

import (
	"fmt"
	"time"

	"github.com/Veraticus/visawatch/internal/common"
)

// Channel names.
const (
	ChannelSMTP  = "smtp"
	ChannelGmail = "gmail"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 20 * time.Second

// SMTPConfig holds the outbound mail server settings. Credentials come from
// configuration or the environment, never from source.
type SMTPConfig struct {
	Host      string
	Username  string
	Password  string
	TLSPolicy string
	Port      int
	SSL       bool
}

// GmailConfig holds Gmail API credentials: either a service account key with
// domain-wide delegation, or an OAuth2 client plus refresh token.
type GmailConfig struct {
	ServiceAccountPath string
	ClientID           string
	ClientSecret       string
	RefreshToken       string
}

// Config selects and configures the notification channel.
type Config struct {
	Channel       string
	From          string
	FromName      string
	TemplatesPath string
	SMTP          SMTPConfig
	Gmail         GmailConfig
	Timeout       time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: DefaultTimeout,
		SMTP: SMTPConfig{
			Port:      587,
			TLSPolicy: "mandatory",
		},
	}
}

// Configured reports whether a channel has been chosen.
func (c *Config) Configured() bool {
	return c.Channel != ""
}

// Validate checks the settings of the selected channel.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: notification timeout must be positive", common.ErrInvalidConfig)
	}

	switch c.Channel {
	case "":
		return nil
	case ChannelSMTP:
		if c.From == "" {
			return fmt.Errorf("%w: notify.from is required", common.ErrMissingConfig)
		}
		if c.SMTP.Host == "" {
			return fmt.Errorf("%w: notify.smtp.host is required", common.ErrMissingConfig)
		}
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			return fmt.Errorf("%w: invalid smtp port %d", common.ErrInvalidConfig, c.SMTP.Port)
		}
		if (c.SMTP.Username == "") != (c.SMTP.Password == "") {
			return fmt.Errorf("%w: smtp username and password must be set together", common.ErrInvalidConfig)
		}
		switch c.SMTP.TLSPolicy {
		case "", "mandatory", "opportunistic", "none":
		default:
			return fmt.Errorf("%w: unknown smtp tls policy %q", common.ErrInvalidConfig, c.SMTP.TLSPolicy)
		}
	case ChannelGmail:
		if c.From == "" {
			return fmt.Errorf("%w: notify.from is required", common.ErrMissingConfig)
		}
		hasOAuth := c.Gmail.ClientID != "" && c.Gmail.ClientSecret != "" && c.Gmail.RefreshToken != ""
		hasServiceAccount := c.Gmail.ServiceAccountPath != ""
		if !hasOAuth && !hasServiceAccount {
			return fmt.Errorf("%w: no gmail authentication method configured", common.ErrMissingConfig)
		}
		if hasOAuth && hasServiceAccount {
			return fmt.Errorf("%w: multiple gmail authentication methods configured; use either OAuth2 or service account", common.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown notification channel %q", common.ErrInvalidConfig, c.Channel)
	}

	return nil
}
