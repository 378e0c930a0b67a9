package config

import (
	"os"

	"github.com/Veraticus/visawatch/internal/notify"
	"github.com/spf13/viper"
)

// LoadNotifyConfig reads the notify.* keys. SMTP credentials fall back to
// SMTP_USERNAME and SMTP_PASSWORD. Gmail uses one authentication method,
// taken from notify.gmail.*, GOOGLE_GMAIL_* or the shared google.* keys; when
// google.* holds both, the refresh token written by "visawatch auth google" wins.
func LoadNotifyConfig(v *viper.Viper) (*notify.Config, error) {
	config := notify.DefaultConfig()

	config.Channel = v.GetString("notify.channel")
	config.From = v.GetString("notify.from")
	config.FromName = v.GetString("notify.from_name")
	config.TemplatesPath = ExpandPath(v.GetString("notify.templates"))
	if v.IsSet("notify.timeout") {
		config.Timeout = v.GetDuration("notify.timeout")
	}

	config.SMTP.Host = v.GetString("notify.smtp.host")
	if v.IsSet("notify.smtp.port") {
		config.SMTP.Port = v.GetInt("notify.smtp.port")
	}
	if p := v.GetString("notify.smtp.tls_policy"); p != "" {
		config.SMTP.TLSPolicy = p
	}
	config.SMTP.SSL = v.GetBool("notify.smtp.ssl")
	config.SMTP.Username = firstNonEmpty(v.GetString("notify.smtp.username"), os.Getenv("SMTP_USERNAME"))
	config.SMTP.Password = firstNonEmpty(v.GetString("notify.smtp.password"), os.Getenv("SMTP_PASSWORD"))

	gmail := resolveGoogleAuth(v, "notify.gmail", "GOOGLE_GMAIL_", preferOAuth)
	config.Gmail = notify.GmailConfig{
		ServiceAccountPath: gmail.ServiceAccountPath,
		ClientID:           gmail.ClientID,
		ClientSecret:       gmail.ClientSecret,
		RefreshToken:       gmail.RefreshToken,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
