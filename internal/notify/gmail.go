package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/Veraticus/visawatch/internal/model"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailSender delivers messages through the Gmail API as the configured sender.
type GmailSender struct {
	service  *gmail.Service
	from     string
	fromName string
}

// NewGmailSender authenticates against Google and returns a sender.
func NewGmailSender(ctx context.Context, cfg Config) (*GmailSender, error) {
	var tokenSource oauth2.TokenSource

	if cfg.Gmail.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(cfg.Gmail.ServiceAccountPath) // #nosec G304
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, gmail.GmailSendScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		// domain-wide delegation: act as the sending mailbox
		jwtConfig.Subject = cfg.From
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     cfg.Gmail.ClientID,
			ClientSecret: cfg.Gmail.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gmail.GmailSendScope},
		}
		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: cfg.Gmail.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create gmail service: %w", err)
	}

	return NewGmailSenderWithService(srv, cfg.From, cfg.FromName), nil
}

// NewGmailSenderWithService wraps an existing Gmail service.
func NewGmailSenderWithService(srv *gmail.Service, from, fromName string) *GmailSender {
	return &GmailSender{service: srv, from: from, fromName: fromName}
}

// Send uploads msg as a raw RFC 5322 message.
func (s *GmailSender) Send(ctx context.Context, msg model.Message) error {
	m, err := buildMessage(s.from, s.fromName, msg)
	if err != nil {
		return err
	}

	var raw bytes.Buffer
	if _, err := m.WriteTo(&raw); err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	_, err = s.service.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw.Bytes()),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail delivery to %s failed: %w", msg.To, err)
	}
	return nil
}
