package notify

import (
	"context"
	"fmt"

	"github.com/Veraticus/visawatch/internal/common"
	"github.com/Veraticus/visawatch/internal/model"
	"github.com/wneessen/go-mail"
)

// Sender delivers one rendered message. Implementations make exactly one
// delivery attempt per call.
type Sender interface {
	Send(ctx context.Context, msg model.Message) error
}

// NewSender builds the sender for the configured channel.
func NewSender(ctx context.Context, cfg Config) (Sender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Channel {
	case ChannelSMTP:
		return NewSMTPSender(cfg), nil
	case ChannelGmail:
		return NewGmailSender(ctx, cfg)
	default:
		return nil, common.ErrChannelNotConfigured
	}
}

// buildMessage converts a rendered message into a MIME message.
func buildMessage(from, fromName string, msg model.Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if fromName != "" {
		if err := m.FromFormat(fromName, from); err != nil {
			return nil, fmt.Errorf("invalid sender address: %w", err)
		}
	} else if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidRecipient, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}
