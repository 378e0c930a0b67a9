package notify

import (
	"context"
	"fmt"

	"github.com/Veraticus/visawatch/internal/model"
	"github.com/wneessen/go-mail"
)

// SMTPSender delivers messages through an authenticated SMTP server.
type SMTPSender struct {
	config Config
}

// NewSMTPSender creates an SMTP sender. The connection is opened per send.
func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{config: cfg}
}

// Send dials the server, sends msg and closes the connection.
func (s *SMTPSender) Send(ctx context.Context, msg model.Message) error {
	m, err := buildMessage(s.config.From, s.config.FromName, msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.config.SMTP.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp delivery to %s failed: %w", msg.To, err)
	}
	return nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	cfg := s.config.SMTP
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(s.config.Timeout),
	}

	switch cfg.TLSPolicy {
	case "none":
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	case "opportunistic":
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if cfg.SSL {
		opts = append(opts, mail.WithSSL())
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return opts
}
