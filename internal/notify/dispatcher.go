package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/Veraticus/visawatch/internal/common"
	"github.com/Veraticus/visawatch/internal/model"
	"github.com/google/uuid"
)

// Dispatcher renders a notification for one record and makes a single
// delivery attempt. It holds no per-recipient state: calling it twice sends
// twice.
type Dispatcher struct {
	sender  Sender
	catalog *Catalog
	logger  *slog.Logger
	timeout time.Duration
}

// Option is a functional option for configuring the Dispatcher.
type Option func(*Dispatcher)

// WithTimeout bounds each delivery attempt.
func WithTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

// WithLogger sets the logger used for attempt records.
func WithLogger(logger *slog.Logger) Option {
	return func(disp *Dispatcher) {
		if logger != nil {
			disp.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher. A nil sender is allowed: previews work
// and every dispatch reports the channel as not configured.
func NewDispatcher(sender Sender, catalog *Catalog, opts ...Option) *Dispatcher {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	d := &Dispatcher{
		sender:  sender,
		catalog: catalog,
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Preview renders the message that Dispatch would send, without sending it.
func (d *Dispatcher) Preview(recipient string, tctx model.TemplateContext) (model.Message, error) {
	to, err := parseRecipient(recipient)
	if err != nil {
		return model.Message{}, err
	}
	return d.catalog.Render(to, tctx), nil
}

// Dispatch makes exactly one delivery attempt. It never returns an error or
// panics; failures come back as Delivered=false with a readable Detail.
func (d *Dispatcher) Dispatch(ctx context.Context, recipient string, tctx model.TemplateContext) (result model.NotificationResult) {
	result = model.NotificationResult{
		AttemptID: uuid.NewString(),
		Recipient: recipient,
	}
	logger := d.logger.With("attempt_id", result.AttemptID, "recipient", recipient, "category", tctx.Category)

	defer func() {
		if r := recover(); r != nil {
			result.Delivered = false
			result.Detail = fmt.Sprintf("notification failed unexpectedly: %v", r)
			logger.Error("notification dispatch panicked", "panic", r)
		}
	}()

	fail := func(err error) model.NotificationResult {
		result.Delivered = false
		result.Detail = err.Error()
		logger.Warn("notification not delivered", "error", err)
		return result
	}

	if d.sender == nil {
		return fail(common.ErrChannelNotConfigured)
	}

	msg, err := d.Preview(recipient, tctx)
	if err != nil {
		return fail(err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	if err := d.sender.Send(sendCtx, msg); err != nil {
		if errors.Is(sendCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", d.timeout, err)
		}
		return fail(err)
	}

	result.Delivered = true
	logger.Info("notification delivered",
		"subject", msg.Subject,
		"duration", time.Since(start).Round(time.Millisecond))
	return result
}

func parseRecipient(recipient string) (string, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return "", fmt.Errorf("%w: empty address", common.ErrInvalidRecipient)
	}
	addr, err := mail.ParseAddress(recipient)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", common.ErrInvalidRecipient, recipient, err)
	}
	return addr.Address, nil
}
