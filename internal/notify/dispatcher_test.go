package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/visawatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestDispatch(t *testing.T) {
	visa := model.TemplateContext{Name: "Grace", Category: "Visa", DayDelta: intPtr(9)}

	tests := []struct {
		send      func(ctx context.Context, msg model.Message) error
		name      string
		recipient string
		detail    string
		tctx      model.TemplateContext
		wantCalls int
		delivered bool
	}{
		{
			name:      "delivered",
			recipient: "grace@example.edu",
			tctx:      visa,
			wantCalls: 1,
			delivered: true,
		},
		{
			name:      "display name form is accepted",
			recipient: "Grace Hopper <grace@example.edu>",
			tctx:      visa,
			wantCalls: 1,
			delivered: true,
		},
		{
			name:      "channel failure",
			recipient: "grace@example.edu",
			tctx:      visa,
			send: func(_ context.Context, _ model.Message) error {
				return errors.New("535 authentication failed")
			},
			wantCalls: 1,
			detail:    "535 authentication failed",
		},
		{
			name:      "malformed recipient never reaches the channel",
			recipient: "not-an-address",
			tctx:      visa,
			detail:    "invalid recipient",
		},
		{
			name:      "empty recipient",
			recipient: "  ",
			tctx:      visa,
			detail:    "invalid recipient",
		},
		{
			name:      "empty name still sends",
			recipient: "grace@example.edu",
			tctx:      model.TemplateContext{Category: "Visa", DayDelta: intPtr(2)},
			wantCalls: 1,
			delivered: true,
		},
		{
			name:      "panicking channel is contained",
			recipient: "grace@example.edu",
			tctx:      visa,
			send: func(_ context.Context, _ model.Message) error {
				panic("driver exploded")
			},
			wantCalls: 1,
			detail:    "driver exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := NewMockSender()
			sender.SendFunc = tt.send
			d := NewDispatcher(sender, nil, WithLogger(quietLogger()))

			var result model.NotificationResult
			require.NotPanics(t, func() {
				result = d.Dispatch(context.Background(), tt.recipient, tt.tctx)
			})

			assert.Equal(t, tt.delivered, result.Delivered)
			assert.Equal(t, tt.wantCalls, sender.Calls())
			assert.NotEmpty(t, result.AttemptID)
			assert.Equal(t, tt.recipient, result.Recipient)
			if tt.delivered {
				assert.Empty(t, result.Detail)
			} else {
				assert.Contains(t, result.Detail, tt.detail)
			}
		})
	}
}

func TestDispatch_SendsExactlyOneMessagePerCall(t *testing.T) {
	sender := NewMockSender()
	d := NewDispatcher(sender, nil, WithLogger(quietLogger()))
	tctx := model.TemplateContext{Name: "Ada", Category: "Visa", DayDelta: intPtr(-17)}

	first := d.Dispatch(context.Background(), "ada@example.edu", tctx)
	second := d.Dispatch(context.Background(), "ada@example.edu", tctx)

	assert.True(t, first.Delivered)
	assert.True(t, second.Delivered)
	assert.NotEqual(t, first.AttemptID, second.AttemptID)
	require.Len(t, sender.Sent, 2, "repeated dispatches send repeated messages")
	assert.Equal(t, "Action required: your visa has expired", sender.Sent[0].Subject)
	assert.Equal(t, "ada@example.edu", sender.Sent[0].To)
}

func TestDispatch_NoRetryOnFailure(t *testing.T) {
	sender := NewMockSender()
	sender.SendFunc = func(_ context.Context, _ model.Message) error {
		return errors.New("connection refused")
	}
	d := NewDispatcher(sender, nil, WithLogger(quietLogger()))

	result := d.Dispatch(context.Background(), "ada@example.edu", model.TemplateContext{Category: "Visa"})

	assert.False(t, result.Delivered)
	assert.Equal(t, 1, sender.Calls())
}

func TestDispatch_Timeout(t *testing.T) {
	sender := NewMockSender()
	sender.SendFunc = func(ctx context.Context, _ model.Message) error {
		<-ctx.Done()
		return ctx.Err()
	}
	d := NewDispatcher(sender, nil, WithLogger(quietLogger()), WithTimeout(20*time.Millisecond))

	start := time.Now()
	result := d.Dispatch(context.Background(), "ada@example.edu", model.TemplateContext{Category: "Visa"})

	assert.False(t, result.Delivered)
	assert.Contains(t, result.Detail, "timed out after 20ms")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDispatch_NoChannel(t *testing.T) {
	d := NewDispatcher(nil, nil, WithLogger(quietLogger()))

	result := d.Dispatch(context.Background(), "ada@example.edu", model.TemplateContext{Category: "Visa"})

	assert.False(t, result.Delivered)
	assert.Contains(t, result.Detail, "not configured")

	msg, err := d.Preview("ada@example.edu", model.TemplateContext{Name: "Ada", Category: "Visa", DayDelta: intPtr(5)})
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "5 days remaining")
}

func TestPreview_InvalidRecipient(t *testing.T) {
	d := NewDispatcher(NewMockSender(), nil)

	_, err := d.Preview("nobody", model.TemplateContext{})
	assert.Error(t, err)
}
