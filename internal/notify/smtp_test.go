package notify

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/Veraticus/visawatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closedPort returns a localhost port with nothing listening on it.
func closedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestSMTPSender_UnreachableServer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Channel = ChannelSMTP
	cfg.From = "office@example.edu"
	cfg.Timeout = 2 * time.Second
	cfg.SMTP.Host = "127.0.0.1"
	cfg.SMTP.Port = closedPort(t)
	cfg.SMTP.Username = "office@example.edu"
	cfg.SMTP.Password = "from-the-environment"
	require.NoError(t, cfg.Validate())

	sender, err := NewSender(context.Background(), cfg)
	require.NoError(t, err)

	d := NewDispatcher(sender, nil, WithLogger(quietLogger()), WithTimeout(cfg.Timeout))
	result := d.Dispatch(context.Background(), "grace@example.edu", model.TemplateContext{
		Name:     "Grace",
		Category: "Visa",
		DayDelta: intPtr(9),
	})

	assert.False(t, result.Delivered)
	assert.NotEmpty(t, result.Detail)
}

func TestSMTPSender_RejectsBadSender(t *testing.T) {
	cfg := DefaultConfig()
	cfg.From = "not an address"
	cfg.SMTP.Host = "127.0.0.1"

	err := NewSMTPSender(cfg).Send(context.Background(), model.Message{To: "grace@example.edu"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sender address")
}
