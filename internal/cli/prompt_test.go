package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full yes", input: "  YES \n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty line", input: "\n", want: false},
		{name: "eof", input: "", want: false},
		{name: "yes without newline", input: "y", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Confirm(context.Background(), "Send 3 notifications?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Send 3 notifications? [y/N]")
		})
	}
}

func TestPrompter_ReadLineCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	p := NewPrompter(pr, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}
