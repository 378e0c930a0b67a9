package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{name: "with custom writer", writer: &bytes.Buffer{}},
		{name: "with nil writer", writer: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer)
			assert.NotNil(t, handler)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.WasInterrupted())
		})
	}
}

func TestInterruptHandler_ReportsProgress(t *testing.T) {
	var out bytes.Buffer
	handler := NewInterruptHandler(&out)

	ctx, cancel := handler.HandleInterrupts(context.Background(), func() (int, int) { return 2, 5 })
	defer cancel()

	handler.interrupt()
	handler.interrupt()

	assert.True(t, handler.WasInterrupted())
	assert.Contains(t, out.String(), "Notification run interrupted!")
	assert.Contains(t, out.String(), "2 of 5 notifications were attempted")
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("interrupted!")), "message is printed once")
	assert.NoError(t, ctx.Err(), "calling interrupt directly does not cancel")
}

func TestInterruptHandler_CancelStopsWatching(t *testing.T) {
	handler := NewInterruptHandler(io.Discard)
	ctx, cancel := handler.HandleInterrupts(context.Background(), nil)
	cancel()

	<-ctx.Done()
	assert.False(t, handler.WasInterrupted())
}
