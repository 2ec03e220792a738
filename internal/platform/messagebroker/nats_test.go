package messagebroker

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNatsClient_Unreachable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := NewNatsClient("nats://127.0.0.1:1", "test", logger)
	require.Error(t, err)
	assert.Nil(t, c)
}

func TestNatsClient_PublishCancelledContext(t *testing.T) {
	c := &NatsClient{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.Publish(ctx, "contacts.changed", []byte(`{}`)), context.Canceled)
}

func TestNatsClient_CloseWithoutConnection(t *testing.T) {
	var c *NatsClient
	assert.NotPanics(t, c.Close)
	assert.NotPanics(t, (&NatsClient{}).Close)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), "calllog.changed", nil))
}
