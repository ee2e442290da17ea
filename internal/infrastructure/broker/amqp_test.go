package broker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialAMQP_BadURL(t *testing.T) {
	p, err := DialAMQP("http://localhost:5672", "listing_notifications")
	assert.Nil(t, p)
	assert.ErrorContains(t, err, "failed to connect to RabbitMQ")
}

func TestPublish_AfterClose(t *testing.T) {
	p := &AMQPPublisher{closed: true}
	assert.ErrorIs(t, p.Publish(context.Background(), []byte(`{}`)), ErrClosed)
	assert.NoError(t, p.Close())
}

func TestPublish_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &AMQPPublisher{}
	assert.ErrorIs(t, p.Publish(ctx, nil), context.Canceled)
}
