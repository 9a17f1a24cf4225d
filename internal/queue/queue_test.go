package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	q := NewInMemory(4)
	msgs, err := q.Consume(ctx)
	assert.NoError(t, err)

	want := Message{Type: "recorded", Body: []byte("rec-123")}
	assert.NoError(t, q.Publish(ctx, want))

	got := <-msgs
	assert.Equal(t, want.Type, got.Type)
	assert.Equal(t, want.Body, got.Body)
}

func TestInMemoryPublishCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := NewInMemory(0)
	err := q.Publish(ctx, Message{Type: "recorded"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSerializeRoundTrip(t *testing.T) {
	msg := Message{Type: "recorded", Body: []byte("rec-123")}
	assert.Equal(t, msg, deserialize(serialize(msg)))

	// Untyped payloads survive as bare bodies.
	assert.Equal(t, Message{Body: []byte("bare")}, deserialize("bare"))
}
