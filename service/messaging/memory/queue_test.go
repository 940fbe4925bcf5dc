package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/markflow/service/messaging"
)

type payload struct {
	Workflow   string
	Transition string
}

func TestQueue_PublishConsume(t *testing.T) {
	queue := NewQueue[payload](DefaultConfig())
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &payload{Workflow: "review", Transition: "approve"}))
	assert.Equal(t, 1, queue.Size())

	msg, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID())
	assert.Equal(t, "approve", msg.T().Transition)
	assert.Equal(t, 0, queue.Size())
	assert.NoError(t, msg.Ack())
	assert.Error(t, msg.Ack())
}

func TestQueue_NackRetriesThenDeadLetters(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 1
	config.RetryDelay = time.Millisecond
	queue := NewQueue[payload](config)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, queue.Publish(ctx, &payload{Workflow: "review"}))
	msg, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, msg.Nack(errors.New("boom")))

	retry, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, msg.ID(), retry.ID())
	require.NoError(t, retry.Nack(errors.New("boom again")))

	dead := queue.DeadLetters()
	require.Len(t, dead, 1)
	assert.EqualError(t, dead[0].Err(), "boom again")
}

func TestQueue_Close(t *testing.T) {
	queue := NewQueue[payload](DefaultConfig())
	require.NoError(t, queue.Close())
	require.NoError(t, queue.Close())

	err := queue.Publish(context.Background(), &payload{})
	assert.ErrorIs(t, err, messaging.ErrClosed)
	_, err = queue.Consume(context.Background())
	assert.ErrorIs(t, err, messaging.ErrClosed)
}

func TestQueue_ConsumeCancelled(t *testing.T) {
	queue := NewQueue[payload](DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := queue.Consume(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
