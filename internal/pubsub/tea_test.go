package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContinuousListener_ReceivesInOrder(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewContinuousListener[string](ctx, broker)
	broker.Publish(CreatedEvent, "first")
	broker.Publish(UpdatedEvent, "second")

	msg := listener.Listen()()
	event, ok := msg.(Event[string])
	require.True(t, ok)
	require.Equal(t, "first", event.Payload)

	msg = listener.Listen()()
	event, ok = msg.(Event[string])
	require.True(t, ok)
	require.Equal(t, "second", event.Payload)
}

func TestListenCmd_NilAfterCancel(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	cancel()

	require.Nil(t, ListenCmd(ctx, ch)())
}

func TestListenCmd_NilOnClosedChannel(t *testing.T) {
	broker := NewBroker[int]()
	ch := broker.Subscribe(context.Background())
	broker.Close()

	require.Nil(t, ListenCmd(context.Background(), ch)())
}
