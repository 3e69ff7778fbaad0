// Package pubsub is the best-effort live push bus. Channels are keyed by
// recipient id; any server process holding a websocket for that user
// subscribes to the same Redis channel, so fan-out works across processes.
// There is no retry and no persistence here - the stored notification row
// is the durable fallback for offline recipients.
package pubsub

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ChannelFor returns the bus channel for a recipient id.
func ChannelFor(recipientID string) string {
	return "notifications:" + recipientID
}

// Bus is the narrow contract the delivery worker and the websocket handler
// share.
type Bus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

type redisBus struct {
	client *redis.Client
}

// NewRedisBus wraps a Redis client as a Bus.
func NewRedisBus(client *redis.Client) Bus {
	return &redisBus{client: client}
}

func (b *redisBus) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

// Subscribe returns a message channel and a cancel function. The channel is
// closed when the subscription ends.
func (b *redisBus) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := b.client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return out, cancel, nil
}
