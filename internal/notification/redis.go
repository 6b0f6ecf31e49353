package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStreamNotifier appends events to a Redis stream, one JSON document per
// entry under the "event" field.
type RedisStreamNotifier struct {
	client *redis.Client
	stream string
}

// NewRedisStreamNotifier publishes to stream using client.
func NewRedisStreamNotifier(client *redis.Client, stream string) *RedisStreamNotifier {
	return &RedisStreamNotifier{client: client, stream: stream}
}

// Send appends the event to the stream.
func (n *RedisStreamNotifier) Send(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	args := &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]any{
			"kind":  event.Kind,
			"event": payload,
		},
	}
	if err := n.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
