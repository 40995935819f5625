package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisSink publishes events over Redis pub/sub channels, one channel per
// event name under a shared prefix.
type RedisSink struct {
	client *redis.Client
	prefix string
}

// NewRedisSink creates a pub/sub sink over the given client.
func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client, prefix: "events"}
}

func (s *RedisSink) Publish(ctx context.Context, event string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}
	channel := fmt.Sprintf("%s:%s", s.prefix, event)
	if err := s.client.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event, err)
	}
	return nil
}
