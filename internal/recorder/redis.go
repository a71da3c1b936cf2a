package recorder

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"FuturesScanner/internal/model"
)

// Publisher is the subset of the redis client used by RedisRecorder.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// RedisRecorder publishes each signal as JSON on a pub/sub channel.
type RedisRecorder struct {
	client  Publisher
	channel string
}

// NewRedisRecorder connects to addr and verifies the connection.
func NewRedisRecorder(ctx context.Context, addr, password, channel string) (*RedisRecorder, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedisRecorderWithClient(client, channel), nil
}

// NewRedisRecorderWithClient wraps an existing client.
func NewRedisRecorderWithClient(client Publisher, channel string) *RedisRecorder {
	return &RedisRecorder{client: client, channel: channel}
}

func (r *RedisRecorder) RecordSignal(ctx context.Context, e *model.SignalLogEntry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal signal: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", r.channel, err)
	}
	return nil
}

func (r *RedisRecorder) Close() error {
	return r.client.Close()
}
