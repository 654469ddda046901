package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"school-registry-go/models"
)

// DefaultEventsChannel is the pub/sub channel used when none is configured
const DefaultEventsChannel = "school:events"

// EventPublisher announces registry mutations to interested listeners
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// NopPublisher drops every event. Used when Redis is disabled or unreachable.
type NopPublisher struct{}

// Publish implements EventPublisher
func (NopPublisher) Publish(context.Context, models.Event) error { return nil }

// RedisPublisher publishes events as JSON on a Redis pub/sub channel.
// Nothing is stored in Redis.
type RedisPublisher struct {
	Client  *redis.Client
	Channel string
}

// NewRedisPublisher creates a new RedisPublisher instance
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultEventsChannel
	}
	return &RedisPublisher{
		Client:  client,
		Channel: channel,
	}
}

// Publish implements EventPublisher
func (p *RedisPublisher) Publish(ctx context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}

	if err := p.Client.Publish(ctx, p.Channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event %s to Redis: %w", event.Type, err)
	}
	return nil
}

// Close releases the underlying client
func (p *RedisPublisher) Close() error {
	return p.Client.Close()
}

// RedisOptions selects the Redis server used for events
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// InitializeRedisClient creates a Redis client and pings it
func InitializeRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", opts.Addr, err)
	}

	slog.Info("Successfully connected to Redis", "addr", opts.Addr, "db", opts.DB)
	return rdb, nil
}
