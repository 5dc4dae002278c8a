package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"pokepolice/backend/internal/config"
	"pokepolice/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher announces registry changes to other moderation tooling.
type Publisher interface {
	Publish(ctx context.Context, event models.ModerationEvent) error
}

// EventPublisher publishes moderation events over Redis Pub/Sub.
// A nil publisher or one without a Redis client drops events silently.
type EventPublisher struct {
	Redis   *redis.Client
	Channel string
}

func NewEventPublisher(rdb *redis.Client) *EventPublisher {
	return &EventPublisher{Redis: rdb, Channel: config.ModerationChannel}
}

// ConnectRedis opens and pings Redis. It returns nil, nil when no address is configured.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		logger.Info("REDIS_ADDR not set, moderation events disabled")
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Publish serializes event as JSON onto the moderation channel.
func (p *EventPublisher) Publish(ctx context.Context, event models.ModerationEvent) error {
	if p == nil || p.Redis == nil {
		return nil
	}
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}
	if err := p.Redis.Publish(ctx, p.Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

func encodeEvent(event models.ModerationEvent) ([]byte, error) {
	if event.At.IsZero() {
		event.At = now().UTC()
	}
	return json.Marshal(event)
}
