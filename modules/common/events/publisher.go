package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const TypeBatchGenerated = "batch_generated"

// BatchEvent is emitted once per successfully applied generation batch.
type BatchEvent struct {
	Type        string    `json:"type"`
	SessionID   string    `json:"sessionId"`
	CreativeIDs []string  `json:"creativeIds"`
	Credits     int       `json:"credits"`
	Cost        int       `json:"cost"`
	At          time.Time `json:"at"`
}

// Publisher delivers batch events to external subscribers.
type Publisher interface {
	PublishBatch(ctx context.Context, event BatchEvent) error
}

// RedisPublisher publishes events on a Redis pub/sub channel.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) PublishBatch(ctx context.Context, event BatchEvent) error {
	payload, err := Encode(event)
	if err != nil {
		return err
	}

	receivers, err := p.rdb.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}

	log.Printf("📢 [Events] %s for session %s delivered to %d subscribers", event.Type, event.SessionID, receivers)
	return nil
}

// NoopPublisher drops every event. Used when Redis is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBatch(context.Context, BatchEvent) error { return nil }

// Encode fills the type and serializes the event.
func Encode(event BatchEvent) ([]byte, error) {
	if event.Type == "" {
		event.Type = TypeBatchGenerated
	}
	if event.CreativeIDs == nil {
		event.CreativeIDs = []string{}
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", event.Type, err)
	}
	return payload, nil
}
