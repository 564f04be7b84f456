package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// maxStreamLen caps the shared stream; trimming is approximate.
	maxStreamLen = 10000
	// maxOwnerStreamLen caps each owner's stream.
	maxOwnerStreamLen = 500
)

// ErrInvalidEvent is returned for events missing a draft id or owner.
var ErrInvalidEvent = errors.New("invalid draft event")

// Publisher publishes draft events to Redis Streams.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher creates a Publisher connected to redisURL.
func NewPublisher(redisURL string) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return NewPublisherFromClient(redis.NewClient(opts)), nil
}

// NewPublisherFromClient wraps an existing client.
func NewPublisherFromClient(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// PublishDraftGenerated appends evt to StreamDraftsGenerated and to the
// owner's stream in one transaction. It returns the shared stream's message id.
func (p *Publisher) PublishDraftGenerated(ctx context.Context, evt DraftGenerated) (string, error) {
	if evt.DraftID == 0 || strings.TrimSpace(evt.UserEmail) == "" {
		return "", fmt.Errorf("%w: draft_id and user_email are required", ErrInvalidEvent)
	}
	if evt.GeneratedAt.IsZero() {
		evt.GeneratedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return "", fmt.Errorf("failed to marshal event: %w", err)
	}
	values := map[string]interface{}{
		"payload":        string(payload),
		"draft_id":       evt.DraftID,
		"platform":       evt.Platform,
		"published_at":   time.Now().Unix(),
		"schema_version": SchemaVersionV1,
	}

	var shared *redis.StringCmd
	_, err = p.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		shared = pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: StreamDraftsGenerated,
			MaxLen: maxStreamLen,
			Approx: true,
			ID:     "*",
			Values: values,
		})
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: OwnerStream(evt.UserEmail),
			MaxLen: maxOwnerStreamLen,
			Approx: true,
			ID:     "*",
			Values: values,
		})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish to stream: %w", err)
	}

	return shared.Val(), nil
}

// Close closes the Redis client connection
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
