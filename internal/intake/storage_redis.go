package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultDraftTTL bounds how long an abandoned draft survives.
const DefaultDraftTTL = 24 * time.Hour

// RedisStorage keeps drafts in Redis. Every write refreshes the TTL so a
// draft lives as long as the visitor keeps working, like browser session storage.
type RedisStorage struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStorage wraps client. A non-positive ttl uses DefaultDraftTTL.
func NewRedisStorage(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *RedisStorage {
	if client == nil {
		panic("intake: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	if tracer == nil {
		tracer = otel.Tracer("coaching.internal.intake.drafts")
	}
	return &RedisStorage{redis: client, ttl: ttl, tracer: tracer}
}

func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "intake.draft.get", trace.WithAttributes(attribute.String("draft.key", key)))
	defer span.End()

	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStorageMiss
		}
		span.RecordError(err)
		return nil, fmt.Errorf("intake: failed to load draft: %w", err)
	}
	return data, nil
}

func (s *RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := s.tracer.Start(ctx, "intake.draft.set", trace.WithAttributes(attribute.String("draft.key", key)))
	defer span.End()

	if err := s.redis.Set(ctx, key, value, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("intake: failed to persist draft: %w", err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	ctx, span := s.tracer.Start(ctx, "intake.draft.delete", trace.WithAttributes(attribute.String("draft.key", key)))
	defer span.End()

	if err := s.redis.Del(ctx, key).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("intake: failed to delete draft: %w", err)
	}
	return nil
}
