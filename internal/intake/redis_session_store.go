package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// sessionTTL bounds how long an idle intake conversation is kept. Redis only
// shares sessions between replicas; durability across restarts is still not
// guaranteed and not promised.
const sessionTTL = 24 * time.Hour

// RedisSessionStore keeps sessions in Redis with a sliding TTL.
type RedisSessionStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

// NewRedisSessionStore creates a Redis-backed session store. A nil client
// yields a nil store; callers fall back to the in-memory store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = sessionTTL
	}
	return &RedisSessionStore{
		redis:  client,
		tracer: otel.Tracer("intake.session_store"),
		ttl:    ttl,
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf("intake_session:%s", id)
}

func (r *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	ctx, span := r.tracer.Start(ctx, "intake.session.get")
	defer span.End()

	data, err := r.redis.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("intake: load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("intake: decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisSessionStore) Put(ctx context.Context, s *Session) error {
	ctx, span := r.tracer.Start(ctx, "intake.session.put")
	defer span.End()

	data, err := json.Marshal(s)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("intake: marshal session: %w", err)
	}
	if err := r.redis.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("intake: persist session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "intake.session.delete")
	defer span.End()

	if err := r.redis.Del(ctx, sessionKey(id)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("intake: delete session: %w", err)
	}
	return nil
}
