// File: services/conversation/store.go
package conversation

import (
	"context"
	"encoding/json"
	"time"

	"stayfinder/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "chat:sess:"

// Store keeps one BookingState per session ID. A missing session yields a
// fresh state; implementations must never share state across session IDs.
type Store interface {
	Get(ctx context.Context, sessionID string) (*models.BookingState, error)
	Set(ctx context.Context, sessionID string, state *models.BookingState) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore persists session state in Redis with an inactivity TTL. The TTL
// is refreshed on every write, so active conversations never expire mid-turn.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*models.BookingState, error) {
	key := sessionPrefix + sessionID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return models.NewBookingState(), nil
	}
	if err != nil {
		return nil, err
	}
	var state models.BookingState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID string, state *models.BookingState) error {
	key := sessionPrefix + sessionID
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	key := sessionPrefix + sessionID
	return s.client.Del(ctx, key).Err()
}
