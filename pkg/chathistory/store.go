package chathistory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-helpdesk-be/pkg/schema"

	"github.com/redis/go-redis/v9"
)

// Store is the shared per-session cache of chat state. TTL/eviction is
// the store's concern, not the manager's.
type Store interface {
	Get(ctx context.Context, sessionID string) (*schema.ChatState, error)
	Set(ctx context.Context, state *schema.ChatState) error
	Delete(ctx context.Context, sessionID string) error
}

const chatStateKeyPrefix = "chat_state:"

// RedisStore keeps chat state in redis as JSON blobs.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = &RedisStore{}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*schema.ChatState, error) {
	raw, err := s.client.Get(ctx, chatStateKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get chat state: %w", err)
	}

	var state schema.ChatState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal chat state: %w", err)
	}
	return &state, nil
}

func (s *RedisStore) Set(ctx context.Context, state *schema.ChatState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal chat state: %w", err)
	}
	if err := s.client.Set(ctx, chatStateKeyPrefix+state.SessionID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set chat state: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, chatStateKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis delete chat state: %w", err)
	}
	return nil
}
