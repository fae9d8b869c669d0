package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Birukzex/NCS/internal/domain"
)

// RedisStore implements the Store interface on a Redis key. It suits
// deployments that already run Redis with persistence enabled; the engine
// itself makes no durability guarantees beyond what the server provides.
type RedisStore struct {
	client *redis.Client
	slot   string
}

// NewRedisStore creates a new Redis session store from a connection URL
// (redis://host:port/db).
func NewRedisStore(redisURL, slot string) (*RedisStore, error) {
	if slot == "" {
		slot = DefaultSlot
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisStore{client: client, slot: slot}, nil
}

// Load reads the aggregate from the slot key. Absent or malformed payloads
// load as nil without error.
func (s *RedisStore) Load(ctx context.Context) (*domain.PatientData, error) {
	payload, err := s.client.Get(ctx, s.slot).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot: %w", err)
	}

	data := &domain.PatientData{}
	if err := json.Unmarshal([]byte(payload), data); err != nil {
		// Malformed payload is treated as absent.
		return nil, nil
	}
	return data, nil
}

// Save serializes the full aggregate into the slot key. The key never
// expires; the session is cleared explicitly.
func (s *RedisStore) Save(ctx context.Context, data *domain.PatientData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	if err := s.client.Set(ctx, s.slot, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to write slot: %w", err)
	}
	return nil
}

// Clear deletes the slot key.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.slot).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
