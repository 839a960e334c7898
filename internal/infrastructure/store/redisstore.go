package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"espbridge/internal/domain"
	"espbridge/internal/ports"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisStore keeps the whole integration collection as one JSON value under
// a single key, preserving the read-fully/rewrite-fully contract of the
// file store.
type RedisStore struct {
	client *redis.Client
	key    string
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed integration store.
func NewRedisStore(client *redis.Client, key string, logger zerolog.Logger) ports.IntegrationStore {
	return &RedisStore{client: client, key: key, logger: logger}
}

func (s *RedisStore) Load(ctx context.Context) ([]domain.Integration, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.Integration{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store key: %w", err)
	}

	var integrations []domain.Integration
	if err := json.Unmarshal(data, &integrations); err != nil {
		s.logger.Warn().
			Err(err).
			Str("key", s.key).
			Msg("Store value is corrupt, treating as empty")
		return []domain.Integration{}, nil
	}
	return integrations, nil
}

func (s *RedisStore) Save(ctx context.Context, integrations []domain.Integration) error {
	data, err := json.Marshal(integrations)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write store key: %w", err)
	}
	return nil
}
