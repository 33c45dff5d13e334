package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"hootsuite-publisher/domain/model"
)

const DefaultTokenKey = "hootsuite:oauth_tokens"

type keyValue interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisTokenStore keeps the token pair as a single JSON value so both
// tokens are always replaced together.
type RedisTokenStore struct {
	client keyValue
	key    string
}

func NewRedisTokenStore(client keyValue, key string) *RedisTokenStore {
	if key == "" {
		key = DefaultTokenKey
	}
	return &RedisTokenStore{client: client, key: key}
}

func (s *RedisTokenStore) Load(ctx context.Context) (model.TokenPair, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.TokenPair{}, nil
	}
	if err != nil {
		return model.TokenPair{}, err
	}
	var pair model.TokenPair
	if err := json.Unmarshal(raw, &pair); err != nil {
		return model.TokenPair{}, err
	}
	return pair, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, pair model.TokenPair) error {
	raw, err := json.Marshal(pair)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, raw, 0).Err()
}
