package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"licorera-pos/model"
)

// ErrNoSnapshot is returned by Load when no snapshot has been saved yet or
// it has expired.
var ErrNoSnapshot = errors.New("catalog: no snapshot")

// RedisStore keeps the catalog snapshot as a JSON blob under a single key.
// The TTL bounds how stale an offline terminal can get.
type RedisStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, key string, ttl time.Duration) *RedisStore {
	if key == "" {
		key = "catalog:snapshot"
	}
	return &RedisStore{rdb: rdb, key: key, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, products []model.Product) error {
	buf, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return s.rdb.SetEx(ctx, s.key, buf, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context) ([]model.Product, error) {
	buf, err := s.rdb.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	var products []model.Product
	if err := json.Unmarshal(buf, &products); err != nil {
		return nil, err
	}
	return products, nil
}
