package cache

import (
	"context"
	"errors"
	"time"

	"github.com/ml-muebles/storefront/internal/cart"

	"github.com/redis/go-redis/v9"
)

// ErrRedisDisabled Redis 未启用
var ErrRedisDisabled = errors.New("redis is disabled")

// CartStorage 以 Redis 字符串保存购物车快照，写入时刷新过期时间
type CartStorage struct {
	ttl time.Duration
}

// NewCartStorage 创建 Redis 购物车存储；ttl <= 0 表示不过期
func NewCartStorage(ttl time.Duration) *CartStorage {
	return &CartStorage{ttl: ttl}
}

// Load 读取快照，不存在时返回 cart.ErrNotFound
func (s *CartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if !Enabled() {
		return nil, ErrRedisDisabled
	}
	payload, err := redisClient.Get(ctx, buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Save 写入快照
func (s *CartStorage) Save(ctx context.Context, key string, payload []byte) error {
	if !Enabled() {
		return ErrRedisDisabled
	}
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	return redisClient.Set(ctx, buildKey(key), payload, ttl).Err()
}
