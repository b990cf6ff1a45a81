package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prudentjag/inventory-pos/domain"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 5 * time.Minute,
	}
}

// RedisCache shares catalog reads between terminals of the same unit. Stock
// levels go stale quickly, so the TTL is short.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context, unitID int64) ([]domain.InventoryItem, error) {
	key := cacheKey(unitID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []domain.InventoryItem
	if err2 := json.Unmarshal(data, &items); err2 != nil {
		return nil, fmt.Errorf("unmarshal inventory failed: %w", err2)
	}

	return items, nil
}

func (r *RedisCache) Set(ctx context.Context, unitID int64, items []domain.InventoryItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal inventory failed: %w", err)
	}

	// jitter spreads expiry so terminals don't all refetch at once
	jitter := time.Duration(rand.Intn(30)) * time.Second
	ttl := r.baseTTL + jitter
	if ret := r.client.Set(ctx, cacheKey(unitID), payload, ttl); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, unitID int64) error {
	if err := r.client.Del(ctx, cacheKey(unitID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(unitID int64) string {
	return fmt.Sprintf("inventory:%d", unitID)
}
