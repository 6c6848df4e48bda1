package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// ProductCacheは商品詳細をRedisにJSONで置く
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *ProductCache) Get(ctx context.Context, id int64) (model.Product, bool, error) {
	raw, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Product{}, false, nil
	}
	if err != nil {
		return model.Product{}, false, err
	}
	var p model.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		// 壊れた値はmiss扱い
		return model.Product{}, false, nil
	}
	return p, true, nil
}

func (c *ProductCache) Set(ctx context.Context, p model.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productKey(p.ID), data, c.ttl).Err()
}

func (c *ProductCache) Delete(ctx context.Context, id int64) error {
	return c.client.Del(ctx, productKey(id)).Err()
}
