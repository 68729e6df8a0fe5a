package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

type Cache interface {
	Get(ctx context.Context, symbol string) (Quote, bool, error)
	Set(ctx context.Context, symbol string, q Quote) error
}

// Cached serves recent quotes from a Cache and falls through to the
// provider on a miss. Lookups on a Fresh context always reach the provider.
// Cache failures are logged and never fail a lookup.
type Cached struct {
	next  Provider
	cache Cache
}

func NewCached(next Provider, cache Cache) *Cached {
	return &Cached{next: next, cache: cache}
}

func (c *Cached) Lookup(ctx context.Context, symbol string) (Quote, error) {
	if !IsFresh(ctx) {
		q, ok, err := c.cache.Get(ctx, symbol)
		if err != nil {
			log.Printf("quote cache get %s: %v", symbol, err)
		}
		if ok {
			return q, nil
		}
	}
	q, err := c.next.Lookup(ctx, symbol)
	if err != nil {
		return Quote{}, err
	}
	if err := c.cache.Set(ctx, symbol, q); err != nil {
		log.Printf("quote cache set %s: %v", symbol, err)
	}
	return q, nil
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// ConnectRedis parses a redis:// URL and checks the server answers.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func cacheKey(symbol string) string {
	return fmt.Sprintf("stock:%s:quote", symbol)
}

func (r *RedisCache) Get(ctx context.Context, symbol string) (Quote, bool, error) {
	raw, err := r.client.Get(ctx, cacheKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Quote{}, false, nil
	}
	if err != nil {
		return Quote{}, false, err
	}
	var q Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		return Quote{}, false, err
	}
	return q, true, nil
}

func (r *RedisCache) Set(ctx context.Context, symbol string, q Quote) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, cacheKey(symbol), payload, r.ttl).Err()
}
