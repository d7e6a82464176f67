// Package cache keeps search results in Redis in front of a scout engine.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
)

var ErrCacheMiss = errors.New("cache miss")

// Client is the subset of *redis.Client the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Close() error
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ResultCache stores search results under keys scoped by an index generation.
// Bumping the generation makes every earlier entry unreachable.
type ResultCache struct {
	client Client
	prefix string
}

// NewRedisResultCache connects to Redis and verifies the connection.
func NewRedisResultCache(cfg RedisConfig, prefix string) (*ResultCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewResultCache(client, prefix), nil
}

func NewResultCache(client Client, prefix string) *ResultCache {
	return &ResultCache{client: client, prefix: prefix}
}

func (c *ResultCache) generationKey(category string) string {
	return fmt.Sprintf("%s:%s:gen", c.prefix, category)
}

// Generation returns the current generation of category. A missing counter is generation 0.
func (c *ResultCache) Generation(ctx context.Context, category string) (int64, error) {
	v, err := c.client.Get(ctx, c.generationKey(category)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get generation from redis: %w", err)
	}
	gen, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid generation %q: %w", v, err)
	}
	return gen, nil
}

// Bump invalidates every cached result of category.
func (c *ResultCache) Bump(ctx context.Context, category string) error {
	if err := c.client.Incr(ctx, c.generationKey(category)).Err(); err != nil {
		return fmt.Errorf("failed to bump generation in redis: %w", err)
	}
	return nil
}

// BuildKey creates a cache key for a search fingerprint at generation gen.
func (c *ResultCache) BuildKey(category string, gen int64, fingerprint string) string {
	return fmt.Sprintf("%s:%s:%d:%s", c.prefix, category, gen, fingerprint)
}

func (c *ResultCache) Get(ctx context.Context, key string) (*scout.Results, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var result scout.Results
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &result, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, result *scout.Results, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

func (c *ResultCache) Close() error {
	return c.client.Close()
}

// fingerprint identifies a search by everything that affects its result.
func fingerprint(op string, b *scout.Builder, perPage, page int) string {
	data, _ := json.Marshal(struct {
		Op      string        `json:"op"`
		Query   string        `json:"q"`
		Wheres  []scout.Where `json:"w"`
		Limit   int           `json:"l"`
		PerPage int           `json:"pp"`
		Page    int           `json:"p"`
	}{op, b.Query, b.Wheres, b.Limit, perPage, page})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
